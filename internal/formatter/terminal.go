package formatter

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yildizm/constellog/internal/emoji"
	"github.com/yildizm/constellog/internal/metrics"
	"github.com/yildizm/constellog/internal/parser"
	"github.com/yildizm/constellog/internal/report"
	"github.com/yildizm/go-termfmt"
)

// terminalFormatter formats output as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter with optional color support
func NewTerminal(color bool) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = !emoji.IsEmojiDisabled()
	return &terminalFormatter{opts: opts}
}

func (f *terminalFormatter) Format(rep *report.Report) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b)
	f.writeStatistics(&b, rep)

	for _, run := range rep.Runs {
		f.writeRun(&b, run)
	}

	f.writeMinimumTable(&b, rep)

	return []byte(b.String()), nil
}

// writeHeader writes the box-drawn title
func (f *terminalFormatter) writeHeader(b *strings.Builder) {
	header := "Constellation Search Summary"
	headerLen := len(header)

	b.WriteString("╔" + strings.Repeat("═", headerLen+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", headerLen+2) + "╝\n\n")
}

// writeStatistics writes totals across every run
func (f *terminalFormatter) writeStatistics(b *strings.Builder, rep *report.Report) {
	b.WriteString(emoji.GetEmoji("statistics") + " Statistics\n")

	analyses, solutions, discarded := totals(rep)
	items := []termfmt.TreeItem{
		{Label: "Runs", Value: formatNumber(len(rep.Runs))},
		{Label: "Analyses", Value: formatNumber(analyses)},
		{Label: "Solutions", Value: formatNumber(solutions)},
		{Label: "Discarded", Value: formatNumber(discarded)},
		{Label: "Report", Value: rep.ID, Last: true},
	}

	tree := termfmt.TreeViewWithOptions(items, f.opts)
	b.WriteString(tree + "\n\n")
}

// writeRun writes one run's counts, minima and resource profile
func (f *terminalFormatter) writeRun(b *strings.Builder, run *report.RunSummary) {
	fmt.Fprintf(b, "%s %s\n", emoji.GetEmoji("satellite"), run.Title)

	files := make([]string, 0, len(run.Files))
	for _, path := range run.Files {
		files = append(files, filepath.Base(path))
	}

	items := []termfmt.TreeItem{
		{Label: "Files", Value: strings.Join(files, ", ")},
		{Label: getKindEmoji(parser.EventAnalyzing) + " Analyses", Value: formatNumber(run.AnalysisCount)},
		{Label: getKindEmoji(parser.EventSolution) + " Solutions", Value: formatNumber(run.SolutionCount)},
		{Label: getKindEmoji(parser.EventDiscarded) + " Discarded", Value: formatNumber(run.DiscardedCount)},
	}

	if run.MinSatellites != nil {
		items = append(items,
			termfmt.TreeItem{Label: "Last solution", Value: fmt.Sprintf("%.1f min", run.ElapsedMinutes)},
			termfmt.TreeItem{Label: "Min satellites", Value: describeSolution(run.MinSatellites)},
			termfmt.TreeItem{Label: "Min inclination", Value: describeSolution(run.MinInclination)},
		)
	} else {
		items = append(items, termfmt.TreeItem{Label: "Min satellites", Value: "no solutions"})
	}

	if run.Profile != nil {
		items = append(items, f.profileItem(run.Profile))
	}
	items[len(items)-1].Last = true

	tree := termfmt.TreeViewWithOptions(items, f.opts)
	b.WriteString(tree + "\n\n")
}

// profileItem renders the complexity breakdown as a subtree
func (f *terminalFormatter) profileItem(p *metrics.Profile) termfmt.TreeItem {
	children := make([]termfmt.TreeItem, 0, len(p.Levels))
	for i, lvl := range p.Levels {
		bar := createShareBar(lvl.ComputeHours, p.TotalComputeHours, f.opts)
		children = append(children, termfmt.TreeItem{
			Label: fmt.Sprintf("Level %d", lvl.Level),
			Value: fmt.Sprintf("%s %.2f hrs, %.1f MB avg (%d)", bar, lvl.ComputeHours, lvl.AvgMemoryMB, lvl.Samples),
			Last:  i == len(p.Levels)-1,
		})
	}
	return termfmt.TreeItem{
		Label:    emoji.GetEmoji("clock") + " Resources",
		Value:    fmt.Sprintf("%.1f hrs total, %.1f MB max", p.TotalComputeHours, p.MaxAvgMemoryMB),
		Children: children,
	}
}

// writeMinimumTable writes the min sats / min incl rows as aligned columns
func (f *terminalFormatter) writeMinimumTable(b *strings.Builder, rep *report.Report) {
	var rows [][]string
	for _, run := range rep.Runs {
		if run.MinSatellites == nil {
			continue
		}
		rows = append(rows,
			minimumRow(run, "min sats.", run.MinSatellites),
			minimumRow(run, "min incl.", run.MinInclination),
		)
	}
	if len(rows) == 0 {
		return
	}

	b.WriteString(emoji.GetEmoji("globe") + " Minimum constellations\n")
	header := []string{"Run", "Sats", "Planes", "Incl", "MCG"}
	widths := make([]int, len(header))
	for _, row := range append([][]string{header}, rows...) {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	for _, row := range append([][]string{header}, rows...) {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = fmt.Sprintf("%-*s", widths[i], cell)
		}
		b.WriteString(strings.TrimRight(strings.Join(cells, "  "), " ") + "\n")
	}
}

func minimumRow(run *report.RunSummary, kind string, s *parser.SolutionSample) []string {
	return []string{
		fmt.Sprintf("%s %s (%s)", run.Key.Place, run.Key.Model, kind),
		fmt.Sprintf("%d", s.TotalSatellites),
		fmt.Sprintf("%d", s.Planes),
		fmt.Sprintf("%.1f", s.InclinationDeg),
		fmt.Sprintf("%.1f", s.MaxContactGap),
	}
}
