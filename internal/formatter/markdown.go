package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/constellog/internal/parser"
	"github.com/yildizm/constellog/internal/report"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct{}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{}
}

func (f *markdownFormatter) Format(rep *report.Report) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Constellation Search Report\n\n")
	fmt.Fprintf(&b, "Generated: %s  \n", rep.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Report ID: `%s`\n\n", rep.ID)

	f.writeTableOfContents(&b, rep)
	f.writeSummaryTable(&b, rep)
	f.writeMinimumTable(&b, rep)
	f.writeResourceSections(&b, rep)

	b.WriteString("---\n")
	b.WriteString("*Report generated by constellog*\n")

	return []byte(b.String()), nil
}

// writeTableOfContents writes the table of contents
func (f *markdownFormatter) writeTableOfContents(b *strings.Builder, rep *report.Report) {
	b.WriteString("## Table of Contents\n")
	b.WriteString("- [Summary](#summary)\n")
	b.WriteString("- [Minimum Constellations](#minimum-constellations)\n")
	for _, run := range rep.Runs {
		if run.Profile != nil {
			b.WriteString("- [Resources](#resources)\n")
			break
		}
	}
	b.WriteString("\n")
}

// writeSummaryTable writes one row per run
func (f *markdownFormatter) writeSummaryTable(b *strings.Builder, rep *report.Report) {
	b.WriteString("## Summary\n\n")
	b.WriteString("| Run | Analyses | Solutions | Discarded | Last Solution |\n")
	b.WriteString("|-----|----------|-----------|-----------|---------------|\n")

	for _, run := range rep.Runs {
		last := "N/A"
		if run.SolutionCount > 0 {
			last = fmt.Sprintf("%.1f min", run.ElapsedMinutes)
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s |\n",
			run.Title,
			formatNumber(run.AnalysisCount),
			formatNumber(run.SolutionCount),
			formatNumber(run.DiscardedCount),
			last)
	}
	b.WriteString("\n")
}

// writeMinimumTable writes the min sats / min incl table
func (f *markdownFormatter) writeMinimumTable(b *strings.Builder, rep *report.Report) {
	b.WriteString("## Minimum Constellations\n\n")
	b.WriteString("| Run | Satellites | Planes | Inclination | MCG |\n")
	b.WriteString("|-----|------------|--------|-------------|-----|\n")

	for _, run := range rep.Runs {
		if run.MinSatellites == nil {
			fmt.Fprintf(b, "| %s | - | - | - | - |\n", run.Title)
			continue
		}
		writeMinimumRow(b, run.Title+" (min sats.)", run.MinSatellites)
		writeMinimumRow(b, run.Title+" (min incl.)", run.MinInclination)
	}
	b.WriteString("\n")
}

func writeMinimumRow(b *strings.Builder, label string, s *parser.SolutionSample) {
	fmt.Fprintf(b, "| %s | %d | %d | %.1f | %.1f |\n",
		label, s.TotalSatellites, s.Planes, s.InclinationDeg, s.MaxContactGap)
}

// writeResourceSections writes the complexity breakdown with ASCII bars
func (f *markdownFormatter) writeResourceSections(b *strings.Builder, rep *report.Report) {
	header := false
	for _, run := range rep.Runs {
		p := run.Profile
		if p == nil {
			continue
		}
		if !header {
			b.WriteString("## Resources\n\n")
			header = true
		}

		fmt.Fprintf(b, "### %s\n\n", run.Title)
		fmt.Fprintf(b, "Total compute time: %.1fhrs | Max memory usage: %.1fMB\n\n",
			p.TotalComputeHours, p.MaxAvgMemoryMB)

		b.WriteString("```\n")
		for _, lvl := range p.Levels {
			barLength := 0
			if p.TotalComputeHours > 0 {
				barLength = int(lvl.ComputeHours / p.TotalComputeHours * 20)
			}
			bar := strings.Repeat("█", barLength) + strings.Repeat("░", 20-barLength)
			fmt.Fprintf(b, "L%d │%s│ %6.2f hrs %8.1f MB\n", lvl.Level, bar, lvl.ComputeHours, lvl.AvgMemoryMB)
		}
		b.WriteString("```\n\n")
	}
}
