package formatter

import (
	"fmt"

	"github.com/yildizm/constellog/internal/emoji"
	"github.com/yildizm/constellog/internal/parser"
	"github.com/yildizm/constellog/internal/report"
	"github.com/yildizm/go-termfmt"
)

// formatNumber formats numbers with commas for readability
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return addCommas(fmt.Sprintf("%d", n))
}

// addCommas adds commas to number strings
func addCommas(s string) string {
	if len(s) <= 3 {
		return s
	}
	return addCommas(s[:len(s)-3]) + "," + s[len(s)-3:]
}

// describeSolution renders a solution as "16 (4x4, i:55.0, mcg:110.0)"
func describeSolution(s *parser.SolutionSample) string {
	if s == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d (%dx%d, i:%.1f, mcg:%.1f)",
		s.TotalSatellites, s.Planes, s.SatellitesPerPlane, s.InclinationDeg, s.MaxContactGap)
}

// getKindEmoji returns the symbol for an event kind
func getKindEmoji(kind parser.EventKind) string {
	switch kind {
	case parser.EventAnalyzing:
		return emoji.GetEmoji("analyzing")
	case parser.EventDiscarded:
		return emoji.GetEmoji("discarded")
	case parser.EventSolution:
		return emoji.GetEmoji("solution")
	default:
		return emoji.GetEmoji("info")
	}
}

// createShareBar draws the fraction part/total using go-termfmt
func createShareBar(part, total float64, opts *termfmt.TerminalOptions) string {
	share := 0.0
	if total > 0 {
		share = part / total
	}
	return termfmt.CreateConfidenceBar(share, opts)
}

// totals sums the sample counts of every run
func totals(rep *report.Report) (analyses, solutions, discarded int) {
	for _, run := range rep.Runs {
		analyses += run.AnalysisCount
		solutions += run.SolutionCount
		discarded += run.DiscardedCount
	}
	return analyses, solutions, discarded
}
