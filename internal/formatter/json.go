package formatter

import (
	"encoding/json"
	"time"

	"github.com/yildizm/constellog/internal/parser"
	"github.com/yildizm/constellog/internal/report"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

func (f *jsonFormatter) Format(rep *report.Report) ([]byte, error) {
	output := &ReportOutput{
		ID:          rep.ID,
		GeneratedAt: rep.GeneratedAt,
		Summary:     createSummary(rep),
		Runs:        createRunOutputs(rep.Runs),
	}

	return json.MarshalIndent(output, "", "  ")
}

// ReportOutput is the top-level JSON document
type ReportOutput struct {
	ID          string         `json:"id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Summary     *SummaryOutput `json:"summary"`
	Runs        []*RunOutput   `json:"runs"`
}

// SummaryOutput holds totals across runs
type SummaryOutput struct {
	Runs      int `json:"runs"`
	Analyses  int `json:"analyses"`
	Solutions int `json:"solutions"`
	Discarded int `json:"discarded"`
}

// RunOutput is a run summary plus its solution stream
type RunOutput struct {
	*report.RunSummary
	TimeOrigin *time.Time              `json:"time_origin,omitempty"`
	Solutions  []parser.SolutionSample `json:"solutions"`
}

func createSummary(rep *report.Report) *SummaryOutput {
	analyses, solutions, discarded := totals(rep)
	return &SummaryOutput{
		Runs:      len(rep.Runs),
		Analyses:  analyses,
		Solutions: solutions,
		Discarded: discarded,
	}
}

func createRunOutputs(runs []*report.RunSummary) []*RunOutput {
	outputs := make([]*RunOutput, 0, len(runs))
	for _, run := range runs {
		out := &RunOutput{RunSummary: run, Solutions: run.Solutions()}
		if origin := run.Result.TimeOrigin(); !origin.IsZero() {
			out.TimeOrigin = &origin
		}
		outputs = append(outputs, out)
	}
	return outputs
}
