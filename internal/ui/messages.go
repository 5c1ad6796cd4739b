package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/constellog/internal/report"
)

// LoadFunc builds the report shown by the browser
type LoadFunc func() (*report.Report, error)

type reportLoadedMsg struct {
	report *report.Report
}

type reportErrorMsg struct {
	err error
}

// loadReportCommand runs load off the UI loop
func loadReportCommand(load LoadFunc) tea.Cmd {
	return func() tea.Msg {
		rep, err := load()
		if err != nil {
			return reportErrorMsg{err: err}
		}
		return reportLoadedMsg{report: rep}
	}
}
