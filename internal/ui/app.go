// Package ui is an interactive browser over a report's runs.
package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/constellog/internal/emoji"
	"github.com/yildizm/constellog/internal/report"
	"github.com/yildizm/constellog/internal/ui/components"
)

const listWidth = 40

// Model lists runs on the left and details the selected one on the right
type Model struct {
	width    int
	height   int
	report   *report.Report
	load     LoadFunc
	list     *components.List
	view     View
	err      error
	ready    bool
	quitting bool
	styles   *Styles
}

// NewModel creates a browser over an already built report
func NewModel(rep *report.Report) *Model {
	m := &Model{styles: GetStyles()}
	m.setReport(rep)
	return m
}

// NewLoadingModel creates a browser that builds its report on start and on 'r'
func NewLoadingModel(load LoadFunc) *Model {
	return &Model{load: load, view: ViewLoading, styles: GetStyles()}
}

func (m *Model) setReport(rep *report.Report) {
	selected := 0
	if m.list != nil {
		selected = m.list.Selected
	}

	m.report = rep
	m.list = components.NewRunList(rep, listWidth, m.height)
	if selected < len(m.list.Items) {
		m.list.Selected = selected
	}
	m.list.Focused = true
	m.view = ViewRuns
	m.err = nil
}

// Init starts loading when the model has a loader
func (m *Model) Init() tea.Cmd {
	if m.report == nil && m.load != nil {
		return loadReportCommand(m.load)
	}
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		if m.list != nil {
			m.list.Height = msg.Height - 4
		}

	case tea.KeyMsg:
		return m.handleKey(msg)

	case reportLoadedMsg:
		m.setReport(msg.report)
		if m.height > 0 {
			m.list.Height = m.height - 4
		}

	case reportErrorMsg:
		m.err = msg.err
		m.view = ViewError
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.list != nil && m.view == ViewRuns {
			m.list.MoveUp()
		}

	case "down", "j":
		if m.list != nil && m.view == ViewRuns {
			m.list.MoveDown()
		}

	case "?":
		switch m.view {
		case ViewHelp:
			m.view = ViewRuns
		case ViewRuns:
			m.view = ViewHelp
		}

	case "esc":
		if m.view == ViewHelp {
			m.view = ViewRuns
		}

	case "r":
		if m.load != nil && m.view != ViewLoading {
			m.view = ViewLoading
			return m, loadReportCommand(m.load)
		}
	}

	return m, nil
}

// Selected returns the run under the cursor, or nil
func (m *Model) Selected() *report.RunSummary {
	if m.report == nil || m.list == nil {
		return nil
	}
	item := m.list.SelectedItem()
	if item == nil {
		return nil
	}
	for _, run := range m.report.Runs {
		if run.Key.String() == item.ID {
			return run
		}
	}
	return nil
}

// View renders the model
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.quitting {
		return emoji.GetEmoji("door") + " Bye\n"
	}

	var body string
	switch m.view {
	case ViewLoading:
		body = lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center,
			m.styles.Render(m.styles.Header, emoji.GetEmoji("analyzing")+" Parsing search logs..."))
	case ViewError:
		body = m.styles.Box.Render(m.styles.Render(m.styles.Error, emoji.GetEmoji("error")+" "+m.err.Error()) +
			"\n\n" + m.styles.Render(m.styles.Muted, "r: retry  q: quit"))
	case ViewHelp:
		body = m.helpView()
	default:
		body = m.runsView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.titleBar(), body, m.statusBar())
}

func (m *Model) titleBar() string {
	title := emoji.GetEmoji("satellite") + " constellog"
	if m.report != nil {
		title += fmt.Sprintf("  %d runs", len(m.report.Runs))
	}
	return m.styles.Render(m.styles.Title, title)
}

func (m *Model) statusBar() string {
	keys := "↑/k up  ↓/j down  ? help  q quit"
	if m.load != nil {
		keys += "  r reload"
	}
	return m.styles.Render(m.styles.Muted, keys)
}

func (m *Model) runsView() string {
	if m.list == nil || len(m.list.Items) == 0 {
		return m.styles.Box.Render("No runs in report")
	}

	detailWidth := m.width - listWidth - 4
	if detailWidth < 30 {
		detailWidth = 30
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.list.Render(), " ", m.detailView(detailWidth))
}

// detailView renders the selected run's minima and complexity profile
func (m *Model) detailView(width int) string {
	run := m.Selected()
	if run == nil {
		return ""
	}

	box := components.NewSummaryBox(run.Title, width)

	files := make([]string, 0, len(run.Files))
	for _, f := range run.Files {
		files = append(files, filepath.Base(f))
	}
	if len(files) > 0 {
		box.AddKeyValue("Files", strings.Join(files, ", "))
	}
	box.AddKeyValue("Analyses", fmt.Sprintf("%d", run.AnalysisCount))
	box.AddKeyValue("Solutions", fmt.Sprintf("%d", run.SolutionCount))
	box.AddKeyValue("Discarded", fmt.Sprintf("%d", run.DiscardedCount))

	if run.MinSatellites != nil {
		s := run.MinSatellites
		box.AddKeyValue("Min satellites", fmt.Sprintf("%d (%d planes, i:%.1f, mcg:%.1f)",
			s.TotalSatellites, s.Planes, s.InclinationDeg, s.MaxContactGap))
		i := run.MinInclination
		box.AddKeyValue("Min inclination", fmt.Sprintf("%.1f (%d sats, %d planes, mcg:%.1f)",
			i.InclinationDeg, i.TotalSatellites, i.Planes, i.MaxContactGap))
		box.AddKeyValue("Last solution", fmt.Sprintf("%.1f min", run.ElapsedMinutes))

		sats := make([]float64, 0, run.SolutionCount)
		for _, sol := range run.Solutions() {
			sats = append(sats, float64(sol.TotalSatellites))
		}
		box.AddKeyValue("Fleet trend", components.NewSparkline(sats, width-24).Render())
	} else {
		box.AddLine(m.styles.Render(m.styles.Warning, emoji.GetEmoji("warning")+" no solutions"))
	}

	if p := run.Profile; p != nil {
		box.AddLine("")
		box.AddLine(fmt.Sprintf("%s Compute %.1f hrs, max memory %.1f MB", emoji.GetEmoji("clock"), p.TotalComputeHours, p.MaxAvgMemoryMB))
		for _, lvl := range p.Levels {
			box.AddLine(fmt.Sprintf("  L%d  %7.2f hrs  %8.1f MB  (%d)", lvl.Level, lvl.ComputeHours, lvl.AvgMemoryMB, lvl.Samples))
		}
	}

	return box.Render()
}

func (m *Model) helpView() string {
	lines := []string{
		m.styles.Render(m.styles.Header, "Keys"),
		"",
		"↑ / k     previous run",
		"↓ / j     next run",
		"?         toggle help",
		"esc       back",
		"q         quit",
	}
	if m.load != nil {
		lines = append(lines, "r         rebuild the report from disk")
	}
	return m.styles.Box.Render(strings.Join(lines, "\n"))
}

// Run shows the browser for rep until the user quits
func Run(rep *report.Report) error {
	p := tea.NewProgram(NewModel(rep), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// RunWithLoader shows the browser and builds the report with load
func RunWithLoader(load LoadFunc) error {
	p := tea.NewProgram(NewLoadingModel(load), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
