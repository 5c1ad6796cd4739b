package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/constellog/internal/emoji"
	"github.com/yildizm/constellog/internal/report"
)

var (
	primaryColor   = lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#60A5FA"}
	secondaryColor = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	selectedColor  = lipgloss.AdaptiveColor{Light: "#DBEAFE", Dark: "#1E3A8A"}
	successColor   = lipgloss.AdaptiveColor{Light: "#10B981", Dark: "#34D399"}
	warningColor   = lipgloss.AdaptiveColor{Light: "#F59E0B", Dark: "#FBBF24"}
)

// ListItem represents an item in a list
type ListItem struct {
	ID          string
	Title       string
	Description string
	Status      string
	Icon        string
}

// List represents a navigable list component
type List struct {
	Title       string
	Items       []ListItem
	Selected    int
	Focused     bool
	Width       int
	Height      int
	ShowNumbers bool
	ShowIcons   bool
}

// NewList creates a new list component
func NewList(title string, width, height int) *List {
	return &List{
		Title:       title,
		Width:       width,
		Height:      height,
		ShowNumbers: true,
		ShowIcons:   true,
	}
}

// AddItem adds an item to the list
func (l *List) AddItem(item *ListItem) {
	l.Items = append(l.Items, *item)
}

// SelectedItem returns the currently selected item
func (l *List) SelectedItem() *ListItem {
	if l.Selected < 0 || l.Selected >= len(l.Items) {
		return nil
	}
	return &l.Items[l.Selected]
}

// MoveUp moves selection up
func (l *List) MoveUp() {
	if l.Selected > 0 {
		l.Selected--
	}
}

// MoveDown moves selection down
func (l *List) MoveDown() {
	if l.Selected < len(l.Items)-1 {
		l.Selected++
	}
}

// Render renders the list
func (l *List) Render() string {
	headerStyle := lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	normalStyle := lipgloss.NewStyle().Foreground(secondaryColor)

	content := []string{headerStyle.Render(l.Title), ""}

	// title and spacing take four rows
	maxVisible := l.Height - 4
	if maxVisible < 1 {
		maxVisible = 1
	}

	startIndex := 0
	if l.Selected >= maxVisible {
		startIndex = l.Selected - maxVisible + 1
	}
	endIndex := startIndex + maxVisible
	if endIndex > len(l.Items) {
		endIndex = len(l.Items)
	}

	for i := startIndex; i < endIndex; i++ {
		content = append(content, l.renderItem(&l.Items[i], i+1, i == l.Selected))
	}

	if len(l.Items) > maxVisible {
		scrollInfo := fmt.Sprintf("(%d-%d of %d)", startIndex+1, endIndex, len(l.Items))
		content = append(content, "", normalStyle.Render(scrollInfo))
	}

	joined := lipgloss.JoinVertical(lipgloss.Left, content...)

	border := secondaryColor
	if l.Focused {
		border = primaryColor
	}
	panelStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border)
	return panelStyle.Width(l.Width).Render(joined)
}

// renderItem renders a single list item
func (l *List) renderItem(item *ListItem, number int, selected bool) string {
	var parts []string

	if l.ShowNumbers {
		parts = append(parts, fmt.Sprintf("%2d.", number))
	}
	if l.ShowIcons && item.Icon != "" {
		parts = append(parts, item.Icon)
	}

	title := item.Title
	if item.Description != "" {
		title += " - " + item.Description
	}
	parts = append(parts, title)

	line := strings.Join(parts, " ")

	var style lipgloss.Style
	if selected {
		style = lipgloss.NewStyle().Background(selectedColor).Foreground(primaryColor)
	} else {
		style = lipgloss.NewStyle().Foreground(secondaryColor)
		switch item.Status {
		case "success":
			style = style.Foreground(successColor)
		case "warning":
			style = style.Foreground(warningColor)
		}
	}

	width := l.Width - 4
	if width < 1 {
		width = 1
	}
	return style.Width(width).Render(line)
}

// NewRunList creates a list with one item per run of the report
func NewRunList(rep *report.Report, width, height int) *List {
	list := NewList("Runs", width, height)

	for _, run := range rep.Runs {
		status := "success"
		icon := emoji.GetEmoji("solution")
		description := fmt.Sprintf("%d solutions", run.SolutionCount)

		if run.SolutionCount == 0 {
			status = "warning"
			icon = emoji.GetEmoji("warning")
		} else if run.MinSatellites != nil {
			description += fmt.Sprintf(", min %d sats", run.MinSatellites.TotalSatellites)
		}

		list.AddItem(&ListItem{
			ID:          run.Key.String(),
			Title:       run.Title,
			Description: description,
			Status:      status,
			Icon:        icon,
		})
	}

	return list
}
