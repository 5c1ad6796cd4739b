package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SummaryBox creates a summary information box
type SummaryBox struct {
	Title   string
	Content []string
	Width   int
}

// NewSummaryBox creates a new summary box
func NewSummaryBox(title string, width int) *SummaryBox {
	return &SummaryBox{
		Title: title,
		Width: width,
	}
}

// AddLine adds a line to the summary
func (s *SummaryBox) AddLine(line string) {
	s.Content = append(s.Content, line)
}

// AddKeyValue adds a key-value pair to the summary
func (s *SummaryBox) AddKeyValue(key, value string) {
	s.Content = append(s.Content, fmt.Sprintf("%-16s %s", key+":", value))
}

// Render renders the summary box
func (s *SummaryBox) Render() string {
	headerStyle := lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	bodyStyle := lipgloss.NewStyle().Foreground(secondaryColor)
	boxStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(secondaryColor).Padding(0, 1)

	content := make([]string, 0, len(s.Content)+2)
	content = append(content, headerStyle.Render(s.Title), "")
	for _, line := range s.Content {
		content = append(content, bodyStyle.Render(line))
	}

	joined := lipgloss.JoinVertical(lipgloss.Left, content...)
	return boxStyle.Width(s.Width).Render(joined)
}

// Sparkline is a compact one-row chart
type Sparkline struct {
	Values []float64
	Width  int
	Min    float64
	Max    float64
}

// NewSparkline creates a sparkline scaled to the range of values
func NewSparkline(values []float64, width int) *Sparkline {
	minVal := math.Inf(1)
	maxVal := math.Inf(-1)
	for _, v := range values {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}

	return &Sparkline{
		Values: values,
		Width:  width,
		Min:    minVal,
		Max:    maxVal,
	}
}

// Render renders the sparkline, sampling values when there are more than Width
func (s *Sparkline) Render() string {
	if len(s.Values) == 0 || s.Width < 1 {
		return ""
	}

	chars := []string{"▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

	var result strings.Builder

	step := len(s.Values) / s.Width
	if step == 0 {
		step = 1
	}

	for i := 0; i < s.Width && i*step < len(s.Values); i++ {
		value := s.Values[i*step]

		normalized := 0.0
		if s.Max > s.Min {
			normalized = (value - s.Min) / (s.Max - s.Min)
		}

		charIndex := int(normalized * float64(len(chars)-1))
		if charIndex >= len(chars) {
			charIndex = len(chars) - 1
		}
		result.WriteString(chars[charIndex])
	}

	return result.String()
}
