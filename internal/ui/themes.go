package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Theme represents a color theme for the TUI
type Theme struct {
	Name string

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor

	Success lipgloss.AdaptiveColor
	Warning lipgloss.AdaptiveColor
	Error   lipgloss.AdaptiveColor

	Border   lipgloss.AdaptiveColor
	Muted    lipgloss.AdaptiveColor
	Selected lipgloss.AdaptiveColor
	Solution lipgloss.AdaptiveColor
}

// buildTheme creates a theme from [light, dark] pairs
func buildTheme(name string, primary, secondary, success, warning, errorColor, border, muted, selected, solution [2]string) Theme {
	return Theme{
		Name:      name,
		Primary:   lipgloss.AdaptiveColor{Light: primary[0], Dark: primary[1]},
		Secondary: lipgloss.AdaptiveColor{Light: secondary[0], Dark: secondary[1]},
		Success:   lipgloss.AdaptiveColor{Light: success[0], Dark: success[1]},
		Warning:   lipgloss.AdaptiveColor{Light: warning[0], Dark: warning[1]},
		Error:     lipgloss.AdaptiveColor{Light: errorColor[0], Dark: errorColor[1]},
		Border:    lipgloss.AdaptiveColor{Light: border[0], Dark: border[1]},
		Muted:     lipgloss.AdaptiveColor{Light: muted[0], Dark: muted[1]},
		Selected:  lipgloss.AdaptiveColor{Light: selected[0], Dark: selected[1]},
		Solution:  lipgloss.AdaptiveColor{Light: solution[0], Dark: solution[1]},
	}
}

// Available themes
var (
	DefaultTheme = buildTheme("default",
		[2]string{"#1E40AF", "#3B82F6"}, [2]string{"#6B7280", "#9CA3AF"},
		[2]string{"#059669", "#10B981"}, [2]string{"#D97706", "#F59E0B"}, [2]string{"#DC2626", "#EF4444"},
		[2]string{"#D1D5DB", "#374151"}, [2]string{"#6B7280", "#9CA3AF"}, [2]string{"#DBEAFE", "#1E3A8A"},
		[2]string{"#7C3AED", "#A855F7"})

	HighContrastTheme = buildTheme("high-contrast",
		[2]string{"#000000", "#FFFFFF"}, [2]string{"#666666", "#BBBBBB"},
		[2]string{"#006600", "#00FF00"}, [2]string{"#CC6600", "#FFAA00"}, [2]string{"#CC0000", "#FF4444"},
		[2]string{"#000000", "#FFFFFF"}, [2]string{"#666666", "#BBBBBB"}, [2]string{"#CCCCCC", "#333333"},
		[2]string{"#800080", "#FF80FF"})

	MinimalTheme = buildTheme("minimal",
		[2]string{"#2D3748", "#E2E8F0"}, [2]string{"#718096", "#A0AEC0"},
		[2]string{"#2F855A", "#68D391"}, [2]string{"#C05621", "#F6AD55"}, [2]string{"#C53030", "#FC8181"},
		[2]string{"#E2E8F0", "#2D3748"}, [2]string{"#A0AEC0", "#718096"}, [2]string{"#EDF2F7", "#2D3748"},
		[2]string{"#553C9A", "#B794F6"})
)

var currentTheme = DefaultTheme

// GetTheme returns the current active theme
func GetTheme() Theme {
	return currentTheme
}

// SetThemeByName sets the theme by name
func SetThemeByName(name string) bool {
	switch name {
	case "default":
		currentTheme = DefaultTheme
	case "high-contrast":
		currentTheme = HighContrastTheme
	case "minimal":
		currentTheme = MinimalTheme
	default:
		return false
	}
	return true
}

// GetAvailableThemes returns list of available theme names
func GetAvailableThemes() []string {
	return []string{"default", "high-contrast", "minimal"}
}

// IsColorDisabled checks if colors should be disabled
func IsColorDisabled() bool {
	return os.Getenv("NO_COLOR") != ""
}

// Styles contains the styled components of the browser
type Styles struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Solution lipgloss.Style
	Box      lipgloss.Style
}

// GetStyles builds styles from the current theme
func GetStyles() *Styles {
	theme := GetTheme()

	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			Padding(0, 1),

		Header: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Secondary),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error).
			Bold(true),

		Solution: lipgloss.NewStyle().
			Foreground(theme.Solution),

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(1, 2),
	}
}

// Render applies style unless colors are disabled
func (s *Styles) Render(style lipgloss.Style, text string) string {
	if IsColorDisabled() {
		return text
	}
	return style.Render(text)
}
