// Package themes holds the color palettes used by the report viewer.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title       lipgloss.Style
	Tab         lipgloss.Style
	ActiveTab   lipgloss.Style
	Footer      lipgloss.Style
	Scroll      lipgloss.Style
	BorderedBox lipgloss.Style
	Primary     lipgloss.Color
	Muted       lipgloss.Color
	Border      lipgloss.Color
	Foreground  lipgloss.Color
}

// Default is the default theme.
var Default = Theme{
	// Colors
	Primary:    lipgloss.Color("#FF9933"),
	Foreground: lipgloss.Color("#fafafa"),
	Border:     lipgloss.Color("#404040"),
	Muted:      lipgloss.Color("#737373"),

	// Text styles
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF9933")),
	Tab: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")).
		Padding(0, 1),
	ActiveTab: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#1a1a1a")).
		Background(lipgloss.Color("#FF9933")).
		Padding(0, 1),
	Footer: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")),
	Scroll: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")),

	// Component styles
	BorderedBox: lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), true, false).
		BorderForeground(lipgloss.Color("#404040")),
}

// Plain has no colors, for dumb terminals and golden tests.
var Plain = Theme{
	Title:       lipgloss.NewStyle().Bold(true),
	Tab:         lipgloss.NewStyle().Padding(0, 1),
	ActiveTab:   lipgloss.NewStyle().Bold(true).Padding(0, 1),
	Footer:      lipgloss.NewStyle(),
	Scroll:      lipgloss.NewStyle(),
	BorderedBox: lipgloss.NewStyle().Border(lipgloss.NormalBorder(), true, false),
}

// ByName returns the named theme, falling back to Default.
func ByName(name string) Theme {
	switch name {
	case "plain", "notty":
		return Plain
	default:
		return Default
	}
}
