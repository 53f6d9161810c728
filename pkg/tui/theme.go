package tui

import "github.com/charmbracelet/lipgloss"

// Theme holds the styles used to render the browser.
type Theme struct {
	Title     lipgloss.Style
	Header    lipgloss.Style
	SortedCol lipgloss.Style
	Cell      lipgloss.Style
	Status    lipgloss.Style
	Help      lipgloss.Style
	Error     lipgloss.Style
	Empty     lipgloss.Style
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	Title: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#7D56F4")).
		Padding(0, 1).
		Bold(true),
	Header: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#00BFFF")).
		Bold(true),
	SortedCol: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFA500")).
		Bold(true),
	Cell: lipgloss.NewStyle(),
	Status: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C7C7C")),
	Help: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#626262")),
	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF0000")).
		Bold(true),
	Empty: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C7C7C")).
		Italic(true),
}
