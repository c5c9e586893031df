package ui

import "github.com/charmbracelet/lipgloss"

// Palette shared by the TUI components.
var (
	ColorAccent     = lipgloss.Color("#3498db")
	ColorForeground = lipgloss.Color("#edf2f4")
	ColorMuted      = lipgloss.Color("#8d99ae")
	ColorSuccess    = lipgloss.Color("#2ecc71")
	ColorError      = lipgloss.Color("#ef233c")
)

var (
	// HeaderStyle renders the program banner line.
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorForeground).
			Background(ColorAccent).
			Padding(0, 1)

	// TitleStyle marks section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	// MutedStyle renders secondary text.
	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle marks completed work.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	// ErrorStyle marks failures.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)
)
