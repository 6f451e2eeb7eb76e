package tui

import "github.com/charmbracelet/lipgloss"

// Colors used throughout the TUI.
var (
	colorAccent = lipgloss.AdaptiveColor{Light: "#8a6d00", Dark: "#f5c542"}
	colorRed    = lipgloss.Color("203")
	colorYellow = lipgloss.Color("220")
	colorGray   = lipgloss.AdaptiveColor{Light: "#626262", Dark: "#a8a8a8"}
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			Margin(0, 0, 1, 0)

	bannerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorYellow).
			Foreground(colorYellow).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	overdueStyle = lipgloss.NewStyle().Foreground(colorRed)
	nearDueStyle = lipgloss.NewStyle().Foreground(colorYellow)
	dimStyle     = lipgloss.NewStyle().Foreground(colorGray)

	noticeStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			Margin(1, 0, 0, 0)
)
