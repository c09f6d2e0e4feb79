package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorWater   = lipgloss.Color("#3B82F6")
	colorLand    = lipgloss.Color("#A3A3A3")
	colorWarning = lipgloss.Color("#F59E0B")
	colorMuted   = lipgloss.Color("#6B7280")
	colorUser    = lipgloss.Color("#10B981")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWater)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorLand).
			Padding(0, 1)

	chatPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorWater).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Bold(true)

	trackStyle = lipgloss.NewStyle().
			Foreground(colorLand)

	knobStyle = lipgloss.NewStyle().
			Foreground(colorWater).
			Bold(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	userStyle = lipgloss.NewStyle().
			Foreground(colorUser).
			Bold(true)
)
