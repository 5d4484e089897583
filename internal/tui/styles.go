package tui

import "github.com/charmbracelet/lipgloss"

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	borderCol = lipgloss.Color("#243141")
	errFg     = lipgloss.Color("#EF4444")
	panelBg   = lipgloss.Color("#FDF1D6")
	panelFg   = lipgloss.Color("#000000")
	panelEdge = lipgloss.Color("#333333")

	appStyle   = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(baseDimFg)
	errStyle   = lipgloss.NewStyle().Foreground(errFg).Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(panelEdge).
			Background(panelBg).
			Foreground(panelFg).
			Padding(0, 1).
			Align(lipgloss.Right)
	panelTitleStyle = lipgloss.NewStyle().Bold(true).Background(panelBg).Foreground(panelFg)
	panelLineStyle  = lipgloss.NewStyle().Background(panelBg).Foreground(panelFg)
	panelSmallStyle = lipgloss.NewStyle().Italic(true).Background(panelBg).Foreground(panelFg)
)
