package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const panelWidth = 36

type layout struct {
	contentW int
	mapW     int
	mapH     int
}

func (m Model) layout() layout {
	headerHeight := 1
	footerHeight := 2
	contentHeight := max(4, m.height-headerHeight-footerHeight)
	contentWidth := max(10, m.width)
	return layout{
		contentW: contentWidth,
		mapW:     max(8, contentWidth-panelWidth-5),
		mapH:     contentHeight,
	}
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	l := m.layout()

	header := titleStyle.Render(" routereel ─ " + m.output + " ")
	header = lipgloss.NewStyle().Width(l.contentW).Render(header)

	var left string
	if m.showTable {
		box := boxStyle.Width(min(l.mapW, tableWidth(m.tbl)+4)).Render(m.tbl.View())
		left = lipgloss.Place(l.mapW, l.mapH, lipgloss.Center, lipgloss.Center, box)
	} else {
		var canvas string
		if m.preview != nil {
			canvas = m.preview.View()
		}
		left = lipgloss.NewStyle().Width(l.mapW).Height(l.mapH).Render(canvas)
	}

	right := lipgloss.JoinVertical(lipgloss.Left, m.renderPanel(), m.renderFrameInfo())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)

	m.bar.Width = max(10, l.contentW-2)
	bar := " " + m.bar.ViewAs(m.percent())
	status := dimStyle.Render(" " + m.status + " ")
	if m.err != nil {
		status = errStyle.Render(" " + m.status + " ")
	}
	footer := lipgloss.JoinVertical(lipgloss.Left, bar, lipgloss.JoinHorizontal(lipgloss.Bottom, status, m.renderHelp()))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(l.contentW).Height(m.height).Render(ui)
}

// renderPanel mirrors the stats box drawn into every frame.
func (m Model) renderPanel() string {
	lines := m.state.Overlay.Lines()
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		switch i {
		case 0:
			out = append(out, panelTitleStyle.Render(line))
		case len(lines) - 1:
			out = append(out, panelSmallStyle.Render(line))
		default:
			out = append(out, panelLineStyle.Render(line))
		}
	}
	return panelStyle.Width(panelWidth).Render(strings.Join(out, "\n"))
}

func (m Model) renderFrameInfo() string {
	if m.stepped == 0 {
		return dimStyle.Render(" waiting for first frame")
	}
	r := m.frame.Record
	info := []string{
		" period: " + r.Folder,
		" file:   " + r.Label,
		" strokes: " + strconv.Itoa(len(m.state.Artifacts)),
	}
	return dimStyle.Render(strings.Join(info, "\n"))
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"t ledger",
		"h help",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
