package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"routereel/internal/anim"
)

type stepMsg struct {
	frame anim.Frame
	state anim.State
	err   error
}

type finishedMsg struct {
	err error
}

// stepCmd advances exactly one frame. The next step is only issued after
// this message has been handled, so the stepper has a single writer.
func stepCmd(s Stepper) tea.Cmd {
	return func() tea.Msg {
		f, err := s.Step()
		if err != nil {
			return stepMsg{err: err}
		}
		return stepMsg{frame: f, state: s.State()}
	}
}

func finishCmd(s Stepper) tea.Cmd {
	return func() tea.Msg {
		return finishedMsg{err: s.Finish()}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.preview = m.syncPreview()
		m.tbl.SetHeight(max(3, m.layout().mapH-2))
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if !m.done {
				m.aborted = true
			}
			return m, tea.Quit
		case "t":
			m.showTable = !m.showTable
		case "h":
			m.helpVisible = !m.helpVisible
		}
		if m.showTable {
			var cmd tea.Cmd
			m.tbl, cmd = m.tbl.Update(msg)
			return m, cmd
		}
	case stepMsg:
		if errors.Is(msg.err, anim.ErrFinished) {
			m.status = "encoding " + m.output
			return m, finishCmd(m.stepper)
		}
		if msg.err != nil {
			m.err = msg.err
			m.status = "error: " + msg.err.Error()
			return m, tea.Quit
		}
		m.frame = msg.frame
		m.state = msg.state
		m.stepped = msg.frame.Index + 1
		if m.width > 0 {
			m.preview = m.syncPreview()
		}
		m.status = fmt.Sprintf("frame %d/%d  %s  %s", m.stepped, m.total, msg.frame.Record.Folder, msg.frame.Record.Label)
		if m.aborted {
			return m, nil
		}
		return m, stepCmd(m.stepper)
	case finishedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.status = "error: " + msg.err.Error()
		} else {
			m.done = true
			m.status = "saved " + m.output
		}
		return m, tea.Quit
	}
	return m, nil
}
