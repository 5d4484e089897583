package tui

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"routereel/internal/anim"
	"routereel/internal/geom"
	"routereel/internal/reel"
)

// Stepper produces animation frames one at a time.
type Stepper interface {
	Step() (anim.Frame, error)
	Finish() error
	Total() int
	State() anim.State
	Extent() geom.BBox
}

type Model struct {
	width  int
	height int

	helpVisible bool
	showTable   bool

	status string
	output string

	stepper Stepper
	total   int
	extent  geom.BBox

	// last step result, owned by the update loop
	state   anim.State
	frame   anim.Frame
	stepped int

	// braille preview, redrawn in full only on resize
	preview *preview

	bar progress.Model
	tbl table.Model

	done    bool
	aborted bool
	err     error
}

// New returns a model that drives s to completion and quits once the
// output has been written.
func New(s Stepper, sum reel.Summary) Model {
	m := Model{
		helpVisible: true,
		status:      "rendering",
		output:      sum.Output,
		stepper:     s,
		total:       s.Total(),
		extent:      s.Extent(),
		state:       s.State(),
		bar:         progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
	m.tbl = newLedgerTable(sum)
	return m
}

func (m Model) Init() tea.Cmd { return stepCmd(m.stepper) }

// Err returns the error that stopped the render, if any.
func (m Model) Err() error { return m.err }

// Aborted reports whether the user quit before the output was written.
func (m Model) Aborted() bool { return m.aborted }

// Done reports whether the output was written.
func (m Model) Done() bool { return m.done }

func (m Model) percent() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.stepped) / float64(m.total)
}
