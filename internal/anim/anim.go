// Package anim is the frame-advance state machine behind the progressive
// reveal: frame i appends record i's strokes to an owned artifact list and
// refreshes the overlay from the distance ledger.
package anim

import (
	"errors"

	"routereel/internal/geom"
	"routereel/internal/ledger"
	"routereel/internal/track"
)

// ErrFinished is returned by Advance once every record has been drawn.
var ErrFinished = errors.New("animation finished")

type StrokeKind int

const (
	Shadow StrokeKind = iota
	Trace
)

func (k StrokeKind) String() string {
	if k == Shadow {
		return "shadow"
	}
	return "trace"
}

// Stroke is one drawn artifact.
type Stroke struct {
	Frame int
	Kind  StrokeKind
	Line  geom.Line
	Color string // #RRGGBB
	Width float64
	Alpha float64
	Z     int
}

// Style holds the fixed stroke parameters.
type Style struct {
	TrackWidth  float64
	ShadowColor string
	ShadowWidth float64
	ShadowAlpha float64
}

// Palette maps source labels to colors with a fallback.
type Palette struct {
	colors   map[string]string
	fallback string
}

func NewPalette(colors map[string]string, fallback string) Palette {
	c := make(map[string]string, len(colors))
	for k, v := range colors {
		c[k] = v
	}
	return Palette{colors: c, fallback: fallback}
}

// Color returns the label's color, or the fallback for unmapped labels.
func (p Palette) Color(label string) string {
	if c, ok := p.colors[label]; ok {
		return c
	}
	return p.fallback
}

// Scene is everything a transition reads besides the record itself.
type Scene struct {
	Ledger  *ledger.Ledger
	Names   []string
	Palette Palette
	Style   Style
}

// State is the accumulated animation: artifacts only ever grow.
type State struct {
	Artifacts []Stroke
	Overlay   Overlay
	Next      int // number of frames applied
}

// Frame reports what one Advance did.
type Frame struct {
	Index   int
	Total   int
	Record  track.Record
	Added   []Stroke
	Overlay Overlay
}

func strokesFor(frame int, rec track.Record, sc Scene) [2]Stroke {
	return [2]Stroke{
		{Frame: frame, Kind: Shadow, Line: rec.Line, Color: sc.Style.ShadowColor, Width: sc.Style.ShadowWidth, Alpha: sc.Style.ShadowAlpha, Z: 1},
		{Frame: frame, Kind: Trace, Line: rec.Line, Color: sc.Palette.Color(rec.Label), Width: sc.Style.TrackWidth, Alpha: 1, Z: 2},
	}
}

func overlayFor(o Overlay, rec track.Record, sc Scene) Overlay {
	period, cumulative := sc.Ledger.Totals(rec.Period)
	o = o.SetDistances(period, cumulative)
	// a period without a name keeps the previous label
	if rec.Period >= 0 && rec.Period < len(sc.Names) {
		o = o.SetPeriod(sc.Names[rec.Period])
	}
	return o
}

// Transition applies frame to s and returns the new state. It never writes
// into s's backing array, so s stays valid.
func Transition(s State, frame int, rec track.Record, sc Scene) State {
	added := strokesFor(frame, rec, sc)
	arts := make([]Stroke, len(s.Artifacts), len(s.Artifacts)+len(added))
	copy(arts, s.Artifacts)
	return State{
		Artifacts: append(arts, added[:]...),
		Overlay:   overlayFor(s.Overlay, rec, sc),
		Next:      frame + 1,
	}
}

// Replay rebuilds the state after frames 0..upto-1 from scratch.
func Replay(ds *track.Dataset, sc Scene, initial Overlay, upto int) State {
	s := State{Overlay: initial}
	if upto > ds.Len() {
		upto = ds.Len()
	}
	for i := 0; i < upto; i++ {
		s = Transition(s, i, ds.Record(i), sc)
	}
	return s
}

// Controller owns the animation state for one dataset and is driven one
// frame at a time in increasing index order.
type Controller struct {
	ds     *track.Dataset
	scene  Scene
	extent geom.BBox
	state  State
}

// NewController returns a controller in its initial state: no artifacts,
// overlay with static fields only, extent taken from the dataset.
func NewController(ds *track.Dataset, sc Scene, initial Overlay) *Controller {
	return &Controller{
		ds:     ds,
		scene:  sc,
		extent: ds.Extent(),
		state:  State{Overlay: initial},
	}
}

// Advance draws the next record. After the last frame it returns
// ErrFinished and leaves the state untouched.
func (c *Controller) Advance() (Frame, error) {
	i := c.state.Next
	if i >= c.ds.Len() {
		return Frame{}, ErrFinished
	}
	rec := c.ds.Record(i)
	added := strokesFor(i, rec, c.scene)
	n := len(c.state.Artifacts)
	c.state.Artifacts = append(c.state.Artifacts, added[:]...)
	c.state.Overlay = overlayFor(c.state.Overlay, rec, c.scene)
	c.state.Next = i + 1
	return Frame{
		Index:   i,
		Total:   c.ds.Len(),
		Record:  rec,
		Added:   c.state.Artifacts[n:len(c.state.Artifacts):len(c.state.Artifacts)],
		Overlay: c.state.Overlay,
	}, nil
}

// Done reports whether the terminal state has been reached.
func (c *Controller) Done() bool { return c.state.Next >= c.ds.Len() }

// Total returns the number of frames.
func (c *Controller) Total() int { return c.ds.Len() }

// Extent returns the plot extent fixed at construction.
func (c *Controller) Extent() geom.BBox { return c.extent }

// State returns a snapshot. Later frames never alter a returned snapshot.
func (c *Controller) State() State {
	s := c.state
	s.Artifacts = s.Artifacts[:len(s.Artifacts):len(s.Artifacts)]
	return s
}
