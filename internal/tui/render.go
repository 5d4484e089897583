package tui

import (
	"math"
	"strings"

	"routereel/internal/anim"
	"routereel/internal/geom"
	"routereel/internal/render"
)

// preview is the braille rendition of the accumulated traces. Like the
// raster renderer it only draws strokes added since the last sync.
type preview struct {
	w, h  int
	vp    render.Viewport
	ok    bool
	buf   *brailleBuf
	drawn int
}

func newPreview(extent geom.BBox, w, h int) *preview {
	p := &preview{w: w, h: h, buf: newBrailleBuf(w, h)}
	// micro-pixels are roughly square, so one uniform scale keeps the shape
	vp, err := render.NewViewport(extent, w*2, h*4)
	if err == nil {
		p.vp, p.ok = vp, true
	}
	return p
}

// screenXYMicro maps projected metres into the 2x4 microgrid.
func (p *preview) screenXYMicro(x, y float64) (int, int) {
	px, py := p.vp.ToPixel(x, y)
	return int(math.Floor(px)), int(math.Floor(py))
}

func (p *preview) sync(s anim.State) {
	if !p.ok {
		return
	}
	if len(s.Artifacts) < p.drawn {
		p.buf = newBrailleBuf(p.w, p.h)
		p.drawn = 0
	}
	for _, a := range s.Artifacts[p.drawn:] {
		if a.Kind != anim.Trace {
			continue
		}
		var prev [2]int
		for i, pt := range a.Line {
			mx, my := p.screenXYMicro(pt[0], pt[1])
			if i > 0 {
				p.buf.drawLineMicro(prev[0], prev[1], mx, my, a.Color)
			}
			prev = [2]int{mx, my}
		}
	}
	p.drawn = len(s.Artifacts)
}

func (p *preview) View() string {
	return strings.Join(p.buf.toLines(), "\n")
}

// syncPreview keeps the preview sized to the map area and up to date.
func (m Model) syncPreview() *preview {
	l := m.layout()
	p := m.preview
	if p == nil || p.w != l.mapW || p.h != l.mapH {
		p = newPreview(m.extent, l.mapW, l.mapH)
	}
	p.sync(m.state)
	return p
}
