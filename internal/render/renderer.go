package render

import (
	"fmt"
	"image"
	"image/color"
	"sort"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"routereel/internal/anim"
)

// Style configures the overlay panel and logo placement. Positions and
// sizes are fractions of the canvas measured from the bottom-left corner.
type Style struct {
	PanelX         float64
	PanelY         float64
	PanelW         float64
	PanelH         float64
	PanelFill      string
	PanelEdge      string
	PanelEdgeWidth float64
	PanelRadius    float64
	TextColor      string
	TextInset      float64
	LineY          [5]float64
	FontSizes      [5]float64 // points
	Bold           [5]bool
	LogoX          float64 // top-left anchor
	LogoY          float64
	LogoZoom       float64
}

// DefaultStyle is the cream stats box in the upper right with the logo in
// the upper left.
func DefaultStyle() Style {
	return Style{
		PanelX:         0.55,
		PanelY:         0.72,
		PanelW:         0.40,
		PanelH:         0.25,
		PanelFill:      "#FDF1D6",
		PanelEdge:      "#333333",
		PanelEdgeWidth: 1.5,
		PanelRadius:    0.02,
		TextColor:      "#000000",
		TextInset:      0.01,
		LineY:          [5]float64{0.95, 0.90, 0.86, 0.82, 0.76},
		FontSizes:      [5]float64{16, 14, 14, 14, 10},
		Bold:           [5]bool{true},
		LogoX:          0.02,
		LogoY:          0.98,
		LogoZoom:       0.4,
	}
}

// Renderer draws strokes onto persistent per-z layers, so each artifact is
// rasterized exactly once, and composes a fresh frame on every Render.
type Renderer struct {
	vp      Viewport
	basemap image.Image
	logo    image.Image
	style   Style
	layers  map[int]*gg.Context
	order   []int
	drawn   int
	faces   [5]font.Face
}

// NewRenderer prepares a renderer. logo may be nil.
func NewRenderer(vp Viewport, basemap, logo image.Image, style Style) (*Renderer, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	r := &Renderer{
		vp:      vp,
		basemap: basemap,
		logo:    logo,
		style:   style,
		layers:  make(map[int]*gg.Context),
	}
	for i, size := range style.FontSizes {
		f := regular
		if style.Bold[i] {
			f = bold
		}
		r.faces[i] = truetype.NewFace(f, &truetype.Options{Size: size * vp.fontScale()})
	}
	return r, nil
}

// Drawn returns how many artifacts have been rasterized.
func (r *Renderer) Drawn() int { return r.drawn }

func (r *Renderer) layer(z int) *gg.Context {
	if dc, ok := r.layers[z]; ok {
		return dc
	}
	dc := gg.NewContext(r.vp.Width, r.vp.Height)
	r.layers[z] = dc
	r.order = append(r.order, z)
	sort.Ints(r.order)
	return dc
}

func (r *Renderer) drawStroke(s anim.Stroke) {
	if len(s.Line) < 2 {
		return
	}
	dc := r.layer(s.Z)
	for i, p := range s.Line {
		x, y := r.vp.ToPixel(p[0], p[1])
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.SetColor(withAlpha(mustColor(s.Color), s.Alpha))
	dc.SetLineWidth(s.Width * r.vp.fontScale())
	dc.SetLineCapRound()
	dc.SetLineJoinRound()
	dc.Stroke()
}

// Render rasterizes artifacts added since the previous call and returns the
// composed frame. A state shorter than what was already drawn restarts the
// layers.
func (r *Renderer) Render(s anim.State) image.Image {
	if len(s.Artifacts) < r.drawn {
		r.layers = make(map[int]*gg.Context)
		r.order = nil
		r.drawn = 0
	}
	for _, a := range s.Artifacts[r.drawn:] {
		r.drawStroke(a)
	}
	r.drawn = len(s.Artifacts)

	dc := gg.NewContext(r.vp.Width, r.vp.Height)
	if r.basemap != nil {
		dc.DrawImage(r.basemap, 0, 0)
	}
	for _, z := range r.order {
		dc.DrawImage(r.layers[z].Image(), 0, 0)
	}
	r.drawOverlay(dc, s.Overlay)
	r.drawLogo(dc)
	return dc.Image()
}

func (r *Renderer) drawOverlay(dc *gg.Context, o anim.Overlay) {
	st := r.style
	w, h := float64(r.vp.Width), float64(r.vp.Height)
	x := st.PanelX * w
	y := (1 - st.PanelY - st.PanelH) * h
	radius := st.PanelRadius * min(w, h)

	dc.DrawRoundedRectangle(x, y, st.PanelW*w, st.PanelH*h, radius)
	dc.SetColor(mustColor(st.PanelFill))
	dc.FillPreserve()
	dc.SetColor(mustColor(st.PanelEdge))
	dc.SetLineWidth(st.PanelEdgeWidth * r.vp.fontScale())
	dc.Stroke()

	var text color.Color = mustColor(st.TextColor)
	right := (st.PanelX + st.PanelW - st.TextInset) * w
	for i, line := range o.Lines() {
		if line == "" {
			continue
		}
		dc.SetFontFace(r.faces[i])
		dc.SetColor(text)
		dc.DrawStringAnchored(line, right, (1-st.LineY[i])*h, 1, 1)
	}
}

func (r *Renderer) drawLogo(dc *gg.Context) {
	if r.logo == nil || r.style.LogoZoom <= 0 {
		return
	}
	x := r.style.LogoX * float64(r.vp.Width)
	y := (1 - r.style.LogoY) * float64(r.vp.Height)
	dc.Push()
	dc.Translate(x, y)
	dc.Scale(r.style.LogoZoom, r.style.LogoZoom)
	dc.DrawImage(r.logo, 0, 0)
	dc.Pop()
}
