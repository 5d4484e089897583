// Package render rasterizes animation state onto a fixed canvas and encodes
// the resulting frames.
package render

import (
	"fmt"
	"math"

	"routereel/internal/geom"
)

// Viewport maps a projected extent onto a Width×Height canvas with a uniform
// scale, centering the extent on the axis with slack.
type Viewport struct {
	Extent geom.BBox
	Width  int
	Height int
	Scale  float64 // pixels per metre
	offX   float64
	offY   float64
}

// NewViewport fits extent into a w×h canvas.
func NewViewport(extent geom.BBox, w, h int) (Viewport, error) {
	if !extent.Valid() || extent.Width() <= 0 || extent.Height() <= 0 {
		return Viewport{}, fmt.Errorf("viewport: degenerate extent %+v", extent)
	}
	if w <= 0 || h <= 0 {
		return Viewport{}, fmt.Errorf("viewport: invalid canvas %dx%d", w, h)
	}
	scale := math.Min(float64(w)/extent.Width(), float64(h)/extent.Height())
	return Viewport{
		Extent: extent,
		Width:  w,
		Height: h,
		Scale:  scale,
		offX:   (float64(w) - extent.Width()*scale) / 2,
		offY:   (float64(h) - extent.Height()*scale) / 2,
	}, nil
}

// ToPixel converts projected metres to canvas pixels, y pointing down.
func (v Viewport) ToPixel(x, y float64) (float64, float64) {
	return v.offX + (x-v.Extent.MinX)*v.Scale, v.offY + (v.Extent.MaxY-y)*v.Scale
}

// FromPixel is the inverse of ToPixel.
func (v Viewport) FromPixel(px, py float64) (float64, float64) {
	return v.Extent.MinX + (px-v.offX)/v.Scale, v.Extent.MaxY - (py-v.offY)/v.Scale
}

// Visible returns the projected bounds of the whole canvas, which covers at
// least the extent.
func (v Viewport) Visible() geom.BBox {
	minX, maxY := v.FromPixel(0, 0)
	maxX, minY := v.FromPixel(float64(v.Width), float64(v.Height))
	return geom.BBox{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// fontScale converts typographic points to pixels for this canvas, treating
// the canvas height as ten inches.
func (v Viewport) fontScale() float64 {
	return float64(v.Height) / 720
}
