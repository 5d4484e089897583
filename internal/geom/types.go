package geom

import "errors"

type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Line is one simple line: an ordered run of (x, y) vertices.
type Line [][2]float64

// ErrEmptyBBox is returned when a bbox is requested over no vertices.
var ErrEmptyBBox = errors.New("bbox: no vertices")

// Width and Height of the box in its own units.
func (b BBox) Width() float64  { return b.MaxX - b.MinX }
func (b BBox) Height() float64 { return b.MaxY - b.MinY }

// Valid reports whether the box spans a positive area.
func (b BBox) Valid() bool { return b.MaxX > b.MinX && b.MaxY > b.MinY }

// Contains reports whether pt lies inside or on the edge of b.
func (b BBox) Contains(pt [2]float64) bool {
	return pt[0] >= b.MinX && pt[0] <= b.MaxX && pt[1] >= b.MinY && pt[1] <= b.MaxY
}

// Pad grows the box by margin on every side.
func (b BBox) Pad(margin float64) BBox {
	return BBox{MinX: b.MinX - margin, MinY: b.MinY - margin, MaxX: b.MaxX + margin, MaxY: b.MaxY + margin}
}

// Widen grows any axis narrower than span to span, keeping its center.
func (b BBox) Widen(span float64) BBox {
	if d := span - b.Width(); d > 0 {
		b.MinX -= d / 2
		b.MaxX += d / 2
	}
	if d := span - b.Height(); d > 0 {
		b.MinY -= d / 2
		b.MaxY += d / 2
	}
	return b
}

// Bounds returns the union bbox of all vertices of all lines.
func Bounds(lines []Line) (BBox, error) {
	var bbox BBox
	n := 0
	for _, ls := range lines {
		for _, p := range ls {
			n++
			if n == 1 {
				bbox = BBox{MinX: p[0], MinY: p[1], MaxX: p[0], MaxY: p[1]}
				continue
			}
			if p[0] < bbox.MinX {
				bbox.MinX = p[0]
			}
			if p[1] < bbox.MinY {
				bbox.MinY = p[1]
			}
			if p[0] > bbox.MaxX {
				bbox.MaxX = p[0]
			}
			if p[1] > bbox.MaxY {
				bbox.MaxY = p[1]
			}
		}
	}
	if n == 0 {
		return BBox{}, ErrEmptyBBox
	}
	return bbox, nil
}

// drawable drops parts that cannot be stroked (fewer than two vertices).
func drawable(parts []Line) []Line {
	out := parts[:0]
	for _, p := range parts {
		if len(p) >= 2 {
			out = append(out, p)
		}
	}
	return out
}
