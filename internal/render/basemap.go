package render

import (
	"context"
	"image"
	"image/draw"
)

// Basemap supplies the background for a viewport, sized to the full canvas.
type Basemap interface {
	Basemap(ctx context.Context, vp Viewport) (image.Image, error)
}

// PlainProvider paints a solid background. Used for offline runs.
type PlainProvider struct {
	Color string
}

func (p PlainProvider) Basemap(_ context.Context, vp Viewport) (image.Image, error) {
	c, err := ParseHexColor(p.Color)
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, vp.Width, vp.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img, nil
}
