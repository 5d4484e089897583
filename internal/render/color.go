package render

import (
	"fmt"
	"image/color"
	"math"
)

// ParseHexColor parses #RRGGBB.
func ParseHexColor(s string) (color.NRGBA, error) {
	var r, g, b uint8
	if len(s) != 7 {
		return color.NRGBA{A: 255}, fmt.Errorf("invalid color %q", s)
	}
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.NRGBA{A: 255}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

func withAlpha(c color.NRGBA, alpha float64) color.NRGBA {
	c.A = uint8(math.Round(math.Max(0, math.Min(1, alpha)) * 255))
	return c
}

// mustColor falls back to black for colors that already passed config
// validation but are malformed anyway.
func mustColor(s string) color.NRGBA {
	c, err := ParseHexColor(s)
	if err != nil {
		return color.NRGBA{A: 255}
	}
	return c
}
