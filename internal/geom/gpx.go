package geom

import (
	"fmt"

	"github.com/tkrajina/gpxgo/gpx"
)

// LoadGPX returns one line per track segment of a GPX file.
// Waypoints and routes are ignored; only recorded tracks are animated.
func LoadGPX(path string) ([]Line, error) {
	g, err := gpx.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("gpx: %w", err)
	}
	return gpxLines(g), nil
}

func gpxLines(g *gpx.GPX) []Line {
	var lines []Line
	for _, trk := range g.Tracks {
		for _, seg := range trk.Segments {
			ls := make(Line, 0, len(seg.Points))
			for _, p := range seg.Points {
				ls = append(ls, [2]float64{p.Longitude, p.Latitude})
			}
			lines = append(lines, ls)
		}
	}
	return drawable(lines)
}
