package geom

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	geojson "github.com/paulmach/go.geojson"
)

// LoadGeo reads a GeoJSON file and returns its LineString parts.
// Accepts a FeatureCollection, a single Feature or a bare geometry.
// Points and polygons are not tracks and are skipped.
func LoadGeo(path string) ([]Line, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseGeo(data)
}

// ParseGeo is LoadGeo over in-memory bytes.
func ParseGeo(data []byte) ([]Line, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("geojson: %w", err)
	}
	var lines []Line
	switch probe.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("geojson: %w", err)
		}
		for _, f := range fc.Features {
			lines = append(lines, geoLines(f.Geometry)...)
		}
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, fmt.Errorf("geojson: %w", err)
		}
		lines = geoLines(f.Geometry)
	case "":
		return nil, errors.New("invalid geojson: missing type")
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, fmt.Errorf("geojson: %w", err)
		}
		lines = geoLines(g)
	}
	return drawable(lines), nil
}

func geoLines(g *geojson.Geometry) []Line {
	if g == nil {
		return nil
	}
	toLine := func(coords [][]float64) Line {
		ls := make(Line, 0, len(coords))
		for _, c := range coords {
			if len(c) < 2 {
				continue
			}
			ls = append(ls, [2]float64{c[0], c[1]})
		}
		return ls
	}
	switch {
	case g.IsLineString():
		return []Line{toLine(g.LineString)}
	case g.IsMultiLineString():
		out := make([]Line, 0, len(g.MultiLineString))
		for _, part := range g.MultiLineString {
			out = append(out, toLine(part))
		}
		return out
	case g.IsCollection():
		var out []Line
		for _, sub := range g.Geometries {
			out = append(out, geoLines(sub)...)
		}
		return out
	}
	return nil
}
