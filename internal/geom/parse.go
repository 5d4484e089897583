package geom

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Parser reads a track file and returns its simple lines in lon/lat order.
// Zero lines with a nil error means the file holds no drawable geometry.
type Parser func(path string) ([]Line, error)

var parsers = map[string]Parser{
	".gpx":     LoadGPX,
	".geojson": LoadGeo,
	".json":    LoadGeo,
	".kml":     LoadKML,
	".wkt":     LoadWKT,
	".csv":     LoadCSV,
}

// ParserFor returns the parser registered for ext (case-insensitive, with dot).
func ParserFor(ext string) (Parser, bool) {
	p, ok := parsers[strings.ToLower(ext)]
	return p, ok
}

// Extensions lists every extension a parser is registered for.
func Extensions() []string {
	out := make([]string, 0, len(parsers))
	for ext := range parsers {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// ParseFile dispatches on the file extension.
func ParseFile(path string) ([]Line, error) {
	ext := strings.ToLower(filepath.Ext(path))
	p, ok := parsers[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported track file: %s", ext)
	}
	return p(path)
}
