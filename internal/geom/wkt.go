package geom

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadWKT reads a file holding one WKT geometry per non-blank line.
func LoadWKT(path string) ([]Line, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lines []Line
	for n, row := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(row) == "" {
			continue
		}
		ls, err := ParseWKT(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n+1, err)
		}
		lines = append(lines, ls...)
	}
	return lines, nil
}

// ParseWKT parses LINESTRING and MULTILINESTRING text.
// "... EMPTY" geometries yield no lines and no error.
func ParseWKT(wkt string) ([]Line, error) {
	s := strings.TrimSpace(wkt)
	if s == "" {
		return nil, errors.New("empty wkt")
	}
	up := strings.ToUpper(s)
	if strings.HasSuffix(up, "EMPTY") {
		return nil, nil
	}
	parseTuples := func(block string) Line {
		var out Line
		for _, tup := range strings.Split(block, ",") {
			parts := strings.Fields(strings.TrimSpace(tup))
			if len(parts) < 2 {
				continue
			}
			x, e1 := strconv.ParseFloat(parts[0], 64)
			y, e2 := strconv.ParseFloat(parts[1], 64)
			if e1 != nil || e2 != nil {
				continue
			}
			out = append(out, [2]float64{x, y})
		}
		return out
	}
	switch {
	case strings.HasPrefix(up, "MULTILINESTRING"):
		i := strings.Index(s, "((")
		j := strings.LastIndex(s, "))")
		if i < 0 || j <= i {
			return nil, errors.New("wkt multilinestring: invalid")
		}
		// normalize spaces around part separators
		partsStr := strings.ReplaceAll(s[i+2:j], ") , (", "),(")
		partsStr = strings.ReplaceAll(partsStr, "), (", "),(")
		var lines []Line
		for _, part := range strings.Split(partsStr, "),(") {
			lines = append(lines, parseTuples(part))
		}
		return drawable(lines), nil
	case strings.HasPrefix(up, "LINESTRING"):
		i := strings.Index(s, "(")
		j := strings.LastIndex(s, ")")
		if i < 0 || j <= i {
			return nil, errors.New("wkt linestring: invalid")
		}
		return drawable([]Line{parseTuples(s[i+1 : j])}), nil
	}
	return nil, errors.New("unsupported wkt type")
}
