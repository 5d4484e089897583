package geom

import (
	"encoding/csv"
	"errors"
	"os"
	"strconv"
	"strings"
)

// LoadCSV reads a CSV of track points in row order and returns them as lines.
// Column detection: lat|latitude|y and lon|lng|long|longitude|x (case-insensitive).
// An optional segment|seg|part column starts a new line whenever its value changes.
func LoadCSV(path string) ([]Line, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	recs, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	idxLat, idxLon, idxSeg := -1, -1, -1
	for i, h := range recs[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "lat", "latitude", "y":
			if idxLat == -1 {
				idxLat = i
			}
		case "lon", "lng", "long", "longitude", "x":
			if idxLon == -1 {
				idxLon = i
			}
		case "segment", "seg", "part":
			if idxSeg == -1 {
				idxSeg = i
			}
		}
	}
	if idxLat == -1 || idxLon == -1 {
		return nil, errors.New("csv: latitude/longitude columns not found")
	}
	var lines []Line
	var cur Line
	prevSeg := ""
	for n, row := range recs[1:] {
		if idxLon >= len(row) || idxLat >= len(row) {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(row[idxLon]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(row[idxLat]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		if idxSeg >= 0 && idxSeg < len(row) {
			seg := strings.TrimSpace(row[idxSeg])
			if n > 0 && seg != prevSeg && len(cur) > 0 {
				lines = append(lines, cur)
				cur = nil
			}
			prevSeg = seg
		}
		cur = append(cur, [2]float64{lon, lat})
	}
	if len(cur) > 0 {
		lines = append(lines, cur)
	}
	return drawable(lines), nil
}
