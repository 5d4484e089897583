package geom

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadKML extracts line geometries from a KML file.
// Every LineString (at any depth, including inside MultiGeometry and Folder)
// becomes one line, as does every gx:Track. KML coordinates are
// "lon,lat[,alt]"; we ignore altitude.
func LoadKML(path string) ([]Line, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseKML(f)
}

// ParseKML is LoadKML over a reader.
func ParseKML(r io.Reader) ([]Line, error) {
	type kmlLineString struct {
		Coordinates string `xml:"coordinates"`
	}
	type kmlTrack struct {
		Coords []string `xml:"coord"`
	}

	dec := xml.NewDecoder(r)
	var lines []Line
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("kml: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "LineString":
			var ls kmlLineString
			if err := dec.DecodeElement(&ls, &se); err != nil {
				return nil, fmt.Errorf("kml: %w", err)
			}
			lines = append(lines, parseKMLTuples(strings.Fields(ls.Coordinates), ","))
		case "Track":
			var trk kmlTrack
			if err := dec.DecodeElement(&trk, &se); err != nil {
				return nil, fmt.Errorf("kml: %w", err)
			}
			// gx:coord separates lon lat alt by spaces, one tuple per element
			var ls Line
			for _, c := range trk.Coords {
				ls = append(ls, parseKMLTuples([]string{strings.TrimSpace(c)}, " ")...)
			}
			lines = append(lines, ls)
		}
	}
	return drawable(lines), nil
}

func parseKMLTuples(tuples []string, sep string) Line {
	var ls Line
	for _, tuple := range tuples {
		var vals []string
		if sep == " " {
			vals = strings.Fields(tuple)
		} else {
			vals = strings.Split(tuple, sep)
		}
		if len(vals) < 2 {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		ls = append(ls, [2]float64{lon, lat})
	}
	return ls
}
