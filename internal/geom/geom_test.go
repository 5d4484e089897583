package geom

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const twoSegmentGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <trk>
    <name>ride</name>
    <trkseg>
      <trkpt lat="51.500" lon="-0.120"></trkpt>
      <trkpt lat="51.501" lon="-0.121"></trkpt>
      <trkpt lat="51.502" lon="-0.122"></trkpt>
    </trkseg>
    <trkseg>
      <trkpt lat="51.510" lon="-0.130"></trkpt>
      <trkpt lat="51.511" lon="-0.131"></trkpt>
    </trkseg>
    <trkseg>
      <trkpt lat="51.520" lon="-0.140"></trkpt>
    </trkseg>
  </trk>
</gpx>`

const emptyGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <wpt lat="51.5" lon="-0.12"><name>cafe</name></wpt>
</gpx>`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadGPXSegments(t *testing.T) {
	p := writeFile(t, t.TempDir(), "ride.gpx", twoSegmentGPX)
	lines, err := LoadGPX(p)
	if err != nil {
		t.Fatalf("LoadGPX: %v", err)
	}
	// single-point segment is not drawable
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	if len(lines[0]) != 3 || len(lines[1]) != 2 {
		t.Errorf("Unexpected part sizes: %d, %d", len(lines[0]), len(lines[1]))
	}
	if lines[0][0] != [2]float64{-0.120, 51.500} {
		t.Errorf("Expected lon/lat order, got %v", lines[0][0])
	}
}

func TestLoadGPXWithoutTracks(t *testing.T) {
	p := writeFile(t, t.TempDir(), "empty.gpx", emptyGPX)
	lines, err := LoadGPX(p)
	if err != nil {
		t.Fatalf("LoadGPX: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("Expected no lines, got %d", len(lines))
	}
}

func TestParseGeo(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{
			name:  "feature collection",
			input: `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},"geometry":{"type":"LineString","coordinates":[[1,2],[3,4]]}},{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[1,2]}}]}`,
			want:  1,
		},
		{
			name:  "feature with multilinestring",
			input: `{"type":"Feature","properties":{},"geometry":{"type":"MultiLineString","coordinates":[[[1,2],[3,4]],[[5,6],[7,8],[9,10]]]}}`,
			want:  2,
		},
		{
			name:  "bare linestring",
			input: `{"type":"LineString","coordinates":[[1,2],[3,4]]}`,
			want:  1,
		},
		{
			name:  "geometry collection",
			input: `{"type":"GeometryCollection","geometries":[{"type":"LineString","coordinates":[[1,2],[3,4]]},{"type":"LineString","coordinates":[[5,6],[7,8]]}]}`,
			want:  2,
		},
		{
			name:  "polygon only",
			input: `{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}`,
			want:  0,
		},
		{
			name:    "missing type",
			input:   `{"coordinates":[]}`,
			wantErr: true,
		},
		{
			name:    "not json",
			input:   `<gpx/>`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, err := ParseGeo([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(lines) != tt.want {
				t.Errorf("Expected %d lines, got %d", tt.want, len(lines))
			}
		})
	}
}

func TestParseKML(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2" xmlns:gx="http://www.google.com/kml/ext/2.2">
  <Document>
    <Folder>
      <Placemark>
        <LineString><coordinates>-0.12,51.5,10 -0.13,51.6,11</coordinates></LineString>
      </Placemark>
      <Placemark>
        <MultiGeometry>
          <LineString><coordinates>1,2 3,4 5,6</coordinates></LineString>
          <Point><coordinates>1,2</coordinates></Point>
        </MultiGeometry>
      </Placemark>
      <Placemark>
        <gx:Track>
          <when>2025-01-01T00:00:00Z</when>
          <gx:coord>7 8 100</gx:coord>
          <gx:coord>9 10 101</gx:coord>
        </gx:Track>
      </Placemark>
    </Folder>
  </Document>
</kml>`
	lines, err := ParseKML(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseKML: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d", len(lines))
	}
	if lines[0][1] != [2]float64{-0.13, 51.6} {
		t.Errorf("Unexpected vertex: %v", lines[0][1])
	}
	if len(lines[1]) != 3 {
		t.Errorf("Expected 3 vertices in multigeometry part, got %d", len(lines[1]))
	}
	if lines[2][1] != [2]float64{9, 10} {
		t.Errorf("Unexpected gx:Track vertex: %v", lines[2][1])
	}
}

func TestParseWKT(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "linestring", input: "LINESTRING (1 2, 3 4, 5 6)", want: 1},
		{name: "multilinestring", input: "MULTILINESTRING ((1 2, 3 4), (5 6, 7 8))", want: 2},
		{name: "lowercase", input: "linestring(1 2,3 4)", want: 1},
		{name: "empty", input: "LINESTRING EMPTY", want: 0},
		{name: "single vertex", input: "LINESTRING (1 2)", want: 0},
		{name: "point", input: "POINT (1 2)", wantErr: true},
		{name: "blank", input: "  ", wantErr: true},
		{name: "unbalanced", input: "LINESTRING 1 2", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, err := ParseWKT(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(lines) != tt.want {
				t.Errorf("Expected %d lines, got %d", tt.want, len(lines))
			}
		})
	}
}

func TestLoadWKTMultipleRows(t *testing.T) {
	p := writeFile(t, t.TempDir(), "walk.wkt", "LINESTRING (1 2, 3 4)\n\nMULTILINESTRING ((5 6, 7 8), (9 10, 11 12))\n")
	lines, err := LoadWKT(p)
	if err != nil {
		t.Fatalf("LoadWKT: %v", err)
	}
	if len(lines) != 3 {
		t.Errorf("Expected 3 lines, got %d", len(lines))
	}
}

func TestLoadCSVSegments(t *testing.T) {
	content := "time,Latitude,Longitude,segment\n" +
		"t0,51.0,-0.1,a\n" +
		"t1,51.1,-0.2,a\n" +
		"t2,bad,-0.3,a\n" +
		"t3,52.0,-1.0,b\n" +
		"t4,52.1,-1.1,b\n"
	p := writeFile(t, t.TempDir(), "run.csv", content)
	lines, err := LoadCSV(p)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	if lines[1][0] != [2]float64{-1.0, 52.0} {
		t.Errorf("Unexpected first vertex of second part: %v", lines[1][0])
	}
}

func TestLoadCSVMissingColumns(t *testing.T) {
	p := writeFile(t, t.TempDir(), "bad.csv", "a,b\n1,2\n")
	if _, err := LoadCSV(p); err == nil {
		t.Error("Expected error for missing lat/lon columns")
	}
}

func TestParseFileDispatch(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "Ride.GPX", twoSegmentGPX)
	lines, err := ParseFile(p)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(lines) != 2 {
		t.Errorf("Expected 2 lines, got %d", len(lines))
	}
	if _, err := ParseFile(writeFile(t, dir, "notes.txt", "hi")); err == nil {
		t.Error("Expected error for unsupported extension")
	}
	if _, ok := ParserFor(".kml"); !ok {
		t.Error("Expected a parser for .kml")
	}
}

func TestMercatorRoundTrip(t *testing.T) {
	x, y := ToMercator(0, 0)
	if x != 0 || math.Abs(y) > 1e-9 {
		t.Errorf("Expected origin, got %f,%f", x, y)
	}
	x, _ = ToMercator(180, 0)
	if math.Abs(x-MercatorHalfWorld) > 1e-6 {
		t.Errorf("Expected %f at antimeridian, got %f", MercatorHalfWorld, x)
	}
	lon, lat := FromMercator(ToMercator(-0.1276, 51.5072))
	if math.Abs(lon+0.1276) > 1e-9 || math.Abs(lat-51.5072) > 1e-9 {
		t.Errorf("Round trip drifted: %f,%f", lon, lat)
	}
	_, yClamped := ToMercator(0, 89.9)
	_, yMax := ToMercator(0, MaxMercatorLat)
	if yClamped != yMax {
		t.Errorf("Expected latitude clamp, got %f vs %f", yClamped, yMax)
	}
}

func TestBoundsAndPad(t *testing.T) {
	lines := []Line{{{0, 0}, {10, 5}}, {{-3, 2}, {4, 8}}}
	bb, err := Bounds(lines)
	if err != nil {
		t.Fatalf("Bounds: %v", err)
	}
	want := BBox{MinX: -3, MinY: 0, MaxX: 10, MaxY: 8}
	if bb != want {
		t.Errorf("Expected %+v, got %+v", want, bb)
	}
	padded := bb.Pad(500)
	if padded.MinX != -503 || padded.MaxY != 508 {
		t.Errorf("Unexpected padded box %+v", padded)
	}
	for _, ls := range lines {
		for _, p := range ls {
			if !padded.Contains(p) {
				t.Errorf("Padded box misses %v", p)
			}
		}
	}
	if _, err := Bounds(nil); err != ErrEmptyBBox {
		t.Errorf("Expected ErrEmptyBBox, got %v", err)
	}
}

func TestWiden(t *testing.T) {
	tests := []struct {
		name string
		in   BBox
		want BBox
	}{
		{"flat", BBox{MinX: 0, MinY: 5, MaxX: 3000, MaxY: 5}, BBox{MinX: 0, MinY: -495, MaxX: 3000, MaxY: 505}},
		{"point", BBox{MinX: 10, MinY: 10, MaxX: 10, MaxY: 10}, BBox{MinX: -490, MinY: -490, MaxX: 510, MaxY: 510}},
		{"large", BBox{MinX: 0, MinY: 0, MaxX: 2000, MaxY: 1500}, BBox{MinX: 0, MinY: 0, MaxX: 2000, MaxY: 1500}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Widen(1000); got != tt.want {
				t.Errorf("Widen(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}
