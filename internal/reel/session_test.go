package reel

import (
	"context"
	"errors"
	"fmt"
	"image/gif"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"routereel/internal/anim"
	"routereel/internal/config"
	"routereel/internal/track"
)

func writeGPX(t *testing.T, path string, lon, lat float64) {
	t.Helper()
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1"><trk><trkseg>` + "\n")
	for i := 0; i < 4; i++ {
		fmt.Fprintf(&b, `<trkpt lat="%f" lon="%f"></trkpt>`+"\n", lat+float64(i)*0.002, lon+float64(i)*0.003)
	}
	b.WriteString("</trkseg></trk></gpx>\n")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}
}

func testConfig(t *testing.T, folders int) *config.Config {
	t.Helper()
	root := t.TempDir()
	data := filepath.Join(root, "data")
	for i := 0; i < folders; i++ {
		dir := filepath.Join(data, fmt.Sprintf("2025-%02d", i+1))
		writeGPX(t, filepath.Join(dir, "ride.gpx"), 6+float64(i)*0.01, 45)
		if i%2 == 0 {
			writeGPX(t, filepath.Join(dir, "hike.gpx"), 6.005+float64(i)*0.01, 45.01)
		}
	}
	cfg := config.DefaultConfig()
	cfg.Input.DataDir = data
	cfg.Output.Path = filepath.Join(root, "out", "routes.gif")
	cfg.Output.Width = 96
	cfg.Output.Height = 96
	cfg.Overlay.Logo = filepath.Join(root, "no-logo.png")
	cfg.Basemap.Provider = "plain"
	return cfg
}

func TestRunWritesAllFrames(t *testing.T) {
	cfg := testConfig(t, 3)
	s, err := Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.Total() != 5 {
		t.Fatalf("Expected 5 frames, got %d", s.Total())
	}

	var seen []int
	if err := s.Run(context.Background(), func(f anim.Frame) { seen = append(seen, f.Index) }); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if fmt.Sprint(seen) != "[0 1 2 3 4]" {
		t.Errorf("Unexpected frame order %v", seen)
	}
	if !s.Done() {
		t.Error("Expected session to be done")
	}

	f, err := os.Open(cfg.Output.Path)
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	defer f.Close()
	g, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if len(g.Image) != 5 {
		t.Errorf("Expected 5 frames in gif, got %d", len(g.Image))
	}
	if g.Delay[0] != 50 {
		t.Errorf("Expected 50cs delay, got %d", g.Delay[0])
	}

	if _, err := s.Step(); !errors.Is(err, anim.ErrFinished) {
		t.Errorf("Expected ErrFinished after completion, got %v", err)
	}

	leftovers, _ := filepath.Glob(filepath.Join(filepath.Dir(cfg.Output.Path), ".routereel-*"))
	if len(leftovers) != 0 {
		t.Errorf("Temporary files left behind: %v", leftovers)
	}
}

func TestStepMatchesOverlay(t *testing.T) {
	cfg := testConfig(t, 2)
	s, err := Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	var last anim.Frame
	for !s.Done() {
		f, err := s.Step()
		if err != nil {
			t.Fatal(err)
		}
		last = f
		if s.LastFrame() == nil {
			t.Fatal("Expected a rendered frame")
		}
	}
	if got := last.Overlay.CumulativeText(); got != "Year Distance: 28.5 km" {
		t.Errorf("Unexpected cumulative text %q", got)
	}
	if got := last.Overlay.PeriodText(); got != "Month: February" {
		t.Errorf("Unexpected period text %q", got)
	}
	if len(s.State().Artifacts) != 2*s.Total() {
		t.Errorf("Expected %d artifacts, got %d", 2*s.Total(), len(s.State().Artifacts))
	}
	if _, err := os.Stat(cfg.Output.Path); !os.IsNotExist(err) {
		t.Error("Output must not exist before Finish")
	}
	if err := s.Finish(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(cfg.Output.Path); err != nil {
		t.Errorf("Output missing after Finish: %v", err)
	}
}

func TestOpenReportsNameGap(t *testing.T) {
	cfg := testConfig(t, 12)
	s, err := Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, w := range s.Warnings() {
		if strings.Contains(w, "12 period folders but only 11 period names") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a period-name warning, got %v", s.Warnings())
	}
}

func TestOpenWithoutTracks(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Input.DataDir = t.TempDir()
	cfg.Basemap.Provider = "plain"
	if _, err := Open(context.Background(), cfg, nil); !errors.Is(err, track.ErrNoTracks) {
		t.Fatalf("Expected ErrNoTracks, got %v", err)
	}
}

func TestRunHonorsCancel(t *testing.T) {
	cfg := testConfig(t, 2)
	s, err := Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Run(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if _, err := os.Stat(cfg.Output.Path); !os.IsNotExist(err) {
		t.Error("Cancelled run must not write output")
	}
}

func TestOpenStraightTrackWithoutMargin(t *testing.T) {
	cfg := testConfig(t, 0)
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1"><trk><trkseg>
<trkpt lat="45" lon="6"></trkpt>
<trkpt lat="45" lon="6.1"></trkpt>
</trkseg></trk></gpx>
`
	dir := filepath.Join(cfg.Input.DataDir, "2025-01")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ride.gpx"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.Animation.Margin = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	s, err := Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if h := s.Extent().Height(); math.Abs(h-track.MinSpan) > 1e-6 {
		t.Errorf("Expected extent height %v, got %v", track.MinSpan, h)
	}
	if err := s.Run(context.Background(), nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func stepAll(t *testing.T, s *Session) {
	t.Helper()
	for !s.Done() {
		if _, err := s.Step(); err != nil {
			t.Fatal(err)
		}
	}
}

func TestAbortDiscardsOutput(t *testing.T) {
	cfg := testConfig(t, 2)
	s, err := Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	stepAll(t, s)
	if s.Abort() {
		t.Error("Abort before Finish must report nothing written")
	}
	if err := s.Finish(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(cfg.Output.Path); !os.IsNotExist(err) {
		t.Error("Finish after Abort must not write output")
	}
	leftovers, _ := filepath.Glob(filepath.Join(filepath.Dir(cfg.Output.Path), ".routereel-*"))
	if len(leftovers) != 0 {
		t.Errorf("Temporary files left behind: %v", leftovers)
	}
}

func TestAbortDuringFinish(t *testing.T) {
	cfg := testConfig(t, 2)
	s, err := Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	stepAll(t, s)
	done := make(chan error, 1)
	go func() { done <- s.Finish() }()
	saved := s.Abort()
	if err := <-done; err != nil {
		t.Fatal(err)
	}

	_, statErr := os.Stat(cfg.Output.Path)
	if saved && statErr != nil {
		t.Errorf("Abort reported saved output but it is missing: %v", statErr)
	}
	if !saved && !os.IsNotExist(statErr) {
		t.Error("Abort reported no output but the file exists")
	}
	leftovers, _ := filepath.Glob(filepath.Join(filepath.Dir(cfg.Output.Path), ".routereel-*"))
	if len(leftovers) != 0 {
		t.Errorf("Temporary files left behind: %v", leftovers)
	}
}

func TestAbortAfterFinishKeepsOutput(t *testing.T) {
	cfg := testConfig(t, 1)
	s, err := Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Run(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if !s.Abort() {
		t.Error("Expected Abort to report the written output")
	}
	if _, err := os.Stat(cfg.Output.Path); err != nil {
		t.Errorf("Output removed by Abort: %v", err)
	}
}
