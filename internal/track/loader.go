package track

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"routereel/internal/geom"
	"routereel/internal/logger"
)

// ErrNoTracks is returned when a scan yields nothing to animate.
var ErrNoTracks = errors.New("no tracks found")

// Record is one drawable line tagged with where it came from.
type Record struct {
	Line   geom.Line // lon/lat before aggregation, EPSG:3857 metres after
	Label  string    // source file name
	Period int
	Folder string
	Part   int // index of this line within its file
}

// Loader turns a data folder into records.
type Loader struct {
	Extensions []string
	Parse      geom.Parser // nil dispatches on extension
	Log        *logger.Logger
}

// NewLoader creates a loader for the given extensions.
func NewLoader(exts []string, log *logger.Logger) *Loader {
	if log == nil {
		log = logger.Discard()
	}
	return &Loader{Extensions: exts, Log: log.WithComponent("loader")}
}

// Load builds the manifest for root and loads every entry.
func (l *Loader) Load(root string) ([]Record, Manifest, error) {
	m, err := BuildManifest(root, l.Extensions)
	if err != nil {
		return nil, m, err
	}
	recs, err := l.LoadManifest(m)
	return recs, m, err
}

// LoadManifest parses entries in manifest order. A file with no drawable
// line is skipped; a file that fails to parse aborts the load.
func (l *Loader) LoadManifest(m Manifest) ([]Record, error) {
	var recs []Record
	for _, e := range m.Entries {
		parse := l.Parse
		if parse == nil {
			p, ok := geom.ParserFor(filepath.Ext(e.Name))
			if !ok {
				return nil, fmt.Errorf("%s: unsupported track file (supported: %s)", e.Path, strings.Join(geom.Extensions(), " "))
			}
			parse = p
		}
		lines, err := parse(e.Path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Path, err)
		}
		if len(lines) == 0 {
			l.Log.Debug("skipping file without tracks", logger.F("file", e.Path))
			continue
		}
		l.Log.Debug("loaded", logger.F("period", e.Folder), logger.F("file", e.Name), logger.Count(len(lines)))
		for i, ls := range lines {
			recs = append(recs, Record{Line: ls, Label: e.Name, Period: e.Period, Folder: e.Folder, Part: i})
		}
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoTracks, m.Root)
	}
	return recs, nil
}
