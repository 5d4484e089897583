package track

import (
	"routereel/internal/geom"
)

// MinSpan is the smallest extent side in metres. A straight east-west or
// north-south track with no margin would otherwise have zero area.
const MinSpan = 1000.0

// Dataset is the ordered, projected record sequence with its fixed extent.
type Dataset struct {
	records []Record
	extent  geom.BBox
	periods int
}

// Aggregate projects records into EPSG:3857 in their given order and
// computes the union bbox padded by margin metres and widened to MinSpan on
// each axis. The extent is computed
// here once and never changes afterwards.
func Aggregate(records []Record, margin float64) (*Dataset, error) {
	if len(records) == 0 {
		return nil, ErrNoTracks
	}
	out := make([]Record, len(records))
	lines := make([]geom.Line, len(records))
	seen := make(map[int]bool)
	for i, r := range records {
		r.Line = geom.ProjectLine(r.Line)
		out[i] = r
		lines[i] = r.Line
		seen[r.Period] = true
	}
	bbox, err := geom.Bounds(lines)
	if err != nil {
		return nil, err
	}
	return &Dataset{records: out, extent: bbox.Pad(margin).Widen(MinSpan), periods: len(seen)}, nil
}

// Extent returns the fixed plot extent.
func (d *Dataset) Extent() geom.BBox { return d.extent }

// Len returns the number of records, i.e. the number of frames.
func (d *Dataset) Len() int { return len(d.records) }

// Record returns record i.
func (d *Dataset) Record(i int) Record { return d.records[i] }

// Records returns the ordered records. Callers must not modify the slice.
func (d *Dataset) Records() []Record { return d.records }

// Periods returns how many distinct periods contributed records.
func (d *Dataset) Periods() int { return d.periods }
