// Package ledger holds the curated period→distance table.
//
// Distances are external constants, not derived from track geometry.
// Every query is a pure function of the table, so overlay text can be
// recomputed for any period at any time without a running counter.
package ledger

import (
	"fmt"
	"sort"
)

// Ledger maps period index to distance. The zero value is an empty ledger.
type Ledger struct {
	table map[int]float64
}

// New copies table into a new ledger.
func New(table map[int]float64) *Ledger {
	t := make(map[int]float64, len(table))
	for k, v := range table {
		t[k] = v
	}
	return &Ledger{table: t}
}

// Distance returns the distance for period p, or 0 when p has no entry.
func (l *Ledger) Distance(p int) float64 {
	return l.table[p]
}

// Cumulative returns the sum of all entries for periods 0..p inclusive.
func (l *Ledger) Cumulative(p int) float64 {
	total := 0.0
	for i := 0; i <= p; i++ {
		total += l.table[i]
	}
	return total
}

// Totals returns Distance(p) and Cumulative(p).
func (l *Ledger) Totals(p int) (period, cumulative float64) {
	return l.Distance(p), l.Cumulative(p)
}

// Periods returns the indices that have an entry, ascending.
func (l *Ledger) Periods() []int {
	out := make([]int, 0, len(l.table))
	for k := range l.table {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// Warnings reports period-name coverage gaps. Indices are never shifted to
// paper over a gap; callers only surface the messages.
func (l *Ledger) Warnings(names []string, periods int) []string {
	var out []string
	if periods > len(names) {
		out = append(out, fmt.Sprintf(
			"%d period folders but only %d period names: periods %d..%d will render without a name",
			periods, len(names), len(names), periods-1))
	}
	ps := l.Periods()
	if len(ps) > 0 {
		if last := ps[len(ps)-1]; last >= len(names) {
			out = append(out, fmt.Sprintf(
				"distance table has an entry for period %d but only %d period names", last, len(names)))
		}
	}
	if periods > 0 {
		var missing []int
		for p := 0; p < periods; p++ {
			if _, ok := l.table[p]; !ok {
				missing = append(missing, p)
			}
		}
		if len(missing) > 0 {
			out = append(out, fmt.Sprintf("no distance entry for periods %v: counted as 0", missing))
		}
	}
	return out
}
