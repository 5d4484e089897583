package reel

import (
	"routereel/internal/ledger"
	"routereel/internal/track"
)

// PeriodRow is one line of the per-period overview.
type PeriodRow struct {
	Index      int
	Folder     string
	Name       string // empty when the name table is too short
	Files      int
	Distance   float64
	Cumulative float64
}

// Summary describes a data folder against the configured tables.
type Summary struct {
	Root     string
	Output   string
	Rows     []PeriodRow
	Warnings []string
}

// Summarize lists every period folder with its file count and ledger totals.
func Summarize(m track.Manifest, l *ledger.Ledger, names []string) Summary {
	counts := m.Counts()
	sum := Summary{Root: m.Root, Warnings: l.Warnings(names, len(m.Periods))}
	for i, folder := range m.Periods {
		row := PeriodRow{Index: i, Folder: folder, Files: counts[i]}
		if i < len(names) {
			row.Name = names[i]
		}
		row.Distance, row.Cumulative = l.Totals(i)
		sum.Rows = append(sum.Rows, row)
	}
	return sum
}

// Summary returns the overview of the opened data folder.
func (s *Session) Summary() Summary {
	sum := Summarize(s.manifest, s.ledger, s.cfg.Periods.Names)
	sum.Output = s.cfg.Output.Path
	return sum
}
