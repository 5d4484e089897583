package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/table"

	"routereel/internal/anim"
	"routereel/internal/reel"
)

// newLedgerTable lists each period folder with its name, file count and
// distances.
func newLedgerTable(sum reel.Summary) table.Model {
	cols := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Folder", Width: 14},
		{Title: "Name", Width: 11},
		{Title: "Files", Width: 5},
		{Title: "Dist", Width: 7},
		{Title: "Total", Width: 7},
	}
	rows := make([]table.Row, 0, len(sum.Rows))
	for _, r := range sum.Rows {
		name := r.Name
		if name == "" {
			name = "?"
		}
		rows = append(rows, table.Row{
			strconv.Itoa(r.Index),
			r.Folder,
			name,
			strconv.Itoa(r.Files),
			anim.FormatDistance(r.Distance),
			anim.FormatDistance(r.Cumulative),
		})
	}
	t := table.New(table.WithColumns(cols), table.WithRows(rows), table.WithFocused(true))
	t.SetHeight(min(12, len(rows)+1))
	return t
}

func tableWidth(t table.Model) int {
	w := 0
	for _, c := range t.Columns() {
		w += c.Width + 2
	}
	return w
}
