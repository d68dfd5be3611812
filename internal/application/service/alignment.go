package service

import (
	"strings"

	"github.com/bettercharge/transaction-cleaning-system/internal/domain/entity"
)

// AlignTable repairs rows that drifted one column to the right during data
// entry. A row is misaligned when any unnamed column (empty header or an
// "Unnamed" placeholder) carries a value; for such rows the cells from the
// third column onward shift one position left, with a trailing null.
// Returns a new table; the input is not mutated.
func AlignTable(t *entity.Table) *entity.Table {
	out := t.Clone()

	for idx, name := range out.Columns {
		if !isUnnamedColumn(name) {
			continue
		}
		for _, row := range out.Rows {
			if row[idx].IsNull() || strings.TrimSpace(row[idx].Text()) == "" {
				continue
			}
			shiftLeftFrom(row, 2)
		}
	}

	return out
}

func isUnnamedColumn(name string) bool {
	return name == "" || strings.HasPrefix(name, "Unnamed")
}

// shiftLeftFrom moves cells [start+1:] one position left into [start:] and
// nulls the last cell.
func shiftLeftFrom(row []entity.Value, start int) {
	if start >= len(row) {
		return
	}
	copy(row[start:], row[start+1:])
	row[len(row)-1] = entity.Null()
}
