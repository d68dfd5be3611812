package entity

import (
	"fmt"
)

// Table is an ordered set of named columns over rows of nullable cells.
// Rows are ragged-free: every row has exactly len(Columns) cells.
type Table struct {
	Columns []string  `json:"columns"`
	Rows    [][]Value `json:"rows"`
}

// NewTable creates an empty table with the given column names.
func NewTable(columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)

	return &Table{
		Columns: cols,
		Rows:    make([][]Value, 0),
	}
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// ColumnIndex finds the position of a named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, col := range t.Columns {
		if col == name {
			return i, true
		}
	}
	return 0, false
}

// Column returns a copy of the named column's cells.
func (t *Table) Column(name string) ([]Value, bool) {
	idx, ok := t.ColumnIndex(name)
	if !ok {
		return nil, false
	}

	cells := make([]Value, len(t.Rows))
	for i, row := range t.Rows {
		cells[i] = row[idx]
	}
	return cells, true
}

// AppendRow adds a row to the table. The cell count must match the columns.
func (t *Table) AppendRow(cells []Value) error {
	if len(cells) != len(t.Columns) {
		return fmt.Errorf("row has %d cells, table has %d columns", len(cells), len(t.Columns))
	}

	row := make([]Value, len(cells))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
	return nil
}

// AddColumn appends a new column with one cell per existing row.
func (t *Table) AddColumn(name string, cells []Value) error {
	if _, exists := t.ColumnIndex(name); exists {
		return fmt.Errorf("column %q already exists", name)
	}
	if len(cells) != len(t.Rows) {
		return fmt.Errorf("column %q has %d cells, table has %d rows", name, len(cells), len(t.Rows))
	}

	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], cells[i])
	}
	return nil
}

// Clone returns a deep copy. Mutating the copy never affects the original.
func (t *Table) Clone() *Table {
	out := NewTable(t.Columns)
	out.Rows = make([][]Value, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]Value, len(row))
		copy(cells, row)
		out.Rows[i] = cells
	}
	return out
}
