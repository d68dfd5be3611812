// Package xlsx adapts spreadsheet files to the table model. The first row
// of a sheet is the header; blank headers get an "Unnamed: N" placeholder
// so downstream alignment repair can recognize them.
package xlsx

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/bettercharge/transaction-cleaning-system/internal/domain/entity"
)

// ReadTable loads one sheet into a table. An empty sheet name selects the
// workbook's first sheet. Blank cells become null; numeric-looking cells
// become numbers; everything else stays text.
func ReadTable(r io.Reader, sheet string) (*entity.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	columns := make([]string, len(rows[0]))
	for i, name := range rows[0] {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		columns[i] = name
	}

	t := entity.NewTable(columns)
	for _, raw := range rows[1:] {
		cells := make([]entity.Value, len(columns))
		for i := range columns {
			if i < len(raw) {
				cells[i] = parseCell(raw[i])
			} else {
				cells[i] = entity.Null()
			}
		}
		if err := t.AppendRow(cells); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// ReadTableFromFile loads one sheet of a workbook on disk.
func ReadTableFromFile(path, sheet string) (*entity.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	return ReadTable(f, sheet)
}

func parseCell(raw string) entity.Value {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return entity.Null()
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return entity.Number(f)
	}
	return entity.String(raw)
}
