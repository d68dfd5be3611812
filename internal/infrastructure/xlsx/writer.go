package xlsx

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/bettercharge/transaction-cleaning-system/internal/domain/entity"
)

const defaultSheetName = "Sheet1"

// WriteTable streams a table as an .xlsx workbook with a single sheet.
// Null cells are left empty so they survive a read round-trip.
func WriteTable(t *entity.Table, w io.Writer, sheet string) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if sheet == "" {
		sheet = defaultSheetName
	}
	if sheet != defaultSheetName {
		if err := f.SetSheetName(defaultSheetName, sheet); err != nil {
			return fmt.Errorf("failed to name sheet %q: %w", sheet, err)
		}
	}

	for i, name := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("failed to write header %q: %w", name, err)
		}
	}

	for r, row := range t.Rows {
		for c, v := range row {
			if v.IsNull() {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}

			if f64, ok := v.Float(); ok {
				err = f.SetCellValue(sheet, cell, f64)
			} else {
				err = f.SetCellValue(sheet, cell, v.Text())
			}
			if err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Writer persists tables as .xlsx files, creating missing parent
// directories first. It satisfies the conversion service's TableWriter.
type Writer struct {
	// Sheet names the output sheet; empty means Sheet1.
	Sheet string
}

// Write saves the table as a workbook at path.
func (w Writer) Write(t *entity.Table, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		_ = out.Close()
	}()

	return WriteTable(t, out, w.Sheet)
}
