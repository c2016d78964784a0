// Package sheet reads tabular registry files into header plus rows.
//
// Workbooks (.xlsx, .xlsm) are read with excelize using raw cell values so
// numbers keep their stored form; .csv files are read with encoding/csv.
package sheet

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/okian/mealrecon/internal/domain/registry"
	"github.com/xuri/excelize/v2"
)

// ReadTable loads path. For workbooks sheetName selects the sheet; an empty
// name selects the first one. Rows shorter than the header are padded.
func ReadTable(ctx context.Context, path, sheetName string) (registry.Table, error) {
	if err := ctx.Err(); err != nil {
		return registry.Table{}, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".xlsx", ".xlsm", ".csv":
	default:
		return registry.Table{}, fmt.Errorf("%w: %s", ErrFormat, path)
	}
	fh, err := os.Open(path)
	if err != nil {
		return registry.Table{}, fmt.Errorf("%w %s: %w", ErrOpen, path, err)
	}
	defer fh.Close()
	if ext == ".csv" {
		return ReadCSV(fh)
	}
	return ReadWorkbook(fh, sheetName)
}

// ReadWorkbook reads a workbook from r.
func ReadWorkbook(r io.Reader, sheetName string) (registry.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return registry.Table{}, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer f.Close()
	return readWorkbook(f, sheetName)
}

func readWorkbook(f *excelize.File, sheetName string) (registry.Table, error) {
	sheets := f.GetSheetList()
	if sheetName == "" {
		if len(sheets) == 0 {
			return registry.Table{}, ErrEmpty
		}
		sheetName = sheets[0]
	}
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		var missing excelize.ErrSheetNotExist
		if errors.As(err, &missing) {
			return registry.Table{}, fmt.Errorf("%w: %q (available: %s)", ErrSheetNotFound, sheetName, strings.Join(sheets, ", "))
		}
		return registry.Table{}, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	return toTable(rows)
}

// ReadCSV reads a comma separated table from r.
func ReadCSV(r io.Reader) (registry.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return registry.Table{}, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return toTable(rows)
}

func toTable(rows [][]string) (registry.Table, error) {
	if len(rows) == 0 {
		return registry.Table{}, ErrEmpty
	}
	t := registry.Table{Header: rows[0], Rows: make([][]string, 0, len(rows)-1)}
	width := len(t.Header)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			row = padded
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
