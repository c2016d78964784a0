package sampledata

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Log and registry headers as produced by the check-in terminals and the
// registry spreadsheet.
var (
	LogHeader      = []string{"ID", "Nombre", "Depart", "Tiempo", "ID dispositivo"}
	RegistryHeader = []string{"ID Becario", "Nombre Completo", "Aportación Mensual"}
)

// LogWriter renders check-ins as a tab-separated log.
func LogWriter(checkIns []CheckIn) func(io.Writer) error {
	return func(w io.Writer) error {
		if _, err := io.WriteString(w, strings.Join(LogHeader, "\t")+"\r\n"); err != nil {
			return err
		}
		for _, c := range checkIns {
			line := logLine(c)
			if _, err := io.WriteString(w, line+"\r\n"); err != nil {
				return err
			}
		}
		return nil
	}
}

func logLine(c CheckIn) string {
	if c.Malformed {
		return "???\tlinea truncada"
	}
	return strings.Join([]string{c.ID, c.Name, c.Department, c.Time.Format(timestampLayout), c.Device}, "\t")
}

// RegistryCSVWriter renders members as a comma-separated registry.
func RegistryCSVWriter(members []Member) func(io.Writer) error {
	return func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(RegistryHeader); err != nil {
			return err
		}
		for _, m := range members {
			if err := cw.Write(registryRow(m)); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	}
}

// RegistryXLSXWriter renders members as a workbook with one sheet.
func RegistryXLSXWriter(sheet string, members []Member) func(io.Writer) error {
	return func(w io.Writer) error {
		f := excelize.NewFile()
		defer func() { _ = f.Close() }()

		if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
			return fmt.Errorf("rename sheet: %w", err)
		}
		rows := make([][]string, 0, len(members)+1)
		rows = append(rows, RegistryHeader)
		for _, m := range members {
			rows = append(rows, registryRow(m))
		}
		for i, r := range rows {
			cellName, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				return err
			}
			vals := make([]any, len(r))
			for j, v := range r {
				vals[j] = v
			}
			if err := f.SetSheetRow(sheet, cellName, &vals); err != nil {
				return err
			}
		}
		return f.Write(w)
	}
}

func registryRow(m Member) []string {
	id := strconv.FormatInt(m.ID, 10)
	if m.NoID {
		id = ""
	}
	return []string{id, m.Name, strconv.Itoa(m.Subsidy)}
}
