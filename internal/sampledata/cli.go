package sampledata

import "os"

// ShowHelp prints usage information for the sample data tool.
func ShowHelp() {
	os.Stdout.WriteString(`Meal check-in sample data
=========================

Writes a synthetic check-in log and subsidy registry for exercising the
reconciliation pipeline without production data.

Usage:
  go run ./cmd/sample-data [options]

Options:
  -out string
        Output directory (default ".")
  -members int
        Registry size (default 120)
  -visitors int
        Unregistered check-ins per day (default 3)
  -days int
        Consecutive days to generate (default 5)
  -start string
        First day, YYYY-MM-DD (default 2026-03-02)
  -seed uint
        Random seed; equal seeds give equal files (default 2026)
  -log string
        Check-in log file name (default "registros.txt")
  -registry string
        Registry file name, .csv or .xlsx (default "padron.csv")
  -sheet string
        Registry sheet name for .xlsx (default "Base de datos (nueva)")
  -verbose
        Enable debug logging
  -help
        Show this help

Example:
  go run ./cmd/sample-data -out ./data -days 10 -registry padron.xlsx
  go run ./cmd -checkin ./data/registros.txt -registry ./data/padron.xlsx
`)
}
