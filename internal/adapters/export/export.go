// Package export renders pipeline results into csv and xlsx artifacts.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/okian/mealrecon/internal/domain/model"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Sheet names.
const (
	SheetSummary    = "Summary"
	SheetBreakdown  = "Breakdown"
	SheetMembers    = "Members"
	SheetFiscal     = "Fiscal"
	defaultSheet    = "Sheet1"
	moneyDecimals   = 2
	timeOfDayLayout = "15:04:05"
)

// Column headers.
var (
	DetailHeader = []string{
		"id", "name", "resolved_name", "department", "device",
		"date", "time", "service", "match", "subsidy",
	}
	SummaryHeader = []string{
		"date", "service", "attendees", "records", "unit_price", "gross", "subsidies", "net",
	}
	MembersHeader = []string{"id", "name", "breakfast", "lunch", "total"}
	FiscalHeader  = []string{"concept", "amount"}
)

// Detail renders every reconciled event as csv, in input order.
func Detail(events []model.ReconciledEvent) func(io.Writer) error {
	return func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(DetailHeader); err != nil {
			return err
		}
		for _, e := range events {
			rec := []string{
				e.ID.String(),
				e.Name,
				e.ResolvedName,
				e.Department,
				e.Device,
				e.Date().String(),
				e.Timestamp.Format(timeOfDayLayout),
				e.Service.String(),
				e.Match.String(),
				e.Subsidy.StringFixed(moneyDecimals),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	}
}

// DailySummary renders the daily aggregates on a Summary sheet and the
// fiscal breakdown on a Breakdown sheet.
func DailySummary(daily []model.DailyServiceAggregate, fb model.FiscalBreakdown) func(io.Writer) error {
	return func(w io.Writer) error {
		rows := make([][]any, 0, len(daily)+1)
		rows = append(rows, toAny(SummaryHeader))
		for _, a := range daily {
			rows = append(rows, []any{
				a.Date.String(),
				a.Service.String(),
				a.UniqueAttendees,
				a.Records,
				money(a.UnitPrice),
				money(a.Gross),
				money(a.SubsidySum),
				money(a.Net),
			})
		}
		return writeBook(w, []sheet{
			{name: SheetSummary, rows: rows},
			{name: SheetBreakdown, rows: fiscalRows(fb)},
		})
	}
}

// MemberAttendance renders per-member attendance counts.
func MemberAttendance(members []model.MemberAttendanceSummary) func(io.Writer) error {
	return func(w io.Writer) error {
		rows := make([][]any, 0, len(members)+1)
		rows = append(rows, toAny(MembersHeader))
		for _, m := range members {
			var id any = ""
			if m.ID.Valid {
				id = m.ID.Value
			}
			rows = append(rows, []any{id, m.Name, m.Breakfast, m.Lunch, m.Total})
		}
		return writeBook(w, []sheet{{name: SheetMembers, rows: rows}})
	}
}

// Fiscal renders the single fiscal breakdown record.
func Fiscal(fb model.FiscalBreakdown) func(io.Writer) error {
	return func(w io.Writer) error {
		return writeBook(w, []sheet{{name: SheetFiscal, rows: fiscalRows(fb)}})
	}
}

func fiscalRows(fb model.FiscalBreakdown) [][]any {
	return [][]any{
		toAny(FiscalHeader),
		{"base", money(fb.Base)},
		{"vat", money(fb.VAT)},
		{"vat_withholding", money(fb.VATWithholding)},
		{"isr_withholding", money(fb.ISRWithholding)},
		{"net_invoice", money(fb.NetInvoice)},
	}
}

type sheet struct {
	name string
	rows [][]any
}

func writeBook(w io.Writer, sheets []sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, s.name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return err
		}
		for r, row := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(s.name, cell, &row); err != nil {
				return fmt.Errorf("sheet %s row %d: %w", s.name, r+1, err)
			}
		}
	}
	return f.Write(w)
}

func money(d decimal.Decimal) float64 {
	return d.Round(moneyDecimals).InexactFloat64()
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
