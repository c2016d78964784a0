package model

import (
	"github.com/okian/mealrecon/internal/domain/types"
	"github.com/shopspring/decimal"
)

// DailyServiceAggregate summarizes one (date, service) group.
// Invariants: Gross = UniqueAttendees * UnitPrice and Net = Gross - SubsidySum.
type DailyServiceAggregate struct {
	Date            types.Date
	Service         ServiceKind
	UniqueAttendees int
	Records         int
	UnitPrice       decimal.Decimal
	Gross           decimal.Decimal
	SubsidySum      decimal.Decimal
	Net             decimal.Decimal
}

// MemberAttendanceSummary counts attendances of one attendee over the period.
type MemberAttendanceSummary struct {
	Key       AttendeeKey
	ID        Identifier
	Name      string
	Breakfast int
	Lunch     int
	Total     int
}

// GrandTotals are the period totals across all aggregates.
type GrandTotals struct {
	BreakfastAttendees int
	LunchAttendees     int
	BreakfastCost      decimal.Decimal
	LunchCost          decimal.Decimal
	Gross              decimal.Decimal
	Subsidies          decimal.Decimal
	Net                decimal.Decimal
}

// FiscalBreakdown is the invoice tax split derived from the net total.
type FiscalBreakdown struct {
	Base           decimal.Decimal
	VAT            decimal.Decimal
	VATWithholding decimal.Decimal
	ISRWithholding decimal.Decimal
	NetInvoice     decimal.Decimal
}

// Period is the inclusive date range covered by a run.
type Period struct {
	Start types.Date
	End   types.Date
}

// Label renders DD-MM-YYYY, or DD-MM-YYYY_a_DD-MM-YYYY for multi-day periods.
func (p Period) Label() string {
	start := p.Start.Format("02-01-2006")
	if p.Start == p.End {
		return start
	}
	return start + "_a_" + p.End.Format("02-01-2006")
}
