// Package report renders the human-readable run report.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/okian/mealrecon/internal/domain/aggregate"
	"github.com/okian/mealrecon/internal/domain/model"
	"github.com/shopspring/decimal"
)

// DefaultTopMembers is how many members the attendance section lists.
const DefaultTopMembers = 40

// Input is everything the report shows.
type Input struct {
	RunID       string
	GeneratedAt time.Time
	Period      model.Period
	Totals      model.GrandTotals
	Prices      aggregate.Prices
	Fiscal      model.FiscalBreakdown
	Daily       []model.DailyServiceAggregate
	Members     []model.MemberAttendanceSummary
	TopMembers  int
	Dropped     int
}

// Render writes the report as aligned plain text.
func Render(w io.Writer, in Input) error {
	top := in.TopMembers
	if top <= 0 {
		top = DefaultTopMembers
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	p := func(format string, args ...any) { fmt.Fprintf(tw, format, args...) }

	p("Attendance and cost report\n")
	p("Run:\t%s\n", in.RunID)
	p("Generated:\t%s\n", in.GeneratedAt.Format(time.RFC3339))
	p("Period:\t%s to %s\n", in.Period.Start.Format("02/01/2006"), in.Period.End.Format("02/01/2006"))
	if in.Dropped > 0 {
		p("Dropped records:\t%d\n", in.Dropped)
	}

	p("\nTotals\n")
	p("Breakfast attendees:\t%d\tx %s\t= %s\n", in.Totals.BreakfastAttendees, amount(in.Prices.Breakfast), amount(in.Totals.BreakfastCost))
	p("Lunch attendees:\t%d\tx %s\t= %s\n", in.Totals.LunchAttendees, amount(in.Prices.Lunch), amount(in.Totals.LunchCost))
	p("Gross:\t\t\t%s\n", amount(in.Totals.Gross))
	p("Subsidies:\t\t\t%s\n", amount(in.Totals.Subsidies))
	p("Net:\t\t\t%s\n", amount(in.Totals.Net))

	p("\nFiscal breakdown\n")
	p("Base:\t%s\n", amount(in.Fiscal.Base))
	p("VAT:\t%s\n", amount(in.Fiscal.VAT))
	p("VAT withholding:\t%s\n", amount(in.Fiscal.VATWithholding))
	p("ISR withholding:\t%s\n", amount(in.Fiscal.ISRWithholding))
	p("Net invoice:\t%s\n", amount(in.Fiscal.NetInvoice))

	p("\nDaily summary\n")
	p("Date\tService\tAttendees\tRecords\tPrice\tGross\tSubsidies\tNet\n")
	for _, a := range in.Daily {
		p("%s\t%s\t%d\t%d\t%s\t%s\t%s\t%s\n",
			a.Date.Format("02/01/2006"), a.Service, a.UniqueAttendees, a.Records,
			amount(a.UnitPrice), amount(a.Gross), amount(a.SubsidySum), amount(a.Net))
	}

	p("\nMember attendance (top %d)\n", top)
	p("ID\tName\tBreakfast\tLunch\tTotal\n")
	for _, m := range aggregate.TopMembers(in.Members, top) {
		p("%s\t%s\t%d\t%d\t%d\n", m.ID, m.Name, m.Breakfast, m.Lunch, m.Total)
	}

	return tw.Flush()
}

func amount(d decimal.Decimal) string { return "$" + d.StringFixed(2) }
