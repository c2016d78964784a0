package export_test

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/okian/mealrecon/internal/adapters/export"
	"github.com/okian/mealrecon/internal/domain/fiscal"
	"github.com/okian/mealrecon/internal/domain/model"
	"github.com/okian/mealrecon/internal/domain/types"
	"github.com/shopspring/decimal"
	"github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"
)

func readBook(t *testing.T, raw []byte, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatal(err)
	}
	return rows
}

func TestDetail(t *testing.T) {
	convey.Convey("Given reconciled events", t, func() {
		events := []model.ReconciledEvent{
			{
				ClassifiedEvent: model.ClassifiedEvent{
					CheckInEvent: model.CheckInEvent{
						ID: model.ID(101), Name: "ANA", Department: "Becarios", Device: "1",
						Timestamp: time.Date(2026, time.March, 3, 8, 41, 10, 0, time.UTC),
					},
					Service: model.Breakfast,
				},
				ResolvedName: "Ana Ruiz",
				Subsidy:      decimal.NewFromInt(20),
				Match:        model.MatchByID,
			},
			{
				ClassifiedEvent: model.ClassifiedEvent{
					CheckInEvent: model.CheckInEvent{
						Name: "Eva, Sol", Timestamp: time.Date(2026, time.March, 3, 19, 0, 0, 0, time.UTC),
					},
					Service: model.Other,
				},
				ResolvedName: "Eva, Sol",
				Subsidy:      decimal.Zero,
			},
		}

		var buf bytes.Buffer
		err := export.Detail(events)(&buf)

		convey.Convey("Then the csv should keep input order and quote as needed", func() {
			convey.So(err, convey.ShouldBeNil)
			recs, err := csv.NewReader(&buf).ReadAll()
			convey.So(err, convey.ShouldBeNil)
			convey.So(recs, convey.ShouldHaveLength, 3)
			convey.So(recs[0], convey.ShouldResemble, export.DetailHeader)
			convey.So(recs[1], convey.ShouldResemble, []string{
				"101", "ANA", "Ana Ruiz", "Becarios", "1", "2026-03-03", "08:41:10", "Breakfast", "id", "20.00",
			})
			convey.So(recs[2][0], convey.ShouldEqual, "")
			convey.So(recs[2][1], convey.ShouldEqual, "Eva, Sol")
			convey.So(recs[2][7], convey.ShouldEqual, "Other")
			convey.So(recs[2][8], convey.ShouldEqual, "none")
		})
	})
}

func TestWorkbooks(t *testing.T) {
	convey.Convey("Given aggregates and a fiscal breakdown", t, func() {
		daily := []model.DailyServiceAggregate{{
			Date:            types.Date{Year: 2026, Month: time.March, Day: 3},
			Service:         model.Breakfast,
			UniqueAttendees: 2,
			Records:         3,
			UnitPrice:       decimal.NewFromInt(84),
			Gross:           decimal.NewFromInt(168),
			SubsidySum:      decimal.NewFromInt(20),
			Net:             decimal.NewFromInt(148),
		}}
		fb := fiscal.DefaultRates().Compute(decimal.NewFromInt(1000))

		convey.Convey("When the daily summary is rendered", func() {
			var buf bytes.Buffer
			convey.So(export.DailySummary(daily, fb)(&buf), convey.ShouldBeNil)

			convey.Convey("Then both sheets should be present", func() {
				summary := readBook(t, buf.Bytes(), export.SheetSummary)
				convey.So(summary, convey.ShouldHaveLength, 2)
				convey.So(summary[0], convey.ShouldResemble, export.SummaryHeader)
				convey.So(summary[1], convey.ShouldResemble, []string{"2026-03-03", "Breakfast", "2", "3", "84", "168", "20", "148"})

				breakdown := readBook(t, buf.Bytes(), export.SheetBreakdown)
				convey.So(breakdown, convey.ShouldHaveLength, 6)
				convey.So(breakdown[2], convey.ShouldResemble, []string{"vat", "160"})
				convey.So(breakdown[3], convey.ShouldResemble, []string{"vat_withholding", "106.67"})
				convey.So(breakdown[5], convey.ShouldResemble, []string{"net_invoice", "1040.83"})
			})
		})

		convey.Convey("When the fiscal workbook is rendered", func() {
			var buf bytes.Buffer
			convey.So(export.Fiscal(fb)(&buf), convey.ShouldBeNil)
			rows := readBook(t, buf.Bytes(), export.SheetFiscal)
			convey.So(rows[4], convey.ShouldResemble, []string{"isr_withholding", "12.5"})
		})

		convey.Convey("When member attendance is rendered", func() {
			var buf bytes.Buffer
			err := export.MemberAttendance([]model.MemberAttendanceSummary{
				{Key: "id:1", ID: model.ID(1), Name: "Ana", Breakfast: 2, Lunch: 1, Total: 3},
				{Key: "name:Eva", Name: "Eva", Lunch: 1, Total: 1},
			})(&buf)
			convey.So(err, convey.ShouldBeNil)

			rows := readBook(t, buf.Bytes(), export.SheetMembers)
			convey.So(rows, convey.ShouldHaveLength, 3)
			convey.So(rows[1], convey.ShouldResemble, []string{"1", "Ana", "2", "1", "3"})
			convey.So(rows[2][0], convey.ShouldEqual, "")
			convey.So(rows[2][1], convey.ShouldEqual, "Eva")
		})
	})
}

func TestNamesFor(t *testing.T) {
	convey.Convey("Given a multi-day period", t, func() {
		n := export.NamesFor(model.Period{
			Start: types.Date{Year: 2026, Month: time.March, Day: 2},
			End:   types.Date{Year: 2026, Month: time.March, Day: 6},
		})
		convey.So(n.Detail, convey.ShouldEqual, "detail_02-03-2026_a_06-03-2026.csv")
		convey.So(n.DailySummary, convey.ShouldEqual, "daily_summary_02-03-2026_a_06-03-2026.xlsx")
		convey.So(n.MemberAttendance, convey.ShouldEqual, "member_attendance_02-03-2026_a_06-03-2026.xlsx")
		convey.So(n.Fiscal, convey.ShouldEqual, "fiscal_breakdown_02-03-2026_a_06-03-2026.xlsx")
		convey.So(n.Report, convey.ShouldEqual, "report_02-03-2026_a_06-03-2026.txt")
	})
}
