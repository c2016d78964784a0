package types_test

import (
	"errors"
	"testing"
	"time"

	types "github.com/okian/mealrecon/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTimeOfDay(t *testing.T) {
	Convey("Given wall-clock values", t, func() {
		Convey("When building a clock from components", func() {
			tod := types.Clock(8, 30, 0)

			Convey("Then it should be valid and render as HH:MM:SS", func() {
				So(tod.Valid(), ShouldBeTrue)
				So(tod.Seconds(), ShouldEqual, 8*3600+30*60)
				So(tod.String(), ShouldEqual, "08:30:00")
			})
		})

		Convey("When building a clock with out-of-range components", func() {
			So(types.Clock(24, 0, 0).Valid(), ShouldBeFalse)
			So(types.Clock(10, 60, 0).Valid(), ShouldBeFalse)
			So(types.Clock(-1, 0, 0).Valid(), ShouldBeFalse)
		})

		Convey("When the value is the zero value", func() {
			var tod types.TimeOfDay

			Convey("Then it should be missing, not midnight", func() {
				So(tod.Valid(), ShouldBeFalse)
				So(tod.String(), ShouldEqual, "")
				So(types.Clock(0, 0, 0).Valid(), ShouldBeTrue)
			})
		})

		Convey("When parsing clock strings", func() {
			hm, err := types.ParseClock("12:15")
			So(err, ShouldBeNil)
			So(hm.String(), ShouldEqual, "12:15:00")

			hms, err := types.ParseClock(" 16:30:59 ")
			So(err, ShouldBeNil)
			So(hms.String(), ShouldEqual, "16:30:59")

			for _, bad := range []string{"", "12", "a:b", "25:00", "12:00:00:00"} {
				_, err := types.ParseClock(bad)
				So(errors.Is(err, types.ErrInvalidClock), ShouldBeTrue)
			}
		})

		Convey("When shifting a clock", func() {
			tod := types.Clock(8, 30, 0)

			So(tod.Add(-5*time.Minute).String(), ShouldEqual, "08:25:00")
			So(tod.Add(5*time.Minute).String(), ShouldEqual, "08:35:00")
			So(types.Clock(0, 2, 0).Add(-5*time.Minute).String(), ShouldEqual, "00:00:00")
			So(types.Clock(23, 58, 0).Add(5*time.Minute).String(), ShouldEqual, "23:59:59")
			So(types.TimeOfDay{}.Add(time.Hour).Valid(), ShouldBeFalse)
		})
	})
}

func TestWindow(t *testing.T) {
	Convey("Given a breakfast window 08:30-12:15", t, func() {
		w := types.Window{Start: types.Clock(8, 30, 0), End: types.Clock(12, 15, 0)}

		Convey("Then boundaries should be inclusive", func() {
			So(w.Contains(types.Clock(8, 30, 0)), ShouldBeTrue)
			So(w.Contains(types.Clock(12, 15, 0)), ShouldBeTrue)
			So(w.Contains(types.Clock(8, 29, 59)), ShouldBeFalse)
			So(w.Contains(types.Clock(12, 15, 1)), ShouldBeFalse)
		})

		Convey("Then a missing time should never be contained", func() {
			So(w.Contains(types.TimeOfDay{}), ShouldBeFalse)
		})

		Convey("When widened by five minutes", func() {
			wide := w.Widen(5 * time.Minute)

			So(wide.Start.String(), ShouldEqual, "08:25:00")
			So(wide.End.String(), ShouldEqual, "12:20:00")
			So(wide.Contains(types.Clock(8, 26, 0)), ShouldBeTrue)
			So(wide.Contains(types.Clock(8, 24, 0)), ShouldBeFalse)
		})
	})
}

func TestDate(t *testing.T) {
	Convey("Given civil dates", t, func() {
		d := types.DateOf(time.Date(2026, time.March, 2, 13, 4, 5, 0, time.UTC))

		Convey("Then it should drop the time of day", func() {
			So(d, ShouldResemble, types.Date{Year: 2026, Month: time.March, Day: 2})
			So(d.String(), ShouldEqual, "2026-03-02")
			So(d.Format("02-01-2006"), ShouldEqual, "02-03-2026")
		})

		Convey("Then ordering should follow the calendar", func() {
			later := types.Date{Year: 2026, Month: time.March, Day: 10}
			So(d.Before(later), ShouldBeTrue)
			So(later.Before(d), ShouldBeFalse)
			So(d.Before(d), ShouldBeFalse)
			So(types.Date{Year: 2025, Month: time.December, Day: 31}.Before(d), ShouldBeTrue)
		})

		Convey("Then the zero date should report zero", func() {
			So(types.Date{}.IsZero(), ShouldBeTrue)
			So(d.IsZero(), ShouldBeFalse)
		})
	})
}
