package classify_test

import (
	"testing"
	"time"

	classify "github.com/okian/mealrecon/internal/domain/classify"
	"github.com/okian/mealrecon/internal/domain/model"
	"github.com/okian/mealrecon/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClassifier_Classify(t *testing.T) {
	Convey("Given a classifier with default windows and a 5 minute tolerance", t, func() {
		c := classify.New()

		Convey("When the time is inside the tolerant breakfast start", func() {
			So(c.Classify(types.Clock(8, 26, 0)), ShouldEqual, model.Breakfast)
			So(c.Classify(types.Clock(8, 25, 0)), ShouldEqual, model.Breakfast)
		})

		Convey("When the time is before the tolerant breakfast start", func() {
			So(c.Classify(types.Clock(8, 24, 0)), ShouldEqual, model.Other)
			So(c.Classify(types.Clock(8, 24, 59)), ShouldEqual, model.Other)
		})

		Convey("When the time falls where both widened windows overlap", func() {
			Convey("Then breakfast should win the tie", func() {
				So(c.Classify(types.Clock(12, 20, 0)), ShouldEqual, model.Breakfast)
			})
		})

		Convey("When the time is past breakfast and inside lunch", func() {
			So(c.Classify(types.Clock(12, 20, 1)), ShouldEqual, model.Lunch)
			So(c.Classify(types.Clock(14, 0, 0)), ShouldEqual, model.Lunch)
			So(c.Classify(types.Clock(16, 35, 0)), ShouldEqual, model.Lunch)
		})

		Convey("When the time is after the tolerant lunch end", func() {
			So(c.Classify(types.Clock(16, 35, 1)), ShouldEqual, model.Other)
			So(c.Classify(types.Clock(23, 59, 59)), ShouldEqual, model.Other)
		})

		Convey("When the time is missing", func() {
			So(c.Classify(types.TimeOfDay{}), ShouldEqual, model.Other)
		})

		Convey("Then every second of the day should map to exactly one kind", func() {
			counts := map[model.ServiceKind]int{}
			for s := 0; s < 24*3600; s++ {
				k := c.Classify(types.Clock(s/3600, (s%3600)/60, s%60))
				counts[k]++
			}
			So(len(counts), ShouldEqual, 3)
			So(counts[model.Breakfast]+counts[model.Lunch]+counts[model.Other], ShouldEqual, 24*3600)
		})
	})
}

func TestClassifier_Options(t *testing.T) {
	Convey("Given classifier options", t, func() {
		Convey("When tolerance is zero", func() {
			c := classify.New(classify.WithTolerance(0))

			Convey("Then window boundaries should be exact", func() {
				So(c.Classify(types.Clock(8, 29, 59)), ShouldEqual, model.Other)
				So(c.Classify(types.Clock(8, 30, 0)), ShouldEqual, model.Breakfast)
				So(c.Classify(types.Clock(12, 20, 0)), ShouldEqual, model.Other)
				So(c.Classify(types.Clock(12, 25, 0)), ShouldEqual, model.Lunch)
			})
		})

		Convey("When tolerance is negative", func() {
			c := classify.New(classify.WithTolerance(-time.Minute))

			Convey("Then the default tolerance should be kept", func() {
				w, ok := c.Window(model.Breakfast)
				So(ok, ShouldBeTrue)
				So(w.Start.String(), ShouldEqual, "08:25:00")
			})
		})

		Convey("When custom windows are supplied", func() {
			c := classify.New(
				classify.WithBreakfastWindow(types.Window{Start: types.Clock(7, 0, 0), End: types.Clock(9, 0, 0)}),
				classify.WithLunchWindow(types.Window{Start: types.Clock(13, 0, 0), End: types.Clock(15, 0, 0)}),
				classify.WithTolerance(10*time.Minute),
			)

			So(c.Classify(types.Clock(6, 50, 0)), ShouldEqual, model.Breakfast)
			So(c.Classify(types.Clock(9, 11, 0)), ShouldEqual, model.Other)
			So(c.Classify(types.Clock(12, 50, 0)), ShouldEqual, model.Lunch)

			_, ok := c.Window(model.Other)
			So(ok, ShouldBeFalse)
		})

		Convey("When an invalid window is supplied", func() {
			c := classify.New(classify.WithBreakfastWindow(types.Window{}))

			Convey("Then the default window should be kept", func() {
				So(c.Classify(types.Clock(9, 0, 0)), ShouldEqual, model.Breakfast)
			})
		})
	})
}

func TestClassifier_ClassifyAll(t *testing.T) {
	Convey("Given a batch of check-ins", t, func() {
		c := classify.New()
		day := time.Date(2026, time.January, 12, 0, 0, 0, 0, time.UTC)
		events := []model.CheckInEvent{
			{ID: model.ID(1), Timestamp: day.Add(9 * time.Hour)},
			{ID: model.ID(2), Timestamp: day.Add(13 * time.Hour)},
			{ID: model.ID(3), Timestamp: day.Add(20 * time.Hour)},
		}

		out := c.ClassifyAll(events)

		Convey("Then order should be preserved and each event tagged", func() {
			So(len(out), ShouldEqual, 3)
			So(out[0].ID, ShouldResemble, model.ID(1))
			So(out[0].Service, ShouldEqual, model.Breakfast)
			So(out[1].Service, ShouldEqual, model.Lunch)
			So(out[2].Service, ShouldEqual, model.Other)
		})
	})
}
