package sampledata_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/mealrecon/internal/adapters/checkinlog"
	"github.com/okian/mealrecon/internal/adapters/sheet"
	"github.com/okian/mealrecon/internal/domain/loader"
	"github.com/okian/mealrecon/internal/domain/registry"
	"github.com/okian/mealrecon/internal/sampledata"
	"github.com/okian/mealrecon/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init(logger.WithWriter(io.Discard))
}

func testConfig() sampledata.Config {
	return sampledata.Config{
		Members:  30,
		Visitors: 2,
		Days:     3,
		Start:    time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
		Seed:     7,
	}
}

func TestGenerate(t *testing.T) {
	Convey("Given a generator configuration", t, func() {
		cfg := testConfig()

		Convey("When generating twice with the same seed", func() {
			a := sampledata.Generate(cfg)
			b := sampledata.Generate(cfg)

			Convey("Then the datasets should be identical", func() {
				So(a, ShouldResemble, b)
				So(len(a.Members), ShouldEqual, 30)
			})
		})

		Convey("When the seed changes", func() {
			a := sampledata.Generate(cfg)
			cfg.Seed = 8
			b := sampledata.Generate(cfg)
			So(a.CheckIns, ShouldNotResemble, b.CheckIns)
		})

		Convey("When the log is read back", func() {
			ds := sampledata.Generate(cfg)
			var buf bytes.Buffer
			So(sampledata.LogWriter(ds.CheckIns)(&buf), ShouldBeNil)

			recs, err := checkinlog.NewReader().Read(context.Background(), &buf)
			So(err, ShouldBeNil)
			res := loader.New().Load(recs)

			Convey("Then only the malformed lines should be dropped", func() {
				So(len(recs), ShouldEqual, len(ds.CheckIns))
				So(res.Dropped(), ShouldEqual, cfg.Days)
				So(len(res.Events), ShouldEqual, len(ds.CheckIns)-cfg.Days)
			})

			Convey("Then every event should fall inside the generated days", func() {
				first := cfg.Start
				last := first.AddDate(0, 0, cfg.Days)
				for _, e := range res.Events {
					So(e.Timestamp.Before(first), ShouldBeFalse)
					So(e.Timestamp.Before(last), ShouldBeTrue)
				}
			})
		})

		Convey("When the registry CSV is resolved", func() {
			ds := sampledata.Generate(cfg)
			var buf bytes.Buffer
			So(sampledata.RegistryCSVWriter(ds.Members)(&buf), ShouldBeNil)

			table, err := sheet.ReadCSV(&buf)
			So(err, ShouldBeNil)
			reg, err := registry.NewResolver().Resolve(table)

			Convey("Then every member should be present", func() {
				So(err, ShouldBeNil)
				So(reg.Len(), ShouldEqual, len(ds.Members))
				for _, m := range ds.Members {
					rec, ok := reg.LookupName(m.Name)
					So(ok, ShouldBeTrue)
					So(rec.ID.Valid, ShouldEqual, !m.NoID)
				}
			})
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given an output directory", t, func() {
		dir := t.TempDir()
		cfg := testConfig()
		cfg.OutputDir = dir

		Convey("When running with a CSV registry", func() {
			stats, err := sampledata.Run(context.Background(), cfg)

			Convey("Then both files should be written", func() {
				So(err, ShouldBeNil)
				So(stats.Paths, ShouldResemble, []string{
					filepath.Join(dir, sampledata.DefaultLogName),
					filepath.Join(dir, sampledata.DefaultRegistryName),
				})
				So(stats.Malformed, ShouldEqual, cfg.Days)
				for _, p := range stats.Paths {
					_, statErr := os.Stat(p)
					So(statErr, ShouldBeNil)
				}
			})
		})

		Convey("When running with a workbook registry", func() {
			cfg.RegistryName = "padron.xlsx"
			stats, err := sampledata.Run(context.Background(), cfg)
			So(err, ShouldBeNil)

			table, err := sheet.ReadTable(context.Background(), stats.Paths[1], sampledata.DefaultSheet)

			Convey("Then the sheet should hold the registry", func() {
				So(err, ShouldBeNil)
				So(table.Header, ShouldResemble, sampledata.RegistryHeader)
				So(len(table.Rows), ShouldEqual, cfg.Members)
			})
		})

		Convey("When the registry extension is unsupported", func() {
			cfg.RegistryName = "padron.ods"
			_, err := sampledata.Run(context.Background(), cfg)

			Convey("Then nothing should be written", func() {
				So(errors.Is(err, sampledata.ErrRegistryFormat), ShouldBeTrue)
				entries, _ := os.ReadDir(dir)
				So(entries, ShouldBeEmpty)
			})
		})
	})
}
