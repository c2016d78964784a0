package checkinlog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/mealrecon/internal/adapters/checkinlog"
	. "github.com/smartystreets/goconvey/convey"
)

const sampleLog = "ID\tNombre\tDepart\tTiempo\tID dispositivo\n" +
	"101\tAna Ruiz\tBecarios\t03/03/2026 08:41:10\t1\n" +
	"\n" +
	"102\t\tLuis Mora\t\tBecarios\t03/03/2026 13:02:00\t1\r\n" +
	"   \n" +
	"103\tEva Sol\tBecarios\t  03/03/2026 13:05:00\n"

func TestReader_Read(t *testing.T) {
	Convey("Given a tab separated log with a header", t, func() {
		r := checkinlog.NewReader()

		recs, err := r.Read(context.Background(), strings.NewReader(sampleLog))

		Convey("Then the header and blank lines should be skipped", func() {
			So(err, ShouldBeNil)
			So(recs, ShouldHaveLength, 3)
			So(recs[0].Line, ShouldEqual, 2)
			So(recs[1].Line, ShouldEqual, 4)
			So(recs[2].Line, ShouldEqual, 6)
		})

		Convey("Then tab runs should collapse while spaces stay inside fields", func() {
			So(recs[0].Fields, ShouldResemble, []string{"101", "Ana Ruiz", "Becarios", "03/03/2026 08:41:10", "1"})
			So(recs[1].Fields, ShouldResemble, []string{"102", "Luis Mora", "Becarios", "03/03/2026 13:02:00", "1"})
			So(recs[2].Fields[3], ShouldEqual, "03/03/2026 13:05:00")
			So(recs[2].Fields, ShouldHaveLength, 4)
		})
	})

	Convey("Given a log without a header", t, func() {
		r := checkinlog.NewReader(checkinlog.WithHeader(false))
		recs, err := r.Read(context.Background(), strings.NewReader("\ufeff1\tA\tB\t01/01/2026 09:00:00\t2\n"))

		Convey("Then the first line should be a record", func() {
			So(err, ShouldBeNil)
			So(recs, ShouldHaveLength, 1)
			So(recs[0].Fields[0], ShouldEqual, "1")
		})
	})

	Convey("Given a line longer than the limit", t, func() {
		r := checkinlog.NewReader(checkinlog.WithHeader(false), checkinlog.WithMaxLineBytes(16))
		_, err := r.Read(context.Background(), strings.NewReader(strings.Repeat("x", 64)+"\n"))

		Convey("Then reading should fail", func() {
			So(errors.Is(err, checkinlog.ErrRead), ShouldBeTrue)
		})
	})

	Convey("Given a cancelled context and a long log", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := checkinlog.NewReader().Read(ctx, strings.NewReader(strings.Repeat("1\ta\tb\tc\n", 2048)))
		So(errors.Is(err, context.Canceled), ShouldBeTrue)
	})
}

func TestSplitFields(t *testing.T) {
	Convey("Given lines with missing fields", t, func() {
		So(checkinlog.SplitFields("\tEva Sol\tBecarios\t04/03/2026 13:00:00\t1"), ShouldResemble,
			[]string{"", "Eva Sol", "Becarios", "04/03/2026 13:00:00", "1"})
		So(checkinlog.SplitFields("1\tAna\tB\t04/03/2026 13:00:00\t"), ShouldHaveLength, 4)
		So(checkinlog.SplitFields("solo"), ShouldResemble, []string{"solo"})
	})

	Convey("Given a complete line ending in tabs or spaces", t, func() {
		fields := checkinlog.SplitFields("1\tAna Ruiz\tX\t03/03/2026 08:40:00\tD1\t \t")

		Convey("Then the trailing separators should not add a field", func() {
			So(fields, ShouldResemble, []string{"1", "Ana Ruiz", "X", "03/03/2026 08:40:00", "D1"})
		})
	})
}

func TestReader_ReadFile(t *testing.T) {
	Convey("Given a log on disk", t, func() {
		path := filepath.Join(t.TempDir(), "registros.txt")
		So(os.WriteFile(path, []byte(sampleLog), 0o600), ShouldBeNil)

		recs, err := checkinlog.NewReader().ReadFile(context.Background(), path)
		So(err, ShouldBeNil)
		So(recs, ShouldHaveLength, 3)
	})

	Convey("Given a missing file", t, func() {
		_, err := checkinlog.NewReader().ReadFile(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
		So(errors.Is(err, checkinlog.ErrRead), ShouldBeTrue)
		So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
	})
}

func TestReader_TrailingTab(t *testing.T) {
	Convey("Given an export that ends every line with a tab", t, func() {
		log := "ID\tNombre\tDepart\tTiempo\tID dispositivo\t\n" +
			"1\tAna Ruiz\tX\t03/03/2026 08:40:00\tD1\t\r\n" +
			"2\tLuis Mora\tX\t03/03/2026 13:10:00\tD1\t\n"

		recs, err := checkinlog.NewReader().Read(context.Background(), strings.NewReader(log))

		Convey("Then every record should keep five fields", func() {
			So(err, ShouldBeNil)
			So(recs, ShouldHaveLength, 2)
			So(recs[0].Fields, ShouldResemble, []string{"1", "Ana Ruiz", "X", "03/03/2026 08:40:00", "D1"})
			So(recs[1].Fields, ShouldHaveLength, 5)
		})
	})
}
