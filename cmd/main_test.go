package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/mealrecon/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

const testLog = "ID\tNombre\tDepart\tTiempo\tID dispositivo\n" +
	"101\tANA\tBecarios\t03/03/2026 08:41:10\t1\n" +
	"102\tLUIS\tBecarios\t03/03/2026 13:05:00\t1\n" +
	"\tEva Sol\tBecarios\t04/03/2026 09:10:00\t1\n"

const testRegistry = "ID Becario,Nombre Completo,Aportación Mensual\n" +
	"101,Ana Ruiz,12\n" +
	"102,Luis Mora,8\n" +
	",Eva Sol,5\n"

// isolateEnv unsets every config variable for the duration of the test,
// including any a dotenv file sets during it.
func isolateEnv(t *testing.T, extra ...string) {
	t.Helper()
	keys := append([]string(nil), extra...)
	for _, kv := range os.Environ() {
		if k, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(k, config.EnvPrefix) {
			keys = append(keys, k)
		}
	}
	for _, k := range keys {
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestRun(t *testing.T) {
	convey.Convey("Given inputs on disk", t, func() {
		isolateEnv(t, "MEALRECON_OUTPUT_DIR", "MEALRECON_METRICS_TEXTFILE", "MEALRECON_METRICS_SITE")
		in := t.TempDir()
		out := t.TempDir()
		logPath := writeFile(t, in, "registros.txt", testLog)
		regPath := writeFile(t, in, "padron.csv", testRegistry)
		noEnv := filepath.Join(in, "missing.env")

		var stdout, stderr bytes.Buffer
		ctx := context.Background()

		convey.Convey("When run with input and output flags", func() {
			code := run(ctx, []string{"-env-file", noEnv, "-checkin", logPath, "-registry", regPath, "-out", out}, &stdout, &stderr)

			convey.Convey("Then every artifact path should be printed", func() {
				convey.So(code, convey.ShouldEqual, exitOK)
				lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
				convey.So(len(lines), convey.ShouldEqual, 5)
				for _, l := range lines {
					convey.So(filepath.Dir(l), convey.ShouldEqual, out)
					_, err := os.Stat(l)
					convey.So(err, convey.ShouldBeNil)
				}
				convey.So(stdout.String(), convey.ShouldContainSubstring, "report_03-03-2026_a_04-03-2026.txt")
			})
		})

		convey.Convey("When asked to print the report", func() {
			code := run(ctx, []string{"-env-file", noEnv, "-checkin", logPath, "-registry", regPath, "-out", out, "-print-report"}, &stdout, &stderr)

			convey.Convey("Then the report should precede the paths", func() {
				convey.So(code, convey.ShouldEqual, exitOK)
				convey.So(stdout.String(), convey.ShouldContainSubstring, "Totals")
				convey.So(strings.Index(stdout.String(), "Totals"), convey.ShouldBeLessThan, strings.Index(stdout.String(), out))
			})
		})

		convey.Convey("When settings come from a dotenv file", func() {
			textfile := filepath.Join(out, "mealrecon.prom")
			envFile := writeFile(t, in, ".env", "MEALRECON_OUTPUT_DIR="+out+"\nMEALRECON_METRICS_TEXTFILE="+textfile+"\nMEALRECON_METRICS_SITE=comedor-central\n")
			code := run(ctx, []string{"-env-file", envFile, "-checkin", logPath, "-registry", regPath}, &stdout, &stderr)

			convey.Convey("Then they should apply to the run", func() {
				convey.So(code, convey.ShouldEqual, exitOK)
				convey.So(stdout.String(), convey.ShouldContainSubstring, out)

				dump, err := os.ReadFile(textfile)
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(dump), convey.ShouldContainSubstring, "mealrecon_pipeline_runs_total")
				convey.So(string(dump), convey.ShouldContainSubstring, `site="comedor-central"`)
			})
		})

		convey.Convey("When the check-in log does not exist", func() {
			code := run(ctx, []string{"-env-file", noEnv, "-checkin", filepath.Join(in, "nope.txt"), "-registry", regPath, "-out", out}, &stdout, &stderr)

			convey.Convey("Then it should fail without writing artifacts", func() {
				convey.So(code, convey.ShouldEqual, exitFailed)
				convey.So(stderr.String(), convey.ShouldContainSubstring, "reconciliation failed")
				entries, _ := os.ReadDir(out)
				convey.So(entries, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When a flag is unknown", func() {
			code := run(ctx, []string{"-nope"}, &stdout, &stderr)
			convey.So(code, convey.ShouldEqual, exitUsage)
		})

		convey.Convey("When help is requested", func() {
			code := run(ctx, []string{"-help"}, &stdout, &stderr)
			convey.So(code, convey.ShouldEqual, exitOK)
			convey.So(stderr.String(), convey.ShouldContainSubstring, "-checkin")
		})

		convey.Convey("When the config file is invalid", func() {
			bad := writeFile(t, in, "bad.yaml", "lunch_price: abc\n")
			code := run(ctx, []string{"-env-file", noEnv, "-config", bad, "-checkin", logPath, "-registry", regPath}, &stdout, &stderr)

			convey.Convey("Then it should be reported as a usage error", func() {
				convey.So(code, convey.ShouldEqual, exitUsage)
				convey.So(stderr.String(), convey.ShouldContainSubstring, "lunch_price")
			})
		})
	})
}

func TestApplyOverrides(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("When only some flags are set", func() {
			applyOverrides(cfg, flags{checkin: "a.txt", outputDir: "out"})

			convey.Convey("Then only those settings should change", func() {
				convey.So(cfg.CheckinPath, convey.ShouldEqual, "a.txt")
				convey.So(cfg.OutputDir, convey.ShouldEqual, "out")
				convey.So(cfg.RegistryPath, convey.ShouldEqual, config.DefaultRegistryPath)
				convey.So(cfg.RegistrySheet, convey.ShouldEqual, config.DefaultRegistrySheet)
			})
		})
	})
}
