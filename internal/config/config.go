// Package config defines run configuration and its validation.
//
// Conventions:
//   - New(ctx) returns a Config holding every default.
//   - Load(ctx) layers a YAML file and environment variables over the defaults.
//   - Money, rates and clock values stay strings here and are parsed by Policy,
//     so configuration files never carry binary floats.
package config

import (
	"context"
)

// Default configuration constants.
const (
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
	DefaultCheckinPath      = "registros.txt"
	DefaultRegistryPath     = "BaseDeDatos_2026_2.xlsx"
	DefaultRegistrySheet    = "Base de datos (nueva)"
	DefaultOutputDir        = "."
	DefaultTimezone         = "UTC"
	DefaultTopMembers       = 40
	DefaultToleranceMinutes = 5
	DefaultBreakfastPrice   = "84"
	DefaultLunchPrice       = "98"
	DefaultVATRate          = "0.16"
	DefaultVATWithholding   = "2/3"
	DefaultISRWithholding   = "0.0125"
	DefaultMaxLineBytes     = 1 << 20
	DefaultOutputFileMode   = "0644"
)

// Window is a service window as "HH:MM" bounds.
type Window struct {
	Start string `koanf:"start"`
	End   string `koanf:"end"`
}

// RegistryColumns are the tokens used to find registry columns.
type RegistryColumns struct {
	IDPrefix         string `koanf:"id_prefix"`
	SubsidySubstring string `koanf:"subsidy_substring"`
	NameSubstring    string `koanf:"name_substring"`
}

// Config contains run configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// CheckinPath is the time-clock export to read.
	CheckinPath string `koanf:"checkin_path"`

	// CheckinHasHeader skips the first line of the export.
	CheckinHasHeader bool `koanf:"checkin_has_header"`

	// CheckinMaxLineBytes bounds a single export line.
	CheckinMaxLineBytes int `koanf:"checkin_max_line_bytes"`

	// RegistryPath is the subsidy registry workbook or csv.
	RegistryPath string `koanf:"registry_path"`

	// RegistrySheet names the workbook sheet. Empty selects the first sheet.
	RegistrySheet string `koanf:"registry_sheet"`

	// RegistryColumns configures column resolution.
	RegistryColumns RegistryColumns `koanf:"registry_columns"`

	// OutputDir receives every artifact.
	OutputDir string `koanf:"output_dir"`

	// OutputFileMode is the octal permission given to artifacts.
	OutputFileMode string `koanf:"output_file_mode"`

	// Timezone is the IANA zone check-in timestamps are recorded in.
	Timezone string `koanf:"timezone"`

	// TopMembers caps the member table of the text report.
	TopMembers int `koanf:"top_members"`

	// MetricsTextfile, when set, receives a Prometheus text dump of the run.
	MetricsTextfile string `koanf:"metrics_textfile"`

	// MetricsSite labels every exported series with site=<value> when set.
	MetricsSite string `koanf:"metrics_site"`

	BreakfastWindow  Window `koanf:"breakfast_window"`
	LunchWindow      Window `koanf:"lunch_window"`
	ToleranceMinutes int    `koanf:"tolerance_minutes"`

	BreakfastPrice string `koanf:"breakfast_price"`
	LunchPrice     string `koanf:"lunch_price"`

	VATRate                string `koanf:"vat_rate"`
	VATWithholdingFraction string `koanf:"vat_withholding_fraction"`
	ISRWithholdingRate     string `koanf:"isr_withholding_rate"`
}

// New creates a Config holding the defaults. Context is accepted first to
// satisfy the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:            DefaultLogLevel,
		LogFormat:           DefaultLogFormat,
		CheckinPath:         DefaultCheckinPath,
		CheckinHasHeader:    true,
		CheckinMaxLineBytes: DefaultMaxLineBytes,
		RegistryPath:        DefaultRegistryPath,
		RegistrySheet:       DefaultRegistrySheet,
		RegistryColumns: RegistryColumns{
			IDPrefix:         "id",
			SubsidySubstring: "aport",
			NameSubstring:    "nombre",
		},
		OutputDir:              DefaultOutputDir,
		OutputFileMode:         DefaultOutputFileMode,
		Timezone:               DefaultTimezone,
		TopMembers:             DefaultTopMembers,
		BreakfastWindow:        Window{Start: "08:30", End: "12:15"},
		LunchWindow:            Window{Start: "12:25", End: "16:30"},
		ToleranceMinutes:       DefaultToleranceMinutes,
		BreakfastPrice:         DefaultBreakfastPrice,
		LunchPrice:             DefaultLunchPrice,
		VATRate:                DefaultVATRate,
		VATWithholdingFraction: DefaultVATWithholding,
		ISRWithholdingRate:     DefaultISRWithholding,
	}
}
