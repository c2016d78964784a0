package config

import (
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/okian/mealrecon/internal/domain/aggregate"
	"github.com/okian/mealrecon/internal/domain/fiscal"
	"github.com/okian/mealrecon/internal/domain/registry"
	"github.com/okian/mealrecon/internal/domain/types"
	"github.com/shopspring/decimal"
)

// Policy is the parsed, immutable policy of one run: billing rules plus the
// input and output limits the adapters apply.
type Policy struct {
	Breakfast    types.Window
	Lunch        types.Window
	Tolerance    time.Duration
	Prices       aggregate.Prices
	Rates        fiscal.Rates
	Columns      registry.Tokens
	Location     *time.Location
	MaxLineBytes int
	FileMode     fs.FileMode
}

// Policy parses the string-typed settings. Every problem is reported, not
// only the first.
func (c *Config) Policy() (Policy, error) {
	var (
		p    Policy
		errs []string
		err  error
	)
	fail := func(key string, e error) { errs = append(errs, fmt.Sprintf("%s: %v", key, e)) }

	if p.Breakfast, err = parseWindow(c.BreakfastWindow); err != nil {
		fail("breakfast_window", err)
	}
	if p.Lunch, err = parseWindow(c.LunchWindow); err != nil {
		fail("lunch_window", err)
	}
	if c.ToleranceMinutes < 0 {
		fail("tolerance_minutes", fmt.Errorf("must not be negative, got %d", c.ToleranceMinutes))
	}
	p.Tolerance = time.Duration(c.ToleranceMinutes) * time.Minute

	if p.Prices.Breakfast, err = parsePrice(c.BreakfastPrice); err != nil {
		fail("breakfast_price", err)
	}
	if p.Prices.Lunch, err = parsePrice(c.LunchPrice); err != nil {
		fail("lunch_price", err)
	}

	if p.Rates.VAT, err = fiscal.ParseRate(c.VATRate); err != nil {
		fail("vat_rate", err)
	}
	if p.Rates.VATWithholding, err = fiscal.ParseFraction(c.VATWithholdingFraction); err != nil {
		fail("vat_withholding_fraction", err)
	}
	if p.Rates.ISRWithholding, err = fiscal.ParseRate(c.ISRWithholdingRate); err != nil {
		fail("isr_withholding_rate", err)
	}

	p.Columns = registry.Tokens{
		IDPrefix:         c.RegistryColumns.IDPrefix,
		SubsidySubstring: c.RegistryColumns.SubsidySubstring,
		NameSubstring:    c.RegistryColumns.NameSubstring,
	}

	p.Location = time.UTC
	if tz := strings.TrimSpace(c.Timezone); tz != "" {
		if p.Location, err = time.LoadLocation(tz); err != nil {
			fail("timezone", err)
		}
	}

	if c.CheckinMaxLineBytes <= 0 {
		fail("checkin_max_line_bytes", fmt.Errorf("must be positive, got %d", c.CheckinMaxLineBytes))
	}
	p.MaxLineBytes = c.CheckinMaxLineBytes

	if p.FileMode, err = parseFileMode(c.OutputFileMode); err != nil {
		fail("output_file_mode", err)
	}

	if len(errs) > 0 {
		return Policy{}, fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}
	return p, nil
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.CheckinPath) == "" {
		return fmt.Errorf("%w: checkin_path must not be empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.RegistryPath) == "" {
		return fmt.Errorf("%w: registry_path must not be empty", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	_, err := c.Policy()
	return err
}

func parseWindow(w Window) (types.Window, error) {
	start, err := types.ParseClock(w.Start)
	if err != nil {
		return types.Window{}, fmt.Errorf("start: %w", err)
	}
	end, err := types.ParseClock(w.End)
	if err != nil {
		return types.Window{}, fmt.Errorf("end: %w", err)
	}
	if end.Seconds() < start.Seconds() {
		return types.Window{}, fmt.Errorf("end %s is before start %s", w.End, w.Start)
	}
	return types.Window{Start: start, End: end}, nil
}

func parsePrice(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a number: %q", s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("must not be negative, got %s", s)
	}
	return d, nil
}

func parseFileMode(s string) (fs.FileMode, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 8, 32)
	if err != nil {
		return 0, fmt.Errorf("not an octal mode: %q", s)
	}
	if v == 0 || v > 0o777 {
		return 0, fmt.Errorf("must be within 0001-0777, got %q", s)
	}
	return fs.FileMode(v), nil
}
