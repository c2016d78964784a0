// Package loader turns raw check-in records into normalized events.
//
// Loading is lenient: records with a malformed structure or an unparseable
// timestamp are dropped and reported, never fatal.
package loader

import (
	"strings"
	"time"

	"github.com/okian/mealrecon/internal/domain/model"
)

// TimestampLayout is the day-first check-in timestamp pattern.
const TimestampLayout = "2/1/2006 15:04:05"

// Record field positions.
const (
	fieldID = iota
	fieldName
	fieldDepartment
	fieldTimestamp
	fieldDevice

	minFields = fieldTimestamp + 1
	maxFields = fieldDevice + 1
)

// Result holds the parsed events and the records that were dropped.
type Result struct {
	Events  []model.CheckInEvent
	Skipped []*ParseError
}

// Dropped returns how many records were skipped.
func (r Result) Dropped() int { return len(r.Skipped) }

// Loader parses raw records. The zero value is not usable; call New.
type Loader struct {
	loc *time.Location
}

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithLocation sets the zone timestamps are interpreted in. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(l *Loader) {
		if loc != nil {
			l.loc = loc
		}
	}
}

// New creates a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{loc: time.UTC}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load parses records in order. An unparseable identifier is kept as an
// absent identifier rather than dropping the record.
func (l *Loader) Load(records []model.RawRecord) Result {
	res := Result{Events: make([]model.CheckInEvent, 0, len(records))}
	for _, rec := range records {
		ev, perr := l.parse(rec)
		if perr != nil {
			res.Skipped = append(res.Skipped, perr)
			continue
		}
		res.Events = append(res.Events, ev)
	}
	return res
}

func (l *Loader) parse(rec model.RawRecord) (model.CheckInEvent, *ParseError) {
	n := len(rec.Fields)
	// Empty fields past the device column are trailing separators.
	for n > maxFields && strings.TrimSpace(rec.Fields[n-1]) == "" {
		n--
	}
	if n < minFields || n > maxFields {
		return model.CheckInEvent{}, newParseError(rec.Line, rec.Fields, "expected %d-%d fields, got %d", minFields, maxFields, n)
	}

	raw := strings.TrimSpace(rec.Fields[fieldTimestamp])
	ts, err := time.ParseInLocation(TimestampLayout, raw, l.loc)
	if err != nil {
		return model.CheckInEvent{}, newParseError(rec.Line, rec.Fields, "invalid timestamp %q", raw)
	}

	ev := model.CheckInEvent{
		ID:         model.ParseIdentifier(rec.Fields[fieldID]),
		Name:       strings.TrimSpace(rec.Fields[fieldName]),
		Department: strings.TrimSpace(rec.Fields[fieldDepartment]),
		Timestamp:  ts,
	}
	if n > fieldDevice {
		ev.Device = strings.TrimSpace(rec.Fields[fieldDevice])
	}
	return ev, nil
}
