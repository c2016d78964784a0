// Package model contains domain models passed between pipeline stages.
package model

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/okian/mealrecon/internal/domain/types"
	"github.com/shopspring/decimal"
)

// ServiceKind tags a check-in with the meal service it belongs to.
type ServiceKind int

// Service kinds in evaluation and reporting order.
const (
	Breakfast ServiceKind = iota
	Lunch
	Other
)

// ServiceKinds lists every kind in reporting order.
var ServiceKinds = []ServiceKind{Breakfast, Lunch, Other}

// String returns the display name of the kind.
func (k ServiceKind) String() string {
	switch k {
	case Breakfast:
		return "Breakfast"
	case Lunch:
		return "Lunch"
	default:
		return "Other"
	}
}

// Identifier is an optional numeric member identifier.
type Identifier struct {
	Value int64
	Valid bool
}

// ID builds a present identifier.
func ID(v int64) Identifier { return Identifier{Value: v, Valid: true} }

// String renders the identifier, or an empty string when absent.
func (i Identifier) String() string {
	if !i.Valid {
		return ""
	}
	return strconv.FormatInt(i.Value, 10)
}

// ParseIdentifier coerces free text into an identifier. Integral values
// written as floats ("12.0") are accepted; anything else is absent.
func ParseIdentifier(s string) Identifier {
	s = strings.TrimSpace(s)
	if s == "" {
		return Identifier{}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ID(n)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64/2 {
		return Identifier{}
	}
	return ID(int64(f))
}

// RawRecord is one structurally split line of the check-in log.
type RawRecord struct {
	Line   int      // 1-based source line, for diagnostics
	Fields []string // identifier, name, department, timestamp, device
}

// CheckInEvent is a parsed check-in. Immutable once loaded.
type CheckInEvent struct {
	ID         Identifier
	Name       string
	Department string
	Device     string
	Timestamp  time.Time
}

// Date returns the civil date of the check-in.
func (e CheckInEvent) Date() types.Date { return types.DateOf(e.Timestamp) }

// TimeOfDay returns the wall-clock part of the check-in. A zero timestamp
// yields a missing time.
func (e CheckInEvent) TimeOfDay() types.TimeOfDay {
	if e.Timestamp.IsZero() {
		return types.TimeOfDay{}
	}
	return types.TimeOfDayOf(e.Timestamp)
}

// AttendeeKey returns the identity used for deduplication: the identifier
// when present, otherwise the name.
func (e CheckInEvent) AttendeeKey() AttendeeKey { return KeyFor(e.ID, e.Name) }

// AttendeeKey identifies one attendee across aggregations. Identifier keys
// and name keys never collide.
type AttendeeKey string

// KeyFor derives the attendee key from an identifier and a name.
func KeyFor(id Identifier, name string) AttendeeKey {
	if id.Valid {
		return AttendeeKey("id:" + id.String())
	}
	return AttendeeKey("name:" + name)
}

// MemberRecord is one row of the subsidy registry.
type MemberRecord struct {
	ID      Identifier
	Name    string
	HasName bool
	Subsidy decimal.Decimal
}

// ClassifiedEvent is a check-in tagged with its service kind.
type ClassifiedEvent struct {
	CheckInEvent
	Service ServiceKind
}

// MatchMethod records how a reconciled event found its registry row.
type MatchMethod int

// Match methods in fallback order.
const (
	MatchNone MatchMethod = iota
	MatchByID
	MatchByName
)

// String returns the display name of the method.
func (m MatchMethod) String() string {
	switch m {
	case MatchByID:
		return "id"
	case MatchByName:
		return "name"
	default:
		return "none"
	}
}

// ReconciledEvent is a classified event with its resolved subsidy.
type ReconciledEvent struct {
	ClassifiedEvent
	ResolvedName string
	Subsidy      decimal.Decimal
	Match        MatchMethod
}
