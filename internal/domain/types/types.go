// Package types contains calendar value types shared across the application
package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Calendar constants.
const (
	secondsPerMinute = 60
	secondsPerHour   = 3600
	secondsPerDay    = 24 * secondsPerHour
	minutesPerHour   = 60
	hoursPerDay      = 24
)

// ErrInvalidClock is returned when a clock string cannot be parsed.
var ErrInvalidClock = errors.New("invalid clock value")

// Date is a civil calendar date without a time zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the civil date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Before reports whether d is strictly before o.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// IsZero reports whether d is the zero date.
func (d Date) IsZero() bool { return d == Date{} }

// Format formats the date with a time layout.
func (d Date) Format(layout string) string { return d.Time().Format(layout) }

// String renders the date as YYYY-MM-DD.
func (d Date) String() string { return d.Format("2006-01-02") }

// TimeOfDay is a wall-clock time with second precision. The zero value is
// "missing" and is distinct from midnight.
type TimeOfDay struct {
	seconds int
	valid   bool
}

// Clock builds a TimeOfDay. Out-of-range components yield a missing value.
func Clock(hour, minute, second int) TimeOfDay {
	if hour < 0 || hour >= hoursPerDay || minute < 0 || minute >= minutesPerHour || second < 0 || second >= secondsPerMinute {
		return TimeOfDay{}
	}
	return TimeOfDay{seconds: hour*secondsPerHour + minute*secondsPerMinute + second, valid: true}
}

// TimeOfDayOf returns the wall-clock part of t.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return Clock(t.Hour(), t.Minute(), t.Second())
}

// ParseClock parses "HH:MM" or "HH:MM:SS".
func ParseClock(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	nums := [3]int{}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
		nums[i] = n
	}
	tod := Clock(nums[0], nums[1], nums[2])
	if !tod.valid {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return tod, nil
}

// Valid reports whether the value carries a time.
func (t TimeOfDay) Valid() bool { return t.valid }

// Seconds returns seconds since midnight.
func (t TimeOfDay) Seconds() int { return t.seconds }

// Add shifts the time by d, clamped to the day boundaries.
func (t TimeOfDay) Add(d time.Duration) TimeOfDay {
	if !t.valid {
		return t
	}
	s := t.seconds + int(d/time.Second)
	if s < 0 {
		s = 0
	}
	if s >= secondsPerDay {
		s = secondsPerDay - 1
	}
	return TimeOfDay{seconds: s, valid: true}
}

// String renders HH:MM:SS, or an empty string when missing.
func (t TimeOfDay) String() string {
	if !t.valid {
		return ""
	}
	return fmt.Sprintf("%02d:%02d:%02d", t.seconds/secondsPerHour, (t.seconds%secondsPerHour)/secondsPerMinute, t.seconds%secondsPerMinute)
}

// Window is an inclusive wall-clock range.
type Window struct {
	Start TimeOfDay
	End   TimeOfDay
}

// Widen expands both boundaries outward by tol.
func (w Window) Widen(tol time.Duration) Window {
	return Window{Start: w.Start.Add(-tol), End: w.End.Add(tol)}
}

// Contains reports whether t lies inside the window, boundaries included.
func (w Window) Contains(t TimeOfDay) bool {
	if !t.valid || !w.Start.valid || !w.End.valid {
		return false
	}
	return w.Start.seconds <= t.seconds && t.seconds <= w.End.seconds
}
