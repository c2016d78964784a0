// Package classify maps check-in times to meal services.
package classify

import (
	"time"

	"github.com/okian/mealrecon/internal/domain/model"
	"github.com/okian/mealrecon/internal/domain/types"
)

// Default classification constants.
const (
	defaultTolerance = 5 * time.Minute
)

// Default service windows.
var (
	DefaultBreakfast = types.Window{Start: types.Clock(8, 30, 0), End: types.Clock(12, 15, 0)}
	DefaultLunch     = types.Window{Start: types.Clock(12, 25, 0), End: types.Clock(16, 30, 0)}
)

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithBreakfastWindow overrides the breakfast window.
func WithBreakfastWindow(w types.Window) Option {
	return func(c *Classifier) {
		if w.Start.Valid() && w.End.Valid() {
			c.breakfast = w
		}
	}
}

// WithLunchWindow overrides the lunch window.
func WithLunchWindow(w types.Window) Option {
	return func(c *Classifier) {
		if w.Start.Valid() && w.End.Valid() {
			c.lunch = w
		}
	}
}

// WithTolerance sets how far both boundaries of each window are relaxed.
// Negative values are ignored.
func WithTolerance(tol time.Duration) Option {
	return func(c *Classifier) {
		if tol >= 0 {
			c.tolerance = tol
		}
	}
}

// rule pairs a service with its tolerant window. Rules are tested in order.
type rule struct {
	kind   model.ServiceKind
	window types.Window
}

// Classifier assigns a service kind to a time of day. Safe for concurrent use.
type Classifier struct {
	breakfast types.Window
	lunch     types.Window
	tolerance time.Duration
	rules     []rule
}

// New creates a classifier with the default windows and tolerance.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		breakfast: DefaultBreakfast,
		lunch:     DefaultLunch,
		tolerance: defaultTolerance,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Breakfast is tested first; inside an overlap of the widened windows
	// the first match wins.
	c.rules = []rule{
		{kind: model.Breakfast, window: c.breakfast.Widen(c.tolerance)},
		{kind: model.Lunch, window: c.lunch.Widen(c.tolerance)},
	}
	return c
}

// Classify returns the service for tod. Missing times classify as Other.
func (c *Classifier) Classify(tod types.TimeOfDay) model.ServiceKind {
	if !tod.Valid() {
		return model.Other
	}
	for _, r := range c.rules {
		if r.window.Contains(tod) {
			return r.kind
		}
	}
	return model.Other
}

// Window returns the tolerant window used for kind, and false for Other.
func (c *Classifier) Window(kind model.ServiceKind) (types.Window, bool) {
	for _, r := range c.rules {
		if r.kind == kind {
			return r.window, true
		}
	}
	return types.Window{}, false
}

// ClassifyAll tags every event, preserving order.
func (c *Classifier) ClassifyAll(events []model.CheckInEvent) []model.ClassifiedEvent {
	out := make([]model.ClassifiedEvent, len(events))
	for i, e := range events {
		out[i] = model.ClassifiedEvent{CheckInEvent: e, Service: c.Classify(e.TimeOfDay())}
	}
	return out
}
