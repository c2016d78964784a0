// Package dedupe tracks which attendees have already been counted.
package dedupe

import "github.com/okian/mealrecon/internal/domain/model"

// Deduper records attendee keys so each attendee is counted once per group.
// Implementations are not safe for concurrent use.
type Deduper interface {
	// SeenAndRecord reports whether key was already recorded and records it if not.
	SeenAndRecord(key model.AttendeeKey) bool

	// Size returns the number of distinct keys recorded.
	Size() int64
}

// inMemoryDeduper is a map-backed set.
type inMemoryDeduper struct {
	seen     map[model.AttendeeKey]struct{}
	capacity int
}

// NewInMemoryDeduper creates an empty deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[model.AttendeeKey]struct{}, d.capacity)
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(key model.AttendeeKey) bool {
	if _, exists := d.seen[key]; exists {
		return true
	}
	d.seen[key] = struct{}{}
	return false
}

func (d *inMemoryDeduper) Size() int64 {
	return int64(len(d.seen))
}
