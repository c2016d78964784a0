// Package reconcile joins classified check-ins to subsidy registry entries.
package reconcile

import (
	"github.com/okian/mealrecon/internal/domain/model"
	"github.com/shopspring/decimal"
)

// Directory looks up registry members. *registry.Registry satisfies it.
type Directory interface {
	LookupID(id model.Identifier) (model.MemberRecord, bool)
	LookupName(name string) (model.MemberRecord, bool)
}

// Stats counts how events were matched.
type Stats struct {
	ByID   int
	ByName int
	None   int
}

// Resolve finds the subsidy for one event: identifier match first, then
// exact name match, then zero. The resolved name comes from the registry
// only for an identifier match with a usable registry name.
func Resolve(dir Directory, e model.ClassifiedEvent) model.ReconciledEvent {
	out := model.ReconciledEvent{
		ClassifiedEvent: e,
		ResolvedName:    e.Name,
		Subsidy:         decimal.Zero,
		Match:           model.MatchNone,
	}
	if dir == nil {
		return out
	}
	if m, ok := dir.LookupID(e.ID); ok {
		out.Subsidy = m.Subsidy
		out.Match = model.MatchByID
		if m.HasName {
			out.ResolvedName = m.Name
		}
		return out
	}
	if m, ok := dir.LookupName(e.Name); ok {
		out.Subsidy = m.Subsidy
		out.Match = model.MatchByName
	}
	return out
}

// All resolves every event independently, preserving input order.
func All(dir Directory, events []model.ClassifiedEvent) ([]model.ReconciledEvent, Stats) {
	out := make([]model.ReconciledEvent, len(events))
	var st Stats
	for i, e := range events {
		out[i] = Resolve(dir, e)
		switch out[i].Match {
		case model.MatchByID:
			st.ByID++
		case model.MatchByName:
			st.ByName++
		default:
			st.None++
		}
	}
	return out, st
}
