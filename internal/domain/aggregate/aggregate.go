// Package aggregate rolls reconciled check-ins up into per-day service
// totals, per-member attendance and period grand totals.
package aggregate

import (
	"sort"

	"github.com/okian/mealrecon/internal/domain/dedupe"
	"github.com/okian/mealrecon/internal/domain/model"
	"github.com/okian/mealrecon/internal/domain/types"
	"github.com/shopspring/decimal"
)

// Prices is the unit price per service. Other is always free.
type Prices struct {
	Breakfast decimal.Decimal
	Lunch     decimal.Decimal
}

// Price returns the unit price for kind.
func (p Prices) Price(kind model.ServiceKind) decimal.Decimal {
	switch kind {
	case model.Breakfast:
		return p.Breakfast
	case model.Lunch:
		return p.Lunch
	default:
		return decimal.Zero
	}
}

// Result holds every aggregation output of one run.
type Result struct {
	Daily   []model.DailyServiceAggregate
	Members []model.MemberAttendanceSummary
	Totals  model.GrandTotals
	Period  model.Period
}

type groupKey struct {
	date    types.Date
	service model.ServiceKind
}

type group struct {
	seen    dedupe.Deduper
	records int
	subsidy decimal.Decimal
}

// Aggregate groups events by (date, service). Attendees are deduplicated
// within a group while subsidies are summed once per event.
func Aggregate(prices Prices, events []model.ReconciledEvent) Result {
	sizes := make(map[groupKey]int)
	for _, e := range events {
		sizes[groupKey{date: e.Date(), service: e.Service}]++
	}

	groups := make(map[groupKey]*group, len(sizes))
	members := make(map[model.AttendeeKey]*model.MemberAttendanceSummary)
	var res Result

	for i, e := range events {
		k := groupKey{date: e.Date(), service: e.Service}
		g, ok := groups[k]
		if !ok {
			g = &group{seen: dedupe.NewInMemoryDeduper(dedupe.WithCapacity(sizes[k])), subsidy: decimal.Zero}
			groups[k] = g
		}
		key := e.AttendeeKey()
		g.seen.SeenAndRecord(key)
		g.records++
		g.subsidy = g.subsidy.Add(e.Subsidy)

		trackMember(members, key, e)

		if i == 0 || k.date.Before(res.Period.Start) {
			res.Period.Start = k.date
		}
		if i == 0 || res.Period.End.Before(k.date) {
			res.Period.End = k.date
		}
	}

	res.Daily = buildDaily(prices, groups)
	res.Members = sortedMembers(members)
	res.Totals = totals(prices, res.Daily)
	return res
}

func trackMember(members map[model.AttendeeKey]*model.MemberAttendanceSummary, key model.AttendeeKey, e model.ReconciledEvent) {
	m, ok := members[key]
	if !ok {
		m = &model.MemberAttendanceSummary{Key: key, ID: e.ID, Name: e.ResolvedName}
		members[key] = m
	}
	switch e.Service {
	case model.Breakfast:
		m.Breakfast++
	case model.Lunch:
		m.Lunch++
	}
	m.Total = m.Breakfast + m.Lunch
}

func buildDaily(prices Prices, groups map[groupKey]*group) []model.DailyServiceAggregate {
	keys := make([]groupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].date != keys[j].date {
			return keys[i].date.Before(keys[j].date)
		}
		return keys[i].service < keys[j].service
	})

	out := make([]model.DailyServiceAggregate, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		price := prices.Price(k.service)
		unique := int(g.seen.Size())
		gross := price.Mul(decimal.NewFromInt(int64(unique)))
		out = append(out, model.DailyServiceAggregate{
			Date:            k.date,
			Service:         k.service,
			UniqueAttendees: unique,
			Records:         g.records,
			UnitPrice:       price,
			Gross:           gross,
			SubsidySum:      g.subsidy,
			Net:             gross.Sub(g.subsidy),
		})
	}
	return out
}

func sortedMembers(members map[model.AttendeeKey]*model.MemberAttendanceSummary) []model.MemberAttendanceSummary {
	out := make([]model.MemberAttendanceSummary, 0, len(members))
	for _, m := range members {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func totals(prices Prices, daily []model.DailyServiceAggregate) model.GrandTotals {
	t := model.GrandTotals{
		BreakfastCost: decimal.Zero,
		LunchCost:     decimal.Zero,
		Gross:         decimal.Zero,
		Subsidies:     decimal.Zero,
		Net:           decimal.Zero,
	}
	for _, a := range daily {
		switch a.Service {
		case model.Breakfast:
			t.BreakfastAttendees += a.UniqueAttendees
		case model.Lunch:
			t.LunchAttendees += a.UniqueAttendees
		}
		t.Gross = t.Gross.Add(a.Gross)
		t.Subsidies = t.Subsidies.Add(a.SubsidySum)
		t.Net = t.Net.Add(a.Net)
	}
	t.BreakfastCost = prices.Breakfast.Mul(decimal.NewFromInt(int64(t.BreakfastAttendees)))
	t.LunchCost = prices.Lunch.Mul(decimal.NewFromInt(int64(t.LunchAttendees)))
	return t
}

// TopMembers returns up to n members by total attendance, ties broken by key.
// A non-positive n returns every member.
func TopMembers(members []model.MemberAttendanceSummary, n int) []model.MemberAttendanceSummary {
	out := append([]model.MemberAttendanceSummary(nil), members...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Key < out[j].Key
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
