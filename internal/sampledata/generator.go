// Package sampledata generates synthetic check-in logs and registries so
// the pipeline can run end to end without production data.
package sampledata

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strconv"
	"time"
)

// Generate builds a deterministic dataset for cfg.
func Generate(cfg Config) Dataset {
	cfg = withDefaults(cfg)
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	members := make([]Member, cfg.Members)
	for i := range members {
		members[i] = Member{
			ID:      int64(firstMemberID + i),
			Name:    fmt.Sprintf("%s %s %d", firstNames[rng.IntN(len(firstNames))], lastNames[rng.IntN(len(lastNames))], i+1),
			Subsidy: subsidies[rng.IntN(len(subsidies))],
			NoID:    rng.IntN(100) < nameOnlyChance,
		}
	}

	var checkIns []CheckIn
	day := time.Date(cfg.Start.Year(), cfg.Start.Month(), cfg.Start.Day(), 0, 0, 0, 0, time.UTC)
	for d := 0; d < cfg.Days; d++ {
		var today []CheckIn
		for _, m := range members {
			if rng.IntN(100) < breakfastChance {
				today = append(today, memberCheckIns(rng, m, at(rng, day, breakfastStartMin, breakfastSpanMin))...)
			}
			if rng.IntN(100) < lunchChance {
				today = append(today, memberCheckIns(rng, m, at(rng, day, lunchStartMin, lunchSpanMin))...)
			}
			if rng.IntN(100) < offWindowChance {
				today = append(today, memberCheckIns(rng, m, at(rng, day, lateStartMin, lateSpanMin))...)
			}
		}
		for v := 0; v < cfg.Visitors; v++ {
			today = append(today, CheckIn{
				ID:         strconv.Itoa(visitorIDOffset + d*cfg.Visitors + v),
				Name:       "Visitante " + strconv.Itoa(v+1),
				Department: "Visitas",
				Time:       at(rng, day, lunchStartMin, lunchSpanMin),
				Device:     "2",
			})
		}
		for k := 0; k < malformedPerDay; k++ {
			today = append(today, CheckIn{Malformed: true, Time: day})
		}
		sort.SliceStable(today, func(i, j int) bool { return today[i].Time.Before(today[j].Time) })
		checkIns = append(checkIns, today...)
		day = day.Add(hoursPerDay)
	}

	return Dataset{Members: members, CheckIns: checkIns}
}

func memberCheckIns(rng *rand.Rand, m Member, t time.Time) []CheckIn {
	c := CheckIn{
		ID:         strconv.FormatInt(m.ID, 10),
		Name:       m.Name,
		Department: departments[int(m.ID)%len(departments)],
		Time:       t,
		Device:     "1",
	}
	if m.NoID {
		c.ID = ""
	}
	out := []CheckIn{c}
	if rng.IntN(100) < doubleTapChance {
		again := c
		again.Time = t.Add(time.Duration(1+rng.IntN(90)) * time.Second)
		out = append(out, again)
	}
	return out
}

func at(rng *rand.Rand, day time.Time, startMin, spanMin int) time.Time {
	sec := (startMin+rng.IntN(spanMin))*secondsPerMinute + rng.IntN(secondsPerMinute)
	return day.Add(time.Duration(sec) * time.Second)
}

func withDefaults(cfg Config) Config {
	if cfg.Members <= 0 {
		cfg.Members = DefaultMembers
	}
	if cfg.Visitors < 0 {
		cfg.Visitors = 0
	}
	if cfg.Days <= 0 {
		cfg.Days = DefaultDays
	}
	if cfg.Start.IsZero() {
		cfg.Start = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	}
	if cfg.Seed == 0 {
		cfg.Seed = DefaultSeed
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.LogName == "" {
		cfg.LogName = DefaultLogName
	}
	if cfg.RegistryName == "" {
		cfg.RegistryName = DefaultRegistryName
	}
	if cfg.Sheet == "" {
		cfg.Sheet = DefaultSheet
	}
	return cfg
}
