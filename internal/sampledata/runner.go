package sampledata

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/okian/mealrecon/internal/adapters/sink"
	"github.com/okian/mealrecon/pkg/logger"
)

// Stats summarizes one generator run.
type Stats struct {
	Members   int
	CheckIns  int
	Malformed int
	Paths     []string
	Duration  time.Duration
}

// Run generates a dataset for cfg and writes the log and registry files.
func Run(ctx context.Context, cfg Config) (Stats, error) {
	start := time.Now()
	cfg = withDefaults(cfg)
	log := logger.Get().Named("sampledata")

	log.Info(ctx, "generating sample data",
		logger.Int("members", cfg.Members),
		logger.Int("days", cfg.Days),
		logger.Int("visitors", cfg.Visitors),
		logger.String("start", cfg.Start.Format(time.DateOnly)),
		logger.Any("seed", cfg.Seed))

	ds := Generate(cfg)

	registry := sink.Artifact{Name: cfg.RegistryName, Render: RegistryCSVWriter(ds.Members)}
	switch strings.ToLower(filepath.Ext(cfg.RegistryName)) {
	case ".csv":
	case ".xlsx":
		registry.Render = RegistryXLSXWriter(cfg.Sheet, ds.Members)
	default:
		return Stats{}, fmt.Errorf("%w: %q", ErrRegistryFormat, cfg.RegistryName)
	}

	paths, err := sink.New(cfg.OutputDir, sink.WithConcurrency(2)).WriteAll(ctx, []sink.Artifact{
		{Name: cfg.LogName, Render: LogWriter(ds.CheckIns)},
		registry,
	})
	if err != nil {
		return Stats{}, fmt.Errorf("write sample data: %w", err)
	}

	stats := Stats{
		Members:  len(ds.Members),
		CheckIns: len(ds.CheckIns),
		Paths:    paths,
		Duration: time.Since(start),
	}
	for _, c := range ds.CheckIns {
		if c.Malformed {
			stats.Malformed++
		}
	}

	log.Info(ctx, "sample data written",
		logger.Int("checkins", stats.CheckIns),
		logger.Int("malformed", stats.Malformed),
		logger.Any("paths", paths),
		logger.Duration("duration", stats.Duration))
	return stats, nil
}
