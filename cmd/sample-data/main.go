package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/mealrecon/internal/sampledata"
	"github.com/okian/mealrecon/pkg/logger"
)

const defaultStart = "2026-03-02"

func main() {
	os.Exit(run())
}

func run() int {
	var (
		outDir   = flag.String("out", ".", "Output directory")
		members  = flag.Int("members", sampledata.DefaultMembers, "Registry size")
		visitors = flag.Int("visitors", sampledata.DefaultVisitors, "Unregistered check-ins per day")
		days     = flag.Int("days", sampledata.DefaultDays, "Consecutive days to generate")
		start    = flag.String("start", defaultStart, "First day, YYYY-MM-DD")
		seed     = flag.Uint64("seed", sampledata.DefaultSeed, "Random seed")
		logName  = flag.String("log", sampledata.DefaultLogName, "Check-in log file name")
		regName  = flag.String("registry", sampledata.DefaultRegistryName, "Registry file name (.csv or .xlsx)")
		sheet    = flag.String("sheet", sampledata.DefaultSheet, "Registry sheet name for .xlsx")
		verbose  = flag.Bool("verbose", false, "Enable debug logging")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		sampledata.ShowHelp()
		return 0
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return 1
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	first, err := time.Parse(time.DateOnly, *start)
	if err != nil {
		os.Stderr.WriteString("invalid -start: " + err.Error() + "\n")
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stats, err := sampledata.Run(ctx, sampledata.Config{
		Members:      *members,
		Visitors:     *visitors,
		Days:         *days,
		Start:        first,
		Seed:         *seed,
		OutputDir:    *outDir,
		LogName:      *logName,
		RegistryName: *regName,
		Sheet:        *sheet,
	})
	if err != nil {
		os.Stderr.WriteString("sample data failed: " + err.Error() + "\n")
		return 1
	}
	for _, p := range stats.Paths {
		fmt.Println(p)
	}
	return 0
}
