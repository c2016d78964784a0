package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	service "github.com/okian/mealrecon/internal/app"
	"github.com/okian/mealrecon/internal/config"
	"github.com/okian/mealrecon/pkg/logger"
	"github.com/okian/mealrecon/pkg/metrics"
)

// Exit codes.
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

const defaultEnvFile = ".env"

type flags struct {
	configFile  string
	envFile     string
	checkin     string
	registry    string
	sheet       string
	outputDir   string
	logLevel    string
	printReport bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run is main without process globals so it can be exercised in tests.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	f, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if err := godotenv.Load(f.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(stderr, "failed to load %s: %v\n", f.envFile, err)
		return exitUsage
	}

	configFile := f.configFile
	if configFile == "" {
		configFile = os.Getenv(config.EnvConfigFile)
	}
	cfg, err := config.LoadFile(ctx, configFile)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return exitUsage
	}
	applyOverrides(cfg, f)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "invalid config: %v\n", err)
		return exitUsage
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithWriter(stderr)); err != nil {
		fmt.Fprintf(stderr, "failed to initialize logging: %v\n", err)
		return exitUsage
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	metrics.Configure(metrics.WithSite(cfg.MetricsSite))

	svc, err := service.NewFromConfig(cfg, service.WithLogger(log))
	if err != nil {
		fmt.Fprintf(stderr, "invalid config: %v\n", err)
		return exitUsage
	}

	out, runErr := svc.Execute(ctx)

	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			log.Warn(ctx, "metrics textfile not written", logger.String("path", cfg.MetricsTextfile), logger.Error(err))
		}
	}

	if runErr != nil {
		fmt.Fprintf(stderr, "reconciliation failed: %v\n", runErr)
		return exitFailed
	}

	if f.printReport {
		text, err := svc.RenderReport(out.Result)
		if err != nil {
			fmt.Fprintf(stderr, "failed to render report: %v\n", err)
			return exitFailed
		}
		fmt.Fprint(stdout, text)
	}
	for _, p := range out.Paths {
		fmt.Fprintln(stdout, p)
	}
	return exitOK
}

func parseFlags(args []string, stderr io.Writer) (flags, error) {
	var f flags
	fset := flag.NewFlagSet("mealrecon", flag.ContinueOnError)
	fset.SetOutput(stderr)
	fset.StringVar(&f.configFile, "config", "", "YAML config file (overrides "+config.EnvConfigFile+")")
	fset.StringVar(&f.envFile, "env-file", defaultEnvFile, "dotenv file loaded before the environment is read")
	fset.StringVar(&f.checkin, "checkin", "", "check-in log path")
	fset.StringVar(&f.registry, "registry", "", "subsidy registry path (.xlsx, .xlsm or .csv)")
	fset.StringVar(&f.sheet, "sheet", "", "registry sheet name")
	fset.StringVar(&f.outputDir, "out", "", "output directory")
	fset.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	fset.BoolVar(&f.printReport, "print-report", false, "also print the text report to stdout")
	if err := fset.Parse(args); err != nil {
		return flags{}, err
	}
	if fset.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %v\n", fset.Args())
		fset.Usage()
		return flags{}, errors.New("unexpected arguments")
	}
	return f, nil
}

// applyOverrides layers non-empty flags over the loaded config.
func applyOverrides(cfg *config.Config, f flags) {
	if f.checkin != "" {
		cfg.CheckinPath = f.checkin
	}
	if f.registry != "" {
		cfg.RegistryPath = f.registry
	}
	if f.sheet != "" {
		cfg.RegistrySheet = f.sheet
	}
	if f.outputDir != "" {
		cfg.OutputDir = f.outputDir
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
}
