// Package service wires the reconciliation pipeline: it reads the inputs,
// runs every stage and persists the artifacts.
package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/okian/mealrecon/internal/adapters/checkinlog"
	"github.com/okian/mealrecon/internal/adapters/export"
	"github.com/okian/mealrecon/internal/adapters/sheet"
	"github.com/okian/mealrecon/internal/adapters/sink"
	"github.com/okian/mealrecon/internal/config"
	"github.com/okian/mealrecon/internal/domain/aggregate"
	"github.com/okian/mealrecon/internal/domain/classify"
	"github.com/okian/mealrecon/internal/domain/loader"
	"github.com/okian/mealrecon/internal/domain/model"
	"github.com/okian/mealrecon/internal/domain/reconcile"
	"github.com/okian/mealrecon/internal/domain/registry"
	"github.com/okian/mealrecon/internal/domain/types"
	"github.com/okian/mealrecon/internal/report"
	"github.com/okian/mealrecon/pkg/logger"
	"github.com/okian/mealrecon/pkg/metrics"
)

// Pipeline stage names, used as metric labels.
const (
	stageRead      = "read"
	stageLoad      = "load"
	stageClassify  = "classify"
	stageRegistry  = "registry"
	stageReconcile = "reconcile"
	stageAggregate = "aggregate"
	stageFiscal    = "fiscal"
	stagePersist   = "persist"
)

// Result is the in-memory outcome of one pipeline run.
type Result struct {
	RunID       string
	GeneratedAt time.Time
	Period      model.Period
	Loaded      loader.Result
	Registry    *registry.Registry
	Events      []model.ReconciledEvent
	Matches     reconcile.Stats
	Aggregate   aggregate.Result
	Fiscal      model.FiscalBreakdown
}

// Outcome is a persisted run.
type Outcome struct {
	*Result
	Paths []string
}

// Service runs the reconciliation pipeline.
type Service struct {
	policy        config.Policy
	checkinPath   string
	registryPath  string
	registrySheet string
	checkinHeader bool
	outputDir     string
	topMembers    int

	now      func() time.Time
	newRunID func() string
	logger   logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	cfg := config.New(context.Background())
	policy, err := cfg.Policy()
	if err != nil {
		panic(fmt.Sprintf("default policy: %v", err))
	}

	s := &Service{
		policy:        policy,
		checkinPath:   cfg.CheckinPath,
		registryPath:  cfg.RegistryPath,
		registrySheet: cfg.RegistrySheet,
		checkinHeader: cfg.CheckinHasHeader,
		outputDir:     cfg.OutputDir,
		topMembers:    cfg.TopMembers,
		now:           time.Now,
		newRunID:      func() string { return uuid.NewString() },
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	return s
}

// NewFromConfig builds a Service from a loaded Config. Options are applied
// after the config so callers can override single settings.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Service, error) {
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}
	base := []Option{
		WithPolicy(policy),
		WithInputs(cfg.CheckinPath, cfg.RegistryPath, cfg.RegistrySheet),
		WithCheckinHeader(cfg.CheckinHasHeader),
		WithOutputDir(cfg.OutputDir),
		WithTopMembers(cfg.TopMembers),
	}
	return New(append(base, opts...)...), nil
}

// Compute runs every pipeline stage over in-memory inputs. Only a registry
// schema failure is fatal; malformed check-in records are dropped and
// reported in Result.Loaded.
func (s *Service) Compute(ctx context.Context, records []model.RawRecord, table registry.Table) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res := &Result{RunID: s.newRunID(), GeneratedAt: s.now()}
	log := s.logger.With(logger.String("run_id", res.RunID))

	var err error
	timed(stageRegistry, func() {
		res.Registry, err = registry.NewResolver(s.policy.Columns.Rules()...).Resolve(table)
	})
	if err != nil {
		metrics.RecordErrorByComponent(stageRegistry, "schema")
		log.Error(ctx, "registry schema rejected", logger.Error(err))
		return nil, err
	}
	s.logResolution(ctx, log, res.Registry)
	metrics.UpdateRegistryRows(res.Registry.Len())

	timed(stageLoad, func() {
		res.Loaded = loader.New(loader.WithLocation(s.policy.Location)).Load(records)
	})
	metrics.RecordRecordsRead(len(records))
	metrics.RecordRecordsDropped(res.Loaded.Dropped())
	for _, pe := range res.Loaded.Skipped {
		log.Debug(ctx, "record dropped", logger.Int("line", pe.Line), logger.String("reason", pe.Reason))
	}
	log.Info(ctx, "check-ins loaded",
		logger.Int("records", len(records)),
		logger.Int("events", len(res.Loaded.Events)),
		logger.Int("dropped", res.Loaded.Dropped()),
	)

	c := classify.New(
		classify.WithBreakfastWindow(s.policy.Breakfast),
		classify.WithLunchWindow(s.policy.Lunch),
		classify.WithTolerance(s.policy.Tolerance),
	)
	var classified []model.ClassifiedEvent
	timed(stageClassify, func() {
		classified = c.ClassifyAll(res.Loaded.Events)
	})
	recordKinds(classified)
	log.Debug(ctx, "check-ins classified",
		logger.String("breakfast_window", windowLabel(c, model.Breakfast)),
		logger.String("lunch_window", windowLabel(c, model.Lunch)),
		logger.Int("events", len(classified)),
	)

	timed(stageReconcile, func() {
		res.Events, res.Matches = reconcile.All(res.Registry, classified)
	})
	metrics.RecordMatches(model.MatchByID.String(), res.Matches.ByID)
	metrics.RecordMatches(model.MatchByName.String(), res.Matches.ByName)
	metrics.RecordMatches(model.MatchNone.String(), res.Matches.None)
	log.Info(ctx, "check-ins reconciled",
		logger.Int("by_id", res.Matches.ByID),
		logger.Int("by_name", res.Matches.ByName),
		logger.Int("unmatched", res.Matches.None),
	)

	timed(stageAggregate, func() {
		res.Aggregate = aggregate.Aggregate(s.policy.Prices, res.Events)
	})
	metrics.UpdateAggregates(len(res.Aggregate.Daily))

	res.Period = res.Aggregate.Period
	if len(res.Events) == 0 {
		today := types.DateOf(res.GeneratedAt)
		res.Period = model.Period{Start: today, End: today}
	}

	timed(stageFiscal, func() {
		res.Fiscal = s.policy.Rates.Compute(res.Aggregate.Totals.Net)
	})
	metrics.UpdateLastNetTotal(res.Aggregate.Totals.Net.InexactFloat64())

	log.Info(ctx, "totals computed",
		logger.String("period", res.Period.Label()),
		logger.Int("aggregates", len(res.Aggregate.Daily)),
		logger.Int("breakfast_attendees", res.Aggregate.Totals.BreakfastAttendees),
		logger.Int("lunch_attendees", res.Aggregate.Totals.LunchAttendees),
		logger.String("net", res.Aggregate.Totals.Net.StringFixed(2)),
		logger.String("net_invoice", res.Fiscal.NetInvoice.StringFixed(2)),
	)

	return res, nil
}

// Execute reads the configured inputs, computes and persists every
// artifact. Nothing is written unless every stage succeeds.
func (s *Service) Execute(ctx context.Context) (*Outcome, error) {
	start := s.now()
	out, err := s.execute(ctx)
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusFailure
	}
	end := s.now()
	metrics.RecordRun(status, end.Sub(start).Seconds(), end.Unix())
	return out, err
}

func (s *Service) execute(ctx context.Context) (*Outcome, error) {
	var (
		records []model.RawRecord
		table   registry.Table
		err     error
	)
	timed(stageRead, func() {
		records, err = checkinlog.NewReader(
			checkinlog.WithHeader(s.checkinHeader),
			checkinlog.WithMaxLineBytes(s.policy.MaxLineBytes),
		).ReadFile(ctx, s.checkinPath)
		if err != nil {
			return
		}
		table, err = sheet.ReadTable(ctx, s.registryPath, s.registrySheet)
	})
	if err != nil {
		metrics.RecordErrorByComponent(stageRead, "io")
		return nil, err
	}

	res, err := s.Compute(ctx, records, table)
	if err != nil {
		return nil, err
	}

	var paths []string
	timed(stagePersist, func() {
		paths, err = sink.New(s.outputDir, sink.WithFileMode(s.policy.FileMode)).WriteAll(ctx, s.Artifacts(res))
	})
	if err != nil {
		metrics.RecordArtifactFailed()
		metrics.RecordErrorByComponent(stagePersist, "persist")
		return nil, err
	}
	metrics.RecordArtifactsWritten(len(paths))

	log := s.logger.With(logger.String("run_id", res.RunID))
	for _, p := range paths {
		log.Info(ctx, "artifact written", logger.String("path", p))
	}
	return &Outcome{Result: res, Paths: paths}, nil
}

// Artifacts lists every output of a run.
func (s *Service) Artifacts(res *Result) []sink.Artifact {
	names := export.NamesFor(res.Period)
	return []sink.Artifact{
		{Name: names.Detail, Render: export.Detail(res.Events)},
		{Name: names.DailySummary, Render: export.DailySummary(res.Aggregate.Daily, res.Fiscal)},
		{Name: names.MemberAttendance, Render: export.MemberAttendance(res.Aggregate.Members)},
		{Name: names.Fiscal, Render: export.Fiscal(res.Fiscal)},
		{Name: names.Report, Render: func(w io.Writer) error { return report.Render(w, s.ReportInput(res)) }},
	}
}

// ReportInput assembles the text report of a run.
func (s *Service) ReportInput(res *Result) report.Input {
	return report.Input{
		RunID:       res.RunID,
		GeneratedAt: res.GeneratedAt,
		Period:      res.Period,
		Totals:      res.Aggregate.Totals,
		Prices:      s.policy.Prices,
		Fiscal:      res.Fiscal,
		Daily:       res.Aggregate.Daily,
		Members:     res.Aggregate.Members,
		TopMembers:  s.topMembers,
		Dropped:     res.Loaded.Dropped(),
	}
}

// RenderReport renders the text report to a string.
func (s *Service) RenderReport(res *Result) (string, error) {
	var buf bytes.Buffer
	if err := report.Render(&buf, s.ReportInput(res)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *Service) logResolution(ctx context.Context, log logger.Logger, reg *registry.Registry) {
	fields := []logger.Field{logger.Int("members", reg.Len())}
	for _, col := range []registry.Column{registry.ColumnID, registry.ColumnSubsidy, registry.ColumnName} {
		h, ok := reg.Resolution.Header(col)
		if !ok {
			h = "(missing)"
		}
		fields = append(fields, logger.String(col.String()+"_column", h))
	}
	log.Info(ctx, "registry resolved", fields...)
}

func recordKinds(events []model.ClassifiedEvent) {
	counts := make(map[model.ServiceKind]int, len(model.ServiceKinds))
	for _, e := range events {
		counts[e.Service]++
	}
	for _, k := range model.ServiceKinds {
		metrics.RecordEventsClassified(k.String(), counts[k])
	}
}

func timed(stage string, fn func()) {
	start := time.Now()
	fn()
	metrics.RecordStageDuration(stage, time.Since(start).Seconds())
}

// windowLabel renders the tolerant window the classifier applies to kind.
func windowLabel(c *classify.Classifier, kind model.ServiceKind) string {
	w, ok := c.Window(kind)
	if !ok {
		return ""
	}
	return w.Start.String() + "-" + w.End.String()
}
