// Package metrics provides Prometheus metrics for the meal reconciliation runs.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultNamespace = "mealrecon"
	defaultSubsystem = "pipeline"
)

var (
	defaultStageBuckets = []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}
	defaultRunBuckets   = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}
)

// Run outcomes used as the status label.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Manager manages all Prometheus metrics of a reconciliation run.
type Manager struct {
	namespace    string
	subsystem    string
	stageBuckets []float64
	runBuckets   []float64
	enabled      bool
	constLabels  prometheus.Labels
	registry     prometheus.Registerer

	// Input Metrics
	recordsRead    prometheus.Counter
	recordsDropped prometheus.Counter
	registryRows   prometheus.Gauge

	// Pipeline Metrics
	eventsClassified *prometheus.CounterVec
	matches          *prometheus.CounterVec
	aggregates       prometheus.Gauge
	stageDuration    *prometheus.HistogramVec

	// Output Metrics
	artifactsWritten prometheus.Counter
	artifactsFailed  prometheus.Counter

	// Run Metrics
	runs             *prometheus.CounterVec
	runDuration      prometheus.Histogram
	lastNetTotal     prometheus.Gauge
	lastRunTimestamp prometheus.Gauge

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegisterer(customRegistry))
}

// Configure rebuilds the global manager on a fresh registry. Call it once at
// startup, before any Record helper runs; series recorded earlier are lost.
// The registry is always the one GetRegistry returns, so a WithRegisterer
// option is overridden.
func Configure(opts ...Option) {
	reg := prometheus.NewRegistry()
	globalManager = NewManager(append(opts[:len(opts):len(opts)], WithRegisterer(reg))...)
	customRegistry = reg
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:    defaultNamespace,
		subsystem:    defaultSubsystem,
		stageBuckets: defaultStageBuckets,
		runBuckets:   defaultRunBuckets,
		enabled:      true,
		registry:     prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric definition
	auto := promauto.With(m.registry)
	labels := cloneLabels(m.constLabels)

	m.recordsRead = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "records_read_total",
		Help:        "Total number of check-in records read from the log",
		ConstLabels: labels,
	})

	m.recordsDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "records_dropped_total",
		Help:        "Total number of check-in records dropped as malformed",
		ConstLabels: labels,
	})

	m.registryRows = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "registry_rows",
		Help:        "Number of member rows in the subsidy registry of the last run",
		ConstLabels: labels,
	})

	m.eventsClassified = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "events_classified_total",
		Help:        "Total number of check-ins by meal service",
		ConstLabels: labels,
	}, []string{"service"})

	m.matches = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "reconcile_matches_total",
		Help:        "Total number of check-ins by registry match method",
		ConstLabels: labels,
	}, []string{"method"})

	m.aggregates = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "daily_aggregates",
		Help:        "Number of (date, service) aggregates produced by the last run",
		ConstLabels: labels,
	})

	m.stageDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stage_duration_seconds",
		Help:        "Time spent in each pipeline stage",
		Buckets:     m.stageBuckets,
		ConstLabels: labels,
	}, []string{"stage"})

	m.artifactsWritten = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "artifacts_written_total",
		Help:        "Total number of output artifacts committed",
		ConstLabels: labels,
	})

	m.artifactsFailed = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "artifacts_failed_total",
		Help:        "Total number of artifact write attempts that failed",
		ConstLabels: labels,
	})

	m.runs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "runs_total",
		Help:        "Total number of runs by outcome",
		ConstLabels: labels,
	}, []string{"status"})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "run_duration_seconds",
		Help:        "Wall time of a complete run",
		Buckets:     m.runBuckets,
		ConstLabels: labels,
	})

	m.lastNetTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_net_total",
		Help:        "Grand total net amount of the last successful run",
		ConstLabels: labels,
	})

	m.lastRunTimestamp = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_run_timestamp_seconds",
		Help:        "Unix time the last run finished",
		ConstLabels: labels,
	})

	m.errorRateByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_total",
		Help:        "Errors by pipeline component and kind",
		ConstLabels: labels,
	}, []string{"component", "type"})
}

// RecordRecordsRead adds n to the records read counter.
func RecordRecordsRead(n int) {
	if globalManager.enabled {
		globalManager.recordsRead.Add(float64(n))
	}
}

// RecordRecordsDropped adds n to the dropped records counter.
func RecordRecordsDropped(n int) {
	if globalManager.enabled {
		globalManager.recordsDropped.Add(float64(n))
	}
}

// UpdateRegistryRows sets the registry row count.
func UpdateRegistryRows(n int) {
	if globalManager.enabled {
		globalManager.registryRows.Set(float64(n))
	}
}

// RecordEventsClassified adds n check-ins for a service.
func RecordEventsClassified(service string, n int) {
	if globalManager.enabled {
		globalManager.eventsClassified.WithLabelValues(service).Add(float64(n))
	}
}

// RecordMatches adds n check-ins resolved by method.
func RecordMatches(method string, n int) {
	if globalManager.enabled {
		globalManager.matches.WithLabelValues(method).Add(float64(n))
	}
}

// UpdateAggregates sets the number of aggregates produced.
func UpdateAggregates(n int) {
	if globalManager.enabled {
		globalManager.aggregates.Set(float64(n))
	}
}

// RecordStageDuration observes the duration of a pipeline stage in seconds.
func RecordStageDuration(stage string, seconds float64) {
	if globalManager.enabled {
		globalManager.stageDuration.WithLabelValues(stage).Observe(seconds)
	}
}

// RecordArtifactsWritten adds n committed artifacts.
func RecordArtifactsWritten(n int) {
	if globalManager.enabled {
		globalManager.artifactsWritten.Add(float64(n))
	}
}

// RecordArtifactFailed increments the failed artifact counter.
func RecordArtifactFailed() {
	if globalManager.enabled {
		globalManager.artifactsFailed.Inc()
	}
}

// RecordRun records a finished run with its outcome and duration.
func RecordRun(status string, seconds float64, finishedUnix int64) {
	if !globalManager.enabled {
		return
	}
	globalManager.runs.WithLabelValues(status).Inc()
	globalManager.runDuration.Observe(seconds)
	globalManager.lastRunTimestamp.Set(float64(finishedUnix))
}

// UpdateLastNetTotal sets the grand total net of the last run.
func UpdateLastNetTotal(net float64) {
	if globalManager.enabled {
		globalManager.lastNetTotal.Set(net)
	}
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if globalManager.enabled {
		globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
	}
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile dumps the registry in text exposition format for the
// node-exporter textfile collector. The file is replaced atomically.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteTextfile, err)
	}
	return nil
}
