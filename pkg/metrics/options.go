package metrics

import (
	"maps"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Manager.
type Option func(*Manager)

// WithNamespace overrides the metric namespace ("mealrecon").
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithSubsystem overrides the metric subsystem ("pipeline").
func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		if subsystem != "" {
			m.subsystem = subsystem
		}
	}
}

// WithStageBuckets sets the buckets of stage_duration_seconds. Stages of a
// batch run finish in milliseconds, so the defaults are finer than
// prometheus.DefBuckets.
func WithStageBuckets(buckets ...float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.stageBuckets = buckets
		}
	}
}

// WithRunBuckets sets the buckets of run_duration_seconds.
func WithRunBuckets(buckets ...float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.runBuckets = buckets
		}
	}
}

// WithEnabled turns the package-level Record helpers on or off.
func WithEnabled(enabled bool) Option {
	return func(m *Manager) {
		m.enabled = enabled
	}
}

// WithSite labels every metric with the cafeteria the run bills for.
func WithSite(site string) Option {
	return WithConstLabels(map[string]string{"site": site})
}

// WithConstLabels merges constant labels into every metric. Empty values
// are skipped.
func WithConstLabels(labels map[string]string) Option {
	return func(m *Manager) {
		for k, v := range labels {
			if v == "" {
				continue
			}
			if m.constLabels == nil {
				m.constLabels = make(prometheus.Labels, len(labels))
			}
			m.constLabels[k] = v
		}
	}
}

// WithRegisterer registers the metrics somewhere other than the default
// registerer.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}

func cloneLabels(l prometheus.Labels) prometheus.Labels {
	if len(l) == 0 {
		return nil
	}
	return maps.Clone(l)
}
