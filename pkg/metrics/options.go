package metrics

import (
	"slices"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Manager before its metrics are registered.
type Option func(*Manager)

// WithNamespace overrides the "natal" metric name prefix. Empty is ignored.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithSubsystem overrides the "service" subsystem. Empty is ignored.
func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		if subsystem != "" {
			m.subsystem = subsystem
		}
	}
}

// WithHistogramBuckets sets the millisecond buckets shared by the chart,
// store and HTTP latency histograms.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = sortedCopy(buckets)
		}
	}
}

// WithBatchBuckets sets the buckets of the batch size histogram.
func WithBatchBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.batchBuckets = sortedCopy(buckets)
		}
	}
}

// WithConstLabels adds labels attached to every metric, such as a region or
// an ephemeris mode.
func WithConstLabels(labels map[string]string) Option {
	return func(m *Manager) {
		for k, v := range labels {
			m.constLabels[k] = v
		}
	}
}

// WithPrometheusRegistry registers metrics on registry instead of the
// default registerer. Nil is ignored.
func WithPrometheusRegistry(registry prometheus.Registerer) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// sortedCopy returns the buckets ascending and without duplicates, as
// prometheus requires.
func sortedCopy(buckets []float64) []float64 {
	out := slices.Clone(buckets)
	slices.Sort(out)
	return slices.Compact(out)
}
