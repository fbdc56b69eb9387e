// Package metrics provides Prometheus metrics for the natal chart service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the natal service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	batchBuckets     []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Chart pipeline
	chartsComputed    prometheus.Counter
	chartLatency      prometheus.Histogram
	ephemerisWarnings *prometheus.CounterVec
	ephemerisErrors   prometheus.Counter
	profilesComputed  prometheus.Counter
	pitfallsTriggered *prometheus.CounterVec
	batchSize         prometheus.Histogram

	// Snapshot store
	storeOperations *prometheus.CounterVec
	storeLatency    *prometheus.HistogramVec
	snapshotsStored prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	rateLimited         *prometheus.CounterVec
	idempotencyHits     prometheus.Counter

	// Geocoder
	geocodeRequests     *prometheus.CounterVec
	geocodeBreakerState prometheus.Gauge

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "natal",
		subsystem:        "service",
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		batchBuckets:     []float64{1, 2, 5, 10, 25, 50, 100},
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, labels)
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	m.chartsComputed = m.counter("charts_computed_total", "Total number of natal charts computed")
	m.chartLatency = m.histogram("chart_latency_milliseconds", "Chart computation latency in milliseconds", m.histogramBuckets)
	m.ephemerisWarnings = m.counterVec("ephemeris_warnings_total", "Non-fatal ephemeris warnings by code", "code")
	m.ephemerisErrors = m.counter("ephemeris_errors_total", "Chart computations failed by the ephemeris")
	m.profilesComputed = m.counter("profiles_computed_total", "Total number of career profiles computed")
	m.pitfallsTriggered = m.counterVec("pitfalls_triggered_total", "Pitfalls flagged in computed profiles", "key")
	m.batchSize = m.histogram("batch_size", "Number of inputs per batch request", m.batchBuckets)

	m.storeOperations = m.counterVec("store_operations_total", "Snapshot store operations by backend, operation and outcome", "backend", "op", "outcome")
	m.storeLatency = m.histogramVec("store_latency_milliseconds", "Snapshot store latency in milliseconds", "backend", "op")
	m.snapshotsStored = m.gauge("snapshots_stored", "Snapshots held by the in-process store")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", "endpoint", "method", "status_code")
	m.rateLimited = m.counterVec("http_rate_limited_total", "Requests rejected by the per-client rate limiter", "endpoint")
	m.idempotencyHits = m.counter("idempotency_hits_total", "Chart requests answered from the idempotency cache")

	m.geocodeRequests = m.counterVec("geocode_requests_total", "Geocoder lookups by outcome", "outcome")
	m.geocodeBreakerState = m.gauge("geocode_breaker_state", "Geocoder circuit breaker state (0 closed, 1 half-open, 2 open)")

	m.errorRateByComponent = m.counterVec("errors_by_component_total", "Errors by component and type", "component", "error_type")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Errors by endpoint, method and type", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

// RecordChartComputed increments the charts computed counter.
func RecordChartComputed() {
	globalManager.chartsComputed.Inc()
}

// RecordChartLatency records chart computation latency in milliseconds.
func RecordChartLatency(latencyMs float64) {
	globalManager.chartLatency.Observe(latencyMs)
}

// RecordEphemerisWarning counts a warning by its code.
func RecordEphemerisWarning(code string) {
	globalManager.ephemerisWarnings.WithLabelValues(code).Inc()
}

// RecordEphemerisError increments the ephemeris failure counter.
func RecordEphemerisError() {
	globalManager.ephemerisErrors.Inc()
}

// RecordProfileComputed increments the profiles computed counter.
func RecordProfileComputed() {
	globalManager.profilesComputed.Inc()
}

// RecordPitfall counts a flagged pitfall.
func RecordPitfall(key string) {
	globalManager.pitfallsTriggered.WithLabelValues(key).Inc()
}

// RecordBatchSize records the number of inputs in a batch request.
func RecordBatchSize(n int) {
	globalManager.batchSize.Observe(float64(n))
}

// Store Metrics Functions.

// RecordStoreOperation counts a store call.
func RecordStoreOperation(backend, op, outcome string) {
	globalManager.storeOperations.WithLabelValues(backend, op, outcome).Inc()
}

// RecordStoreLatency records store call latency in milliseconds.
func RecordStoreLatency(backend, op string, latencyMs float64) {
	globalManager.storeLatency.WithLabelValues(backend, op).Observe(latencyMs)
}

// UpdateSnapshotsStored sets the number of snapshots held in memory.
func UpdateSnapshotsStored(count int) {
	globalManager.snapshotsStored.Set(float64(count))
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordRateLimited counts a request rejected by the rate limiter.
func RecordRateLimited(endpoint string) {
	globalManager.rateLimited.WithLabelValues(endpoint).Inc()
}

// RecordIdempotencyHit counts a replayed chart response.
func RecordIdempotencyHit() {
	globalManager.idempotencyHits.Inc()
}

// Geocoder Metrics Functions.

// RecordGeocodeRequest counts a geocoder lookup by outcome.
func RecordGeocodeRequest(outcome string) {
	globalManager.geocodeRequests.WithLabelValues(outcome).Inc()
}

// UpdateGeocodeBreakerState sets the circuit breaker state.
func UpdateGeocodeBreakerState(state int) {
	globalManager.geocodeBreakerState.Set(float64(state))
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
