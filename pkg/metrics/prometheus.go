// Package metrics provides Prometheus metrics for the ranking service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus instruments for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Refresh metrics - cache rebuild health
	refreshDuration prometheus.Histogram
	refreshCount    prometheus.Counter
	refreshErrors   prometheus.Counter
	refreshLastUnix prometheus.Gauge

	// Cache metrics
	cacheScopeSize      *prometheus.GaugeVec
	cacheQueryLatency   prometheus.Histogram
	cacheReplaceLatency prometheus.Histogram

	// Query metrics
	queryLatency prometheus.Histogram
	totalPlayers prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry so the default Go runtime collectors stay out of /healthz.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "questboard",
		subsystem:        "ranking",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.refreshDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_duration_milliseconds",
		Help:      "Histogram of full leaderboard cache rebuild durations",
		Buckets:   m.histogramBuckets,
	})

	m.refreshCount = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_total",
		Help:      "Total number of completed cache refreshes",
	})

	m.refreshErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_errors_total",
		Help:      "Total number of aborted cache refreshes",
	})

	m.refreshLastUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_last_unix",
		Help:      "Unix timestamp of the last successful refresh",
	})

	m.cacheScopeSize = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_scope_size",
		Help:      "Number of members per leaderboard scope",
	}, []string{"scope"})

	m.cacheQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_query_latency_milliseconds",
		Help:      "Histogram of cache range-read latencies",
		Buckets:   m.histogramBuckets,
	})

	m.cacheReplaceLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_replace_latency_milliseconds",
		Help:      "Histogram of scope replacement latencies",
		Buckets:   m.histogramBuckets,
	})

	m.queryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "query_latency_milliseconds",
		Help:      "Histogram of end-to-end ranking query latencies",
		Buckets:   m.histogramBuckets,
	})

	m.totalPlayers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "total_players",
		Help:      "Number of players on the global leaderboard",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by endpoint, method and status",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "Histogram of HTTP request durations",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_total",
		Help:      "Total errors by component and kind",
	}, []string{"component", "kind"})
}

// Package-level helpers against the global manager.

// RecordRefreshDuration records one full cache rebuild duration.
func RecordRefreshDuration(ms float64) {
	globalManager.refreshDuration.Observe(ms)
}

// IncrementRefreshCount counts a completed refresh.
func IncrementRefreshCount() {
	globalManager.refreshCount.Inc()
}

// RecordRefreshError counts an aborted refresh.
func RecordRefreshError() {
	globalManager.refreshErrors.Inc()
}

// UpdateRefreshLastUnix records when the last refresh finished.
func UpdateRefreshLastUnix(unix float64) {
	globalManager.refreshLastUnix.Set(unix)
}

// UpdateCacheScopeSize tracks the member count of one scope.
func UpdateCacheScopeSize(scope string, size int) {
	globalManager.cacheScopeSize.WithLabelValues(scope).Set(float64(size))
}

// RecordCacheQueryLatency records a cache range-read latency.
func RecordCacheQueryLatency(ms float64) {
	globalManager.cacheQueryLatency.Observe(ms)
}

// RecordCacheReplaceLatency records a scope replacement latency.
func RecordCacheReplaceLatency(ms float64) {
	globalManager.cacheReplaceLatency.Observe(ms)
}

// RecordQueryLatency records an end-to-end ranking query latency.
func RecordQueryLatency(ms float64) {
	globalManager.queryLatency.Observe(ms)
}

// UpdateTotalPlayers tracks the global leaderboard size.
func UpdateTotalPlayers(count int) {
	globalManager.totalPlayers.Set(float64(count))
}

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration records one HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}

// RecordErrorByComponent counts an error attributed to a component.
func RecordErrorByComponent(component, kind string) {
	globalManager.errorsByComponent.WithLabelValues(component, kind).Inc()
}

// GetRegistry exposes the custom registry for the metrics endpoint.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
