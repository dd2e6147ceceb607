// Package metrics provides Prometheus metrics for the IFRS 15 development server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector of the development server.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// API responder metrics
	documentsServed  *prometheus.CounterVec
	unknownEndpoints prometheus.Counter
	exportsServed    *prometheus.CounterVec
	corsPreflights   prometheus.Counter

	// Static fallback metrics
	staticServed  prometheus.Counter
	staticMissing prometheus.Counter
	demoPages     prometheus.Counter

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "ifrs15",
		subsystem:        "devserver",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	}
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by route, method and status"),
		[]string{"route", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"route", "method", "status_code"},
	)

	m.documentsServed = auto.NewCounterVec(
		m.counterOpts("api_documents_served_total", "Fixture documents served by endpoint"),
		[]string{"endpoint"},
	)

	m.unknownEndpoints = auto.NewCounter(
		m.counterOpts("api_unknown_endpoints_total", "Requests under the API prefix with no endpoint behind them"),
	)

	m.exportsServed = auto.NewCounterVec(
		m.counterOpts("api_exports_served_total", "CSV exports served by export name"),
		[]string{"export"},
	)

	m.corsPreflights = auto.NewCounter(
		m.counterOpts("api_cors_preflights_total", "CORS preflight requests answered"),
	)

	m.staticServed = auto.NewCounter(
		m.counterOpts("static_requests_total", "Requests handed to the static file fallback"),
	)

	m.staticMissing = auto.NewCounter(
		m.counterOpts("static_not_found_total", "Static requests that resolved to no file"),
	)

	m.demoPages = auto.NewCounter(
		m.counterOpts("demo_page_requests_total", "Requests rewritten to the demo page"),
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "Heap memory in use in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "Average GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// HTTPRequest records one finished request and its duration.
func (m *Manager) HTTPRequest(route, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(route, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(route, method, statusCode).Observe(durationMs)
}

// DocumentServed counts a fixture document served for endpoint.
func (m *Manager) DocumentServed(endpoint string) {
	if m.enabled {
		m.documentsServed.WithLabelValues(endpoint).Inc()
	}
}

// UnknownEndpoint counts an API request that matched no endpoint.
func (m *Manager) UnknownEndpoint() {
	if m.enabled {
		m.unknownEndpoints.Inc()
	}
}

// ExportServed counts a CSV export.
func (m *Manager) ExportServed(name string) {
	if m.enabled {
		m.exportsServed.WithLabelValues(name).Inc()
	}
}

// Preflight counts a CORS preflight.
func (m *Manager) Preflight() {
	if m.enabled {
		m.corsPreflights.Inc()
	}
}

// StaticRequest counts a static request; found is false on 404.
func (m *Manager) StaticRequest(found bool) {
	if !m.enabled {
		return
	}
	m.staticServed.Inc()
	if !found {
		m.staticMissing.Inc()
	}
}

// DemoPage counts a demo route rewrite.
func (m *Manager) DemoPage() {
	if m.enabled {
		m.demoPages.Inc()
	}
}

// SystemSample records one sample of process memory, goroutines and GC pause.
func (m *Manager) SystemSample(memBytes uint64, goroutines int, avgPauseMs float64) {
	if !m.enabled {
		return
	}
	m.systemMemoryUsage.Set(float64(memBytes))
	m.systemGoroutineCount.Set(float64(goroutines))
	if avgPauseMs > 0 {
		m.systemGCPauseTime.Observe(avgPauseMs)
	}
}

// Default returns the process-wide manager registered on GetRegistry().
func Default() *Manager { return globalManager }

// RecordSystemSample records system metrics on the global manager.
func RecordSystemSample(memBytes uint64, goroutines int, avgPauseMs float64) {
	globalManager.SystemSample(memBytes, goroutines, avgPauseMs)
}

// GetRegistry returns the registry the global manager is registered on.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
