package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for the API
type Metrics struct {
	registry *prometheus.Registry

	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Dataset metrics
	ingestTotal    *prometheus.CounterVec
	ingestDuration prometheus.Histogram
	datasetRecords prometheus.Gauge
	datasetWarning prometheus.Gauge

	// View metrics
	viewComputeTotal    *prometheus.CounterVec
	viewComputeDuration prometheus.Histogram

	// Login metrics
	authRequestsTotal *prometheus.CounterVec

	// Health check metrics
	healthChecksTotal *prometheus.CounterVec
}

// NewMetrics creates all Prometheus metrics on a private registry, together
// with the Go runtime and process collectors
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,

		// HTTP request metrics
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assetview_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "assetview_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "assetview_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		// Dataset metrics
		ingestTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assetview_dataset_ingest_total",
				Help: "Total number of dataset ingestion attempts",
			},
			[]string{"status"},
		),

		ingestDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "assetview_dataset_ingest_duration_seconds",
				Help:    "Dataset fetch and parse duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),

		datasetRecords: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "assetview_dataset_records",
				Help: "Number of records in the current dataset",
			},
		),

		datasetWarning: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "assetview_dataset_warnings",
				Help: "Number of row warnings raised while ingesting the current dataset",
			},
		),

		// View metrics
		viewComputeTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assetview_view_computations_total",
				Help: "Total number of view computations",
			},
			[]string{"operation", "status"},
		),

		viewComputeDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "assetview_view_compute_duration_seconds",
				Help:    "View computation duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
		),

		// Authentication metrics
		authRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assetview_auth_requests_total",
				Help: "Total number of login and session checks",
			},
			[]string{"kind", "status"},
		),

		// Health check metrics
		healthChecksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assetview_health_checks_total",
				Help: "Total number of health checks",
			},
			[]string{"status"},
		),
	}

	return m
}

func statusLabel(success bool) string {
	if success {
		return statusSuccess
	}
	return statusError
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the registry the metrics are registered on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	statusCodeStr := strconv.Itoa(statusCode)

	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordIngest records a dataset load. records and warnings are only
// applied on success, since a failed load keeps the previous dataset.
func (m *Metrics) RecordIngest(success bool, records, warnings int, duration time.Duration) {
	m.ingestTotal.WithLabelValues(statusLabel(success)).Inc()
	m.ingestDuration.Observe(duration.Seconds())
	if success {
		m.datasetRecords.Set(float64(records))
		m.datasetWarning.Set(float64(warnings))
	}
}

// RecordViewCompute records one view computation
func (m *Metrics) RecordViewCompute(operation string, success bool, duration time.Duration) {
	m.viewComputeTotal.WithLabelValues(operation, statusLabel(success)).Inc()
	m.viewComputeDuration.Observe(duration.Seconds())
}

// RecordAuthRequest records a login attempt ("login") or a session check
// ("session")
func (m *Metrics) RecordAuthRequest(kind string, success bool) {
	m.authRequestsTotal.WithLabelValues(kind, statusLabel(success)).Inc()
}

// RecordHealthCheck records a health check
func (m *Metrics) RecordHealthCheck(success bool) {
	m.healthChecksTotal.WithLabelValues(statusLabel(success)).Inc()
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Record request in flight
		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		// Create response writer wrapper to capture status code
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		// Call the original handler
		handler(rw, r)

		// Record metrics
		duration := time.Since(start)
		m.RecordHTTPRequest(method, endpoint, rw.statusCode, duration)
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
