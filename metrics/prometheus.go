package metrics

import (
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Telemetry file outcomes.
const (
	OutcomeAnalyzed    = "analyzed"
	OutcomeNoSamples   = "no_samples"
	OutcomeDecodeError = "decode_error"
)

// Manager owns the Prometheus collectors.
type Manager struct {
	namespace string
	registry  *prometheus.Registry

	// Telemetry
	telemetryFiles    *prometheus.CounterVec
	samplesNormalized prometheus.Counter
	thresholds        *prometheus.CounterVec
	analysisDuration  prometheus.Histogram

	// Race results
	catalogLoads      prometheus.Counter
	catalogEvents     prometheus.Gauge
	catalogCategories prometheus.Gauge
	catalogSkipped    prometheus.Counter
	projections       *prometheus.CounterVec

	// Exports
	exports *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var current atomic.Pointer[Manager] //nolint:gochecknoglobals // process-wide collectors

func init() { //nolint:gochecknoinits // default collectors for library use
	current.Store(NewManager())
}

// NewManager builds a manager and registers its collectors. Without
// WithRegistry they go on a new private registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{namespace: "fitzones"}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	m.initializeMetrics()
	return m
}

// Configure replaces the process-wide manager. Call it once at startup,
// before any handler records.
func Configure(opts ...Option) *Manager {
	m := NewManager(opts...)
	current.Store(m)
	return m
}

// Registry is the registry the manager's collectors live on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

func global() *Manager {
	return current.Load()
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.telemetryFiles = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "telemetry_files_total",
		Help:      "Telemetry files processed by outcome",
	}, []string{"outcome"})

	m.samplesNormalized = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "samples_normalized_total",
		Help:      "Samples admitted by the normalizer",
	})

	m.thresholds = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "threshold_estimates_total",
		Help:      "Threshold estimations by result (ok or undefined)",
	}, []string{"result"})

	m.analysisDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "analysis_duration_seconds",
		Help:      "Time spent analysing one telemetry session",
		Buckets:   prometheus.DefBuckets,
	})

	m.catalogLoads = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "catalog_loads_total",
		Help:      "Race result catalog loads and reloads",
	})

	m.catalogEvents = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "catalog_events",
		Help:      "Events held by the race result catalog",
	})

	m.catalogCategories = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "catalog_categories",
		Help:      "Category tables held by the race result catalog",
	})

	m.catalogSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "catalog_skipped_files_total",
		Help:      "Result files skipped because their name did not match the convention",
	})

	m.projections = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "projections_total",
		Help:      "Comparative projections computed by statistic",
	}, []string{"statistic"})

	m.exports = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "exports_total",
		Help:      "Export artifacts produced by kind",
	}, []string{"kind"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	}, []string{"endpoint", "method", "status_code"})
}

// RecordTelemetryFile counts one telemetry file by outcome, one of
// OutcomeAnalyzed, OutcomeNoSamples or OutcomeDecodeError.
func RecordTelemetryFile(outcome string) {
	global().telemetryFiles.WithLabelValues(outcome).Inc()
}

// RecordSamplesNormalized adds to the admitted sample counter.
func RecordSamplesNormalized(n int) {
	if n > 0 {
		global().samplesNormalized.Add(float64(n))
	}
}

// RecordThreshold counts one estimation; ok=false means undefined.
func RecordThreshold(ok bool) {
	result := "undefined"
	if ok {
		result = "ok"
	}
	global().thresholds.WithLabelValues(result).Inc()
}

// RecordAnalysisDuration observes one analysis in seconds.
func RecordAnalysisDuration(seconds float64) {
	global().analysisDuration.Observe(seconds)
}

// RecordCatalogLoad records the shape of a completed catalog load.
func RecordCatalogLoad(events, categories, skipped int) {
	m := global()
	m.catalogLoads.Inc()
	m.catalogEvents.Set(float64(events))
	m.catalogCategories.Set(float64(categories))
	if skipped > 0 {
		m.catalogSkipped.Add(float64(skipped))
	}
}

// RecordProjection counts one projection for the given statistic.
func RecordProjection(statistic string) {
	global().projections.WithLabelValues(statistic).Inc()
}

// RecordExport counts one produced export artifact.
func RecordExport(kind string) {
	global().exports.WithLabelValues(kind).Inc()
}

// ObserveHTTPRequest counts one request and records its latency in
// milliseconds.
func ObserveHTTPRequest(endpoint, method string, status int, elapsed time.Duration) {
	code := strconv.Itoa(status)
	m := global()
	m.httpRequests.WithLabelValues(endpoint, method, code).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, code).Observe(float64(elapsed.Microseconds()) / 1000)
}

// GetRegistry returns the registry of the process-wide manager.
func GetRegistry() *prometheus.Registry {
	return global().registry
}
