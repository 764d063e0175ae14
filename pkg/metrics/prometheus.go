// Package metrics provides Prometheus metrics for the teamsite service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace string
	registry  prometheus.Registerer

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Store metrics
	documentsTotal *prometheus.GaugeVec
	storeSaves     prometheus.Counter
	storeErrors    prometheus.Counter
	snapshotsTotal prometheus.Counter

	// Business metrics
	contactSubmissions prometheus.Counter
	resultsSaved       prometheus.Counter
	uploadBytes        prometheus.Counter
	sessionsActive     prometheus.Gauge
	loginFailures      prometheus.Counter

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global manager on a custom registry so /healthz serves only our metrics.
var (
	globalManager  *Manager             //nolint:gochecknoglobals // singleton metrics manager
	customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // custom registry
)

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers all collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "teamsite",
		registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}

	factory := promauto.With(m.registry)

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status code.",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request duration in milliseconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint", "method"})

	m.documentsTotal = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "documents_total",
		Help:      "Number of documents per collection.",
	}, []string{"collection"})

	m.storeSaves = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "store_saves_total",
		Help:      "Successful persisted writes of the data file.",
	})

	m.storeErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "store_errors_total",
		Help:      "Failed store operations.",
	})

	m.snapshotsTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "store_snapshots_total",
		Help:      "Scheduled data file snapshots taken.",
	})

	m.contactSubmissions = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "contact_submissions_total",
		Help:      "Contact form submissions accepted.",
	})

	m.resultsSaved = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "game_results_saved_total",
		Help:      "Game results created or updated.",
	})

	m.uploadBytes = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "upload_bytes_total",
		Help:      "Attachment bytes written to the blob store.",
	})

	m.sessionsActive = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "sessions_active",
		Help:      "Currently valid admin sessions.",
	})

	m.loginFailures = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "login_failures_total",
		Help:      "Rejected login attempts.",
	})

	m.systemMemoryUsage = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "system_memory_bytes",
		Help:      "Current allocated heap bytes.",
	})

	m.systemGoroutineCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines.",
	})

	return m
}

// Package-level helpers delegating to the global manager.

func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

func RecordHTTPRequestDuration(endpoint, method string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method).Observe(durationMs)
}

func UpdateDocumentCount(collection string, n int) {
	globalManager.documentsTotal.WithLabelValues(collection).Set(float64(n))
}

func RecordStoreSave()   { globalManager.storeSaves.Inc() }
func RecordStoreError()  { globalManager.storeErrors.Inc() }
func RecordSnapshot()    { globalManager.snapshotsTotal.Inc() }
func RecordContactSubmission() { globalManager.contactSubmissions.Inc() }
func RecordResultSaved() { globalManager.resultsSaved.Inc() }

func RecordUploadBytes(n int64) { globalManager.uploadBytes.Add(float64(n)) }

func UpdateActiveSessions(n int) { globalManager.sessionsActive.Set(float64(n)) }
func RecordLoginFailure()        { globalManager.loginFailures.Inc() }

func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

func UpdateSystemGoroutineCount(n int) {
	globalManager.systemGoroutineCount.Set(float64(n))
}

// GetRegistry returns the custom registry served on /healthz.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
