package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"

	"github.com/ledgerops/tx-ledger-go/internal/domain"
)

// Metrics holds all Prometheus metrics for the ledger service.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration  *prometheus.HistogramVec
	storeErrors      *prometheus.CounterVec
	cacheHits        *prometheus.CounterVec
	cacheMisses      *prometheus.CounterVec
	reportsRendered  *prometheus.CounterVec
	generatorInserts *prometheus.CounterVec
	requestsTotal    *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		storeErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_store_errors_total",
				Help: "Total errors from the transaction store.",
			},
			[]string{"op"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		reportsRendered: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_reports_rendered_total",
				Help: "Total reports rendered by format.",
			},
			[]string{"format"},
		),
		generatorInserts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_generator_inserts_total",
				Help: "Total synthetic transactions inserted by the generator.",
			},
			[]string{"status"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_requests_total",
				Help: "Total requests processed.",
			},
			[]string{"status"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrStoreError increments the store error counter for an operation.
func (m *Metrics) IncrStoreError(op string) {
	m.storeErrors.WithLabelValues(op).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrReportRendered increments the rendered-report counter for a format
// ("csv" or "pdf").
func (m *Metrics) IncrReportRendered(format string) {
	m.reportsRendered.WithLabelValues(format).Inc()
}

// IncrGeneratorInsert increments the generator insert counter with a
// status label ("success" or "error").
func (m *Metrics) IncrGeneratorInsert(status string) {
	m.generatorInserts.WithLabelValues(status).Inc()
}

// IncrRequest increments the request counter with a status label.
func (m *Metrics) IncrRequest(status string) {
	m.requestsTotal.WithLabelValues(status).Inc()
}

// GetOpsSnapshot returns a snapshot of operational metrics suitable for the
// GET /v1/metrics/ops endpoint.
func (m *Metrics) GetOpsSnapshot() *domain.OpsMetrics {
	// Prometheus counters expose cumulative values.
	totalRequests := getCounterValue(m.requestsTotal, "success") +
		getCounterValue(m.requestsTotal, "error")
	errorCount := getCounterValue(m.requestsTotal, "error")
	cacheHits := getCounterValue(m.cacheHits, "summary")
	cacheMisses := getCounterValue(m.cacheMisses, "summary")

	errorRate := float64(0)
	cacheHitRate := float64(0)
	if totalRequests > 0 {
		errorRate = errorCount / totalRequests
	}
	if cacheHits+cacheMisses > 0 {
		cacheHitRate = cacheHits / (cacheHits + cacheMisses)
	}

	storeErrors := float64(0)
	for _, op := range []string{"insert", "get", "count", "select"} {
		storeErrors += getCounterValue(m.storeErrors, op)
	}

	return &domain.OpsMetrics{
		TotalRequests:     int64(totalRequests),
		ErrorRate:         errorRate,
		CacheHitRate:      cacheHitRate,
		StoreErrors:       int64(storeErrors),
		ReportsCSV:        int64(getCounterValue(m.reportsRendered, "csv")),
		ReportsPDF:        int64(getCounterValue(m.reportsRendered, "pdf")),
		GeneratorInserts:  int64(getCounterValue(m.generatorInserts, "success")),
		GeneratorFailures: int64(getCounterValue(m.generatorInserts, "error")),
		Period:            "all_time",
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
