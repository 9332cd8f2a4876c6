package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the engine.
type Metrics struct {
	// HTTP API metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Search metrics
	SearchesTotal    *prometheus.CounterVec
	SourcesSearched  *prometheus.CounterVec
	RecordsExtracted *prometheus.CounterVec
	RetriesTotal     prometheus.Counter

	// Extraction metrics
	ExtractionDuration *prometheus.HistogramVec

	// Cache metrics
	CacheHits      *prometheus.CounterVec
	CacheMisses    *prometheus.CounterVec
	CacheEvictions prometheus.Counter

	// Fetch metrics
	FetchesTotal  *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec

	startTime time.Time
}

// NewMetrics creates and registers the engine metrics.
func NewMetrics() *Metrics {
	return newMetrics(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry registers on the given registry instead of the
// global default, so servers and tests own their metric namespace.
func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	return newMetrics(reg)
}

func newMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mcpsearch_http_requests_total",
				Help: "Total number of HTTP API requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mcpsearch_http_request_duration_seconds",
				Help:    "HTTP API request duration in seconds",
				Buckets: []float64{.005, .01, .05, .1, .5, 1, 5, 15, 30},
			},
			[]string{"method", "path"},
		),
		SearchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mcpsearch_searches_total",
				Help: "Category searches by outcome",
			},
			[]string{"category", "outcome"},
		),
		SourcesSearched: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mcpsearch_sources_searched_total",
				Help: "Per-source search invocations by outcome",
			},
			[]string{"source", "outcome"},
		),
		RecordsExtracted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mcpsearch_records_extracted_total",
				Help: "Result records emitted per extraction strategy",
			},
			[]string{"strategy"},
		),
		RetriesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "mcpsearch_retries_total",
				Help: "Sources retried after an empty first pass",
			},
		),
		ExtractionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mcpsearch_extraction_duration_seconds",
				Help:    "Fetch+parse duration per strategy",
				Buckets: []float64{.01, .05, .1, .5, 1, 2.5, 5, 10, 20},
			},
			[]string{"strategy", "status"},
		),
		CacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mcpsearch_cache_hits_total",
				Help: "Cache hits per source",
			},
			[]string{"source"},
		),
		CacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mcpsearch_cache_misses_total",
				Help: "Cache misses per source",
			},
			[]string{"source"},
		),
		CacheEvictions: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "mcpsearch_cache_evictions_total",
				Help: "Entries evicted for expiry or corruption",
			},
		),
		FetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mcpsearch_fetches_total",
				Help: "Outbound HTTP fetches by outcome",
			},
			[]string{"outcome"},
		),
		FetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mcpsearch_fetch_duration_seconds",
				Help:    "Outbound HTTP fetch duration",
				Buckets: []float64{.01, .05, .1, .5, 1, 2.5, 5, 10, 15},
			},
			[]string{"outcome"},
		),
	}
}

// RecordHTTPRequest records an API request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordSearch records a category search outcome.
func (m *Metrics) RecordSearch(category, outcome string) {
	m.SearchesTotal.WithLabelValues(category, outcome).Inc()
}

// RecordSource records a per-source search outcome.
func (m *Metrics) RecordSource(source, outcome string) {
	m.SourcesSearched.WithLabelValues(source, outcome).Inc()
}

// RecordRetries counts sources sent into a retry pass.
func (m *Metrics) RecordRetries(n int) {
	m.RetriesTotal.Add(float64(n))
}

// RecordExtraction records one strategy run.
func (m *Metrics) RecordExtraction(strategy, status string, records int, duration time.Duration) {
	m.ExtractionDuration.WithLabelValues(strategy, status).Observe(duration.Seconds())
	if records > 0 {
		m.RecordsExtracted.WithLabelValues(strategy).Add(float64(records))
	}
}

// RecordCacheHit records a cache hit for a source.
func (m *Metrics) RecordCacheHit(source string) {
	m.CacheHits.WithLabelValues(source).Inc()
}

// RecordCacheMiss records a cache miss for a source.
func (m *Metrics) RecordCacheMiss(source string) {
	m.CacheMisses.WithLabelValues(source).Inc()
}

// RecordFetch records an outbound fetch outcome.
func (m *Metrics) RecordFetch(outcome string, duration time.Duration) {
	m.FetchesTotal.WithLabelValues(outcome).Inc()
	m.FetchDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// Uptime returns time since metrics creation.
func (m *Metrics) Uptime() time.Duration {
	return time.Since(m.startTime)
}
