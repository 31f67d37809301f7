package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and the
// scheduling engine.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	conflictChecks     *prometheus.CounterVec
	conflictDuration   prometheus.Observer
	suggestionDuration prometheus.Observer
	suggestionResults  prometheus.Observer

	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	conflictChecks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_conflict_checks_total",
		Help: "Total conflict detection calls by outcome",
	}, []string{"outcome"})

	conflictDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_conflict_check_seconds",
		Help:    "Duration of conflict detection calls",
		Buckets: prometheus.DefBuckets,
	})

	suggestionDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_suggestion_seconds",
		Help:    "Duration of slot suggestion calls",
		Buckets: prometheus.DefBuckets,
	})

	suggestionResults := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_suggestion_results",
		Help:    "Number of suggestions returned per call",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "suggestion_cache_hits_total",
		Help: "Total suggestion cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "suggestion_cache_misses_total",
		Help: "Total suggestion cache misses",
	})

	registry.MustRegister(requestDuration, requestTotal, conflictChecks, conflictDuration, suggestionDuration, suggestionResults, cacheHits, cacheMisses)

	return &MetricsService{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		conflictChecks:     conflictChecks,
		conflictDuration:   conflictDuration,
		suggestionDuration: suggestionDuration,
		suggestionResults:  suggestionResults,
		cacheHits:          cacheHits,
		cacheMisses:        cacheMisses,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (m *MetricsService) Handler() http.Handler {
	return m.handler
}

// ObserveHTTPRequest records one served request.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := []string{method, path, strconv.Itoa(status)}
	m.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(labels...).Inc()
}

// ObserveConflictCheck records one detection call and whether it blocked.
func (m *MetricsService) ObserveConflictCheck(duration time.Duration, blocking bool) {
	outcome := "clear"
	if blocking {
		outcome = "blocking"
	}
	m.conflictChecks.WithLabelValues(outcome).Inc()
	m.conflictDuration.Observe(duration.Seconds())
}

// ObserveSuggestion records one recommendation call.
func (m *MetricsService) ObserveSuggestion(duration time.Duration, results int) {
	m.suggestionDuration.Observe(duration.Seconds())
	m.suggestionResults.Observe(float64(results))
}

// ObserveCacheLookup records a suggestion cache hit or miss.
func (m *MetricsService) ObserveCacheLookup(hit bool) {
	if hit {
		m.cacheHits.Inc()
		return
	}
	m.cacheMisses.Inc()
}
