// Package telemetry exposes Prometheus metrics for cohort caching, the HTTP
// API and imports.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ultimetrics"

// Metrics owns a private registry so tests and multiple servers never collide
// on the default one.
type Metrics struct {
	registry *prometheus.Registry

	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	importRows *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}
	auto := promauto.With(m.registry)

	m.cacheHits = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cohort",
		Name:      "cache_hits_total",
		Help:      "Cohort lookups served from cache",
	}, []string{"key"})
	m.cacheMisses = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cohort",
		Name:      "cache_misses_total",
		Help:      "Cohort lookups that recomputed from storage",
	}, []string{"key"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route and status code",
	}, []string{"method", "route", "status"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	m.importRows = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "import",
		Name:      "rows_total",
		Help:      "Imported CSV rows by kind (roster, events) and outcome (inserted, skipped)",
	}, []string{"kind", "outcome"})

	return m
}

// CacheHit implements cohort.Observer.
func (m *Metrics) CacheHit(key string) { m.cacheHits.WithLabelValues(key).Inc() }

// CacheMiss implements cohort.Observer.
func (m *Metrics) CacheMiss(key string) { m.cacheMisses.WithLabelValues(key).Inc() }

// ObserveHTTP records one finished request.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route).Observe(d.Seconds())
}

// ImportRows records the outcome of one import run.
func (m *Metrics) ImportRows(kind string, inserted, skipped int) {
	m.importRows.WithLabelValues(kind, "inserted").Add(float64(inserted))
	m.importRows.WithLabelValues(kind, "skipped").Add(float64(skipped))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
