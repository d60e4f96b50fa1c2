// Package metrics exposes Prometheus instrumentation for the catalog and the
// HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mvp-joe/project-neo/internal/neo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	catalogRecords = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "neo_catalog_records",
			Help: "Records in the loaded catalog by kind.",
		},
		[]string{"kind"},
	)

	reloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neo_catalog_reloads_total",
			Help: "Catalog reloads by result.",
		},
		[]string{"result"},
	)

	queriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neo_queries_total",
			Help: "Close-approach queries by cache outcome.",
		},
		[]string{"cache"},
	)

	approachesScanned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "neo_query_approaches_scanned_total",
			Help: "Close approaches examined by queries.",
		},
	)

	approachesMatched = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "neo_query_approaches_matched_total",
			Help: "Close approaches returned by queries.",
		},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neo_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "neo_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
)

func init() {
	prometheus.MustRegister(catalogRecords)
	prometheus.MustRegister(reloadsTotal)
	prometheus.MustRegister(queriesTotal)
	prometheus.MustRegister(approachesScanned)
	prometheus.MustRegister(approachesMatched)
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpDurationSeconds)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordCatalog publishes the record counts of a freshly loaded database.
func RecordCatalog(stats neo.Stats) {
	catalogRecords.WithLabelValues("neos").Set(float64(stats.NEOs))
	catalogRecords.WithLabelValues("approaches").Set(float64(stats.Approaches))
	catalogRecords.WithLabelValues("orphans").Set(float64(stats.Orphans))
	catalogRecords.WithLabelValues("duplicates").Set(float64(stats.Duplicates))
}

// RecordReload counts a reload attempt.
func RecordReload(err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	reloadsTotal.WithLabelValues(result).Inc()
}

// RecordQuery counts a query. Scanned and matched are only added for cache
// misses since cached queries do not touch the database.
func RecordQuery(cacheHit bool, scanned, matched int) {
	if cacheHit {
		queriesTotal.WithLabelValues("hit").Inc()
		return
	}
	queriesTotal.WithLabelValues("miss").Inc()
	approachesScanned.Add(float64(scanned))
	approachesMatched.Add(float64(matched))
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration for each request. Requests
// are labelled by route pattern so path parameters do not explode cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(path, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(path, r.Method).Observe(duration)
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
