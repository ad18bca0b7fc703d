// Package metrics owns the Prometheus registry and the counters the service exports.
package metrics

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shoponline"

// Metrics holds all Prometheus metrics. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	cacheHitsTotal   *prometheus.CounterVec
	cacheMissesTotal *prometheus.CounterVec

	authzDecisionsTotal *prometheus.CounterVec
	loginAttemptsTotal  *prometheus.CounterVec

	dbQueriesTotal *prometheus.CounterVec
}

// New creates a private registry with the runtime collectors and every service metric.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		cacheHitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "directory_cache_hits_total",
				Help:      "User directory cache hits",
			},
			[]string{"kind"},
		),
		cacheMissesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "directory_cache_misses_total",
				Help:      "User directory cache misses",
			},
			[]string{"kind"},
		),
		authzDecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "authz_decisions_total",
				Help:      "Access guard decisions",
			},
			[]string{"outcome"},
		),
		loginAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "login_attempts_total",
				Help:      "Login attempts by outcome",
			},
			[]string{"outcome"},
		),
		dbQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "db_queries_total",
				Help:      "Database statements by outcome",
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.cacheHitsTotal,
		m.cacheMissesTotal,
		m.authzDecisionsTotal,
		m.loginAttemptsTotal,
		m.dbQueriesTotal,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}

	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// CacheHit counts a directory lookup served from memory.
func (m *Metrics) CacheHit(kind string) {
	if m == nil {
		return
	}

	m.cacheHitsTotal.WithLabelValues(kind).Inc()
}

// CacheMiss counts a directory lookup that went to the store.
func (m *Metrics) CacheMiss(kind string) {
	if m == nil {
		return
	}

	m.cacheMissesTotal.WithLabelValues(kind).Inc()
}

// AuthzDecision counts one guard outcome: allowed, forbidden or unauthenticated.
func (m *Metrics) AuthzDecision(outcome string) {
	if m == nil {
		return
	}

	m.authzDecisionsTotal.WithLabelValues(outcome).Inc()
}

// LoginAttempt counts one login outcome: success, failure or throttled.
func (m *Metrics) LoginAttempt(outcome string) {
	if m == nil {
		return
	}

	m.loginAttemptsTotal.WithLabelValues(outcome).Inc()
}

// DBQuery counts one statement outcome: ok, slow or error.
func (m *Metrics) DBQuery(outcome string) {
	if m == nil {
		return
	}

	m.dbQueriesTotal.WithLabelValues(outcome).Inc()
}

// RegisterDBStats exports the connection pool statistics of db.
func (m *Metrics) RegisterDBStats(db *sql.DB, name string) error {
	if m == nil {
		return nil
	}

	return m.registry.Register(collectors.NewDBStatsCollector(db, name))
}
