package gateway

import (
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks gateway-level counters. Atomic counters back the /status
// snapshot; the same events feed a private Prometheus registry served at
// /metrics.
type Metrics struct {
	sessions atomic.Int64
	stakes   atomic.Int64
	queries  atomic.Int64
	errors   atomic.Int64

	registry     *prometheus.Registry
	promSessions prometheus.Counter
	promStakes   prometheus.Counter
	promQueries  prometheus.Counter
	promErrors   prometheus.Counter
}

// NewMetrics creates a Metrics with its Prometheus collectors registered.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		promSessions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stakeboard_sessions_issued_total",
			Help: "Session tokens issued or renewed.",
		}),
		promStakes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stakeboard_stakes_recorded_total",
			Help: "Stakes accepted by the leaderboard.",
		}),
		promQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stakeboard_highstakes_queries_total",
			Help: "High-stakes leaderboard reads.",
		}),
		promErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stakeboard_request_errors_total",
			Help: "Requests rejected with a client or server error.",
		}),
	}
	m.registry.MustRegister(m.promSessions, m.promStakes, m.promQueries, m.promErrors)
	return m
}

// RecordSession records a session token handed out.
func (m *Metrics) RecordSession() {
	m.sessions.Add(1)
	m.promSessions.Inc()
}

// RecordStake records an accepted stake.
func (m *Metrics) RecordStake() {
	m.stakes.Add(1)
	m.promStakes.Inc()
}

// RecordQuery records a leaderboard read.
func (m *Metrics) RecordQuery() {
	m.queries.Add(1)
	m.promQueries.Inc()
}

// RecordError records a rejected request.
func (m *Metrics) RecordError() {
	m.errors.Add(1)
	m.promErrors.Inc()
}

// RegisterSessionGauge exposes the live session count as a gauge. Called
// once the session store is resolved at Start().
func (m *Metrics) RegisterSessionGauge(count func() float64) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "stakeboard_sessions_active",
		Help: "Sessions currently stored, expired-but-unswept included.",
	}, count))
}

// Handler serves the Prometheus exposition format for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Snapshot returns a consistent point-in-time view of the counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Sessions: m.sessions.Load(),
		Stakes:   m.stakes.Load(),
		Queries:  m.queries.Load(),
		Errors:   m.errors.Load(),
	}
}

// MetricsSnapshot is a serializable point-in-time metrics view.
type MetricsSnapshot struct {
	Sessions int64 `json:"sessions_issued"`
	Stakes   int64 `json:"stakes_recorded"`
	Queries  int64 `json:"highstakes_queries"`
	Errors   int64 `json:"request_errors"`
}
