// Package metrics holds the Prometheus instruments of the account server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for use-case executions.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure" // anticipated Left result
	OutcomeError   = "error"   // infrastructure fault
)

// Metrics groups the server's instruments. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	operations   *prometheus.CounterVec
	tokensIssued *prometheus.CounterVec
	tokensSwept  prometheus.Counter
	httpDuration *prometheus.HistogramVec
}

// New creates the instruments and registers them with reg.
// Panics if registration fails (following prometheus convention).
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "accountkeeper_operations_total",
			Help: "Use-case executions by operation and outcome",
		}, []string{"operation", "outcome"}),
		tokensIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "accountkeeper_tokens_issued_total",
			Help: "Tokens persisted by kind",
		}, []string{"kind"}),
		tokensSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "accountkeeper_tokens_swept_total",
			Help: "Expired tokens removed by the sweeper",
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "accountkeeper_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(m.operations, m.tokensIssued, m.tokensSwept, m.httpDuration)
	return m
}

func (m *Metrics) RecordOperation(operation, outcome string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) RecordTokenIssued(kind string) {
	if m == nil {
		return
	}
	m.tokensIssued.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordTokensSwept(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.tokensSwept.Add(float64(n))
}

func (m *Metrics) ObserveHTTP(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.httpDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
