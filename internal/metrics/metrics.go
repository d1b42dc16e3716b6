// Package metrics exposes prometheus counters for the route guard and the
// session oracle.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Session oracle outcomes.
const (
	OutcomeAuthenticated   = "authenticated"
	OutcomeUnauthenticated = "unauthenticated"
	OutcomeError           = "error"
)

var (
	guardDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "diamond",
			Subsystem: "route_guard",
			Name:      "decisions_total",
			Help:      "Route guard decisions by action.",
		},
		[]string{"action"},
	)
	sessionChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "diamond",
			Subsystem: "session_oracle",
			Name:      "checks_total",
			Help:      "Session status checks against the backend by outcome.",
		},
		[]string{"outcome"},
	)
	sessionLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "diamond",
			Subsystem: "session_oracle",
			Name:      "request_duration_seconds",
			Help:      "Latency of backend session status requests that received a response.",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(guardDecisions, sessionChecks, sessionLatency)
}

func ObserveGuardDecision(action string) {
	guardDecisions.WithLabelValues(action).Inc()
}

func ObserveSessionCheck(outcome string) {
	sessionChecks.WithLabelValues(outcome).Inc()
}

func ObserveSessionLatency(d time.Duration) {
	sessionLatency.Observe(d.Seconds())
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
