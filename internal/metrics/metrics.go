// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for auth events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// HTTPRequests counts handled requests by method, route template and status.
var HTTPRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "linkbio_http_requests_total",
		Help: "Total number of HTTP requests handled",
	},
	[]string{"method", "route", "status"},
)

// HTTPDuration is the histogram for request latency.
var HTTPDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "linkbio_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// AuthEvents counts auth lifecycle operations (register, login, refresh, ...)
// by outcome.
var AuthEvents = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "linkbio_auth_events_total",
		Help: "Total number of auth operations by outcome",
	},
	[]string{"event", "outcome"},
)

// LinkClicks counts tracked link clicks.
var LinkClicks = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "linkbio_link_clicks_total",
		Help: "Total number of tracked link clicks",
	},
)

// RegisterMetrics registers all collectors with the given registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(HTTPRequests)
	reg.MustRegister(HTTPDuration)
	reg.MustRegister(AuthEvents)
	reg.MustRegister(LinkClicks)
}

// RecordRequest records one handled HTTP request.
func RecordRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordAuthEvent increments the auth event counter. err == nil counts as success.
func RecordAuthEvent(event string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	AuthEvents.WithLabelValues(event, outcome).Inc()
}

// RecordLinkClick increments the click counter.
func RecordLinkClick() {
	LinkClicks.Inc()
}
