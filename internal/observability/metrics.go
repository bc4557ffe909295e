package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the gateway's Prometheus collectors.
type Metrics struct {
	requests       *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	errors         *prometheus.CounterVec
	guard          *prometheus.CounterVec
	auth           *prometheus.CounterVec
	backendCalls   *prometheus.CounterVec
}

// NewMetrics builds the collectors and registers them with reg. A nil reg skips registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_http_requests_total",
			Help: "HTTP requests served by the gateway.",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_http_request_duration_seconds",
			Help:    "Latency of gateway HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_http_errors_total",
			Help: "Error responses by code.",
		}, []string{"method", "route", "code"}),
		guard: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_guard_decisions_total",
			Help: "Route guard decisions by route and outcome.",
		}, []string{"route", "decision"}),
		auth: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_auth_attempts_total",
			Help: "Login and registration attempts by outcome.",
		}, []string{"operation", "outcome"}),
		backendCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_backend_calls_total",
			Help: "Calls made to the Medisure backend by method and status class.",
		}, []string{"method", "status"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.requestLatency, m.errors, m.guard, m.auth, m.backendCalls)
	}
	return m
}

// RecordRequest counts a served request.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordError counts an error response.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(method, route, code).Inc()
}

// RecordGuardDecision counts a route guard outcome.
func (m *Metrics) RecordGuardDecision(route, decision string) {
	if m == nil {
		return
	}
	m.guard.WithLabelValues(route, decision).Inc()
}

// RecordAuth counts a login or registration outcome.
func (m *Metrics) RecordAuth(operation string, success bool) {
	if m == nil {
		return
	}
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.auth.WithLabelValues(operation, outcome).Inc()
}

// RecordBackendCall counts a backend round trip. status 0 means a transport failure.
func (m *Metrics) RecordBackendCall(method string, status int) {
	if m == nil {
		return
	}
	class := "transport_error"
	if status > 0 {
		class = strconv.Itoa(status/100) + "xx"
	}
	m.backendCalls.WithLabelValues(method, class).Inc()
}
