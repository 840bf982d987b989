package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	obserrors "github.com/unievents/unievents-api/internal/observability/errors"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultInvalid = "invalid"
	ResultDenied  = "denied"
	ResultAllowed = "allowed"
	ResultLimited = "rate_limited"
)

// Session validation sources.
const (
	SourceCache = "cache"
	SourceStore = "store"
)

// Metrics holds the service collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	loginAttempts      *prometheus.CounterVec
	sessionValidations *prometheus.CounterVec
	cacheDegraded      *prometheus.CounterVec
	authzDecisions     *prometheus.CounterVec
	notifications      *prometheus.CounterVec
	sessionsPurged     prometheus.Counter
	reaperRuns         *prometheus.CounterVec

	httpInFlight        prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// New creates collectors registered on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "unievents_login_attempts_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		sessionValidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "unievents_session_validations_total",
			Help: "Session validations by lookup source and result.",
		}, []string{"source", "result"}),
		cacheDegraded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "unievents_session_cache_degraded_total",
			Help: "Session cache operations that failed and were absorbed.",
		}, []string{"op", "error_class"}),
		authzDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "unievents_authz_decisions_total",
			Help: "Authorization decisions by permission and result.",
		}, []string{"permission", "result"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "unievents_notifications_total",
			Help: "Fire-and-forget notification deliveries by result.",
		}, []string{"result"}),
		sessionsPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "unievents_sessions_purged_total",
			Help: "Expired sessions deleted by the session reaper.",
		}),
		reaperRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "unievents_session_reaper_runs_total",
			Help: "Session reaper runs by result.",
		}, []string{"result"}),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.loginAttempts,
		m.sessionValidations,
		m.cacheDegraded,
		m.authzDecisions,
		m.notifications,
		m.sessionsPurged,
		m.reaperRuns,
		m.httpInFlight,
		m.httpRequestsTotal,
		m.httpRequestDuration,
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// LoginAttempt counts one login attempt.
func (m *Metrics) LoginAttempt(result string) {
	if m == nil {
		return
	}
	m.loginAttempts.WithLabelValues(result).Inc()
}

// SessionValidation counts one session validation.
func (m *Metrics) SessionValidation(source, result string) {
	if m == nil {
		return
	}
	m.sessionValidations.WithLabelValues(source, result).Inc()
}

// CacheDegraded counts a swallowed cache failure.
func (m *Metrics) CacheDegraded(op string, err error) {
	if m == nil {
		return
	}
	class := obserrors.Classify(err)
	if class == "" {
		class = "unknown"
	}
	m.cacheDegraded.WithLabelValues(op, class).Inc()
}

// AuthzDecision counts one permission check.
func (m *Metrics) AuthzDecision(permission string, allowed bool) {
	if m == nil {
		return
	}
	result := ResultDenied
	if allowed {
		result = ResultAllowed
	}
	m.authzDecisions.WithLabelValues(permission, result).Inc()
}

// Notification counts one notification delivery.
func (m *Metrics) Notification(result string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(result).Inc()
}

// SessionsPurged records one reaper run.
func (m *Metrics) SessionsPurged(n int64, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.reaperRuns.WithLabelValues(ResultError).Inc()
		return
	}
	m.reaperRuns.WithLabelValues(ResultSuccess).Inc()
	if n > 0 {
		m.sessionsPurged.Add(float64(n))
	}
}
