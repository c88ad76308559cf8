package account

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	svctwofactor "github.com/boardly/boardly/svc/twofactor"
)

// Metrics are the Prometheus collectors of the account routes.
type Metrics struct {
	requests      *prometheus.HistogramVec
	logins        *prometheus.CounterVec
	verifications *prometheus.CounterVec
	codeThrottled prometheus.Counter
}

// NewMetrics registers the collectors with reg. A nil reg keeps them
// unregistered, which is what tests want.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "boardly",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of account HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "boardly",
			Name:      "logins_total",
			Help:      "Sign-in attempts by provider and result.",
		}, []string{"provider", "result"}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "boardly",
			Subsystem: "twofactor",
			Name:      "verifications_total",
			Help:      "Two-factor code checks by method and result.",
		}, []string{"method", "result"}),
		codeThrottled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "boardly",
			Subsystem: "twofactor",
			Name:      "throttled_total",
			Help:      "Code submissions refused by the route rate limit.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.logins, m.verifications, m.codeThrottled)
	}
	return m
}

// Instrument records request durations labelled by the chi route pattern, so
// path parameters do not explode the label space.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) login(provider, result string) {
	m.logins.WithLabelValues(provider, result).Inc()
}

func (m *Metrics) verification(method string, err error) {
	result := "success"
	switch {
	case err == nil:
	case errors.Is(err, svctwofactor.ErrInvalidCode):
		result = "invalid"
	case errors.Is(err, svctwofactor.ErrTooManyAttempts):
		result = "throttled"
	default:
		result = "error"
	}
	m.verifications.WithLabelValues(method, result).Inc()
}
