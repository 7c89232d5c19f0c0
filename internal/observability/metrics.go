package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects Prometheus metrics for the application.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	reconcileTotal     *prometheus.CounterVec
	driftDetectedTotal prometheus.Counter
	negativeStockTotal prometheus.Counter
}

// NewMetrics initialises the registry and base metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shoplite_http_requests_total",
		Help: "Number of HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shoplite_http_request_duration_seconds",
		Help:    "HTTP request duration per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	reconcile := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shoplite_stock_reconcile_total",
		Help: "Stock reconcile operations by outcome.",
	}, []string{"outcome"})
	drift := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shoplite_stock_drift_detected_total",
		Help: "Diagnostics runs that found cached stock differing from calculated stock.",
	})
	negative := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shoplite_stock_negative_calculated_total",
		Help: "Reconcile or diagnostics runs whose calculated stock was negative.",
	})
	registry.MustRegister(requests, duration, reconcile, drift, negative)
	return &Metrics{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:      requests,
		requestDuration:    duration,
		reconcileTotal:     reconcile,
		driftDetectedTotal: drift,
		negativeStockTotal: negative,
	}
}

// Handler returns the http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records metrics for each HTTP request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// ObserveReconcile counts one reconcile operation by outcome ("synced" or "failed").
func (m *Metrics) ObserveReconcile(outcome string) {
	if m == nil {
		return
	}
	m.reconcileTotal.WithLabelValues(outcome).Inc()
}

// ObserveDrift counts a diagnostics run that detected drift.
func (m *Metrics) ObserveDrift() {
	if m == nil {
		return
	}
	m.driftDetectedTotal.Inc()
}

// ObserveNegativeStock counts a calculation that produced a negative total.
func (m *Metrics) ObserveNegativeStock() {
	if m == nil {
		return
	}
	m.negativeStockTotal.Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
