package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROMETHEUS METRICS
// ══════════════════════════════════════════════════════════════════════════════

// Metrics holds the Prometheus collectors for the HTTP layer. Analytics
// queries are recomputed on every request, so request duration is the
// primary signal for how expensive the scoring pipeline is in practice.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	degradedResponses *prometheus.CounterVec
	inFlight          prometheus.Gauge
}

// NewMetrics creates and registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "insight",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests by route and status code.",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "insight",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency, including the analytics recomputation.",
				Buckets:   []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),
		degradedResponses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "insight",
				Subsystem: "analytics",
				Name:      "degraded_responses_total",
				Help:      "Responses computed without the full input data set.",
			},
			[]string{"route"},
		),
		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "insight",
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Number of HTTP requests currently being served.",
			},
		),
	}

	registry.MustRegister(m.requestsTotal, m.requestDuration, m.degradedResponses, m.inFlight)
	return m
}

// Handler returns the metrics exposition handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// ObserveRequest records one finished request.
func (m *Metrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveDegraded records a response served from partial input data.
func (m *Metrics) ObserveDegraded(route string) {
	m.degradedResponses.WithLabelValues(route).Inc()
}

// ══════════════════════════════════════════════════════════════════════════════
// METRICS MIDDLEWARE
// ══════════════════════════════════════════════════════════════════════════════

// metricsMiddleware records request counts and latency. Route labels
// use the registered pattern, not the raw path, to keep cardinality
// bounded under arbitrary path segments.
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.metrics == nil {
			next.ServeHTTP(w, r)
			return
		}

		s.metrics.inFlight.Inc()
		defer s.metrics.inFlight.Dec()

		_, route := s.router.Handler(r)
		if route == "" {
			route = "unmatched"
		}

		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		s.metrics.ObserveRequest(r.Method, route, rw.statusCode, time.Since(start))
	})
}
