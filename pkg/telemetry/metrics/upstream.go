package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"yaproxy-hq/yaproxy/pkg/config"
)

// UpstreamMetrics tracks calls to the Yandex Music API.
//
// Metrics:
//   - yaproxy_upstream_requests_total: calls by endpoint and outcome
//   - yaproxy_upstream_latency_seconds: call latency by endpoint
//   - yaproxy_upstream_errors_total: failures by endpoint and error type
//   - yaproxy_upstream_healthy: 1 when the client considers the API healthy
type UpstreamMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	errors   *prometheus.CounterVec
	health   prometheus.Gauge
}

// NewUpstreamMetrics creates and registers upstream metrics with the provided registry.
func NewUpstreamMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *UpstreamMetrics {
	um := &UpstreamMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "upstream",
				Name:      "requests_total",
				Help:      "Total number of calls to the Yandex Music API",
			},
			[]string{"endpoint", "outcome"},
		),

		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "upstream",
				Name:      "latency_seconds",
				Help:      "Yandex Music API call latency in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"endpoint"},
		),

		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "upstream",
				Name:      "errors_total",
				Help:      "Total number of Yandex Music API errors by type",
			},
			[]string{"endpoint", "error_type"},
		),

		health: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: "upstream",
				Name:      "healthy",
				Help:      "Upstream health status (1=healthy, 0=unhealthy)",
			},
		),
	}

	registry.MustRegister(
		um.requests,
		um.latency,
		um.errors,
		um.health,
	)

	// Start optimistic, matching the client.
	um.health.Set(1)

	return um
}

// RecordCall records one upstream call.
func (um *UpstreamMetrics) RecordCall(endpoint, errorType string, duration time.Duration) {
	outcome := "success"
	if errorType != "" {
		outcome = "error"
		um.errors.WithLabelValues(endpoint, errorType).Inc()
	}
	um.requests.WithLabelValues(endpoint, outcome).Inc()
	um.latency.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// UpdateHealth sets the health gauge.
func (um *UpstreamMetrics) UpdateHealth(healthy bool) {
	value := 0.0
	if healthy {
		value = 1.0
	}
	um.health.Set(value)
}
