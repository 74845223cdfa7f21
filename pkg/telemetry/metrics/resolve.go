package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"yaproxy-hq/yaproxy/pkg/config"
)

// ResolveMetrics tracks download link resolutions.
//
// Metrics:
//   - yaproxy_resolutions_total: resolutions by outcome
//   - yaproxy_resolution_duration_seconds: end-to-end resolution duration
//   - yaproxy_selected_descriptors_total: chosen descriptor codec, and
//     whether the first-descriptor fallback was used
type ResolveMetrics struct {
	resolutions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	selected    *prometheus.CounterVec
}

// NewResolveMetrics creates and registers resolver metrics with the provided registry.
func NewResolveMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ResolveMetrics {
	rm := &ResolveMetrics{
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "resolutions_total",
				Help:      "Total number of download link resolutions by outcome",
			},
			[]string{"outcome"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "resolution_duration_seconds",
				Help:      "Duration of download link resolutions in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"outcome"},
		),

		selected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "selected_descriptors_total",
				Help:      "Descriptors chosen for resolution by codec",
			},
			[]string{"codec", "fallback"},
		),
	}

	registry.MustRegister(
		rm.resolutions,
		rm.duration,
		rm.selected,
	)

	return rm
}

// RecordResolution records one resolution.
func (rm *ResolveMetrics) RecordResolution(outcome, codec string, fallback bool, duration time.Duration) {
	rm.resolutions.WithLabelValues(outcome).Inc()
	rm.duration.WithLabelValues(outcome).Observe(duration.Seconds())
	if codec != "" {
		rm.selected.WithLabelValues(codec, strconv.FormatBool(fallback)).Inc()
	}
}
