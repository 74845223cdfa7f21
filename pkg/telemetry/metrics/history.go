package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"yaproxy-hq/yaproxy/pkg/config"
)

// HistoryMetrics tracks the resolution history log.
//
// Metrics:
//   - yaproxy_history_writes_total: record writes by result (stored, dropped, failed)
//   - yaproxy_history_pruned_total: records removed by retention
type HistoryMetrics struct {
	writes *prometheus.CounterVec
	pruned prometheus.Counter
}

// NewHistoryMetrics creates and registers history metrics with the provided registry.
func NewHistoryMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *HistoryMetrics {
	hm := &HistoryMetrics{
		writes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "history",
				Name:      "writes_total",
				Help:      "Total number of history record writes by result",
			},
			[]string{"result"},
		),

		pruned: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "history",
				Name:      "pruned_total",
				Help:      "Total number of history records removed by retention",
			},
		),
	}

	registry.MustRegister(hm.writes, hm.pruned)

	return hm
}

// RecordWrite records one write attempt.
func (hm *HistoryMetrics) RecordWrite(result string) {
	hm.writes.WithLabelValues(result).Inc()
}

// RecordPruned adds n to the pruned counter.
func (hm *HistoryMetrics) RecordPruned(n int64) {
	if n > 0 {
		hm.pruned.Add(float64(n))
	}
}
