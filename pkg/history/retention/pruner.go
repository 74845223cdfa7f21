package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"yaproxy-hq/yaproxy/pkg/history"
	"yaproxy-hq/yaproxy/pkg/telemetry/metrics"
)

// Pruner deletes history records older than the retention period.
type Pruner struct {
	storage history.Storage
	days    int
	metrics *metrics.Collector
	logger  *slog.Logger
	now     func() time.Time
}

// NewPruner creates a pruner keeping days of history. days <= 0 keeps
// records forever. collector and logger may be nil.
func NewPruner(storage history.Storage, days int, collector *metrics.Collector, logger *slog.Logger) *Pruner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pruner{
		storage: storage,
		days:    days,
		metrics: collector,
		logger:  logger.With("component", "history.retention"),
		now:     time.Now,
	}
}

// Cutoff returns the creation time before which records are pruned.
func (p *Pruner) Cutoff() time.Time {
	return p.now().UTC().AddDate(0, 0, -p.days)
}

// Prune deletes expired records and returns how many were removed.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	if p.days <= 0 {
		return 0, nil
	}

	cutoff := p.Cutoff()
	deleted, err := p.storage.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune history older than %s: %w", cutoff.Format(time.RFC3339), err)
	}

	p.metrics.RecordHistoryPruned(deleted)

	if deleted > 0 {
		p.logger.Info("history pruned",
			"deleted_count", deleted,
			"retention_days", p.days,
		)
	} else {
		p.logger.Debug("no history records pruned", "retention_days", p.days)
	}

	return deleted, nil
}
