package telemetry

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"yaproxy-hq/yaproxy/pkg/config"
	"yaproxy-hq/yaproxy/pkg/telemetry/health"
	"yaproxy-hq/yaproxy/pkg/telemetry/logging"
	"yaproxy-hq/yaproxy/pkg/telemetry/metrics"
	"yaproxy-hq/yaproxy/pkg/telemetry/tracing"
)

// Options carries values that are not part of the telemetry configuration.
type Options struct {
	// Version is reported by the health endpoints
	Version string

	// Secrets are masked in every log record
	Secrets []string

	// LogWriter overrides the log destination (defaults to stdout)
	LogWriter io.Writer
}

// Telemetry groups the logger, metrics collector, tracer and health checker
// built from one configuration.
type Telemetry struct {
	Logger  *slog.Logger
	Metrics *metrics.Collector
	Tracer  *tracing.Tracer
	Health  *health.Checker

	level *slog.LevelVar
}

// New builds every telemetry component. Metrics are registered on a fresh
// registry so that repeated construction in tests never collides.
func New(cfg *config.TelemetryConfig, opts Options) (*Telemetry, error) {
	level := new(slog.LevelVar)
	logger, err := logging.New(logging.Config{
		Level:         cfg.Logging.Level,
		Format:        cfg.Logging.Format,
		AddSource:     cfg.Logging.AddSource,
		RedactSecrets: cfg.Logging.RedactSecrets,
		Secrets:       opts.Secrets,
		Writer:        opts.LogWriter,
		LevelVar:      level,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	tracer, err := tracing.New(&cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Metrics, prometheus.NewRegistry())
	}

	return &Telemetry{
		Logger:  logger,
		Metrics: collector,
		Tracer:  tracer,
		Health:  health.New(cfg.Health.CheckTimeout, opts.Version),
		level:   level,
	}, nil
}

// SetLogLevel changes the level of Logger and every logger derived from it.
func (t *Telemetry) SetLogLevel(level string) error {
	l, err := logging.ParseLevel(level)
	if err != nil {
		return err
	}
	t.level.Set(l)
	return nil
}

// Shutdown flushes pending spans.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	return t.Tracer.Shutdown(ctx)
}
