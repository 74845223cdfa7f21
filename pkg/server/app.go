package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"yaproxy-hq/yaproxy/pkg/config"
	"yaproxy-hq/yaproxy/pkg/download"
	"yaproxy-hq/yaproxy/pkg/history"
	"yaproxy-hq/yaproxy/pkg/history/recorder"
	"yaproxy-hq/yaproxy/pkg/history/retention"
	"yaproxy-hq/yaproxy/pkg/history/storage"
	"yaproxy-hq/yaproxy/pkg/telemetry"
	"yaproxy-hq/yaproxy/pkg/yandex"
)

// Health check names registered by NewApp.
const (
	CheckUpstream = "upstream"
	CheckHistory  = "history"
)

// App wires the upstream client, resolver, history log and gateway from one
// configuration.
type App struct {
	Config    *config.Config
	Telemetry *telemetry.Telemetry
	Client    *yandex.Client
	Resolver  *download.Resolver
	Server    *Server

	// History fields are nil when history is disabled.
	Store     history.Storage
	Recorder  *recorder.Recorder
	Pruner    *retention.Pruner
	Scheduler *retention.Scheduler

	logger *slog.Logger
}

// NewApp builds every component but starts nothing.
func NewApp(cfg *config.Config, tel *telemetry.Telemetry) (*App, error) {
	logger := tel.Logger

	client := yandex.New(&cfg.Upstream, yandex.Options{
		Metrics: tel.Metrics,
		Tracer:  tel.Tracer,
		Logger:  logger,
	})

	app := &App{
		Config:    cfg,
		Telemetry: tel,
		Client:    client,
		logger:    logger.With("component", "app"),
	}

	resolverOpts := download.Options{
		Metrics: tel.Metrics,
		Tracer:  tel.Tracer,
		Logger:  logger,
	}

	if cfg.History.Enabled {
		store, err := storage.New(&cfg.History, logger)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to open history storage: %w", err)
		}
		app.Store = store
		app.Recorder = recorder.New(store, &recorder.Config{BufferSize: cfg.History.BufferSize}, tel.Metrics, logger)
		app.Pruner = retention.NewPruner(store, cfg.History.Retention.Days, tel.Metrics, logger)
		app.Scheduler = retention.NewScheduler(app.Pruner, cfg.History.Retention.Schedule, logger)
		resolverOpts.Observer = app.Recorder
	}

	app.Resolver = download.NewResolver(client, resolverOpts)

	deps := Dependencies{
		Upstream:  client,
		Resolver:  app.Resolver,
		Telemetry: tel,
	}
	if app.Store != nil {
		deps.History = app.Store
	}
	app.Server = NewServer(cfg, deps)

	if tel.Health != nil {
		tel.Health.RegisterCheck(CheckUpstream, client.Ready(cfg.Telemetry.Health.ProbeUpstream))
		if app.Store != nil {
			tel.Health.RegisterCheck(CheckHistory, app.Store.Ping)
		}
	}

	return app, nil
}

// Run starts the retention scheduler and serves until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a.Scheduler != nil {
		if err := a.Scheduler.Start(ctx); err != nil {
			return err
		}
	}
	return a.Server.Start(ctx)
}

// Close stops background work and releases resources in dependency order:
// scheduler, recorder (flushing queued records), storage, client, telemetry.
func (a *App) Close(ctx context.Context) error {
	var errs []error

	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	if a.Recorder != nil {
		errs = append(errs, a.Recorder.Close())
	}
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	a.Client.Close()
	errs = append(errs, a.Telemetry.Shutdown(ctx))

	return errors.Join(errs...)
}
