// Package telemetry bundles the observability components of yaproxy.
//
// # Components
//
//   - logging: structured slog logging with token redaction
//   - metrics: Prometheus metrics on a dedicated registry
//   - tracing: OpenTelemetry spans exported over OTLP
//   - health: liveness and readiness probes
//
// # Usage
//
//	tel, err := telemetry.New(&cfg.Telemetry, telemetry.Options{
//	    Version: version,
//	    Secrets: []string{cfg.Upstream.Token},
//	})
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(ctx)
//
//	tel.Logger.Info("starting")
//	ctx, span := tel.Tracer.Start(ctx, "operation")
//	defer span.End()
//
// The configured OAuth token is passed as a secret so it is masked wherever
// it appears in a log record.
package telemetry
