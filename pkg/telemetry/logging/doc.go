// Package logging provides structured logging with credential redaction.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - JSON or text output at a configurable level
//   - Redaction of OAuth tokens and other credentials
//   - Request-scoped fields (request_id, track_id, trace_id) taken from the context
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:         "info",
//	    Format:        "json",
//	    RedactSecrets: true,
//	    Secrets:       []string{cfg.Upstream.Token},
//	})
//	slog.SetDefault(logger)
//
//	ctx = logging.WithRequestID(ctx, "req-123")
//	slog.InfoContext(ctx, "resolving link")  // includes request_id
//
// # Redaction
//
// When RedactSecrets is enabled:
//
//   - "OAuth y0_AgAAAA..." becomes "OAuth ***"
//   - attributes whose key mentions token, secret or authorization keep only
//     a four character prefix
//   - any literal listed in Secrets is replaced wherever it appears
package logging
