// Package tracing provides OpenTelemetry distributed tracing for yaproxy.
//
// When enabled, spans are exported over OTLP/gRPC and sampled with a
// parent-based trace ID ratio sampler. When disabled, Noop returns a tracer
// whose spans cost almost nothing, so callers never branch on configuration.
//
// Span layout for a download request:
//
//	GET /yandex-music/track/{trackId}/download   (server, HTTPMiddleware)
//	└── download.Resolve                         (resolver)
//	    ├── yandex.download_info                 (client)
//	    └── yandex.signing_params                (client)
package tracing
