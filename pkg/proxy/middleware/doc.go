// Package middleware provides HTTP middleware for cross-cutting concerns.
//
// # Middleware Chain
//
// The gateway wraps its ServeMux as follows (outermost first):
//
//	RouteMiddleware(mux)       matched pattern into the context
//	RecoveryMiddleware         panics become 500 envelopes
//	LoggingMiddleware          one completion line per request
//	RequestIDMiddleware        X-Request-ID, UUID v4 unless supplied
//	tracing.HTTPMiddleware     server span, X-Trace-ID
//	MetricsMiddleware          yaproxy_http_* series
//	CORSMiddleware             CORS headers, preflight
//	TimeoutMiddleware          per-request deadline, 504 envelope
//
// Chain applies a list in that order:
//
//	handler := RouteMiddleware(mux)(Chain(mux,
//	    RecoveryMiddleware,
//	    LoggingMiddleware(logger),
//	    RequestIDMiddleware,
//	))
//
// Each route is additionally wrapped in AllowMethods(http.MethodGet), which
// answers other methods with 405 and the error envelope.
//
// # Route labels
//
// ServeMux records the matched pattern only on the request it dispatches,
// which outer middleware never sees. RouteMiddleware resolves the pattern
// up front with ServeMux.Handler and stores it with logging.WithRoute, so
// logs, metrics and spans share one low-cardinality route label.
//
// # Timeout
//
// TimeoutMiddleware buffers the handler's response. If the deadline passes
// first the handler's context is cancelled, which aborts upstream calls,
// and the client receives 504:
//
//	{"statusCode": 504, "message": "Request timeout: the request took too long to complete", "error": "Gateway Timeout"}
package middleware
