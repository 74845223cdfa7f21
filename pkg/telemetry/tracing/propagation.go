package tracing

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"yaproxy-hq/yaproxy/pkg/telemetry/logging"
)

// Propagator returns the global text map propagator.
func Propagator() propagation.TextMapPropagator {
	return otel.GetTextMapPropagator()
}

// Extract extracts W3C trace context from HTTP headers.
func Extract(ctx context.Context, headers http.Header) context.Context {
	return Propagator().Extract(ctx, propagation.HeaderCarrier(headers))
}

// Inject injects the trace context of ctx into HTTP headers.
// Yandex Music ignores these headers; they matter when a tracing proxy sits
// in front of the API.
func Inject(ctx context.Context, headers http.Header) {
	Propagator().Inject(ctx, propagation.HeaderCarrier(headers))
}

// HTTPMiddleware extracts inbound trace context, starts a server span for
// each request, and exposes the trace ID both in the X-Trace-ID response
// header and in the logging context. The span is named after the route
// pattern stored by the route middleware, falling back to the method.
func HTTPMiddleware(tracer *Tracer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := Extract(r.Context(), r.Header)

			name := r.Method
			attrs := []attribute.KeyValue{attribute.String(AttrHTTPMethod, r.Method)}
			if route := logging.GetRoute(ctx); route != "" {
				name = route
				attrs = append(attrs, attribute.String(AttrHTTPRoute, route))
			}

			ctx, span := tracer.Start(ctx, name,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(attrs...),
			)
			defer span.End()

			if traceID := TraceID(ctx); traceID != "" {
				w.Header().Set("X-Trace-ID", traceID)
				ctx = logging.WithTraceID(ctx, traceID)
			}
			if requestID := logging.GetRequestID(ctx); requestID != "" {
				span.SetAttributes(attribute.String(AttrRequestID, requestID))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
