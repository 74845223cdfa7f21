package logging

import (
	"context"
)

// Context keys for common log fields.
type contextKey string

const (
	// RequestIDKey is the context key for request IDs.
	RequestIDKey contextKey = "request_id"

	// TrackIDKey is the context key for the track being served.
	TrackIDKey contextKey = "track_id"

	// TraceIDKey is the context key for trace IDs.
	TraceIDKey contextKey = "trace_id"

	// RouteKey is the context key for the matched route pattern.
	RouteKey contextKey = "route"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithTrackID adds a track identifier to the context.
func WithTrackID(ctx context.Context, trackID string) context.Context {
	return context.WithValue(ctx, TrackIDKey, trackID)
}

// GetTrackID retrieves the track identifier from the context.
func GetTrackID(ctx context.Context) string {
	if trackID, ok := ctx.Value(TrackIDKey).(string); ok {
		return trackID
	}
	return ""
}

// WithTraceID adds a trace ID to the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
func GetTraceID(ctx context.Context) string {
	if traceID, ok := ctx.Value(TraceIDKey).(string); ok {
		return traceID
	}
	return ""
}

// WithRoute adds the matched route pattern to the context.
func WithRoute(ctx context.Context, pattern string) context.Context {
	return context.WithValue(ctx, RouteKey, pattern)
}

// GetRoute retrieves the matched route pattern from the context.
func GetRoute(ctx context.Context) string {
	if pattern, ok := ctx.Value(RouteKey).(string); ok {
		return pattern
	}
	return ""
}

// extractContextFields extracts common fields from context for logging.
func extractContextFields(ctx context.Context) []any {
	var fields []any

	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, "request_id", requestID)
	}
	if trackID := GetTrackID(ctx); trackID != "" {
		fields = append(fields, "track_id", trackID)
	}
	if traceID := GetTraceID(ctx); traceID != "" {
		fields = append(fields, "trace_id", traceID)
	}

	return fields
}
