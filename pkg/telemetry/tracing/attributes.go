package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys used on yaproxy spans.
const (
	AttrTrackID   = "yaproxy.track_id"
	AttrUserID    = "yaproxy.user_id"
	AttrRequestID = "yaproxy.request_id"
	AttrEndpoint  = "yaproxy.upstream.endpoint"
	AttrCodec     = "yaproxy.descriptor.codec"
	AttrPreview   = "yaproxy.descriptor.preview"
	AttrFallback  = "yaproxy.descriptor.fallback"
	AttrCount     = "yaproxy.descriptor.count"
	AttrOutcome   = "yaproxy.outcome"
	AttrErrorType = "yaproxy.error.type"

	AttrHTTPMethod = "http.request.method"
	AttrHTTPRoute  = "http.route"
	AttrHTTPStatus = "http.response.status_code"
	AttrURLHost    = "server.address"
)

// SetDescriptorAttributes records which download descriptor was selected.
func SetDescriptorAttributes(span trace.Span, codec string, preview, fallback bool, count int) {
	span.SetAttributes(
		attribute.String(AttrCodec, codec),
		attribute.Bool(AttrPreview, preview),
		attribute.Bool(AttrFallback, fallback),
		attribute.Int(AttrCount, count),
	)
}

// SetOutcome records the final classification of an operation.
func SetOutcome(span trace.Span, outcome string) {
	span.SetAttributes(attribute.String(AttrOutcome, outcome))
}

// SetErrorAttributes records an error and its classification.
func SetErrorAttributes(span trace.Span, err error, errorType string) {
	if err == nil {
		return
	}
	span.SetAttributes(attribute.String(AttrErrorType, errorType))
	SetError(span, err)
}
