package download

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"yaproxy-hq/yaproxy/pkg/telemetry/logging"
	"yaproxy-hq/yaproxy/pkg/telemetry/metrics"
	"yaproxy-hq/yaproxy/pkg/telemetry/tracing"
)

// Client is the subset of the upstream API the resolver needs.
type Client interface {
	// DownloadInfo returns the descriptors for a track.
	DownloadInfo(ctx context.Context, trackID string) ([]Descriptor, error)

	// SigningParams fetches url and decodes the signing parameters.
	SigningParams(ctx context.Context, url string) (*SigningParams, error)
}

// Observer receives a Result after every resolution. Implementations must
// not block.
type Observer interface {
	ObserveResolution(ctx context.Context, result Result)
}

// Options holds the optional collaborators of a Resolver. Every field may be
// left nil.
type Options struct {
	Metrics  *metrics.Collector
	Tracer   *tracing.Tracer
	Observer Observer
	Logger   *slog.Logger
}

// Resolver turns a track ID into a signed download link.
type Resolver struct {
	client   Client
	metrics  *metrics.Collector
	tracer   *tracing.Tracer
	observer Observer
	logger   *slog.Logger
}

// NewResolver creates a resolver backed by client.
func NewResolver(client Client, opts Options) *Resolver {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Resolver{
		client:   client,
		metrics:  opts.Metrics,
		tracer:   opts.Tracer,
		observer: opts.Observer,
		logger:   logger.With("component", "download.resolver"),
	}
}

// Resolve makes at most two upstream calls, in order: the download-info
// lookup and the signing parameters fetch. It returns a *NotFoundError,
// *InvalidResponseError or *UpstreamError on failure.
func (r *Resolver) Resolve(ctx context.Context, trackID string) (*Link, error) {
	start := time.Now()
	ctx = logging.WithTrackID(ctx, trackID)

	ctx, span := r.tracer.Start(ctx, "download.Resolve")
	defer span.End()
	span.SetAttributes(attribute.String(tracing.AttrTrackID, trackID))

	result := Result{TrackID: trackID}
	link, err := r.resolve(ctx, trackID, &result)

	result.Err = err
	result.Outcome = OutcomeOf(err)
	result.Duration = time.Since(start)

	tracing.SetOutcome(span, result.Outcome)
	tracing.SetErrorAttributes(span, err, result.Outcome)
	r.metrics.RecordResolution(result.Outcome, result.Codec, result.Fallback, result.Duration)
	if r.observer != nil {
		r.observer.ObserveResolution(ctx, result)
	}

	if err != nil {
		r.logger.WarnContext(ctx, "track resolution failed",
			"outcome", result.Outcome,
			"duration_ms", result.Duration.Milliseconds(),
			"error", err,
		)
		return nil, err
	}

	r.logger.DebugContext(ctx, "track resolved",
		"codec", result.Codec,
		"fallback", result.Fallback,
		"duration_ms", result.Duration.Milliseconds(),
	)
	return link, nil
}

func (r *Resolver) resolve(ctx context.Context, trackID string, result *Result) (*Link, error) {
	descriptors, err := r.client.DownloadInfo(ctx, trackID)
	if err != nil {
		return nil, &UpstreamError{TrackID: trackID, Step: "download_info", Cause: err}
	}

	selected, fallback, ok := SelectDescriptor(descriptors)
	if !ok {
		return nil, &NotFoundError{TrackID: trackID, Message: MsgDownloadInfoNotFound}
	}
	result.Codec = selected.Codec
	result.Fallback = fallback
	tracing.SetDescriptorAttributes(tracing.SpanFromContext(ctx), selected.Codec, selected.Preview, fallback, len(descriptors))

	if selected.DownloadInfoURL == "" {
		return nil, &NotFoundError{TrackID: trackID, Message: MsgNoDownloadInfoURL}
	}

	params, err := r.client.SigningParams(ctx, SigningURL(selected.DownloadInfoURL))
	if err != nil {
		return nil, &UpstreamError{TrackID: trackID, Step: "signing_params", Cause: err}
	}

	link, err := BuildLink(*params)
	if err != nil {
		if invalid, ok := err.(*InvalidResponseError); ok {
			invalid.TrackID = trackID
		}
		return nil, err
	}
	return link, nil
}
