package download

import (
	"errors"
	"fmt"
)

// Messages carried by the resolver errors. They are returned to gateway
// callers unchanged.
const (
	MsgDownloadInfoNotFound = "Track download information not found"
	MsgNoDownloadInfoURL    = "No valid downloadInfoUrl found"
	MsgInvalidSigningParams = "Invalid response from downloadInfoUrl"
	MsgUpstreamFailure      = "Error fetching track download link"
)

// NotFoundError means the track has no usable download descriptor.
type NotFoundError struct {
	// TrackID is the requested track
	TrackID string

	// Message is safe to return to the caller
	Message string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return e.Message
}

// InvalidResponseError means the signing parameters were incomplete.
type InvalidResponseError struct {
	// TrackID is the requested track
	TrackID string

	// Missing lists the empty signing fields
	Missing []string

	// Message is safe to return to the caller
	Message string
}

// Error implements the error interface.
func (e *InvalidResponseError) Error() string {
	return e.Message
}

// UpstreamError wraps a transport, status or decoding failure from either
// upstream call.
type UpstreamError struct {
	// TrackID is the requested track
	TrackID string

	// Step is "download_info" or "signing_params"
	Step string

	// Cause is the underlying client error
	Cause error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("resolve track %q: %s: %v", e.TrackID, e.Step, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// OutcomeOf maps a Resolve error to its outcome label.
func OutcomeOf(err error) string {
	var notFound *NotFoundError
	var invalid *InvalidResponseError

	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.As(err, &notFound):
		return OutcomeNotFound
	case errors.As(err, &invalid):
		return OutcomeInvalidResponse
	default:
		return OutcomeUpstreamError
	}
}
