package yandex

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// AuthError means the upstream rejected the OAuth token (HTTP 401 or 403).
type AuthError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return fmt.Sprintf("yandex %s: authentication failed (status %d): %s", e.Endpoint, e.StatusCode, e.Message)
}

// NotFoundError means the upstream answered 404.
type NotFoundError struct {
	Endpoint string
	Message  string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("yandex %s: not found: %s", e.Endpoint, e.Message)
}

// RateLimitError means the upstream answered 429.
type RateLimitError struct {
	Endpoint string

	// RetryAfter is the duration to wait before retrying (if provided)
	RetryAfter time.Duration

	Message string
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("yandex %s: rate limit exceeded (retry after %s): %s", e.Endpoint, e.RetryAfter, e.Message)
	}
	return fmt.Sprintf("yandex %s: rate limit exceeded: %s", e.Endpoint, e.Message)
}

// UpstreamError covers every other non-2xx status and transport failures.
// StatusCode is 0 when no response was received.
type UpstreamError struct {
	Endpoint   string
	StatusCode int
	Body       string
	Cause      error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("yandex %s: unexpected status %d: %s", e.Endpoint, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("yandex %s: request failed: %v", e.Endpoint, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// ParseError means a 2xx body could not be decoded.
type ParseError struct {
	Endpoint    string
	RawResponse string
	Cause       error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("yandex %s: response parse error: %v", e.Endpoint, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ErrorType classifies err for metrics and span attributes. It returns an
// empty string for nil.
func ErrorType(err error) string {
	if err == nil {
		return ""
	}

	var authErr *AuthError
	var notFound *NotFoundError
	var rateLimit *RateLimitError
	var parseErr *ParseError
	var upstream *UpstreamError
	var netErr net.Error

	switch {
	case errors.As(err, &authErr):
		return "auth"
	case errors.As(err, &notFound):
		return "not_found"
	case errors.As(err, &rateLimit):
		return "rate_limit"
	case errors.As(err, &parseErr):
		return "parse"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.As(err, &netErr) && netErr.Timeout():
		return "timeout"
	case errors.As(err, &upstream) && upstream.StatusCode >= 500:
		return "server_error"
	case errors.As(err, &upstream) && upstream.StatusCode > 0:
		return "client_error"
	default:
		return "network"
	}
}

// StatusCode returns the upstream HTTP status carried by err, or 0 when no
// response was received or the body could not be parsed.
func StatusCode(err error) int {
	var authErr *AuthError
	var notFound *NotFoundError
	var rateLimit *RateLimitError
	var upstream *UpstreamError

	switch {
	case errors.As(err, &authErr):
		return authErr.StatusCode
	case errors.As(err, &notFound):
		return 404
	case errors.As(err, &rateLimit):
		return 429
	case errors.As(err, &upstream):
		return upstream.StatusCode
	default:
		return 0
	}
}

// CauseMessage describes err without endpoint or body details:
// "Request failed with status code N" for HTTP failures, otherwise the
// innermost cause.
func CauseMessage(err error) string {
	if err == nil {
		return ""
	}
	if code := StatusCode(err); code > 0 {
		return fmt.Sprintf("Request failed with status code %d", code)
	}
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
