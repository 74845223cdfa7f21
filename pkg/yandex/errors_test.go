package yandex

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestStatusCodeAndCauseMessage(t *testing.T) {
	dialErr := errors.New("dial tcp 127.0.0.1:1: connect: connection refused")

	tests := []struct {
		name      string
		err       error
		wantCode  int
		wantCause string
		wantType  string
	}{
		{
			name:      "auth",
			err:       &AuthError{Endpoint: EndpointTrackLyrics, StatusCode: 403, Message: "forbidden"},
			wantCode:  403,
			wantCause: "Request failed with status code 403",
			wantType:  "auth",
		},
		{
			name:      "not found",
			err:       &NotFoundError{Endpoint: EndpointTrackLyrics, Message: "no lyrics"},
			wantCode:  404,
			wantCause: "Request failed with status code 404",
			wantType:  "not_found",
		},
		{
			name:      "rate limit",
			err:       &RateLimitError{Endpoint: EndpointTrackLyrics},
			wantCode:  429,
			wantCause: "Request failed with status code 429",
			wantType:  "rate_limit",
		},
		{
			name:      "server error",
			err:       &UpstreamError{Endpoint: EndpointTrackLyrics, StatusCode: 502, Body: "bad gateway"},
			wantCode:  502,
			wantCause: "Request failed with status code 502",
			wantType:  "server_error",
		},
		{
			name:      "transport failure",
			err:       fmt.Errorf("wrapped: %w", &UpstreamError{Endpoint: EndpointTrackLyrics, Cause: dialErr}),
			wantCode:  0,
			wantCause: dialErr.Error(),
			wantType:  "network",
		},
		{
			name:      "parse",
			err:       &ParseError{Endpoint: EndpointTrackLyrics, Cause: errors.New("unexpected end of JSON input")},
			wantCode:  0,
			wantCause: "unexpected end of JSON input",
			wantType:  "parse",
		},
		{
			name:      "canceled",
			err:       &UpstreamError{Endpoint: EndpointTrackLyrics, Cause: context.Canceled},
			wantCode:  0,
			wantCause: context.Canceled.Error(),
			wantType:  "canceled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusCode(tt.err); got != tt.wantCode {
				t.Errorf("StatusCode() = %d, want %d", got, tt.wantCode)
			}
			if got := CauseMessage(tt.err); got != tt.wantCause {
				t.Errorf("CauseMessage() = %q, want %q", got, tt.wantCause)
			}
			if got := ErrorType(tt.err); got != tt.wantType {
				t.Errorf("ErrorType() = %q, want %q", got, tt.wantType)
			}
		})
	}

	if CauseMessage(nil) != "" || ErrorType(nil) != "" {
		t.Error("nil error should produce empty strings")
	}
}
