package proxy

import (
	"net/http"
	"strings"
)

const (
	// RequestIDHeader is the HTTP header for request ID propagation.
	RequestIDHeader = "X-Request-ID"

	// TraceIDHeader carries the trace ID back to the caller.
	TraceIDHeader = "X-Trace-ID"
)

// PathParam returns the named path wildcard, trimmed. An empty value is a
// RequestError saying "<name> is required".
func PathParam(r *http.Request, name string) (string, error) {
	value := strings.TrimSpace(r.PathValue(name))
	if value == "" {
		return "", &RequestError{
			Param:   name,
			Message: name + " is required",
		}
	}
	return value, nil
}
