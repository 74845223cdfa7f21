package proxy

import (
	"errors"

	"yaproxy-hq/yaproxy/pkg/download"
	"yaproxy-hq/yaproxy/pkg/proxy/types"
)

// RequestError is a client mistake detected before any upstream call.
type RequestError struct {
	// Param is the offending path parameter
	Param string

	// Message is returned to the caller
	Message string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return e.Message
}

// HandleError converts an error into the response envelope.
//
// Request errors become 400. Resolver not-found and invalid-response errors
// keep their message with 404 and 500. Anything else is a 500 carrying
// fallback, so upstream details never reach the caller.
//
// Example usage:
//
//	if err != nil {
//	    WriteErrorResponse(w, HandleError(err, "Error fetching track data from Yandex Music API"))
//	    return
//	}
func HandleError(err error, fallback string) *types.ErrorResponse {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return types.NewBadRequestError(reqErr.Message)
	}

	var notFound *download.NotFoundError
	if errors.As(err, &notFound) {
		return types.NewNotFoundError(notFound.Message)
	}

	var invalid *download.InvalidResponseError
	if errors.As(err, &invalid) {
		return types.NewServerError(invalid.Message)
	}

	return types.NewServerError(fallback)
}
