package types

import "net/http"

// ErrorResponse is the JSON body returned for every failed request.
//
//	{"statusCode": 404, "message": "Track download information not found", "error": "Not Found"}
type ErrorResponse struct {
	// StatusCode repeats the HTTP status code.
	StatusCode int `json:"statusCode"`

	// Message is safe to show to the caller.
	Message string `json:"message"`

	// Error is the reason phrase of StatusCode.
	Error string `json:"error"`
}

// NewErrorResponse creates an error response for status with the given message.
func NewErrorResponse(status int, message string) *ErrorResponse {
	return &ErrorResponse{
		StatusCode: status,
		Message:    message,
		Error:      http.StatusText(status),
	}
}

// NewBadRequestError creates an error response for invalid requests (400).
func NewBadRequestError(message string) *ErrorResponse {
	return NewErrorResponse(http.StatusBadRequest, message)
}

// NewNotFoundError creates an error response for missing resources (404).
func NewNotFoundError(message string) *ErrorResponse {
	return NewErrorResponse(http.StatusNotFound, message)
}

// NewMethodNotAllowedError creates an error response for unsupported methods (405).
func NewMethodNotAllowedError(method string) *ErrorResponse {
	return NewErrorResponse(http.StatusMethodNotAllowed, "Method "+method+" not allowed")
}

// NewServerError creates an error response for internal server errors (500).
func NewServerError(message string) *ErrorResponse {
	return NewErrorResponse(http.StatusInternalServerError, message)
}

// NewServiceUnavailableError creates an error response for temporary unavailability (503).
func NewServiceUnavailableError(message string) *ErrorResponse {
	return NewErrorResponse(http.StatusServiceUnavailable, message)
}

// NewGatewayTimeoutError creates an error response for requests that ran out of time (504).
func NewGatewayTimeoutError(message string) *ErrorResponse {
	return NewErrorResponse(http.StatusGatewayTimeout, message)
}

// HTTPStatusCode returns the status code to send, defaulting to 500.
func (e *ErrorResponse) HTTPStatusCode() int {
	if e.StatusCode == 0 {
		return http.StatusInternalServerError
	}
	return e.StatusCode
}
