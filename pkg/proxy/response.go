package proxy

import (
	"encoding/json"
	"fmt"
	"net/http"

	"yaproxy-hq/yaproxy/pkg/proxy/types"
)

// WriteJSONResponse writes a JSON response with the given status code.
// It sets Content-Type to application/json and encodes the value.
func WriteJSONResponse(w http.ResponseWriter, statusCode int, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	return WriteRawJSON(w, statusCode, data)
}

// WriteRawJSON writes an already encoded JSON body unchanged.
func WriteRawJSON(w http.ResponseWriter, statusCode int, body []byte) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

// WriteErrorResponse writes the error envelope with its own status code.
func WriteErrorResponse(w http.ResponseWriter, errResp *types.ErrorResponse) error {
	return WriteJSONResponse(w, errResp.HTTPStatusCode(), errResp)
}
