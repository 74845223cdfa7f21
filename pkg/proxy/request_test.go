package proxy

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPathParam(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    string
		wantErr string
	}{
		{name: "present", value: "12345", want: "12345"},
		{name: "trimmed", value: " 12345 ", want: "12345"},
		{name: "empty", value: "", wantErr: "trackId is required"},
		{name: "blank", value: "   ", wantErr: "trackId is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.SetPathValue("trackId", tt.value)

			got, err := PathParam(r, "trackId")
			if tt.wantErr != "" {
				var reqErr *RequestError
				if !errors.As(err, &reqErr) {
					t.Fatalf("error = %v, want *RequestError", err)
				}
				if reqErr.Message != tt.wantErr || reqErr.Param != "trackId" {
					t.Errorf("error = %+v", reqErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("PathParam() = %q, want %q", got, tt.want)
			}
		})
	}
}
