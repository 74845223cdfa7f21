package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"yaproxy-hq/yaproxy/pkg/proxy/types"
)

func TestTimeoutMiddleware(t *testing.T) {
	t.Run("fast handler passes through", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Custom", "yes")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})

		w := httptest.NewRecorder()
		TimeoutMiddleware(time.Second)(handler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		if w.Code != http.StatusCreated {
			t.Errorf("status = %d, want 201", w.Code)
		}
		if w.Header().Get("X-Custom") != "yes" {
			t.Error("handler header was lost")
		}
		if w.Body.String() != `{"ok":true}` {
			t.Errorf("body = %q", w.Body.String())
		}
	})

	t.Run("slow handler gets 504", func(t *testing.T) {
		cancelled := make(chan struct{})
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
			close(cancelled)
			_, _ = w.Write([]byte("too late"))
		})

		w := httptest.NewRecorder()
		TimeoutMiddleware(20*time.Millisecond)(handler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		if w.Code != http.StatusGatewayTimeout {
			t.Errorf("status = %d, want 504", w.Code)
		}
		var body types.ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid envelope %q: %v", w.Body.String(), err)
		}
		if body.StatusCode != http.StatusGatewayTimeout {
			t.Errorf("envelope = %+v", body)
		}

		select {
		case <-cancelled:
		case <-time.After(time.Second):
			t.Fatal("handler context was not cancelled")
		}
	})

	t.Run("zero disables", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := r.Context().Deadline(); ok {
				t.Error("unexpected deadline")
			}
		})
		TimeoutMiddleware(0)(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
