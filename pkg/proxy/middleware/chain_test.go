package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"yaproxy-hq/yaproxy/pkg/config"
	"yaproxy-hq/yaproxy/pkg/telemetry/logging"
	"yaproxy-hq/yaproxy/pkg/telemetry/metrics"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), mark("outer"), mark("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if got := strings.Join(order, ","); got != "outer,inner,handler" {
		t.Errorf("order = %s", got)
	}
}

func TestRouteLabels(t *testing.T) {
	mux := http.NewServeMux()
	var handlerRoute string
	mux.HandleFunc("/yandex-music/track/{trackId}", func(w http.ResponseWriter, r *http.Request) {
		handlerRoute = logging.GetRoute(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	collector := metrics.NewCollector(&config.MetricsConfig{Enabled: true, Namespace: "yaproxy"}, prometheus.NewRegistry())
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	handler := RouteMiddleware(mux)(Chain(mux,
		LoggingMiddleware(logger),
		RequestIDMiddleware,
		MetricsMiddleware(collector),
	))

	for _, id := range []string{"1", "2", "3"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/yandex-music/track/"+id, nil))
	}
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/unknown", nil))

	if handlerRoute != "/yandex-music/track/{trackId}" {
		t.Errorf("route in handler context = %q", handlerRoute)
	}

	count, err := testutil.GatherAndCount(collector.Registry(), "yaproxy_http_requests_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if count != 2 {
		t.Errorf("http_requests_total series = %d, want 2 (one route, one unmatched)", count)
	}

	if !strings.Contains(logs.String(), `"route":"/yandex-music/track/{trackId}"`) {
		t.Errorf("completion log lacks route: %s", logs.String())
	}
	if !strings.Contains(logs.String(), `"status":404`) {
		t.Errorf("unmatched request not logged with 404: %s", logs.String())
	}
}
