package middleware

import (
	"net/http"
	"time"

	"yaproxy-hq/yaproxy/pkg/telemetry/logging"
	"yaproxy-hq/yaproxy/pkg/telemetry/metrics"
)

// unmatchedRoute labels requests that matched no route.
const unmatchedRoute = "unmatched"

// MetricsMiddleware records request count, duration and in-flight gauge.
// The route label is the pattern stored by RouteMiddleware, never the raw
// path, so track IDs do not create new series. A nil collector disables it.
func MetricsMiddleware(collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if collector == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			done := collector.HTTPRequestStarted()
			defer done()

			start := time.Now()
			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r)

			route := logging.GetRoute(r.Context())
			if route == "" {
				route = unmatchedRoute
			}
			collector.RecordHTTPRequest(route, r.Method, rw.statusCode, time.Since(start))
		})
	}
}
