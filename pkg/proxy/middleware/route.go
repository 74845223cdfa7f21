package middleware

import (
	"net/http"

	"yaproxy-hq/yaproxy/pkg/telemetry/logging"
)

// RouteMiddleware looks up the pattern mux will dispatch r to and stores it
// in the context, so logging, metrics and tracing label requests by route
// rather than by raw path. Unmatched requests get an empty route.
//
// It must wrap the whole chain, with mux at the center:
//
//	handler := RouteMiddleware(mux)(Chain(mux, ...))
func RouteMiddleware(mux *http.ServeMux) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, pattern := mux.Handler(r)
			next.ServeHTTP(w, r.WithContext(logging.WithRoute(r.Context(), pattern)))
		})
	}
}

// Chain applies middleware so that the first one listed is the outermost.
func Chain(h http.Handler, middleware ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return h
}
