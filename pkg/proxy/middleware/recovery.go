package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"yaproxy-hq/yaproxy/pkg/proxy"
	"yaproxy-hq/yaproxy/pkg/proxy/types"
)

// RecoveryMiddleware recovers from panics in HTTP handlers and answers 500
// with the error envelope. The panic and stack trace are logged; nothing of
// them reaches the client. http.ErrAbortHandler is re-raised.
//
// Example usage:
//
//	handler = RecoveryMiddleware(handler)
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			err := recover()
			if err == nil {
				return
			}
			if err == http.ErrAbortHandler {
				panic(err)
			}

			slog.ErrorContext(r.Context(), "panic in handler",
				"error", err,
				"method", r.Method,
				"path", r.URL.Path,
				"stack", string(debug.Stack()),
			)

			_ = proxy.WriteErrorResponse(w, types.NewServerError("Internal server error"))
		}()

		next.ServeHTTP(w, r)
	})
}
