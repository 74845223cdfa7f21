package middleware

import (
	"net/http"
	"slices"
	"strings"

	"yaproxy-hq/yaproxy/pkg/proxy"
	"yaproxy-hq/yaproxy/pkg/proxy/types"
)

// AllowMethods rejects requests whose method is not listed with 405 and the
// error envelope. HEAD is accepted wherever GET is.
func AllowMethods(methods ...string) func(http.Handler) http.Handler {
	allow := strings.Join(methods, ", ")
	if slices.Contains(methods, http.MethodGet) && !slices.Contains(methods, http.MethodHead) {
		methods = append(slices.Clone(methods), http.MethodHead)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !slices.Contains(methods, r.Method) {
				w.Header().Set("Allow", allow)
				_ = proxy.WriteErrorResponse(w, types.NewMethodNotAllowedError(r.Method))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
