package api

import (
	"net/http"
)

// ReadOnlyMiddleware returns middleware that rejects every request with a
// mutating method when readOnly is set. Safe methods always pass.
func ReadOnlyMiddleware(readOnly bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !readOnly {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
			default:
				w.Header().Set("Allow", "GET, HEAD, OPTIONS")
				MethodNotAllowed(w, "server is read-only")
			}
		})
	}
}

// MaxBodyMiddleware limits request bodies to limit bytes. A non-positive
// limit disables the check.
func MaxBodyMiddleware(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
