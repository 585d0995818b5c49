package middleware

import (
	"net/http"

	apperrors "roombook/pkg/errors"
	httputil "roombook/pkg/http"
)

// MaxRequestSize rejects bodies that declare a length above limit and caps
// the reader for the ones that do not declare one.
func MaxRequestSize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				_ = httputil.WriteError(w, apperrors.New(
					apperrors.CodePayloadTooLarge,
					"Request body too large",
					http.StatusRequestEntityTooLarge,
				).WithDetails(map[string]any{"max_bytes": limit}))
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
