package middleware

import (
	"net/http"

	"github.com/kuip/nomen/internal/logging"
)

// RequestID tags every request with an id for log correlation, honoring an
// incoming X-Request-ID header when the caller supplies one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = logging.GenerateRequestID()
		}
		w.Header().Set("X-Request-ID", requestID)
		ctx := logging.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
