package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/tregeagle/finagle/internal/api/response"
)

// APIKeyHeader carries the shared API key.
const APIKeyHeader = "X-API-Key"

// APIKey rejects requests whose X-API-Key header does not match key with
// 403 Forbidden. An empty key disables the check.
func APIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(APIKeyHeader)
			if provided == "" {
				response.RespondError(w, http.StatusForbidden, "forbidden", "Missing API key")
				return
			}
			if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
				response.RespondError(w, http.StatusForbidden, "forbidden", "Invalid API key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
