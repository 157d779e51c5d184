package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/ugconnect/wifi-voucher-gateway/internal/application"
	"github.com/ugconnect/wifi-voucher-gateway/internal/interfaces/rest"
)

// APIKeyHeader is the shared-secret header the frontend sends.
const APIKeyHeader = "x-api-key"

// RequireAPIKey gates a route on the configured shared secret. An unset
// server-side secret is a misconfiguration (401); a missing or wrong
// header is a client failure (403).
func RequireAPIKey(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				rest.WriteError(w, application.NewUnauthorizedError("Backend API Key is not set"))
				return
			}

			key := r.Header.Get(APIKeyHeader)
			if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
				rest.WriteError(w, application.NewForbiddenError("Unauthorized: Invalid API Key"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
