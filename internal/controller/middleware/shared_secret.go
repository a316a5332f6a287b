package middleware

import (
	"crypto/subtle"
	"net/http"

	"dtapi/internal/auth"
)

// RequireSharedSecret admits only requests whose bearer token equals secret.
// The distance feed uses it for callers that have no user account.
func RequireSharedSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeError(w, http.StatusUnauthorized, "Missing authorization header")
				return
			}

			token, ok := auth.BearerToken(header)
			if !ok {
				writeError(w, http.StatusUnauthorized, "Invalid authorization header")
				return
			}

			if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				writeError(w, http.StatusUnauthorized, "Invalid authorization token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
