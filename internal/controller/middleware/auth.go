package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"dtapi/internal/auth"
	"dtapi/internal/logger"
	"dtapi/internal/store"
)

type userKey struct{}

// NewContextWithUser returns a copy of ctx carrying the authenticated user.
func NewContextWithUser(ctx context.Context, user *store.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFromContext returns the authenticated user attached by AuthMiddleware.
func UserFromContext(ctx context.Context) (*store.User, bool) {
	user, ok := ctx.Value(userKey{}).(*store.User)
	return user, ok && user != nil
}

// AuthMiddleware resolves the bearer token of each request to a user and
// attaches it to the request context. Unknown tokens get 401.
func AuthMiddleware(users store.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := auth.BearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeError(w, http.StatusUnauthorized, "Unauthenticated")
				return
			}

			user, err := users.GetUserByTokenHash(r.Context(), auth.HashKey(token))
			if errors.Is(err, store.ErrNotFound) || (err == nil && user == nil) {
				writeError(w, http.StatusUnauthorized, "Unauthenticated")
				return
			}
			if err != nil {
				logger.FromContext(r.Context(), slog.Default()).Error("failed to resolve api token", "error", err)
				writeError(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			next.ServeHTTP(w, r.WithContext(NewContextWithUser(r.Context(), user)))
		})
	}
}
