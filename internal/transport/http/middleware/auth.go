package middleware

import (
	"context"
	"net/http"

	authsvc "github.com/dropfour/backend/internal/service/auth"
	"github.com/dropfour/backend/pkg/httputil"
)

type contextKey string

const (
	userIDKey   contextKey = "user_id"
	usernameKey contextKey = "username"
)

// Auth validates the access token and rejects the request unless the session
// behind it is still active.
func Auth(next http.HandlerFunc, as *authsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := httputil.TokenFromRequest(r)
		if err != nil {
			httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		claims, err := as.ValidateToken(token)
		if err != nil {
			httputil.ClearAuthCookie(w)
			httputil.WriteError(w, http.StatusUnauthorized, "invalid or expired session")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		ctx = context.WithValue(ctx, usernameKey, claims.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// UserID returns the authenticated user's ID set by Auth.
func UserID(r *http.Request) (int64, bool) {
	id, ok := r.Context().Value(userIDKey).(int64)
	return id, ok
}

// Username returns the authenticated user's name set by Auth.
func Username(r *http.Request) (string, bool) {
	name, ok := r.Context().Value(usernameKey).(string)
	return name, ok
}
