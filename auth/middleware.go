package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

type usernameContextKey struct{}

// WithUsername binds a verified username to ctx. The binding is
// request-scoped; concurrent requests never observe each other's identity.
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameContextKey{}, username)
}

// UsernameFromContext returns the identity bound by RequireAuth, if any.
func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameContextKey{}).(string)
	return username, ok && username != ""
}

// RequireAuth gates a protected route. It extracts the bearer token from
// the Authorization header, verifies it, and either binds the subject into
// the request context or short-circuits with 401 before any business logic
// runs. The cause (missing header, malformed, forged, expired) is logged
// but never revealed to the caller.
func RequireAuth(ts *TokenService, log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := bearerToken(r)
		if !ok {
			log.Warn("missing bearer credential", "path", r.URL.Path)
			respondUnauthenticated(w)
			return
		}

		username, err := ts.Verify(tokenString)
		if err != nil {
			log.Warn("token rejected", "path", r.URL.Path, "reason", err)
			respondUnauthenticated(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUsername(r.Context(), username)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return header[len(prefix):], true
}

func respondUnauthenticated(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{"error": "unauthenticated"})
}
