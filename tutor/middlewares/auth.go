// historytutor/tutor/middlewares/auth.go
package middlewares

import (
	"context"
	"net/http"
	"strings"

	"historytutor/tutor/services/echo"
)

type contextKey string

const (
	EchoTokenKey contextKey = "echo_token"
	ClientIDKey  contextKey = "client_id"
)

// EchoToken reads the access token from the session cookie, falling back to
// an Authorization: Bearer header.
func EchoToken(r *http.Request) string {
	if c, err := r.Cookie(echo.CookieAccessToken); err == nil && c.Value != "" {
		return c.Value
	}
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// TokenFromContext returns the token stored by AuthMiddleware.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(EchoTokenKey).(string)
	return token
}

// AuthMiddleware rejects requests without a usable Echo access token.
func AuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := EchoToken(r)
			if token == "" || echo.TokenExpired(token) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}
			ctx := context.WithValue(r.Context(), EchoTokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
