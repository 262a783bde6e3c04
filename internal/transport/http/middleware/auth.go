package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/student-election-api/internal/domain"
	jwtinfra "github.com/student-election-api/internal/infrastructure/jwt"
)

type contextKey string

const claimsKey contextKey = "claims"

// SessionLookup resolves the session a bearer token was issued for.
type SessionLookup interface {
	GetCurrent(ctx context.Context, sessionID string) (*domain.Session, error)
}

// Auth validates the Bearer JWT and injects its claims into the context.
// When sessions is non-nil the token is also rejected once its session has
// been logged out.
func Auth(provider *jwtinfra.Provider, sessions SessionLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeJSONError(w, http.StatusUnauthorized, "AUTH_ERROR", "missing or invalid authorization header")
				return
			}
			claims, err := provider.Verify(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "AUTH_ERROR", "invalid or expired token")
				return
			}
			if sessions != nil {
				if _, err := sessions.GetCurrent(r.Context(), claims.SessionID); err != nil {
					writeJSONError(w, http.StatusUnauthorized, "AUTH_ERROR", "session is no longer active")
					return
				}
			}
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext extracts JWT claims from the request context.
func ClaimsFromContext(ctx context.Context) (*jwtinfra.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*jwtinfra.Claims)
	return c, ok
}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *jwtinfra.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}
