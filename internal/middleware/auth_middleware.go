// Package middleware carries the optimizer API's cross-cutting HTTP
// concerns, grounded on the teacher's internal/middleware package.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"budget-allocator-api/internal/service"
)

type contextKey string

const clientIDContextKey contextKey = "clientID"

// AuthMiddleware enforces service-to-service authentication: either a JWT
// bearer token or a shared API key, grounded on the teacher's
// auth_middleware.go RequireAuth pattern. There is no user session to
// hydrate here, so it stops at identifying the calling client.
type AuthMiddleware struct {
	jwt    *service.JWTService
	apiKey *service.APIKeyAuthenticator
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(jwt *service.JWTService, apiKey *service.APIKeyAuthenticator) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt, apiKey: apiKey}
}

// RequireAuth enforces bearer auth: the token is either a valid JWT or,
// when API-key auth is enabled, the raw configured API key.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			unauthorizedJSON(w, "missing Authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			unauthorizedJSON(w, "invalid Authorization header format")
			return
		}

		token := strings.TrimSpace(parts[1])
		if token == "" {
			unauthorizedJSON(w, "empty token")
			return
		}

		if m.apiKey != nil && m.apiKey.Enabled() && m.apiKey.Verify(token) {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), clientIDContextKey, "api-key")))
			return
		}

		claims, err := m.jwt.ParseToken(token)
		if err != nil {
			unauthorizedJSON(w, "invalid or expired token")
			return
		}
		if claims.ClientID == "" {
			unauthorizedJSON(w, "invalid token: missing client_id")
			return
		}

		ctx := context.WithValue(r.Context(), clientIDContextKey, claims.ClientID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorizedJSON(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// ClientIDFromContext returns the authenticated caller's client id, or "" if
// not present.
func ClientIDFromContext(ctx context.Context) string {
	v := ctx.Value(clientIDContextKey)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
