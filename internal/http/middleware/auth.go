package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/rogerio-castellano/safekart/internal/auth"
)

type contextKey string

const subjectKey = contextKey("subject")

// AuthMiddleware admits requests carrying a valid admin bearer token, either
// in the Authorization header or in the access_token query parameter.
func AuthMiddleware(issuer *auth.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if issuer == nil {
				http.Error(w, "admin access is not configured", http.StatusServiceUnavailable)
				return
			}

			authorization := r.Header.Get("Authorization")
			// browsers cannot set headers on websocket handshakes
			if authorization == "" && r.URL.Query().Get("access_token") != "" {
				authorization = "Bearer " + r.URL.Query().Get("access_token")
			}

			claims, err := issuer.TokenClaims(authorization)
			if err != nil {
				msg := "invalid token"
				if errors.Is(err, auth.ErrMissingToken) {
					msg = "missing or invalid token"
				}
				http.Error(w, msg, http.StatusUnauthorized)
				return
			}

			if role, _ := claims["role"].(string); role != auth.RoleAdmin {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			sub, _ := claims["sub"].(string)
			ctx := context.WithValue(r.Context(), subjectKey, sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetSubject(r *http.Request) string {
	if val, ok := r.Context().Value(subjectKey).(string); ok {
		return val
	}
	return ""
}
