package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"flightwatch/internal/auth"
)

// AuthMiddleware validates the Bearer token on user-facing endpoints and
// attaches the resulting claims to the request context.
func AuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				http.Error(w, "Unauthorized. Missing bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := auth.ParseToken(jwtSecret, strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				http.Error(w, "Unauthorized. Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := auth.SetUserClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CronSecretMiddleware guards the engine trigger endpoint with a shared
// secret header. Outside production an empty configured secret leaves
// the endpoint open for local testing.
func CronSecretMiddleware(secret string, production bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				if production {
					http.Error(w, "Forbidden. Trigger secret not configured", http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get("X-Cron-Secret")
			if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
				http.Error(w, "Unauthorized. Invalid trigger secret", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
