package httpx

import (
	"net/http"
	"strings"

	"librarycatalog/internal/auth"
)

// AuthMiddleware attaches the caller session. Requests without an
// Authorization header continue as anonymous; a malformed or invalid bearer
// token is rejected.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), auth.Anonymous)))
				return
			}
			if !strings.HasPrefix(authHeader, "Bearer ") {
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
				return
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := auth.ParseToken(secret, token)
			if err != nil {
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
				return
			}

			ctx := auth.WithSession(r.Context(), claims.Session())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
