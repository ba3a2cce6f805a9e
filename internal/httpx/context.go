package httpx

import (
	"context"
	"net/http"

	"librarycatalog/internal/auth"
)

type contextKey string

const requestIDKey contextKey = "requestID"

// RequestIDFrom retrieves the request ID from the request context.
func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithRequestID returns a new context carrying the request ID.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// SessionFrom returns the caller session attached by AuthMiddleware.
func SessionFrom(r *http.Request) auth.Session {
	return auth.SessionFrom(r.Context())
}
