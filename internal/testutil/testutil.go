// Package testutil holds request and token helpers shared by HTTP tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"librarycatalog/internal/auth"

	"github.com/golang-jwt/jwt/v5"
)

var (
	AdminSession  = auth.Session{UserID: "test-admin-id-456", Role: auth.RoleAdmin}
	MemberSession = auth.Session{UserID: "test-user-id-123", Role: auth.RoleMember}
)

// Token signs a one-hour token for userID with the given role claim.
func Token(t testing.TB, secret, userID, role string) string {
	t.Helper()
	token, err := auth.GenerateToken(secret, userID, role, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

// ExpiredToken signs a token that expired an hour ago.
func ExpiredToken(secret, userID, role string) string {
	c := auth.Claims{
		Sub:  userID,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	token, _ := t.SignedString([]byte(secret))
	return token
}

// NewRequest creates a request with body marshalled as JSON when non-nil.
func NewRequest(method, path string, body any) *http.Request {
	if body == nil {
		return httptest.NewRequest(method, path, nil)
	}
	b, _ := json.Marshal(body)
	r := httptest.NewRequest(method, path, bytes.NewReader(b))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// NewRequestWithAuth is NewRequest plus a bearer token.
func NewRequestWithAuth(method, path string, body any, token string) *http.Request {
	r := NewRequest(method, path, body)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

// WithSession attaches s to r as AuthMiddleware would.
func WithSession(r *http.Request, s auth.Session) *http.Request {
	return r.WithContext(auth.WithSession(r.Context(), s))
}

// Envelope is the decoded response body of every JSON endpoint.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]any  `json:"meta"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	} `json:"error"`
}

// DecodeEnvelope decodes the recorded response body.
func DecodeEnvelope(t testing.TB, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return env
}
