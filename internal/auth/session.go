// Package auth turns bearer tokens into the caller capability used by the catalog.
package auth

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrUnauthenticated is returned when an anonymous caller needs to sign in.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden is returned when a signed-in caller lacks the admin role.
	ErrForbidden = errors.New("admin privileges required")
)

// Role is the caller's standing towards the catalog.
type Role int

const (
	RoleAnonymous Role = iota
	RoleMember
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleMember:
		return "member"
	case RoleAdmin:
		return "admin"
	default:
		return "anonymous"
	}
}

// ParseRole maps a token role claim onto a Role. Any signed-in caller that
// is not an admin is a member.
func ParseRole(claim string) Role {
	if strings.EqualFold(strings.TrimSpace(claim), "admin") {
		return RoleAdmin
	}
	return RoleMember
}

// Session is the explicit capability passed into catalog operations.
type Session struct {
	UserID string
	Role   Role
}

// Anonymous is the session of a caller without credentials.
var Anonymous = Session{Role: RoleAnonymous}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// RequireAdmin returns nil for admins, ErrUnauthenticated for anonymous
// callers and ErrForbidden for members.
func (s Session) RequireAdmin() error {
	switch s.Role {
	case RoleAdmin:
		return nil
	case RoleAnonymous:
		return ErrUnauthenticated
	default:
		return ErrForbidden
	}
}

type sessionKey struct{}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session stored in ctx, or Anonymous.
func SessionFrom(ctx context.Context) Session {
	if s, ok := ctx.Value(sessionKey{}).(Session); ok {
		return s
	}
	return Anonymous
}
