package ports

import (
	"context"
	"time"

	"github.com/portway/gatekeeper/internal/core/domain"
)

// Session is a minted login session: a signed token plus the identifiers
// needed to revoke it later.
type Session struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (*Session, *domain.User, error)
	// Logout revokes the session id for the remainder of its token's life.
	Logout(ctx context.Context, sessionID string, expiresAt time.Time) error
}

// SessionRevoker tracks sessions terminated before their token expired.
type SessionRevoker interface {
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

type UserService interface {
	Create(ctx context.Context, username, password, role string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Delete(ctx context.Context, id string) error
	SetRole(ctx context.Context, id, role string) error
}
