package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/portway/gatekeeper/internal/core/domain"
	"github.com/portway/gatekeeper/internal/core/ports"
)

// AuthService implements login and logout. Sessions are HS256 JWTs carrying a
// uuid session id so logout can revoke a token before its natural expiry.
type AuthService struct {
	repo      ports.CredentialRepository
	sessions  ports.SessionRevoker
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(repo ports.CredentialRepository, sessions ports.SessionRevoker, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, sessions: sessions, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Login verifies the credentials and mints a session. An unknown username and
// a wrong password both surface as ErrInvalidCredentials so the response does
// not reveal which accounts exist.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.Session, *domain.User, error) {
	if username == "" || password == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	session, err := s.mintSession(user)
	if err != nil {
		return nil, nil, err
	}

	return session, user, nil
}

// Logout revokes the session id until the token it was minted with would have
// expired anyway. Already-expired tokens need no revocation entry.
func (s *AuthService) Logout(ctx context.Context, sessionID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if sessionID == "" || ttl <= 0 {
		return nil
	}
	return s.sessions.Revoke(ctx, sessionID, ttl)
}

func (s *AuthService) mintSession(user *domain.User) (*ports.Session, error) {
	expiresAt := time.Now().Add(s.tokenTTL)
	sessionID := uuid.NewString()

	claims := jwt.MapClaims{
		"uid":      user.ID,
		"username": user.Username,
		"role":     user.Role,
		"jti":      sessionID,
		"exp":      expiresAt.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, err
	}

	return &ports.Session{Token: signed, ID: sessionID, ExpiresAt: expiresAt}, nil
}
