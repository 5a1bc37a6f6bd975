package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog"

	"github.com/portway/gatekeeper/internal/core/domain"
	"github.com/portway/gatekeeper/internal/core/ports"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// codeIssueAttempts bounds generation retries when a random code collides
// with an existing one. At 36^5 possible codes a collision is rare; three
// attempts is plenty before surfacing the conflict.
const codeIssueAttempts = 3

// AccessService implements the shareable-code lifecycle: issue, validate,
// revoke. Expiry is lazy — expired codes stay in storage and fail validation.
type AccessService struct {
	repo ports.AccessCodeRepository
	log  zerolog.Logger

	// now is swappable so expiry tests can move the clock.
	now func() time.Time
}

func NewAccessService(repo ports.AccessCodeRepository, log zerolog.Logger) *AccessService {
	return &AccessService{repo: repo, log: log, now: time.Now}
}

func (s *AccessService) Issue(ctx context.Context, in ports.IssueCodeInput) (*domain.AccessCode, error) {
	if in.DurationHours <= 0 {
		return nil, domain.ErrInvalidDuration
	}

	now := s.now().UTC()
	code := &domain.AccessCode{
		Note:      in.Note,
		CreatedBy: in.CreatorID,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Duration(in.DurationHours) * time.Hour),
	}

	// Caller-supplied codes are stored as-is; a conflict surfaces directly
	// so the caller can pick another.
	if in.ExplicitCode != "" {
		code.Code = in.ExplicitCode
		return s.store(ctx, code)
	}

	var lastErr error
	for attempt := 0; attempt < codeIssueAttempts; attempt++ {
		generated, err := generateCode()
		if err != nil {
			return nil, fmt.Errorf("generate code: %w", err)
		}
		code.Code = generated

		created, err := s.store(ctx, code)
		if errors.Is(err, domain.ErrCodeExists) {
			lastErr = err
			continue
		}
		return created, err
	}
	return nil, lastErr
}

func (s *AccessService) store(ctx context.Context, code *domain.AccessCode) (*domain.AccessCode, error) {
	created, err := s.repo.Create(ctx, code)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("code", created.Code).
		Str("created_by", created.CreatedBy).
		Time("expires_at", created.ExpiresAt).
		Msg("access code issued")
	return created, nil
}

// Validate checks a presented code. It is a pure read: codes stay valid for
// every open attempt until expiry. Unknown and expired codes are
// indistinguishable to the caller.
func (s *AccessService) Validate(ctx context.Context, code string) (*ports.Validation, error) {
	if code == "" {
		return nil, domain.ErrCodeInvalid
	}

	record, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, domain.ErrCodeInvalid
	}

	now := s.now().UTC()
	if !record.ValidAt(now) {
		return nil, domain.ErrCodeInvalid
	}

	return &ports.Validation{Code: record, Remaining: record.Remaining(now)}, nil
}

func (s *AccessService) Revoke(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("code_id", id).Msg("access code revoked")
	return nil
}

func (s *AccessService) List(ctx context.Context) ([]*domain.AccessCode, error) {
	return s.repo.List(ctx)
}

// generateCode draws a fixed-length code uniformly from [A-Z0-9] using
// rejection-free sampling via crypto/rand.Int.
func generateCode() (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	b := make([]byte, domain.CodeLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = codeAlphabet[n.Int64()]
	}
	return string(b), nil
}
