package ports

import (
	"context"

	"github.com/portway/gatekeeper/internal/core/domain"
)

// AccessCodeRepository persists shareable access codes. Code uniqueness is
// enforced by the storage layer; Create surfaces a conflict as
// domain.ErrCodeExists so the caller can retry generation.
type AccessCodeRepository interface {
	Create(ctx context.Context, code *domain.AccessCode) (*domain.AccessCode, error)
	FindByCode(ctx context.Context, code string) (*domain.AccessCode, error)
	List(ctx context.Context) ([]*domain.AccessCode, error)
	// Delete removes the code with the given id. Deleting a nonexistent
	// id is a benign no-op.
	Delete(ctx context.Context, id string) error
}
