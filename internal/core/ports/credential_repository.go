package ports

import (
	"context"

	"github.com/portway/gatekeeper/internal/core/domain"
)

// CredentialRepository persists user accounts. Username uniqueness is
// enforced by the storage layer; Create surfaces a conflict as
// domain.ErrUserExists.
type CredentialRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// Delete removes the account with the given id. Deleting a
	// nonexistent id is a benign no-op.
	Delete(ctx context.Context, id string) error
	UpdateRole(ctx context.Context, id, role string) error
}
