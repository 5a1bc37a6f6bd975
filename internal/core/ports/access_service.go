package ports

import (
	"context"
	"time"

	"github.com/portway/gatekeeper/internal/core/domain"
)

// IssueCodeInput carries everything needed to mint an access code.
// ExplicitCode, when non-empty, is stored as-is instead of generating one.
type IssueCodeInput struct {
	CreatorID     string
	DurationHours int
	ExplicitCode  string
	Note          string
}

// Validation is the result of a successful code check.
type Validation struct {
	Code      *domain.AccessCode
	Remaining time.Duration
}

type AccessService interface {
	Issue(ctx context.Context, in IssueCodeInput) (*domain.AccessCode, error)
	// Validate is a pure read: codes are multi-use until expiry and no
	// state changes on a check.
	Validate(ctx context.Context, code string) (*Validation, error)
	// Revoke deletes a code; revoking an unknown id is a no-op.
	Revoke(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.AccessCode, error)
}
