package ports

import (
	"context"

	"github.com/portway/gatekeeper/internal/core/domain"
)

// AuditRepository is the append-only actuation trail. Entries are never
// mutated or deleted.
type AuditRepository interface {
	Append(ctx context.Context, entry *domain.ActuationEntry) error
	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]*domain.ActuationEntry, error)
}
