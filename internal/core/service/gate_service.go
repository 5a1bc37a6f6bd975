package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/portway/gatekeeper/internal/core/domain"
	"github.com/portway/gatekeeper/internal/core/ports"
)

// maxActivityEntries bounds how much of the audit trail one read returns.
const maxActivityEntries = 100

// GateService orchestrates one gate-open attempt: run the actuation, convert
// any transport failure to the "ERROR" sentinel, and append exactly one audit
// entry whether or not the hardware reported success. The audit trail records
// attempts, not confirmed unlocks.
type GateService struct {
	actuator ports.GateActuator
	audit    ports.AuditRepository
	log      zerolog.Logger

	now func() time.Time
}

func NewGateService(actuator ports.GateActuator, audit ports.AuditRepository, log zerolog.Logger) *GateService {
	return &GateService{actuator: actuator, audit: audit, log: log, now: time.Now}
}

func (s *GateService) Open(ctx context.Context, actorLabel string) (*ports.GateOpenResult, error) {
	response, err := s.actuator.OpenGate(ctx)

	result := &ports.GateOpenResult{Response: response}
	if err != nil {
		result.Response = domain.ActuationSentinel
		result.Failed = true
		s.log.Warn().Err(err).Str("actor", actorLabel).Msg("gate actuation failed")
	}

	entry := &domain.ActuationEntry{
		Actor:     actorLabel,
		Timestamp: s.now().UTC(),
	}
	if auditErr := s.audit.Append(ctx, entry); auditErr != nil {
		// The attempt already happened; a lost audit write must not turn
		// a successful actuation into a failure.
		s.log.Error().Err(auditErr).Str("actor", actorLabel).Msg("failed to append actuation entry")
	}

	s.log.Info().
		Str("actor", actorLabel).
		Bool("failed", result.Failed).
		Msg("gate actuation attempted")

	return result, nil
}

// Activity returns the newest audit entries, capped at limit.
func (s *GateService) Activity(ctx context.Context, limit int) ([]*domain.ActuationEntry, error) {
	if limit <= 0 || limit > maxActivityEntries {
		limit = maxActivityEntries
	}
	return s.audit.Recent(ctx, limit)
}
