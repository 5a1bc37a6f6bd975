package ports

import (
	"context"

	"github.com/portway/gatekeeper/internal/core/domain"
)

// GateActuator performs one complete actuation attempt against the hardware.
// The returned string is the device's response to the trigger command. Any
// transport failure is returned as an error; the actuator never retries.
type GateActuator interface {
	OpenGate(ctx context.Context) (string, error)
}

// GateOpenResult is what callers see after an actuation attempt. Response
// carries the device reply, or the "ERROR" sentinel when the exchange failed.
type GateOpenResult struct {
	Response string
	Failed   bool
}

type GateService interface {
	Open(ctx context.Context, actorLabel string) (*GateOpenResult, error)
	// Activity returns the most recent actuation attempts, newest first.
	Activity(ctx context.Context, limit int) ([]*domain.ActuationEntry, error)
}
