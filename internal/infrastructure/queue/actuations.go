// Package queue serializes gate actuations. The serial port is the single
// shared external resource and one exchange can block for ~2 seconds, so all
// open requests funnel through one worker; unrelated HTTP requests are never
// stalled behind the hardware.
package queue

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/portway/gatekeeper/internal/api/metrics"
	"github.com/portway/gatekeeper/internal/core/ports"
)

const defaultBuffer = 16

type result struct {
	response string
	err      error
}

type request struct {
	reply chan result
}

// Actuations is a single-worker queue in front of the serial driver. It
// implements ports.GateActuator itself, so services are indifferent to
// whether they talk to the driver directly or through the queue.
type Actuations struct {
	driver ports.GateActuator
	jobs   chan request
	log    zerolog.Logger
}

// NewActuations creates a queue with the given buffer size in front of driver.
// If buffer <= 0, defaultBuffer is used.
func NewActuations(driver ports.GateActuator, buffer int, log zerolog.Logger) *Actuations {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Actuations{
		driver: driver,
		jobs:   make(chan request, buffer),
		log:    log,
	}
}

// Start launches the worker goroutine. The worker stops when ctx is cancelled.
func (q *Actuations) Start(ctx context.Context) {
	go q.runWorker(ctx)
}

// OpenGate submits one actuation request and waits for its result. Waiting is
// cancellable through ctx; an exchange already handed to the worker runs to
// completion regardless, since the hardware cannot abort mid-command.
func (q *Actuations) OpenGate(ctx context.Context) (string, error) {
	req := request{reply: make(chan result, 1)}

	select {
	case q.jobs <- req:
		metrics.ActuationQueueDepth.Set(float64(len(q.jobs)))
	case <-ctx.Done():
		return "", ctx.Err()
	}

	select {
	case res := <-req.reply:
		return res.response, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (q *Actuations) runWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-q.jobs:
			metrics.ActuationQueueDepth.Set(float64(len(q.jobs)))
			response, err := q.driver.OpenGate(ctx)
			if err != nil {
				q.log.Warn().Err(err).Msg("actuation attempt failed")
			}
			req.reply <- result{response: response, err: err}
		}
	}
}
