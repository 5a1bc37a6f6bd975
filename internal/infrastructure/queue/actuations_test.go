package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/portway/gatekeeper/pkg/logger"
)

// slowActuator tracks concurrent OpenGate calls to prove serialization.
type slowActuator struct {
	delay      time.Duration
	inFlight   atomic.Int32
	maxFlight  atomic.Int32
	totalCalls atomic.Int32
	err        error
}

func (a *slowActuator) OpenGate(_ context.Context) (string, error) {
	n := a.inFlight.Add(1)
	if n > a.maxFlight.Load() {
		a.maxFlight.Store(n)
	}
	time.Sleep(a.delay)
	a.inFlight.Add(-1)
	a.totalCalls.Add(1)
	if a.err != nil {
		return "", a.err
	}
	return "+OK\r\n", nil
}

func TestActuations_SerializesConcurrentOpens(t *testing.T) {
	actuator := &slowActuator{delay: 20 * time.Millisecond}
	q := NewActuations(actuator, 8, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			response, err := q.OpenGate(context.Background())
			if err != nil {
				t.Errorf("OpenGate failed: %v", err)
			}
			if response != "+OK\r\n" {
				t.Errorf("unexpected response: %q", response)
			}
		}()
	}
	wg.Wait()

	if got := actuator.maxFlight.Load(); got != 1 {
		t.Fatalf("expected at most 1 concurrent actuation, saw %d", got)
	}
	if got := actuator.totalCalls.Load(); got != 5 {
		t.Fatalf("expected 5 actuations, got %d", got)
	}
}

func TestActuations_PropagatesDriverError(t *testing.T) {
	driverErr := errors.New("port unavailable")
	q := NewActuations(&slowActuator{err: driverErr}, 1, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)

	if _, err := q.OpenGate(context.Background()); !errors.Is(err, driverErr) {
		t.Fatalf("expected driver error, got %v", err)
	}
}

func TestActuations_CancelledSubmit(t *testing.T) {
	// Worker never started: the submit select must fall through to ctx.
	q := NewActuations(&slowActuator{}, 0, logger.Nop())

	// Fill the buffer so the submit blocks.
	for i := 0; i < cap(q.jobs); i++ {
		q.jobs <- request{reply: make(chan result, 1)}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := q.OpenGate(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
