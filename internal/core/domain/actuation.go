package domain

import "time"

// ActuationSentinel is the failure value reported to callers when the serial
// exchange fails for any reason. The underlying transport error is never
// surfaced past the driver boundary.
const ActuationSentinel = "ERROR"

// ActuationEntry is one append-only audit record. Written once per gate-open
// attempt, whether or not the hardware round-trip reported success; never
// mutated or deleted.
type ActuationEntry struct {
	ID        string    `json:"id"`
	Actor     string    `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
}
