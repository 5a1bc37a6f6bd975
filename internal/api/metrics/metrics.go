// Package metrics defines and registers all custom Prometheus metrics for the
// gate access gateway. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gatekeeper"

// ── Actuation metrics ─────────────────────────────────────────────────────────

// ActuationsTotal counts gate-open attempts.
// Label:
//   - result: "ok" or "error" (the serial exchange returned the sentinel)
var ActuationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "actuations_total",
		Help:      "Total number of gate actuation attempts, by result.",
	},
	[]string{"result"},
)

// ActuationDuration measures one full actuation from enqueue to device reply.
// The serial exchange alone can take up to ~2s (two commands, 1s window each).
var ActuationDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "actuation_duration_seconds",
		Help:      "Duration of a gate actuation including queue wait.",
		Buckets:   []float64{.1, .25, .5, 1, 1.5, 2, 3, 5},
	},
)

// ActuationQueueDepth tracks actuation requests waiting for the serial worker.
var ActuationQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "actuation_queue_depth",
		Help:      "Current number of gate-open requests pending in the actuation queue.",
	},
)

// ── Access-code metrics ───────────────────────────────────────────────────────

// CodeValidationsTotal counts access-code checks.
// Label:
//   - result: "valid" or "invalid" (unknown and expired are indistinguishable)
var CodeValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "code_validations_total",
		Help:      "Total number of access code validations, by result.",
	},
	[]string{"result"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok" or "failed"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)
