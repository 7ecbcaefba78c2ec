// Package metrics defines and registers all custom Prometheus metrics for the
// task tracker API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package init
// and exposed through the /metrics endpoint when metrics are enabled.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tasktracker"

// ── Authentication metrics ────────────────────────────────────────────────────

// AuthGateOutcomesTotal counts how the authentication gate settled each request.
// Label:
//   - outcome: "anonymous" (no credential), "authenticated", or "rejected"
//     (a credential was present but no principal was established)
var AuthGateOutcomesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_gate_outcomes_total",
		Help:      "Total number of requests passing the authentication gate, by outcome.",
	},
	[]string{"outcome"},
)

// AuthAttemptsTotal counts register and login calls.
// Labels:
//   - operation: "register" or "login"
//   - result: "success" or a short failure reason (e.g. "duplicate", "invalid_credentials")
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of register/login attempts, by operation and result.",
	},
	[]string{"operation", "result"},
)

// AccessDeniedTotal counts requests refused by the access control policy.
// Label:
//   - reason: "unauthenticated" or "forbidden"
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of requests denied by access control.",
	},
	[]string{"reason"},
)

// ── Task metrics ──────────────────────────────────────────────────────────────

// TaskMutationsTotal counts successful task mutations.
// Label:
//   - action: "created", "updated", or "deleted"
var TaskMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "task_mutations_total",
		Help:      "Total number of successful task mutations, by action.",
	},
	[]string{"action"},
)

// TaskIdempotentReplaysTotal counts create requests answered from a previous Idempotency-Key.
var TaskIdempotentReplaysTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "task_idempotent_replays_total",
		Help:      "Total number of task creations served as idempotent replays.",
	},
)

// ── Activity metrics ──────────────────────────────────────────────────────────

// ActivitiesProcessedTotal counts activities persisted to the audit trail.
// Label:
//   - action: the task activity action
var ActivitiesProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activities_processed_total",
		Help:      "Total number of task activities recorded.",
	},
	[]string{"action"},
)

// ActivitiesErrorsTotal counts activities that could not be recorded.
// Label:
//   - reason: "insert_failed", "queue_full", or "stopped"
var ActivitiesErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activities_errors_total",
		Help:      "Total number of task activities that were dropped or failed to persist.",
	},
	[]string{"reason"},
)

// ActivitiesQueueDepth tracks the current number of activities waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ActivitiesQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activities_queue_depth",
		Help:      "Current number of activities pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ActivityProcessingDuration measures how long recording a single activity takes.
// Label:
//   - result: "ok" or "error"
var ActivityProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "activity_processing_duration_seconds",
		Help:      "Duration of activity processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)
