// Package metrics defines the application's custom Prometheus metrics. It is
// the single source of truth for metric names, labels, and help strings.
//
// Metrics register with the default Prometheus registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "todo"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts signup and login attempts.
// Labels:
//   - action: "signup" or "login"
//   - result: "success", "invalid", "duplicate" or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of signup and login attempts, by outcome.",
	},
	[]string{"action", "result"},
)

// SessionsTotal counts session lifecycle events.
// Label:
//   - event: "issued" or "revoked"
var SessionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_total",
		Help:      "Total number of sessions issued and revoked.",
	},
	[]string{"event"},
)

// ── Todo metrics ──────────────────────────────────────────────────────────────

// TodoOperationsTotal counts successful todo mutations.
// Labels:
//   - operation: "create", "update", "toggle" or "delete"
//   - surface: "page" or "api"
var TodoOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "todo_operations_total",
		Help:      "Total number of todo mutations, by operation and surface.",
	},
	[]string{"operation", "surface"},
)
