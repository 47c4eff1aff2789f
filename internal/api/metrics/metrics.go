// Package metrics defines and registers all custom Prometheus metrics for the
// bookshelf API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default Prometheus registry at import time via
// promauto; the /metrics route exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bookshelf"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "success", "rejected" (validation/conflict), or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "throttled", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRejectionsTotal counts requests turned away by the session guard.
// Label:
//   - reason: "missing_header", "invalid_token", or "user_not_found"
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of requests rejected by the auth middleware, by reason.",
	},
	[]string{"reason"},
)

// ── Book metrics ──────────────────────────────────────────────────────────────

// BooksCreatedTotal counts recommendations successfully created.
var BooksCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "books_created_total",
		Help:      "Total number of book recommendations created.",
	},
)

// ── Media cleanup metrics ─────────────────────────────────────────────────────

// MediaCleanupTotal counts background cover removals.
// Label:
//   - result: "removed" or "error"
var MediaCleanupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "media_cleanup_total",
		Help:      "Total number of background media removals, by result.",
	},
	[]string{"result"},
)

// CleanupQueueDepth tracks jobs waiting in each cleanup worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var CleanupQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cleanup_queue_depth",
		Help:      "Current number of cleanup jobs pending in each worker channel.",
	},
	[]string{"worker_id"},
)
