// Package metrics defines the custom Prometheus metrics of the ordering API.
// It is the single source of truth for metric names, labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation and exposed through the /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ordering"

// ── Security pipeline ─────────────────────────────────────────────────────────

// RateLimitRejectionsTotal counts requests answered with 429.
// Label:
//   - limiter: "general" or "login"
var RateLimitRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limit_rejections_total",
		Help:      "Total number of requests rejected by a rate limiter.",
	},
	[]string{"limiter"},
)

// AuthFailuresTotal counts requests without a usable identity.
// Label:
//   - reason: "missing_token", "invalid_token" or "bad_credentials"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of authentication failures, by reason.",
	},
	[]string{"reason"},
)

// AuthorizationDeniedTotal counts requests with a valid identity but the wrong role.
// Label:
//   - required: the role the route asked for
var AuthorizationDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denied_total",
		Help:      "Total number of requests denied for lack of the required role.",
	},
	[]string{"required"},
)

// ValidationFailuresTotal counts rejected payloads.
// Label:
//   - shape: "single" or "list"
var ValidationFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_failures_total",
		Help:      "Total number of requests rejected by input validation.",
	},
	[]string{"shape"},
)

// StepUpFailuresTotal counts wrong admin step-up secrets.
var StepUpFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "step_up_failures_total",
		Help:      "Total number of rejected admin step-up secrets.",
	},
)

// ── Audit trail ───────────────────────────────────────────────────────────────

// AuditEventsDroppedTotal counts security events discarded because the
// worker queue was full.
var AuditEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_dropped_total",
		Help:      "Total number of security events dropped on a full queue.",
	},
)

// AuditQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of security events pending in each worker channel.",
	},
	[]string{"worker_id"},
)

// ── Orders ────────────────────────────────────────────────────────────────────

// OrdersPlacedTotal counts orders accepted from customers.
var OrdersPlacedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_placed_total",
		Help:      "Total number of orders placed.",
	},
)

// OrderTransitionsTotal counts admin status changes.
// Label:
//   - status: the status the order moved to
var OrderTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_transitions_total",
		Help:      "Total number of order status changes, by resulting status.",
	},
	[]string{"status"},
)
