// Package metrics defines and registers all custom Prometheus metrics for the
// SkillSync marketplace API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics are registered with the default Prometheus registry through promauto
// when the package is first imported.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "skillsync"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// RegistrationsTotal counts registration outcomes.
// Label:
//   - result: the registered role ("client", "contractor", "admin") or "duplicate"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by outcome.",
	},
	[]string{"result"},
)

// LoginsTotal counts login outcomes.
// Label:
//   - result: "success", "failure" or "throttled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"result"},
)

// AccessDeniedTotal counts requests rejected by the auth middleware.
// Labels:
//   - reason: "unauthenticated" or "forbidden"
//   - required_role: the role the route demanded, empty for unauthenticated
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of requests rejected by identity resolution or role checks.",
	},
	[]string{"reason", "required_role"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsTotal counts audit events by outcome.
// Labels:
//   - type: the auth event type (e.g. "login_failed")
//   - result: "persisted", "failed" or "dropped"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of auth audit events, by type and outcome.",
	},
	[]string{"type", "result"},
)

// AuditQueueDepth tracks the current number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Marketplace metrics ───────────────────────────────────────────────────────

// ProjectsCreatedTotal counts newly posted projects.
var ProjectsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "projects_created_total",
		Help:      "Total number of projects posted by clients.",
	},
)

// ProposalDecisionsTotal counts proposal lifecycle events.
// Label:
//   - status: "pending" (submitted), "accepted" or "rejected"
var ProposalDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "proposals_total",
		Help:      "Total number of proposals submitted or decided, by resulting status.",
	},
	[]string{"status"},
)
