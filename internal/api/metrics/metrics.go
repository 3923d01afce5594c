// Package metrics defines and registers all custom Prometheus metrics for
// the claims API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry via promauto
// at package initialisation; the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "claims"

// ── Claim metrics ─────────────────────────────────────────────────────────────

// ClaimsSubmittedTotal counts claim submission attempts.
// Label:
//   - result: "accepted" or "rejected" (failed validation)
var ClaimsSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submitted_total",
		Help:      "Total number of claim submissions, by validation result.",
	},
	[]string{"result"},
)

// ValidationFailuresTotal counts individual validation rule failures.
// Label:
//   - rule: "hours_range", "rate_range", or "monthly_limit"
var ValidationFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_failures_total",
		Help:      "Total number of claim validation rule failures, by rule.",
	},
	[]string{"rule"},
)

// ── Approval metrics ──────────────────────────────────────────────────────────

// AutoApprovalsTotal counts auto-approval runs.
// Label:
//   - result: "approved", "manual_review", or "error"
var AutoApprovalsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auto_approvals_total",
		Help:      "Total number of auto-approval evaluations, by outcome.",
	},
	[]string{"result"},
)

// ApprovalJobsDroppedTotal counts auto-approval jobs rejected because the
// worker's buffer was full. Dropped claims stay pending for manual review.
var ApprovalJobsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "approval_jobs_dropped_total",
		Help:      "Total number of auto-approval jobs dropped due to a full worker queue.",
	},
)

// ApprovalQueueDepth tracks the number of claims waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ApprovalQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "approval_queue_depth",
		Help:      "Current number of claims pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ApprovalProcessingDuration measures how long a single auto-approval run takes.
var ApprovalProcessingDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "approval_processing_duration_seconds",
		Help:      "Duration of auto-approval processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Reporting metrics ─────────────────────────────────────────────────────────

// ReportsGeneratedTotal counts generated HR reports.
var ReportsGeneratedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_generated_total",
		Help:      "Total number of HR reports generated.",
	},
)

// InvoicesGeneratedTotal counts generated invoices.
var InvoicesGeneratedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invoices_generated_total",
		Help:      "Total number of invoices generated.",
	},
)
