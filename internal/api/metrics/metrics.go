// Package metrics defines all custom Prometheus metrics for the travel
// booking API. It is the single source of truth for metric names, labels, and
// help strings. Metrics register themselves with the default registry via
// promauto at package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "travel_booking"

// ── Booking metrics ───────────────────────────────────────────────────────────

// BookingsCreatedTotal counts newly created bookings.
// Label:
//   - kind: "hotel", "cab", or "tour"
var BookingsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_created_total",
		Help:      "Total number of bookings created, by resource kind.",
	},
	[]string{"kind"},
)

// BookingTransitionsTotal counts booking status transitions that were applied.
// Labels:
//   - from: the previous status
//   - to: the new status
var BookingTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_transitions_total",
		Help:      "Total number of booking status transitions applied.",
	},
	[]string{"from", "to"},
)

// ── Inventory metrics ─────────────────────────────────────────────────────────

// InventoryOpsTotal counts successful inventory ledger operations.
// Label:
//   - op: "hold" or "release"
var InventoryOpsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inventory_ops_total",
		Help:      "Total number of successful inventory hold/release operations.",
	},
	[]string{"op"},
)

// InventoryConflictsTotal counts inventory operations rejected for lack of
// available room-units.
// Label:
//   - op: the rejected operation, currently always "hold"
var InventoryConflictsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inventory_conflicts_total",
		Help:      "Total number of inventory operations rejected as insufficient.",
	},
	[]string{"op"},
)

// ── Audit pipeline metrics ────────────────────────────────────────────────────

// AuditEventsProcessedTotal counts booking events written to the audit trail.
// Label:
//   - action: the lifecycle action recorded (e.g. "created", "cancelled")
var AuditEventsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_processed_total",
		Help:      "Total number of booking lifecycle events audited.",
	},
	[]string{"action"},
)

// AuditDedupTotal counts deduplication decisions in the audit pipeline.
// Label:
//   - result: "hit" (duplicate, skipped) or "miss" (new event, processed)
var AuditDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dedup_total",
		Help:      "Total number of audit deduplication checks, by result (hit/miss).",
	},
	[]string{"result"},
)

// AuditErrorsTotal counts booking events that failed audit processing.
// Label:
//   - reason: short description of the failure (e.g. "insert_failed")
var AuditErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_errors_total",
		Help:      "Total number of booking events that failed audit processing.",
	},
	[]string{"reason"},
)

// AuditQueueDepth tracks the number of events waiting in each dispatcher
// worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditProcessingDuration measures how long a single event takes from dequeue
// to persistence.
// Label:
//   - outcome: "ok" or "error"
var AuditProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "audit_processing_duration_seconds",
		Help:      "Duration of audit event processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)
