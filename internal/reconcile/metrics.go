package reconcile

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run outcomes used as the "outcome" label of RunsTotal.
const (
	OutcomeCompleted = "completed"
	OutcomeSkipped   = "skipped"
	OutcomeAborted   = "aborted"
)

// Dispatch rejection reasons used as the "reason" label of DispatchRejectedTotal.
const (
	ReasonQueueFull = "queue_full"
	ReasonStopped   = "stopped"
)

var (
	// RunsTotal counts reconcile runs by outcome.
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasklist_reconcile_runs_total",
			Help: "Total number of overdue reconcile runs by outcome",
		},
		[]string{"outcome"},
	)

	// TasksFlaggedTotal counts tasks whose overDue flag was written as true.
	TasksFlaggedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tasklist_reconcile_tasks_flagged_total",
			Help: "Total number of tasks flagged overdue by the reconciler",
		},
	)

	// UpdateFailuresTotal counts per-task update failures.
	UpdateFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tasklist_reconcile_update_failures_total",
			Help: "Total number of failed per-task reconcile updates",
		},
	)

	// DispatchRejectedTotal counts snapshots the dispatcher refused.
	DispatchRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasklist_reconcile_dispatch_rejected_total",
			Help: "Total number of reconcile dispatches rejected by reason",
		},
		[]string{"reason"},
	)

	// QueueDepth is the number of snapshots waiting for a worker.
	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tasklist_reconcile_queue_depth",
			Help: "Number of reconcile snapshots waiting for a worker",
		},
	)

	// RunDuration tracks how long a reconcile run takes once started.
	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tasklist_reconcile_run_duration_seconds",
			Help:    "Duration of reconcile runs in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
	)
)
