// Package reconcile flags overdue tasks in the background.
//
// The list view renders whatever the store returned and hands a copy of
// that snapshot to a Dispatcher. A worker later re-evaluates the overdue
// predicate for each task and writes overDue=true for the ones that need
// it. The corrections are only visible on the next read.
//
// Flags are never cleared. A task completed after being flagged keeps
// overDue=true.
package reconcile

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"task-list/internal/domain"
	"task-list/internal/errors"
	"task-list/internal/logging"
	"task-list/internal/repository"
)

// timeNow is overridden in tests.
var timeNow = time.Now

// DefaultConcurrency bounds in-flight updates when Options.Concurrency is unset.
const DefaultConcurrency = 8

// Runner reconciles one snapshot. *Reconciler is the production implementation.
type Runner interface {
	Reconcile(ctx context.Context, snapshot []domain.Task) Result
}

// Options configures a Reconciler.
type Options struct {
	// Enabled mirrors CHECK_STATUS. A disabled reconciler skips every run.
	Enabled bool

	// Concurrency is the maximum number of updates in flight per run.
	Concurrency int
}

// Result summarizes one run.
type Result struct {
	Skipped  bool
	Aborted  bool
	Examined int
	Flagged  int
	Failed   int
	Duration time.Duration
	Err      error
}

// Reconciler persists overDue=true for snapshot tasks that are overdue
// and not yet flagged.
type Reconciler struct {
	store       repository.Provider
	enabled     bool
	concurrency int
}

var _ Runner = (*Reconciler)(nil)

// NewReconciler creates a reconciler that writes through store.
func NewReconciler(store repository.Provider, opts Options) *Reconciler {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	return &Reconciler{
		store:       store,
		enabled:     opts.Enabled,
		concurrency: opts.Concurrency,
	}
}

// Enabled reports whether runs do any work.
func (r *Reconciler) Enabled() bool {
	return r.enabled
}

// Reconcile evaluates the overdue predicate once per task and replaces each
// newly overdue task with a copy carrying overDue=true. It returns after
// every update has settled. A failed update is logged and counted; it does
// not stop the others. Failing to obtain the store aborts the run.
func (r *Reconciler) Reconcile(ctx context.Context, snapshot []domain.Task) (result Result) {
	logger := logging.Ctx(ctx).With().Str("component", "reconcile").Logger()

	if !r.enabled {
		RunsTotal.WithLabelValues(OutcomeSkipped).Inc()
		logger.Debug().Int("tasks", len(snapshot)).Msg("reconcile disabled, skipping run")
		return Result{Skipped: true}
	}

	start := timeNow()
	result.Examined = len(snapshot)
	defer func() {
		result.Duration = time.Since(start)
		RunDuration.Observe(result.Duration.Seconds())
	}()

	repo, err := r.acquire(ctx)
	if err != nil {
		RunsTotal.WithLabelValues(OutcomeAborted).Inc()
		logger.Error().Err(err).Int("tasks", len(snapshot)).Msg("reconcile aborted: task store unavailable")
		result.Aborted = true
		result.Err = err
		return result
	}

	var flagged, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(r.concurrency)

	for _, task := range candidates(snapshot, start) {
		g.Go(func() error {
			corrected := task.Clone()
			corrected.OverDue = true

			if err := repo.UpdateTask(ctx, &corrected); err != nil {
				failed.Add(1)
				UpdateFailuresTotal.Inc()
				logger.Error().Err(err).Str("task_id", task.ID).Str("name", task.Name).Msg("failed to flag overdue task")
				return nil
			}

			flagged.Add(1)
			TasksFlaggedTotal.Inc()
			logger.Debug().Str("task_id", task.ID).Str("due_date", task.DueDate).Msg("task flagged overdue")
			return nil
		})
	}
	_ = g.Wait()

	result.Flagged = int(flagged.Load())
	result.Failed = int(failed.Load())
	RunsTotal.WithLabelValues(OutcomeCompleted).Inc()

	logger.Info().
		Int("examined", result.Examined).
		Int("flagged", result.Flagged).
		Int("failed", result.Failed).
		Msg("reconcile run complete")

	return result
}

func (r *Reconciler) acquire(ctx context.Context) (repository.Repository, error) {
	if r.store == nil {
		return nil, errors.NewPreconditionError("task store", "no store handle configured")
	}
	return r.store.Store(ctx)
}

// candidates returns the persisted tasks that are overdue at now and not yet
// flagged.
func candidates(snapshot []domain.Task, now time.Time) []domain.Task {
	var out []domain.Task
	for _, task := range snapshot {
		if !task.IsPersisted() || task.OverDue {
			continue
		}
		if task.OverdueAt(now) {
			out = append(out, task)
		}
	}
	return out
}
