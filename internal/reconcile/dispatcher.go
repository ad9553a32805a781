package reconcile

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"task-list/internal/domain"
	"task-list/internal/logging"
)

var (
	// ErrQueueFull is returned by Dispatch when every queue slot is taken.
	ErrQueueFull = errors.New("reconcile queue is full")

	// ErrStopped is returned by Dispatch after the dispatcher has shut down.
	ErrStopped = errors.New("reconcile dispatcher is stopped")
)

// DispatcherConfig configures a Dispatcher.
type DispatcherConfig struct {
	// Workers is the number of snapshots reconciled at the same time.
	Workers int

	// QueueSize is the number of snapshots that may wait for a worker.
	QueueSize int

	// OnRunComplete, if set, is called after each run settles.
	OnRunComplete func(Result)
}

// DefaultDispatcherConfig returns the defaults used when fields are zero.
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		Workers:   4,
		QueueSize: 64,
	}
}

// queuedRun is one accepted snapshot with the ids of the request that sent it.
type queuedRun struct {
	snapshot      []domain.Task
	correlationID string
}

// Dispatcher runs reconciles off the request path. Snapshots wait in a
// bounded FIFO queue and a fixed pool of workers drains it. It implements
// suture.Service.
//
// On shutdown, runs already started finish their writes. Queued snapshots
// that never started are dropped.
type Dispatcher struct {
	runner Runner
	config DispatcherConfig
	queue  chan queuedRun
	logger zerolog.Logger

	mu      sync.RWMutex
	stopped bool
}

// NewDispatcher creates a dispatcher feeding runner.
func NewDispatcher(runner Runner, config DispatcherConfig) *Dispatcher {
	defaults := DefaultDispatcherConfig()
	if config.Workers <= 0 {
		config.Workers = defaults.Workers
	}
	if config.QueueSize <= 0 {
		config.QueueSize = defaults.QueueSize
	}

	return &Dispatcher{
		runner: runner,
		config: config,
		queue:  make(chan queuedRun, config.QueueSize),
		logger: logging.WithComponent("reconcile-dispatcher"),
	}
}

// Dispatch queues a deep copy of snapshot and returns at once. It never
// waits for a worker.
func (d *Dispatcher) Dispatch(ctx context.Context, snapshot []domain.Task) error {
	run := queuedRun{
		snapshot:      make([]domain.Task, len(snapshot)),
		correlationID: logging.GenerateCorrelationID(),
	}
	for i := range snapshot {
		run.snapshot[i] = snapshot[i].Clone()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		DispatchRejectedTotal.WithLabelValues(ReasonStopped).Inc()
		return ErrStopped
	}

	select {
	case d.queue <- run:
		QueueDepth.Set(float64(len(d.queue)))
		logging.Ctx(ctx).Debug().
			Str("run_id", run.correlationID).
			Int("tasks", len(run.snapshot)).
			Msg("reconcile dispatched")
		return nil
	default:
		DispatchRejectedTotal.WithLabelValues(ReasonQueueFull).Inc()
		return ErrQueueFull
	}
}

// Pending returns the number of snapshots waiting for a worker.
func (d *Dispatcher) Pending() int {
	return len(d.queue)
}

// Serve implements suture.Service. It blocks until ctx is cancelled and all
// started runs have settled.
func (d *Dispatcher) Serve(ctx context.Context) error {
	d.mu.Lock()
	d.stopped = false
	d.mu.Unlock()

	d.logger.Info().
		Int("workers", d.config.Workers).
		Int("queue_size", d.config.QueueSize).
		Msg("reconcile dispatcher started")

	var wg sync.WaitGroup
	for i := 0; i < d.config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.work(ctx)
		}()
	}
	wg.Wait()

	d.mu.Lock()
	d.stopped = true
	dropped := d.drain()
	d.mu.Unlock()

	if dropped > 0 {
		d.logger.Warn().Int("dropped", dropped).Msg("dropped queued reconcile runs on shutdown")
	}
	d.logger.Info().Msg("reconcile dispatcher stopped")

	return ctx.Err()
}

func (d *Dispatcher) work(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case run := <-d.queue:
			QueueDepth.Set(float64(len(d.queue)))

			// Shutdown must not cancel a run's in-flight writes.
			runCtx := logging.ContextWithCorrelationID(context.WithoutCancel(ctx), run.correlationID)
			result := d.runner.Reconcile(runCtx, run.snapshot)

			if d.config.OnRunComplete != nil {
				d.config.OnRunComplete(result)
			}
		}
	}
}

// drain empties the queue and returns how many runs were discarded.
func (d *Dispatcher) drain() int {
	dropped := 0
	for {
		select {
		case <-d.queue:
			dropped++
		default:
			QueueDepth.Set(0)
			return dropped
		}
	}
}

// String implements fmt.Stringer for suture's logs.
func (d *Dispatcher) String() string {
	return "reconcile-dispatcher"
}
