package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/inkflow/inkflow/pkg/persistence"
)

const defaultPollInterval = 5 * time.Second

// DelayWorker resumes executions whose deferred delay has elapsed. It drains
// the redis queue when one is configured and always sweeps the execution
// store, which recovers resumes lost to queue outages or process crashes.
type DelayWorker struct {
	queue      *RedisDelayQueue
	executions persistence.ExecutionRepository
	resumer    Resumer
	logger     *slog.Logger
	interval   time.Duration

	stopCh chan struct{}
	wg     sync.WaitGroup
}

func NewDelayWorker(queue *RedisDelayQueue, executions persistence.ExecutionRepository, resumer Resumer, logger *slog.Logger) *DelayWorker {
	return &DelayWorker{
		queue:      queue,
		executions: executions,
		resumer:    resumer,
		logger:     logger.With("module", "delay_worker"),
		interval:   defaultPollInterval,
		stopCh:     make(chan struct{}),
	}
}

// Start begins polling for due executions.
func (w *DelayWorker) Start(ctx context.Context) {
	w.wg.Add(1)

	go func() {
		defer w.wg.Done()

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.stopCh:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.Tick(ctx)
			}
		}
	}()
}

// Stop halts the poll loop and waits for the in-flight tick.
func (w *DelayWorker) Stop() {
	close(w.stopCh)
	w.wg.Wait()
}

// Tick resumes everything currently due. Exposed for tests and for one-shot
// sweeps at startup.
func (w *DelayWorker) Tick(ctx context.Context) {
	now := time.Now().UTC()
	resumed := make(map[string]bool)

	if w.queue != nil {
		due, err := w.queue.PopDue(ctx, now)
		if err != nil {
			w.logger.ErrorContext(ctx, "Failed to drain delay queue", "error", err)
		}

		for _, executionID := range due {
			w.resume(ctx, executionID)
			resumed[executionID] = true
		}
	}

	suspended, err := w.executions.ListDueForResume(ctx, now)
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to list suspended executions", "error", err)

		return
	}

	for _, execution := range suspended {
		if resumed[execution.ID] {
			continue
		}

		w.resume(ctx, execution.ID)
	}
}

func (w *DelayWorker) resume(ctx context.Context, executionID string) {
	if _, err := w.resumer.ResumeExecution(ctx, executionID); err != nil {
		w.logger.ErrorContext(ctx, "Failed to resume execution",
			"execution_id", executionID,
			"error", err,
		)
	}
}
