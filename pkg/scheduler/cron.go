package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/inkflow/inkflow/pkg/models"
	"github.com/inkflow/inkflow/pkg/persistence"
)

const defaultSyncInterval = time.Minute

// CronRunner fires workflows whose trigger kind is schedule. The cron
// expression lives in the trigger filter under the "cron" key. Registered
// jobs are re-synced against the store periodically so activations,
// deactivations and expression changes are picked up without a restart.
type CronRunner struct {
	workflows persistence.WorkflowRepository
	executor  Executor
	logger    *slog.Logger
	interval  time.Duration

	cron    *cron.Cron
	mu      sync.Mutex
	entries map[string]cronEntry
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

type cronEntry struct {
	id   cron.EntryID
	expr string
}

func NewCronRunner(workflows persistence.WorkflowRepository, executor Executor, logger *slog.Logger) *CronRunner {
	return &CronRunner{
		workflows: workflows,
		executor:  executor,
		logger:    logger.With("module", "cron_runner"),
		interval:  defaultSyncInterval,
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cron.DefaultLogger),
			cron.Recover(cron.DefaultLogger),
		)),
		entries: make(map[string]cronEntry),
		stopCh:  make(chan struct{}),
	}
}

// Start syncs the schedule jobs and begins firing them.
func (r *CronRunner) Start(ctx context.Context) error {
	if err := r.Sync(ctx); err != nil {
		return err
	}

	r.cron.Start()

	r.wg.Add(1)

	go func() {
		defer r.wg.Done()

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-r.stopCh:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := r.Sync(ctx); err != nil {
					r.logger.ErrorContext(ctx, "Failed to sync schedule triggers", "error", err)
				}
			}
		}
	}()

	return nil
}

// Stop halts job firing and the sync loop.
func (r *CronRunner) Stop() {
	close(r.stopCh)
	r.wg.Wait()
	<-r.cron.Stop().Done()
}

// Sync reconciles registered cron jobs with the active schedule workflows in
// the store.
func (r *CronRunner) Sync(ctx context.Context) error {
	workflows, err := r.workflows.GetActive(ctx)
	if err != nil {
		return err
	}

	wanted := make(map[string]string)

	for _, workflow := range workflows {
		if workflow.Trigger.Kind != models.TriggerKindSchedule {
			continue
		}

		expr, _ := workflow.Trigger.Filter["cron"].(string)
		if expr == "" {
			r.logger.WarnContext(ctx, "Schedule workflow has no cron expression",
				"workflow_id", workflow.ID)

			continue
		}

		wanted[workflow.ID] = expr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for workflowID, entry := range r.entries {
		if expr, ok := wanted[workflowID]; ok && expr == entry.expr {
			continue
		}

		r.cron.Remove(entry.id)
		delete(r.entries, workflowID)
	}

	for _, workflow := range workflows {
		expr, ok := wanted[workflow.ID]
		if !ok {
			continue
		}

		if _, registered := r.entries[workflow.ID]; registered {
			continue
		}

		entryID, err := r.cron.AddFunc(expr, r.fire(workflow.ID, workflow.Trigger.EntityType))
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to register schedule trigger",
				"workflow_id", workflow.ID,
				"cron", expr,
				"error", err,
			)

			continue
		}

		r.logger.InfoContext(ctx, "Registered schedule trigger",
			"workflow_id", workflow.ID,
			"cron", expr,
		)

		r.entries[workflow.ID] = cronEntry{id: entryID, expr: expr}
	}

	return nil
}

// RegisteredWorkflows lists the workflow ids with an active cron job.
func (r *CronRunner) RegisteredWorkflows() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}

	return ids
}

func (r *CronRunner) fire(workflowID, entityType string) func() {
	return func() {
		ctx := context.Background()

		if _, err := r.executor.ExecuteWorkflow(ctx, workflowID, entityType, "", nil); err != nil {
			r.logger.ErrorContext(ctx, "Scheduled workflow execution failed",
				"workflow_id", workflowID,
				"error", err,
			)
		}
	}
}
