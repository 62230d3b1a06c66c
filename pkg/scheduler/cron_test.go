package scheduler

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkflow/inkflow/pkg/models"
	"github.com/inkflow/inkflow/pkg/persistence/file"
)

type fakeExecutor struct {
	executed []string
}

func (f *fakeExecutor) ExecuteWorkflow(_ context.Context, workflowID, _, _ string, _ map[string]any) (*models.Execution, error) {
	f.executed = append(f.executed, workflowID)

	return &models.Execution{WorkflowID: workflowID, Status: models.ExecutionCompleted}, nil
}

func TestCronRunner_Sync(t *testing.T) {
	p := file.NewPersistence(t.TempDir())
	ctx := context.Background()

	scheduled := &models.Workflow{
		ID:       "wf-scheduled",
		Name:     "Nightly digest",
		Trigger:  models.Trigger{Kind: models.TriggerKindSchedule, Filter: map[string]any{"cron": "0 3 * * *"}},
		Actions:  []models.Action{{Type: models.ActionSendEmail}},
		IsActive: true,
	}
	eventDriven := &models.Workflow{
		ID:       "wf-event",
		Name:     "On appointment",
		Trigger:  models.Trigger{Kind: models.TriggerKindEvent, Event: "appointment_created"},
		Actions:  []models.Action{{Type: models.ActionSendEmail}},
		IsActive: true,
	}
	noExpr := &models.Workflow{
		ID:       "wf-no-cron",
		Name:     "Broken schedule",
		Trigger:  models.Trigger{Kind: models.TriggerKindSchedule},
		Actions:  []models.Action{{Type: models.ActionSendEmail}},
		IsActive: true,
	}

	for _, wf := range []*models.Workflow{scheduled, eventDriven, noExpr} {
		require.NoError(t, p.WorkflowRepository().Save(ctx, wf))
	}

	runner := NewCronRunner(p.WorkflowRepository(), &fakeExecutor{}, slog.Default())

	require.NoError(t, runner.Sync(ctx))
	assert.Equal(t, []string{"wf-scheduled"}, runner.RegisteredWorkflows())

	// Deactivating the workflow unregisters its job on the next sync.
	require.NoError(t, p.WorkflowRepository().SetActive(ctx, scheduled.ID, false))
	require.NoError(t, runner.Sync(ctx))
	assert.Empty(t, runner.RegisteredWorkflows())
}

func TestCronRunner_SyncReplacesChangedExpression(t *testing.T) {
	p := file.NewPersistence(t.TempDir())
	ctx := context.Background()

	wf := &models.Workflow{
		ID:       "wf-1",
		Name:     "Digest",
		Trigger:  models.Trigger{Kind: models.TriggerKindSchedule, Filter: map[string]any{"cron": "0 3 * * *"}},
		Actions:  []models.Action{{Type: models.ActionSendEmail}},
		IsActive: true,
	}
	require.NoError(t, p.WorkflowRepository().Save(ctx, wf))

	runner := NewCronRunner(p.WorkflowRepository(), &fakeExecutor{}, slog.Default())
	require.NoError(t, runner.Sync(ctx))

	wf.Trigger.Filter["cron"] = "0 6 * * *"
	require.NoError(t, p.WorkflowRepository().Save(ctx, wf))
	require.NoError(t, runner.Sync(ctx))

	require.Len(t, runner.RegisteredWorkflows(), 1)

	runner.mu.Lock()
	entry := runner.entries["wf-1"]
	runner.mu.Unlock()
	assert.Equal(t, "0 6 * * *", entry.expr)
}
