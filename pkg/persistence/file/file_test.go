package file

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkflow/inkflow/pkg/models"
	"github.com/inkflow/inkflow/pkg/persistence"
)

func newTestPersistence(t *testing.T) *Persistence {
	t.Helper()

	return NewPersistence(t.TempDir())
}

func sampleWorkflow(name string, priority int) *models.Workflow {
	return &models.Workflow{
		Name: name,
		Trigger: models.Trigger{
			Kind:       models.TriggerKindEvent,
			Event:      "appointment_created",
			EntityType: "appointment",
		},
		Actions: []models.Action{
			{Type: models.ActionCreateNotification},
		},
		IsActive: true,
		Priority: priority,
	}
}

func TestWorkflowRepository_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	p := newTestPersistence(t)

	workflow := sampleWorkflow("Appointment Confirmation", 1)
	require.NoError(t, p.WorkflowRepository().Save(ctx, workflow))
	require.NotEmpty(t, workflow.ID)
	assert.False(t, workflow.CreatedAt.IsZero())

	loaded, err := p.WorkflowRepository().GetByID(ctx, workflow.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.Name, loaded.Name)
	assert.Equal(t, models.TriggerKindEvent, loaded.Trigger.Kind)
	assert.Len(t, loaded.Actions, 1)
}

func TestWorkflowRepository_GetByIDNotFound(t *testing.T) {
	p := newTestPersistence(t)

	_, err := p.WorkflowRepository().GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestWorkflowRepository_GetActiveOrdering(t *testing.T) {
	ctx := context.Background()
	p := newTestPersistence(t)
	repo := p.WorkflowRepository()

	low := sampleWorkflow("low priority", 1)
	require.NoError(t, repo.Save(ctx, low))

	inactive := sampleWorkflow("inactive", 10)
	inactive.IsActive = false
	require.NoError(t, repo.Save(ctx, inactive))

	high := sampleWorkflow("high priority", 5)
	require.NoError(t, repo.Save(ctx, high))

	active, err := repo.GetActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "high priority", active[0].Name)
	assert.Equal(t, "low priority", active[1].Name)
}

func TestWorkflowRepository_SetActive(t *testing.T) {
	ctx := context.Background()
	p := newTestPersistence(t)
	repo := p.WorkflowRepository()

	workflow := sampleWorkflow("toggle", 1)
	require.NoError(t, repo.Save(ctx, workflow))
	require.NoError(t, repo.SetActive(ctx, workflow.ID, false))

	loaded, err := repo.GetByID(ctx, workflow.ID)
	require.NoError(t, err)
	assert.False(t, loaded.IsActive)

	err = repo.SetActive(ctx, "missing", true)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestWorkflowRepository_IncrementExecutionCount(t *testing.T) {
	ctx := context.Background()
	p := newTestPersistence(t)
	repo := p.WorkflowRepository()

	workflow := sampleWorkflow("counted", 1)
	require.NoError(t, repo.Save(ctx, workflow))

	require.NoError(t, repo.IncrementExecutionCount(ctx, workflow.ID))
	require.NoError(t, repo.IncrementExecutionCount(ctx, workflow.ID))

	loaded, err := repo.GetByID(ctx, workflow.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), loaded.ExecutionCount)
	require.NotNil(t, loaded.LastExecutedAt)
}

func TestExecutionRepository_SaveAndList(t *testing.T) {
	ctx := context.Background()
	p := newTestPersistence(t)
	repo := p.ExecutionRepository()

	execution := &models.Execution{
		WorkflowID: "wf-1",
		EntityID:   "apt-1",
		EntityType: "appointment",
		Status:     models.ExecutionPending,
		StartedAt:  time.Now().UTC(),
	}
	execution.AppendLog(models.LogActionConditionsCheck, models.LogSkipped, "conditions not met", nil)

	require.NoError(t, repo.Save(ctx, execution))
	require.NotEmpty(t, execution.ID)

	loaded, err := repo.GetByID(ctx, execution.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionPending, loaded.Status)
	require.Len(t, loaded.Log, 1)
	assert.Equal(t, models.LogSkipped, loaded.Log[0].Status)

	list, err := repo.ListByWorkflow(ctx, "wf-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = repo.GetByID(ctx, "missing")
	assert.True(t, persistence.IsExecutionNotFound(err))
}

func TestExecutionRepository_ListDueForResume(t *testing.T) {
	ctx := context.Background()
	p := newTestPersistence(t)
	repo := p.ExecutionRepository()

	now := time.Now().UTC()
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)
	index := 1

	due := &models.Execution{
		WorkflowID:  "wf-1",
		Status:      models.ExecutionRunning,
		StartedAt:   past,
		ResumeIndex: &index,
		ResumeAt:    &past,
	}
	require.NoError(t, repo.Save(ctx, due))

	notYet := &models.Execution{
		WorkflowID:  "wf-1",
		Status:      models.ExecutionRunning,
		StartedAt:   past,
		ResumeIndex: &index,
		ResumeAt:    &future,
	}
	require.NoError(t, repo.Save(ctx, notYet))

	completed := &models.Execution{
		WorkflowID: "wf-1",
		Status:     models.ExecutionCompleted,
		StartedAt:  past,
		ResumeAt:   &past,
	}
	require.NoError(t, repo.Save(ctx, completed))

	dueList, err := repo.ListDueForResume(ctx, now)
	require.NoError(t, err)
	require.Len(t, dueList, 1)
	assert.Equal(t, due.ID, dueList[0].ID)
}

func TestEntityRepository_SnapshotEmbedsRelation(t *testing.T) {
	ctx := context.Background()
	p := newTestPersistence(t)
	repo := p.entityRepo

	require.NoError(t, repo.SaveEntity("customer", "cus-1", map[string]any{
		"id":    "cus-1",
		"name":  "Ada",
		"email": "ada@example.com",
	}))
	require.NoError(t, repo.SaveEntity("appointment", "apt-1", map[string]any{
		"id":          "apt-1",
		"customer_id": "cus-1",
		"status":      "scheduled",
	}))

	snapshot, err := repo.Snapshot(ctx, "appointment", "apt-1")
	require.NoError(t, err)
	assert.Equal(t, "scheduled", snapshot["status"])

	customer, ok := snapshot["customer"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ada@example.com", customer["email"])
}

func TestEntityRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	p := newTestPersistence(t)
	repo := p.entityRepo

	require.NoError(t, repo.SaveEntity("payment", "pay-1", map[string]any{
		"id":     "pay-1",
		"status": "pending",
	}))

	require.NoError(t, repo.UpdateStatus(ctx, "payment", "pay-1", "completed"))

	snapshot, err := repo.Snapshot(ctx, "payment", "pay-1")
	require.NoError(t, err)
	assert.Equal(t, "completed", snapshot["status"])

	err = repo.UpdateStatus(ctx, "customer", "cus-1", "vip")
	require.Error(t, err)

	err = repo.UpdateStatus(ctx, "payment", "missing", "completed")
	assert.True(t, persistence.IsEntityNotFound(err))
}

func TestNotificationRepository_Save(t *testing.T) {
	ctx := context.Background()
	p := newTestPersistence(t)

	notification := &models.Notification{
		Title:    "Workflow Notification",
		Message:  "hello",
		Priority: models.NotificationPriorityMedium,
	}
	require.NoError(t, p.NotificationRepository().Save(ctx, notification))
	assert.NotEmpty(t, notification.ID)
	assert.False(t, notification.CreatedAt.IsZero())
}
