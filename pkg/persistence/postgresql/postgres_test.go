package postgresql_test

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/inkflow/inkflow/pkg/models"
	"github.com/inkflow/inkflow/pkg/persistence"
	"github.com/inkflow/inkflow/pkg/persistence/postgresql"
)

var postgresContainer *postgres.PostgresContainer

func dropDb(ctx context.Context, t *testing.T, databaseURL string) {
	t.Helper()

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	// Drop tables in reverse dependency order (children first, parents last)
	for _, table := range []string{
		"workflow_executions", "workflows", "notifications",
		"appointments", "payments", "tattoo_requests", "customers",
		"schema_migrations",
	} {
		_, err = db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE")
		require.NoError(t, err)
	}

	err = db.Close()
	require.NoError(t, err)
}

func setupTestDB(t *testing.T) (*postgresql.Persistence, context.Context, string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)

	if postgresContainer == nil || !postgresContainer.IsRunning() {
		var err error

		postgresContainer, err = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("inkflow_test"),
			postgres.WithUsername("inkflow"),
			postgres.WithPassword("inkflow"),
			postgres.BasicWaitStrategies(),
		)
		require.NoError(t, err)
	}

	databaseURL, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	dropDb(ctx, t, databaseURL)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	p, err := postgresql.NewPersistence(ctx, logger, databaseURL)
	require.NoError(t, err)

	t.Cleanup(func() {
		dropDb(ctx, t, databaseURL)

		err = p.Close(ctx)
		require.NoError(t, err)

		cancel()
	})

	return p, ctx, databaseURL
}

func testWorkflow() *models.Workflow {
	return &models.Workflow{
		ID:   uuid.New().String(),
		Name: "Appointment confirmation",
		Trigger: models.Trigger{
			Kind:       models.TriggerKindEvent,
			Event:      "appointment_created",
			EntityType: "appointment",
		},
		Conditions: []models.Condition{
			{Field: "status", Operator: models.OperatorEquals, Value: "confirmed"},
		},
		Actions: []models.Action{
			{Type: models.ActionSendEmail, Config: map[string]any{"subject": "Hi", "body": "Welcome"}},
		},
		IsActive:  true,
		Priority:  2,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}

func TestNewPersistence_Migrations(t *testing.T) {
	_, ctx, databaseURL := setupTestDB(t)

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	defer func() {
		err := db.Close()
		require.NoError(t, err)
	}()

	var exists bool

	err = db.QueryRowContext(ctx, `SELECT EXISTS (SELECT FROM
information_schema.tables WHERE table_name = 'workflows')`).Scan(&exists)
	require.NoError(t, err)
	assert.True(t, exists, "workflows table should exist")

	err = db.QueryRowContext(ctx, `SELECT EXISTS (SELECT FROM
information_schema.tables WHERE table_name = 'workflow_executions')`).Scan(&exists)
	require.NoError(t, err)
	assert.True(t, exists, "workflow_executions table should exist")

	var version int

	err = db.QueryRowContext(ctx, "SELECT version FROM schema_migrations WHERE version = 1").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestNewPersistence_HealthCheck(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	err := p.HealthCheck(ctx)
	assert.NoError(t, err)
}

func TestWorkflowRepository_SaveAndRetrieve(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	workflow := testWorkflow()
	require.NoError(t, p.WorkflowRepository().Save(ctx, workflow))

	found, err := p.WorkflowRepository().GetByID(ctx, workflow.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.Name, found.Name)
	assert.Equal(t, workflow.Trigger, found.Trigger)
	assert.Equal(t, workflow.Conditions, found.Conditions)
	assert.Len(t, found.Actions, 1)
	assert.True(t, found.IsActive)
	assert.Equal(t, 2, found.Priority)
}

func TestWorkflowRepository_GetByID_NotFound(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	_, err := p.WorkflowRepository().GetByID(ctx, uuid.New().String())
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestWorkflowRepository_GetActive_Ordering(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	low := testWorkflow()
	low.Priority = 1
	high := testWorkflow()
	high.Priority = 9
	inactive := testWorkflow()
	inactive.IsActive = false

	for _, wf := range []*models.Workflow{low, high, inactive} {
		require.NoError(t, p.WorkflowRepository().Save(ctx, wf))
	}

	active, err := p.WorkflowRepository().GetActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, high.ID, active[0].ID)
	assert.Equal(t, low.ID, active[1].ID)
}

func TestWorkflowRepository_IncrementExecutionCount(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	workflow := testWorkflow()
	require.NoError(t, p.WorkflowRepository().Save(ctx, workflow))

	require.NoError(t, p.WorkflowRepository().IncrementExecutionCount(ctx, workflow.ID))
	require.NoError(t, p.WorkflowRepository().IncrementExecutionCount(ctx, workflow.ID))

	found, err := p.WorkflowRepository().GetByID(ctx, workflow.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), found.ExecutionCount)
	assert.NotNil(t, found.LastExecutedAt)
}

func TestExecutionRepository_SaveAndRetrieve(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	workflow := testWorkflow()
	require.NoError(t, p.WorkflowRepository().Save(ctx, workflow))

	execution := &models.Execution{
		ID:         uuid.New().String(),
		WorkflowID: workflow.ID,
		EntityType: "appointment",
		EntityID:   "A1",
		Status:     models.ExecutionRunning,
		StartedAt:  time.Now().UTC(),
		Data:       map[string]any{"source": "test"},
	}
	execution.AppendLog("send_email", models.LogSuccess, "Action 'send_email' executed", nil)

	require.NoError(t, p.ExecutionRepository().Save(ctx, execution))

	found, err := p.ExecutionRepository().GetByID(ctx, execution.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionRunning, found.Status)
	require.Len(t, found.Log, 1)
	assert.Equal(t, "send_email", found.Log[0].Action)

	listed, err := p.ExecutionRepository().ListByWorkflow(ctx, workflow.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestExecutionRepository_ListDueForResume(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	workflow := testWorkflow()
	require.NoError(t, p.WorkflowRepository().Save(ctx, workflow))

	now := time.Now().UTC()
	resumeIndex := 1

	due := &models.Execution{
		ID:          uuid.New().String(),
		WorkflowID:  workflow.ID,
		Status:      models.ExecutionRunning,
		StartedAt:   now.Add(-time.Hour),
		ResumeIndex: &resumeIndex,
		ResumeAt:    timePtr(now.Add(-time.Minute)),
	}
	notYet := &models.Execution{
		ID:          uuid.New().String(),
		WorkflowID:  workflow.ID,
		Status:      models.ExecutionRunning,
		StartedAt:   now.Add(-time.Hour),
		ResumeIndex: &resumeIndex,
		ResumeAt:    timePtr(now.Add(time.Hour)),
	}

	require.NoError(t, p.ExecutionRepository().Save(ctx, due))
	require.NoError(t, p.ExecutionRepository().Save(ctx, notYet))

	found, err := p.ExecutionRepository().ListDueForResume(ctx, now)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, due.ID, found[0].ID)
}

func TestEntityRepository_SnapshotEmbedsCustomer(t *testing.T) {
	p, ctx, databaseURL := setupTestDB(t)

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	defer func() {
		err := db.Close()
		require.NoError(t, err)
	}()

	_, err = db.ExecContext(ctx,
		`INSERT INTO customers (id, name, email, phone) VALUES ('C1', 'Ana', 'ana@example.com', '+5511999999999')`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		`INSERT INTO appointments (id, customer_id, status) VALUES ('A1', 'C1', 'confirmed')`)
	require.NoError(t, err)

	snapshot, err := p.EntityRepository().Snapshot(ctx, "appointment", "A1")
	require.NoError(t, err)
	assert.Equal(t, "confirmed", snapshot["status"])

	customer, ok := snapshot["customer"].(map[string]any)
	require.True(t, ok, "appointment snapshot should embed its customer")
	assert.Equal(t, "ana@example.com", customer["email"])
}

func TestEntityRepository_UpdateStatus(t *testing.T) {
	p, ctx, databaseURL := setupTestDB(t)

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	defer func() {
		err := db.Close()
		require.NoError(t, err)
	}()

	_, err = db.ExecContext(ctx, `INSERT INTO customers (id, status) VALUES ('C1', 'lead')`)
	require.NoError(t, err)

	require.NoError(t, p.EntityRepository().UpdateStatus(ctx, "customer", "C1", "active"))

	snapshot, err := p.EntityRepository().Snapshot(ctx, "customer", "C1")
	require.NoError(t, err)
	assert.Equal(t, "active", snapshot["status"])

	err = p.EntityRepository().UpdateStatus(ctx, "invoice", "X1", "paid")
	assert.Error(t, err, "unknown entity types must be rejected")
}

func TestNotificationRepository_Save(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	notification := &models.Notification{
		ID:        uuid.New().String(),
		Title:     "Workflow Notification",
		Message:   "Deposit received",
		Type:      "workflow",
		Priority:  models.NotificationPriorityMedium,
		CreatedAt: time.Now().UTC(),
	}

	assert.NoError(t, p.NotificationRepository().Save(ctx, notification))
}

func timePtr(t time.Time) *time.Time {
	return &t
}
