package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/inkflow/inkflow/pkg/models"
	"github.com/inkflow/inkflow/pkg/persistence"
)

// WorkflowRepository handles workflow-related database operations.
type WorkflowRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewWorkflowRepository creates a new workflow repository.
func NewWorkflowRepository(db *sql.DB, logger *slog.Logger) *WorkflowRepository {
	return &WorkflowRepository{db: db, logger: logger}
}

const workflowColumns = `
	id
  , name
  , description
  , trigger
  , conditions
  , actions
  , is_active
  , priority
  , execution_count
  , last_executed_at
  , created_at
  , updated_at
`

// Save inserts or updates a workflow.
func (r *WorkflowRepository) Save(ctx context.Context, workflow *models.Workflow) error {
	now := time.Now().UTC()

	if workflow.CreatedAt.IsZero() {
		workflow.CreatedAt = now
	}

	workflow.UpdatedAt = now

	if workflow.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate workflow ID: %w", err)
		}

		workflow.ID = id.String()
	}

	triggerJSON, err := json.Marshal(workflow.Trigger)
	if err != nil {
		return fmt.Errorf("failed to marshal trigger: %w", err)
	}

	conditionsJSON, err := json.Marshal(nonNilConditions(workflow.Conditions))
	if err != nil {
		return fmt.Errorf("failed to marshal conditions: %w", err)
	}

	actionsJSON, err := json.Marshal(workflow.Actions)
	if err != nil {
		return fmt.Errorf("failed to marshal actions: %w", err)
	}

	query := `
		INSERT INTO workflows (
			id, name, description, trigger, conditions, actions,
			is_active, priority, execution_count, last_executed_at,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			trigger = EXCLUDED.trigger,
			conditions = EXCLUDED.conditions,
			actions = EXCLUDED.actions,
			is_active = EXCLUDED.is_active,
			priority = EXCLUDED.priority,
			updated_at = EXCLUDED.updated_at
	`

	_, err = r.db.ExecContext(ctx, query,
		workflow.ID,
		workflow.Name,
		workflow.Description,
		triggerJSON,
		conditionsJSON,
		actionsJSON,
		workflow.IsActive,
		workflow.Priority,
		workflow.ExecutionCount,
		workflow.LastExecutedAt,
		workflow.CreatedAt,
		workflow.UpdatedAt,
	)
	if err != nil {
		return persistence.NewWorkflowError("Save", workflow.ID, err)
	}

	return nil
}

// GetByID returns a workflow by its identifier.
func (r *WorkflowRepository) GetByID(ctx context.Context, id string) (*models.Workflow, error) {
	query := `SELECT ` + workflowColumns + ` FROM workflows WHERE id = $1`

	workflow, err := scanWorkflow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewWorkflowError("GetByID", id, persistence.ErrWorkflowNotFound)
		}

		return nil, persistence.NewWorkflowError("GetByID", id, err)
	}

	return workflow, nil
}

// GetAll returns all workflows ordered by creation time descending.
func (r *WorkflowRepository) GetAll(ctx context.Context) ([]*models.Workflow, error) {
	query := `SELECT ` + workflowColumns + ` FROM workflows ORDER BY created_at DESC`

	return r.queryWorkflows(ctx, query)
}

// GetActive returns active workflows ordered by priority descending, then
// creation time descending.
func (r *WorkflowRepository) GetActive(ctx context.Context) ([]*models.Workflow, error) {
	query := `
		SELECT ` + workflowColumns + `
		FROM workflows
		WHERE is_active = TRUE
		ORDER BY priority DESC, created_at DESC
	`

	return r.queryWorkflows(ctx, query)
}

// SetActive toggles the active flag of a workflow.
func (r *WorkflowRepository) SetActive(ctx context.Context, id string, active bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE workflows SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return persistence.NewWorkflowError("SetActive", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return persistence.NewWorkflowError("SetActive", id, err)
	}

	if affected == 0 {
		return persistence.NewWorkflowError("SetActive", id, persistence.ErrWorkflowNotFound)
	}

	return nil
}

// IncrementExecutionCount bumps the counter atomically in a single statement,
// so concurrent triggers of the same workflow never lose updates.
func (r *WorkflowRepository) IncrementExecutionCount(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE workflows
		SET execution_count = execution_count + 1,
		    last_executed_at = NOW()
		WHERE id = $1
	`, id)
	if err != nil {
		return persistence.NewWorkflowError("IncrementExecutionCount", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return persistence.NewWorkflowError("IncrementExecutionCount", id, err)
	}

	if affected == 0 {
		return persistence.NewWorkflowError("IncrementExecutionCount", id, persistence.ErrWorkflowNotFound)
	}

	return nil
}

// Delete removes a workflow and, via cascade, its executions.
func (r *WorkflowRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM workflows WHERE id = $1`, id)
	if err != nil {
		return persistence.NewWorkflowError("Delete", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return persistence.NewWorkflowError("Delete", id, err)
	}

	if affected == 0 {
		return persistence.NewWorkflowError("Delete", id, persistence.ErrWorkflowNotFound)
	}

	return nil
}

func (r *WorkflowRepository) queryWorkflows(ctx context.Context, query string, args ...any) ([]*models.Workflow, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query workflows: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	workflows := make([]*models.Workflow, 0)

	for rows.Next() {
		workflow, err := scanWorkflow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workflow: %w", err)
		}

		workflows = append(workflows, workflow)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating workflows: %w", err)
	}

	return workflows, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkflow(row rowScanner) (*models.Workflow, error) {
	var (
		workflow       models.Workflow
		triggerJSON    []byte
		conditionsJSON []byte
		actionsJSON    []byte
		lastExecutedAt sql.NullTime
	)

	err := row.Scan(
		&workflow.ID,
		&workflow.Name,
		&workflow.Description,
		&triggerJSON,
		&conditionsJSON,
		&actionsJSON,
		&workflow.IsActive,
		&workflow.Priority,
		&workflow.ExecutionCount,
		&lastExecutedAt,
		&workflow.CreatedAt,
		&workflow.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	err = json.Unmarshal(triggerJSON, &workflow.Trigger)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal trigger: %w", err)
	}

	err = json.Unmarshal(conditionsJSON, &workflow.Conditions)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal conditions: %w", err)
	}

	err = json.Unmarshal(actionsJSON, &workflow.Actions)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal actions: %w", err)
	}

	if lastExecutedAt.Valid {
		workflow.LastExecutedAt = &lastExecutedAt.Time
	}

	return &workflow, nil
}

func nonNilConditions(conditions []models.Condition) []models.Condition {
	if conditions == nil {
		return []models.Condition{}
	}

	return conditions
}
