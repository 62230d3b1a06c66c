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

// ExecutionRepository handles workflow execution records.
type ExecutionRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewExecutionRepository creates a new execution repository.
func NewExecutionRepository(db *sql.DB, logger *slog.Logger) *ExecutionRepository {
	return &ExecutionRepository{db: db, logger: logger}
}

const executionColumns = `
	id
  , workflow_id
  , entity_id
  , entity_type
  , status
  , started_at
  , completed_at
  , error_message
  , log
  , data
  , resume_index
  , resume_at
`

// Save inserts or updates an execution record with its full log.
func (r *ExecutionRepository) Save(ctx context.Context, execution *models.Execution) error {
	if execution.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate execution ID: %w", err)
		}

		execution.ID = id.String()
	}

	logJSON, err := json.Marshal(nonNilLog(execution.Log))
	if err != nil {
		return fmt.Errorf("failed to marshal execution log: %w", err)
	}

	dataJSON, err := json.Marshal(nonNilData(execution.Data))
	if err != nil {
		return fmt.Errorf("failed to marshal execution data: %w", err)
	}

	query := `
		INSERT INTO workflow_executions (
			id, workflow_id, entity_id, entity_type, status,
			started_at, completed_at, error_message, log, data,
			resume_index, resume_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			completed_at = EXCLUDED.completed_at,
			error_message = EXCLUDED.error_message,
			log = EXCLUDED.log,
			resume_index = EXCLUDED.resume_index,
			resume_at = EXCLUDED.resume_at
	`

	_, err = r.db.ExecContext(ctx, query,
		execution.ID,
		execution.WorkflowID,
		execution.EntityID,
		execution.EntityType,
		execution.Status,
		execution.StartedAt,
		execution.CompletedAt,
		execution.ErrorMessage,
		logJSON,
		dataJSON,
		execution.ResumeIndex,
		execution.ResumeAt,
	)
	if err != nil {
		return &persistence.ExecutionError{Op: "Save", ExecutionID: execution.ID, Err: err}
	}

	return nil
}

// GetByID returns an execution by its identifier.
func (r *ExecutionRepository) GetByID(ctx context.Context, id string) (*models.Execution, error) {
	query := `SELECT ` + executionColumns + ` FROM workflow_executions WHERE id = $1`

	execution, err := scanExecution(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &persistence.ExecutionError{Op: "GetByID", ExecutionID: id, Err: persistence.ErrExecutionNotFound}
		}

		return nil, &persistence.ExecutionError{Op: "GetByID", ExecutionID: id, Err: err}
	}

	return execution, nil
}

// ListByWorkflow returns executions of one workflow, newest first.
func (r *ExecutionRepository) ListByWorkflow(ctx context.Context, workflowID string) ([]*models.Execution, error) {
	query := `
		SELECT ` + executionColumns + `
		FROM workflow_executions
		WHERE workflow_id = $1
		ORDER BY started_at DESC
	`

	return r.queryExecutions(ctx, query, workflowID)
}

// ListDueForResume returns suspended executions whose resume time has passed.
func (r *ExecutionRepository) ListDueForResume(ctx context.Context, now time.Time) ([]*models.Execution, error) {
	query := `
		SELECT ` + executionColumns + `
		FROM workflow_executions
		WHERE resume_at IS NOT NULL AND resume_at <= $1 AND status = $2
		ORDER BY resume_at
	`

	return r.queryExecutions(ctx, query, now, models.ExecutionRunning)
}

func (r *ExecutionRepository) queryExecutions(ctx context.Context, query string, args ...any) ([]*models.Execution, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query executions: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	executions := make([]*models.Execution, 0)

	for rows.Next() {
		execution, err := scanExecution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution: %w", err)
		}

		executions = append(executions, execution)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating executions: %w", err)
	}

	return executions, nil
}

func scanExecution(row rowScanner) (*models.Execution, error) {
	var (
		execution   models.Execution
		completedAt sql.NullTime
		logJSON     []byte
		dataJSON    []byte
		resumeIndex sql.NullInt64
		resumeAt    sql.NullTime
	)

	err := row.Scan(
		&execution.ID,
		&execution.WorkflowID,
		&execution.EntityID,
		&execution.EntityType,
		&execution.Status,
		&execution.StartedAt,
		&completedAt,
		&execution.ErrorMessage,
		&logJSON,
		&dataJSON,
		&resumeIndex,
		&resumeAt,
	)
	if err != nil {
		return nil, err
	}

	err = json.Unmarshal(logJSON, &execution.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal execution log: %w", err)
	}

	err = json.Unmarshal(dataJSON, &execution.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal execution data: %w", err)
	}

	if completedAt.Valid {
		execution.CompletedAt = &completedAt.Time
	}

	if resumeIndex.Valid {
		index := int(resumeIndex.Int64)
		execution.ResumeIndex = &index
	}

	if resumeAt.Valid {
		execution.ResumeAt = &resumeAt.Time
	}

	return &execution, nil
}

func nonNilLog(log []models.ExecutionLogEntry) []models.ExecutionLogEntry {
	if log == nil {
		return []models.ExecutionLogEntry{}
	}

	return log
}

func nonNilData(data map[string]any) map[string]any {
	if data == nil {
		return map[string]any{}
	}

	return data
}
