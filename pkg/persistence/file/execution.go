package file

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/inkflow/inkflow/pkg/models"
	"github.com/inkflow/inkflow/pkg/persistence"
)

// ExecutionRepository stores executions as JSON files under <root>/executions.
type ExecutionRepository struct {
	root string
	mu   sync.RWMutex
}

// NewExecutionRepository creates a new execution repository.
func NewExecutionRepository(root string) *ExecutionRepository {
	return &ExecutionRepository{root: root}
}

// Save writes the execution record, assigning an ID if needed.
func (er *ExecutionRepository) Save(_ context.Context, execution *models.Execution) error {
	er.mu.Lock()
	defer er.mu.Unlock()

	if execution.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate execution ID: %w", err)
		}

		execution.ID = id.String()
	}

	return writeJSON(er.dir(), execution.ID, execution)
}

// GetByID loads one execution; persistence.ErrExecutionNotFound when absent.
func (er *ExecutionRepository) GetByID(_ context.Context, id string) (*models.Execution, error) {
	er.mu.RLock()
	defer er.mu.RUnlock()

	return er.load(id)
}

// ListByWorkflow returns the workflow's executions, newest first.
func (er *ExecutionRepository) ListByWorkflow(_ context.Context, workflowID string) ([]*models.Execution, error) {
	er.mu.RLock()
	defer er.mu.RUnlock()

	executions, err := er.loadAll()
	if err != nil {
		return nil, err
	}

	matched := make([]*models.Execution, 0)

	for _, execution := range executions {
		if execution.WorkflowID == workflowID {
			matched = append(matched, execution)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].StartedAt.After(matched[j].StartedAt)
	})

	return matched, nil
}

// ListDueForResume returns suspended executions whose resume time has passed.
func (er *ExecutionRepository) ListDueForResume(_ context.Context, now time.Time) ([]*models.Execution, error) {
	er.mu.RLock()
	defer er.mu.RUnlock()

	executions, err := er.loadAll()
	if err != nil {
		return nil, err
	}

	due := make([]*models.Execution, 0)

	for _, execution := range executions {
		if execution.Status != models.ExecutionRunning || execution.ResumeAt == nil {
			continue
		}

		if !execution.ResumeAt.After(now) {
			due = append(due, execution)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].ResumeAt.Before(*due[j].ResumeAt)
	})

	return due, nil
}

func (er *ExecutionRepository) dir() string {
	return er.root + "/executions"
}

func (er *ExecutionRepository) load(id string) (*models.Execution, error) {
	var execution models.Execution

	err := readJSON(er.dir(), id, &execution)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &persistence.ExecutionError{Op: "GetByID", ExecutionID: id, Err: persistence.ErrExecutionNotFound}
		}

		return nil, &persistence.ExecutionError{Op: "GetByID", ExecutionID: id, Err: err}
	}

	return &execution, nil
}

func (er *ExecutionRepository) loadAll() ([]*models.Execution, error) {
	ids, err := listIDs(er.dir())
	if err != nil {
		return nil, err
	}

	executions := make([]*models.Execution, 0, len(ids))

	for _, id := range ids {
		execution, err := er.load(id)
		if err != nil {
			return nil, err
		}

		executions = append(executions, execution)
	}

	return executions, nil
}
