package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/inkflow/inkflow/pkg/models"
	"github.com/inkflow/inkflow/pkg/persistence"
)

// WorkflowRepository stores workflows as JSON files under <root>/workflows.
type WorkflowRepository struct {
	root string
	mu   sync.RWMutex
}

// NewWorkflowRepository creates a new workflow repository.
func NewWorkflowRepository(root string) *WorkflowRepository {
	return &WorkflowRepository{root: root}
}

// Save writes the workflow to disk, assigning an ID and timestamps as needed.
func (wr *WorkflowRepository) Save(_ context.Context, workflow *models.Workflow) error {
	wr.mu.Lock()
	defer wr.mu.Unlock()

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

	return writeJSON(wr.dir(), workflow.ID, workflow)
}

// GetByID loads one workflow; persistence.ErrWorkflowNotFound when absent.
func (wr *WorkflowRepository) GetByID(_ context.Context, id string) (*models.Workflow, error) {
	wr.mu.RLock()
	defer wr.mu.RUnlock()

	return wr.load(id)
}

// GetAll loads every stored workflow ordered by creation time descending.
func (wr *WorkflowRepository) GetAll(ctx context.Context) ([]*models.Workflow, error) {
	wr.mu.RLock()
	defer wr.mu.RUnlock()

	workflows, err := wr.loadAll()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(workflows, func(i, j int) bool {
		return workflows[i].CreatedAt.After(workflows[j].CreatedAt)
	})

	return workflows, nil
}

// GetActive returns active workflows ordered by priority descending, then
// creation time descending.
func (wr *WorkflowRepository) GetActive(ctx context.Context) ([]*models.Workflow, error) {
	wr.mu.RLock()
	defer wr.mu.RUnlock()

	workflows, err := wr.loadAll()
	if err != nil {
		return nil, err
	}

	active := make([]*models.Workflow, 0, len(workflows))

	for _, workflow := range workflows {
		if workflow.IsActive {
			active = append(active, workflow)
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		if active[i].Priority != active[j].Priority {
			return active[i].Priority > active[j].Priority
		}

		return active[i].CreatedAt.After(active[j].CreatedAt)
	})

	return active, nil
}

// SetActive toggles the workflow's active flag.
func (wr *WorkflowRepository) SetActive(_ context.Context, id string, active bool) error {
	wr.mu.Lock()
	defer wr.mu.Unlock()

	workflow, err := wr.load(id)
	if err != nil {
		return err
	}

	workflow.IsActive = active
	workflow.UpdatedAt = time.Now().UTC()

	return writeJSON(wr.dir(), workflow.ID, workflow)
}

// IncrementExecutionCount bumps the counter and stamps last_executed_at. The
// repository mutex makes the read-modify-write atomic within this process.
func (wr *WorkflowRepository) IncrementExecutionCount(_ context.Context, id string) error {
	wr.mu.Lock()
	defer wr.mu.Unlock()

	workflow, err := wr.load(id)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	workflow.ExecutionCount++
	workflow.LastExecutedAt = &now

	return writeJSON(wr.dir(), workflow.ID, workflow)
}

// Delete removes the workflow file.
func (wr *WorkflowRepository) Delete(_ context.Context, id string) error {
	wr.mu.Lock()
	defer wr.mu.Unlock()

	path := filepath.Join(wr.dir(), id+".json")

	err := os.Remove(path)
	if os.IsNotExist(err) {
		return persistence.NewWorkflowError("Delete", id, persistence.ErrWorkflowNotFound)
	}

	return err
}

func (wr *WorkflowRepository) dir() string {
	return filepath.Join(wr.root, "workflows")
}

func (wr *WorkflowRepository) load(id string) (*models.Workflow, error) {
	var workflow models.Workflow

	err := readJSON(wr.dir(), id, &workflow)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewWorkflowError("GetByID", id, persistence.ErrWorkflowNotFound)
		}

		return nil, persistence.NewWorkflowError("GetByID", id, err)
	}

	return &workflow, nil
}

func (wr *WorkflowRepository) loadAll() ([]*models.Workflow, error) {
	ids, err := listIDs(wr.dir())
	if err != nil {
		return nil, err
	}

	workflows := make([]*models.Workflow, 0, len(ids))

	for _, id := range ids {
		workflow, err := wr.load(id)
		if err != nil {
			return nil, err
		}

		workflows = append(workflows, workflow)
	}

	return workflows, nil
}

// Shared JSON file helpers used by every repository in this package.

func writeJSON(dir, id string, value any) error {
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", id, err)
	}

	path := filepath.Join(dir, id+".json")

	err = os.WriteFile(path, payload, 0o644)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

func readJSON(dir, id string, value any) error {
	payload, err := os.ReadFile(filepath.Join(dir, id+".json"))
	if err != nil {
		return err
	}

	return json.Unmarshal(payload, value)
}

func listIDs(dir string) ([]string, error) {
	files, err := fs.Glob(os.DirFS(dir), "*.json")
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(files))

	for _, file := range files {
		ids = append(ids, file[:len(file)-len(".json")])
	}

	return ids, nil
}
