// Package file provides file-based persistence for development and tests.
package file

import (
	"context"
	"os"
	"strings"

	"github.com/inkflow/inkflow/pkg/persistence"
)

// Persistence implements persistence.Persistence on top of JSON files under a
// root directory. It is not safe for concurrent writers across processes and
// exists for local development and tests.
type Persistence struct {
	root             string
	workflowRepo     *WorkflowRepository
	executionRepo    *ExecutionRepository
	entityRepo       *EntityRepository
	notificationRepo *NotificationRepository
}

// NewPersistence creates a file persistence layer rooted at the given
// directory. A "file://" prefix is stripped if present.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:             cleanRoot,
		workflowRepo:     NewWorkflowRepository(cleanRoot),
		executionRepo:    NewExecutionRepository(cleanRoot),
		entityRepo:       NewEntityRepository(cleanRoot),
		notificationRepo: NewNotificationRepository(cleanRoot),
	}
}

// WorkflowRepository returns the workflow repository.
func (fp *Persistence) WorkflowRepository() persistence.WorkflowRepository {
	return fp.workflowRepo
}

// ExecutionRepository returns the execution repository.
func (fp *Persistence) ExecutionRepository() persistence.ExecutionRepository {
	return fp.executionRepo
}

// EntityRepository returns the entity repository.
func (fp *Persistence) EntityRepository() persistence.EntityRepository {
	return fp.entityRepo
}

// NotificationRepository returns the notification repository.
func (fp *Persistence) NotificationRepository() persistence.NotificationRepository {
	return fp.notificationRepo
}

// HealthCheck verifies the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// Close performs any necessary cleanup. There is nothing to clean up for
// file persistence.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}
