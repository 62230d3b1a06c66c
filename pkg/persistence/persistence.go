// Package persistence provides the data storage abstraction for workflows,
// executions, notifications and business entity snapshots.
package persistence

import (
	"context"
	"time"

	"github.com/inkflow/inkflow/pkg/models"
)

// Persistence is the storage entry point. Implementations exist for
// PostgreSQL (production) and the local file system (development, tests).
type Persistence interface {
	WorkflowRepository() WorkflowRepository
	ExecutionRepository() ExecutionRepository
	EntityRepository() EntityRepository
	NotificationRepository() NotificationRepository

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// WorkflowRepository stores workflow definitions.
type WorkflowRepository interface {
	Save(ctx context.Context, workflow *models.Workflow) error
	GetByID(ctx context.Context, id string) (*models.Workflow, error)
	GetAll(ctx context.Context) ([]*models.Workflow, error)

	// GetActive returns active workflows ordered by priority descending,
	// then creation time descending.
	GetActive(ctx context.Context) ([]*models.Workflow, error)

	SetActive(ctx context.Context, id string, active bool) error

	// IncrementExecutionCount atomically bumps the execution counter and
	// stamps last_executed_at. Called once per terminal execution that
	// attempted its actions: completions whose workflow-level conditions were
	// not met do not count, failures do.
	IncrementExecutionCount(ctx context.Context, id string) error

	Delete(ctx context.Context, id string) error
}

// ExecutionRepository stores workflow execution records and their logs.
type ExecutionRepository interface {
	Save(ctx context.Context, execution *models.Execution) error
	GetByID(ctx context.Context, id string) (*models.Execution, error)
	ListByWorkflow(ctx context.Context, workflowID string) ([]*models.Execution, error)

	// ListDueForResume returns executions suspended on a deferred delay whose
	// resume time is at or before the given instant.
	ListDueForResume(ctx context.Context, now time.Time) ([]*models.Execution, error)
}

// EntityRepository loads and updates the business entities workflows act on
// (appointments, customers, payments, tattoo requests).
type EntityRepository interface {
	// Snapshot returns the entity as a generic document including its direct
	// foreign relation (an appointment snapshot embeds its customer).
	Snapshot(ctx context.Context, entityType, entityID string) (map[string]any, error)

	UpdateStatus(ctx context.Context, entityType, entityID, status string) error
}

// NotificationRepository stores in-app notifications produced by actions.
type NotificationRepository interface {
	Save(ctx context.Context, notification *models.Notification) error
}
