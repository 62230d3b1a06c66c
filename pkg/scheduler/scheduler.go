// Package scheduler runs schedule-kind workflow triggers and resumes
// executions suspended on deferred action delays.
package scheduler

import (
	"context"

	"github.com/inkflow/inkflow/pkg/models"
)

// Executor starts workflow executions. Implemented by the workflow engine.
type Executor interface {
	ExecuteWorkflow(ctx context.Context, workflowID, entityType, entityID string, data map[string]any) (*models.Execution, error)
}

// Resumer continues suspended executions. Implemented by the workflow engine.
type Resumer interface {
	ResumeExecution(ctx context.Context, executionID string) (*models.Execution, error)
}
