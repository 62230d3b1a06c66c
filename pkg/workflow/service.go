package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/inkflow/inkflow/pkg/models"
	"github.com/inkflow/inkflow/pkg/persistence"
	"github.com/inkflow/inkflow/pkg/registry"
)

const (
	defaultPriority = 1
)

// Service is the workflow definition store: validation and CRUD over stored
// automation rules.
type Service struct {
	persistence persistence.Persistence
	registry    *registry.Registry
	validator   *validator.Validate
}

// NewService creates a workflow definition service. The registry, when
// present, is used to reject definitions referencing unregistered action
// types and to validate action configs against their schemas.
func NewService(p persistence.Persistence, reg *registry.Registry) *Service {
	return &Service{
		persistence: p,
		registry:    reg,
		validator:   validator.New(),
	}
}

// HealthCheck checks the health of the persistence layer.
func (s *Service) HealthCheck(ctx context.Context) (string, bool) {
	if s.persistence == nil {
		return "Persistence layer not initialized", false
	}

	if err := s.persistence.HealthCheck(ctx); err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// Create validates and persists a new workflow definition. Unset fields get
// their documented defaults: active, priority 1, execution count 0.
func (s *Service) Create(ctx context.Context, workflow *models.Workflow, isActive *bool) (*models.Workflow, error) {
	if workflow == nil {
		return nil, NewValidationError("Create", "workflow cannot be nil", ErrWorkflowNil)
	}

	if err := s.validateDefinition("Create", workflow); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate workflow id: %w", err)
	}

	now := time.Now().UTC()

	workflow.ID = id.String()
	workflow.ExecutionCount = 0
	workflow.LastExecutedAt = nil
	workflow.CreatedAt = now
	workflow.UpdatedAt = now

	workflow.IsActive = true
	if isActive != nil {
		workflow.IsActive = *isActive
	}

	if workflow.Priority == 0 {
		workflow.Priority = defaultPriority
	}

	if err := s.persistence.WorkflowRepository().Save(ctx, workflow); err != nil {
		return nil, fmt.Errorf("failed to save workflow: %w", err)
	}

	return workflow, nil
}

// Update replaces the definition stored under id, preserving creation time
// and execution counters.
func (s *Service) Update(ctx context.Context, id string, workflow *models.Workflow) (*models.Workflow, error) {
	if workflow == nil {
		return nil, NewValidationError("Update", "workflow cannot be nil", ErrWorkflowNil)
	}

	existing, err := s.persistence.WorkflowRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validateDefinition("Update", workflow); err != nil {
		return nil, err
	}

	workflow.ID = id
	workflow.ExecutionCount = existing.ExecutionCount
	workflow.LastExecutedAt = existing.LastExecutedAt
	workflow.CreatedAt = existing.CreatedAt
	workflow.UpdatedAt = time.Now().UTC()

	if workflow.Priority == 0 {
		workflow.Priority = existing.Priority
	}

	if err := s.persistence.WorkflowRepository().Save(ctx, workflow); err != nil {
		return nil, fmt.Errorf("failed to save workflow: %w", err)
	}

	return workflow, nil
}

// Get fetches one workflow definition by id.
func (s *Service) Get(ctx context.Context, id string) (*models.Workflow, error) {
	return s.persistence.WorkflowRepository().GetByID(ctx, id)
}

// List returns all stored workflow definitions.
func (s *Service) List(ctx context.Context) ([]*models.Workflow, error) {
	return s.persistence.WorkflowRepository().GetAll(ctx)
}

// ListActive returns active workflows ordered by priority descending, then
// creation time descending.
func (s *Service) ListActive(ctx context.Context) ([]*models.Workflow, error) {
	return s.persistence.WorkflowRepository().GetActive(ctx)
}

// SetActive activates or deactivates a workflow.
func (s *Service) SetActive(ctx context.Context, id string, active bool) error {
	return s.persistence.WorkflowRepository().SetActive(ctx, id, active)
}

// Delete removes a workflow definition.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.persistence.WorkflowRepository().Delete(ctx, id)
}

// Executions lists the execution records of one workflow.
func (s *Service) Executions(ctx context.Context, workflowID string) ([]*models.Execution, error) {
	if _, err := s.persistence.WorkflowRepository().GetByID(ctx, workflowID); err != nil {
		return nil, err
	}

	return s.persistence.ExecutionRepository().ListByWorkflow(ctx, workflowID)
}

// Execution fetches one execution record by id.
func (s *Service) Execution(ctx context.Context, id string) (*models.Execution, error) {
	return s.persistence.ExecutionRepository().GetByID(ctx, id)
}

func (s *Service) validateDefinition(op string, workflow *models.Workflow) error {
	if err := s.validator.Struct(workflow); err != nil {
		return NewValidationError(op, err.Error(), ErrInvalidDefinition)
	}

	if !workflow.Trigger.Kind.Valid() {
		return NewValidationError(op,
			fmt.Sprintf("unknown trigger kind '%s'", workflow.Trigger.Kind),
			ErrInvalidTriggerKind)
	}

	for i, condition := range workflow.Conditions {
		if !knownOperator(condition.Operator) {
			return NewValidationError(op,
				fmt.Sprintf("condition %d has unknown operator '%s'", i, condition.Operator),
				ErrInvalidOperator)
		}
	}

	for i, action := range workflow.Actions {
		if !action.Type.Valid() {
			return NewValidationError(op,
				fmt.Sprintf("action %d has unknown type '%s'", i, action.Type),
				ErrInvalidActionType)
		}

		if action.Condition != nil && !knownOperator(action.Condition.Operator) {
			return NewValidationError(op,
				fmt.Sprintf("action %d condition has unknown operator '%s'", i, action.Condition.Operator),
				ErrInvalidOperator)
		}

		if s.registry != nil {
			if !s.registry.IsActionRegistered(string(action.Type)) {
				return NewValidationError(op,
					fmt.Sprintf("action %d type '%s' is not registered", i, action.Type),
					ErrInvalidActionType)
			}

			if err := s.registry.ValidateActionConfig(string(action.Type), action.Config); err != nil {
				return NewValidationError(op, err.Error(), ErrInvalidDefinition)
			}
		}
	}

	return nil
}

func knownOperator(op models.Operator) bool {
	switch op {
	case models.OperatorEquals, models.OperatorNotEquals,
		models.OperatorGreaterThan, models.OperatorLessThan,
		models.OperatorContains, models.OperatorNotContains,
		models.OperatorIsNull, models.OperatorIsNotNull,
		models.OperatorIn, models.OperatorNotIn:
		return true
	default:
		return false
	}
}
