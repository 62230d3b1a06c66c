package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	waitaction "github.com/inkflow/inkflow/pkg/actions/wait"
	"github.com/inkflow/inkflow/pkg/conditions"
	"github.com/inkflow/inkflow/pkg/entity"
	"github.com/inkflow/inkflow/pkg/eventbus"
	"github.com/inkflow/inkflow/pkg/events"
	"github.com/inkflow/inkflow/pkg/models"
	"github.com/inkflow/inkflow/pkg/otelhelper"
	"github.com/inkflow/inkflow/pkg/persistence"
	"github.com/inkflow/inkflow/pkg/registry"
)

// DefaultDelayCap bounds the synchronous sleep used for action delays when no
// delay scheduler is wired. With a scheduler, configured delays are honored in
// full through a deferred resume instead.
const DefaultDelayCap = 5 * time.Second

// DelayScheduler defers the continuation of a suspended execution. Schedule
// must arrange for ResumeExecution(executionID) to be called at resumeAt.
type DelayScheduler interface {
	Schedule(ctx context.Context, executionID string, resumeAt time.Time) error
}

// Engine orchestrates workflow execution: trigger matching, condition
// evaluation, ordered action dispatch and execution-log bookkeeping.
type Engine struct {
	persistence persistence.Persistence
	registry    *registry.Registry
	loader      *entity.Loader
	publisher   eventbus.EventPublisher
	scheduler   DelayScheduler
	tracer      trace.Tracer
	logger      *slog.Logger
	delayCap    time.Duration
}

// Option configures optional engine collaborators.
type Option func(*Engine)

// WithEventPublisher makes the engine announce execution lifecycle events.
func WithEventPublisher(publisher eventbus.EventPublisher) Option {
	return func(e *Engine) { e.publisher = publisher }
}

// WithDelayScheduler enables deferred action delays: instead of sleeping, the
// engine suspends the execution and schedules its resume.
func WithDelayScheduler(scheduler DelayScheduler) Option {
	return func(e *Engine) { e.scheduler = scheduler }
}

// WithDelayCap sets the bound on synchronous delay sleeps.
func WithDelayCap(cap time.Duration) Option {
	return func(e *Engine) {
		if cap > 0 {
			e.delayCap = cap
		}
	}
}

// WithTracer sets the tracer used for execution and action spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) { e.tracer = tracer }
}

// NewEngine creates a workflow engine on top of the given storage and action
// registry.
func NewEngine(p persistence.Persistence, reg *registry.Registry, logger *slog.Logger, opts ...Option) *Engine {
	engine := &Engine{
		persistence: p,
		registry:    reg,
		loader:      entity.NewLoader(p.EntityRepository(), logger),
		tracer:      noop.NewTracerProvider().Tracer("workflow-engine"),
		logger:      logger.With("module", "workflow_engine"),
		delayCap:    DefaultDelayCap,
	}

	for _, opt := range opts {
		opt(engine)
	}

	return engine
}

// TriggerWorkflows runs every active workflow whose event trigger matches the
// given application event, in priority order. A failing workflow is logged
// and does not prevent the remaining matches from running; the returned slice
// holds the execution record of every workflow that was attempted.
func (e *Engine) TriggerWorkflows(ctx context.Context, event, entityType, entityID string, data map[string]any) ([]*models.Execution, error) {
	logger := e.logger.With(
		"event", event,
		"entity_type", entityType,
		"entity_id", entityID,
	)

	workflows, err := e.persistence.WorkflowRepository().GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active workflows: %w", err)
	}

	executions := make([]*models.Execution, 0)

	// GetActive already orders by priority descending, then creation time
	// descending.
	for _, workflow := range workflows {
		if !workflow.Matches(event, entityType) {
			continue
		}

		logger.InfoContext(ctx, "Workflow matched event",
			"workflow_id", workflow.ID,
			"workflow_name", workflow.Name,
			"priority", workflow.Priority,
		)

		execution, err := e.ExecuteWorkflow(ctx, workflow.ID, entityType, entityID, data)
		if err != nil {
			logger.ErrorContext(ctx, "Workflow execution failed",
				"workflow_id", workflow.ID,
				"error", err,
			)
		}

		if execution != nil {
			executions = append(executions, execution)
		}
	}

	return executions, nil
}

// ExecuteWorkflow runs one workflow against one entity, driving the execution
// record from pending through a terminal state (or suspending it on a
// deferred delay). Structural failures mark the execution failed and are
// returned; individual action failures are logged into the execution and
// swallowed.
func (e *Engine) ExecuteWorkflow(ctx context.Context, workflowID, entityType, entityID string, data map[string]any) (*models.Execution, error) {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "workflow.execute",
		attribute.String(otelhelper.WorkflowIDKey, workflowID),
		attribute.String(otelhelper.EntityTypeKey, entityType),
		attribute.String(otelhelper.EntityIDKey, entityID),
	)
	defer span.End()

	workflow, err := e.persistence.WorkflowRepository().GetByID(ctx, workflowID)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	if !workflow.IsActive {
		err := fmt.Errorf("workflow %s: %w", workflowID, ErrWorkflowInactive)
		otelhelper.SetError(span, err)

		return nil, err
	}

	execution := &models.Execution{
		ID:         newExecutionID(),
		WorkflowID: workflow.ID,
		EntityID:   entityID,
		EntityType: entityType,
		Status:     models.ExecutionPending,
		StartedAt:  time.Now().UTC(),
		Data:       data,
	}

	span.SetAttributes(attribute.String(otelhelper.ExecutionIDKey, execution.ID))

	if err := e.persistence.ExecutionRepository().Save(ctx, execution); err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to create execution record: %w", err)
	}

	execution.Status = models.ExecutionRunning
	if err := e.persistence.ExecutionRepository().Save(ctx, execution); err != nil {
		return execution, e.failExecution(ctx, execution, span, err)
	}

	e.publishStarted(ctx, execution)

	logger := e.logger.With(
		"workflow_id", workflow.ID,
		"execution_id", execution.ID,
	)
	logger.InfoContext(ctx, "Workflow execution started",
		"entity_type", entityType,
		"entity_id", entityID,
	)

	combined, loadErr := e.loader.CombinedData(ctx, entityType, entityID, data)

	// An unreadable entity snapshot conservatively counts as conditions not
	// met, so no action fires against absent data.
	if loadErr != nil || !conditions.Evaluate(workflow.Conditions, combined) {
		message := "Workflow conditions not met"
		if loadErr != nil {
			message = "Workflow conditions not met: entity snapshot unavailable"
		}

		execution.AppendLog(models.LogActionConditionsCheck, models.LogSkipped, message, nil)

		return execution, e.completeExecution(ctx, execution, workflow, span, false)
	}

	suspended, err := e.runActions(ctx, workflow, execution, combined, 0, false)
	if err != nil {
		return execution, e.failExecution(ctx, execution, span, err)
	}

	if suspended {
		return execution, nil
	}

	return execution, e.completeExecution(ctx, execution, workflow, span, true)
}

// ResumeExecution continues a suspended execution at its recorded action
// index after a deferred delay has elapsed.
func (e *Engine) ResumeExecution(ctx context.Context, executionID string) (*models.Execution, error) {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "workflow.resume",
		attribute.String(otelhelper.ExecutionIDKey, executionID),
	)
	defer span.End()

	execution, err := e.persistence.ExecutionRepository().GetByID(ctx, executionID)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	if execution.Status != models.ExecutionRunning || execution.ResumeIndex == nil {
		return execution, nil
	}

	workflow, err := e.persistence.WorkflowRepository().GetByID(ctx, execution.WorkflowID)
	if err != nil {
		return execution, e.failExecution(ctx, execution, span, err)
	}

	resumeIndex := *execution.ResumeIndex
	execution.ResumeIndex = nil
	execution.ResumeAt = nil

	e.logger.InfoContext(ctx, "Resuming suspended execution",
		"execution_id", execution.ID,
		"workflow_id", workflow.ID,
		"action_index", resumeIndex,
	)

	combined, loadErr := e.loader.CombinedData(ctx, execution.EntityType, execution.EntityID, execution.Data)
	if loadErr != nil {
		return execution, e.failExecution(ctx, execution, span, fmt.Errorf("failed to reload entity data: %w", loadErr))
	}

	suspended, err := e.runActions(ctx, workflow, execution, combined, resumeIndex, true)
	if err != nil {
		return execution, e.failExecution(ctx, execution, span, err)
	}

	if suspended {
		return execution, nil
	}

	return execution, e.completeExecution(ctx, execution, workflow, span, true)
}

// runActions drives the ordered action list starting at the given index. A
// true suspended result means the execution was parked on a deferred delay
// and persisted; the caller must not touch it further.
func (e *Engine) runActions(ctx context.Context, workflow *models.Workflow, execution *models.Execution, data map[string]any, start int, skipFirstDelay bool) (bool, error) {
	for i := start; i < len(workflow.Actions); i++ {
		action := workflow.Actions[i]

		// A false action condition skips the action outright, its delay
		// included, so a gated action never parks or sleeps the execution.
		if action.Condition != nil && !conditions.EvaluateOne(*action.Condition, data) {
			execution.AppendLog(string(action.Type), models.LogSkipped, "Action condition not met", nil)

			continue
		}

		delay := e.actionDelay(action)
		if delay > 0 && !(skipFirstDelay && i == start) {
			suspended, err := e.handleDelay(ctx, execution, i, delay)
			if err != nil {
				return false, err
			}

			if suspended {
				return true, nil
			}
		}

		e.executeAction(ctx, execution, action, i, data)
	}

	return false, nil
}

// actionDelay returns how long to pause before an action: its configured
// delay plus, for wait actions, the wait duration itself.
func (e *Engine) actionDelay(action models.Action) time.Duration {
	minutes := action.DelayMinutes
	if action.Type == models.ActionWait {
		minutes += waitaction.Minutes(action.Config)
	}

	return time.Duration(minutes) * time.Minute
}

// handleDelay either parks the execution for a deferred resume or sleeps,
// capped, in place. The returned flag reports suspension.
func (e *Engine) handleDelay(ctx context.Context, execution *models.Execution, actionIndex int, delay time.Duration) (bool, error) {
	if e.scheduler != nil {
		resumeAt := time.Now().UTC().Add(delay)

		execution.ResumeIndex = &actionIndex
		execution.ResumeAt = &resumeAt
		execution.AppendLog(models.LogActionDelay, models.LogSuccess,
			fmt.Sprintf("Execution suspended for %s, resuming at action %d", delay, actionIndex), nil)

		if err := e.persistence.ExecutionRepository().Save(ctx, execution); err != nil {
			return false, fmt.Errorf("failed to suspend execution: %w", err)
		}

		if err := e.scheduler.Schedule(ctx, execution.ID, resumeAt); err != nil {
			// The resume poller recovers suspended executions from storage,
			// so a queue failure is not fatal.
			e.logger.WarnContext(ctx, "Failed to enqueue execution resume",
				"execution_id", execution.ID,
				"error", err,
			)
		}

		return true, nil
	}

	capped := delay
	if capped > e.delayCap {
		capped = e.delayCap
	}

	execution.AppendLog(models.LogActionDelay, models.LogSuccess,
		fmt.Sprintf("Delaying action %d by %s (configured %s)", actionIndex, capped, delay), nil)

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-time.After(capped):
	}

	return false, nil
}

// executeAction runs one action and records its outcome in the execution
// log. Failures are recorded and swallowed so the remaining actions still
// run.
func (e *Engine) executeAction(ctx context.Context, execution *models.Execution, action models.Action, index int, data map[string]any) {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "workflow.action",
		attribute.String(otelhelper.ActionTypeKey, string(action.Type)),
		attribute.Int(otelhelper.ActionIndexKey, index),
		attribute.String(otelhelper.ExecutionIDKey, execution.ID),
	)
	defer span.End()

	result, err := e.dispatch(ctx, execution, action, data)
	if err != nil {
		otelhelper.SetError(span, err)
		e.logger.WarnContext(ctx, "Action failed",
			"execution_id", execution.ID,
			"action_type", action.Type,
			"action_index", index,
			"error", err,
		)
		execution.AppendLog(string(action.Type), models.LogError, err.Error(), nil)

		return
	}

	execution.AppendLog(string(action.Type), models.LogSuccess,
		fmt.Sprintf("Action '%s' executed", action.Type), result)
}

func (e *Engine) dispatch(ctx context.Context, execution *models.Execution, action models.Action, data map[string]any) (map[string]any, error) {
	instance, err := e.registry.CreateAction(string(action.Type), action.Config)
	if err != nil {
		return nil, err
	}

	return instance.Execute(ctx, models.ActionContext{
		ExecutionID: execution.ID,
		WorkflowID:  execution.WorkflowID,
		EntityType:  execution.EntityType,
		EntityID:    execution.EntityID,
		Data:        data,
	}, e.logger)
}

// completeExecution moves the execution to completed and, when actions ran,
// bumps the workflow's execution counter.
func (e *Engine) completeExecution(ctx context.Context, execution *models.Execution, workflow *models.Workflow, span trace.Span, countRun bool) error {
	now := time.Now().UTC()
	execution.Status = models.ExecutionCompleted
	execution.CompletedAt = &now
	execution.ResumeIndex = nil
	execution.ResumeAt = nil

	if err := e.persistence.ExecutionRepository().Save(ctx, execution); err != nil {
		otelhelper.SetError(span, err)

		return fmt.Errorf("failed to save completed execution: %w", err)
	}

	if countRun {
		if err := e.persistence.WorkflowRepository().IncrementExecutionCount(ctx, workflow.ID); err != nil {
			e.logger.WarnContext(ctx, "Failed to increment execution count",
				"workflow_id", workflow.ID,
				"error", err,
			)
		}
	}

	e.publishCompleted(ctx, execution)
	e.logger.InfoContext(ctx, "Workflow execution completed",
		"workflow_id", execution.WorkflowID,
		"execution_id", execution.ID,
		"log_entries", len(execution.Log),
	)

	return nil
}

// failExecution records a structural failure: the execution is marked failed
// with the error message and the error is returned to the caller.
func (e *Engine) failExecution(ctx context.Context, execution *models.Execution, span trace.Span, cause error) error {
	otelhelper.SetError(span, cause)

	now := time.Now().UTC()
	execution.Status = models.ExecutionFailed
	execution.CompletedAt = &now
	execution.ErrorMessage = cause.Error()
	execution.ResumeIndex = nil
	execution.ResumeAt = nil
	execution.AppendLog(models.LogActionWorkflowExecution, models.LogError, cause.Error(), nil)

	if err := e.persistence.ExecutionRepository().Save(ctx, execution); err != nil {
		e.logger.ErrorContext(ctx, "Failed to save failed execution",
			"execution_id", execution.ID,
			"error", err,
		)
	}

	if err := e.persistence.WorkflowRepository().IncrementExecutionCount(ctx, execution.WorkflowID); err != nil {
		e.logger.WarnContext(ctx, "Failed to increment execution count",
			"workflow_id", execution.WorkflowID,
			"error", err,
		)
	}

	e.publishFailed(ctx, execution, cause)

	return cause
}

func (e *Engine) publishStarted(ctx context.Context, execution *models.Execution) {
	if e.publisher == nil {
		return
	}

	event := events.ExecutionStarted{
		BaseEvent: events.BaseEvent{
			ID:        execution.ID,
			Type:      events.ExecutionStartedEvent,
			Timestamp: time.Now().UTC(),
		},
		ExecutionID: execution.ID,
		WorkflowID:  execution.WorkflowID,
		EntityType:  execution.EntityType,
		EntityID:    execution.EntityID,
	}

	if err := e.publisher.Publish(ctx, execution.WorkflowID, event); err != nil {
		e.logger.WarnContext(ctx, "Failed to publish execution started event", "error", err)
	}
}

func (e *Engine) publishCompleted(ctx context.Context, execution *models.Execution) {
	if e.publisher == nil {
		return
	}

	event := events.ExecutionCompleted{
		BaseEvent: events.BaseEvent{
			ID:        execution.ID,
			Type:      events.ExecutionCompletedEvent,
			Timestamp: time.Now().UTC(),
		},
		ExecutionID: execution.ID,
		WorkflowID:  execution.WorkflowID,
		Duration:    time.Since(execution.StartedAt),
	}

	if err := e.publisher.Publish(ctx, execution.WorkflowID, event); err != nil {
		e.logger.WarnContext(ctx, "Failed to publish execution completed event", "error", err)
	}
}

func (e *Engine) publishFailed(ctx context.Context, execution *models.Execution, cause error) {
	if e.publisher == nil {
		return
	}

	event := events.ExecutionFailed{
		BaseEvent: events.BaseEvent{
			ID:        execution.ID,
			Type:      events.ExecutionFailedEvent,
			Timestamp: time.Now().UTC(),
		},
		ExecutionID: execution.ID,
		WorkflowID:  execution.WorkflowID,
		Error:       cause.Error(),
	}

	if err := e.publisher.Publish(ctx, execution.WorkflowID, event); err != nil {
		e.logger.WarnContext(ctx, "Failed to publish execution failed event", "error", err)
	}
}

func newExecutionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return "exec-" + uuid.New().String()
	}

	return id.String()
}
