package web

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/inkflow/inkflow/pkg/persistence"
	"github.com/inkflow/inkflow/pkg/registry"
	"github.com/inkflow/inkflow/pkg/workflow"
)

type APIHandlers struct {
	service   *workflow.Service
	engine    *workflow.Engine
	registry  *registry.Registry
	validator *validator.Validate
}

func NewAPIHandlers(
	service *workflow.Service,
	engine *workflow.Engine,
	registry *registry.Registry,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		service:   service,
		engine:    engine,
		registry:  registry,
		validator: validator,
	}
}

// Register mounts every API route on the app.
func (h *APIHandlers) Register(app *fiber.App) {
	w := app.Group("/workflows")
	w.Get("/", h.GetWorkflows)
	w.Post("/", h.CreateWorkflow)
	w.Get("/:id", h.GetWorkflow)
	w.Patch("/:id", h.UpdateWorkflow)
	w.Delete("/:id", h.DeleteWorkflow)
	w.Post("/:id/activate", h.ActivateWorkflow)
	w.Post("/:id/deactivate", h.DeactivateWorkflow)
	w.Post("/:id/execute", h.ExecuteWorkflow)
	w.Get("/:id/executions", h.GetWorkflowExecutions)

	app.Get("/executions/:id", h.GetExecution)
	app.Post("/events", h.TriggerEvent)
	app.Get("/actions", h.GetAvailableActions)
	app.Get("/health", h.HealthCheck)
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	workflows, err := h.service.List(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(workflows)
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	found, err := h.service.Get(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(found)
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	var req CreateWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.service.Create(c.Context(), req.toWorkflow(), req.IsActive)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) UpdateWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req UpdateWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	existing, err := h.service.Get(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}

	if req.Description != nil {
		existing.Description = *req.Description
	}

	if req.Trigger != nil {
		existing.Trigger = *req.Trigger
	}

	if req.Conditions != nil {
		existing.Conditions = *req.Conditions
	}

	if req.Actions != nil {
		existing.Actions = *req.Actions
	}

	if req.Priority != nil {
		existing.Priority = *req.Priority
	}

	updated, err := h.service.Update(c.Context(), id, existing)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		if persistence.IsWorkflowNotFound(err) {
			return notFound(c, "Workflow not found")
		}

		return internalError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) ActivateWorkflow(c fiber.Ctx) error {
	return h.setActive(c, true)
}

func (h *APIHandlers) DeactivateWorkflow(c fiber.Ctx) error {
	return h.setActive(c, false)
}

func (h *APIHandlers) setActive(c fiber.Ctx, active bool) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	if err := h.service.SetActive(c.Context(), id, active); err != nil {
		if persistence.IsWorkflowNotFound(err) {
			return notFound(c, "Workflow not found")
		}

		return internalError(c, err)
	}

	found, err := h.service.Get(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(found)
}

// ExecuteWorkflow starts one workflow manually, outside of trigger matching.
func (h *APIHandlers) ExecuteWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req ExecuteWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	execution, err := h.engine.ExecuteWorkflow(c.Context(), id, req.EntityType, req.EntityID, req.Data)
	if err != nil {
		if workflow.IsNotFound(err) {
			return notFound(c, "Workflow not found or inactive")
		}

		// The execution record, when one exists, carries the failure detail.
		if execution != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(execution)
		}

		return internalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(execution)
}

func (h *APIHandlers) GetWorkflowExecutions(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	executions, err := h.service.Executions(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(executions)
}

func (h *APIHandlers) GetExecution(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Execution ID is required")
	}

	execution, err := h.service.Execution(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(execution)
}

// TriggerEvent ingests one application event and fires every matching
// workflow. Individual workflow failures are recorded on their executions,
// never surfaced to the event source.
func (h *APIHandlers) TriggerEvent(c fiber.Ctx) error {
	var req TriggerEventRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	executions, err := h.engine.TriggerWorkflows(c.Context(), req.Event, req.EntityType, req.EntityID, req.Data)
	if err != nil {
		return internalError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"event":      req.Event,
		"executions": executions,
	})
}

func (h *APIHandlers) GetAvailableActions(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"actions": h.registry.AvailableActions(),
	})
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	registryCheck, regOk := h.registry.HealthCheck()
	repositoryCheck, repOk := h.service.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Inkflow API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if regOk && repOk {
		status = "healthy"
		message = "Inkflow API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"registry":   registryCheck,
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}
