// Package web provides the HTTP surface of the workflow engine: definition
// management, manual execution and event ingestion.
package web

import "github.com/inkflow/inkflow/pkg/models"

// CreateWorkflowRequest is the request body for creating a workflow.
type CreateWorkflowRequest struct {
	Name        string             `json:"name"                  validate:"required,min=3"`
	Description string             `json:"description,omitempty"`
	Trigger     models.Trigger     `json:"trigger"               validate:"required"`
	Conditions  []models.Condition `json:"conditions,omitempty"`
	Actions     []models.Action    `json:"actions"               validate:"required,min=1"`
	IsActive    *bool              `json:"is_active,omitempty"`
	Priority    int                `json:"priority,omitempty"    validate:"gte=0"`
}

// UpdateWorkflowRequest supports partial updates of a definition.
type UpdateWorkflowRequest struct {
	Name        *string             `json:"name,omitempty"        validate:"omitempty,min=3"`
	Description *string             `json:"description,omitempty"`
	Trigger     *models.Trigger     `json:"trigger,omitempty"`
	Conditions  *[]models.Condition `json:"conditions,omitempty"`
	Actions     *[]models.Action    `json:"actions,omitempty"     validate:"omitempty,min=1"`
	Priority    *int                `json:"priority,omitempty"    validate:"omitempty,gte=0"`
}

// ExecuteWorkflowRequest starts one workflow manually against an entity.
type ExecuteWorkflowRequest struct {
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Data       map[string]any `json:"data,omitempty"`
}

// TriggerEventRequest ingests one application event, firing every matching
// workflow.
type TriggerEventRequest struct {
	Event      string         `json:"event"       validate:"required"`
	EntityType string         `json:"entity_type" validate:"required"`
	EntityID   string         `json:"entity_id"`
	Data       map[string]any `json:"data,omitempty"`
}

func (r *CreateWorkflowRequest) toWorkflow() *models.Workflow {
	return &models.Workflow{
		Name:        r.Name,
		Description: r.Description,
		Trigger:     r.Trigger,
		Conditions:  r.Conditions,
		Actions:     r.Actions,
		Priority:    r.Priority,
	}
}
