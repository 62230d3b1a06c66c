// Package models defines the core domain models for studio workflow automation.
package models

import "time"

// Workflow is a stored automation rule: a trigger, an optional set of
// gating conditions and an ordered list of actions.
type Workflow struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"                       validate:"required,min=3"`
	Description    string      `json:"description,omitempty"`
	Trigger        Trigger     `json:"trigger"                    validate:"required"`
	Conditions     []Condition `json:"conditions,omitempty"       validate:"omitempty,dive"`
	Actions        []Action    `json:"actions"                    validate:"required,min=1,dive"`
	IsActive       bool        `json:"is_active"`
	Priority       int         `json:"priority"`
	ExecutionCount int64       `json:"execution_count"`
	LastExecutedAt *time.Time  `json:"last_executed_at,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// Matches reports whether the workflow's trigger fires for the given
// application event. Only event-kind triggers participate in event matching;
// a trigger with an empty entity type matches any entity type.
func (w *Workflow) Matches(event, entityType string) bool {
	if w.Trigger.Kind != TriggerKindEvent {
		return false
	}

	if w.Trigger.Event != event {
		return false
	}

	return w.Trigger.EntityType == "" || w.Trigger.EntityType == entityType
}
