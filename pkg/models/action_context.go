package models

// ActionContext is the information handed to an action when it executes: the
// owning execution and entity, plus the combined entity snapshot and event
// payload the workflow's conditions were evaluated against.
type ActionContext struct {
	ExecutionID string         `json:"execution_id"`
	WorkflowID  string         `json:"workflow_id"`
	EntityType  string         `json:"entity_type"`
	EntityID    string         `json:"entity_id"`
	Data        map[string]any `json:"data,omitempty"`
}
