package models

import "time"

// ExecutionStatus represents the lifecycle state of a workflow execution.
type ExecutionStatus string

const (
	ExecutionPending   ExecutionStatus = "pending"
	ExecutionRunning   ExecutionStatus = "running"
	ExecutionCompleted ExecutionStatus = "completed"
	ExecutionFailed    ExecutionStatus = "failed"
	ExecutionCancelled ExecutionStatus = "cancelled" // operator-initiated abort, never set by the engine
)

// LogStatus is the outcome recorded for one step of an execution.
type LogStatus string

const (
	LogSuccess LogStatus = "success"
	LogError   LogStatus = "error"
	LogSkipped LogStatus = "skipped"
)

// Pseudo-action names used in execution log entries for steps that are not
// workflow actions themselves.
const (
	LogActionConditionsCheck   = "conditions_check"
	LogActionDelay             = "delay"
	LogActionWorkflowExecution = "workflow_execution"
)

// ExecutionLogEntry is one line of the append-only per-run log.
type ExecutionLogEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	Action    string         `json:"action"`
	Status    LogStatus      `json:"status"`
	Message   string         `json:"message,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// Execution tracks one run of one workflow against one entity from pending
// through a terminal state. Data is the event payload captured at creation
// time, retained for audit. ResumeIndex/ResumeAt are set while an execution is
// suspended waiting on a deferred action delay.
type Execution struct {
	ID           string              `json:"id"`
	WorkflowID   string              `json:"workflow_id"`
	EntityID     string              `json:"entity_id"`
	EntityType   string              `json:"entity_type"`
	Status       ExecutionStatus     `json:"status"`
	StartedAt    time.Time           `json:"started_at"`
	CompletedAt  *time.Time          `json:"completed_at,omitempty"`
	ErrorMessage string              `json:"error_message,omitempty"`
	Log          []ExecutionLogEntry `json:"log"`
	Data         map[string]any      `json:"data,omitempty"`
	ResumeIndex  *int                `json:"resume_index,omitempty"`
	ResumeAt     *time.Time          `json:"resume_at,omitempty"`
}

// AppendLog appends an entry stamped with the current time.
func (e *Execution) AppendLog(action string, status LogStatus, message string, data map[string]any) {
	e.Log = append(e.Log, ExecutionLogEntry{
		Timestamp: time.Now().UTC(),
		Action:    action,
		Status:    status,
		Message:   message,
		Data:      data,
	})
}

// Terminal reports whether the execution reached a final state.
func (e *Execution) Terminal() bool {
	switch e.Status {
	case ExecutionCompleted, ExecutionFailed, ExecutionCancelled:
		return true
	default:
		return false
	}
}
