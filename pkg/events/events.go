// Package events defines the event types exchanged between the studio
// application and the workflow engine.
package events

import (
	"time"
)

// EventType identifies the envelope type on the bus.
type EventType string

// Topic carries every inkflow event.
const Topic = "inkflow.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// DomainEventType wraps application events such as "appointment_created".
	DomainEventType EventType = "domain.event"

	// Execution lifecycle events published by the engine.
	ExecutionStartedEvent   EventType = "execution.started"
	ExecutionCompletedEvent EventType = "execution.completed"
	ExecutionFailedEvent    EventType = "execution.failed"

	// NotificationCreatedEvent announces a new in-app notification.
	NotificationCreatedEvent EventType = "notification.created"
)

// Domain event names raised by the studio application.
const (
	AppointmentCreated   = "appointment_created"
	AppointmentCancelled = "appointment_cancelled"
	CustomerCreated      = "customer_created"
	PaymentCompleted     = "payment_completed"
	TattooRequestCreated = "tattoo_request_created"
)

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// DomainEvent is an application event about one business entity. The engine
// consumes these and triggers matching workflows.
type DomainEvent struct {
	BaseEvent

	Name       string         `json:"name"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Data       map[string]any `json:"data,omitempty"`
}

func (e DomainEvent) GetType() EventType {
	return DomainEventType
}

// ExecutionStarted is published when an execution transitions to running.
type ExecutionStarted struct {
	BaseEvent

	ExecutionID string `json:"execution_id"`
	WorkflowID  string `json:"workflow_id"`
	EntityType  string `json:"entity_type"`
	EntityID    string `json:"entity_id"`
}

func (e ExecutionStarted) GetType() EventType {
	return ExecutionStartedEvent
}

// ExecutionCompleted is published on a completed terminal transition.
type ExecutionCompleted struct {
	BaseEvent

	ExecutionID string        `json:"execution_id"`
	WorkflowID  string        `json:"workflow_id"`
	Duration    time.Duration `json:"duration"`
}

func (e ExecutionCompleted) GetType() EventType {
	return ExecutionCompletedEvent
}

// ExecutionFailed is published on a failed terminal transition.
type ExecutionFailed struct {
	BaseEvent

	ExecutionID string `json:"execution_id"`
	WorkflowID  string `json:"workflow_id"`
	Error       string `json:"error"`
}

func (e ExecutionFailed) GetType() EventType {
	return ExecutionFailedEvent
}

// NotificationCreated is published when a workflow action creates an in-app
// notification.
type NotificationCreated struct {
	BaseEvent

	NotificationID string `json:"notification_id"`
	Title          string `json:"title"`
	Priority       string `json:"priority"`
}

func (e NotificationCreated) GetType() EventType {
	return NotificationCreatedEvent
}
