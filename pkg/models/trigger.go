package models

// TriggerKind enumerates how a workflow can be started.
type TriggerKind string

const (
	TriggerKindEvent     TriggerKind = "event"
	TriggerKindSchedule  TriggerKind = "schedule"
	TriggerKindCondition TriggerKind = "condition"
	TriggerKindManual    TriggerKind = "manual"
)

// Trigger describes what causes a workflow to be considered for execution.
// Event triggers match on event name and entity type; an empty EntityType
// matches events for any entity type. Schedule triggers carry a cron
// expression in Filter under the "cron" key.
type Trigger struct {
	Kind       TriggerKind    `json:"kind"                  validate:"required"`
	Event      string         `json:"event,omitempty"`
	EntityType string         `json:"entity_type,omitempty"`
	Filter     map[string]any `json:"filter,omitempty"`
}

// Valid reports whether the trigger kind is one of the enumerated kinds.
func (k TriggerKind) Valid() bool {
	switch k {
	case TriggerKindEvent, TriggerKindSchedule, TriggerKindCondition, TriggerKindManual:
		return true
	default:
		return false
	}
}
