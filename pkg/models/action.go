package models

// ActionType enumerates the supported action kinds.
type ActionType string

const (
	ActionSendEmail          ActionType = "send_email"
	ActionSendSMS            ActionType = "send_sms"
	ActionCreateNotification ActionType = "create_notification"
	ActionUpdateStatus       ActionType = "update_status"
	ActionCreateAppointment  ActionType = "create_appointment"
	ActionSendPaymentLink    ActionType = "send_payment_link"
	ActionCreateTask         ActionType = "create_task"
	ActionWebhook            ActionType = "webhook"
	ActionWait               ActionType = "wait"
)

// Action is one unit of work inside a workflow's ordered action list.
// Config is interpreted per action type. DelayMinutes postpones execution of
// this action; Condition, when present, gates this single action independently
// of the workflow-level conditions.
type Action struct {
	Type         ActionType     `json:"type"                    validate:"required"`
	Config       map[string]any `json:"config,omitempty"`
	DelayMinutes int            `json:"delay_minutes,omitempty" validate:"gte=0"`
	Condition    *Condition     `json:"condition,omitempty"`
}

// Valid reports whether the action type is one of the enumerated kinds.
func (t ActionType) Valid() bool {
	switch t {
	case ActionSendEmail, ActionSendSMS, ActionCreateNotification,
		ActionUpdateStatus, ActionCreateAppointment, ActionSendPaymentLink,
		ActionCreateTask, ActionWebhook, ActionWait:
		return true
	default:
		return false
	}
}
