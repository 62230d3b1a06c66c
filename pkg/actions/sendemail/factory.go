package sendemail

import (
	"github.com/inkflow/inkflow/pkg/communication"
	"github.com/inkflow/inkflow/pkg/models"
	"github.com/inkflow/inkflow/pkg/protocol"
)

// ActionFactory creates send_email actions bound to a communication provider.
type ActionFactory struct {
	sender communication.Sender
}

func NewActionFactory(sender communication.Sender) *ActionFactory {
	return &ActionFactory{sender: sender}
}

func (f *ActionFactory) ID() string {
	return string(models.ActionSendEmail)
}

func (f *ActionFactory) Create(config map[string]any) (protocol.Action, error) {
	return NewAction(config, f.sender)
}

func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"to": map[string]any{
				"type":        "string",
				"description": "Recipient address template. Defaults to the entity's customer email.",
				"examples":    []string{"{{.customer.email}}"},
			},
			"subject": map[string]any{
				"type":        "string",
				"description": "Email subject template.",
				"examples":    []string{"Your appointment on {{.scheduled_date}}"},
			},
			"body": map[string]any{
				"type":        "string",
				"description": "Email body template.",
			},
		},
		"required":             []string{"subject", "body"},
		"additionalProperties": false,
	}
}
