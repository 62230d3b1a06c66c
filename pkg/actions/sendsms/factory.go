package sendsms

import (
	"github.com/inkflow/inkflow/pkg/communication"
	"github.com/inkflow/inkflow/pkg/models"
	"github.com/inkflow/inkflow/pkg/protocol"
)

type ActionFactory struct {
	sender communication.Sender
}

func NewActionFactory(sender communication.Sender) *ActionFactory {
	return &ActionFactory{sender: sender}
}

func (f *ActionFactory) ID() string {
	return string(models.ActionSendSMS)
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
				"description": "Recipient phone template. Defaults to the entity's customer phone.",
				"examples":    []string{"{{.customer.phone}}"},
			},
			"body": map[string]any{
				"type":        "string",
				"description": "Message body template.",
			},
		},
		"required":             []string{"body"},
		"additionalProperties": false,
	}
}
