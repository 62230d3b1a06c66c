package createnotification

import (
	"github.com/inkflow/inkflow/pkg/models"
	"github.com/inkflow/inkflow/pkg/notification"
	"github.com/inkflow/inkflow/pkg/protocol"
)

type ActionFactory struct {
	service *notification.Service
}

func NewActionFactory(service *notification.Service) *ActionFactory {
	return &ActionFactory{service: service}
}

func (f *ActionFactory) ID() string {
	return string(models.ActionCreateNotification)
}

func (f *ActionFactory) Create(config map[string]any) (protocol.Action, error) {
	return NewAction(config, f.service)
}

func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Notification title template. Defaults to 'Workflow Notification'.",
			},
			"message": map[string]any{
				"type":        "string",
				"description": "Notification message template.",
			},
			"priority": map[string]any{
				"type":        "string",
				"description": "Notification priority.",
				"enum":        []string{"low", "medium", "high"},
				"default":     "medium",
			},
		},
		"required":             []string{"message"},
		"additionalProperties": false,
	}
}
