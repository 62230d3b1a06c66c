package webhook

import (
	"github.com/inkflow/inkflow/pkg/models"
	"github.com/inkflow/inkflow/pkg/protocol"
)

type ActionFactory struct{}

func NewActionFactory() *ActionFactory {
	return &ActionFactory{}
}

func (f *ActionFactory) ID() string {
	return string(models.ActionWebhook)
}

func (f *ActionFactory) Create(config map[string]any) (protocol.Action, error) {
	return NewAction(config)
}

func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "The URL to deliver the webhook to. Supports templating.",
				"examples":    []string{"https://hooks.example.com/studio"},
			},
			"method": map[string]any{
				"type":        "string",
				"description": "HTTP method to use.",
				"default":     "POST",
				"enum":        []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
			},
			"headers": map[string]any{
				"type":        "object",
				"description": "HTTP headers to include. Values support templating.",
				"additionalProperties": map[string]any{
					"type": "string",
				},
			},
			"body": map[string]any{
				"type":        "string",
				"description": "Request body template. Defaults to a JSON envelope with the execution data.",
			},
			"retry": map[string]any{
				"type":        "object",
				"description": "Retry configuration for failed requests.",
				"properties": map[string]any{
					"attempts": map[string]any{
						"type":    "integer",
						"minimum": 1,
						"maximum": 5,
					},
					"delay": map[string]any{
						"type":        "integer",
						"description": "Delay between attempts in seconds.",
						"minimum":     0,
					},
				},
			},
		},
		"required":             []string{"url"},
		"additionalProperties": false,
	}
}
