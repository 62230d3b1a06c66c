package wait

import (
	"github.com/inkflow/inkflow/pkg/models"
	"github.com/inkflow/inkflow/pkg/protocol"
)

type ActionFactory struct{}

func NewActionFactory() *ActionFactory {
	return &ActionFactory{}
}

func (f *ActionFactory) ID() string {
	return string(models.ActionWait)
}

func (f *ActionFactory) Create(config map[string]any) (protocol.Action, error) {
	return NewAction(config)
}

func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"minutes": map[string]any{
				"type":        "integer",
				"description": "How long to pause before the next action, in minutes.",
				"minimum":     0,
			},
		},
		"required":             []string{"minutes"},
		"additionalProperties": false,
	}
}
