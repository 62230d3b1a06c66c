package updatestatus

import (
	"github.com/inkflow/inkflow/pkg/models"
	"github.com/inkflow/inkflow/pkg/persistence"
	"github.com/inkflow/inkflow/pkg/protocol"
)

type ActionFactory struct {
	entities persistence.EntityRepository
}

func NewActionFactory(entities persistence.EntityRepository) *ActionFactory {
	return &ActionFactory{entities: entities}
}

func (f *ActionFactory) ID() string {
	return string(models.ActionUpdateStatus)
}

func (f *ActionFactory) Create(config map[string]any) (protocol.Action, error) {
	return NewAction(config, f.entities)
}

func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status": map[string]any{
				"type":        "string",
				"description": "New status value. Supports templating.",
				"examples":    []string{"confirmed", "reviewed"},
			},
		},
		"required":             []string{"status"},
		"additionalProperties": false,
	}
}
