// Package updatestatus changes the status column of the triggering entity.
package updatestatus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/inkflow/inkflow/pkg/models"
	"github.com/inkflow/inkflow/pkg/persistence"
	"github.com/inkflow/inkflow/pkg/template"
)

type Action struct {
	Status string

	entities persistence.EntityRepository
}

func NewAction(config map[string]any, entities persistence.EntityRepository) (*Action, error) {
	status, _ := config["status"].(string)
	if status == "" {
		return nil, fmt.Errorf("missing 'status' in configuration")
	}

	return &Action{Status: status, entities: entities}, nil
}

func (a *Action) Execute(ctx context.Context, actionCtx models.ActionContext, logger *slog.Logger) (map[string]any, error) {
	logger = logger.With("module", "update_status_action")

	if actionCtx.EntityID == "" {
		return nil, fmt.Errorf("no entity to update")
	}

	status, err := template.RenderString(a.Status, actionCtx.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to render status: %w", err)
	}

	err = a.entities.UpdateStatus(ctx, actionCtx.EntityType, actionCtx.EntityID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update %s %s: %w", actionCtx.EntityType, actionCtx.EntityID, err)
	}

	logger.InfoContext(ctx, "Entity status updated",
		"entity_type", actionCtx.EntityType,
		"entity_id", actionCtx.EntityID,
		"status", status,
	)

	return map[string]any{
		"entity_type": actionCtx.EntityType,
		"entity_id":   actionCtx.EntityID,
		"status":      status,
	}, nil
}
