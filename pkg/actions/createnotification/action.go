// Package createnotification raises in-app notifications from workflows.
package createnotification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/inkflow/inkflow/pkg/models"
	"github.com/inkflow/inkflow/pkg/notification"
	"github.com/inkflow/inkflow/pkg/template"
)

type Action struct {
	Title    string
	Message  string
	Priority string

	service *notification.Service
}

func NewAction(config map[string]any, service *notification.Service) (*Action, error) {
	message, _ := config["message"].(string)
	if message == "" {
		return nil, fmt.Errorf("missing 'message' in configuration")
	}

	title, _ := config["title"].(string)
	priority, _ := config["priority"].(string)

	return &Action{
		Title:    title,
		Message:  message,
		Priority: priority,
		service:  service,
	}, nil
}

func (a *Action) Execute(ctx context.Context, actionCtx models.ActionContext, logger *slog.Logger) (map[string]any, error) {
	logger = logger.With("module", "create_notification_action")

	title, err := template.RenderString(a.Title, actionCtx.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to render title: %w", err)
	}

	message, err := template.RenderString(a.Message, actionCtx.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to render message: %w", err)
	}

	n := &models.Notification{
		Title:    title,
		Message:  message,
		Priority: models.NotificationPriority(a.Priority),
	}

	if err := a.service.Create(ctx, n); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Notification created", "notification_id", n.ID, "priority", n.Priority)

	return map[string]any{
		"notification_id": n.ID,
		"title":           n.Title,
		"priority":        string(n.Priority),
	}, nil
}
