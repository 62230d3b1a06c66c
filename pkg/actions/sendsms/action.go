// Package sendsms delivers templated text messages to the entity's customer.
package sendsms

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/inkflow/inkflow/pkg/communication"
	"github.com/inkflow/inkflow/pkg/models"
	"github.com/inkflow/inkflow/pkg/template"
)

const defaultRecipient = "{{.customer.phone}}"

type Action struct {
	To   string
	Body string

	sender communication.Sender
}

func NewAction(config map[string]any, sender communication.Sender) (*Action, error) {
	body, _ := config["body"].(string)
	if body == "" {
		return nil, fmt.Errorf("missing 'body' in configuration")
	}

	to, _ := config["to"].(string)
	if to == "" {
		to = defaultRecipient
	}

	return &Action{To: to, Body: body, sender: sender}, nil
}

func (a *Action) Execute(ctx context.Context, actionCtx models.ActionContext, logger *slog.Logger) (map[string]any, error) {
	logger = logger.With("module", "send_sms_action")

	to, err := template.RenderString(a.To, actionCtx.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to render recipient: %w", err)
	}

	to = strings.TrimSpace(to)
	if to == "" {
		return nil, fmt.Errorf("no recipient phone number available for entity %s/%s", actionCtx.EntityType, actionCtx.EntityID)
	}

	body, err := template.RenderString(a.Body, actionCtx.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to render body: %w", err)
	}

	if err := a.sender.SendSMS(ctx, communication.SMSMessage{To: to, Body: body}); err != nil {
		return nil, fmt.Errorf("failed to send sms: %w", err)
	}

	logger.InfoContext(ctx, "SMS sent", "to", to)

	return map[string]any{"to": to}, nil
}
