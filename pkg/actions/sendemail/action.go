// Package sendemail delivers templated emails to the entity's customer.
package sendemail

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/inkflow/inkflow/pkg/communication"
	"github.com/inkflow/inkflow/pkg/models"
	"github.com/inkflow/inkflow/pkg/template"
)

const defaultRecipient = "{{.customer.email}}"

// Action sends one email through the configured communication provider.
// To, Subject and Body are templates rendered against the execution data.
type Action struct {
	To      string
	Subject string
	Body    string

	sender communication.Sender
}

func NewAction(config map[string]any, sender communication.Sender) (*Action, error) {
	subject, _ := config["subject"].(string)
	if subject == "" {
		return nil, fmt.Errorf("missing 'subject' in configuration")
	}

	body, _ := config["body"].(string)
	if body == "" {
		return nil, fmt.Errorf("missing 'body' in configuration")
	}

	to, _ := config["to"].(string)
	if to == "" {
		to = defaultRecipient
	}

	return &Action{
		To:      to,
		Subject: subject,
		Body:    body,
		sender:  sender,
	}, nil
}

func (a *Action) Execute(ctx context.Context, actionCtx models.ActionContext, logger *slog.Logger) (map[string]any, error) {
	logger = logger.With("module", "send_email_action")

	to, err := template.RenderString(a.To, actionCtx.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to render recipient: %w", err)
	}

	to = strings.TrimSpace(to)
	if to == "" {
		return nil, fmt.Errorf("no recipient email address available for entity %s/%s", actionCtx.EntityType, actionCtx.EntityID)
	}

	subject, err := template.RenderString(a.Subject, actionCtx.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to render subject: %w", err)
	}

	body, err := template.RenderString(a.Body, actionCtx.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to render body: %w", err)
	}

	msg := communication.EmailMessage{To: to, Subject: subject, Body: body}

	if err := a.sender.SendEmail(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to send email: %w", err)
	}

	logger.InfoContext(ctx, "Email sent", "to", to, "subject", subject)

	return map[string]any{
		"to":      to,
		"subject": subject,
	}, nil
}
