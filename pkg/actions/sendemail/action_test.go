package sendemail

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkflow/inkflow/pkg/communication"
	"github.com/inkflow/inkflow/pkg/models"
)

type fakeSender struct {
	emails []communication.EmailMessage
	sms    []communication.SMSMessage
}

func (f *fakeSender) SendEmail(_ context.Context, msg communication.EmailMessage) error {
	f.emails = append(f.emails, msg)

	return nil
}

func (f *fakeSender) SendSMS(_ context.Context, msg communication.SMSMessage) error {
	f.sms = append(f.sms, msg)

	return nil
}

func TestNewAction_RequiresSubjectAndBody(t *testing.T) {
	_, err := NewAction(map[string]any{"body": "hi"}, &fakeSender{})
	require.Error(t, err)

	_, err = NewAction(map[string]any{"subject": "hi"}, &fakeSender{})
	require.Error(t, err)
}

func TestAction_Execute_DefaultsToCustomerEmail(t *testing.T) {
	sender := &fakeSender{}

	action, err := NewAction(map[string]any{
		"subject": "Reminder for {{.customer.name}}",
		"body":    "Your appointment is on {{.scheduled_date}}.",
	}, sender)
	require.NoError(t, err)

	result, err := action.Execute(context.Background(), models.ActionContext{
		EntityType: "appointment",
		EntityID:   "apt-1",
		Data: map[string]any{
			"scheduled_date": "2026-09-01",
			"customer": map[string]any{
				"name":  "Alice",
				"email": "alice@example.com",
			},
		},
	}, slog.Default())
	require.NoError(t, err)

	require.Len(t, sender.emails, 1)
	assert.Equal(t, "alice@example.com", sender.emails[0].To)
	assert.Equal(t, "Reminder for Alice", sender.emails[0].Subject)
	assert.Equal(t, "Your appointment is on 2026-09-01.", sender.emails[0].Body)
	assert.Equal(t, "alice@example.com", result["to"])
}

func TestAction_Execute_NoRecipient(t *testing.T) {
	action, err := NewAction(map[string]any{"subject": "s", "body": "b"}, &fakeSender{})
	require.NoError(t, err)

	_, err = action.Execute(context.Background(), models.ActionContext{
		EntityType: "appointment",
		EntityID:   "apt-1",
		Data:       map[string]any{"customer": map[string]any{}},
	}, slog.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no recipient email")
}
