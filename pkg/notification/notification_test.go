package notification

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkflow/inkflow/pkg/eventbus"
	"github.com/inkflow/inkflow/pkg/models"
)

type fakeNotificationRepo struct {
	saved []*models.Notification
}

func (f *fakeNotificationRepo) Save(_ context.Context, n *models.Notification) error {
	f.saved = append(f.saved, n)

	return nil
}

type fakePublisher struct {
	published []eventbus.Event
}

func (f *fakePublisher) Publish(_ context.Context, _ string, event eventbus.Event) error {
	f.published = append(f.published, event)

	return nil
}

func TestService_Create_AppliesDefaults(t *testing.T) {
	repo := &fakeNotificationRepo{}
	pub := &fakePublisher{}
	service := NewService(repo, pub, slog.Default())

	n := &models.Notification{Message: "Deposit received"}

	require.NoError(t, service.Create(context.Background(), n))

	require.Len(t, repo.saved, 1)
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, "Workflow Notification", n.Title)
	assert.Equal(t, "workflow", n.Type)
	assert.Equal(t, models.NotificationPriorityMedium, n.Priority)
	assert.False(t, n.CreatedAt.IsZero())

	require.Len(t, pub.published, 1)
}

func TestService_Create_KeepsProvidedFields(t *testing.T) {
	repo := &fakeNotificationRepo{}
	service := NewService(repo, &fakePublisher{}, slog.Default())

	n := &models.Notification{
		Title:    "Payment overdue",
		Message:  "Invoice 42 is late",
		Priority: models.NotificationPriorityHigh,
	}

	require.NoError(t, service.Create(context.Background(), n))
	assert.Equal(t, "Payment overdue", n.Title)
	assert.Equal(t, models.NotificationPriorityHigh, n.Priority)
}

func TestService_Create_RequiresMessage(t *testing.T) {
	service := NewService(&fakeNotificationRepo{}, &fakePublisher{}, slog.Default())

	err := service.Create(context.Background(), &models.Notification{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "message is required")
}
