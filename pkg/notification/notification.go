// Package notification creates and announces in-app notifications.
package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/inkflow/inkflow/pkg/eventbus"
	"github.com/inkflow/inkflow/pkg/events"
	"github.com/inkflow/inkflow/pkg/models"
	"github.com/inkflow/inkflow/pkg/persistence"
)

const (
	defaultTitle = "Workflow Notification"
	defaultType  = "workflow"
)

// Service persists notifications and publishes a notification.created event
// for each one.
type Service struct {
	repo      persistence.NotificationRepository
	publisher eventbus.EventPublisher
	logger    *slog.Logger
}

func NewService(repo persistence.NotificationRepository, publisher eventbus.EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger.With("module", "notification"),
	}
}

// Create stores a notification, filling in defaults for title, type and
// priority, and announces it on the event bus. Publish failures are logged
// but do not fail the creation.
func (s *Service) Create(ctx context.Context, n *models.Notification) error {
	if n.Message == "" {
		return fmt.Errorf("notification message is required")
	}

	if n.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate notification id: %w", err)
		}

		n.ID = id.String()
	}

	if n.Title == "" {
		n.Title = defaultTitle
	}

	if n.Type == "" {
		n.Type = defaultType
	}

	if n.Priority == "" {
		n.Priority = models.NotificationPriorityMedium
	}

	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	if err := s.repo.Save(ctx, n); err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}

	if s.publisher != nil {
		event := events.NotificationCreated{
			BaseEvent: events.BaseEvent{
				ID:        n.ID,
				Type:      events.NotificationCreatedEvent,
				Timestamp: n.CreatedAt,
			},
			NotificationID: n.ID,
			Title:          n.Title,
			Priority:       string(n.Priority),
		}

		if err := s.publisher.Publish(ctx, n.ID, event); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish notification event",
				"notification_id", n.ID,
				"error", err,
			)
		}
	}

	return nil
}
