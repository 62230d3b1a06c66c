package file

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/inkflow/inkflow/pkg/models"
)

// NotificationRepository stores notifications under <root>/notifications.
type NotificationRepository struct {
	root string
	mu   sync.Mutex
}

// NewNotificationRepository creates a new notification repository.
func NewNotificationRepository(root string) *NotificationRepository {
	return &NotificationRepository{root: root}
}

// Save writes the notification, assigning an ID and timestamp as needed.
func (nr *NotificationRepository) Save(_ context.Context, notification *models.Notification) error {
	nr.mu.Lock()
	defer nr.mu.Unlock()

	if notification.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate notification ID: %w", err)
		}

		notification.ID = id.String()
	}

	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}

	return writeJSON(nr.root+"/notifications", notification.ID, notification)
}
