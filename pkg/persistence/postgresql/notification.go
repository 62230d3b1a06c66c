package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/inkflow/inkflow/pkg/models"
)

// NotificationRepository stores in-app notifications.
type NotificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a new notification repository.
func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Save inserts a notification row.
func (r *NotificationRepository) Save(ctx context.Context, notification *models.Notification) error {
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

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (id, title, message, type, priority, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		notification.ID,
		notification.Title,
		notification.Message,
		notification.Type,
		notification.Priority,
		notification.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}

	return nil
}
