package models

import "time"

// NotificationPriority levels for in-app notifications.
type NotificationPriority string

const (
	NotificationPriorityLow    NotificationPriority = "low"
	NotificationPriorityMedium NotificationPriority = "medium"
	NotificationPriorityHigh   NotificationPriority = "high"
)

// Notification is an in-app notification row created by workflow actions.
type Notification struct {
	ID        string               `json:"id"`
	Title     string               `json:"title"`
	Message   string               `json:"message"`
	Type      string               `json:"type"`
	Priority  NotificationPriority `json:"priority"`
	CreatedAt time.Time            `json:"created_at"`
}
