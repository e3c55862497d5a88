package domain

import "time"

// NotificationType classifies a notification.
type NotificationType string

const (
	// NotificationTypeFollow is emitted when another user starts following you.
	NotificationTypeFollow NotificationType = "follow"
)

// Notification is a message delivered to a single user.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}
