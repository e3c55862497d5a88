package sqlite

import (
	"context"

	"github.com/shelfline/shelfline-server/internal/domain"
)

// CreateNotification inserts a notification for a user.
func (s *Store) CreateNotification(ctx context.Context, n *domain.Notification) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, type, message, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID,
		n.UserID,
		string(n.Type),
		n.Message,
		boolToInt(n.IsRead),
		formatTime(n.CreatedAt),
	)
	return err
}

// ListNotifications returns a user's notifications, newest first.
func (s *Store) ListNotifications(ctx context.Context, userID string) ([]*domain.Notification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, type, message, is_read, created_at
		FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		var (
			n         domain.Notification
			nType     string
			isRead    int
			createdAt string
		)
		if err := rows.Scan(&n.ID, &n.UserID, &nType, &n.Message, &isRead, &createdAt); err != nil {
			return nil, err
		}
		n.Type = domain.NotificationType(nType)
		n.IsRead = isRead != 0
		n.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return notifications, nil
}
