package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/shelfline/shelfline-server/internal/domain"
)

func TestNotifications_AppendAndListNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUsers(t, s, "user-1", "user-2")

	base := time.Now()
	for i, msg := range []string{"first", "second", "third"} {
		n := &domain.Notification{
			ID:        "ntf-" + msg,
			UserID:    "user-1",
			Type:      domain.NotificationTypeFollow,
			Message:   msg,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := s.CreateNotification(ctx, n); err != nil {
			t.Fatalf("CreateNotification(%s): %v", msg, err)
		}
	}

	notifications, err := s.ListNotifications(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListNotifications: %v", err)
	}
	if len(notifications) != 3 {
		t.Fatalf("got %d notifications, want 3", len(notifications))
	}
	for i, want := range []string{"third", "second", "first"} {
		if notifications[i].Message != want {
			t.Errorf("notifications[%d].Message: got %q, want %q", i, notifications[i].Message, want)
		}
	}

	// Rows are scoped to their recipient.
	other, err := s.ListNotifications(ctx, "user-2")
	if err != nil {
		t.Fatalf("ListNotifications: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("got %d notifications for user-2, want 0", len(other))
	}
}
