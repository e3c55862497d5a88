package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shelfline/shelfline-server/internal/domain"
	"github.com/shelfline/shelfline-server/internal/store"
)

func seedUsers(t *testing.T, s *Store, ids ...string) {
	t.Helper()
	ctx := context.Background()
	for _, id := range ids {
		if err := s.CreateUser(ctx, makeTestUser(id, "u-"+id)); err != nil {
			t.Fatalf("CreateUser(%s): %v", id, err)
		}
	}
}

func makeFollow(followerID, followedID string) *domain.Follow {
	return &domain.Follow{
		FollowerID: followerID,
		FollowedID: followedID,
		CreatedAt:  time.Now(),
	}
}

func TestCreateFollow_WithNotification(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUsers(t, s, "user-1", "user-2")

	notification := &domain.Notification{
		ID:        "ntf-1",
		UserID:    "user-2",
		Type:      domain.NotificationTypeFollow,
		Message:   "alice started following you",
		CreatedAt: time.Now(),
	}
	if err := s.CreateFollow(ctx, makeFollow("user-1", "user-2"), notification); err != nil {
		t.Fatalf("CreateFollow: %v", err)
	}

	exists, err := s.FollowExists(ctx, "user-1", "user-2")
	if err != nil {
		t.Fatalf("FollowExists: %v", err)
	}
	if !exists {
		t.Error("expected follow edge to exist")
	}

	// The notification landed in the same transaction.
	notifications, err := s.ListNotifications(ctx, "user-2")
	if err != nil {
		t.Fatalf("ListNotifications: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("got %d notifications, want 1", len(notifications))
	}
	if notifications[0].Type != domain.NotificationTypeFollow {
		t.Errorf("Type: got %q", notifications[0].Type)
	}
	if notifications[0].IsRead {
		t.Error("new notification should be unread")
	}
}

func TestCreateFollow_Duplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUsers(t, s, "user-1", "user-2")

	if err := s.CreateFollow(ctx, makeFollow("user-1", "user-2"), nil); err != nil {
		t.Fatalf("CreateFollow: %v", err)
	}

	err := s.CreateFollow(ctx, makeFollow("user-1", "user-2"), nil)
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestDeleteFollow_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUsers(t, s, "user-1", "user-2")

	err := s.DeleteFollow(ctx, "user-1", "user-2")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFollowDirectionality(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUsers(t, s, "user-1", "user-2")

	if err := s.CreateFollow(ctx, makeFollow("user-1", "user-2"), nil); err != nil {
		t.Fatalf("CreateFollow: %v", err)
	}

	// The reverse edge does not exist.
	reverse, err := s.FollowExists(ctx, "user-2", "user-1")
	if err != nil {
		t.Fatalf("FollowExists: %v", err)
	}
	if reverse {
		t.Error("follow edges are directed; reverse should not exist")
	}

	followers, err := s.ListFollowers(ctx, "user-2")
	if err != nil {
		t.Fatalf("ListFollowers: %v", err)
	}
	if len(followers) != 1 || followers[0].ID != "user-1" {
		t.Errorf("followers of user-2: got %d", len(followers))
	}

	following, err := s.ListFollowing(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListFollowing: %v", err)
	}
	if len(following) != 1 || following[0].ID != "user-2" {
		t.Errorf("following of user-1: got %d", len(following))
	}

	counts, err := s.GetFollowCounts(ctx, "user-2")
	if err != nil {
		t.Fatalf("GetFollowCounts: %v", err)
	}
	if counts.Followers != 1 || counts.Following != 0 {
		t.Errorf("counts: got %+v", counts)
	}
}

func TestDeleteUser_CascadesFollowsAndNotifications(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUsers(t, s, "user-1", "user-2")

	notification := &domain.Notification{
		ID:        "ntf-1",
		UserID:    "user-2",
		Type:      domain.NotificationTypeFollow,
		Message:   "u-user-1 started following you",
		CreatedAt: time.Now(),
	}
	if err := s.CreateFollow(ctx, makeFollow("user-1", "user-2"), notification); err != nil {
		t.Fatalf("CreateFollow: %v", err)
	}

	if err := s.DeleteUser(ctx, "user-2"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	exists, err := s.FollowExists(ctx, "user-1", "user-2")
	if err != nil {
		t.Fatalf("FollowExists: %v", err)
	}
	if exists {
		t.Error("follow edge should cascade away with the followed user")
	}

	counts, err := s.GetFollowCounts(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetFollowCounts: %v", err)
	}
	if counts.Following != 0 {
		t.Errorf("Following: got %d, want 0", counts.Following)
	}
}
