package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shelfline/shelfline-server/internal/domain"
	"github.com/shelfline/shelfline-server/internal/store"
)

func makeTestSession(id, userID, tokenHash string, ttl time.Duration) *domain.Session {
	now := time.Now()
	return &domain.Session{
		ID:               id,
		UserID:           userID,
		RefreshTokenHash: tokenHash,
		ExpiresAt:        now.Add(ttl),
		CreatedAt:        now,
		LastSeenAt:       now,
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUsers(t, s, "user-1")

	session := makeTestSession("sess-1", "user-1", "hash-1", time.Hour)
	if err := s.CreateSession(ctx, session); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	got, err := s.GetSessionByTokenHash(ctx, "hash-1")
	if err != nil {
		t.Fatalf("GetSessionByTokenHash: %v", err)
	}
	if got.UserID != "user-1" {
		t.Errorf("UserID: got %q", got.UserID)
	}

	// Rotate the refresh token.
	got.RefreshTokenHash = "hash-2"
	got.Touch()
	if err := s.UpdateSession(ctx, got); err != nil {
		t.Fatalf("UpdateSession: %v", err)
	}
	if _, err := s.GetSessionByTokenHash(ctx, "hash-1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("old hash should be gone, got %v", err)
	}
	if _, err := s.GetSessionByTokenHash(ctx, "hash-2"); err != nil {
		t.Fatalf("new hash lookup: %v", err)
	}

	if err := s.DeleteSession(ctx, "sess-1"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
}

func TestDeleteExpiredSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUsers(t, s, "user-1")

	if err := s.CreateSession(ctx, makeTestSession("sess-live", "user-1", "hash-live", time.Hour)); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if err := s.CreateSession(ctx, makeTestSession("sess-dead", "user-1", "hash-dead", -time.Hour)); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	n, err := s.DeleteExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("DeleteExpiredSessions: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d sessions, want 1", n)
	}

	if _, err := s.GetSessionByTokenHash(ctx, "hash-live"); err != nil {
		t.Errorf("live session should survive: %v", err)
	}
}
