package sqlite

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/shelfline/shelfline-server/internal/domain"
)

// newTestStore opens a store backed by a temp file that is cleaned up with the test.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := Open(path, logger)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

// makeTestUser creates a domain.User with sensible defaults for testing.
func makeTestUser(id, username string) *domain.User {
	now := time.Now()
	return &domain.User{
		ID:           id,
		Username:     username,
		Email:        username + "@example.com",
		FullName:     "Test User",
		PasswordHash: "$argon2id$fakehashfortest",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// makeTestBook creates a domain.Book with sensible defaults for testing.
func makeTestBook(id, name string) *domain.Book {
	now := time.Now()
	pages := 200
	return &domain.Book{
		ID:        id,
		Name:      name,
		NumPages:  &pages,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// makeTestEntry creates a shelf entry linking a user to a book.
func makeTestEntry(id, userID, bookID string, status domain.ReadingStatus) *domain.BookshelfEntry {
	now := time.Now()
	return &domain.BookshelfEntry{
		ID:        id,
		UserID:    userID,
		BookID:    bookID,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
