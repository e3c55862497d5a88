package service

import (
	"context"
	"encoding/hex"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shelfline/shelfline-server/internal/auth"
	"github.com/shelfline/shelfline-server/internal/domain"
	"github.com/shelfline/shelfline-server/internal/logger"
	"github.com/shelfline/shelfline-server/internal/store/sqlite"
)

// testEnv bundles the services under test against one shared store.
type testEnv struct {
	store     *sqlite.Store
	auth      *AuthService
	bookshelf *BookshelfService
	social    *SocialService
	feed      *FeedService
	users     *UserService
}

// newTestEnv wires all services against a fresh temp-file store.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := logger.Discard().Logger
	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	tokens, err := auth.NewTokenService(hex.EncodeToString(make([]byte, 32)), 15*time.Minute, 720*time.Hour)
	require.NoError(t, err)

	return &testEnv{
		store:     st,
		auth:      NewAuthService(st, tokens, log),
		bookshelf: NewBookshelfService(st, log),
		social:    NewSocialService(st, log),
		feed:      NewFeedService(st, log),
		users:     NewUserService(st, log),
	}
}

// registerUser creates an account through the auth service and returns the user.
func (e *testEnv) registerUser(t *testing.T, username string) *domain.User {
	t.Helper()
	resp, err := e.auth.Register(context.Background(), RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "password1234",
		FullName: "User " + username,
	})
	require.NoError(t, err)
	return resp.User
}

// createBook adds a catalog book with the given page count.
func (e *testEnv) createBook(t *testing.T, name string, pages int) *domain.Book {
	t.Helper()
	book, err := e.bookshelf.CreateBook(context.Background(), CreateBookRequest{
		Name:     name,
		NumPages: &pages,
	})
	require.NoError(t, err)
	return book
}

// shelveBook adds a book to the user's shelf with the given status.
func (e *testEnv) shelveBook(t *testing.T, userID, bookID string, status domain.ReadingStatus) *domain.BookshelfEntry {
	t.Helper()
	entry, err := e.bookshelf.AddEntry(context.Background(), userID, AddEntryRequest{
		BookID: bookID,
		Status: status,
	})
	require.NoError(t, err)
	return entry
}

func ptr[T any](v T) *T { return &v }
