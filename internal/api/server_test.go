package api

import (
	"encoding/hex"
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfline/shelfline-server/internal/auth"
	"github.com/shelfline/shelfline-server/internal/config"
	"github.com/shelfline/shelfline-server/internal/service"
	"github.com/shelfline/shelfline-server/internal/store/sqlite"
)

// testServer bundles the API server with a humatest client.
type testServer struct {
	*Server
	api humatest.TestAPI
}

// setupTestServer creates a test server with all dependencies on a temp database.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	tokens, err := auth.NewTokenService(hex.EncodeToString(make([]byte, 32)), 15*time.Minute, 720*time.Hour)
	require.NoError(t, err)

	services := &Services{
		Auth:      service.NewAuthService(st, tokens, logger),
		Bookshelf: service.NewBookshelfService(st, logger),
		Social:    service.NewSocialService(st, logger),
		Feed:      service.NewFeedService(st, logger),
		User:      service.NewUserService(st, logger),
	}

	cfg := &config.Config{
		Server: config.ServerConfig{
			Name:        "Shelfline Test",
			CORSOrigins: []string{"*"},
		},
	}

	s := NewServer(cfg, st, services, logger)
	t.Cleanup(s.Stop)

	return &testServer{Server: s, api: humatest.Wrap(t, s.api)}
}

// registerUser creates an account through the API and returns the access token and user ID.
func (ts *testServer) registerUser(t *testing.T, username string) (token string, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"username":  username,
		"email":     username + "@example.com",
		"password":  "password1234",
		"full_name": "User " + username,
	})
	require.Equal(t, http.StatusCreated, resp.Code, "register failed: %s", resp.Body.String())

	data := decodeData(t, resp.Body.Bytes())
	token, _ = data["access_token"].(string)
	user, _ := data["user"].(map[string]any)
	userID, _ = user["id"].(string)
	require.NotEmpty(t, token)
	require.NotEmpty(t, userID)
	return token, userID
}

// decodeData unwraps the response envelope and returns its data object.
func decodeData(t *testing.T, body []byte) map[string]any {
	t.Helper()

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(body, &envelope))
	require.Equal(t, float64(EnvelopeVersion), envelope["v"])

	data, _ := envelope["data"].(map[string]any)
	return data
}

// decodeDataList unwraps the response envelope and returns its data array.
func decodeDataList(t *testing.T, body []byte) []any {
	t.Helper()

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(body, &envelope))

	list, _ := envelope["data"].([]any)
	return list
}

func authHeader(token string) string {
	return "Authorization: Bearer " + token
}

func TestHealthEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	data := decodeData(t, resp.Body.Bytes())
	assert.Equal(t, "healthy", data["status"])
}

func TestAuthFlow(t *testing.T) {
	ts := setupTestServer(t)

	token, _ := ts.registerUser(t, "alice")
	assert.NotEmpty(t, token)

	// Duplicate registration surfaces as a conflict envelope.
	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"username": "alice",
		"email":    "other@example.com",
		"password": "password1234",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, false, envelope["success"])
	assert.Equal(t, "CONFLICT", envelope["code"])

	// Login and refresh.
	resp = ts.api.Post("/api/v1/auth/login", map[string]any{
		"username": "alice",
		"password": "password1234",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	data := decodeData(t, resp.Body.Bytes())
	refreshToken, _ := data["refresh_token"].(string)
	require.NotEmpty(t, refreshToken)

	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": refreshToken,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	// The rotated-out token no longer works.
	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": refreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/users/me")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Get("/api/v1/feed", "Authorization: Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestBookshelfFlow(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerUser(t, "alice")

	resp := ts.api.Post("/api/v1/books", authHeader(token), map[string]any{
		"name":      "Dom Casmurro",
		"num_pages": 256,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	bookID, _ := decodeData(t, resp.Body.Bytes())["id"].(string)
	require.NotEmpty(t, bookID)

	resp = ts.api.Post("/api/v1/bookshelf", authHeader(token), map[string]any{
		"book_id": bookID,
		"status":  "reading",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	entry := decodeData(t, resp.Body.Bytes())
	entryID, _ := entry["id"].(string)
	assert.Equal(t, "reading", entry["status"])

	// Finishing the book flips the status.
	resp = ts.api.Patch("/api/v1/bookshelf/"+entryID, authHeader(token), map[string]any{
		"pages_read": 256,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, "read", decodeData(t, resp.Body.Bytes())["status"])

	resp = ts.api.Patch("/api/v1/bookshelf/"+entryID, authHeader(token), map[string]any{
		"rating": 4.5,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	// Book detail reflects the new average.
	resp = ts.api.Get("/api/v1/books/"+bookID, authHeader(token))
	require.Equal(t, http.StatusOK, resp.Code)
	detail := decodeData(t, resp.Body.Bytes())
	book, _ := detail["book"].(map[string]any)
	assert.Equal(t, 4.5, book["average_rating"])

	resp = ts.api.Get("/api/v1/bookshelf?status=read", authHeader(token))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decodeDataList(t, resp.Body.Bytes()), 1)

	// Out-of-range pages surface as a 400 with the invalid state code.
	resp = ts.api.Patch("/api/v1/bookshelf/"+entryID, authHeader(token), map[string]any{
		"pages_read": 999,
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestSocialAndFeedFlow(t *testing.T) {
	ts := setupTestServer(t)
	aliceToken, _ := ts.registerUser(t, "alice")
	bobToken, bobID := ts.registerUser(t, "bob")

	// Bob shelves a finished book.
	resp := ts.api.Post("/api/v1/books", authHeader(bobToken), map[string]any{
		"name":      "Grande Sertao",
		"num_pages": 600,
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	bookID, _ := decodeData(t, resp.Body.Bytes())["id"].(string)

	resp = ts.api.Post("/api/v1/bookshelf", authHeader(bobToken), map[string]any{
		"book_id": bookID,
		"status":  "read",
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	// Alice follows Bob.
	resp = ts.api.Post("/api/v1/users/"+bobID+"/follow", authHeader(aliceToken), map[string]any{})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, true, decodeData(t, resp.Body.Bytes())["is_following"])

	// Following twice is a conflict.
	resp = ts.api.Post("/api/v1/users/"+bobID+"/follow", authHeader(aliceToken), map[string]any{})
	assert.Equal(t, http.StatusConflict, resp.Code)

	// Bob got a notification.
	resp = ts.api.Get("/api/v1/notifications", authHeader(bobToken))
	require.Equal(t, http.StatusOK, resp.Code)
	notifications := decodeDataList(t, resp.Body.Bytes())
	require.Len(t, notifications, 1)

	// Alice's feed shows Bob's completed book.
	resp = ts.api.Get("/api/v1/feed", authHeader(aliceToken))
	require.Equal(t, http.StatusOK, resp.Code)
	feed := decodeDataList(t, resp.Body.Bytes())
	require.Len(t, feed, 1)
	item, _ := feed[0].(map[string]any)
	assert.Equal(t, "completed", item["activity_type"])

	// Bob's profile shows the follower from Alice's point of view.
	resp = ts.api.Get("/api/v1/users/"+bobID, authHeader(aliceToken))
	require.Equal(t, http.StatusOK, resp.Code)
	profile := decodeData(t, resp.Body.Bytes())
	assert.Equal(t, true, profile["is_following"])
	user, _ := profile["user"].(map[string]any)
	_, hasEmail := user["email"]
	assert.False(t, hasEmail, "public profile must not expose email")

	// Unfollow empties the feed.
	resp = ts.api.Delete("/api/v1/users/"+bobID+"/follow", authHeader(aliceToken))
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/feed", authHeader(aliceToken))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, decodeDataList(t, resp.Body.Bytes()))
}
