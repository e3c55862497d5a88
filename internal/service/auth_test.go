package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/shelfline/shelfline-server/internal/errors"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.auth.Register(ctx, RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password1234",
		FullName: "Alice Andrade",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "alice", resp.User.Username)
	assert.NotEqual(t, "password1234", resp.User.PasswordHash)

	login, err := env.auth.Login(ctx, LoginRequest{Username: "alice", Password: "password1234"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	// The email address works as the login identifier too.
	login, err = env.auth.Login(ctx, LoginRequest{Username: "alice@example.com", Password: "password1234"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerUser(t, "alice")

	_, err := env.auth.Register(ctx, RegisterRequest{
		Username: "alice",
		Email:    "other@example.com",
		Password: "password1234",
	})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrConflict), "got %v", err)
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cases := []RegisterRequest{
		{Username: "al", Email: "a@example.com", Password: "password1234"},   // username too short
		{Username: "alice", Email: "not-an-email", Password: "password1234"}, // bad email
		{Username: "alice", Email: "a@example.com", Password: "short"},       // password too short
	}
	for _, req := range cases {
		_, err := env.auth.Register(ctx, req)
		assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation), "req %+v: got %v", req, err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerUser(t, "alice")

	_, err := env.auth.Login(ctx, LoginRequest{Username: "alice", Password: "wrongpassword"})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidCredentials), "got %v", err)

	// Unknown users fail the same way.
	_, err = env.auth.Login(ctx, LoginRequest{Username: "nobody", Password: "password1234"})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidCredentials), "got %v", err)
}

func TestRefresh_RotatesToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.auth.Register(ctx, RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password1234",
	})
	require.NoError(t, err)

	refreshed, err := env.auth.Refresh(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, resp.RefreshToken, refreshed.RefreshToken)

	// The old refresh token is spent.
	_, err = env.auth.Refresh(ctx, resp.RefreshToken)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnauthorized), "got %v", err)
}

func TestLogout_RevokesSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.auth.Register(ctx, RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password1234",
	})
	require.NoError(t, err)

	require.NoError(t, env.auth.Logout(ctx, resp.RefreshToken))

	_, err = env.auth.Refresh(ctx, resp.RefreshToken)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnauthorized), "got %v", err)

	// Logout is idempotent.
	require.NoError(t, env.auth.Logout(ctx, resp.RefreshToken))
}

func TestVerifyAccessToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.auth.Register(ctx, RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password1234",
	})
	require.NoError(t, err)

	user, err := env.auth.VerifyAccessToken(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, user.ID)

	_, err = env.auth.VerifyAccessToken(ctx, "v4.local.garbage")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnauthorized), "got %v", err)
}
