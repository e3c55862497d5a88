package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfline/shelfline-server/internal/domain"
	domainerrors "github.com/shelfline/shelfline-server/internal/errors"
)

func TestFollow_Guards(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice")
	bob := env.registerUser(t, "bob")

	// Self-follow is rejected before anything else.
	err := env.social.Follow(ctx, alice.ID, alice.ID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidState), "got %v", err)

	// Unknown target.
	err = env.social.Follow(ctx, alice.ID, "user-missing")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound), "got %v", err)

	// First follow works, second is a duplicate.
	require.NoError(t, env.social.Follow(ctx, alice.ID, bob.ID))
	err = env.social.Follow(ctx, alice.ID, bob.ID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrConflict), "got %v", err)
}

func TestFollow_NotifiesFollowedUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice")
	bob := env.registerUser(t, "bob")

	require.NoError(t, env.social.Follow(ctx, alice.ID, bob.ID))

	notifications, err := env.users.Notifications(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, domain.NotificationTypeFollow, notifications[0].Type)
	assert.Equal(t, "alice started following you", notifications[0].Message)
	assert.False(t, notifications[0].IsRead)

	// The follower gets nothing.
	own, err := env.users.Notifications(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, own)
}

func TestUnfollow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice")
	bob := env.registerUser(t, "bob")

	// Unfollowing someone you don't follow is an invalid transition.
	err := env.social.Unfollow(ctx, alice.ID, bob.ID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidState), "got %v", err)

	require.NoError(t, env.social.Follow(ctx, alice.ID, bob.ID))
	require.NoError(t, env.social.Unfollow(ctx, alice.ID, bob.ID))

	following, err := env.social.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestFollowers_Enriched(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice")
	bob := env.registerUser(t, "bob")

	book := env.createBook(t, "Dom Casmurro", 256)
	env.shelveBook(t, alice.ID, book.ID, domain.StatusRead)

	require.NoError(t, env.social.Follow(ctx, alice.ID, bob.ID))

	followers, err := env.social.Followers(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, alice.ID, followers[0].ID)
	assert.Equal(t, 1, followers[0].BookshelfStats.Read)
	assert.Equal(t, 1, followers[0].FollowCounts.Following)

	following, err := env.social.Following(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, bob.ID, following[0].ID)

	_, err = env.social.Followers(ctx, "user-missing")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound), "got %v", err)
}

func TestFollowCounts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice")
	bob := env.registerUser(t, "bob")
	carol := env.registerUser(t, "carol")

	require.NoError(t, env.social.Follow(ctx, alice.ID, bob.ID))
	require.NoError(t, env.social.Follow(ctx, carol.ID, bob.ID))
	require.NoError(t, env.social.Follow(ctx, bob.ID, alice.ID))

	counts, err := env.social.FollowCounts(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, counts.Followers)
	assert.Equal(t, 1, counts.Following)
}
