package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shelfline/shelfline-server/internal/domain"
	domainerrors "github.com/shelfline/shelfline-server/internal/errors"
	"github.com/shelfline/shelfline-server/internal/id"
	"github.com/shelfline/shelfline-server/internal/store"
	"github.com/shelfline/shelfline-server/internal/store/sqlite"
)

// SocialService manages the follow graph and its notifications.
type SocialService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewSocialService creates a new social service.
func NewSocialService(store *sqlite.Store, logger *slog.Logger) *SocialService {
	return &SocialService{store: store, logger: logger}
}

// SocialUser is a user summary enriched with shelf and follow counts for
// follower and following listings.
type SocialUser struct {
	domain.UserSummary
	BookshelfStats *domain.BookshelfStats `json:"bookshelf_stats"`
	FollowCounts   *domain.FollowCounts   `json:"follow_counts"`
}

// Follow creates a follow edge from follower to followed and notifies the
// followed user. Guards run in order: self-follow, missing target, duplicate.
func (s *SocialService) Follow(ctx context.Context, followerID, followedID string) error {
	if followerID == followedID {
		return domainerrors.InvalidState("you cannot follow yourself")
	}

	followed, err := s.store.GetUser(ctx, followedID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("user not found")
		}
		return fmt.Errorf("get followed user: %w", err)
	}

	follower, err := s.store.GetUser(ctx, followerID)
	if err != nil {
		return fmt.Errorf("get follower: %w", err)
	}

	notificationID, err := id.Generate("ntf")
	if err != nil {
		return fmt.Errorf("generate notification ID: %w", err)
	}

	now := time.Now()
	follow := &domain.Follow{
		FollowerID: followerID,
		FollowedID: followedID,
		CreatedAt:  now,
	}
	notification := &domain.Notification{
		ID:        notificationID,
		UserID:    followedID,
		Type:      domain.NotificationTypeFollow,
		Message:   fmt.Sprintf("%s started following you", follower.Username),
		CreatedAt: now,
	}

	if err := s.store.CreateFollow(ctx, follow, notification); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return domainerrors.Conflict("you already follow this user")
		}
		return fmt.Errorf("create follow: %w", err)
	}

	s.logger.Info("follow created", "follower_id", followerID, "followed_id", followed.ID)
	return nil
}

// Unfollow removes a follow edge.
func (s *SocialService) Unfollow(ctx context.Context, followerID, followedID string) error {
	if followerID == followedID {
		return domainerrors.InvalidState("you cannot unfollow yourself")
	}

	if _, err := s.store.GetUser(ctx, followedID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("user not found")
		}
		return fmt.Errorf("get followed user: %w", err)
	}

	if err := s.store.DeleteFollow(ctx, followerID, followedID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.InvalidState("you do not follow this user")
		}
		return fmt.Errorf("delete follow: %w", err)
	}
	return nil
}

// IsFollowing reports whether follower currently follows followed.
func (s *SocialService) IsFollowing(ctx context.Context, followerID, followedID string) (bool, error) {
	following, err := s.store.FollowExists(ctx, followerID, followedID)
	if err != nil {
		return false, fmt.Errorf("check follow: %w", err)
	}
	return following, nil
}

// Followers returns the users following userID, enriched with their counts.
func (s *SocialService) Followers(ctx context.Context, userID string) ([]*SocialUser, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	users, err := s.store.ListFollowers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list followers: %w", err)
	}
	return s.enrich(ctx, users), nil
}

// Following returns the users userID follows, enriched with their counts.
func (s *SocialService) Following(ctx context.Context, userID string) ([]*SocialUser, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	users, err := s.store.ListFollowing(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	return s.enrich(ctx, users), nil
}

// FollowCounts returns a user's follower and following totals. Missing stats
// degrade to zeros rather than failing the caller.
func (s *SocialService) FollowCounts(ctx context.Context, userID string) (*domain.FollowCounts, error) {
	counts, err := s.store.GetFollowCounts(ctx, userID)
	if err != nil {
		s.logger.Warn("follow counts unavailable", "user_id", userID, "error", err)
		return &domain.FollowCounts{}, nil
	}
	return counts, nil
}

// enrich attaches shelf stats and follow counts to each user summary.
// Enrichment failures degrade to zero counts instead of dropping the user.
func (s *SocialService) enrich(ctx context.Context, users []*domain.User) []*SocialUser {
	result := make([]*SocialUser, 0, len(users))
	for _, u := range users {
		su := &SocialUser{UserSummary: u.Summary()}

		stats, err := s.store.GetBookshelfStats(ctx, u.ID)
		if err != nil {
			s.logger.Warn("bookshelf stats unavailable", "user_id", u.ID, "error", err)
			stats = &domain.BookshelfStats{}
		}
		su.BookshelfStats = stats

		counts, err := s.store.GetFollowCounts(ctx, u.ID)
		if err != nil {
			s.logger.Warn("follow counts unavailable", "user_id", u.ID, "error", err)
			counts = &domain.FollowCounts{}
		}
		su.FollowCounts = counts

		result = append(result, su)
	}
	return result
}
