package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shelfline/shelfline-server/internal/auth"
	"github.com/shelfline/shelfline-server/internal/domain"
	domainerrors "github.com/shelfline/shelfline-server/internal/errors"
	"github.com/shelfline/shelfline-server/internal/store"
	"github.com/shelfline/shelfline-server/internal/store/sqlite"
)

// userSearchLimit caps user search results.
const userSearchLimit = 10

// UserService manages profiles, user search, notifications, and account removal.
type UserService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(store *sqlite.Store, logger *slog.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

// Profile is a user with the derived numbers profile pages render.
type Profile struct {
	User           *domain.User           `json:"user"`
	BookshelfStats *domain.BookshelfStats `json:"bookshelf_stats"`
	FollowCounts   *domain.FollowCounts   `json:"follow_counts"`
	RatingStats    *domain.RatingStats    `json:"rating_stats"`
	IsFollowing    bool                   `json:"is_following"`
}

// UpdateProfileRequest carries a partial profile update. Nil fields are
// left unchanged. Changing the password requires the current one.
type UpdateProfileRequest struct {
	Username        *string `json:"username" validate:"omitempty,min=3,max=32,alphanum"`
	Email           *string `json:"email" validate:"omitempty,email"`
	FullName        *string `json:"full_name" validate:"omitempty,max=256"`
	ProfilePicture  *string `json:"profile_picture" validate:"omitempty,max=1024"`
	CurrentPassword *string `json:"current_password"`
	NewPassword     *string `json:"new_password" validate:"omitempty,min=8,max=1024"`
}

// GetProfile returns the user's own profile with derived stats.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	return s.buildProfile(ctx, "", userID)
}

// GetPublicProfile returns another user's profile as seen by viewerID,
// including whether the viewer follows them.
func (s *UserService) GetPublicProfile(ctx context.Context, viewerID, userID string) (*Profile, error) {
	profile, err := s.buildProfile(ctx, viewerID, userID)
	if err != nil {
		return nil, err
	}
	// Never expose another user's credentials or contact address.
	profile.User.PasswordHash = ""
	profile.User.Email = ""
	return profile, nil
}

// GetProfileByUsername resolves a username and returns the public profile.
func (s *UserService) GetProfileByUsername(ctx context.Context, viewerID, username string) (*Profile, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return s.GetPublicProfile(ctx, viewerID, user.ID)
}

// UpdateProfile applies a partial update to the user's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if req.Username != nil {
		user.Username = strings.TrimSpace(*req.Username)
	}
	if req.Email != nil {
		user.Email = strings.TrimSpace(*req.Email)
	}
	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.ProfilePicture != nil {
		if *req.ProfilePicture == "" {
			user.ProfilePicture = nil
		} else {
			user.ProfilePicture = req.ProfilePicture
		}
	}

	if req.NewPassword != nil {
		if req.CurrentPassword == nil {
			return nil, domainerrors.Validation("current_password is required to change the password")
		}
		ok, err := auth.VerifyPassword(user.PasswordHash, *req.CurrentPassword)
		if err != nil {
			return nil, fmt.Errorf("verify password: %w", err)
		}
		if !ok {
			return nil, domainerrors.InvalidCredentials("current password is incorrect")
		}
		hash, err := auth.HashPassword(*req.NewPassword)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	user.UpdatedAt = time.Now()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("username or email already in use")
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.Info("profile updated", "user_id", userID)
	return user, nil
}

// UserSearchResult is a search hit enriched with the numbers user cards
// render, plus whether the searching user already follows the hit.
type UserSearchResult struct {
	domain.UserSummary
	BookshelfStats *domain.BookshelfStats `json:"bookshelf_stats"`
	FollowCounts   *domain.FollowCounts   `json:"follow_counts"`
	IsFollowing    bool                   `json:"is_following"`
}

// SearchUsers returns users whose username or full name matches the query,
// excluding the viewer. Enrichment failures degrade to zero counts instead
// of dropping the hit.
func (s *UserService) SearchUsers(ctx context.Context, viewerID, query string) ([]*UserSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domainerrors.Validation("search query cannot be empty")
	}

	users, err := s.store.SearchUsers(ctx, query, viewerID, userSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}

	results := make([]*UserSearchResult, 0, len(users))
	for _, u := range users {
		r := &UserSearchResult{UserSummary: u.Summary()}

		if r.BookshelfStats, err = s.store.GetBookshelfStats(ctx, u.ID); err != nil {
			s.logger.Warn("bookshelf stats unavailable", "user_id", u.ID, "error", err)
			r.BookshelfStats = &domain.BookshelfStats{}
		}
		if r.FollowCounts, err = s.store.GetFollowCounts(ctx, u.ID); err != nil {
			s.logger.Warn("follow counts unavailable", "user_id", u.ID, "error", err)
			r.FollowCounts = &domain.FollowCounts{}
		}
		if r.IsFollowing, err = s.store.FollowExists(ctx, viewerID, u.ID); err != nil {
			s.logger.Warn("follow check unavailable", "user_id", u.ID, "error", err)
		}

		results = append(results, r)
	}
	return results, nil
}

// Notifications returns the user's notifications, newest first.
func (s *UserService) Notifications(ctx context.Context, userID string) ([]*domain.Notification, error) {
	notifications, err := s.store.ListNotifications(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	if notifications == nil {
		notifications = []*domain.Notification{}
	}
	return notifications, nil
}

// DeleteAccount removes the user and everything attached to them. Shelf
// entries, follows in both directions, sessions, and notifications go with
// the row via foreign key cascades.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	// Collect rated books first so averages can be rebuilt after the cascade.
	entries, err := s.store.ListEntriesByUser(ctx, userID, "")
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}
	var ratedBooks []string
	for _, e := range entries {
		if e.Rating != nil && *e.Rating > 0 {
			ratedBooks = append(ratedBooks, e.BookID)
		}
	}

	if err := s.store.DeleteUser(ctx, userID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("user not found")
		}
		return fmt.Errorf("delete user: %w", err)
	}

	for _, bookID := range ratedBooks {
		if err := s.recomputeAverageRating(ctx, bookID); err != nil {
			s.logger.Error("recompute average rating", "book_id", bookID, "error", err)
		}
	}

	s.logger.Info("account deleted", "user_id", userID)
	return nil
}

// buildProfile assembles a profile; viewerID is empty for self views.
func (s *UserService) buildProfile(ctx context.Context, viewerID, userID string) (*Profile, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	profile := &Profile{User: user}

	// Derived stats degrade to zeros; a profile page should survive them.
	if profile.BookshelfStats, err = s.store.GetBookshelfStats(ctx, userID); err != nil {
		s.logger.Warn("bookshelf stats unavailable", "user_id", userID, "error", err)
		profile.BookshelfStats = &domain.BookshelfStats{}
	}
	if profile.FollowCounts, err = s.store.GetFollowCounts(ctx, userID); err != nil {
		s.logger.Warn("follow counts unavailable", "user_id", userID, "error", err)
		profile.FollowCounts = &domain.FollowCounts{}
	}
	if profile.RatingStats, err = s.store.GetRatingStats(ctx, userID); err != nil {
		s.logger.Warn("rating stats unavailable", "user_id", userID, "error", err)
		profile.RatingStats = &domain.RatingStats{}
	}

	if viewerID != "" && viewerID != userID {
		following, err := s.store.FollowExists(ctx, viewerID, userID)
		if err != nil {
			return nil, fmt.Errorf("check follow: %w", err)
		}
		profile.IsFollowing = following
	}

	return profile, nil
}

// recomputeAverageRating rebuilds a book's average from its remaining ratings.
func (s *UserService) recomputeAverageRating(ctx context.Context, bookID string) error {
	ratings, err := s.store.ListBookRatings(ctx, bookID)
	if err != nil {
		return fmt.Errorf("list ratings: %w", err)
	}

	var avg float64
	if len(ratings) > 0 {
		var sum float64
		for _, r := range ratings {
			sum += r
		}
		avg = roundTo2(sum / float64(len(ratings)))
	}

	if err := s.store.UpdateBookAverageRating(ctx, bookID, avg); err != nil {
		return fmt.Errorf("update average: %w", err)
	}
	return nil
}
