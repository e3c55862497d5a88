package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfline/shelfline-server/internal/domain"
	"github.com/shelfline/shelfline-server/internal/service"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get own profile",
		Description: "Returns the authenticated user's profile with derived stats",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCurrentUser",
		Method:      http.MethodPatch,
		Path:        "/api/v1/users/me",
		Summary:     "Update own profile",
		Description: "Applies a partial update to the authenticated user's profile",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteCurrentUser",
		Method:      http.MethodDelete,
		Path:        "/api/v1/users/me",
		Summary:     "Delete own account",
		Description: "Permanently removes the account, its shelf, follows, and notifications",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchUsers",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/search",
		Summary:     "Search users",
		Description: "Searches users by username or full name",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchUsers)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}",
		Summary:     "Get user profile",
		Description: "Returns another user's public profile with derived stats",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUserByUsername",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/username/{username}",
		Summary:     "Get user profile by username",
		Description: "Resolves a username and returns the public profile",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetUserByUsername)
}

// === DTOs ===

// ProfileResponse contains a user profile with derived stats.
type ProfileResponse struct {
	User           UserResponse           `json:"user" doc:"User details"`
	BookshelfStats *domain.BookshelfStats `json:"bookshelf_stats" doc:"Shelf counts by status"`
	FollowCounts   *domain.FollowCounts   `json:"follow_counts" doc:"Follower and following counts"`
	RatingStats    *domain.RatingStats    `json:"rating_stats" doc:"Rating average and count"`
	IsFollowing    bool                   `json:"is_following" doc:"Whether the viewer follows this user"`
}

// ProfileOutput wraps the profile response for Huma.
type ProfileOutput struct {
	Body ProfileResponse
}

// GetProfileInput identifies the requesting user.
type GetProfileInput struct {
	Authorization string `header:"Authorization"`
}

// UpdateProfileRequest is the request body for profile updates.
// Omitted fields are left unchanged.
type UpdateProfileRequest struct {
	Username        *string `json:"username,omitempty" doc:"New username"`
	Email           *string `json:"email,omitempty" doc:"New email address"`
	FullName        *string `json:"full_name,omitempty" doc:"New display name"`
	ProfilePicture  *string `json:"profile_picture,omitempty" doc:"New profile picture URL, empty string clears"`
	CurrentPassword *string `json:"current_password,omitempty" doc:"Current password, required to change the password"`
	NewPassword     *string `json:"new_password,omitempty" doc:"New password"`
}

// UpdateProfileInput wraps the profile update for Huma.
type UpdateProfileInput struct {
	Authorization string `header:"Authorization"`
	Body          UpdateProfileRequest
}

// UserOutput wraps a single user for Huma.
type UserOutput struct {
	Body UserResponse
}

// SearchUsersInput contains parameters for user search.
type SearchUsersInput struct {
	Authorization string `header:"Authorization"`
	Query         string `query:"q" doc:"Search query"`
}

// UserSearchOutput wraps enriched user search results for Huma.
type UserSearchOutput struct {
	Body []*service.UserSearchResult
}

// GetUserInput identifies a user by ID.
type GetUserInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"User ID"`
}

// GetUserByUsernameInput identifies a user by username.
type GetUserByUsernameInput struct {
	Authorization string `header:"Authorization"`
	Username      string `path:"username" doc:"Username"`
}

// === Handlers ===

func (s *Server) handleGetCurrentUser(ctx context.Context, input *GetProfileInput) (*ProfileOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	profile, err := s.services.User.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{Body: mapProfile(profile)}, nil
}

func (s *Server) handleUpdateCurrentUser(ctx context.Context, input *UpdateProfileInput) (*UserOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.services.User.UpdateProfile(ctx, userID, service.UpdateProfileRequest{
		Username:        input.Body.Username,
		Email:           input.Body.Email,
		FullName:        input.Body.FullName,
		ProfilePicture:  input.Body.ProfilePicture,
		CurrentPassword: input.Body.CurrentPassword,
		NewPassword:     input.Body.NewPassword,
	})
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUser(user)}, nil
}

func (s *Server) handleDeleteCurrentUser(ctx context.Context, input *GetProfileInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.User.DeleteAccount(ctx, userID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Account deleted"}}, nil
}

func (s *Server) handleSearchUsers(ctx context.Context, input *SearchUsersInput) (*UserSearchOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	users, err := s.services.User.SearchUsers(ctx, userID, input.Query)
	if err != nil {
		return nil, err
	}

	return &UserSearchOutput{Body: users}, nil
}

func (s *Server) handleGetUser(ctx context.Context, input *GetUserInput) (*ProfileOutput, error) {
	viewerID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	profile, err := s.services.User.GetPublicProfile(ctx, viewerID, input.ID)
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{Body: mapProfile(profile)}, nil
}

func (s *Server) handleGetUserByUsername(ctx context.Context, input *GetUserByUsernameInput) (*ProfileOutput, error) {
	viewerID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	profile, err := s.services.User.GetProfileByUsername(ctx, viewerID, input.Username)
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{Body: mapProfile(profile)}, nil
}

// === Helpers ===

func mapProfile(p *service.Profile) ProfileResponse {
	return ProfileResponse{
		User:           mapUser(p.User),
		BookshelfStats: p.BookshelfStats,
		FollowCounts:   p.FollowCounts,
		RatingStats:    p.RatingStats,
		IsFollowing:    p.IsFollowing,
	}
}
