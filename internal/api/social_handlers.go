package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfline/shelfline-server/internal/service"
)

func (s *Server) registerSocialRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "followUser",
		Method:      http.MethodPost,
		Path:        "/api/v1/users/{id}/follow",
		Summary:     "Follow user",
		Description: "Follows the given user and notifies them",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleFollowUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "unfollowUser",
		Method:      http.MethodDelete,
		Path:        "/api/v1/users/{id}/follow",
		Summary:     "Unfollow user",
		Description: "Removes the follow edge to the given user",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnfollowUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFollowers",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}/followers",
		Summary:     "List followers",
		Description: "Returns the users following the given user, newest first",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListFollowers)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFollowing",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}/following",
		Summary:     "List following",
		Description: "Returns the users the given user follows, newest first",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListFollowing)
}

// === DTOs ===

// FollowInput identifies the user to follow or unfollow.
type FollowInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Target user ID"`
}

// FollowResponse confirms a follow state change.
type FollowResponse struct {
	IsFollowing bool   `json:"is_following" doc:"Follow state after the operation"`
	Message     string `json:"message" doc:"Confirmation message"`
}

// FollowOutput wraps the follow response for Huma.
type FollowOutput struct {
	Body FollowResponse
}

// SocialUsersOutput wraps a list of users with their social stats for Huma.
type SocialUsersOutput struct {
	Body []*service.SocialUser
}

// === Handlers ===

func (s *Server) handleFollowUser(ctx context.Context, input *FollowInput) (*FollowOutput, error) {
	viewerID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Social.Follow(ctx, viewerID, input.ID); err != nil {
		return nil, err
	}

	return &FollowOutput{Body: FollowResponse{
		IsFollowing: true,
		Message:     "Successfully followed user",
	}}, nil
}

func (s *Server) handleUnfollowUser(ctx context.Context, input *FollowInput) (*FollowOutput, error) {
	viewerID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Social.Unfollow(ctx, viewerID, input.ID); err != nil {
		return nil, err
	}

	return &FollowOutput{Body: FollowResponse{
		IsFollowing: false,
		Message:     "Successfully unfollowed user",
	}}, nil
}

func (s *Server) handleListFollowers(ctx context.Context, input *FollowInput) (*SocialUsersOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	followers, err := s.services.Social.Followers(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &SocialUsersOutput{Body: followers}, nil
}

func (s *Server) handleListFollowing(ctx context.Context, input *FollowInput) (*SocialUsersOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	following, err := s.services.Social.Following(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &SocialUsersOutput{Body: following}, nil
}
