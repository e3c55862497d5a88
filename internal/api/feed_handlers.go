package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfline/shelfline-server/internal/domain"
)

func (s *Server) registerFeedRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getFeed",
		Method:      http.MethodGet,
		Path:        "/api/v1/feed",
		Summary:     "Get activity feed",
		Description: "Returns recent shelf activity from followed users, newest first",
		Tags:        []string{"Feed"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetFeed)
}

// === DTOs ===

// GetFeedInput contains parameters for the activity feed.
// Limit is parsed leniently: junk or non-positive values fall back to the default.
type GetFeedInput struct {
	Authorization string `header:"Authorization"`
	Limit         string `query:"limit" doc:"Max items (default 20, max 100)"`
}

// FeedOutput wraps the feed items for Huma.
type FeedOutput struct {
	Body []*domain.FeedItem
}

// === Handlers ===

func (s *Server) handleGetFeed(ctx context.Context, input *GetFeedInput) (*FeedOutput, error) {
	viewerID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	limit := 0
	if input.Limit != "" {
		if n, err := strconv.Atoi(input.Limit); err == nil {
			limit = n
		}
	}

	items, err := s.services.Feed.BuildFeed(ctx, viewerID, limit)
	if err != nil {
		return nil, err
	}

	return &FeedOutput{Body: items}, nil
}
