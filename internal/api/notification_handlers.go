package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfline/shelfline-server/internal/domain"
)

func (s *Server) registerNotificationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listNotifications",
		Method:      http.MethodGet,
		Path:        "/api/v1/notifications",
		Summary:     "List notifications",
		Description: "Returns the authenticated user's notifications, newest first",
		Tags:        []string{"Notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListNotifications)
}

// === DTOs ===

// ListNotificationsInput identifies the requesting user.
type ListNotificationsInput struct {
	Authorization string `header:"Authorization"`
}

// NotificationsOutput wraps the notification list for Huma.
type NotificationsOutput struct {
	Body []*domain.Notification
}

// === Handlers ===

func (s *Server) handleListNotifications(ctx context.Context, input *ListNotificationsInput) (*NotificationsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	notifications, err := s.services.User.Notifications(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &NotificationsOutput{Body: notifications}, nil
}
