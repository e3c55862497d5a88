package api

import (
	"github.com/shelfline/shelfline-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth      *service.AuthService
	Bookshelf *service.BookshelfService
	Social    *service.SocialService
	Feed      *service.FeedService
	User      *service.UserService
}
