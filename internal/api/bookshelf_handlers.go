package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfline/shelfline-server/internal/domain"
	"github.com/shelfline/shelfline-server/internal/service"
)

func (s *Server) registerBookshelfRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBookshelf",
		Method:      http.MethodGet,
		Path:        "/api/v1/bookshelf",
		Summary:     "List bookshelf",
		Description: "Returns the authenticated user's shelf, most recently updated first",
		Tags:        []string{"Bookshelf"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListBookshelf)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addBookshelfEntry",
		Method:        http.MethodPost,
		Path:          "/api/v1/bookshelf",
		Summary:       "Add book to shelf",
		Description:   "Adds a catalog book to the authenticated user's shelf",
		Tags:          []string{"Bookshelf"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleAddBookshelfEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBookshelfEntry",
		Method:      http.MethodPatch,
		Path:        "/api/v1/bookshelf/{id}",
		Summary:     "Update shelf entry",
		Description: "Applies a partial update to one of the authenticated user's shelf entries",
		Tags:        []string{"Bookshelf"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateBookshelfEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeBookshelfEntry",
		Method:      http.MethodDelete,
		Path:        "/api/v1/bookshelf/{id}",
		Summary:     "Remove shelf entry",
		Description: "Removes an entry from the authenticated user's shelf",
		Tags:        []string{"Bookshelf"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveBookshelfEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBookshelfStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/bookshelf/stats",
		Summary:     "Get shelf stats",
		Description: "Returns shelf counts by status for the authenticated user",
		Tags:        []string{"Bookshelf"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetBookshelfStats)
}

// === DTOs ===

// ListBookshelfInput contains parameters for listing the shelf.
type ListBookshelfInput struct {
	Authorization string `header:"Authorization"`
	Status        string `query:"status" doc:"Optional status filter (to_read, reading, read)"`
}

// ShelfOutput wraps the shelf listing for Huma.
type ShelfOutput struct {
	Body []*service.ShelfItem
}

// AddEntryRequest is the request body for shelving a book.
type AddEntryRequest struct {
	BookID     string `json:"book_id" validate:"required" doc:"Catalog book ID"`
	Status     string `json:"status,omitempty" doc:"Initial status (defaults to to_read)"`
	PagesRead  int    `json:"pages_read,omitempty" doc:"Pages already read"`
	TotalPages *int   `json:"total_pages,omitempty" doc:"Edition page count (defaults to the book's)"`
}

// AddEntryInput wraps the add request for Huma.
type AddEntryInput struct {
	Authorization string `header:"Authorization"`
	Body          AddEntryRequest
}

// EntryOutput wraps a single shelf entry for Huma.
type EntryOutput struct {
	Body *domain.BookshelfEntry
}

// UpdateEntryRequest is the request body for a shelf entry patch.
// Omitted fields are left unchanged. A rating of 0 clears the rating.
type UpdateEntryRequest struct {
	Status     *string  `json:"status,omitempty" doc:"New reading status"`
	IsFavorite *bool    `json:"is_favorite,omitempty" doc:"Favorite flag"`
	Rating     *float64 `json:"rating,omitempty" doc:"Rating in half steps from 1 to 5, 0 clears"`
	PagesRead  *int     `json:"pages_read,omitempty" doc:"Pages read so far"`
	TotalPages *int     `json:"total_pages,omitempty" doc:"Edition page count"`
}

// UpdateEntryInput wraps the patch request for Huma.
type UpdateEntryInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Shelf entry ID"`
	Body          UpdateEntryRequest
}

// EntryIDInput identifies a shelf entry.
type EntryIDInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Shelf entry ID"`
}

// BookshelfStatsInput identifies the requesting user.
type BookshelfStatsInput struct {
	Authorization string `header:"Authorization"`
}

// StatsOutput wraps shelf stats for Huma.
type StatsOutput struct {
	Body *domain.BookshelfStats
}

// === Handlers ===

func (s *Server) handleListBookshelf(ctx context.Context, input *ListBookshelfInput) (*ShelfOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	items, err := s.services.Bookshelf.ListShelf(ctx, userID, domain.ReadingStatus(input.Status))
	if err != nil {
		return nil, err
	}

	return &ShelfOutput{Body: items}, nil
}

func (s *Server) handleAddBookshelfEntry(ctx context.Context, input *AddEntryInput) (*EntryOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	entry, err := s.services.Bookshelf.AddEntry(ctx, userID, service.AddEntryRequest{
		BookID:     input.Body.BookID,
		Status:     domain.ReadingStatus(input.Body.Status),
		PagesRead:  input.Body.PagesRead,
		TotalPages: input.Body.TotalPages,
	})
	if err != nil {
		return nil, err
	}

	return &EntryOutput{Body: entry}, nil
}

func (s *Server) handleUpdateBookshelfEntry(ctx context.Context, input *UpdateEntryInput) (*EntryOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	patch := domain.EntryPatch{
		IsFavorite: input.Body.IsFavorite,
		Rating:     input.Body.Rating,
		PagesRead:  input.Body.PagesRead,
		TotalPages: input.Body.TotalPages,
	}
	if input.Body.Status != nil {
		status := domain.ReadingStatus(*input.Body.Status)
		patch.Status = &status
	}

	entry, err := s.services.Bookshelf.UpdateEntry(ctx, userID, input.ID, patch)
	if err != nil {
		return nil, err
	}

	return &EntryOutput{Body: entry}, nil
}

func (s *Server) handleRemoveBookshelfEntry(ctx context.Context, input *EntryIDInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Bookshelf.RemoveEntry(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Entry removed"}}, nil
}

func (s *Server) handleGetBookshelfStats(ctx context.Context, input *BookshelfStatsInput) (*StatsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	stats, err := s.services.Bookshelf.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &StatsOutput{Body: stats}, nil
}
