package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfline/shelfline-server/internal/domain"
	"github.com/shelfline/shelfline-server/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/search",
		Summary:     "Search books",
		Description: "Searches the catalog by title, subtitle, category, or ISBN, accent-insensitive",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchBooks)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createBook",
		Method:        http.MethodPost,
		Path:          "/api/v1/books",
		Summary:       "Create book",
		Description:   "Adds a book to the shared catalog",
		Tags:          []string{"Books"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Description: "Returns a catalog book and the viewer's shelf entry for it, if any",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetBook)
}

// === DTOs ===

// SearchBooksInput contains parameters for catalog search.
type SearchBooksInput struct {
	Authorization string `header:"Authorization"`
	Query         string `query:"q" doc:"Search query"`
}

// BooksOutput wraps a list of books for Huma.
type BooksOutput struct {
	Body []*domain.Book
}

// CreateBookRequest is the request body for adding a catalog book.
type CreateBookRequest struct {
	Name            string  `json:"name" validate:"required,max=512" doc:"Book title"`
	Subtitle        *string `json:"subtitle,omitempty" doc:"Subtitle"`
	Category        *string `json:"category,omitempty" doc:"Category or genre"`
	ISBN13          *string `json:"isbn13,omitempty" doc:"ISBN-13"`
	ISBN10          *string `json:"isbn10,omitempty" doc:"ISBN-10"`
	CoverURL        *string `json:"cover_url,omitempty" doc:"Cover image URL"`
	Description     *string `json:"description,omitempty" doc:"Description"`
	PublicationYear *int    `json:"publication_year,omitempty" doc:"Publication year"`
	NumPages        *int    `json:"num_pages,omitempty" doc:"Page count"`
}

// CreateBookInput wraps the create request for Huma.
type CreateBookInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateBookRequest
}

// BookOutput wraps a single book for Huma.
type BookOutput struct {
	Body *domain.Book
}

// GetBookInput identifies a catalog book.
type GetBookInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
}

// BookDetailResponse pairs a book with the viewer's shelf entry.
type BookDetailResponse struct {
	Book  *domain.Book           `json:"book" doc:"Catalog book"`
	Entry *domain.BookshelfEntry `json:"entry,omitempty" doc:"Viewer's shelf entry, if shelved"`
}

// BookDetailOutput wraps the book detail for Huma.
type BookDetailOutput struct {
	Body BookDetailResponse
}

// === Handlers ===

func (s *Server) handleSearchBooks(ctx context.Context, input *SearchBooksInput) (*BooksOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	books, err := s.services.Bookshelf.SearchBooks(ctx, input.Query)
	if err != nil {
		return nil, err
	}

	return &BooksOutput{Body: books}, nil
}

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*BookOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	book, err := s.services.Bookshelf.CreateBook(ctx, service.CreateBookRequest{
		Name:            input.Body.Name,
		Subtitle:        input.Body.Subtitle,
		Category:        input.Body.Category,
		ISBN13:          input.Body.ISBN13,
		ISBN10:          input.Body.ISBN10,
		CoverURL:        input.Body.CoverURL,
		Description:     input.Body.Description,
		PublicationYear: input.Body.PublicationYear,
		NumPages:        input.Body.NumPages,
	})
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: book}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *GetBookInput) (*BookDetailOutput, error) {
	viewerID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	book, entry, err := s.services.Bookshelf.BookDetail(ctx, viewerID, input.ID)
	if err != nil {
		return nil, err
	}

	return &BookDetailOutput{Body: BookDetailResponse{Book: book, Entry: entry}}, nil
}
