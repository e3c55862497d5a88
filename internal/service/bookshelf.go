package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/shelfline/shelfline-server/internal/domain"
	domainerrors "github.com/shelfline/shelfline-server/internal/errors"
	"github.com/shelfline/shelfline-server/internal/id"
	"github.com/shelfline/shelfline-server/internal/store"
	"github.com/shelfline/shelfline-server/internal/store/sqlite"
)

// searchResultLimit caps catalog search results.
const searchResultLimit = 10

// BookshelfService manages the catalog and per-user shelves.
type BookshelfService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewBookshelfService creates a new bookshelf service.
func NewBookshelfService(store *sqlite.Store, logger *slog.Logger) *BookshelfService {
	return &BookshelfService{store: store, logger: logger}
}

// ShelfItem pairs a shelf entry with its book snapshot.
type ShelfItem struct {
	Entry *domain.BookshelfEntry `json:"entry"`
	Book  *domain.Book           `json:"book"`
}

// CreateBookRequest contains the data for adding a book to the catalog.
type CreateBookRequest struct {
	Name            string  `json:"name" validate:"required,max=512"`
	Subtitle        *string `json:"subtitle" validate:"omitempty,max=512"`
	Category        *string `json:"category" validate:"omitempty,max=255"`
	ISBN13          *string `json:"isbn13" validate:"omitempty,len=13"`
	ISBN10          *string `json:"isbn10" validate:"omitempty,len=10"`
	CoverURL        *string `json:"cover_url" validate:"omitempty,max=1024"`
	Description     *string `json:"description"`
	PublicationYear *int    `json:"publication_year"`
	NumPages        *int    `json:"num_pages" validate:"omitempty,min=1"`
}

// AddEntryRequest contains the data for shelving a book.
type AddEntryRequest struct {
	BookID     string               `json:"book_id" validate:"required"`
	Status     domain.ReadingStatus `json:"status"`
	PagesRead  int                  `json:"pages_read" validate:"min=0"`
	TotalPages *int                 `json:"total_pages" validate:"omitempty,min=1"`
}

// CreateBook adds a book to the shared catalog.
func (s *BookshelfService) CreateBook(ctx context.Context, req CreateBookRequest) (*domain.Book, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	for _, isbn := range []*string{req.ISBN13, req.ISBN10} {
		if isbn == nil || *isbn == "" {
			continue
		}
		existing, err := s.store.GetBookByISBN(ctx, *isbn)
		if err == nil {
			return nil, domainerrors.Conflict("a book with this ISBN already exists").
				WithDetails(map[string]string{"book_id": existing.ID})
		}
		if !domainerrors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("check isbn: %w", err)
		}
	}

	bookID, err := id.Generate("book")
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	now := time.Now()
	book := &domain.Book{
		ID:              bookID,
		Name:            strings.TrimSpace(req.Name),
		Subtitle:        req.Subtitle,
		Category:        req.Category,
		ISBN13:          req.ISBN13,
		ISBN10:          req.ISBN10,
		CoverURL:        req.CoverURL,
		Description:     req.Description,
		PublicationYear: req.PublicationYear,
		NumPages:        req.NumPages,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.store.CreateBook(ctx, book); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("a book with this ISBN already exists")
		}
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.logger.Info("book created", "book_id", bookID, "name", book.Name)
	return book, nil
}

// SearchBooks returns catalog books matching the query, capped at ten results.
func (s *BookshelfService) SearchBooks(ctx context.Context, query string) ([]*domain.Book, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domainerrors.Validation("search query cannot be empty")
	}

	books, err := s.store.SearchBooks(ctx, query, searchResultLimit)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	return books, nil
}

// BookDetail returns a book and, when present, the viewer's shelf entry for it.
func (s *BookshelfService) BookDetail(ctx context.Context, viewerID, bookID string) (*domain.Book, *domain.BookshelfEntry, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, nil, domainerrors.NotFound("book not found")
		}
		return nil, nil, fmt.Errorf("get book: %w", err)
	}

	entry, err := s.store.GetEntryByUserAndBook(ctx, viewerID, bookID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return book, nil, nil
		}
		return nil, nil, fmt.Errorf("get entry: %w", err)
	}
	return book, entry, nil
}

// ListShelf returns the user's shelf entries paired with their books in
// the order they were shelved, optionally filtered by status.
func (s *BookshelfService) ListShelf(ctx context.Context, userID string, status domain.ReadingStatus) ([]*ShelfItem, error) {
	if status != "" && !status.Valid() {
		return nil, domainerrors.Validationf("invalid status %q", status)
	}

	entries, err := s.store.ListEntriesByUser(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	items := make([]*ShelfItem, 0, len(entries))
	for _, entry := range entries {
		book, err := s.store.GetBook(ctx, entry.BookID)
		if err != nil {
			// An entry without a book is a broken reference; skip it rather
			// than failing the whole shelf.
			s.logger.Warn("shelf entry references missing book", "entry_id", entry.ID, "book_id", entry.BookID)
			continue
		}
		items = append(items, &ShelfItem{Entry: entry, Book: book})
	}
	return items, nil
}

// AddEntry shelves a book for the user. Total pages default to the book's
// page count, and finishing the book flips the status to read.
func (s *BookshelfService) AddEntry(ctx context.Context, userID string, req AddEntryRequest) (*domain.BookshelfEntry, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	status := req.Status
	if status == "" {
		status = domain.StatusToRead
	}
	if !status.Valid() {
		return nil, domainerrors.Validationf("invalid status %q", status)
	}

	book, err := s.store.GetBook(ctx, req.BookID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("book not found")
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	totalPages := req.TotalPages
	if totalPages == nil {
		totalPages = book.NumPages
	}
	if totalPages != nil && req.PagesRead > *totalPages {
		return nil, domainerrors.InvalidState("pages_read cannot exceed total_pages")
	}
	if totalPages != nil && req.PagesRead == *totalPages && req.PagesRead > 0 {
		status = domain.StatusRead
	}

	entryID, err := id.Generate("entry")
	if err != nil {
		return nil, fmt.Errorf("generate entry ID: %w", err)
	}

	now := time.Now()
	entry := &domain.BookshelfEntry{
		ID:         entryID,
		UserID:     userID,
		BookID:     req.BookID,
		Status:     status,
		PagesRead:  req.PagesRead,
		TotalPages: totalPages,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.store.CreateEntry(ctx, entry); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("this book is already on your shelf")
		}
		return nil, fmt.Errorf("create entry: %w", err)
	}

	return entry, nil
}

// UpdateEntry applies a partial update to one of the user's shelf entries.
// Rating changes trigger a recompute of the book's average rating.
func (s *BookshelfService) UpdateEntry(ctx context.Context, userID, entryID string, patch domain.EntryPatch) (*domain.BookshelfEntry, error) {
	entry, err := s.getOwnedEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	if patch.Empty() {
		return entry, nil
	}

	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, domainerrors.Validationf("invalid status %q", *patch.Status)
		}
		entry.Status = *patch.Status
	}
	if patch.IsFavorite != nil {
		entry.IsFavorite = *patch.IsFavorite
	}
	if patch.TotalPages != nil {
		if *patch.TotalPages < 1 {
			return nil, domainerrors.Validation("total_pages must be positive")
		}
		entry.TotalPages = patch.TotalPages
	}
	if patch.PagesRead != nil {
		if *patch.PagesRead < 0 {
			return nil, domainerrors.Validation("pages_read cannot be negative")
		}
		entry.PagesRead = *patch.PagesRead
	}

	if entry.TotalPages != nil && entry.PagesRead > *entry.TotalPages {
		return nil, domainerrors.InvalidState("pages_read cannot exceed total_pages")
	}
	// Reaching the last page means the book is finished.
	if entry.TotalPages != nil && entry.PagesRead == *entry.TotalPages && entry.PagesRead > 0 {
		entry.Status = domain.StatusRead
	}

	ratingChanged := false
	if patch.Rating != nil {
		if !domain.ValidRating(*patch.Rating) {
			return nil, domainerrors.Validation("rating must be between 1 and 5 in half-star steps")
		}
		if *patch.Rating == 0 {
			entry.Rating = nil
		} else {
			if entry.Status != domain.StatusRead {
				return nil, domainerrors.InvalidState("only finished books can be rated")
			}
			r := *patch.Rating
			entry.Rating = &r
		}
		ratingChanged = true
	}

	entry.UpdatedAt = time.Now()
	if err := s.store.UpdateEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}

	if ratingChanged {
		if err := s.recomputeAverageRating(ctx, entry.BookID); err != nil {
			s.logger.Error("recompute average rating", "book_id", entry.BookID, "error", err)
		}
	}

	return entry, nil
}

// RemoveEntry takes a book off the user's shelf. If the entry carried a
// rating, the book's average is recomputed without it.
func (s *BookshelfService) RemoveEntry(ctx context.Context, userID, entryID string) error {
	entry, err := s.getOwnedEntry(ctx, userID, entryID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteEntry(ctx, entry.ID); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	if entry.Rating != nil {
		if err := s.recomputeAverageRating(ctx, entry.BookID); err != nil {
			s.logger.Error("recompute average rating", "book_id", entry.BookID, "error", err)
		}
	}
	return nil
}

// Stats returns the user's per-status shelf counts.
func (s *BookshelfService) Stats(ctx context.Context, userID string) (*domain.BookshelfStats, error) {
	stats, err := s.store.GetBookshelfStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get bookshelf stats: %w", err)
	}
	return stats, nil
}

// getOwnedEntry loads an entry and enforces ownership.
func (s *BookshelfService) getOwnedEntry(ctx context.Context, userID, entryID string) (*domain.BookshelfEntry, error) {
	entry, err := s.store.GetEntry(ctx, entryID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("shelf entry not found")
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}
	if entry.UserID != userID {
		return nil, domainerrors.Forbidden("this shelf entry belongs to another user")
	}
	return entry, nil
}

// recomputeAverageRating rebuilds a book's average from its positive ratings,
// rounded to two decimals. A book with no ratings averages to zero.
func (s *BookshelfService) recomputeAverageRating(ctx context.Context, bookID string) error {
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

// roundTo2 rounds to two decimal places.
func roundTo2(f float64) float64 {
	return math.Round(f*100) / 100
}
