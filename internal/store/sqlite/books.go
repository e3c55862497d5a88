package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/shelfline/shelfline-server/internal/domain"
	"github.com/shelfline/shelfline-server/internal/normalize"
	"github.com/shelfline/shelfline-server/internal/store"
)

// bookColumns is the ordered list of columns selected in book queries.
// Must match the scan order in scanBook.
const bookColumns = `id, created_at, updated_at, name, subtitle, category,
	isbn13, isbn10, cover_url, description, publication_year, num_pages, average_rating`

// scanBook scans a sql.Row (or sql.Rows via its Scan method) into a domain.Book.
func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var b domain.Book

	var (
		createdAt       string
		updatedAt       string
		subtitle        sql.NullString
		category        sql.NullString
		isbn13          sql.NullString
		isbn10          sql.NullString
		coverURL        sql.NullString
		description     sql.NullString
		publicationYear sql.NullInt64
		numPages        sql.NullInt64
	)

	err := scanner.Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
		&b.Name,
		&subtitle,
		&category,
		&isbn13,
		&isbn10,
		&coverURL,
		&description,
		&publicationYear,
		&numPages,
		&b.AverageRating,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	b.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	b.Subtitle = stringPtr(subtitle)
	b.Category = stringPtr(category)
	b.ISBN13 = stringPtr(isbn13)
	b.ISBN10 = stringPtr(isbn10)
	b.CoverURL = stringPtr(coverURL)
	b.Description = stringPtr(description)
	b.PublicationYear = intPtr(publicationYear)
	b.NumPages = intPtr(numPages)

	return &b, nil
}

// foldNullable folds an optional string for accent-insensitive matching.
func foldNullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: normalize.Fold(*s), Valid: true}
}

// CreateBook inserts a new book into the catalog.
// Returns store.ErrAlreadyExists if an ISBN is already registered.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO books (
			id, created_at, updated_at, name, name_folded,
			subtitle, subtitle_folded, category, category_folded,
			isbn13, isbn10, cover_url, description,
			publication_year, num_pages, average_rating
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.ID,
		formatTime(book.CreatedAt),
		formatTime(book.UpdatedAt),
		book.Name,
		normalize.Fold(book.Name),
		nullableString(book.Subtitle),
		foldNullable(book.Subtitle),
		nullableString(book.Category),
		foldNullable(book.Category),
		nullableString(book.ISBN13),
		nullableString(book.ISBN10),
		nullableString(book.CoverURL),
		nullableString(book.Description),
		nullableInt(book.PublicationYear),
		nullableInt(book.NumPages),
		book.AverageRating,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetBook retrieves a book by ID.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = ?`, id)

	b, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// GetBookByISBN retrieves a book by its ISBN-13 or ISBN-10.
// Returns store.ErrNotFound if no book carries the ISBN.
func (s *Store) GetBookByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE isbn13 = ? OR isbn10 = ?`, isbn, isbn)

	b, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// SearchBooks returns books matching the query as a substring of the folded
// name, subtitle, or category, or as an exact ISBN fragment. Ordered by name.
func (s *Store) SearchBooks(ctx context.Context, query string, limit int) ([]*domain.Book, error) {
	pattern := "%" + normalize.Fold(query) + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+bookColumns+` FROM books
		WHERE name_folded LIKE ?
		   OR subtitle_folded LIKE ?
		   OR category_folded LIKE ?
		   OR isbn13 LIKE ?
		   OR isbn10 LIKE ?
		ORDER BY name ASC
		LIMIT ?`,
		pattern, pattern, pattern, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

// ListBookRatings returns all positive ratings currently attached to a book's
// shelf entries. Unrated entries and zero ratings are excluded.
func (s *Store) ListBookRatings(ctx context.Context, bookID string) ([]float64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT rating FROM bookshelf_entries
		WHERE book_id = ? AND rating IS NOT NULL AND rating > 0`,
		bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []float64
	for rows.Next() {
		var r float64
		if err := rows.Scan(&r); err != nil {
			return nil, err
		}
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ratings, nil
}

// UpdateBookAverageRating stores a recomputed average rating.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) UpdateBookAverageRating(ctx context.Context, bookID string, avg float64) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE books SET average_rating = ? WHERE id = ?`, avg, bookID)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
