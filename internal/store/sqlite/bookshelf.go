package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/shelfline/shelfline-server/internal/domain"
	"github.com/shelfline/shelfline-server/internal/store"
)

// entryColumns is the ordered list of columns selected in shelf entry queries.
// Must match the scan order in scanEntry.
const entryColumns = `id, user_id, book_id, status, is_favorite, rating,
	pages_read, total_pages, created_at, updated_at`

// scanEntry scans a sql.Row (or sql.Rows via its Scan method) into a domain.BookshelfEntry.
func scanEntry(scanner interface{ Scan(dest ...any) error }) (*domain.BookshelfEntry, error) {
	var e domain.BookshelfEntry

	var (
		status     string
		isFavorite int
		rating     sql.NullFloat64
		totalPages sql.NullInt64
		createdAt  string
		updatedAt  string
	)

	err := scanner.Scan(
		&e.ID,
		&e.UserID,
		&e.BookID,
		&status,
		&isFavorite,
		&rating,
		&e.PagesRead,
		&totalPages,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Status = domain.ReadingStatus(status)
	e.IsFavorite = isFavorite != 0
	e.Rating = floatPtr(rating)
	e.TotalPages = intPtr(totalPages)

	e.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	e.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &e, nil
}

// CreateEntry inserts a new shelf entry.
// Returns store.ErrAlreadyExists if the user already shelved the book.
func (s *Store) CreateEntry(ctx context.Context, entry *domain.BookshelfEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bookshelf_entries (
			id, user_id, book_id, status, is_favorite, rating,
			pages_read, total_pages, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.UserID,
		entry.BookID,
		string(entry.Status),
		boolToInt(entry.IsFavorite),
		nullableFloat(entry.Rating),
		entry.PagesRead,
		nullableInt(entry.TotalPages),
		formatTime(entry.CreatedAt),
		formatTime(entry.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetEntry retrieves a shelf entry by ID.
// Returns store.ErrNotFound if the entry does not exist.
func (s *Store) GetEntry(ctx context.Context, id string) (*domain.BookshelfEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM bookshelf_entries WHERE id = ?`, id)

	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// GetEntryByUserAndBook retrieves the entry linking a user to a book.
// Returns store.ErrNotFound if the book is not on the user's shelf.
func (s *Store) GetEntryByUserAndBook(ctx context.Context, userID, bookID string) (*domain.BookshelfEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM bookshelf_entries WHERE user_id = ? AND book_id = ?`,
		userID, bookID)

	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateEntry performs a full row update on an existing shelf entry.
// Returns store.ErrNotFound if the entry does not exist.
func (s *Store) UpdateEntry(ctx context.Context, entry *domain.BookshelfEntry) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE bookshelf_entries SET
			status = ?,
			is_favorite = ?,
			rating = ?,
			pages_read = ?,
			total_pages = ?,
			updated_at = ?
		WHERE id = ?`,
		string(entry.Status),
		boolToInt(entry.IsFavorite),
		nullableFloat(entry.Rating),
		entry.PagesRead,
		nullableInt(entry.TotalPages),
		formatTime(entry.UpdatedAt),
		entry.ID,
	)
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

// DeleteEntry removes a shelf entry.
// Returns store.ErrNotFound if the entry does not exist.
func (s *Store) DeleteEntry(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM bookshelf_entries WHERE id = ?`, id)
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

// ListEntriesByUser returns a user's shelf entries in the order they were
// shelved. An empty status returns every entry; otherwise only matching
// entries.
func (s *Store) ListEntriesByUser(ctx context.Context, userID string, status domain.ReadingStatus) ([]*domain.BookshelfEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM bookshelf_entries WHERE user_id = ?`
	args := []any{userID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.BookshelfEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListRecentEntriesByUsers returns the most recently updated shelf entries
// across the given users, newest first. Returns nil for an empty user set.
func (s *Store) ListRecentEntriesByUsers(ctx context.Context, userIDs []string, limit int) ([]*domain.BookshelfEntry, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(userIDs))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, 0, len(userIDs)+1)
	for _, id := range userIDs {
		args = append(args, id)
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+entryColumns+` FROM bookshelf_entries
		WHERE user_id IN (`+placeholders+`)
		ORDER BY updated_at DESC
		LIMIT ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.BookshelfEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetBookshelfStats counts a user's entries per status in a single aggregate
// pass. A user with no entries gets all-zero counts.
func (s *Store) GetBookshelfStats(ctx context.Context, userID string) (*domain.BookshelfStats, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN status = 'to_read' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'reading' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'read' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN is_favorite = 1 THEN 1 ELSE 0 END), 0),
			COUNT(*)
		FROM bookshelf_entries
		WHERE user_id = ?`, userID)

	var stats domain.BookshelfStats
	if err := row.Scan(&stats.ToRead, &stats.Reading, &stats.Read, &stats.Favorites, &stats.Total); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetRatingStats averages the positive ratings a user has given.
// A user with no rated books gets zero values.
func (s *Store) GetRatingStats(ctx context.Context, userID string) (*domain.RatingStats, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(AVG(rating), 0), COUNT(rating)
		FROM bookshelf_entries
		WHERE user_id = ? AND rating IS NOT NULL AND rating > 0`, userID)

	var stats domain.RatingStats
	if err := row.Scan(&stats.AverageRating, &stats.TotalRatedBooks); err != nil {
		return nil, err
	}
	return &stats, nil
}
