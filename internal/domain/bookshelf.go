package domain

import (
	"math"
	"time"
)

// ReadingStatus represents where a book sits on a user's shelf.
type ReadingStatus string

const (
	// StatusToRead marks a book the user plans to read.
	StatusToRead ReadingStatus = "to_read"
	// StatusReading marks a book the user is currently reading.
	StatusReading ReadingStatus = "reading"
	// StatusRead marks a finished book.
	StatusRead ReadingStatus = "read"
)

// Valid checks if the status is valid.
func (s ReadingStatus) Valid() bool {
	switch s {
	case StatusToRead, StatusReading, StatusRead:
		return true
	default:
		return false
	}
}

// BookshelfEntry links a user to a book with reading state.
// A user holds at most one entry per book.
type BookshelfEntry struct {
	ID         string        `json:"id"`
	UserID     string        `json:"user_id"`
	BookID     string        `json:"book_id"`
	Status     ReadingStatus `json:"status"`
	IsFavorite bool          `json:"is_favorite"`
	Rating     *float64      `json:"rating,omitempty"`
	PagesRead  int           `json:"pages_read"`
	TotalPages *int          `json:"total_pages,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// Progress returns pages read over total pages as a fraction in [0, 1].
// Returns 0 when total pages is unknown.
func (e *BookshelfEntry) Progress() float64 {
	if e.TotalPages == nil || *e.TotalPages <= 0 {
		return 0
	}
	p := float64(e.PagesRead) / float64(*e.TotalPages)
	return math.Min(p, 1)
}

// EntryPatch carries a partial update to a shelf entry.
// Nil fields are left unchanged. A Rating of 0 clears the stored rating.
type EntryPatch struct {
	Status     *ReadingStatus
	IsFavorite *bool
	Rating     *float64
	PagesRead  *int
	TotalPages *int
}

// Empty reports whether the patch changes nothing.
func (p EntryPatch) Empty() bool {
	return p.Status == nil && p.IsFavorite == nil && p.Rating == nil &&
		p.PagesRead == nil && p.TotalPages == nil
}

// ValidRating checks that a rating is 0 (clears the rating) or falls on a
// half-star step between 1.0 and 5.0 inclusive.
func ValidRating(r float64) bool {
	if r == 0 {
		return true
	}
	if r < 1 || r > 5 {
		return false
	}
	doubled := r * 2
	return doubled == math.Trunc(doubled)
}
