package domain

import "time"

// Book represents a catalog entry shared by all users.
// AverageRating is derived from shelf entries and recomputed whenever
// a rating changes; it is never written directly by clients.
type Book struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Subtitle        *string   `json:"subtitle,omitempty"`
	Category        *string   `json:"category,omitempty"`
	ISBN13          *string   `json:"isbn13,omitempty"`
	ISBN10          *string   `json:"isbn10,omitempty"`
	CoverURL        *string   `json:"cover_url,omitempty"`
	Description     *string   `json:"description,omitempty"`
	PublicationYear *int      `json:"publication_year,omitempty"`
	NumPages        *int      `json:"num_pages,omitempty"`
	AverageRating   float64   `json:"average_rating"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// BookSummary is the subset of a book embedded in feed entries.
type BookSummary struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Subtitle      *string `json:"subtitle,omitempty"`
	CoverURL      *string `json:"cover_url,omitempty"`
	NumPages      *int    `json:"num_pages,omitempty"`
	AverageRating float64 `json:"average_rating"`
}

// Summary projects the book onto its feed subset.
func (b *Book) Summary() BookSummary {
	return BookSummary{
		ID:            b.ID,
		Name:          b.Name,
		Subtitle:      b.Subtitle,
		CoverURL:      b.CoverURL,
		NumPages:      b.NumPages,
		AverageRating: b.AverageRating,
	}
}
