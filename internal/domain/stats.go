package domain

// BookshelfStats counts a user's shelf entries per reading status.
// Total is the sum of the three buckets; Favorites counts entries
// flagged as favorite regardless of status.
type BookshelfStats struct {
	ToRead    int `json:"to_read"`
	Reading   int `json:"reading"`
	Read      int `json:"read"`
	Favorites int `json:"favorite"`
	Total     int `json:"total"`
}

// RatingStats summarizes the ratings a user has given.
type RatingStats struct {
	AverageRating   float64 `json:"average_rating"`
	TotalRatedBooks int     `json:"total_rated_books"`
}
