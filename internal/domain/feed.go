package domain

import "time"

// ActivityType classifies what a shelf entry most recently represents
// when it surfaces in a follower's feed.
type ActivityType string

const (
	ActivityRating         ActivityType = "rating"
	ActivityFavorite       ActivityType = "favorite"
	ActivityCompleted      ActivityType = "completed"
	ActivityStartedReading ActivityType = "started_reading"
	ActivityProgress       ActivityType = "progress"
	ActivityAddedToShelf   ActivityType = "added_to_shelf"
	ActivityUpdate         ActivityType = "update"
)

// ClassifyActivity derives the activity type from the entry's current state.
// Precedence: rating, favorite, completed, started reading, page progress,
// added to shelf. Anything else is a generic update.
func ClassifyActivity(e *BookshelfEntry) ActivityType {
	switch {
	case e.Rating != nil:
		return ActivityRating
	case e.IsFavorite:
		return ActivityFavorite
	case e.Status == StatusRead:
		return ActivityCompleted
	case e.Status == StatusReading:
		return ActivityStartedReading
	case e.PagesRead > 0:
		return ActivityProgress
	case e.Status == StatusToRead:
		return ActivityAddedToShelf
	default:
		return ActivityUpdate
	}
}

// FeedItem is a shelf entry enriched with fresh user and book snapshots
// for rendering in a follower's feed.
type FeedItem struct {
	ID           string        `json:"id"`
	UserID       string        `json:"user_id"`
	BookID       string        `json:"book_id"`
	Status       ReadingStatus `json:"status"`
	PagesRead    int           `json:"pages_read"`
	TotalPages   *int          `json:"total_pages,omitempty"`
	Rating       *float64      `json:"rating,omitempty"`
	IsFavorite   bool          `json:"is_favorite"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	User         *UserSummary  `json:"user,omitempty"`
	Book         *BookSummary  `json:"book,omitempty"`
	ActivityType ActivityType  `json:"activity_type"`
}
