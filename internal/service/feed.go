package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shelfline/shelfline-server/internal/domain"
	"github.com/shelfline/shelfline-server/internal/store/sqlite"
)

const (
	defaultFeedLimit = 20
	maxFeedLimit     = 100
)

// FeedService builds activity feeds by reading followed users' shelves on
// demand. Nothing is precomputed or stored per follower.
type FeedService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewFeedService creates a new feed service.
func NewFeedService(store *sqlite.Store, logger *slog.Logger) *FeedService {
	return &FeedService{store: store, logger: logger}
}

// BuildFeed returns the most recent shelf activity from the users viewerID
// follows, newest first. A viewer following nobody gets an empty feed.
func (s *FeedService) BuildFeed(ctx context.Context, viewerID string, limit int) ([]*domain.FeedItem, error) {
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}

	followingIDs, err := s.store.ListFollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	if len(followingIDs) == 0 {
		return []*domain.FeedItem{}, nil
	}

	entries, err := s.store.ListRecentEntriesByUsers(ctx, followingIDs, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent entries: %w", err)
	}

	items := make([]*domain.FeedItem, 0, len(entries))
	for _, entry := range entries {
		item, err := s.buildItem(ctx, entry)
		if err != nil {
			// One bad entry must not take down the whole feed.
			s.logger.Warn("skipping feed entry", "entry_id", entry.ID, "error", err)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// buildItem assembles a feed item with fresh user and book snapshots, so the
// feed always reflects current names, covers, and averages.
func (s *FeedService) buildItem(ctx context.Context, entry *domain.BookshelfEntry) (*domain.FeedItem, error) {
	item := &domain.FeedItem{
		ID:           entry.ID,
		UserID:       entry.UserID,
		BookID:       entry.BookID,
		Status:       entry.Status,
		PagesRead:    entry.PagesRead,
		TotalPages:   entry.TotalPages,
		Rating:       entry.Rating,
		IsFavorite:   entry.IsFavorite,
		CreatedAt:    entry.CreatedAt,
		UpdatedAt:    entry.UpdatedAt,
		ActivityType: domain.ClassifyActivity(entry),
	}

	user, err := s.store.GetUser(ctx, entry.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	summary := user.Summary()
	item.User = &summary

	book, err := s.store.GetBook(ctx, entry.BookID)
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	bookSummary := book.Summary()
	item.Book = &bookSummary

	return item, nil
}
