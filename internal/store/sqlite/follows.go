package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/shelfline/shelfline-server/internal/domain"
	"github.com/shelfline/shelfline-server/internal/store"
)

// CreateFollow inserts a follow edge and, in the same transaction, the
// notification telling the followed user about it. Either both land or neither.
// Returns store.ErrAlreadyExists if the edge already exists.
func (s *Store) CreateFollow(ctx context.Context, follow *domain.Follow, notification *domain.Notification) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO follows (follower_id, followed_id, created_at)
		VALUES (?, ?, ?)`,
		follow.FollowerID,
		follow.FollowedID,
		formatTime(follow.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}

	if notification != nil {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO notifications (id, user_id, type, message, is_read, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			notification.ID,
			notification.UserID,
			string(notification.Type),
			notification.Message,
			boolToInt(notification.IsRead),
			formatTime(notification.CreatedAt),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// DeleteFollow removes a follow edge.
// Returns store.ErrNotFound if the edge does not exist.
func (s *Store) DeleteFollow(ctx context.Context, followerID, followedID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = ? AND followed_id = ?`,
		followerID, followedID)
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

// FollowExists reports whether follower currently follows followed.
func (s *Store) FollowExists(ctx context.Context, followerID, followedID string) (bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM follows WHERE follower_id = ? AND followed_id = ?
		)`, followerID, followedID)

	var exists int
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists != 0, nil
}

// ListFollowers returns the users following userID, newest edge first.
func (s *Store) ListFollowers(ctx context.Context, userID string) ([]*domain.User, error) {
	return s.listFollowEdgeUsers(ctx, `
		SELECT `+prefixedUserColumns+` FROM users u
		JOIN follows f ON f.follower_id = u.id
		WHERE f.followed_id = ?
		ORDER BY f.created_at DESC`, userID)
}

// ListFollowing returns the users userID follows, newest edge first.
func (s *Store) ListFollowing(ctx context.Context, userID string) ([]*domain.User, error) {
	return s.listFollowEdgeUsers(ctx, `
		SELECT `+prefixedUserColumns+` FROM users u
		JOIN follows f ON f.followed_id = u.id
		WHERE f.follower_id = ?
		ORDER BY f.created_at DESC`, userID)
}

// prefixedUserColumns qualifies userColumns for joined queries.
const prefixedUserColumns = `u.id, u.created_at, u.updated_at, u.username, u.email,
	u.full_name, u.profile_picture, u.password_hash, u.disabled`

func (s *Store) listFollowEdgeUsers(ctx context.Context, query, userID string) ([]*domain.User, error) {
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// ListFollowingIDs returns the IDs of the users userID follows.
func (s *Store) ListFollowingIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT followed_id FROM follows WHERE follower_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// GetFollowCounts returns a user's follower and following totals.
// A user with no edges gets zero counts.
func (s *Store) GetFollowCounts(ctx context.Context, userID string) (*domain.FollowCounts, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM follows WHERE followed_id = ?),
			(SELECT COUNT(*) FROM follows WHERE follower_id = ?)`,
		userID, userID)

	var counts domain.FollowCounts
	if err := row.Scan(&counts.Followers, &counts.Following); err != nil {
		return nil, err
	}
	return &counts, nil
}
