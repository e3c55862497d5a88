package domain

import "time"

// Follow is a directed edge in the social graph: follower follows followed.
type Follow struct {
	FollowerID string    `json:"follower_id"`
	FollowedID string    `json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// FollowCounts holds a user's follower and following totals.
type FollowCounts struct {
	Followers int `json:"followers_count"`
	Following int `json:"following_count"`
}
