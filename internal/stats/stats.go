// Copyright (c) 2026 Inkwell. All rights reserved.

/*
Package stats implements the dashboard aggregates: site-wide counts and a
recent-activity feed. Both are expensive to compute and cheap to serve
stale, so they are cached in Redis with a short TTL.
*/
package stats

import (
	"context"
	"time"
)

const (
	// CacheTTL is how long a computed snapshot is served before recomputing.
	CacheTTL = 1 * time.Minute

	// RecentActivityLimit caps the merged activity feed.
	RecentActivityLimit = 10
)

// Overview is the site-wide aggregate snapshot.
type Overview struct {
	Posts      int       `json:"posts"`
	Comments   int       `json:"comments"`
	Users      int       `json:"users"`
	Categories int       `json:"categories"`
	Tags       int       `json:"tags"`
	Media      int       `json:"media"`
	TotalViews int64     `json:"total_views"`
	ComputedAt time.Time `json:"computed_at"`
}

// Activity feed entry kinds.
const (
	ActivityPost    = "post"
	ActivityComment = "comment"
	ActivityUser    = "user"
)

// ActivityItem is one entry in the recent-activity feed.
type ActivityItem struct {
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Actor     string    `json:"actor,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository computes the aggregates from primary storage.
type Repository interface {
	CollectOverview(ctx context.Context) (*Overview, error)

	// RecentActivity returns the newest posts, comments and registrations
	// merged newest-first, at most limit entries.
	RecentActivity(ctx context.Context, limit int) ([]ActivityItem, error)
}

// Cache stores computed snapshots. A miss returns apperr.NotFound.
type Cache interface {
	GetOverview(ctx context.Context) (*Overview, error)
	SetOverview(ctx context.Context, overview *Overview, ttl time.Duration) error
	GetActivity(ctx context.Context) ([]ActivityItem, error)
	SetActivity(ctx context.Context, items []ActivityItem, ttl time.Duration) error
}
