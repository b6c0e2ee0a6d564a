// Package comment implements the comment subsystem: threaded discussion on
// posts with a moderation lifecycle.
//
// Comments live in a single flat table keyed by id with a nullable parent-id
// reference. The tree shape consumed by readers is reconstructed on read by
// [BuildThread]; it is never represented as object ownership in storage.
package comment

import "time"

// Status is the moderation state of a comment.
type Status string

const (
	// StatusPending is the initial state of every new comment.
	StatusPending Status = "PENDING"
	// StatusApproved marks a comment as publicly visible.
	StatusApproved Status = "APPROVED"
	// StatusRejected hides a comment from public views. Tombstoned comments
	// are forced into this state.
	StatusRejected Status = "REJECTED"
)

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

const (
	// MaxContentLength is the upper bound on comment body length,
	// enforced at the input boundary rather than by the store.
	MaxContentLength = 1000

	// MaxThreadDepth is the number of reply levels materialized below a root
	// comment. Replies deeper than this are stored but not expanded by
	// [BuildThread].
	MaxThreadDepth = 2

	// TombstoneContent replaces the body of a soft-deleted comment.
	TombstoneContent = "[Comment deleted]"
)

// AuthorRef is the minimal author projection attached to comment rows.
type AuthorRef struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// Comment represents a single comment row.
//
// ParentID, when set, references another comment on the same post. The
// same-post constraint is enforced at creation time by [Service.Create];
// rows never violate it afterwards because both fields are immutable.
type Comment struct {
	ID        string     `json:"id"`
	Content   string     `json:"content"`
	Status    Status     `json:"status"`
	AuthorID  string     `json:"author_id"`
	PostID    string     `json:"post_id"`
	ParentID  *string    `json:"parent_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Author    *AuthorRef `json:"author,omitempty"`

	// PostTitle is populated on per-user listings to give parent/post context.
	PostTitle string `json:"post_title,omitempty"`

	// Replies is populated by [BuildThread] on threaded reads only.
	Replies []*Comment `json:"replies,omitempty"`
}

// IsRoot reports whether the comment is attached directly to its post.
func (c *Comment) IsRoot() bool {
	return c.ParentID == nil
}

// Filter holds the parameters for a generic paginated comment search.
type Filter struct {
	// SearchTerm performs a case-insensitive substring match against content.
	SearchTerm string
	AuthorID   string
	PostID     string
	Status     *Status
	// RootOnly restricts results to comments without a parent.
	RootOnly bool
	Take     int
	Skip     int
}

// FindResult is the page returned by [Service.Find].
type FindResult struct {
	Items      []*Comment `json:"items"`
	TotalCount int        `json:"total_count"`
	HasMore    bool       `json:"has_more"`
}

// Global field names for validation
const (
	FieldContent  = "content"
	FieldPostID   = "post_id"
	FieldParentID = "parent_id"
	FieldStatus   = "status"
)
