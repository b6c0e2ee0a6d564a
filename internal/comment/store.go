package comment

import "context"

// UpdateFields is the partial-update payload consumed by the store. Nil
// fields are left untouched by the generated SET clause.
type UpdateFields struct {
	Content *string
	Status  *Status
}

// Repository defines the persistence operations for comments.
type Repository interface {
	Create(ctx context.Context, comment *Comment) error

	// GetByID returns a single comment with its author projection joined in.
	GetByID(ctx context.Context, id string) (*Comment, error)

	// ListForPost returns every comment row of a post as a flat,
	// newest-first slice. Thread assembly happens in the service via
	// [BuildThread]. A nil status returns all moderation states.
	ListForPost(ctx context.Context, postID string, status *Status) ([]*Comment, error)

	// ListForUser returns a page of a user's comments, newest first, with
	// the owning post's title joined in for display context.
	ListForUser(ctx context.Context, authorID string, take, skip int) ([]*Comment, int, error)

	// Find runs the generic filtered search and reports the total match
	// count alongside the requested page.
	Find(ctx context.Context, filter Filter) ([]*Comment, int, error)

	// CountReplies returns the number of direct children of a comment.
	CountReplies(ctx context.Context, id string) (int, error)

	// Update applies a partial update and bumps updatedat.
	Update(ctx context.Context, id string, fields UpdateFields) error

	// SetStatus overwrites the moderation status unconditionally.
	SetStatus(ctx context.Context, id string, status Status) error

	// Tombstone soft-deletes a comment: the content is replaced with
	// [TombstoneContent] and the status forced to [StatusRejected] in a
	// single statement.
	Tombstone(ctx context.Context, id string) error

	// HardDelete removes the row permanently.
	HardDelete(ctx context.Context, id string) error
}

// PostDirectory is the narrow slice of the post domain the comment service
// needs for referential checks. Implemented by the post service.
type PostDirectory interface {
	Exists(ctx context.Context, postID string) (bool, error)
}
