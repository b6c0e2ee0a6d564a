package post

import "context"

// Repository defines the persistence operations for posts.
type Repository interface {
	// Create persists the post and its tag assignments in one transaction.
	Create(ctx context.Context, post *Post) error

	GetByID(ctx context.Context, id string) (*Post, error)
	GetBySlug(ctx context.Context, slug string) (*Post, error)

	// List returns a filtered, paginated slice plus the total match count.
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Post, int, error)

	// ListFeatured returns published posts ordered by view count.
	ListFeatured(ctx context.Context, limit int) ([]*Post, error)

	// Update applies the post's non-zero fields and, when TagIDs is non-nil,
	// replaces the tag assignments, all inside one transaction.
	Update(ctx context.Context, post *Post) error

	Delete(ctx context.Context, id string) error

	// Exists reports whether a post row with the id is present. Used by the
	// comment subsystem for referential checks.
	Exists(ctx context.Context, id string) (bool, error)

	// SlugExists reports whether the slug is already taken.
	SlugExists(ctx context.Context, slug string) (bool, error)

	// IncrementViews bumps the view counter atomically in SQL.
	IncrementViews(ctx context.Context, id string) error
}
