// Package tag manages the free-form labels attachable to posts.
package tag

import (
	"context"
	"time"
)

// Tag represents a row of blog.tag.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// PostCount is joined in on list reads.
	PostCount int `json:"post_count"`
}

// Repository defines the persistence operations for tags.
type Repository interface {
	Create(ctx context.Context, tag *Tag) error
	GetByID(ctx context.Context, id string) (*Tag, error)
	GetBySlug(ctx context.Context, slug string) (*Tag, error)
	List(ctx context.Context) ([]*Tag, error)
	Update(ctx context.Context, tag *Tag) error
	Delete(ctx context.Context, id string) error
}

// Global field names for validation
const (
	FieldName = "name"
)
