// Package category manages the single-level post categorization taxonomy.
package category

import (
	"context"
	"time"
)

// Category represents a row of blog.category.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// PostCount is joined in on list reads.
	PostCount int `json:"post_count"`
}

// Repository defines the persistence operations for categories.
type Repository interface {
	Create(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, id string) (*Category, error)
	GetBySlug(ctx context.Context, slug string) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id string) error
}

// Global field names for validation
const (
	FieldName        = "name"
	FieldDescription = "description"
)
