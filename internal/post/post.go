// Package post implements the publishing side of the platform: authoring,
// publication lifecycle, categorization and discovery of blog posts.
package post

import "time"

// Status is the publication state of a post.
type Status string

const (
	// StatusDraft is the initial state; drafts are only visible to their
	// author and to admins.
	StatusDraft Status = "DRAFT"
	// StatusPublished makes the post publicly readable.
	StatusPublished Status = "PUBLISHED"
	// StatusArchived removes the post from public listings without deleting it.
	StatusArchived Status = "ARCHIVED"
)

// Valid reports whether s is a known publication status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

const (
	MaxTitleLength   = 200
	MaxExcerptLength = 500
)

// AuthorRef is the author projection joined into post reads.
type AuthorRef struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// CategoryRef is the category projection joined into post reads.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// TagRef is the tag projection aggregated into post reads.
type TagRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Post represents a blog post row with its joined projections.
type Post struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Slug           string       `json:"slug"`
	Content        string       `json:"content"`
	Excerpt        string       `json:"excerpt,omitempty"`
	FeaturedImage  string       `json:"featured_image,omitempty"`
	Status         Status       `json:"status"`
	SEOTitle       string       `json:"seo_title,omitempty"`
	SEODescription string       `json:"seo_description,omitempty"`
	Views          int64        `json:"views"`
	AuthorID       string       `json:"author_id"`
	CategoryID     *string      `json:"category_id,omitempty"`
	PublishedAt    *time.Time   `json:"published_at,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
	Author         *AuthorRef   `json:"author,omitempty"`
	Category       *CategoryRef `json:"category,omitempty"`
	Tags           []TagRef     `json:"tags"`

	// TagIDs is the write-side tag assignment; reads populate Tags instead.
	TagIDs []string `json:"-"`
}

// Filter holds the parameters for the paginated post listing.
type Filter struct {
	// SearchTerm matches the title case-insensitively.
	SearchTerm   string
	Status       *Status
	AuthorID     string
	CategorySlug string
	TagSlug      string
}

// Global field names for validation
const (
	FieldTitle      = "title"
	FieldContent    = "content"
	FieldExcerpt    = "excerpt"
	FieldStatus     = "status"
	FieldCategoryID = "category_id"
	FieldTagIDs     = "tag_ids"
)
