package post

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/datpham-dev/inkwell/internal/platform/apperr"
	"github.com/datpham-dev/inkwell/internal/platform/sec"
	"github.com/datpham-dev/inkwell/internal/platform/validate"
	"github.com/datpham-dev/inkwell/pkg/slug"
	"github.com/datpham-dev/inkwell/pkg/uuidv7"
)

// Actor identifies the authenticated user performing a post operation.
type Actor struct {
	ID   string
	Role sec.UserRole
}

// CreateInput is the payload for authoring a new post.
type CreateInput struct {
	Title          string   `json:"title"`
	Content        string   `json:"content"`
	Excerpt        string   `json:"excerpt,omitempty"`
	FeaturedImage  string   `json:"featured_image,omitempty"`
	Status         Status   `json:"status,omitempty"`
	SEOTitle       string   `json:"seo_title,omitempty"`
	SEODescription string   `json:"seo_description,omitempty"`
	CategoryID     *string  `json:"category_id,omitempty"`
	TagIDs         []string `json:"tag_ids,omitempty"`
}

// UpdateInput is the payload for a partial post update. Nil and zero fields
// are left untouched; a non-nil TagIDs replaces the whole tag assignment.
type UpdateInput struct {
	Title          string   `json:"title,omitempty"`
	Content        string   `json:"content,omitempty"`
	Excerpt        string   `json:"excerpt,omitempty"`
	FeaturedImage  string   `json:"featured_image,omitempty"`
	Status         Status   `json:"status,omitempty"`
	SEOTitle       string   `json:"seo_title,omitempty"`
	SEODescription string   `json:"seo_description,omitempty"`
	CategoryID     *string  `json:"category_id,omitempty"`
	TagIDs         []string `json:"tag_ids,omitempty"`
}

// Service implements the post use-cases on top of [Repository].
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs the post service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Exists reports whether a post is present. Satisfies the comment
// subsystem's referential-check dependency.
func (service *Service) Exists(ctx context.Context, postID string) (bool, error) {
	return service.repo.Exists(ctx, postID)
}

// Create validates and persists a new post.
//
// The slug is derived from the title. On collision a millisecond timestamp
// suffix is appended, which keeps slugs unique without a retry loop.
func (service *Service) Create(ctx context.Context, actor Actor, input CreateInput) (*Post, error) {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).MaxLen(FieldTitle, input.Title, MaxTitleLength)
	validator.Required(FieldContent, input.Content)
	validator.MaxLen(FieldExcerpt, input.Excerpt, MaxExcerptLength)
	if input.CategoryID != nil {
		validator.UUID(FieldCategoryID, *input.CategoryID)
	}
	for _, tagID := range input.TagIDs {
		validator.UUID(FieldTagIDs, tagID)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = StatusDraft
	}
	if !status.Valid() {
		return nil, apperr.ValidationError("Unknown post status", apperr.FieldError{Field: FieldStatus, Message: "must be DRAFT, PUBLISHED or ARCHIVED"})
	}

	postSlug, err := service.uniqueSlug(ctx, input.Title)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := &Post{
		ID:             uuidv7.New(),
		Title:          input.Title,
		Slug:           postSlug,
		Content:        input.Content,
		Excerpt:        input.Excerpt,
		FeaturedImage:  input.FeaturedImage,
		Status:         status,
		SEOTitle:       input.SEOTitle,
		SEODescription: input.SEODescription,
		AuthorID:       actor.ID,
		CategoryID:     input.CategoryID,
		CreatedAt:      now,
		UpdatedAt:      now,
		TagIDs:         input.TagIDs,
	}

	if status == StatusPublished {
		created.PublishedAt = &now
	}

	if err := service.repo.Create(ctx, created); err != nil {
		return nil, err
	}

	service.logger.Info("post_created",
		slog.String("post_id", created.ID),
		slog.String("slug", created.Slug),
		slog.String("status", string(created.Status)),
	)
	return service.repo.GetByID(ctx, created.ID)
}

// GetByID returns a post by primary key.
func (service *Service) GetByID(ctx context.Context, id string) (*Post, error) {
	return service.repo.GetByID(ctx, id)
}

// GetBySlug returns a post by slug and counts the read.
//
// The view bump is a separate atomic statement; a failure there is logged
// and swallowed since losing one count must not fail the page render.
func (service *Service) GetBySlug(ctx context.Context, postSlug string) (*Post, error) {
	found, err := service.repo.GetBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}

	if err := service.repo.IncrementViews(ctx, found.ID); err != nil {
		service.logger.Warn("post_view_count_failed",
			slog.String("post_id", found.ID),
			slog.String("error", err.Error()),
		)
	} else {
		found.Views++
	}

	return found, nil
}

// List returns a filtered, paginated page of posts.
func (service *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]*Post, int, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, 0, apperr.ValidationError("Unknown post status", apperr.FieldError{Field: FieldStatus, Message: "must be DRAFT, PUBLISHED or ARCHIVED"})
	}
	return service.repo.List(ctx, filter, limit, offset)
}

// Featured returns the most viewed published posts.
func (service *Service) Featured(ctx context.Context, limit int) ([]*Post, error) {
	return service.repo.ListFeatured(ctx, limit)
}

// Update applies a partial update to a post.
//
// Only the author or an admin may modify a post. PublishedAt is stamped on
// the FIRST transition to PUBLISHED and never overwritten afterwards, so
// re-publishing an archived post keeps its original publication date.
func (service *Service) Update(ctx context.Context, actor Actor, id string, input UpdateInput) (*Post, error) {
	current, err := service.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if current.AuthorID != actor.ID && !actor.Role.AtLeast(sec.RoleAdmin) {
		return nil, apperr.Forbidden("You can only edit your own posts")
	}

	validator := &validate.Validator{}
	validator.MaxLen(FieldTitle, input.Title, MaxTitleLength)
	validator.MaxLen(FieldExcerpt, input.Excerpt, MaxExcerptLength)
	if input.CategoryID != nil {
		validator.UUID(FieldCategoryID, *input.CategoryID)
	}
	for _, tagID := range input.TagIDs {
		validator.UUID(FieldTagIDs, tagID)
	}
	if input.Status != "" && !input.Status.Valid() {
		validator.Custom(FieldStatus, true, "must be DRAFT, PUBLISHED or ARCHIVED")
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	patch := &Post{
		ID:             id,
		Title:          input.Title,
		Content:        input.Content,
		Excerpt:        input.Excerpt,
		FeaturedImage:  input.FeaturedImage,
		Status:         input.Status,
		SEOTitle:       input.SEOTitle,
		SEODescription: input.SEODescription,
		CategoryID:     input.CategoryID,
		TagIDs:         input.TagIDs,
	}

	// A title change regenerates the slug so URLs stay descriptive.
	if input.Title != "" && input.Title != current.Title {
		newSlug, err := service.uniqueSlug(ctx, input.Title)
		if err != nil {
			return nil, err
		}
		patch.Slug = newSlug
	}

	if input.Status == StatusPublished && current.PublishedAt == nil {
		now := time.Now().UTC()
		patch.PublishedAt = &now
	}

	if err := service.repo.Update(ctx, patch); err != nil {
		return nil, err
	}

	service.logger.Info("post_updated", slog.String("post_id", id))
	return service.repo.GetByID(ctx, id)
}

// Delete removes a post permanently. Comments cascade at the schema level.
func (service *Service) Delete(ctx context.Context, actor Actor, id string) error {
	current, err := service.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if current.AuthorID != actor.ID && !actor.Role.AtLeast(sec.RoleAdmin) {
		return apperr.Forbidden("You can only delete your own posts")
	}

	if err := service.repo.Delete(ctx, id); err != nil {
		return err
	}

	service.logger.Warn("post_deleted", slog.String("post_id", id))
	return nil
}

// uniqueSlug derives a slug from the title, disambiguating collisions with a
// millisecond timestamp suffix.
func (service *Service) uniqueSlug(ctx context.Context, title string) (string, error) {
	candidate := slug.From(title)
	if candidate == "" {
		candidate = "post"
	}

	taken, err := service.repo.SlugExists(ctx, candidate)
	if err != nil {
		return "", err
	}
	if taken {
		candidate = fmt.Sprintf("%s-%d", candidate, time.Now().UnixMilli())
	}
	return candidate, nil
}
