package comment

import (
	"context"
	"log/slog"
	"time"

	"github.com/datpham-dev/inkwell/internal/platform/apperr"
	"github.com/datpham-dev/inkwell/internal/platform/sec"
	"github.com/datpham-dev/inkwell/internal/platform/validate"
	"github.com/datpham-dev/inkwell/pkg/uuidv7"
)

// Actor identifies the authenticated user performing a comment operation.
type Actor struct {
	ID   string
	Role sec.UserRole
}

// CreateInput is the payload for posting a new comment.
type CreateInput struct {
	PostID   string  `json:"post_id"`
	ParentID *string `json:"parent_id,omitempty"`
	Content  string  `json:"content"`
}

// UpdateInput is the payload for a partial comment update. Nil fields are
// not touched.
type UpdateInput struct {
	Content *string `json:"content,omitempty"`
	Status  *Status `json:"status,omitempty"`
}

// ThreadResult is the page returned by [Service.ListForPost]: assembled root
// threads plus pagination facts about the root set.
type ThreadResult struct {
	Items      []*Comment `json:"items"`
	TotalCount int        `json:"total_count"`
	HasMore    bool       `json:"has_more"`
}

// Service implements the comment use-cases on top of [Repository].
//
// All referential rules live here rather than in SQL constraints so they
// produce typed application errors instead of raw SQLSTATE failures: a
// missing post or parent maps to 404, a cross-post parent to 422.
type Service struct {
	repo   Repository
	posts  PostDirectory
	logger *slog.Logger
}

// NewService constructs the comment service.
func NewService(repo Repository, posts PostDirectory, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		posts:  posts,
		logger: logger,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Creation
// ─────────────────────────────────────────────────────────────────────────────

// Create validates and persists a new comment in PENDING state.
//
// Referential checks run before the insert: the post must exist, and when a
// parent is supplied it must exist AND belong to the same post. The cross-post
// case is a semantically valid reference pointing at the wrong place, which is
// why it maps to 422 rather than 404.
func (service *Service) Create(ctx context.Context, actor Actor, input CreateInput) (*Comment, error) {
	validator := &validate.Validator{}
	validator.Required(FieldContent, input.Content).MaxLen(FieldContent, input.Content, MaxContentLength)
	validator.Required(FieldPostID, input.PostID).UUID(FieldPostID, input.PostID)
	if input.ParentID != nil {
		validator.UUID(FieldParentID, *input.ParentID)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// ── Post existence ────────────────────────────────────────────────────
	exists, err := service.posts.Exists(ctx, input.PostID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("post")
	}

	// ── Parent checks ─────────────────────────────────────────────────────
	if input.ParentID != nil {
		parent, err := service.repo.GetByID(ctx, *input.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != input.PostID {
			return nil, apperr.InvalidRelation("Parent comment belongs to a different post")
		}
	}

	now := time.Now().UTC()
	created := &Comment{
		ID:        uuidv7.New(),
		Content:   input.Content,
		Status:    StatusPending,
		AuthorID:  actor.ID,
		PostID:    input.PostID,
		ParentID:  input.ParentID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := service.repo.Create(ctx, created); err != nil {
		return nil, err
	}

	service.logger.Info("comment_created",
		slog.String("comment_id", created.ID),
		slog.String("post_id", created.PostID),
		slog.Bool("is_reply", created.ParentID != nil),
	)
	return created, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Retrieval
// ─────────────────────────────────────────────────────────────────────────────

// GetByID returns a single comment with its author projection.
func (service *Service) GetByID(ctx context.Context, id string) (*Comment, error) {
	return service.repo.GetByID(ctx, id)
}

// ListForPost returns a page of root threads for a post, each root carrying
// its replies nested up to [MaxThreadDepth] levels.
//
// Pagination applies to ROOT comments only; replies ride along with their
// root regardless of page size. TotalCount therefore counts roots, and
// HasMore is skip+take < TotalCount.
func (service *Service) ListForPost(ctx context.Context, postID string, status *Status, take, skip int) (*ThreadResult, error) {
	if status != nil && !status.Valid() {
		return nil, apperr.ValidationError("Unknown comment status", apperr.FieldError{Field: FieldStatus, Message: "must be PENDING, APPROVED or REJECTED"})
	}

	exists, err := service.posts.Exists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("post")
	}

	rows, err := service.repo.ListForPost(ctx, postID, status)
	if err != nil {
		return nil, err
	}

	roots := BuildThread(rows)
	total := len(roots)

	page := paginateRoots(roots, take, skip)
	return &ThreadResult{
		Items:      page,
		TotalCount: total,
		HasMore:    skip+take < total,
	}, nil
}

// ListForUser returns a page of the user's own comments, newest first, with
// post titles attached for context.
func (service *Service) ListForUser(ctx context.Context, authorID string, take, skip int) (*FindResult, error) {
	items, total, err := service.repo.ListForUser(ctx, authorID, take, skip)
	if err != nil {
		return nil, err
	}

	return &FindResult{
		Items:      items,
		TotalCount: total,
		HasMore:    skip+take < total,
	}, nil
}

// Find runs the generic moderation search across all posts.
func (service *Service) Find(ctx context.Context, filter Filter) (*FindResult, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, apperr.ValidationError("Unknown comment status", apperr.FieldError{Field: FieldStatus, Message: "must be PENDING, APPROVED or REJECTED"})
	}

	items, total, err := service.repo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &FindResult{
		Items:      items,
		TotalCount: total,
		HasMore:    filter.Skip+filter.Take < total,
	}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Mutation
// ─────────────────────────────────────────────────────────────────────────────

// Update applies a partial update to a comment.
//
// Content edits are allowed for the comment's author and for moderators.
// Status changes are a moderation concern only; authors cannot approve their
// own comments by sneaking a status into the payload.
func (service *Service) Update(ctx context.Context, actor Actor, id string, input UpdateInput) (*Comment, error) {
	if input.Content == nil && input.Status == nil {
		return nil, apperr.ValidationError("Nothing to update")
	}

	validator := &validate.Validator{}
	if input.Content != nil {
		validator.Required(FieldContent, *input.Content).MaxLen(FieldContent, *input.Content, MaxContentLength)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	current, err := service.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Content != nil {
		if current.AuthorID != actor.ID && !CanModerate(actor.Role) {
			return nil, apperr.Forbidden("You can only edit your own comments")
		}
	}

	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, apperr.ValidationError("Unknown comment status", apperr.FieldError{Field: FieldStatus, Message: "must be PENDING, APPROVED or REJECTED"})
		}
		if !TransitionAllowed(current.Status, *input.Status, actor.Role) {
			return nil, apperr.Forbidden("Insufficient permissions to change comment status")
		}
	}

	if err := service.repo.Update(ctx, id, UpdateFields{Content: input.Content, Status: input.Status}); err != nil {
		return nil, err
	}

	service.logger.Info("comment_updated", slog.String("comment_id", id))
	return service.repo.GetByID(ctx, id)
}

// SetStatus overwrites the moderation status of a comment.
//
// The operation is idempotent: re-approving an approved comment succeeds and
// changes nothing. Moderators may also move a comment backward (for example
// APPROVED to PENDING) since the overwrite is unconditional.
func (service *Service) SetStatus(ctx context.Context, actor Actor, id string, status Status) (*Comment, error) {
	if !status.Valid() {
		return nil, apperr.ValidationError("Unknown comment status", apperr.FieldError{Field: FieldStatus, Message: "must be PENDING, APPROVED or REJECTED"})
	}

	current, err := service.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !TransitionAllowed(current.Status, status, actor.Role) {
		return nil, apperr.Forbidden("Insufficient permissions to moderate comments")
	}

	if err := service.repo.SetStatus(ctx, id, status); err != nil {
		return nil, err
	}

	service.logger.Info("comment_moderated",
		slog.String("comment_id", id),
		slog.String("from", string(current.Status)),
		slog.String("to", string(status)),
	)

	current.Status = status
	return current, nil
}

// Delete removes a comment, preserving thread integrity.
//
// # Policy
//
// A comment with no replies is removed physically. A comment that has replies
// is tombstoned instead: its content becomes [TombstoneContent] and its
// status REJECTED, so descendants keep a valid parent chain. The reply count
// and the chosen branch execute as separate statements; a reply arriving in
// between simply rides on a tombstoned parent, never a dangling one, because
// the hard-delete branch only fires when the count was zero at decision time.
func (service *Service) Delete(ctx context.Context, actor Actor, id string) error {
	current, err := service.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if current.AuthorID != actor.ID && !CanModerate(actor.Role) {
		return apperr.Forbidden("You can only delete your own comments")
	}

	replies, err := service.repo.CountReplies(ctx, id)
	if err != nil {
		return err
	}

	if replies > 0 {
		if err := service.repo.Tombstone(ctx, id); err != nil {
			return err
		}
		service.logger.Info("comment_tombstoned",
			slog.String("comment_id", id),
			slog.Int("reply_count", replies),
		)
		return nil
	}

	if err := service.repo.HardDelete(ctx, id); err != nil {
		return err
	}

	service.logger.Warn("comment_deleted", slog.String("comment_id", id))
	return nil
}

// paginateRoots slices the assembled root forest by take/skip bounds.
func paginateRoots(roots []*Comment, take, skip int) []*Comment {
	if skip >= len(roots) {
		return []*Comment{}
	}

	end := skip + take
	if end > len(roots) {
		end = len(roots)
	}
	return roots[skip:end]
}
