// Copyright (c) 2026 Inkwell. All rights reserved.

package post_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datpham-dev/inkwell/internal/platform/apperr"
	"github.com/datpham-dev/inkwell/internal/platform/sec"
	"github.com/datpham-dev/inkwell/internal/post"
	"github.com/datpham-dev/inkwell/pkg/uuidv7"
)

// memoryRepository is an in-memory [post.Repository].
type memoryRepository struct {
	rows map[string]*post.Post
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{rows: make(map[string]*post.Post)}
}

func (repo *memoryRepository) Create(_ context.Context, p *post.Post) error {
	clone := *p
	repo.rows[p.ID] = &clone
	return nil
}

func (repo *memoryRepository) GetByID(_ context.Context, id string) (*post.Post, error) {
	row, ok := repo.rows[id]
	if !ok {
		return nil, apperr.NotFound("post")
	}
	clone := *row
	return &clone, nil
}

func (repo *memoryRepository) GetBySlug(_ context.Context, slug string) (*post.Post, error) {
	for _, row := range repo.rows {
		if row.Slug == slug {
			clone := *row
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("post")
}

func (repo *memoryRepository) List(_ context.Context, filter post.Filter, limit, offset int) ([]*post.Post, int, error) {
	var out []*post.Post
	for _, row := range repo.rows {
		if filter.Status != nil && row.Status != *filter.Status {
			continue
		}
		if filter.AuthorID != "" && row.AuthorID != filter.AuthorID {
			continue
		}
		if filter.SearchTerm != "" && !strings.Contains(strings.ToLower(row.Title), strings.ToLower(filter.SearchTerm)) {
			continue
		}
		clone := *row
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	total := len(out)
	if offset >= len(out) {
		return []*post.Post{}, total, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

func (repo *memoryRepository) ListFeatured(_ context.Context, limit int) ([]*post.Post, error) {
	var out []*post.Post
	for _, row := range repo.rows {
		if row.Status == post.StatusPublished {
			clone := *row
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Views > out[j].Views })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (repo *memoryRepository) Update(_ context.Context, patch *post.Post) error {
	row, ok := repo.rows[patch.ID]
	if !ok {
		return apperr.NotFound("post")
	}
	if patch.Title != "" {
		row.Title = patch.Title
	}
	if patch.Slug != "" {
		row.Slug = patch.Slug
	}
	if patch.Content != "" {
		row.Content = patch.Content
	}
	if patch.Status != "" {
		row.Status = patch.Status
	}
	if patch.CategoryID != nil {
		row.CategoryID = patch.CategoryID
	}
	if patch.PublishedAt != nil {
		row.PublishedAt = patch.PublishedAt
	}
	if patch.TagIDs != nil {
		row.TagIDs = patch.TagIDs
	}
	row.UpdatedAt = time.Now().UTC()
	return nil
}

func (repo *memoryRepository) Delete(_ context.Context, id string) error {
	if _, ok := repo.rows[id]; !ok {
		return apperr.NotFound("post")
	}
	delete(repo.rows, id)
	return nil
}

func (repo *memoryRepository) Exists(_ context.Context, id string) (bool, error) {
	_, ok := repo.rows[id]
	return ok, nil
}

func (repo *memoryRepository) SlugExists(_ context.Context, slug string) (bool, error) {
	for _, row := range repo.rows {
		if row.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (repo *memoryRepository) IncrementViews(_ context.Context, id string) error {
	row, ok := repo.rows[id]
	if !ok {
		return apperr.NotFound("post")
	}
	row.Views++
	return nil
}

func newService(t *testing.T) (*post.Service, *memoryRepository) {
	t.Helper()
	repo := newMemoryRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return post.NewService(repo, logger), repo
}

var (
	editor = post.Actor{ID: uuidv7.New(), Role: sec.RoleEditor}
	admin  = post.Actor{ID: uuidv7.New(), Role: sec.RoleAdmin}
)

/*
TestService_Create derives the slug from the title and defaults to DRAFT.
*/
func TestService_Create(t *testing.T) {
	service, _ := newService(t)

	created, err := service.Create(context.Background(), editor, post.CreateInput{
		Title:   "Hello, Wörld! My First Post",
		Content: "body",
	})
	require.NoError(t, err)

	assert.Equal(t, "hello-world-my-first-post", created.Slug)
	assert.Equal(t, post.StatusDraft, created.Status)
	assert.Nil(t, created.PublishedAt)
	assert.Equal(t, editor.ID, created.AuthorID)
}

/*
TestService_Create_SlugCollision appends a timestamp suffix when the derived
slug is taken.
*/
func TestService_Create_SlugCollision(t *testing.T) {
	service, _ := newService(t)

	first, err := service.Create(context.Background(), editor, post.CreateInput{
		Title: "Same Title", Content: "one",
	})
	require.NoError(t, err)

	second, err := service.Create(context.Background(), editor, post.CreateInput{
		Title: "Same Title", Content: "two",
	})
	require.NoError(t, err)

	assert.Equal(t, "same-title", first.Slug)
	assert.NotEqual(t, first.Slug, second.Slug)
	assert.True(t, strings.HasPrefix(second.Slug, "same-title-"))
}

/*
TestService_Create_PublishedImmediately stamps PublishedAt at creation.
*/
func TestService_Create_PublishedImmediately(t *testing.T) {
	service, _ := newService(t)

	created, err := service.Create(context.Background(), editor, post.CreateInput{
		Title: "Launch Day", Content: "body", Status: post.StatusPublished,
	})
	require.NoError(t, err)
	require.NotNil(t, created.PublishedAt)
}

/*
TestService_Create_Validation rejects missing title and content.
*/
func TestService_Create_Validation(t *testing.T) {
	service, _ := newService(t)

	_, err := service.Create(context.Background(), editor, post.CreateInput{Content: "body"})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	_, err = service.Create(context.Background(), editor, post.CreateInput{Title: "no body"})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

/*
TestService_Publish stamps PublishedAt exactly once: re-publishing after an
archive keeps the original publication date.
*/
func TestService_Publish(t *testing.T) {
	service, repo := newService(t)

	created, err := service.Create(context.Background(), editor, post.CreateInput{
		Title: "Draft First", Content: "body",
	})
	require.NoError(t, err)

	published, err := service.Update(context.Background(), editor, created.ID, post.UpdateInput{
		Status: post.StatusPublished,
	})
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)
	firstPublication := *published.PublishedAt

	_, err = service.Update(context.Background(), editor, created.ID, post.UpdateInput{
		Status: post.StatusArchived,
	})
	require.NoError(t, err)

	republished, err := service.Update(context.Background(), editor, created.ID, post.UpdateInput{
		Status: post.StatusPublished,
	})
	require.NoError(t, err)

	require.NotNil(t, republished.PublishedAt)
	assert.True(t, republished.PublishedAt.Equal(firstPublication), "republish must keep the original date")

	stored, _ := repo.GetByID(context.Background(), created.ID)
	assert.Equal(t, post.StatusPublished, stored.Status)
}

/*
TestService_Update_Permissions restricts edits to the author and admins.
*/
func TestService_Update_Permissions(t *testing.T) {
	service, _ := newService(t)

	created, err := service.Create(context.Background(), editor, post.CreateInput{
		Title: "Mine", Content: "body",
	})
	require.NoError(t, err)

	otherEditor := post.Actor{ID: uuidv7.New(), Role: sec.RoleEditor}
	_, err = service.Update(context.Background(), otherEditor, created.ID, post.UpdateInput{Content: "hijacked"})
	require.Error(t, err)
	assert.Equal(t, 403, apperr.As(err).HTTPStatus)

	_, err = service.Update(context.Background(), admin, created.ID, post.UpdateInput{Content: "admin override"})
	require.NoError(t, err)
}

/*
TestService_GetBySlug_CountsView increments the view counter on each read.
*/
func TestService_GetBySlug_CountsView(t *testing.T) {
	service, repo := newService(t)

	created, err := service.Create(context.Background(), editor, post.CreateInput{
		Title: "Popular Post", Content: "body", Status: post.StatusPublished,
	})
	require.NoError(t, err)

	first, err := service.GetBySlug(context.Background(), created.Slug)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Views)

	second, err := service.GetBySlug(context.Background(), created.Slug)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Views)

	stored, _ := repo.GetByID(context.Background(), created.ID)
	assert.Equal(t, int64(2), stored.Views)
}

/*
TestService_Delete_Permissions restricts deletion to the author and admins.
*/
func TestService_Delete_Permissions(t *testing.T) {
	service, _ := newService(t)

	created, err := service.Create(context.Background(), editor, post.CreateInput{
		Title: "Short Lived", Content: "body",
	})
	require.NoError(t, err)

	stranger := post.Actor{ID: uuidv7.New(), Role: sec.RoleEditor}
	err = service.Delete(context.Background(), stranger, created.ID)
	require.Error(t, err)
	assert.Equal(t, 403, apperr.As(err).HTTPStatus)

	err = service.Delete(context.Background(), editor, created.ID)
	require.NoError(t, err)

	_, err = service.GetByID(context.Background(), created.ID)
	require.Error(t, err)
}

/*
TestService_Exists backs the comment subsystem's referential check.
*/
func TestService_Exists(t *testing.T) {
	service, _ := newService(t)

	created, err := service.Create(context.Background(), editor, post.CreateInput{
		Title: "Here", Content: "body",
	})
	require.NoError(t, err)

	exists, err := service.Exists(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = service.Exists(context.Background(), uuidv7.New())
	require.NoError(t, err)
	assert.False(t, exists)
}

/*
TestService_List_OutOfRangePage keeps the true total on an empty page so a
pager rendering page numbers stays correct past the last page.
*/
func TestService_List_OutOfRangePage(t *testing.T) {
	service, _ := newService(t)

	for i := 0; i < 3; i++ {
		_, err := service.Create(context.Background(), editor, post.CreateInput{
			Title: fmt.Sprintf("Post %d", i), Content: "body",
		})
		require.NoError(t, err)
	}

	items, total, err := service.List(context.Background(), post.Filter{}, 10, 50)
	require.NoError(t, err)

	assert.Empty(t, items)
	assert.Equal(t, 3, total)
}
