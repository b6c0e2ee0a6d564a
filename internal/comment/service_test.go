// Copyright (c) 2026 Inkwell. All rights reserved.

package comment_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datpham-dev/inkwell/internal/comment"
	"github.com/datpham-dev/inkwell/internal/platform/apperr"
	"github.com/datpham-dev/inkwell/internal/platform/sec"
	"github.com/datpham-dev/inkwell/pkg/uuidv7"
)

// ─────────────────────────────────────────────────────────────────────────────
// In-memory fakes
// ─────────────────────────────────────────────────────────────────────────────

// memoryRepository is an in-memory [comment.Repository] used to exercise the
// service rules without a database.
type memoryRepository struct {
	rows map[string]*comment.Comment
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{rows: make(map[string]*comment.Comment)}
}

func (repo *memoryRepository) Create(_ context.Context, c *comment.Comment) error {
	clone := *c
	repo.rows[c.ID] = &clone
	return nil
}

func (repo *memoryRepository) GetByID(_ context.Context, id string) (*comment.Comment, error) {
	row, ok := repo.rows[id]
	if !ok {
		return nil, apperr.NotFound("comment")
	}
	clone := *row
	return &clone, nil
}

func (repo *memoryRepository) ListForPost(_ context.Context, postID string, status *comment.Status) ([]*comment.Comment, error) {
	var out []*comment.Comment
	for _, row := range repo.rows {
		if row.PostID != postID {
			continue
		}
		if status != nil && row.Status != *status {
			continue
		}
		clone := *row
		out = append(out, &clone)
	}
	sortNewestFirst(out)
	return out, nil
}

func (repo *memoryRepository) ListForUser(_ context.Context, authorID string, take, skip int) ([]*comment.Comment, int, error) {
	var out []*comment.Comment
	for _, row := range repo.rows {
		if row.AuthorID == authorID {
			clone := *row
			out = append(out, &clone)
		}
	}
	sortNewestFirst(out)
	total := len(out)
	return slicePage(out, take, skip), total, nil
}

func (repo *memoryRepository) Find(_ context.Context, filter comment.Filter) ([]*comment.Comment, int, error) {
	var out []*comment.Comment
	for _, row := range repo.rows {
		if filter.AuthorID != "" && row.AuthorID != filter.AuthorID {
			continue
		}
		if filter.PostID != "" && row.PostID != filter.PostID {
			continue
		}
		if filter.Status != nil && row.Status != *filter.Status {
			continue
		}
		if filter.RootOnly && row.ParentID != nil {
			continue
		}
		clone := *row
		out = append(out, &clone)
	}
	sortNewestFirst(out)
	total := len(out)
	return slicePage(out, filter.Take, filter.Skip), total, nil
}

func (repo *memoryRepository) CountReplies(_ context.Context, id string) (int, error) {
	count := 0
	for _, row := range repo.rows {
		if row.ParentID != nil && *row.ParentID == id {
			count++
		}
	}
	return count, nil
}

func (repo *memoryRepository) Update(_ context.Context, id string, fields comment.UpdateFields) error {
	row, ok := repo.rows[id]
	if !ok {
		return apperr.NotFound("comment")
	}
	if fields.Content != nil {
		row.Content = *fields.Content
	}
	if fields.Status != nil {
		row.Status = *fields.Status
	}
	row.UpdatedAt = time.Now().UTC()
	return nil
}

func (repo *memoryRepository) SetStatus(_ context.Context, id string, status comment.Status) error {
	row, ok := repo.rows[id]
	if !ok {
		return apperr.NotFound("comment")
	}
	row.Status = status
	return nil
}

func (repo *memoryRepository) Tombstone(_ context.Context, id string) error {
	row, ok := repo.rows[id]
	if !ok {
		return apperr.NotFound("comment")
	}
	row.Content = comment.TombstoneContent
	row.Status = comment.StatusRejected
	return nil
}

func (repo *memoryRepository) HardDelete(_ context.Context, id string) error {
	if _, ok := repo.rows[id]; !ok {
		return apperr.NotFound("comment")
	}
	delete(repo.rows, id)
	return nil
}

func sortNewestFirst(rows []*comment.Comment) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].ID > rows[j].ID
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
}

// slicePage pages a sorted result. The total reported by the fakes is the
// full match count even when the requested page is past the end, matching
// the store contract.
func slicePage(rows []*comment.Comment, take, skip int) []*comment.Comment {
	if skip >= len(rows) {
		return []*comment.Comment{}
	}
	end := skip + take
	if end > len(rows) {
		end = len(rows)
	}
	return rows[skip:end]
}

// memoryPosts is an in-memory [comment.PostDirectory].
type memoryPosts struct {
	ids map[string]bool
}

func (posts *memoryPosts) Exists(_ context.Context, postID string) (bool, error) {
	return posts.ids[postID], nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Fixture
// ─────────────────────────────────────────────────────────────────────────────

type fixture struct {
	service *comment.Service
	repo    *memoryRepository
	posts   *memoryPosts

	postID  string
	author  comment.Actor
	someone comment.Actor
	editor  comment.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := newMemoryRepository()
	posts := &memoryPosts{ids: make(map[string]bool)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	postID := uuidv7.New()
	posts.ids[postID] = true

	return &fixture{
		service: comment.NewService(repo, posts, logger),
		repo:    repo,
		posts:   posts,
		postID:  postID,
		author:  comment.Actor{ID: uuidv7.New(), Role: sec.RoleUser},
		someone: comment.Actor{ID: uuidv7.New(), Role: sec.RoleUser},
		editor:  comment.Actor{ID: uuidv7.New(), Role: sec.RoleEditor},
	}
}

func (f *fixture) mustCreate(t *testing.T, actor comment.Actor, parentID *string, content string) *comment.Comment {
	t.Helper()
	created, err := f.service.Create(context.Background(), actor, comment.CreateInput{
		PostID:   f.postID,
		ParentID: parentID,
		Content:  content,
	})
	require.NoError(t, err)
	return created
}

// ─────────────────────────────────────────────────────────────────────────────
// Creation
// ─────────────────────────────────────────────────────────────────────────────

/*
TestService_Create persists a PENDING comment with the actor as author.
*/
func TestService_Create(t *testing.T) {
	f := newFixture(t)

	created := f.mustCreate(t, f.author, nil, "First!")

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, comment.StatusPending, created.Status)
	assert.Equal(t, f.author.ID, created.AuthorID)
	assert.Equal(t, f.postID, created.PostID)
	assert.Nil(t, created.ParentID)

	stored, err := f.repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "First!", stored.Content)
}

/*
TestService_Create_Validation rejects empty and oversized content before any
referential check runs.
*/
func TestService_Create_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"too_long", string(make([]byte, comment.MaxContentLength+1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Create(context.Background(), f.author, comment.CreateInput{
				PostID:  f.postID,
				Content: tt.content,
			})
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
		})
	}
}

/*
TestService_Create_PostNotFound maps a missing post to 404.
*/
func TestService_Create_PostNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(context.Background(), f.author, comment.CreateInput{
		PostID:  uuidv7.New(),
		Content: "hello",
	})

	require.Error(t, err)
	assert.Equal(t, 404, apperr.As(err).HTTPStatus)
}

/*
TestService_Create_ParentNotFound maps a missing parent to 404.
*/
func TestService_Create_ParentNotFound(t *testing.T) {
	f := newFixture(t)
	ghost := uuidv7.New()

	_, err := f.service.Create(context.Background(), f.author, comment.CreateInput{
		PostID:   f.postID,
		ParentID: &ghost,
		Content:  "reply to nothing",
	})

	require.Error(t, err)
	assert.Equal(t, 404, apperr.As(err).HTTPStatus)
}

/*
TestService_Create_CrossPostParent rejects a parent that belongs to another
post with 422 INVALID_RELATION: the reference is well-formed, it just points
at the wrong place.
*/
func TestService_Create_CrossPostParent(t *testing.T) {
	f := newFixture(t)

	otherPost := uuidv7.New()
	f.posts.ids[otherPost] = true

	parent, err := f.service.Create(context.Background(), f.author, comment.CreateInput{
		PostID:  otherPost,
		Content: "on the other post",
	})
	require.NoError(t, err)

	_, err = f.service.Create(context.Background(), f.author, comment.CreateInput{
		PostID:   f.postID,
		ParentID: &parent.ID,
		Content:  "cross-post reply",
	})

	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "INVALID_RELATION", appError.Code)
	assert.Equal(t, 422, appError.HTTPStatus)
}

/*
TestService_Create_Reply allows replying to a comment on the same post.
*/
func TestService_Create_Reply(t *testing.T) {
	f := newFixture(t)

	parent := f.mustCreate(t, f.author, nil, "root")
	reply := f.mustCreate(t, f.someone, &parent.ID, "reply")

	require.NotNil(t, reply.ParentID)
	assert.Equal(t, parent.ID, *reply.ParentID)
	assert.Equal(t, parent.PostID, reply.PostID)
}

// ─────────────────────────────────────────────────────────────────────────────
// Deletion policy
// ─────────────────────────────────────────────────────────────────────────────

/*
TestService_Delete_NoReplies removes the row physically.
*/
func TestService_Delete_NoReplies(t *testing.T) {
	f := newFixture(t)
	created := f.mustCreate(t, f.author, nil, "short lived")

	err := f.service.Delete(context.Background(), f.author, created.ID)
	require.NoError(t, err)

	_, err = f.repo.GetByID(context.Background(), created.ID)
	require.Error(t, err)
	assert.Equal(t, 404, apperr.As(err).HTTPStatus)
}

/*
TestService_Delete_WithReplies tombstones instead of deleting so the reply
chain keeps a valid parent.
*/
func TestService_Delete_WithReplies(t *testing.T) {
	f := newFixture(t)

	parent := f.mustCreate(t, f.author, nil, "controversial take")
	reply := f.mustCreate(t, f.someone, &parent.ID, "strong disagree")

	err := f.service.Delete(context.Background(), f.author, parent.ID)
	require.NoError(t, err)

	stored, err := f.repo.GetByID(context.Background(), parent.ID)
	require.NoError(t, err)
	assert.Equal(t, comment.TombstoneContent, stored.Content)
	assert.Equal(t, comment.StatusRejected, stored.Status)

	// The reply is untouched.
	storedReply, err := f.repo.GetByID(context.Background(), reply.ID)
	require.NoError(t, err)
	assert.Equal(t, "strong disagree", storedReply.Content)
	assert.Equal(t, parent.ID, *storedReply.ParentID)
}

/*
TestService_Delete_Permissions lets only the author or a moderator delete.
*/
func TestService_Delete_Permissions(t *testing.T) {
	f := newFixture(t)

	created := f.mustCreate(t, f.author, nil, "mine")

	err := f.service.Delete(context.Background(), f.someone, created.ID)
	require.Error(t, err)
	assert.Equal(t, 403, apperr.As(err).HTTPStatus)

	// A moderator can delete someone else's comment.
	err = f.service.Delete(context.Background(), f.editor, created.ID)
	require.NoError(t, err)
}

// ─────────────────────────────────────────────────────────────────────────────
// Moderation
// ─────────────────────────────────────────────────────────────────────────────

/*
TestService_SetStatus moves a comment through the moderation lifecycle and is
idempotent on repeat.
*/
func TestService_SetStatus(t *testing.T) {
	f := newFixture(t)
	created := f.mustCreate(t, f.author, nil, "awaiting review")

	updated, err := f.service.SetStatus(context.Background(), f.editor, created.ID, comment.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, comment.StatusApproved, updated.Status)

	// Approving an approved comment succeeds and changes nothing.
	again, err := f.service.SetStatus(context.Background(), f.editor, created.ID, comment.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, comment.StatusApproved, again.Status)

	// Backward move is allowed by the permissive matrix.
	back, err := f.service.SetStatus(context.Background(), f.editor, created.ID, comment.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, comment.StatusPending, back.Status)
}

/*
TestService_SetStatus_Forbidden denies plain users, including the author.
*/
func TestService_SetStatus_Forbidden(t *testing.T) {
	f := newFixture(t)
	created := f.mustCreate(t, f.author, nil, "approve me please")

	_, err := f.service.SetStatus(context.Background(), f.author, created.ID, comment.StatusApproved)
	require.Error(t, err)
	assert.Equal(t, 403, apperr.As(err).HTTPStatus)
}

/*
TestService_SetStatus_InvalidStatus rejects unknown states with a validation
error before touching storage.
*/
func TestService_SetStatus_InvalidStatus(t *testing.T) {
	f := newFixture(t)
	created := f.mustCreate(t, f.author, nil, "hello")

	_, err := f.service.SetStatus(context.Background(), f.editor, created.ID, comment.Status("BANANA"))
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

// ─────────────────────────────────────────────────────────────────────────────
// Updates
// ─────────────────────────────────────────────────────────────────────────────

/*
TestService_Update_ContentByAuthor allows authors to edit their own comments
without touching the status.
*/
func TestService_Update_ContentByAuthor(t *testing.T) {
	f := newFixture(t)
	created := f.mustCreate(t, f.author, nil, "typo everywhre")

	newContent := "typo everywhere"
	updated, err := f.service.Update(context.Background(), f.author, created.ID, comment.UpdateInput{
		Content: &newContent,
	})
	require.NoError(t, err)
	assert.Equal(t, "typo everywhere", updated.Content)
	assert.Equal(t, comment.StatusPending, updated.Status)
}

/*
TestService_Update_ContentByStranger is forbidden.
*/
func TestService_Update_ContentByStranger(t *testing.T) {
	f := newFixture(t)
	created := f.mustCreate(t, f.author, nil, "original")

	newContent := "defaced"
	_, err := f.service.Update(context.Background(), f.someone, created.ID, comment.UpdateInput{
		Content: &newContent,
	})
	require.Error(t, err)
	assert.Equal(t, 403, apperr.As(err).HTTPStatus)
}

/*
TestService_Update_StatusByAuthor denies authors sneaking a status change
into a content edit.
*/
func TestService_Update_StatusByAuthor(t *testing.T) {
	f := newFixture(t)
	created := f.mustCreate(t, f.author, nil, "self approval attempt")

	approved := comment.StatusApproved
	_, err := f.service.Update(context.Background(), f.author, created.ID, comment.UpdateInput{
		Status: &approved,
	})
	require.Error(t, err)
	assert.Equal(t, 403, apperr.As(err).HTTPStatus)

	stored, err := f.repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, comment.StatusPending, stored.Status)
}

/*
TestService_Update_Empty rejects a payload with nothing to change.
*/
func TestService_Update_Empty(t *testing.T) {
	f := newFixture(t)
	created := f.mustCreate(t, f.author, nil, "hello")

	_, err := f.service.Update(context.Background(), f.author, created.ID, comment.UpdateInput{})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

// ─────────────────────────────────────────────────────────────────────────────
// Listing
// ─────────────────────────────────────────────────────────────────────────────

/*
TestService_ListForPost_Threaded returns nested threads with replies riding
along their roots regardless of pagination.
*/
func TestService_ListForPost_Threaded(t *testing.T) {
	f := newFixture(t)

	root := f.mustCreate(t, f.author, nil, "root")
	reply := f.mustCreate(t, f.someone, &root.ID, "reply")
	f.mustCreate(t, f.author, &reply.ID, "counter-reply")

	result, err := f.service.ListForPost(context.Background(), f.postID, nil, 10, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, result.TotalCount, "totals count roots, not rows")
	assert.False(t, result.HasMore)
	require.Len(t, result.Items, 1)

	require.Len(t, result.Items[0].Replies, 1)
	require.Len(t, result.Items[0].Replies[0].Replies, 1)
	assert.Equal(t, "counter-reply", result.Items[0].Replies[0].Replies[0].Content)
}

/*
TestService_ListForPost_HasMore exercises the skip+take < total contract on
the root set.
*/
func TestService_ListForPost_HasMore(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 5; i++ {
		f.mustCreate(t, f.author, nil, "root comment")
	}

	tests := []struct {
		name    string
		take    int
		skip    int
		items   int
		hasMore bool
	}{
		{"first_page", 2, 0, 2, true},
		{"middle_page", 2, 2, 2, true},
		{"last_page", 2, 4, 1, false},
		{"exact_boundary", 5, 0, 5, false},
		{"past_the_end", 2, 10, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := f.service.ListForPost(context.Background(), f.postID, nil, tt.take, tt.skip)
			require.NoError(t, err)

			assert.Equal(t, 5, result.TotalCount)
			assert.Len(t, result.Items, tt.items)
			assert.Equal(t, tt.hasMore, result.HasMore)
		})
	}
}

/*
TestService_ListForPost_UnknownPost maps to 404.
*/
func TestService_ListForPost_UnknownPost(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.ListForPost(context.Background(), uuidv7.New(), nil, 10, 0)
	require.Error(t, err)
	assert.Equal(t, 404, apperr.As(err).HTTPStatus)
}

/*
TestService_ListForUser pages through the author's own comments.
*/
func TestService_ListForUser(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 3; i++ {
		f.mustCreate(t, f.author, nil, "mine")
	}
	f.mustCreate(t, f.someone, nil, "not mine")

	result, err := f.service.ListForUser(context.Background(), f.author.ID, 2, 0)
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalCount)
	assert.Len(t, result.Items, 2)
	assert.True(t, result.HasMore)
}

/*
TestService_Find filters by status for the moderation queue.
*/
func TestService_Find(t *testing.T) {
	f := newFixture(t)

	first := f.mustCreate(t, f.author, nil, "one")
	f.mustCreate(t, f.author, nil, "two")

	_, err := f.service.SetStatus(context.Background(), f.editor, first.ID, comment.StatusApproved)
	require.NoError(t, err)

	pending := comment.StatusPending
	result, err := f.service.Find(context.Background(), comment.Filter{
		Status: &pending,
		Take:   10,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.TotalCount)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "two", result.Items[0].Content)
}

/*
TestService_Find_OutOfRangePage keeps the true total on an empty page so a
pager rendering page numbers stays correct past the last page.
*/
func TestService_Find_OutOfRangePage(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 3; i++ {
		f.mustCreate(t, f.author, nil, "row")
	}

	result, err := f.service.Find(context.Background(), comment.Filter{Take: 10, Skip: 50})
	require.NoError(t, err)

	assert.Empty(t, result.Items)
	assert.Equal(t, 3, result.TotalCount)
	assert.False(t, result.HasMore)
}

/*
TestService_ListForUser_OutOfRangePage mirrors the same contract for the
own-comments listing.
*/
func TestService_ListForUser_OutOfRangePage(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 3; i++ {
		f.mustCreate(t, f.author, nil, "mine")
	}

	result, err := f.service.ListForUser(context.Background(), f.author.ID, 10, 50)
	require.NoError(t, err)

	assert.Empty(t, result.Items)
	assert.Equal(t, 3, result.TotalCount)
	assert.False(t, result.HasMore)
}
