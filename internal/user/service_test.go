// Copyright (c) 2026 Inkwell. All rights reserved.

package user_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datpham-dev/inkwell/internal/platform/apperr"
	"github.com/datpham-dev/inkwell/internal/platform/sec"
	"github.com/datpham-dev/inkwell/internal/user"
	"github.com/datpham-dev/inkwell/pkg/uuidv7"
)

// ─────────────────────────────────────────────────────────────────────────────
// In-memory fakes
// ─────────────────────────────────────────────────────────────────────────────

type memoryRepository struct {
	rows map[string]*user.Profile
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{rows: make(map[string]*user.Profile)}
}

func (repo *memoryRepository) FindByID(_ context.Context, id string) (*user.Profile, error) {
	if row, ok := repo.rows[id]; ok {
		clone := *row
		return &clone, nil
	}
	return nil, apperr.NotFound("user")
}

func (repo *memoryRepository) FindByUsername(_ context.Context, username string) (*user.Profile, error) {
	for _, row := range repo.rows {
		if row.Username == username {
			clone := *row
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("user")
}

func (repo *memoryRepository) List(_ context.Context, take, skip int) ([]*user.Profile, int, error) {
	all := make([]*user.Profile, 0, len(repo.rows))
	for _, row := range repo.rows {
		clone := *row
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := len(all)
	if skip >= total {
		return nil, total, nil
	}
	end := skip + take
	if end > total {
		end = total
	}
	return all[skip:end], total, nil
}

func (repo *memoryRepository) Update(_ context.Context, profile *user.Profile) error {
	if _, ok := repo.rows[profile.ID]; !ok {
		return apperr.NotFound("user")
	}
	clone := *profile
	repo.rows[profile.ID] = &clone
	return nil
}

func (repo *memoryRepository) UpdateRole(_ context.Context, userID string, role sec.UserRole) error {
	row, ok := repo.rows[userID]
	if !ok {
		return apperr.NotFound("user")
	}
	row.Role = role
	return nil
}

func (repo *memoryRepository) SoftDelete(_ context.Context, id string) error {
	if _, ok := repo.rows[id]; !ok {
		return apperr.NotFound("user")
	}
	delete(repo.rows, id)
	return nil
}

type memorySessions struct {
	active  map[string]string // sessionID -> userID
	revoked []string
}

func newMemorySessions() *memorySessions {
	return &memorySessions{active: make(map[string]string)}
}

func (dir *memorySessions) ListActive(_ context.Context, userID string) ([]user.SessionInfo, error) {
	sessions := make([]user.SessionInfo, 0)
	for id, owner := range dir.active {
		if owner == userID {
			sessions = append(sessions, user.SessionInfo{ID: id})
		}
	}
	return sessions, nil
}

func (dir *memorySessions) Revoke(_ context.Context, userID, sessionID string) error {
	owner, ok := dir.active[sessionID]
	if !ok || owner != userID {
		return apperr.NotFound("session")
	}
	delete(dir.active, sessionID)
	dir.revoked = append(dir.revoked, sessionID)
	return nil
}

func (dir *memorySessions) RevokeAll(_ context.Context, userID string) error {
	for id, owner := range dir.active {
		if owner == userID {
			delete(dir.active, id)
			dir.revoked = append(dir.revoked, id)
		}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Fixture
// ─────────────────────────────────────────────────────────────────────────────

type fixture struct {
	service  *user.Service
	repo     *memoryRepository
	sessions *memorySessions
}

func newFixture() *fixture {
	repo := newMemoryRepository()
	sessions := newMemorySessions()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &fixture{
		service:  user.NewService(repo, sessions, logger),
		repo:     repo,
		sessions: sessions,
	}
}

func (f *fixture) seedProfile(username string, role sec.UserRole) *user.Profile {
	profile := &user.Profile{
		ID:        uuidv7.New(),
		Username:  username,
		Email:     username + "@example.com",
		Role:      role,
		CreatedAt: time.Now(),
	}
	f.repo.rows[profile.ID] = profile
	return profile
}

func ptr(value string) *string { return &value }

// ─────────────────────────────────────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────────────────────────────────────

/*
TestGetProfile verifies that public reads never expose the email while the
owner's view keeps it.
*/
func TestGetProfile(t *testing.T) {
	f := newFixture()
	seeded := f.seedProfile("author", sec.RoleEditor)

	public, err := f.service.GetProfile(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Empty(t, public.Email)
	assert.Equal(t, "author", public.Username)

	byName, err := f.service.GetProfileByUsername(context.Background(), "author")
	require.NoError(t, err)
	assert.Empty(t, byName.Email)

	own, err := f.service.GetMe(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "author@example.com", own.Email)
}

/*
TestUpdateMe verifies partial updates: nil fields keep their value, empty
strings clear it.
*/
func TestUpdateMe(t *testing.T) {
	f := newFixture()
	seeded := f.seedProfile("author", sec.RoleUser)
	seeded.Bio = "old bio"
	seeded.Website = "https://old.example.com"

	updated, err := f.service.UpdateMe(context.Background(), seeded.ID, user.UpdateInput{
		DisplayName: ptr("The Author"),
		Website:     ptr(""),
	})
	require.NoError(t, err)

	assert.Equal(t, "The Author", updated.DisplayName)
	assert.Equal(t, "old bio", updated.Bio)
	assert.Empty(t, updated.Website)
}

/*
TestUpdateMe_Validation verifies field length limits.
*/
func TestUpdateMe_Validation(t *testing.T) {
	f := newFixture()
	seeded := f.seedProfile("author", sec.RoleUser)

	tooLong := make([]byte, 101)
	for i := range tooLong {
		tooLong[i] = 'x'
	}

	_, err := f.service.UpdateMe(context.Background(), seeded.ID, user.UpdateInput{
		DisplayName: ptr(string(tooLong)),
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

/*
TestDeleteMe verifies that self-deletion removes the account and revokes
every session.
*/
func TestDeleteMe(t *testing.T) {
	f := newFixture()
	seeded := f.seedProfile("leaver", sec.RoleUser)
	f.sessions.active["s1"] = seeded.ID
	f.sessions.active["s2"] = seeded.ID

	require.NoError(t, f.service.DeleteMe(context.Background(), seeded.ID))

	_, err := f.service.GetMe(context.Background(), seeded.ID)
	require.Error(t, err)
	assert.Empty(t, f.sessions.active)
}

/*
TestRevokeSession verifies owner scoping: a user cannot revoke another
user's session.
*/
func TestRevokeSession(t *testing.T) {
	f := newFixture()
	owner := f.seedProfile("owner", sec.RoleUser)
	other := f.seedProfile("other", sec.RoleUser)
	f.sessions.active["mine"] = owner.ID
	f.sessions.active["theirs"] = other.ID

	err := f.service.RevokeSession(context.Background(), owner.ID, "theirs")
	require.Error(t, err)
	assert.Equal(t, 404, apperr.As(err).HTTPStatus)

	require.NoError(t, f.service.RevokeSession(context.Background(), owner.ID, "mine"))
	assert.NotContains(t, f.sessions.active, "mine")
	assert.Contains(t, f.sessions.active, "theirs")
}

/*
TestSetRole verifies role changes: valid promotion, invalid role rejection
and the self-change guard.
*/
func TestSetRole(t *testing.T) {
	f := newFixture()
	admin := f.seedProfile("admin", sec.RoleAdmin)
	member := f.seedProfile("member", sec.RoleUser)

	promoted, err := f.service.SetRole(context.Background(), admin.ID, member.ID, sec.RoleEditor)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleEditor, promoted.Role)

	_, err = f.service.SetRole(context.Background(), admin.ID, member.ID, sec.UserRole("owner"))
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	_, err = f.service.SetRole(context.Background(), admin.ID, admin.ID, sec.RoleUser)
	require.Error(t, err)
	assert.Equal(t, 403, apperr.As(err).HTTPStatus)
}

/*
TestAdminDelete verifies the admin guard against deleting their own account
through the directory endpoint.
*/
func TestAdminDelete(t *testing.T) {
	f := newFixture()
	admin := f.seedProfile("admin", sec.RoleAdmin)
	member := f.seedProfile("member", sec.RoleUser)
	f.sessions.active["s1"] = member.ID

	err := f.service.Delete(context.Background(), admin.ID, admin.ID)
	require.Error(t, err)
	assert.Equal(t, 403, apperr.As(err).HTTPStatus)

	require.NoError(t, f.service.Delete(context.Background(), admin.ID, member.ID))
	assert.Empty(t, f.sessions.active)
}

/*
TestList verifies newest-first ordering and the total count.
*/
func TestList(t *testing.T) {
	f := newFixture()
	for index := 0; index < 5; index++ {
		profile := f.seedProfile(string(rune('a'+index)), sec.RoleUser)
		profile.CreatedAt = time.Now().Add(time.Duration(index) * time.Minute)
	}

	page, total, err := f.service.List(context.Background(), 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, "e", page[0].Username)
}
