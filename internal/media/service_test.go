// Copyright (c) 2026 Inkwell. All rights reserved.

package media_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datpham-dev/inkwell/internal/media"
	"github.com/datpham-dev/inkwell/internal/platform/apperr"
	"github.com/datpham-dev/inkwell/internal/platform/sec"
	"github.com/datpham-dev/inkwell/pkg/uuidv7"
)

type memoryRepository struct {
	rows map[string]*media.Media
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{rows: make(map[string]*media.Media)}
}

func (repo *memoryRepository) Create(_ context.Context, asset *media.Media) error {
	clone := *asset
	repo.rows[asset.ID] = &clone
	return nil
}

func (repo *memoryRepository) GetByID(_ context.Context, id string) (*media.Media, error) {
	if row, ok := repo.rows[id]; ok {
		clone := *row
		return &clone, nil
	}
	return nil, apperr.NotFound("media")
}

func (repo *memoryRepository) List(_ context.Context, userID string, take, skip int) ([]*media.Media, int, error) {
	all := make([]*media.Media, 0)
	for _, row := range repo.rows {
		if userID != "" && row.UserID != userID {
			continue
		}
		clone := *row
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

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

func (repo *memoryRepository) Delete(_ context.Context, id string) error {
	if _, ok := repo.rows[id]; !ok {
		return apperr.NotFound("media")
	}
	delete(repo.rows, id)
	return nil
}

func newService() (*media.Service, *memoryRepository) {
	repo := newMemoryRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return media.NewService(repo, logger), repo
}

func validInput() media.CreateInput {
	return media.CreateInput{
		Filename: "cover.png",
		URL:      "https://cdn.example.com/cover.png",
		Key:      "uploads/cover.png",
		MimeType: "image/png",
		Size:     2048,
	}
}

/*
TestCreate verifies that a valid asset is registered and owned by the actor.
*/
func TestCreate(t *testing.T) {
	service, _ := newService()
	editor := media.Actor{ID: uuidv7.New(), Role: sec.RoleEditor}

	asset, err := service.Create(context.Background(), editor, validInput())
	require.NoError(t, err)

	assert.NotEmpty(t, asset.ID)
	assert.Equal(t, editor.ID, asset.UserID)
	assert.Equal(t, "image/png", asset.MimeType)
}

/*
TestCreate_Validation verifies rejection of empty fields, bad mime types and
non-positive sizes.
*/
func TestCreate_Validation(t *testing.T) {
	service, _ := newService()
	editor := media.Actor{ID: uuidv7.New(), Role: sec.RoleEditor}

	cases := []struct {
		name   string
		mutate func(*media.CreateInput)
	}{
		{"missing filename", func(input *media.CreateInput) { input.Filename = "" }},
		{"missing url", func(input *media.CreateInput) { input.URL = "" }},
		{"missing key", func(input *media.CreateInput) { input.Key = "" }},
		{"bare mime type", func(input *media.CreateInput) { input.MimeType = "png" }},
		{"zero size", func(input *media.CreateInput) { input.Size = 0 }},
		{"negative size", func(input *media.CreateInput) { input.Size = -1 }},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			input := validInput()
			testCase.mutate(&input)

			_, err := service.Create(context.Background(), editor, input)
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
		})
	}
}

/*
TestDelete_Permissions verifies that owners and admins can delete while
other editors cannot.
*/
func TestDelete_Permissions(t *testing.T) {
	service, _ := newService()
	owner := media.Actor{ID: uuidv7.New(), Role: sec.RoleEditor}
	rival := media.Actor{ID: uuidv7.New(), Role: sec.RoleEditor}
	admin := media.Actor{ID: uuidv7.New(), Role: sec.RoleAdmin}

	first, err := service.Create(context.Background(), owner, validInput())
	require.NoError(t, err)
	second, err := service.Create(context.Background(), owner, validInput())
	require.NoError(t, err)

	err = service.Delete(context.Background(), rival, first.ID)
	require.Error(t, err)
	assert.Equal(t, 403, apperr.As(err).HTTPStatus)

	require.NoError(t, service.Delete(context.Background(), owner, first.ID))
	require.NoError(t, service.Delete(context.Background(), admin, second.ID))
}

/*
TestList verifies library-wide and per-user listings.
*/
func TestList(t *testing.T) {
	service, _ := newService()
	alice := media.Actor{ID: uuidv7.New(), Role: sec.RoleEditor}
	bob := media.Actor{ID: uuidv7.New(), Role: sec.RoleEditor}

	for index := 0; index < 3; index++ {
		_, err := service.Create(context.Background(), alice, validInput())
		require.NoError(t, err)
	}
	_, err := service.Create(context.Background(), bob, validInput())
	require.NoError(t, err)

	_, total, err := service.List(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, total)

	mine, total, err := service.ListForUser(context.Background(), alice.ID, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, mine, 2)
}
