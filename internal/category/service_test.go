// Copyright (c) 2026 Inkwell. All rights reserved.

package category_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datpham-dev/inkwell/internal/category"
	"github.com/datpham-dev/inkwell/internal/platform/apperr"
)

// memoryRepository is a map-backed Repository enforcing the unique
// constraints the real table carries.
type memoryRepository struct {
	items map[string]*category.Category
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{items: map[string]*category.Category{}}
}

func (repo *memoryRepository) Create(_ context.Context, created *category.Category) error {
	for _, existing := range repo.items {
		if existing.Name == created.Name || existing.Slug == created.Slug {
			return apperr.Conflict("Category already exists")
		}
	}
	clone := *created
	repo.items[created.ID] = &clone
	return nil
}

func (repo *memoryRepository) GetByID(_ context.Context, id string) (*category.Category, error) {
	found, ok := repo.items[id]
	if !ok {
		return nil, apperr.NotFound("category")
	}
	clone := *found
	return &clone, nil
}

func (repo *memoryRepository) GetBySlug(_ context.Context, slug string) (*category.Category, error) {
	for _, found := range repo.items {
		if found.Slug == slug {
			clone := *found
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("category")
}

func (repo *memoryRepository) List(_ context.Context) ([]*category.Category, error) {
	listed := make([]*category.Category, 0, len(repo.items))
	for _, found := range repo.items {
		clone := *found
		listed = append(listed, &clone)
	}
	return listed, nil
}

func (repo *memoryRepository) Update(_ context.Context, updated *category.Category) error {
	found, ok := repo.items[updated.ID]
	if !ok {
		return apperr.NotFound("category")
	}
	found.Name = updated.Name
	found.Slug = updated.Slug
	found.Description = updated.Description
	return nil
}

func (repo *memoryRepository) Delete(_ context.Context, id string) error {
	if _, ok := repo.items[id]; !ok {
		return apperr.NotFound("category")
	}
	delete(repo.items, id)
	return nil
}

func newService(repo *memoryRepository) *category.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return category.NewService(repo, logger)
}

/*
TestCreate verifies slug derivation and the duplicate conflict.
*/
func TestCreate(t *testing.T) {
	service := newService(newMemoryRepository())

	created, err := service.Create(context.Background(), category.Input{
		Name:        "Sổ tay Kỹ thuật",
		Description: "Engineering notebook",
	})
	require.NoError(t, err)
	assert.Equal(t, "so-tay-ky-thuat", created.Slug, "diacritics fold to ascii")
	assert.NotEmpty(t, created.ID)

	_, err = service.Create(context.Background(), category.Input{Name: "Sổ tay Kỹ thuật"})
	require.Error(t, err)
	assert.Equal(t, 409, apperr.As(err).HTTPStatus)
}

/*
TestCreate_Validation verifies the field constraints.
*/
func TestCreate_Validation(t *testing.T) {
	service := newService(newMemoryRepository())

	testCases := []struct {
		name  string
		input category.Input
	}{
		{"missing name", category.Input{Description: "no name"}},
		{"name too long", category.Input{Name: strings.Repeat("x", 101)}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), testCase.input)
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
		})
	}
}

/*
TestUpdate verifies that renaming recomputes the slug and returns the
stored row.
*/
func TestUpdate(t *testing.T) {
	repo := newMemoryRepository()
	service := newService(repo)

	created, err := service.Create(context.Background(), category.Input{Name: "Go Basics"})
	require.NoError(t, err)

	updated, err := service.Update(context.Background(), created.ID, category.Input{Name: "Go Advanced"})
	require.NoError(t, err)
	assert.Equal(t, "go-advanced", updated.Slug)

	_, err = service.Update(context.Background(), "missing-id", category.Input{Name: "Whatever"})
	require.Error(t, err)
}
