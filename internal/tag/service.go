package tag

import (
	"context"
	"log/slog"
	"time"

	"github.com/datpham-dev/inkwell/internal/platform/validate"
	"github.com/datpham-dev/inkwell/pkg/slug"
	"github.com/datpham-dev/inkwell/pkg/uuidv7"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Input is the create/update payload for a tag.
type Input struct {
	Name string `json:"name"`
}

func (service *Service) List(ctx context.Context) ([]*Tag, error) {
	return service.repo.List(ctx)
}

func (service *Service) GetByID(ctx context.Context, id string) (*Tag, error) {
	return service.repo.GetByID(ctx, id)
}

func (service *Service) GetBySlug(ctx context.Context, tagSlug string) (*Tag, error) {
	return service.repo.GetBySlug(ctx, tagSlug)
}

func (service *Service) Create(ctx context.Context, input Input) (*Tag, error) {
	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, 50)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := &Tag{
		ID:        uuidv7.New(),
		Name:      input.Name,
		Slug:      slug.From(input.Name),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := service.repo.Create(ctx, created); err != nil {
		return nil, err
	}

	service.logger.Info("tag_created", slog.String("slug", created.Slug))
	return created, nil
}

func (service *Service) Update(ctx context.Context, id string, input Input) (*Tag, error) {
	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, 50)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	updated := &Tag{
		ID:   id,
		Name: input.Name,
		Slug: slug.From(input.Name),
	}

	if err := service.repo.Update(ctx, updated); err != nil {
		return nil, err
	}

	service.logger.Info("tag_updated", slog.String("tag_id", id))
	return service.repo.GetByID(ctx, id)
}

func (service *Service) Delete(ctx context.Context, id string) error {
	if err := service.repo.Delete(ctx, id); err != nil {
		return err
	}

	service.logger.Warn("tag_deleted", slog.String("tag_id", id))
	return nil
}
