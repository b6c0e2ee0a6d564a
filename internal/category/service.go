package category

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

// Input is the create/update payload for a category.
type Input struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (service *Service) List(ctx context.Context) ([]*Category, error) {
	return service.repo.List(ctx)
}

func (service *Service) GetByID(ctx context.Context, id string) (*Category, error) {
	return service.repo.GetByID(ctx, id)
}

func (service *Service) GetBySlug(ctx context.Context, categorySlug string) (*Category, error) {
	return service.repo.GetBySlug(ctx, categorySlug)
}

func (service *Service) Create(ctx context.Context, input Input) (*Category, error) {
	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, 100)
	validator.MaxLen(FieldDescription, input.Description, 500)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := &Category{
		ID:          uuidv7.New(),
		Name:        input.Name,
		Slug:        slug.From(input.Name),
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Name and slug carry unique constraints; a duplicate surfaces as 409
	// through dberr rather than a pre-check race.
	if err := service.repo.Create(ctx, created); err != nil {
		return nil, err
	}

	service.logger.Info("category_created", slog.String("slug", created.Slug))
	return created, nil
}

func (service *Service) Update(ctx context.Context, id string, input Input) (*Category, error) {
	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, 100)
	validator.MaxLen(FieldDescription, input.Description, 500)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	updated := &Category{
		ID:          id,
		Name:        input.Name,
		Slug:        slug.From(input.Name),
		Description: input.Description,
	}

	if err := service.repo.Update(ctx, updated); err != nil {
		return nil, err
	}

	service.logger.Info("category_updated", slog.String("category_id", id))
	return service.repo.GetByID(ctx, id)
}

func (service *Service) Delete(ctx context.Context, id string) error {
	if err := service.repo.Delete(ctx, id); err != nil {
		return err
	}

	service.logger.Warn("category_deleted", slog.String("category_id", id))
	return nil
}
