// Copyright (c) 2026 Inkwell. All rights reserved.

package media

import (
	"context"
	"log/slog"
	"strings"

	"github.com/datpham-dev/inkwell/internal/platform/apperr"
	"github.com/datpham-dev/inkwell/internal/platform/sec"
	"github.com/datpham-dev/inkwell/internal/platform/validate"
	"github.com/datpham-dev/inkwell/pkg/uuidv7"
)

// Service implements the media library rules. Editors manage their own
// assets; admins manage everything.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

// Actor is the authenticated caller.
type Actor struct {
	ID   string
	Role sec.UserRole
}

// CreateInput registers an already-uploaded asset.
type CreateInput struct {
	Filename string
	URL      string
	Key      string
	MimeType string
	Size     int64
}

func (service *Service) Create(ctx context.Context, actor Actor, input CreateInput) (*Media, error) {
	validator := &validate.Validator{}
	validator.Required(FieldFilename, input.Filename).
		MaxLen(FieldFilename, input.Filename, MaxFilenameLength).
		Required(FieldURL, input.URL).
		Required(FieldKey, input.Key).
		Required(FieldMimeType, input.MimeType).
		Custom(FieldMimeType, !strings.Contains(input.MimeType, "/"), "must be a type/subtype pair").
		Custom(FieldSize, input.Size <= 0, "must be positive")

	if err := validator.Err(); err != nil {
		return nil, err
	}

	asset := &Media{
		ID:       uuidv7.New(),
		Filename: input.Filename,
		URL:      input.URL,
		Key:      input.Key,
		MimeType: input.MimeType,
		Size:     input.Size,
		UserID:   actor.ID,
	}

	if err := service.repository.Create(ctx, asset); err != nil {
		return nil, err
	}

	service.logger.Info("media_registered",
		slog.String("media_id", asset.ID),
		slog.String("user_id", actor.ID),
	)
	return asset, nil
}

func (service *Service) GetByID(ctx context.Context, id string) (*Media, error) {
	return service.repository.GetByID(ctx, id)
}

// List returns the whole library.
func (service *Service) List(ctx context.Context, take, skip int) ([]*Media, int, error) {
	return service.repository.List(ctx, "", take, skip)
}

// ListForUser returns one user's assets.
func (service *Service) ListForUser(ctx context.Context, userID string, take, skip int) ([]*Media, int, error) {
	return service.repository.List(ctx, userID, take, skip)
}

// Delete removes a metadata row. Owners delete their own assets, admins
// anyone's. The stored object is reaped by the storage lifecycle, not here.
func (service *Service) Delete(ctx context.Context, actor Actor, id string) error {
	asset, err := service.repository.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if asset.UserID != actor.ID && !actor.Role.AtLeast(sec.RoleAdmin) {
		return apperr.Forbidden("You can only delete your own media")
	}

	if err := service.repository.Delete(ctx, id); err != nil {
		return err
	}

	service.logger.Info("media_deleted",
		slog.String("media_id", id),
		slog.String("deleted_by", actor.ID),
	)
	return nil
}
