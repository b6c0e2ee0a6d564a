// Copyright (c) 2026 Inkwell. All rights reserved.

package user

import (
	"context"
	"log/slog"

	"github.com/datpham-dev/inkwell/internal/platform/apperr"
	"github.com/datpham-dev/inkwell/internal/platform/sec"
	"github.com/datpham-dev/inkwell/internal/platform/validate"
)

// Service orchestrates profile reads, self-service updates and the admin
// directory operations.
type Service struct {
	repository Repository
	sessions   SessionDirectory
	logger     *slog.Logger
}

func NewService(repository Repository, sessions SessionDirectory, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		sessions:   sessions,
		logger:     logger,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Public profiles
// ─────────────────────────────────────────────────────────────────────────────

// GetProfile returns the public view of an account by ID.
func (service *Service) GetProfile(ctx context.Context, id string) (*Profile, error) {
	profile, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	profile.Email = ""
	return profile, nil
}

// GetProfileByUsername returns the public view of an account by username.
func (service *Service) GetProfileByUsername(ctx context.Context, username string) (*Profile, error) {
	profile, err := service.repository.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	profile.Email = ""
	return profile, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Self service
// ─────────────────────────────────────────────────────────────────────────────

// GetMe returns the caller's own profile, email included.
func (service *Service) GetMe(ctx context.Context, userID string) (*Profile, error) {
	return service.repository.FindByID(ctx, userID)
}

// UpdateInput is the mutable subset of a profile. Nil fields are left as
// they are; empty strings clear the stored value.
type UpdateInput struct {
	DisplayName *string
	AvatarURL   *string
	Bio         *string
	Website     *string
	Twitter     *string
	GitHub      *string
	LinkedIn    *string
}

// UpdateMe applies a partial profile update for the caller.
func (service *Service) UpdateMe(ctx context.Context, userID string, input UpdateInput) (*Profile, error) {
	if err := validateUpdate(input); err != nil {
		return nil, err
	}

	profile, err := service.repository.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	applyString := func(target *string, source *string) {
		if source != nil {
			*target = *source
		}
	}
	applyString(&profile.DisplayName, input.DisplayName)
	applyString(&profile.AvatarURL, input.AvatarURL)
	applyString(&profile.Bio, input.Bio)
	applyString(&profile.Website, input.Website)
	applyString(&profile.Twitter, input.Twitter)
	applyString(&profile.GitHub, input.GitHub)
	applyString(&profile.LinkedIn, input.LinkedIn)

	if err := service.repository.Update(ctx, profile); err != nil {
		return nil, err
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", userID))
	return profile, nil
}

func validateUpdate(input UpdateInput) error {
	validator := &validate.Validator{}
	if input.DisplayName != nil {
		validator.MaxLen(FieldDisplayName, *input.DisplayName, 100)
	}
	if input.Bio != nil {
		validator.MaxLen(FieldBio, *input.Bio, 1000)
	}
	if input.AvatarURL != nil {
		validator.MaxLen(FieldAvatarURL, *input.AvatarURL, 500)
	}
	if input.Website != nil {
		validator.MaxLen(FieldWebsite, *input.Website, 200)
	}
	if input.Twitter != nil {
		validator.MaxLen(FieldTwitter, *input.Twitter, 100)
	}
	if input.GitHub != nil {
		validator.MaxLen(FieldGitHub, *input.GitHub, 100)
	}
	if input.LinkedIn != nil {
		validator.MaxLen(FieldLinkedIn, *input.LinkedIn, 100)
	}
	return validator.Err()
}

// DeleteMe soft-deletes the caller's account and signs out every device.
func (service *Service) DeleteMe(ctx context.Context, userID string) error {
	if err := service.repository.SoftDelete(ctx, userID); err != nil {
		return err
	}

	_ = service.sessions.RevokeAll(ctx, userID)

	service.logger.Warn("user_account_deleted", slog.String("user_id", userID))
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Session transparency
// ─────────────────────────────────────────────────────────────────────────────

// ListSessions lists the caller's active device sessions.
func (service *Service) ListSessions(ctx context.Context, userID string) ([]SessionInfo, error) {
	return service.sessions.ListActive(ctx, userID)
}

// RevokeSession terminates one of the caller's own sessions.
func (service *Service) RevokeSession(ctx context.Context, userID, sessionID string) error {
	if err := service.sessions.Revoke(ctx, userID, sessionID); err != nil {
		return err
	}

	service.logger.Info("user_session_revoked",
		slog.String("user_id", userID),
		slog.String("session_id", sessionID),
	)
	return nil
}

// SignOutEverywhere terminates every session of the caller. The access
// token keeps working until it expires; refresh is what dies here.
func (service *Service) SignOutEverywhere(ctx context.Context, userID string) error {
	if err := service.sessions.RevokeAll(ctx, userID); err != nil {
		return err
	}

	service.logger.Info("user_sessions_revoked", slog.String("user_id", userID))
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Admin directory
// ─────────────────────────────────────────────────────────────────────────────

// List returns the account directory for administrators. Emails stay
// populated here.
func (service *Service) List(ctx context.Context, take, skip int) ([]*Profile, int, error) {
	return service.repository.List(ctx, take, skip)
}

// SetRole changes an account's role. Admins cannot change their own role,
// which keeps at least one admin in the system.
func (service *Service) SetRole(ctx context.Context, actorID, userID string, role sec.UserRole) (*Profile, error) {
	switch role {
	case sec.RoleAdmin, sec.RoleEditor, sec.RoleUser:
	default:
		return nil, apperr.ValidationError("Unknown role",
			apperr.FieldError{Field: FieldRole, Message: "must be admin, editor or user"})
	}

	if actorID == userID {
		return nil, apperr.Forbidden("You cannot change your own role")
	}

	if err := service.repository.UpdateRole(ctx, userID, role); err != nil {
		return nil, err
	}

	service.logger.Info("user_role_changed",
		slog.String("user_id", userID),
		slog.String("role", string(role)),
		slog.String("changed_by", actorID),
	)

	return service.repository.FindByID(ctx, userID)
}

// Delete soft-deletes an account on behalf of an administrator.
func (service *Service) Delete(ctx context.Context, actorID, userID string) error {
	if actorID == userID {
		return apperr.Forbidden("Use the account deletion endpoint for your own account")
	}

	if err := service.repository.SoftDelete(ctx, userID); err != nil {
		return err
	}

	_ = service.sessions.RevokeAll(ctx, userID)

	service.logger.Warn("user_account_deleted",
		slog.String("user_id", userID),
		slog.String("deleted_by", actorID),
	)
	return nil
}
