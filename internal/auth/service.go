// Copyright (c) 2026 Inkwell. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/datpham-dev/inkwell/internal/platform/apperr"
	"github.com/datpham-dev/inkwell/internal/platform/sec"
	"github.com/datpham-dev/inkwell/pkg/uuidv7"
)

// TokenProvider defines the contract for minting signed access tokens.
type TokenProvider interface {
	GenerateAccessToken(userID, username, role string, timeToLive time.Duration) (string, error)
}

// Service implements the authentication use-cases.
//
// Any change to hashing, registration, or login logic is security sensitive
// and needs a second pair of eyes.
type Service struct {
	users    UserRepository
	sessions SessionRepository
	resets   ResetTokenRepository
	tokens   TokenProvider
	logger   *slog.Logger
}

// NewService constructs the auth service.
func NewService(
	users UserRepository,
	sessions SessionRepository,
	resets ResetTokenRepository,
	tokens TokenProvider,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		resets:   resets,
		tokens:   tokens,
		logger:   logger,
	}
}

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	DisplayName string
}

// Register validates, hashes and persists a new account with the default
// reader role.
func (service *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	// Uniqueness pre-checks return client-safe conflicts; the unique
	// constraints still back them up against races.
	if _, err := service.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}
	if _, err := service.users.FindByUsername(ctx, input.Username); err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth: password hash failed: %w", err)
	}

	user := &User{
		ID:           uuidv7.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		DisplayName:  input.DisplayName,
		Role:         sec.RoleUser,
	}

	if err := service.users.Create(ctx, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_registered", slog.String("user_id", user.ID))
	return user, nil
}

// LoginInput defines credentials for an authentication attempt. Login
// accepts either the username or the email.
type LoginInput struct {
	Login     string
	Password  string
	UserAgent string
	IPAddress string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User
}

// Login verifies credentials and opens a tracked refresh session.
func (service *Service) Login(ctx context.Context, input LoginInput) (*LoginSession, error) {
	user, err := service.users.FindByEmail(ctx, input.Login)
	if err != nil {
		user, err = service.users.FindByUsername(ctx, input.Login)
	}

	// Generic message either way to prevent account enumeration.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	session, err := service.openSession(ctx, user, input.UserAgent, input.IPAddress)
	if err != nil {
		return nil, err
	}

	service.logger.Info("user_logged_in", slog.String("user_id", user.ID))
	return session, nil
}

// Logout revokes the session behind the refresh token. Unknown tokens are
// treated as success so logout stays idempotent.
func (service *Service) Logout(ctx context.Context, refreshToken string) error {
	session, err := service.sessions.FindByTokenHash(ctx, sec.HashToken(refreshToken))
	if err != nil {
		return nil
	}

	if err := service.sessions.Revoke(ctx, session.ID); err != nil {
		return err
	}

	service.logger.Info("user_logged_out", slog.String("user_id", session.UserID))
	return nil
}

// RefreshSession implements refresh token rotation: the presented token's
// session is revoked before a fresh pair is issued, so a replayed token is
// dead on arrival.
func (service *Service) RefreshSession(ctx context.Context, refreshToken, userAgent, ipAddress string) (*LoginSession, error) {
	session, err := service.sessions.FindByTokenHash(ctx, sec.HashToken(refreshToken))
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	if err := service.sessions.Revoke(ctx, session.ID); err != nil {
		return nil, err
	}

	user, err := service.users.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("User not found or suspended")
	}

	return service.openSession(ctx, user, userAgent, ipAddress)
}

// openSession mints the token pair and persists the tracking session.
func (service *Service) openSession(ctx context.Context, user *User, userAgent, ipAddress string) (*LoginSession, error) {
	accessToken, err := service.tokens.GenerateAccessToken(user.ID, user.Username, string(user.Role), AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth: access token generation failed: %w", err)
	}

	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth: refresh token generation failed: %w", err)
	}

	expiresAt := time.Now().Add(RefreshTokenTTL)
	session := &Session{
		ID:        uuidv7.New(),
		UserID:    user.ID,
		TokenHash: sec.HashToken(refreshToken),
		UserAgent: userAgent,
		IPAddress: ipAddress,
		ExpiresAt: expiresAt,
	}

	if err := service.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: expiresAt,
		User:                  user,
	}, nil
}

// RequestPasswordReset starts the forgot-password flow. An unknown email
// returns an empty token with no error to prevent enumeration.
func (service *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := service.users.FindByEmail(ctx, email)
	if err != nil {
		// Only an unknown email is masked; store failures must surface.
		if appError := apperr.As(err); appError != nil && appError.HTTPStatus == http.StatusNotFound {
			return "", nil
		}
		return "", err
	}

	token, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		return "", fmt.Errorf("auth: reset token generation failed: %w", err)
	}

	if err := service.resets.Set(ctx, token, user.ID, ResetTokenTTL); err != nil {
		return "", err
	}

	// TODO: hand the token to the mailer once the notification worker lands.
	service.logger.Info("password_reset_requested", slog.String("user_id", user.ID))
	return token, nil
}

// ResetPassword completes the forgot-password flow and revokes every active
// session of the account.
func (service *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := service.resets.Get(ctx, token)
	if err != nil {
		return err
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth: password hash failed: %w", err)
	}

	if err := service.users.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		return err
	}

	_ = service.sessions.RevokeAll(ctx, userID)
	_ = service.resets.Delete(ctx, token)

	service.logger.Info("password_reset_completed", slog.String("user_id", userID))
	return nil
}

// ChangePassword rotates the password of an authenticated user after
// verifying the current one, and logs out every OTHER device.
func (service *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword, currentRefreshToken string) error {
	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth: password hash failed: %w", err)
	}

	if err := service.users.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		return err
	}

	session, err := service.sessions.FindByTokenHash(ctx, sec.HashToken(currentRefreshToken))
	if err == nil {
		_ = service.sessions.RevokeOthers(ctx, userID, session.ID)
	}

	service.logger.Info("password_changed", slog.String("user_id", userID))
	return nil
}
