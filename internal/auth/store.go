// Copyright (c) 2026 Inkwell. All rights reserved.

package auth

import (
	"context"
	"time"
)

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, user *User) error

	// UpdatePassword replaces only the password hash.
	UpdatePassword(ctx context.Context, userID, newHash string) error
}

// SessionRepository defines the data access contract for refresh-token
// sessions. FindByTokenHash must only return sessions that are neither
// revoked nor expired.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*Session, error)

	// Revoke invalidates one session permanently.
	Revoke(ctx context.Context, sessionID string) error

	// RevokeAll invalidates every session of the user.
	RevokeAll(ctx context.Context, userID string) error

	// RevokeOthers invalidates every session of the user except the current one.
	RevokeOthers(ctx context.Context, userID, currentSessionID string) error

	// DeleteExpired physically removes sessions past their expiry.
	DeleteExpired(ctx context.Context) error
}

// ResetTokenRepository stores volatile password reset tokens.
type ResetTokenRepository interface {
	Set(ctx context.Context, token, userID string, ttl time.Duration) error

	// Get resolves a token to the owning user ID, or NotFound if the token
	// is absent or expired.
	Get(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}
