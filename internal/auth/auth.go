// Copyright (c) 2026 Inkwell. All rights reserved.

/*
Package auth implements identity and session management for the platform.

It covers registration, credential login, refresh-token rotation and the
password recovery flow. Access tokens are short-lived RSA-signed JWTs;
refresh tokens are opaque random values tracked as revocable sessions in
PostgreSQL, stored client-side in an HttpOnly cookie. Password reset tokens
are volatile and live in Redis with a TTL.
*/
package auth

import (
	"time"

	"github.com/datpham-dev/inkwell/internal/platform/sec"
)

// User represents a registered account. Public profile fields live in the
// user package; auth only carries what the identity flows need.
type User struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	DisplayName  string       `json:"display_name,omitempty"`
	Role         sec.UserRole `json:"role"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Session represents an active refresh-token session. The refresh token
// itself is never stored; only its SHA-256 hash is.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"-"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	ExpiresAt time.Time `json:"expires_at"`
	IsRevoked bool      `json:"is_revoked"`
	CreatedAt time.Time `json:"created_at"`
}

// Global field names for validation and response payloads
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldDisplayName     = "display_name"
	FieldLogin           = "login"
	FieldToken           = "token"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldAccessToken     = "access_token"
	FieldTokenType       = "token_type"
	FieldExpiresIn       = "expires_in"
	FieldMessage         = "message"
)
