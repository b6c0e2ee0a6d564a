// Copyright (c) 2026 Inkwell. All rights reserved.

package auth

import "time"

const (
	// AccessTokenTTL is the lifetime of a JWT access token. Kept short so a
	// leaked token has a small blast radius.
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenTTL is the lifetime of a refresh session.
	RefreshTokenTTL = 30 * 24 * time.Hour

	// RefreshTokenLength is the byte length of the random refresh token.
	RefreshTokenLength = 32

	// ResetTokenTTL is the lifetime of a password reset token.
	ResetTokenTTL = 1 * time.Hour

	// ResetTokenLength is the byte length of the random reset token.
	ResetTokenLength = 32
)
