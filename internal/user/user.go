// Copyright (c) 2026 Inkwell. All rights reserved.

/*
Package user implements public author profiles and self-service account
management.

Identity and credentials live in the auth package; this package owns the
profile surface built on top of the same users.account rows: display data,
social links, the admin directory and session transparency.
*/
package user

import (
	"context"
	"time"

	"github.com/datpham-dev/inkwell/internal/platform/sec"
)

// Profile is the account as the rest of the platform sees it. Email is only
// populated for the owner and for admins; public reads carry it empty.
type Profile struct {
	ID          string       `json:"id"`
	Username    string       `json:"username"`
	Email       string       `json:"email,omitempty"`
	DisplayName string       `json:"display_name,omitempty"`
	AvatarURL   string       `json:"avatar_url,omitempty"`
	Bio         string       `json:"bio,omitempty"`
	Website     string       `json:"website,omitempty"`
	Twitter     string       `json:"twitter,omitempty"`
	GitHub      string       `json:"github,omitempty"`
	LinkedIn    string       `json:"linkedin,omitempty"`
	Role        sec.UserRole `json:"role"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// SessionInfo is a transport-safe view of an active refresh session. The
// token hash never leaves the storage layer.
type SessionInfo struct {
	ID        string    `json:"id"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Repository defines the persistence contract for profiles.
type Repository interface {
	FindByID(ctx context.Context, id string) (*Profile, error)
	FindByUsername(ctx context.Context, username string) (*Profile, error)

	// List returns live accounts newest-first plus the total count.
	List(ctx context.Context, take, skip int) ([]*Profile, int, error)

	// Update persists the mutable profile fields.
	Update(ctx context.Context, profile *Profile) error

	UpdateRole(ctx context.Context, userID string, role sec.UserRole) error

	// SoftDelete flags the account as deleted; the row stays for retention.
	SoftDelete(ctx context.Context, id string) error
}

// SessionDirectory exposes session visibility and revocation scoped to an
// owner. Revoke must not touch sessions belonging to other users.
type SessionDirectory interface {
	ListActive(ctx context.Context, userID string) ([]SessionInfo, error)
	Revoke(ctx context.Context, userID, sessionID string) error
	RevokeAll(ctx context.Context, userID string) error
}

// Global field names for validation and response payloads
const (
	FieldDisplayName = "display_name"
	FieldAvatarURL   = "avatar_url"
	FieldBio         = "bio"
	FieldWebsite     = "website"
	FieldTwitter     = "twitter"
	FieldGitHub      = "github"
	FieldLinkedIn    = "linkedin"
	FieldRole        = "role"
)
