// Copyright (c) 2026 Inkwell. All rights reserved.

/*
Package media implements the media library metadata store.

Rows describe uploaded assets by filename, public URL, storage key, mime
type and size. The upload pipeline itself lives outside the API; this
package only tracks what the rest of the platform references.
*/
package media

import (
	"context"
	"time"
)

// MaxFilenameLength bounds the stored filename.
const MaxFilenameLength = 255

// Media is one asset in the library.
type Media struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	URL       string    `json:"url"`
	Key       string    `json:"key"`
	MimeType  string    `json:"mime_type"`
	Size      int64     `json:"size"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository defines the persistence contract for media metadata.
type Repository interface {
	Create(ctx context.Context, media *Media) error
	GetByID(ctx context.Context, id string) (*Media, error)

	// List returns assets newest-first. An empty userID lists the whole
	// library.
	List(ctx context.Context, userID string, take, skip int) ([]*Media, int, error)

	Delete(ctx context.Context, id string) error
}

// Global field names for validation and response payloads
const (
	FieldFilename = "filename"
	FieldURL      = "url"
	FieldKey      = "key"
	FieldMimeType = "mime_type"
	FieldSize     = "size"
)
