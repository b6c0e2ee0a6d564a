// Copyright (c) 2026 Inkwell. All rights reserved.

package media

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/datpham-dev/inkwell/internal/platform/database/schema"
	"github.com/datpham-dev/inkwell/internal/platform/dberr"
)

// PostgresRepository implements Repository on top of blog.media.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// "key" is reserved in some SQL dialects, so it stays quoted everywhere.
var mediaColumns = fmt.Sprintf(
	`%s, %s, %s, "%s", %s, %s, %s, %s`,
	schema.BlogMedia.ID,
	schema.BlogMedia.Filename,
	schema.BlogMedia.URL,
	schema.BlogMedia.Key,
	schema.BlogMedia.MimeType,
	schema.BlogMedia.Size,
	schema.BlogMedia.UserID,
	schema.BlogMedia.CreatedAt,
)

func (repository *PostgresRepository) Create(ctx context.Context, media *Media) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, "%s", %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		schema.BlogMedia.Table,
		schema.BlogMedia.ID, schema.BlogMedia.Filename, schema.BlogMedia.URL,
		schema.BlogMedia.Key, schema.BlogMedia.MimeType, schema.BlogMedia.Size,
		schema.BlogMedia.UserID,
	)

	_, err := repository.db.Exec(ctx, query,
		media.ID, media.Filename, media.URL,
		media.Key, media.MimeType, media.Size, media.UserID,
	)
	return dberr.Wrap(err, "create_media")
}

func (repository *PostgresRepository) GetByID(ctx context.Context, id string) (*Media, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE %s = $1
	`, mediaColumns, schema.BlogMedia.Table, schema.BlogMedia.ID)

	media := &Media{}
	err := repository.db.QueryRow(ctx, query, id).Scan(
		&media.ID, &media.Filename, &media.URL, &media.Key,
		&media.MimeType, &media.Size, &media.UserID, &media.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_media")
	}
	return media, nil
}

func (repository *PostgresRepository) List(ctx context.Context, userID string, take, skip int) ([]*Media, int, error) {
	where := ""
	args := []any{take, skip}
	if userID != "" {
		where = fmt.Sprintf("WHERE %s = $3", schema.BlogMedia.UserID)
		args = append(args, userID)
	}

	query := fmt.Sprintf(`
		SELECT COUNT(*) OVER() AS total_count, %s
		FROM %s
		%s
		ORDER BY %s DESC
		LIMIT $1 OFFSET $2
	`, mediaColumns, schema.BlogMedia.Table, where, schema.BlogMedia.CreatedAt)

	rows, err := repository.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_media")
	}
	defer rows.Close()

	items := make([]*Media, 0)
	totalCount := 0
	for rows.Next() {
		media := &Media{}
		err := rows.Scan(
			&totalCount,
			&media.ID, &media.Filename, &media.URL, &media.Key,
			&media.MimeType, &media.Size, &media.UserID, &media.CreatedAt,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_media")
		}
		items = append(items, media)
	}

	return items, totalCount, nil
}

func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.BlogMedia.Table, schema.BlogMedia.ID)

	result, err := repository.db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_media")
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
