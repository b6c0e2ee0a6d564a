package tag

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/datpham-dev/inkwell/internal/platform/database/schema"
	"github.com/datpham-dev/inkwell/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) Create(ctx context.Context, tag *Tag) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
	`,
		schema.BlogTag.Table,
		schema.BlogTag.ID, schema.BlogTag.Name, schema.BlogTag.Slug,
		schema.BlogTag.CreatedAt, schema.BlogTag.UpdatedAt,
	)

	_, err := repository.db.Exec(ctx, query,
		tag.ID, tag.Name, tag.Slug, tag.CreatedAt, tag.UpdatedAt,
	)
	return dberr.Wrap(err, "create_tag")
}

func (repository *PostgresRepository) GetByID(ctx context.Context, id string) (*Tag, error) {
	return repository.getByColumn(ctx, schema.BlogTag.ID, id)
}

func (repository *PostgresRepository) GetBySlug(ctx context.Context, slug string) (*Tag, error) {
	return repository.getByColumn(ctx, schema.BlogTag.Slug, slug)
}

func (repository *PostgresRepository) getByColumn(ctx context.Context, column, value string) (*Tag, error) {
	query := fmt.Sprintf(`
		SELECT t.%s, t.%s, t.%s, t.%s, t.%s,
		       (SELECT COUNT(*) FROM %s pt WHERE pt.%s = t.%s)
		FROM %s t
		WHERE t.%s = $1
	`,
		schema.BlogTag.ID, schema.BlogTag.Name, schema.BlogTag.Slug,
		schema.BlogTag.CreatedAt, schema.BlogTag.UpdatedAt,
		schema.BlogPostTag.Table, schema.BlogPostTag.TagID, schema.BlogTag.ID,
		schema.BlogTag.Table, column,
	)

	tag := &Tag{}
	err := repository.db.QueryRow(ctx, query, value).Scan(
		&tag.ID, &tag.Name, &tag.Slug, &tag.CreatedAt, &tag.UpdatedAt,
		&tag.PostCount,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_tag")
	}
	return tag, nil
}

func (repository *PostgresRepository) List(ctx context.Context) ([]*Tag, error) {
	query := fmt.Sprintf(`
		SELECT t.%s, t.%s, t.%s, t.%s, t.%s,
		       (SELECT COUNT(*) FROM %s pt WHERE pt.%s = t.%s)
		FROM %s t
		ORDER BY t.%s ASC
	`,
		schema.BlogTag.ID, schema.BlogTag.Name, schema.BlogTag.Slug,
		schema.BlogTag.CreatedAt, schema.BlogTag.UpdatedAt,
		schema.BlogPostTag.Table, schema.BlogPostTag.TagID, schema.BlogTag.ID,
		schema.BlogTag.Table, schema.BlogTag.Name,
	)

	rows, err := repository.db.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_tags")
	}
	defer rows.Close()

	tags := make([]*Tag, 0)
	for rows.Next() {
		tag := &Tag{}
		err := rows.Scan(
			&tag.ID, &tag.Name, &tag.Slug, &tag.CreatedAt, &tag.UpdatedAt,
			&tag.PostCount,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_tag")
		}
		tags = append(tags, tag)
	}

	return tags, nil
}

func (repository *PostgresRepository) Update(ctx context.Context, tag *Tag) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $1, %s = $2, %s = NOW()
		WHERE %s = $3
	`,
		schema.BlogTag.Table,
		schema.BlogTag.Name, schema.BlogTag.Slug,
		schema.BlogTag.UpdatedAt, schema.BlogTag.ID,
	)

	result, err := repository.db.Exec(ctx, query, tag.Name, tag.Slug, tag.ID)
	if err != nil {
		return dberr.Wrap(err, "update_tag")
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.BlogTag.Table, schema.BlogTag.ID)

	result, err := repository.db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_tag")
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
