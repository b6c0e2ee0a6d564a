package category

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

func (repository *PostgresRepository) Create(ctx context.Context, category *Category) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		schema.BlogCategory.Table,
		schema.BlogCategory.ID, schema.BlogCategory.Name, schema.BlogCategory.Slug,
		schema.BlogCategory.Description, schema.BlogCategory.CreatedAt, schema.BlogCategory.UpdatedAt,
	)

	_, err := repository.db.Exec(ctx, query,
		category.ID, category.Name, category.Slug,
		category.Description, category.CreatedAt, category.UpdatedAt,
	)
	return dberr.Wrap(err, "create_category")
}

func (repository *PostgresRepository) GetByID(ctx context.Context, id string) (*Category, error) {
	return repository.getByColumn(ctx, schema.BlogCategory.ID, id)
}

func (repository *PostgresRepository) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	return repository.getByColumn(ctx, schema.BlogCategory.Slug, slug)
}

func (repository *PostgresRepository) getByColumn(ctx context.Context, column, value string) (*Category, error) {
	query := fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, COALESCE(c.%s, ''), c.%s, c.%s,
		       (SELECT COUNT(*) FROM %s p WHERE p.%s = c.%s)
		FROM %s c
		WHERE c.%s = $1
	`,
		schema.BlogCategory.ID, schema.BlogCategory.Name, schema.BlogCategory.Slug,
		schema.BlogCategory.Description, schema.BlogCategory.CreatedAt, schema.BlogCategory.UpdatedAt,
		schema.BlogPost.Table, schema.BlogPost.CategoryID, schema.BlogCategory.ID,
		schema.BlogCategory.Table, column,
	)

	category := &Category{}
	err := repository.db.QueryRow(ctx, query, value).Scan(
		&category.ID, &category.Name, &category.Slug,
		&category.Description, &category.CreatedAt, &category.UpdatedAt,
		&category.PostCount,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_category")
	}
	return category, nil
}

func (repository *PostgresRepository) List(ctx context.Context) ([]*Category, error) {
	query := fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, COALESCE(c.%s, ''), c.%s, c.%s,
		       (SELECT COUNT(*) FROM %s p WHERE p.%s = c.%s)
		FROM %s c
		ORDER BY c.%s ASC
	`,
		schema.BlogCategory.ID, schema.BlogCategory.Name, schema.BlogCategory.Slug,
		schema.BlogCategory.Description, schema.BlogCategory.CreatedAt, schema.BlogCategory.UpdatedAt,
		schema.BlogPost.Table, schema.BlogPost.CategoryID, schema.BlogCategory.ID,
		schema.BlogCategory.Table, schema.BlogCategory.Name,
	)

	rows, err := repository.db.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_categories")
	}
	defer rows.Close()

	categories := make([]*Category, 0)
	for rows.Next() {
		category := &Category{}
		err := rows.Scan(
			&category.ID, &category.Name, &category.Slug,
			&category.Description, &category.CreatedAt, &category.UpdatedAt,
			&category.PostCount,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_category")
		}
		categories = append(categories, category)
	}

	return categories, nil
}

func (repository *PostgresRepository) Update(ctx context.Context, category *Category) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $1, %s = $2, %s = $3, %s = NOW()
		WHERE %s = $4
	`,
		schema.BlogCategory.Table,
		schema.BlogCategory.Name, schema.BlogCategory.Slug, schema.BlogCategory.Description,
		schema.BlogCategory.UpdatedAt, schema.BlogCategory.ID,
	)

	result, err := repository.db.Exec(ctx, query,
		category.Name, category.Slug, category.Description, category.ID,
	)
	if err != nil {
		return dberr.Wrap(err, "update_category")
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.BlogCategory.Table, schema.BlogCategory.ID)

	result, err := repository.db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_category")
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
