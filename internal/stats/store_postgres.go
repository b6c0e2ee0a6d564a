// Copyright (c) 2026 Inkwell. All rights reserved.

package stats

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/datpham-dev/inkwell/internal/platform/database/schema"
	"github.com/datpham-dev/inkwell/internal/platform/dberr"
)

// PostgresRepository computes the aggregates straight from the primary
// tables. Callers are expected to sit behind the cache.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) CollectOverview(ctx context.Context) (*Overview, error) {
	query := fmt.Sprintf(`
		SELECT
			(SELECT COUNT(*) FROM %s),
			(SELECT COUNT(*) FROM %s),
			(SELECT COUNT(*) FROM %s WHERE %s IS NULL),
			(SELECT COUNT(*) FROM %s),
			(SELECT COUNT(*) FROM %s),
			(SELECT COUNT(*) FROM %s),
			(SELECT COALESCE(SUM(%s), 0) FROM %s)
	`,
		schema.BlogPost.Table,
		schema.BlogComment.Table,
		schema.UserAccount.Table, schema.UserAccount.DeletedAt,
		schema.BlogCategory.Table,
		schema.BlogTag.Table,
		schema.BlogMedia.Table,
		schema.BlogPost.Views, schema.BlogPost.Table,
	)

	overview := &Overview{ComputedAt: time.Now()}
	err := repository.db.QueryRow(ctx, query).Scan(
		&overview.Posts,
		&overview.Comments,
		&overview.Users,
		&overview.Categories,
		&overview.Tags,
		&overview.Media,
		&overview.TotalViews,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "collect_overview")
	}
	return overview, nil
}

// RecentActivity runs one bounded query per source and merges in memory.
// Each source already returns at most limit rows, so the merge is tiny.
func (repository *PostgresRepository) RecentActivity(ctx context.Context, limit int) ([]ActivityItem, error) {
	merged := make([]ActivityItem, 0, 3*limit)

	postQuery := fmt.Sprintf(`
		SELECT p.%s, p.%s, a.%s, p.%s
		FROM %s p
		JOIN %s a ON a.%s = p.%s
		ORDER BY p.%s DESC
		LIMIT $1
	`,
		schema.BlogPost.ID, schema.BlogPost.Title, schema.UserAccount.Username, schema.BlogPost.CreatedAt,
		schema.BlogPost.Table,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.BlogPost.AuthorID,
		schema.BlogPost.CreatedAt,
	)
	if err := repository.collect(ctx, &merged, ActivityPost, postQuery, limit); err != nil {
		return nil, err
	}

	commentQuery := fmt.Sprintf(`
		SELECT c.%s, LEFT(c.%s, 80), a.%s, c.%s
		FROM %s c
		JOIN %s a ON a.%s = c.%s
		ORDER BY c.%s DESC
		LIMIT $1
	`,
		schema.BlogComment.ID, schema.BlogComment.Content, schema.UserAccount.Username, schema.BlogComment.CreatedAt,
		schema.BlogComment.Table,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.BlogComment.AuthorID,
		schema.BlogComment.CreatedAt,
	)
	if err := repository.collect(ctx, &merged, ActivityComment, commentQuery, limit); err != nil {
		return nil, err
	}

	userQuery := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		WHERE %s IS NULL
		ORDER BY %s DESC
		LIMIT $1
	`,
		schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.Username, schema.UserAccount.CreatedAt,
		schema.UserAccount.Table,
		schema.UserAccount.DeletedAt,
		schema.UserAccount.CreatedAt,
	)
	if err := repository.collect(ctx, &merged, ActivityUser, userQuery, limit); err != nil {
		return nil, err
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

// collect appends rows of the shape (id, title, actor, createdat).
func (repository *PostgresRepository) collect(ctx context.Context, target *[]ActivityItem, kind, query string, limit int) error {
	rows, err := repository.db.Query(ctx, query, limit)
	if err != nil {
		return dberr.Wrap(err, "recent_activity")
	}
	defer rows.Close()

	for rows.Next() {
		item := ActivityItem{Type: kind}
		if err := rows.Scan(&item.ID, &item.Title, &item.Actor, &item.CreatedAt); err != nil {
			return dberr.Wrap(err, "scan_activity")
		}
		*target = append(*target, item)
	}
	return nil
}
