/*
Package post PostgreSQL store.

The queries lean on the same Postgres features as the rest of the codebase:
  - JSON Aggregation: tags are collected into a JSON array in a sub-query to
    avoid N+1 round-trips.
  - Window Functions: COUNT(*) OVER() returns the total match count without
    a second query.
  - ACID Transactions: the post row and its tag junctions are written
    atomically.
*/
package post

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/datpham-dev/inkwell/internal/platform/apperr"
	"github.com/datpham-dev/inkwell/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed post store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// postSelect is the shared SELECT body for hydrated post reads: author and
// category joined, tags aggregated as JSON.
const postSelect = `
	SELECT
		p.id, p.title, p.slug, p.content, COALESCE(p.excerpt, ''),
		COALESCE(p.featuredimage, ''), p.status,
		COALESCE(p.seotitle, ''), COALESCE(p.seodescription, ''),
		p.views, p.authorid, p.categoryid, p.publishedat, p.createdat, p.updatedat,
		a.id, a.username, COALESCE(a.displayname, ''), COALESCE(a.avatarurl, ''),
		cat.id, cat.name, cat.slug,
		COALESCE((
			SELECT json_agg(json_build_object('id', t.id, 'name', t.name, 'slug', t.slug))
			FROM blog.tag t
			JOIN blog.posttag pt ON t.id = pt.tagid
			WHERE pt.postid = p.id
		), '[]') AS tags
	FROM blog.post p
	JOIN users.account a ON p.authorid = a.id
	LEFT JOIN blog.category cat ON p.categoryid = cat.id
`

// scanPost hydrates one row produced by [postSelect]; extra targets (for
// window-function columns) are appended after the tag JSON.
func scanPost(row pgx.Row, extra ...any) (*Post, error) {
	post := &Post{}
	author := &AuthorRef{}
	var categoryID, categoryName, categorySlug *string
	var tagsJSON []byte

	dest := []any{
		&post.ID, &post.Title, &post.Slug, &post.Content, &post.Excerpt,
		&post.FeaturedImage, &post.Status,
		&post.SEOTitle, &post.SEODescription,
		&post.Views, &post.AuthorID, &post.CategoryID, &post.PublishedAt,
		&post.CreatedAt, &post.UpdatedAt,
		&author.ID, &author.Username, &author.DisplayName, &author.AvatarURL,
		&categoryID, &categoryName, &categorySlug,
		&tagsJSON,
	}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	post.Author = author
	if categoryID != nil {
		post.Category = &CategoryRef{ID: *categoryID, Name: *categoryName, Slug: *categorySlug}
	}
	if err := json.Unmarshal(tagsJSON, &post.Tags); err != nil {
		return nil, fmt.Errorf("postgres: failed to unmarshal tags: %w", err)
	}
	if post.Tags == nil {
		post.Tags = []TagRef{}
	}

	return post, nil
}

func (repository *PostgresRepository) Create(ctx context.Context, post *Post) error {
	transaction, err := repository.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin transaction: %w", err)
	}
	defer transaction.Rollback(ctx)

	query := `
		INSERT INTO blog.post (
			id, title, slug, content, excerpt, featuredimage, status,
			seotitle, seodescription, authorid, categoryid, publishedat,
			createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err = transaction.Exec(ctx, query,
		post.ID, post.Title, post.Slug, post.Content, post.Excerpt,
		post.FeaturedImage, post.Status, post.SEOTitle, post.SEODescription,
		post.AuthorID, post.CategoryID, post.PublishedAt,
		post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "create_post")
	}

	if len(post.TagIDs) > 0 {
		if err := replaceTags(ctx, transaction, post.ID, post.TagIDs); err != nil {
			return err
		}
	}

	if err := transaction.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: failed to commit create transaction: %w", err)
	}
	return nil
}

func (repository *PostgresRepository) GetByID(ctx context.Context, id string) (*Post, error) {
	query := postSelect + ` WHERE p.id = $1`

	post, err := scanPost(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("post")
		}
		return nil, dberr.Wrap(err, "get_post_by_id")
	}
	return post, nil
}

func (repository *PostgresRepository) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	query := postSelect + ` WHERE p.slug = $1`

	post, err := scanPost(repository.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("post")
		}
		return nil, dberr.Wrap(err, "get_post_by_slug")
	}
	return post, nil
}

// List builds the dynamic WHERE clause from the filter and pages the result.
func (repository *PostgresRepository) List(ctx context.Context, filter Filter, limit, offset int) ([]*Post, int, error) {
	// The WHERE clause is built once so the fallback count below can reuse
	// it with the same placeholder numbering.
	var where strings.Builder
	var filterArgs []any
	argID := 1

	where.WriteString(" WHERE 1=1")

	if filter.Status != nil {
		where.WriteString(fmt.Sprintf(" AND p.status = $%d", argID))
		filterArgs = append(filterArgs, *filter.Status)
		argID++
	}

	if filter.AuthorID != "" {
		where.WriteString(fmt.Sprintf(" AND p.authorid = $%d", argID))
		filterArgs = append(filterArgs, filter.AuthorID)
		argID++
	}

	if filter.CategorySlug != "" {
		where.WriteString(fmt.Sprintf(" AND cat.slug = $%d", argID))
		filterArgs = append(filterArgs, filter.CategorySlug)
		argID++
	}

	if filter.TagSlug != "" {
		where.WriteString(fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM blog.posttag pt
			JOIN blog.tag t ON pt.tagid = t.id
			WHERE pt.postid = p.id AND t.slug = $%d
		)`, argID))
		filterArgs = append(filterArgs, filter.TagSlug)
		argID++
	}

	if filter.SearchTerm != "" {
		where.WriteString(fmt.Sprintf(" AND p.title ILIKE $%d", argID))
		filterArgs = append(filterArgs, "%"+filter.SearchTerm+"%")
		argID++
	}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(strings.Replace(postSelect, "SELECT", "SELECT COUNT(*) OVER() AS total_count,", 1))
	queryBuilder.WriteString(where.String())
	queryBuilder.WriteString(" ORDER BY p.createdat DESC, p.id DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))

	pageArgs := make([]any, 0, len(filterArgs)+2)
	pageArgs = append(pageArgs, filterArgs...)
	pageArgs = append(pageArgs, limit, offset)

	rows, err := repository.pool.Query(ctx, queryBuilder.String(), pageArgs...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_posts")
	}
	defer rows.Close()

	posts := make([]*Post, 0)
	totalCount := 0

	for rows.Next() {
		post, err := scanListedPost(rows, &totalCount)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_post")
		}
		posts = append(posts, post)
	}

	// An out-of-range page yields zero rows, so the window function never
	// reports the real total. Count separately in that case.
	if len(posts) == 0 && offset > 0 {
		countQuery := `
			SELECT COUNT(*)
			FROM blog.post p
			LEFT JOIN blog.category cat ON p.categoryid = cat.id
		` + where.String()
		if err := repository.pool.QueryRow(ctx, countQuery, filterArgs...).Scan(&totalCount); err != nil {
			return nil, 0, dberr.Wrap(err, "count_posts")
		}
	}

	return posts, totalCount, nil
}

// scanListedPost mirrors [scanPost] for rows where total_count leads the
// column list.
func scanListedPost(row pgx.Row, totalCount *int) (*Post, error) {
	post := &Post{}
	author := &AuthorRef{}
	var categoryID, categoryName, categorySlug *string
	var tagsJSON []byte

	err := row.Scan(
		totalCount,
		&post.ID, &post.Title, &post.Slug, &post.Content, &post.Excerpt,
		&post.FeaturedImage, &post.Status,
		&post.SEOTitle, &post.SEODescription,
		&post.Views, &post.AuthorID, &post.CategoryID, &post.PublishedAt,
		&post.CreatedAt, &post.UpdatedAt,
		&author.ID, &author.Username, &author.DisplayName, &author.AvatarURL,
		&categoryID, &categoryName, &categorySlug,
		&tagsJSON,
	)
	if err != nil {
		return nil, err
	}

	post.Author = author
	if categoryID != nil {
		post.Category = &CategoryRef{ID: *categoryID, Name: *categoryName, Slug: *categorySlug}
	}
	if err := json.Unmarshal(tagsJSON, &post.Tags); err != nil {
		return nil, fmt.Errorf("postgres: failed to unmarshal tags: %w", err)
	}
	if post.Tags == nil {
		post.Tags = []TagRef{}
	}

	return post, nil
}

func (repository *PostgresRepository) ListFeatured(ctx context.Context, limit int) ([]*Post, error) {
	query := postSelect + `
		WHERE p.status = $1
		ORDER BY p.views DESC, p.id DESC
		LIMIT $2
	`

	rows, err := repository.pool.Query(ctx, query, StatusPublished, limit)
	if err != nil {
		return nil, dberr.Wrap(err, "list_featured_posts")
	}
	defer rows.Close()

	posts := make([]*Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_post")
		}
		posts = append(posts, post)
	}

	return posts, nil
}

// Update applies the patch fields dynamically and, when TagIDs is non-nil,
// rewrites the junction rows in the same transaction.
func (repository *PostgresRepository) Update(ctx context.Context, post *Post) error {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString("UPDATE blog.post SET updatedat = NOW()")

	appendSet := func(column string, value any) {
		queryBuilder.WriteString(fmt.Sprintf(", %s = $%d", column, argID))
		args = append(args, value)
		argID++
	}

	if post.Title != "" {
		appendSet("title", post.Title)
	}
	if post.Slug != "" {
		appendSet("slug", post.Slug)
	}
	if post.Content != "" {
		appendSet("content", post.Content)
	}
	if post.Excerpt != "" {
		appendSet("excerpt", post.Excerpt)
	}
	if post.FeaturedImage != "" {
		appendSet("featuredimage", post.FeaturedImage)
	}
	if post.Status != "" {
		appendSet("status", post.Status)
	}
	if post.SEOTitle != "" {
		appendSet("seotitle", post.SEOTitle)
	}
	if post.SEODescription != "" {
		appendSet("seodescription", post.SEODescription)
	}
	if post.CategoryID != nil {
		appendSet("categoryid", *post.CategoryID)
	}
	if post.PublishedAt != nil {
		appendSet("publishedat", *post.PublishedAt)
	}

	queryBuilder.WriteString(fmt.Sprintf(" WHERE id = $%d", argID))
	args = append(args, post.ID)

	transaction, err := repository.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin transaction: %w", err)
	}
	defer transaction.Rollback(ctx)

	result, err := transaction.Exec(ctx, queryBuilder.String(), args...)
	if err != nil {
		return dberr.Wrap(err, "update_post")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("post")
	}

	if post.TagIDs != nil {
		if err := replaceTags(ctx, transaction, post.ID, post.TagIDs); err != nil {
			return err
		}
	}

	if err := transaction.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: failed to commit update transaction: %w", err)
	}
	return nil
}

// replaceTags synchronizes the post-tag junction with a clear-and-insert
// strategy, batched to a single round-trip.
func replaceTags(ctx context.Context, transaction pgx.Tx, postID string, tagIDs []string) error {
	if _, err := transaction.Exec(ctx, `DELETE FROM blog.posttag WHERE postid = $1`, postID); err != nil {
		return dberr.Wrap(err, "clear_post_tags")
	}

	if len(tagIDs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, tagID := range tagIDs {
		batch.Queue(`INSERT INTO blog.posttag (postid, tagid) VALUES ($1, $2)`, postID, tagID)
	}

	response := transaction.SendBatch(ctx, batch)
	if err := response.Close(); err != nil {
		return dberr.Wrap(err, "assign_post_tags")
	}
	return nil
}

func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	result, err := repository.pool.Exec(ctx, `DELETE FROM blog.post WHERE id = $1`, id)
	if err != nil {
		return dberr.Wrap(err, "delete_post")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("post")
	}
	return nil
}

func (repository *PostgresRepository) Exists(ctx context.Context, id string) (bool, error) {
	exists := false
	err := repository.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM blog.post WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, dberr.Wrap(err, "post_exists")
	}
	return exists, nil
}

func (repository *PostgresRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	exists := false
	err := repository.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM blog.post WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, dberr.Wrap(err, "post_slug_exists")
	}
	return exists, nil
}

func (repository *PostgresRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := repository.pool.Exec(ctx, `UPDATE blog.post SET views = views + 1 WHERE id = $1`, id)
	return dberr.Wrap(err, "increment_post_views")
}
