package comment

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/datpham-dev/inkwell/internal/platform/apperr"
	"github.com/datpham-dev/inkwell/internal/platform/database/schema"
	"github.com/datpham-dev/inkwell/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed comment store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// commentColumns is the canonical SELECT list for comment rows joined with
// their author projection. Every read path scans through [scanComment] so
// the column order is defined in exactly one place.
var commentColumns = fmt.Sprintf(
	`c.%s, c.%s, c.%s, c.%s, c.%s, c.%s, c.%s, c.%s,
	 a.%s, a.%s, COALESCE(a.%s, ''), COALESCE(a.%s, '')`,
	schema.BlogComment.ID, schema.BlogComment.Content, schema.BlogComment.Status,
	schema.BlogComment.AuthorID, schema.BlogComment.PostID, schema.BlogComment.ParentID,
	schema.BlogComment.CreatedAt, schema.BlogComment.UpdatedAt,
	schema.UserAccount.ID, schema.UserAccount.Username,
	schema.UserAccount.DisplayName, schema.UserAccount.AvatarURL,
)

// scanTarget must match [commentColumns] positionally.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanComment(row rowScanner, extra ...any) (*Comment, error) {
	comment := &Comment{}
	author := &AuthorRef{}

	dest := []any{
		&comment.ID, &comment.Content, &comment.Status,
		&comment.AuthorID, &comment.PostID, &comment.ParentID,
		&comment.CreatedAt, &comment.UpdatedAt,
		&author.ID, &author.Username, &author.DisplayName, &author.AvatarURL,
	}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	comment.Author = author
	return comment, nil
}

func (repository *PostgresRepository) Create(ctx context.Context, comment *Comment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		schema.BlogComment.Table,
		schema.BlogComment.ID, schema.BlogComment.Content, schema.BlogComment.Status,
		schema.BlogComment.AuthorID, schema.BlogComment.PostID, schema.BlogComment.ParentID,
		schema.BlogComment.CreatedAt, schema.BlogComment.UpdatedAt,
	)

	_, err := repository.db.Exec(ctx, query,
		comment.ID, comment.Content, comment.Status,
		comment.AuthorID, comment.PostID, comment.ParentID,
		comment.CreatedAt, comment.UpdatedAt,
	)
	return dberr.Wrap(err, "create_comment")
}

func (repository *PostgresRepository) GetByID(ctx context.Context, id string) (*Comment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s c
		JOIN %s a ON c.%s = a.%s
		WHERE c.%s = $1
	`,
		commentColumns,
		schema.BlogComment.Table, schema.UserAccount.Table,
		schema.BlogComment.AuthorID, schema.UserAccount.ID,
		schema.BlogComment.ID,
	)

	comment, err := scanComment(repository.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_comment_by_id")
	}
	return comment, nil
}

// ListForPost returns ALL rows of a post newest-first. The tie on identical
// timestamps is broken by id descending; UUIDv7 ids are time-ordered so the
// combined order is stable across pages and re-reads.
func (repository *PostgresRepository) ListForPost(ctx context.Context, postID string, status *Status) ([]*Comment, error) {
	var queryBuilder strings.Builder
	var args []any

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s
		FROM %s c
		JOIN %s a ON c.%s = a.%s
		WHERE c.%s = $1
	`,
		commentColumns,
		schema.BlogComment.Table, schema.UserAccount.Table,
		schema.BlogComment.AuthorID, schema.UserAccount.ID,
		schema.BlogComment.PostID,
	))
	args = append(args, postID)

	if status != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND c.%s = $2", schema.BlogComment.Status))
		args = append(args, *status)
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY c.%s DESC, c.%s DESC",
		schema.BlogComment.CreatedAt, schema.BlogComment.ID))

	rows, err := repository.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_comments_for_post")
	}
	defer rows.Close()

	comments := make([]*Comment, 0)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_comment")
		}
		comments = append(comments, comment)
	}

	return comments, nil
}

func (repository *PostgresRepository) ListForUser(ctx context.Context, authorID string, take, skip int) ([]*Comment, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, p.%s, COUNT(*) OVER() AS total_count
		FROM %s c
		JOIN %s a ON c.%s = a.%s
		JOIN %s p ON c.%s = p.%s
		WHERE c.%s = $1
		ORDER BY c.%s DESC, c.%s DESC
		LIMIT $2 OFFSET $3
	`,
		commentColumns, schema.BlogPost.Title,
		schema.BlogComment.Table,
		schema.UserAccount.Table, schema.BlogComment.AuthorID, schema.UserAccount.ID,
		schema.BlogPost.Table, schema.BlogComment.PostID, schema.BlogPost.ID,
		schema.BlogComment.AuthorID,
		schema.BlogComment.CreatedAt, schema.BlogComment.ID,
	)

	rows, err := repository.db.Query(ctx, query, authorID, take, skip)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_comments_for_user")
	}
	defer rows.Close()

	comments := make([]*Comment, 0)
	totalCount := 0

	for rows.Next() {
		var postTitle string
		comment, err := scanComment(rows, &postTitle, &totalCount)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_comment")
		}
		comment.PostTitle = postTitle
		comments = append(comments, comment)
	}

	// An out-of-range page yields zero rows, so the window function never
	// reports the real total. Count separately in that case.
	if len(comments) == 0 && skip > 0 {
		countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`,
			schema.BlogComment.Table, schema.BlogComment.AuthorID)
		if err := repository.db.QueryRow(ctx, countQuery, authorID).Scan(&totalCount); err != nil {
			return nil, 0, dberr.Wrap(err, "count_comments_for_user")
		}
	}

	return comments, totalCount, nil
}

// Find runs the generic filtered search used by the moderation dashboard.
func (repository *PostgresRepository) Find(ctx context.Context, filter Filter) ([]*Comment, int, error) {
	// The WHERE clause is built once so the fallback count below can reuse
	// it with the same placeholder numbering.
	var where strings.Builder
	var filterArgs []any
	argID := 1

	where.WriteString(" WHERE 1=1")

	if filter.SearchTerm != "" {
		where.WriteString(fmt.Sprintf(" AND c.%s ILIKE $%d", schema.BlogComment.Content, argID))
		filterArgs = append(filterArgs, "%"+filter.SearchTerm+"%")
		argID++
	}

	if filter.AuthorID != "" {
		where.WriteString(fmt.Sprintf(" AND c.%s = $%d", schema.BlogComment.AuthorID, argID))
		filterArgs = append(filterArgs, filter.AuthorID)
		argID++
	}

	if filter.PostID != "" {
		where.WriteString(fmt.Sprintf(" AND c.%s = $%d", schema.BlogComment.PostID, argID))
		filterArgs = append(filterArgs, filter.PostID)
		argID++
	}

	if filter.Status != nil {
		where.WriteString(fmt.Sprintf(" AND c.%s = $%d", schema.BlogComment.Status, argID))
		filterArgs = append(filterArgs, *filter.Status)
		argID++
	}

	if filter.RootOnly {
		where.WriteString(fmt.Sprintf(" AND c.%s IS NULL", schema.BlogComment.ParentID))
	}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s c
		JOIN %s a ON c.%s = a.%s
	`,
		commentColumns,
		schema.BlogComment.Table, schema.UserAccount.Table,
		schema.BlogComment.AuthorID, schema.UserAccount.ID,
	))
	queryBuilder.WriteString(where.String())
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY c.%s DESC, c.%s DESC",
		schema.BlogComment.CreatedAt, schema.BlogComment.ID))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))

	pageArgs := make([]any, 0, len(filterArgs)+2)
	pageArgs = append(pageArgs, filterArgs...)
	pageArgs = append(pageArgs, filter.Take, filter.Skip)

	rows, err := repository.db.Query(ctx, queryBuilder.String(), pageArgs...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "find_comments")
	}
	defer rows.Close()

	comments := make([]*Comment, 0)
	totalCount := 0

	for rows.Next() {
		comment, err := scanComment(rows, &totalCount)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_comment")
		}
		comments = append(comments, comment)
	}

	// An out-of-range page yields zero rows, so the window function never
	// reports the real total. Count separately in that case.
	if len(comments) == 0 && filter.Skip > 0 {
		countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s c`, schema.BlogComment.Table) + where.String()
		if err := repository.db.QueryRow(ctx, countQuery, filterArgs...).Scan(&totalCount); err != nil {
			return nil, 0, dberr.Wrap(err, "count_comments")
		}
	}

	return comments, totalCount, nil
}

func (repository *PostgresRepository) CountReplies(ctx context.Context, id string) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`,
		schema.BlogComment.Table, schema.BlogComment.ParentID)

	count := 0
	if err := repository.db.QueryRow(ctx, query, id).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "count_replies")
	}
	return count, nil
}

func (repository *PostgresRepository) Update(ctx context.Context, id string, fields UpdateFields) error {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf("UPDATE %s SET %s = NOW()",
		schema.BlogComment.Table, schema.BlogComment.UpdatedAt))

	if fields.Content != nil {
		queryBuilder.WriteString(fmt.Sprintf(", %s = $%d", schema.BlogComment.Content, argID))
		args = append(args, *fields.Content)
		argID++
	}

	if fields.Status != nil {
		queryBuilder.WriteString(fmt.Sprintf(", %s = $%d", schema.BlogComment.Status, argID))
		args = append(args, *fields.Status)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" WHERE %s = $%d", schema.BlogComment.ID, argID))
	args = append(args, id)

	result, err := repository.db.Exec(ctx, queryBuilder.String(), args...)
	if err != nil {
		return dberr.Wrap(err, "update_comment")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("comment")
	}
	return nil
}

func (repository *PostgresRepository) SetStatus(ctx context.Context, id string, status Status) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = NOW() WHERE %s = $2`,
		schema.BlogComment.Table, schema.BlogComment.Status,
		schema.BlogComment.UpdatedAt, schema.BlogComment.ID)

	result, err := repository.db.Exec(ctx, query, status, id)
	if err != nil {
		return dberr.Wrap(err, "set_comment_status")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("comment")
	}
	return nil
}

// Tombstone rewrites content and status in one statement so readers never
// observe a half-deleted comment.
func (repository *PostgresRepository) Tombstone(ctx context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = $2, %s = NOW() WHERE %s = $3`,
		schema.BlogComment.Table, schema.BlogComment.Content,
		schema.BlogComment.Status, schema.BlogComment.UpdatedAt,
		schema.BlogComment.ID)

	result, err := repository.db.Exec(ctx, query, TombstoneContent, StatusRejected, id)
	if err != nil {
		return dberr.Wrap(err, "tombstone_comment")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("comment")
	}
	return nil
}

func (repository *PostgresRepository) HardDelete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.BlogComment.Table, schema.BlogComment.ID)

	result, err := repository.db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "hard_delete_comment")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("comment")
	}
	return nil
}
