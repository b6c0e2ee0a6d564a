// Copyright (c) 2026 Inkwell. All rights reserved.

package user

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/datpham-dev/inkwell/internal/platform/database/schema"
	"github.com/datpham-dev/inkwell/internal/platform/dberr"
	"github.com/datpham-dev/inkwell/internal/platform/sec"
)

// PostgresRepository implements Repository on top of users.account.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// profileColumns is the column list shared by every profile lookup. Nullable
// text columns are collapsed to empty strings at the edge.
var profileColumns = fmt.Sprintf(
	"%s, %s, %s, COALESCE(%s, ''), COALESCE(%s, ''), COALESCE(%s, ''), COALESCE(%s, ''), COALESCE(%s, ''), COALESCE(%s, ''), COALESCE(%s, ''), %s, %s, %s",
	schema.UserAccount.ID,
	schema.UserAccount.Username,
	schema.UserAccount.Email,
	schema.UserAccount.DisplayName,
	schema.UserAccount.AvatarURL,
	schema.UserAccount.Bio,
	schema.UserAccount.Website,
	schema.UserAccount.Twitter,
	schema.UserAccount.GitHub,
	schema.UserAccount.LinkedIn,
	schema.UserAccount.Role,
	schema.UserAccount.CreatedAt,
	schema.UserAccount.UpdatedAt,
)

func scanProfile(row interface{ Scan(...any) error }, extra ...any) (*Profile, error) {
	profile := &Profile{}
	targets := append(extra,
		&profile.ID, &profile.Username, &profile.Email,
		&profile.DisplayName, &profile.AvatarURL, &profile.Bio,
		&profile.Website, &profile.Twitter, &profile.GitHub, &profile.LinkedIn,
		&profile.Role, &profile.CreatedAt, &profile.UpdatedAt,
	)
	if err := row.Scan(targets...); err != nil {
		return nil, err
	}
	return profile, nil
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Profile, error) {
	return repository.findByColumn(ctx, schema.UserAccount.ID, id)
}

func (repository *PostgresRepository) FindByUsername(ctx context.Context, username string) (*Profile, error) {
	return repository.findByColumn(ctx, schema.UserAccount.Username, username)
}

func (repository *PostgresRepository) findByColumn(ctx context.Context, column, value string) (*Profile, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = $1 AND %s IS NULL
	`,
		profileColumns, schema.UserAccount.Table,
		column, schema.UserAccount.DeletedAt,
	)

	profile, err := scanProfile(repository.db.QueryRow(ctx, query, value))
	if err != nil {
		return nil, dberr.Wrap(err, "find_profile")
	}
	return profile, nil
}

func (repository *PostgresRepository) List(ctx context.Context, take, skip int) ([]*Profile, int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*) OVER() AS total_count, %s
		FROM %s
		WHERE %s IS NULL
		ORDER BY %s DESC
		LIMIT $1 OFFSET $2
	`,
		profileColumns, schema.UserAccount.Table,
		schema.UserAccount.DeletedAt,
		schema.UserAccount.CreatedAt,
	)

	rows, err := repository.db.Query(ctx, query, take, skip)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_profiles")
	}
	defer rows.Close()

	profiles := make([]*Profile, 0)
	totalCount := 0
	for rows.Next() {
		profile, err := scanProfile(rows, &totalCount)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_profile")
		}
		profiles = append(profiles, profile)
	}

	return profiles, totalCount, nil
}

func (repository *PostgresRepository) Update(ctx context.Context, profile *Profile) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = NOW()
		WHERE %s = $8 AND %s IS NULL
	`,
		schema.UserAccount.Table,
		schema.UserAccount.DisplayName, schema.UserAccount.AvatarURL, schema.UserAccount.Bio,
		schema.UserAccount.Website, schema.UserAccount.Twitter, schema.UserAccount.GitHub,
		schema.UserAccount.LinkedIn, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID, schema.UserAccount.DeletedAt,
	)

	result, err := repository.db.Exec(ctx, query,
		profile.DisplayName, profile.AvatarURL, profile.Bio,
		profile.Website, profile.Twitter, profile.GitHub, profile.LinkedIn,
		profile.ID,
	)
	if err != nil {
		return dberr.Wrap(err, "update_profile")
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) UpdateRole(ctx context.Context, userID string, role sec.UserRole) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $1, %s = NOW()
		WHERE %s = $2 AND %s IS NULL
	`,
		schema.UserAccount.Table,
		schema.UserAccount.Role, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID, schema.UserAccount.DeletedAt,
	)

	result, err := repository.db.Exec(ctx, query, role, userID)
	if err != nil {
		return dberr.Wrap(err, "update_role")
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) SoftDelete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = NOW()
		WHERE %s = $1 AND %s IS NULL
	`,
		schema.UserAccount.Table, schema.UserAccount.DeletedAt,
		schema.UserAccount.ID, schema.UserAccount.DeletedAt,
	)

	result, err := repository.db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "soft_delete_account")
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// PostgresSessionDirectory implements SessionDirectory on top of
// users.session. Every statement is owner-scoped.
type PostgresSessionDirectory struct {
	db *pgxpool.Pool
}

func NewPostgresSessionDirectory(db *pgxpool.Pool) *PostgresSessionDirectory {
	return &PostgresSessionDirectory{db: db}
}

func (directory *PostgresSessionDirectory) ListActive(ctx context.Context, userID string) ([]SessionInfo, error) {
	query := fmt.Sprintf(`
		SELECT %s, COALESCE(%s, ''), COALESCE(%s, ''), %s, %s
		FROM %s
		WHERE %s = $1 AND %s = FALSE AND %s > NOW()
		ORDER BY %s DESC
	`,
		schema.UserSession.ID, schema.UserSession.UserAgent, schema.UserSession.IPAddress,
		schema.UserSession.CreatedAt, schema.UserSession.ExpiresAt,
		schema.UserSession.Table,
		schema.UserSession.UserID, schema.UserSession.IsRevoked, schema.UserSession.ExpiresAt,
		schema.UserSession.CreatedAt,
	)

	rows, err := directory.db.Query(ctx, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_sessions")
	}
	defer rows.Close()

	sessions := make([]SessionInfo, 0)
	for rows.Next() {
		var session SessionInfo
		err := rows.Scan(
			&session.ID, &session.UserAgent, &session.IPAddress,
			&session.CreatedAt, &session.ExpiresAt,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_session")
		}
		sessions = append(sessions, session)
	}

	return sessions, nil
}

func (directory *PostgresSessionDirectory) Revoke(ctx context.Context, userID, sessionID string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = TRUE
		WHERE %s = $1 AND %s = $2
	`,
		schema.UserSession.Table, schema.UserSession.IsRevoked,
		schema.UserSession.ID, schema.UserSession.UserID,
	)

	result, err := directory.db.Exec(ctx, query, sessionID, userID)
	if err != nil {
		return dberr.Wrap(err, "revoke_session")
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (directory *PostgresSessionDirectory) RevokeAll(ctx context.Context, userID string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = TRUE
		WHERE %s = $1 AND %s = FALSE
	`,
		schema.UserSession.Table, schema.UserSession.IsRevoked,
		schema.UserSession.UserID, schema.UserSession.IsRevoked,
	)

	_, err := directory.db.Exec(ctx, query, userID)
	return dberr.Wrap(err, "revoke_all_sessions")
}
