// Package repository provides persistence for personal access tokens.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/openfoundry/releases/internal/auth/domain"
	"github.com/openfoundry/releases/internal/database"
	apperrors "github.com/openfoundry/releases/internal/errors"
)

// PostgreSQLPATRepository implements PersonalAccessToken persistence for
// PostgreSQL. Uses native UUID types with transaction support via
// database.GetTx().
type PostgreSQLPATRepository struct {
	db *sql.DB
}

// Create inserts a new PersonalAccessToken into the PostgreSQL database.
// Only the token hash is persisted, never the plaintext.
func (p *PostgreSQLPATRepository) Create(ctx context.Context, pat *authDomain.PersonalAccessToken) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO pats (id, uid, token_hash, expires_at, revoked_at, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		pat.ID,
		pat.UID,
		pat.TokenHash,
		pat.ExpiresAt,
		pat.RevokedAt,
		pat.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create personal access token")
	}
	return nil
}

// Get retrieves a PersonalAccessToken by ID. Returns ErrPATNotFound if no
// such token exists.
func (p *PostgreSQLPATRepository) Get(ctx context.Context, id uuid.UUID) (*authDomain.PersonalAccessToken, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, uid, token_hash, expires_at, revoked_at, created_at
			  FROM pats WHERE id = $1`

	return scanPAT(querier.QueryRowContext(ctx, query, id))
}

// GetByTokenHash retrieves a PersonalAccessToken by owner uid and token
// hash. Returns ErrPATNotFound if no such token exists for that scope.
func (p *PostgreSQLPATRepository) GetByTokenHash(
	ctx context.Context,
	uid, tokenHash string,
) (*authDomain.PersonalAccessToken, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, uid, token_hash, expires_at, revoked_at, created_at
			  FROM pats WHERE uid = $1 AND token_hash = $2`

	return scanPAT(querier.QueryRowContext(ctx, query, uid, tokenHash))
}

// ListByUID lists all tokens owned by the given uid, newest first.
func (p *PostgreSQLPATRepository) ListByUID(
	ctx context.Context,
	uid string,
) ([]*authDomain.PersonalAccessToken, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, uid, token_hash, expires_at, revoked_at, created_at
			  FROM pats WHERE uid = $1 ORDER BY created_at DESC`

	rows, err := querier.QueryContext(ctx, query, uid)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list personal access tokens")
	}
	defer rows.Close()

	var pats []*authDomain.PersonalAccessToken
	for rows.Next() {
		var pat authDomain.PersonalAccessToken
		if err := rows.Scan(
			&pat.ID,
			&pat.UID,
			&pat.TokenHash,
			&pat.ExpiresAt,
			&pat.RevokedAt,
			&pat.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan personal access token")
		}
		pats = append(pats, &pat)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate personal access tokens")
	}

	return pats, nil
}

// Revoke marks the token revoked at the given time.
func (p *PostgreSQLPATRepository) Revoke(ctx context.Context, id uuid.UUID, revokedAt time.Time) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE pats SET revoked_at = $1 WHERE id = $2`

	result, err := querier.ExecContext(ctx, query, revokedAt, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to revoke personal access token")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to check revocation result")
	}
	if affected == 0 {
		return authDomain.ErrPATNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPAT(row rowScanner) (*authDomain.PersonalAccessToken, error) {
	var pat authDomain.PersonalAccessToken
	err := row.Scan(
		&pat.ID,
		&pat.UID,
		&pat.TokenHash,
		&pat.ExpiresAt,
		&pat.RevokedAt,
		&pat.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrPATNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get personal access token")
	}
	return &pat, nil
}

// NewPostgreSQLPATRepository creates a new PostgreSQL PersonalAccessToken repository.
func NewPostgreSQLPATRepository(db *sql.DB) *PostgreSQLPATRepository {
	return &PostgreSQLPATRepository{db: db}
}
