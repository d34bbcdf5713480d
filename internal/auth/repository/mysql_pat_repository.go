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

// MySQLPATRepository implements PersonalAccessToken persistence for MySQL.
// UUIDs are stored as CHAR(36) strings.
type MySQLPATRepository struct {
	db *sql.DB
}

// Create inserts a new PersonalAccessToken into the MySQL database.
func (m *MySQLPATRepository) Create(ctx context.Context, pat *authDomain.PersonalAccessToken) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO pats (id, uid, token_hash, expires_at, revoked_at, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		pat.ID.String(),
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
func (m *MySQLPATRepository) Get(ctx context.Context, id uuid.UUID) (*authDomain.PersonalAccessToken, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, uid, token_hash, expires_at, revoked_at, created_at
			  FROM pats WHERE id = ?`

	return scanMySQLPAT(querier.QueryRowContext(ctx, query, id.String()))
}

// GetByTokenHash retrieves a PersonalAccessToken by owner uid and token hash.
func (m *MySQLPATRepository) GetByTokenHash(
	ctx context.Context,
	uid, tokenHash string,
) (*authDomain.PersonalAccessToken, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, uid, token_hash, expires_at, revoked_at, created_at
			  FROM pats WHERE uid = ? AND token_hash = ?`

	return scanMySQLPAT(querier.QueryRowContext(ctx, query, uid, tokenHash))
}

// ListByUID lists all tokens owned by the given uid, newest first.
func (m *MySQLPATRepository) ListByUID(
	ctx context.Context,
	uid string,
) ([]*authDomain.PersonalAccessToken, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, uid, token_hash, expires_at, revoked_at, created_at
			  FROM pats WHERE uid = ? ORDER BY created_at DESC`

	rows, err := querier.QueryContext(ctx, query, uid)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list personal access tokens")
	}
	defer rows.Close()

	var pats []*authDomain.PersonalAccessToken
	for rows.Next() {
		pat, err := scanMySQLPATRow(rows)
		if err != nil {
			return nil, err
		}
		pats = append(pats, pat)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate personal access tokens")
	}

	return pats, nil
}

// Revoke marks the token revoked at the given time.
func (m *MySQLPATRepository) Revoke(ctx context.Context, id uuid.UUID, revokedAt time.Time) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE pats SET revoked_at = ? WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, revokedAt, id.String())
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

func scanMySQLPAT(row rowScanner) (*authDomain.PersonalAccessToken, error) {
	pat, err := scanMySQLPATRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrPATNotFound
		}
		return nil, err
	}
	return pat, nil
}

func scanMySQLPATRow(row rowScanner) (*authDomain.PersonalAccessToken, error) {
	var pat authDomain.PersonalAccessToken
	var idStr string
	err := row.Scan(
		&idStr,
		&pat.UID,
		&pat.TokenHash,
		&pat.ExpiresAt,
		&pat.RevokedAt,
		&pat.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, apperrors.Wrap(err, "failed to scan personal access token")
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse personal access token id")
	}
	pat.ID = id
	return &pat, nil
}

// NewMySQLPATRepository creates a new MySQL PersonalAccessToken repository.
func NewMySQLPATRepository(db *sql.DB) *MySQLPATRepository {
	return &MySQLPATRepository{db: db}
}
