// Package repository provides PostgreSQL and MySQL implementations for the
// public signing key registry.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/openfoundry/releases/internal/database"
	apperrors "github.com/openfoundry/releases/internal/errors"
	keysDomain "github.com/openfoundry/releases/internal/keys/domain"
)

// PostgreSQLKeyRepository implements key registry persistence for PostgreSQL.
type PostgreSQLKeyRepository struct {
	db *sql.DB
}

// NewPostgreSQLKeyRepository creates a new PostgreSQL key repository.
func NewPostgreSQLKeyRepository(db *sql.DB) *PostgreSQLKeyRepository {
	return &PostgreSQLKeyRepository{db: db}
}

const pgKeyColumns = `fingerprint, algorithm, length, primary_identity, ascii_armored,
			  apache_uid, key_created_at, key_expires_at, created_at`

// EnsureStored inserts the key if its fingerprint is new and returns the
// stored record either way. The boolean reports whether a row was created.
func (p *PostgreSQLKeyRepository) EnsureStored(
	ctx context.Context,
	key *keysDomain.PublicSigningKey,
) (*keysDomain.PublicSigningKey, bool, error) {
	query := `INSERT INTO public_signing_keys
			  (fingerprint, algorithm, length, primary_identity, ascii_armored,
			   apache_uid, key_created_at, key_expires_at, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  ON CONFLICT (fingerprint) DO NOTHING`

	querier := database.GetTx(ctx, p.db)
	result, err := querier.ExecContext(ctx, query,
		key.Fingerprint,
		key.Algorithm,
		key.Length,
		key.PrimaryIdentity,
		key.ASCIIArmored,
		key.ApacheUID,
		key.KeyCreatedAt,
		key.KeyExpiresAt,
		key.CreatedAt,
	)
	if err != nil {
		return nil, false, apperrors.Wrap(err, "failed to store public signing key")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, false, apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected > 0 {
		return key, true, nil
	}

	existing, err := p.Get(ctx, key.Fingerprint)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// Get retrieves a key by fingerprint.
func (p *PostgreSQLKeyRepository) Get(
	ctx context.Context,
	fingerprint string,
) (*keysDomain.PublicSigningKey, error) {
	query := `SELECT ` + pgKeyColumns + `
			  FROM public_signing_keys WHERE fingerprint = $1`

	querier := database.GetTx(ctx, p.db)
	return scanKey(querier.QueryRowContext(ctx, query, fingerprint))
}

// ListByCommittee returns keys linked to a committee, paginated and ordered
// by fingerprint.
func (p *PostgreSQLKeyRepository) ListByCommittee(
	ctx context.Context,
	committeeName string,
	offset, limit int,
) ([]*keysDomain.PublicSigningKey, error) {
	query := `SELECT k.fingerprint, k.algorithm, k.length, k.primary_identity, k.ascii_armored,
			  k.apache_uid, k.key_created_at, k.key_expires_at, k.created_at
			  FROM public_signing_keys k
			  JOIN committee_keys ck ON ck.fingerprint = k.fingerprint
			  JOIN committees c ON c.id = ck.committee_id
			  WHERE c.name = $1
			  ORDER BY k.fingerprint
			  OFFSET $2 LIMIT $3`

	querier := database.GetTx(ctx, p.db)
	rows, err := querier.QueryContext(ctx, query, committeeName, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list committee keys")
	}
	defer func() { _ = rows.Close() }()

	return collectKeys(rows)
}

// ListLinked returns every key linked to a committee, ordered by fingerprint.
// Used when regenerating the KEYS artifact.
func (p *PostgreSQLKeyRepository) ListLinked(
	ctx context.Context,
	committeeName string,
) ([]*keysDomain.PublicSigningKey, error) {
	query := `SELECT k.fingerprint, k.algorithm, k.length, k.primary_identity, k.ascii_armored,
			  k.apache_uid, k.key_created_at, k.key_expires_at, k.created_at
			  FROM public_signing_keys k
			  JOIN committee_keys ck ON ck.fingerprint = k.fingerprint
			  JOIN committees c ON c.id = ck.committee_id
			  WHERE c.name = $1
			  ORDER BY k.fingerprint`

	querier := database.GetTx(ctx, p.db)
	rows, err := querier.QueryContext(ctx, query, committeeName)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list linked keys")
	}
	defer func() { _ = rows.Close() }()

	return collectKeys(rows)
}

// Link associates a key with a committee. The boolean reports whether the
// association was newly created; repeated links are left untouched.
func (p *PostgreSQLKeyRepository) Link(
	ctx context.Context,
	committeeName, fingerprint string,
) (*keysDomain.KeyLink, bool, error) {
	query := `INSERT INTO committee_keys (committee_id, fingerprint, created_at)
			  SELECT id, $2, $3 FROM committees WHERE name = $1
			  ON CONFLICT (committee_id, fingerprint) DO NOTHING`

	now := time.Now().UTC()
	querier := database.GetTx(ctx, p.db)
	result, err := querier.ExecContext(ctx, query, committeeName, fingerprint, now)
	if err != nil {
		return nil, false, apperrors.Wrap(err, "failed to link key")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, false, apperrors.Wrap(err, "failed to get rows affected")
	}

	link := &keysDomain.KeyLink{
		CommitteeName: committeeName,
		Fingerprint:   fingerprint,
		CreatedAt:     now,
	}
	return link, rowsAffected > 0, nil
}

// Unlink removes a key's association with a committee.
func (p *PostgreSQLKeyRepository) Unlink(
	ctx context.Context,
	committeeName, fingerprint string,
) error {
	query := `DELETE FROM committee_keys
			  WHERE fingerprint = $2
			  AND committee_id = (SELECT id FROM committees WHERE name = $1)`

	querier := database.GetTx(ctx, p.db)
	result, err := querier.ExecContext(ctx, query, committeeName, fingerprint)
	if err != nil {
		return apperrors.Wrap(err, "failed to unlink key")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return keysDomain.ErrLinkNotFound
	}

	return nil
}

// UnlinkAll removes every key association for a committee and returns the
// number of links removed.
func (p *PostgreSQLKeyRepository) UnlinkAll(
	ctx context.Context,
	committeeName string,
) (int64, error) {
	query := `DELETE FROM committee_keys
			  WHERE committee_id = (SELECT id FROM committees WHERE name = $1)`

	querier := database.GetTx(ctx, p.db)
	result, err := querier.ExecContext(ctx, query, committeeName)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to unlink committee keys")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get rows affected")
	}

	return rowsAffected, nil
}

// DeleteOrphans deletes keys no longer linked to any committee and returns
// the number of key records removed.
func (p *PostgreSQLKeyRepository) DeleteOrphans(ctx context.Context) (int64, error) {
	query := `DELETE FROM public_signing_keys
			  WHERE fingerprint NOT IN (SELECT fingerprint FROM committee_keys)`

	querier := database.GetTx(ctx, p.db)
	result, err := querier.ExecContext(ctx, query)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete orphaned keys")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get rows affected")
	}

	return rowsAffected, nil
}

// rowScanner abstracts sql.Row and sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanKey(row rowScanner) (*keysDomain.PublicSigningKey, error) {
	key := &keysDomain.PublicSigningKey{}
	err := row.Scan(
		&key.Fingerprint,
		&key.Algorithm,
		&key.Length,
		&key.PrimaryIdentity,
		&key.ASCIIArmored,
		&key.ApacheUID,
		&key.KeyCreatedAt,
		&key.KeyExpiresAt,
		&key.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, keysDomain.ErrKeyNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to scan public signing key")
	}
	return key, nil
}

func collectKeys(rows *sql.Rows) ([]*keysDomain.PublicSigningKey, error) {
	var keys []*keysDomain.PublicSigningKey
	for rows.Next() {
		key, err := scanKey(rows)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate keys")
	}
	return keys, nil
}
