package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/openfoundry/releases/internal/database"
	apperrors "github.com/openfoundry/releases/internal/errors"
	keysDomain "github.com/openfoundry/releases/internal/keys/domain"
)

// MySQLKeyRepository implements key registry persistence for MySQL.
type MySQLKeyRepository struct {
	db *sql.DB
}

// NewMySQLKeyRepository creates a new MySQL key repository.
func NewMySQLKeyRepository(db *sql.DB) *MySQLKeyRepository {
	return &MySQLKeyRepository{db: db}
}

// EnsureStored inserts the key if its fingerprint is new and returns the
// stored record either way.
func (m *MySQLKeyRepository) EnsureStored(
	ctx context.Context,
	key *keysDomain.PublicSigningKey,
) (*keysDomain.PublicSigningKey, bool, error) {
	query := `INSERT IGNORE INTO public_signing_keys
			  (fingerprint, algorithm, length, primary_identity, ascii_armored,
			   apache_uid, key_created_at, key_expires_at, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	querier := database.GetTx(ctx, m.db)
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

	existing, err := m.Get(ctx, key.Fingerprint)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// Get retrieves a key by fingerprint.
func (m *MySQLKeyRepository) Get(
	ctx context.Context,
	fingerprint string,
) (*keysDomain.PublicSigningKey, error) {
	query := `SELECT fingerprint, algorithm, length, primary_identity, ascii_armored,
			  apache_uid, key_created_at, key_expires_at, created_at
			  FROM public_signing_keys WHERE fingerprint = ?`

	querier := database.GetTx(ctx, m.db)
	return scanKey(querier.QueryRowContext(ctx, query, fingerprint))
}

// ListByCommittee returns keys linked to a committee, paginated and ordered
// by fingerprint.
func (m *MySQLKeyRepository) ListByCommittee(
	ctx context.Context,
	committeeName string,
	offset, limit int,
) ([]*keysDomain.PublicSigningKey, error) {
	query := `SELECT k.fingerprint, k.algorithm, k.length, k.primary_identity, k.ascii_armored,
			  k.apache_uid, k.key_created_at, k.key_expires_at, k.created_at
			  FROM public_signing_keys k
			  JOIN committee_keys ck ON ck.fingerprint = k.fingerprint
			  JOIN committees c ON c.id = ck.committee_id
			  WHERE c.name = ?
			  ORDER BY k.fingerprint
			  LIMIT ? OFFSET ?`

	querier := database.GetTx(ctx, m.db)
	rows, err := querier.QueryContext(ctx, query, committeeName, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list committee keys")
	}
	defer func() { _ = rows.Close() }()

	return collectKeys(rows)
}

// ListLinked returns every key linked to a committee, ordered by fingerprint.
func (m *MySQLKeyRepository) ListLinked(
	ctx context.Context,
	committeeName string,
) ([]*keysDomain.PublicSigningKey, error) {
	query := `SELECT k.fingerprint, k.algorithm, k.length, k.primary_identity, k.ascii_armored,
			  k.apache_uid, k.key_created_at, k.key_expires_at, k.created_at
			  FROM public_signing_keys k
			  JOIN committee_keys ck ON ck.fingerprint = k.fingerprint
			  JOIN committees c ON c.id = ck.committee_id
			  WHERE c.name = ?
			  ORDER BY k.fingerprint`

	querier := database.GetTx(ctx, m.db)
	rows, err := querier.QueryContext(ctx, query, committeeName)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list linked keys")
	}
	defer func() { _ = rows.Close() }()

	return collectKeys(rows)
}

// Link associates a key with a committee. Repeated links are left untouched.
func (m *MySQLKeyRepository) Link(
	ctx context.Context,
	committeeName, fingerprint string,
) (*keysDomain.KeyLink, bool, error) {
	query := `INSERT IGNORE INTO committee_keys (committee_id, fingerprint, created_at)
			  SELECT id, ?, ? FROM committees WHERE name = ?`

	now := time.Now().UTC()
	querier := database.GetTx(ctx, m.db)
	result, err := querier.ExecContext(ctx, query, fingerprint, now, committeeName)
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
func (m *MySQLKeyRepository) Unlink(
	ctx context.Context,
	committeeName, fingerprint string,
) error {
	query := `DELETE FROM committee_keys
			  WHERE fingerprint = ?
			  AND committee_id = (SELECT id FROM committees WHERE name = ?)`

	querier := database.GetTx(ctx, m.db)
	result, err := querier.ExecContext(ctx, query, fingerprint, committeeName)
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

// UnlinkAll removes every key association for a committee.
func (m *MySQLKeyRepository) UnlinkAll(
	ctx context.Context,
	committeeName string,
) (int64, error) {
	query := `DELETE FROM committee_keys
			  WHERE committee_id = (SELECT id FROM committees WHERE name = ?)`

	querier := database.GetTx(ctx, m.db)
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

// DeleteOrphans deletes keys no longer linked to any committee.
func (m *MySQLKeyRepository) DeleteOrphans(ctx context.Context) (int64, error) {
	query := `DELETE FROM public_signing_keys
			  WHERE fingerprint NOT IN (SELECT fingerprint FROM committee_keys)`

	querier := database.GetTx(ctx, m.db)
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
