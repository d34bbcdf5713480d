package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	committeeDomain "github.com/openfoundry/releases/internal/committee/domain"
	"github.com/openfoundry/releases/internal/database"
	apperrors "github.com/openfoundry/releases/internal/errors"
)

// MySQLCommitteeRepository implements committee persistence for MySQL.
// UUIDs are stored as CHAR(36) strings.
type MySQLCommitteeRepository struct {
	db *sql.DB
}

// NewMySQLCommitteeRepository creates a new MySQL committee repository.
func NewMySQLCommitteeRepository(db *sql.DB) *MySQLCommitteeRepository {
	return &MySQLCommitteeRepository{db: db}
}

// Create inserts a new committee.
func (m *MySQLCommitteeRepository) Create(
	ctx context.Context,
	committee *committeeDomain.Committee,
) error {
	query := `INSERT INTO committees (id, name, display_name, created_at)
			  VALUES (?, ?, ?, ?)`

	querier := database.GetTx(ctx, m.db)
	_, err := querier.ExecContext(ctx, query,
		committee.ID.String(),
		committee.Name,
		committee.DisplayName,
		committee.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to insert committee")
	}

	return nil
}

// GetByName retrieves a committee by its unique name.
func (m *MySQLCommitteeRepository) GetByName(
	ctx context.Context,
	name string,
) (*committeeDomain.Committee, error) {
	query := `SELECT id, name, display_name, created_at
			  FROM committees WHERE name = ?`

	querier := database.GetTx(ctx, m.db)
	return scanMySQLCommittee(querier.QueryRowContext(ctx, query, name))
}

// List returns all committees ordered by name.
func (m *MySQLCommitteeRepository) List(
	ctx context.Context,
) ([]*committeeDomain.Committee, error) {
	query := `SELECT id, name, display_name, created_at
			  FROM committees ORDER BY name`

	querier := database.GetTx(ctx, m.db)
	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list committees")
	}
	defer func() { _ = rows.Close() }()

	var committees []*committeeDomain.Committee
	for rows.Next() {
		committee, err := scanMySQLCommittee(rows)
		if err != nil {
			return nil, err
		}
		committees = append(committees, committee)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate committees")
	}

	return committees, nil
}

// AddMember records an account's role within a committee. MySQL's upsert
// reports zero affected rows when the stored role is unchanged, so the
// committee is resolved first to tell that case apart from a missing one.
func (m *MySQLCommitteeRepository) AddMember(
	ctx context.Context,
	committeeName, uid string,
	role committeeDomain.Role,
) error {
	committee, err := m.GetByName(ctx, committeeName)
	if err != nil {
		return err
	}

	query := `INSERT INTO committee_members (committee_id, uid, role, created_at)
			  VALUES (?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE role = VALUES(role)`

	querier := database.GetTx(ctx, m.db)
	_, err = querier.ExecContext(ctx, query,
		committee.ID.String(), uid, string(role), time.Now().UTC())
	if err != nil {
		return apperrors.Wrap(err, "failed to add committee member")
	}

	return nil
}

// RemoveMember deletes an account's membership record.
func (m *MySQLCommitteeRepository) RemoveMember(
	ctx context.Context,
	committeeName, uid string,
) error {
	query := `DELETE FROM committee_members
			  WHERE uid = ?
			  AND committee_id = (SELECT id FROM committees WHERE name = ?)`

	querier := database.GetTx(ctx, m.db)
	result, err := querier.ExecContext(ctx, query, uid, committeeName)
	if err != nil {
		return apperrors.Wrap(err, "failed to remove committee member")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return committeeDomain.ErrMemberNotFound
	}

	return nil
}

// AddFoundationCommitter records an account as a committer within the
// foundation. Idempotent.
func (m *MySQLCommitteeRepository) AddFoundationCommitter(ctx context.Context, uid string) error {
	query := `INSERT IGNORE INTO foundation_committers (uid, created_at)
			  VALUES (?, ?)`

	querier := database.GetTx(ctx, m.db)
	if _, err := querier.ExecContext(ctx, query, uid, time.Now().UTC()); err != nil {
		return apperrors.Wrap(err, "failed to add foundation committer")
	}

	return nil
}

// IsFoundationCommitter reports whether the account is a committer on any
// foundation project.
func (m *MySQLCommitteeRepository) IsFoundationCommitter(
	ctx context.Context,
	uid string,
) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM foundation_committers WHERE uid = ?)`

	querier := database.GetTx(ctx, m.db)
	var exists bool
	if err := querier.QueryRowContext(ctx, query, uid).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check foundation committer")
	}

	return exists, nil
}

// IsParticipant reports whether the account holds any role within the
// named committee.
func (m *MySQLCommitteeRepository) IsParticipant(
	ctx context.Context,
	committeeName, uid string,
) (bool, error) {
	query := `SELECT EXISTS (
				SELECT 1 FROM committee_members cm
				JOIN committees c ON c.id = cm.committee_id
				WHERE c.name = ? AND cm.uid = ?
			  )`

	querier := database.GetTx(ctx, m.db)
	var exists bool
	if err := querier.QueryRowContext(ctx, query, committeeName, uid).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check committee participant")
	}

	return exists, nil
}

// IsMember reports whether the account is a full member of the named committee.
func (m *MySQLCommitteeRepository) IsMember(
	ctx context.Context,
	committeeName, uid string,
) (bool, error) {
	query := `SELECT EXISTS (
				SELECT 1 FROM committee_members cm
				JOIN committees c ON c.id = cm.committee_id
				WHERE c.name = ? AND cm.uid = ? AND cm.role = ?
			  )`

	querier := database.GetTx(ctx, m.db)
	var exists bool
	err := querier.QueryRowContext(ctx, query, committeeName, uid, string(committeeDomain.RoleMember)).
		Scan(&exists)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to check committee member")
	}

	return exists, nil
}

// scanMySQLCommittee scans a committee row, parsing the CHAR(36) id.
func scanMySQLCommittee(row interface{ Scan(dest ...any) error }) (*committeeDomain.Committee, error) {
	var idStr string
	committee := &committeeDomain.Committee{}

	err := row.Scan(&idStr, &committee.Name, &committee.DisplayName, &committee.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, committeeDomain.ErrCommitteeNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to scan committee")
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse committee id")
	}
	committee.ID = id

	return committee, nil
}
