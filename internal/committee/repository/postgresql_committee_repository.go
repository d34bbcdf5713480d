// Package repository provides PostgreSQL and MySQL implementations for
// committee and membership persistence.
package repository

import (
	"context"
	"database/sql"
	"time"

	committeeDomain "github.com/openfoundry/releases/internal/committee/domain"
	"github.com/openfoundry/releases/internal/database"
	apperrors "github.com/openfoundry/releases/internal/errors"
)

// PostgreSQLCommitteeRepository implements committee persistence for PostgreSQL.
type PostgreSQLCommitteeRepository struct {
	db *sql.DB
}

// NewPostgreSQLCommitteeRepository creates a new PostgreSQL committee repository.
func NewPostgreSQLCommitteeRepository(db *sql.DB) *PostgreSQLCommitteeRepository {
	return &PostgreSQLCommitteeRepository{db: db}
}

// Create inserts a new committee.
func (p *PostgreSQLCommitteeRepository) Create(
	ctx context.Context,
	committee *committeeDomain.Committee,
) error {
	query := `INSERT INTO committees (id, name, display_name, created_at)
			  VALUES ($1, $2, $3, $4)`

	querier := database.GetTx(ctx, p.db)
	_, err := querier.ExecContext(ctx, query,
		committee.ID,
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
func (p *PostgreSQLCommitteeRepository) GetByName(
	ctx context.Context,
	name string,
) (*committeeDomain.Committee, error) {
	query := `SELECT id, name, display_name, created_at
			  FROM committees WHERE name = $1`

	querier := database.GetTx(ctx, p.db)
	row := querier.QueryRowContext(ctx, query, name)

	committee := &committeeDomain.Committee{}
	err := row.Scan(&committee.ID, &committee.Name, &committee.DisplayName, &committee.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, committeeDomain.ErrCommitteeNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get committee")
	}

	return committee, nil
}

// List returns all committees ordered by name.
func (p *PostgreSQLCommitteeRepository) List(
	ctx context.Context,
) ([]*committeeDomain.Committee, error) {
	query := `SELECT id, name, display_name, created_at
			  FROM committees ORDER BY name`

	querier := database.GetTx(ctx, p.db)
	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list committees")
	}
	defer func() { _ = rows.Close() }()

	var committees []*committeeDomain.Committee
	for rows.Next() {
		committee := &committeeDomain.Committee{}
		err := rows.Scan(&committee.ID, &committee.Name, &committee.DisplayName, &committee.CreatedAt)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan committee")
		}
		committees = append(committees, committee)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate committees")
	}

	return committees, nil
}

// AddMember records an account's role within a committee. Repeated calls
// update the stored role.
func (p *PostgreSQLCommitteeRepository) AddMember(
	ctx context.Context,
	committeeName, uid string,
	role committeeDomain.Role,
) error {
	query := `INSERT INTO committee_members (committee_id, uid, role, created_at)
			  SELECT id, $2, $3, $4 FROM committees WHERE name = $1
			  ON CONFLICT (committee_id, uid) DO UPDATE SET role = EXCLUDED.role`

	querier := database.GetTx(ctx, p.db)
	result, err := querier.ExecContext(ctx, query, committeeName, uid, string(role), time.Now().UTC())
	if err != nil {
		return apperrors.Wrap(err, "failed to add committee member")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return committeeDomain.ErrCommitteeNotFound
	}

	return nil
}

// RemoveMember deletes an account's membership record.
func (p *PostgreSQLCommitteeRepository) RemoveMember(
	ctx context.Context,
	committeeName, uid string,
) error {
	query := `DELETE FROM committee_members
			  WHERE uid = $2
			  AND committee_id = (SELECT id FROM committees WHERE name = $1)`

	querier := database.GetTx(ctx, p.db)
	result, err := querier.ExecContext(ctx, query, committeeName, uid)
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
func (p *PostgreSQLCommitteeRepository) AddFoundationCommitter(ctx context.Context, uid string) error {
	query := `INSERT INTO foundation_committers (uid, created_at)
			  VALUES ($1, $2)
			  ON CONFLICT (uid) DO NOTHING`

	querier := database.GetTx(ctx, p.db)
	if _, err := querier.ExecContext(ctx, query, uid, time.Now().UTC()); err != nil {
		return apperrors.Wrap(err, "failed to add foundation committer")
	}

	return nil
}

// IsFoundationCommitter reports whether the account is a committer on any
// foundation project.
func (p *PostgreSQLCommitteeRepository) IsFoundationCommitter(
	ctx context.Context,
	uid string,
) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM foundation_committers WHERE uid = $1)`

	querier := database.GetTx(ctx, p.db)
	var exists bool
	if err := querier.QueryRowContext(ctx, query, uid).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check foundation committer")
	}

	return exists, nil
}

// IsParticipant reports whether the account holds any role within the
// named committee.
func (p *PostgreSQLCommitteeRepository) IsParticipant(
	ctx context.Context,
	committeeName, uid string,
) (bool, error) {
	query := `SELECT EXISTS (
				SELECT 1 FROM committee_members cm
				JOIN committees c ON c.id = cm.committee_id
				WHERE c.name = $1 AND cm.uid = $2
			  )`

	querier := database.GetTx(ctx, p.db)
	var exists bool
	if err := querier.QueryRowContext(ctx, query, committeeName, uid).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check committee participant")
	}

	return exists, nil
}

// IsMember reports whether the account is a full member of the named committee.
func (p *PostgreSQLCommitteeRepository) IsMember(
	ctx context.Context,
	committeeName, uid string,
) (bool, error) {
	query := `SELECT EXISTS (
				SELECT 1 FROM committee_members cm
				JOIN committees c ON c.id = cm.committee_id
				WHERE c.name = $1 AND cm.uid = $2 AND cm.role = $3
			  )`

	querier := database.GetTx(ctx, p.db)
	var exists bool
	err := querier.QueryRowContext(ctx, query, committeeName, uid, string(committeeDomain.RoleMember)).
		Scan(&exists)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to check committee member")
	}

	return exists, nil
}
