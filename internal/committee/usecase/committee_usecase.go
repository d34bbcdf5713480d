// Package usecase implements committee administration workflows.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	committeeDomain "github.com/openfoundry/releases/internal/committee/domain"
	apperrors "github.com/openfoundry/releases/internal/errors"
)

// committeeUseCase implements CommitteeUseCase.
type committeeUseCase struct {
	committeeRepo CommitteeRepository
}

// NewCommitteeUseCase creates a new committee use case with required dependencies.
func NewCommitteeUseCase(committeeRepo CommitteeRepository) CommitteeUseCase {
	return &committeeUseCase{committeeRepo: committeeRepo}
}

// Create registers a new committee.
func (u *committeeUseCase) Create(
	ctx context.Context,
	name, displayName string,
) (*committeeDomain.Committee, error) {
	if name == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "committee name is required")
	}
	if displayName == "" {
		displayName = name
	}

	committee := &committeeDomain.Committee{
		ID:          uuid.Must(uuid.NewV7()),
		Name:        name,
		DisplayName: displayName,
		CreatedAt:   time.Now().UTC(),
	}

	if err := u.committeeRepo.Create(ctx, committee); err != nil {
		return nil, apperrors.Wrap(err, "failed to create committee")
	}

	return committee, nil
}

// GetByName retrieves a committee by name.
func (u *committeeUseCase) GetByName(
	ctx context.Context,
	name string,
) (*committeeDomain.Committee, error) {
	return u.committeeRepo.GetByName(ctx, name)
}

// List returns all committees.
func (u *committeeUseCase) List(ctx context.Context) ([]*committeeDomain.Committee, error) {
	return u.committeeRepo.List(ctx)
}

// AddMember records an account's role within a committee. Any role within
// a committee also makes the account a foundation committer, so the global
// record is kept in step.
func (u *committeeUseCase) AddMember(
	ctx context.Context,
	committeeName, uid string,
	role committeeDomain.Role,
) error {
	if !role.Valid() {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "unknown committee role")
	}

	// Committee must exist before membership can be recorded.
	if _, err := u.committeeRepo.GetByName(ctx, committeeName); err != nil {
		return err
	}

	if err := u.committeeRepo.AddMember(ctx, committeeName, uid, role); err != nil {
		return apperrors.Wrap(err, "failed to add committee member")
	}

	if err := u.committeeRepo.AddFoundationCommitter(ctx, uid); err != nil {
		return apperrors.Wrap(err, "failed to record foundation committer")
	}

	return nil
}

// RemoveMember deletes an account's membership record. The foundation
// committer record is left alone since the account may hold roles elsewhere.
func (u *committeeUseCase) RemoveMember(ctx context.Context, committeeName, uid string) error {
	return u.committeeRepo.RemoveMember(ctx, committeeName, uid)
}
