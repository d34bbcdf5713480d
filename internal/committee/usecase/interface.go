package usecase

import (
	"context"

	committeeDomain "github.com/openfoundry/releases/internal/committee/domain"
)

// CommitteeRepository defines persistence operations for committees and
// membership records. The membership predicates answer against the current
// transaction when one is carried in the context, so privilege derivation
// sees the same snapshot as the rest of a storage session.
type CommitteeRepository interface {
	// Create inserts a new committee.
	Create(ctx context.Context, committee *committeeDomain.Committee) error

	// GetByName retrieves a committee by its unique name.
	GetByName(ctx context.Context, name string) (*committeeDomain.Committee, error)

	// List returns all committees ordered by name.
	List(ctx context.Context) ([]*committeeDomain.Committee, error)

	// AddMember records an account's role within a committee.
	AddMember(ctx context.Context, committeeName, uid string, role committeeDomain.Role) error

	// RemoveMember deletes an account's membership record.
	RemoveMember(ctx context.Context, committeeName, uid string) error

	// AddFoundationCommitter records an account as a committer somewhere
	// within the foundation.
	AddFoundationCommitter(ctx context.Context, uid string) error

	// IsFoundationCommitter reports whether the account is a committer on
	// any foundation project.
	IsFoundationCommitter(ctx context.Context, uid string) (bool, error)

	// IsParticipant reports whether the account holds any role within the
	// named committee. Full members participate as well.
	IsParticipant(ctx context.Context, committeeName, uid string) (bool, error)

	// IsMember reports whether the account is a full member of the named
	// committee.
	IsMember(ctx context.Context, committeeName, uid string) (bool, error)
}

// CommitteeUseCase orchestrates committee administration.
type CommitteeUseCase interface {
	Create(ctx context.Context, name, displayName string) (*committeeDomain.Committee, error)
	GetByName(ctx context.Context, name string) (*committeeDomain.Committee, error)
	List(ctx context.Context) ([]*committeeDomain.Committee, error)
	AddMember(ctx context.Context, committeeName, uid string, role committeeDomain.Role) error
	RemoveMember(ctx context.Context, committeeName, uid string) error
}
