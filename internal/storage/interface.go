package storage

import (
	"context"

	committeeDomain "github.com/openfoundry/releases/internal/committee/domain"
	keysDomain "github.com/openfoundry/releases/internal/keys/domain"
)

// KeyRepository defines the registry persistence operations a session
// needs. Satisfied by the repositories in internal/keys/repository.
type KeyRepository interface {
	EnsureStored(ctx context.Context, key *keysDomain.PublicSigningKey) (*keysDomain.PublicSigningKey, bool, error)
	Get(ctx context.Context, fingerprint string) (*keysDomain.PublicSigningKey, error)
	ListByCommittee(ctx context.Context, committeeName string, offset, limit int) ([]*keysDomain.PublicSigningKey, error)
	ListLinked(ctx context.Context, committeeName string) ([]*keysDomain.PublicSigningKey, error)
	Link(ctx context.Context, committeeName, fingerprint string) (*keysDomain.KeyLink, bool, error)
	Unlink(ctx context.Context, committeeName, fingerprint string) error
	UnlinkAll(ctx context.Context, committeeName string) (int64, error)
	DeleteOrphans(ctx context.Context) (int64, error)
}

// MembershipRepository defines the membership reads used to derive
// capability grants. Satisfied by the repositories in
// internal/committee/repository.
type MembershipRepository interface {
	GetByName(ctx context.Context, name string) (*committeeDomain.Committee, error)
	List(ctx context.Context) ([]*committeeDomain.Committee, error)
	IsFoundationCommitter(ctx context.Context, uid string) (bool, error)
	IsParticipant(ctx context.Context, committeeName, uid string) (bool, error)
	IsMember(ctx context.Context, committeeName, uid string) (bool, error)
}
