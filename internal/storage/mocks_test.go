package storage

import (
	"context"

	"github.com/stretchr/testify/mock"

	committeeDomain "github.com/openfoundry/releases/internal/committee/domain"
	keysDomain "github.com/openfoundry/releases/internal/keys/domain"
)

// MockKeyRepository is a mock implementation of KeyRepository.
type MockKeyRepository struct {
	mock.Mock
}

func (m *MockKeyRepository) EnsureStored(
	ctx context.Context,
	key *keysDomain.PublicSigningKey,
) (*keysDomain.PublicSigningKey, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*keysDomain.PublicSigningKey), args.Bool(1), args.Error(2)
}

func (m *MockKeyRepository) Get(
	ctx context.Context,
	fingerprint string,
) (*keysDomain.PublicSigningKey, error) {
	args := m.Called(ctx, fingerprint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*keysDomain.PublicSigningKey), args.Error(1)
}

func (m *MockKeyRepository) ListByCommittee(
	ctx context.Context,
	committeeName string,
	offset, limit int,
) ([]*keysDomain.PublicSigningKey, error) {
	args := m.Called(ctx, committeeName, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*keysDomain.PublicSigningKey), args.Error(1)
}

func (m *MockKeyRepository) ListLinked(
	ctx context.Context,
	committeeName string,
) ([]*keysDomain.PublicSigningKey, error) {
	args := m.Called(ctx, committeeName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*keysDomain.PublicSigningKey), args.Error(1)
}

func (m *MockKeyRepository) Link(
	ctx context.Context,
	committeeName, fingerprint string,
) (*keysDomain.KeyLink, bool, error) {
	args := m.Called(ctx, committeeName, fingerprint)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*keysDomain.KeyLink), args.Bool(1), args.Error(2)
}

func (m *MockKeyRepository) Unlink(ctx context.Context, committeeName, fingerprint string) error {
	args := m.Called(ctx, committeeName, fingerprint)
	return args.Error(0)
}

func (m *MockKeyRepository) UnlinkAll(ctx context.Context, committeeName string) (int64, error) {
	args := m.Called(ctx, committeeName)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockKeyRepository) DeleteOrphans(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockMembershipRepository is a mock implementation of MembershipRepository.
type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) GetByName(
	ctx context.Context,
	name string,
) (*committeeDomain.Committee, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*committeeDomain.Committee), args.Error(1)
}

func (m *MockMembershipRepository) List(ctx context.Context) ([]*committeeDomain.Committee, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*committeeDomain.Committee), args.Error(1)
}

func (m *MockMembershipRepository) IsFoundationCommitter(
	ctx context.Context,
	uid string,
) (bool, error) {
	args := m.Called(ctx, uid)
	return args.Bool(0), args.Error(1)
}

func (m *MockMembershipRepository) IsParticipant(
	ctx context.Context,
	committeeName, uid string,
) (bool, error) {
	args := m.Called(ctx, committeeName, uid)
	return args.Bool(0), args.Error(1)
}

func (m *MockMembershipRepository) IsMember(
	ctx context.Context,
	committeeName, uid string,
) (bool, error) {
	args := m.Called(ctx, committeeName, uid)
	return args.Bool(0), args.Error(1)
}
