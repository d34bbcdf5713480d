package commands

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/openfoundry/releases/internal/auth/domain"
	committeeDomain "github.com/openfoundry/releases/internal/committee/domain"
	keysDomain "github.com/openfoundry/releases/internal/keys/domain"
)

// mockCommitteeUseCase is a mock implementation of
// committeeUsecase.CommitteeUseCase.
type mockCommitteeUseCase struct {
	mock.Mock
}

func (m *mockCommitteeUseCase) Create(
	ctx context.Context,
	name, displayName string,
) (*committeeDomain.Committee, error) {
	args := m.Called(ctx, name, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*committeeDomain.Committee), args.Error(1)
}

func (m *mockCommitteeUseCase) GetByName(
	ctx context.Context,
	name string,
) (*committeeDomain.Committee, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*committeeDomain.Committee), args.Error(1)
}

func (m *mockCommitteeUseCase) List(ctx context.Context) ([]*committeeDomain.Committee, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*committeeDomain.Committee), args.Error(1)
}

func (m *mockCommitteeUseCase) AddMember(
	ctx context.Context,
	committeeName, uid string,
	role committeeDomain.Role,
) error {
	args := m.Called(ctx, committeeName, uid, role)
	return args.Error(0)
}

func (m *mockCommitteeUseCase) RemoveMember(ctx context.Context, committeeName, uid string) error {
	args := m.Called(ctx, committeeName, uid)
	return args.Error(0)
}

// mockTokenUseCase is a mock implementation of authUseCase.TokenUseCase.
type mockTokenUseCase struct {
	mock.Mock
}

func (m *mockTokenUseCase) IssuePAT(
	ctx context.Context,
	principal *authDomain.Principal,
) (*authDomain.IssuePATOutput, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.IssuePATOutput), args.Error(1)
}

func (m *mockTokenUseCase) ListPATs(
	ctx context.Context,
	principal *authDomain.Principal,
) ([]*authDomain.PersonalAccessToken, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*authDomain.PersonalAccessToken), args.Error(1)
}

func (m *mockTokenUseCase) RevokePAT(
	ctx context.Context,
	caller *authDomain.Principal,
	patID uuid.UUID,
) error {
	args := m.Called(ctx, caller, patID)
	return args.Error(0)
}

func (m *mockTokenUseCase) IssueJWT(
	ctx context.Context,
	input *authDomain.IssueJWTInput,
) (*authDomain.IssueJWTOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.IssueJWTOutput), args.Error(1)
}

func (m *mockTokenUseCase) VerifyJWT(
	ctx context.Context,
	token string,
) (*authDomain.Principal, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Principal), args.Error(1)
}

// mockKeyRepository is a mock implementation of storage.KeyRepository.
type mockKeyRepository struct {
	mock.Mock
}

func (m *mockKeyRepository) EnsureStored(
	ctx context.Context,
	key *keysDomain.PublicSigningKey,
) (*keysDomain.PublicSigningKey, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*keysDomain.PublicSigningKey), args.Bool(1), args.Error(2)
}

func (m *mockKeyRepository) Get(
	ctx context.Context,
	fingerprint string,
) (*keysDomain.PublicSigningKey, error) {
	args := m.Called(ctx, fingerprint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*keysDomain.PublicSigningKey), args.Error(1)
}

func (m *mockKeyRepository) ListByCommittee(
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

func (m *mockKeyRepository) ListLinked(
	ctx context.Context,
	committeeName string,
) ([]*keysDomain.PublicSigningKey, error) {
	args := m.Called(ctx, committeeName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*keysDomain.PublicSigningKey), args.Error(1)
}

func (m *mockKeyRepository) Link(
	ctx context.Context,
	committeeName, fingerprint string,
) (*keysDomain.KeyLink, bool, error) {
	args := m.Called(ctx, committeeName, fingerprint)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*keysDomain.KeyLink), args.Bool(1), args.Error(2)
}

func (m *mockKeyRepository) Unlink(ctx context.Context, committeeName, fingerprint string) error {
	args := m.Called(ctx, committeeName, fingerprint)
	return args.Error(0)
}

func (m *mockKeyRepository) UnlinkAll(ctx context.Context, committeeName string) (int64, error) {
	args := m.Called(ctx, committeeName)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockKeyRepository) DeleteOrphans(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// mockMembershipRepository is a mock implementation of
// storage.MembershipRepository.
type mockMembershipRepository struct {
	mock.Mock
}

func (m *mockMembershipRepository) GetByName(
	ctx context.Context,
	name string,
) (*committeeDomain.Committee, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*committeeDomain.Committee), args.Error(1)
}

func (m *mockMembershipRepository) List(ctx context.Context) ([]*committeeDomain.Committee, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*committeeDomain.Committee), args.Error(1)
}

func (m *mockMembershipRepository) IsFoundationCommitter(
	ctx context.Context,
	uid string,
) (bool, error) {
	args := m.Called(ctx, uid)
	return args.Bool(0), args.Error(1)
}

func (m *mockMembershipRepository) IsParticipant(
	ctx context.Context,
	committeeName, uid string,
) (bool, error) {
	args := m.Called(ctx, committeeName, uid)
	return args.Bool(0), args.Error(1)
}

func (m *mockMembershipRepository) IsMember(
	ctx context.Context,
	committeeName, uid string,
) (bool, error) {
	args := m.Called(ctx, committeeName, uid)
	return args.Bool(0), args.Error(1)
}
