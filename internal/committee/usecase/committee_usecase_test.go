package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	committeeDomain "github.com/openfoundry/releases/internal/committee/domain"
	apperrors "github.com/openfoundry/releases/internal/errors"
)

// MockCommitteeRepository is a mock implementation of CommitteeRepository.
type MockCommitteeRepository struct {
	mock.Mock
}

func (m *MockCommitteeRepository) Create(ctx context.Context, committee *committeeDomain.Committee) error {
	args := m.Called(ctx, committee)
	return args.Error(0)
}

func (m *MockCommitteeRepository) GetByName(
	ctx context.Context,
	name string,
) (*committeeDomain.Committee, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*committeeDomain.Committee), args.Error(1)
}

func (m *MockCommitteeRepository) List(ctx context.Context) ([]*committeeDomain.Committee, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*committeeDomain.Committee), args.Error(1)
}

func (m *MockCommitteeRepository) AddMember(
	ctx context.Context,
	committeeName, uid string,
	role committeeDomain.Role,
) error {
	args := m.Called(ctx, committeeName, uid, role)
	return args.Error(0)
}

func (m *MockCommitteeRepository) RemoveMember(ctx context.Context, committeeName, uid string) error {
	args := m.Called(ctx, committeeName, uid)
	return args.Error(0)
}

func (m *MockCommitteeRepository) AddFoundationCommitter(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}

func (m *MockCommitteeRepository) IsFoundationCommitter(ctx context.Context, uid string) (bool, error) {
	args := m.Called(ctx, uid)
	return args.Bool(0), args.Error(1)
}

func (m *MockCommitteeRepository) IsParticipant(
	ctx context.Context,
	committeeName, uid string,
) (bool, error) {
	args := m.Called(ctx, committeeName, uid)
	return args.Bool(0), args.Error(1)
}

func (m *MockCommitteeRepository) IsMember(
	ctx context.Context,
	committeeName, uid string,
) (bool, error) {
	args := m.Called(ctx, committeeName, uid)
	return args.Bool(0), args.Error(1)
}

func TestCommitteeUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates committee with generated id", func(t *testing.T) {
		mockRepo := &MockCommitteeRepository{}
		useCase := NewCommitteeUseCase(mockRepo)

		mockRepo.On("Create", ctx, mock.MatchedBy(func(c *committeeDomain.Committee) bool {
			return c.Name == "tooling" && c.DisplayName == "Tooling" && c.ID.String() != ""
		})).Return(nil).Once()

		committee, err := useCase.Create(ctx, "tooling", "Tooling")
		require.NoError(t, err)
		assert.Equal(t, "tooling", committee.Name)
		assert.False(t, committee.CreatedAt.IsZero())
		mockRepo.AssertExpectations(t)
	})

	t.Run("display name defaults to name", func(t *testing.T) {
		mockRepo := &MockCommitteeRepository{}
		useCase := NewCommitteeUseCase(mockRepo)

		mockRepo.On("Create", ctx, mock.MatchedBy(func(c *committeeDomain.Committee) bool {
			return c.DisplayName == "tooling"
		})).Return(nil).Once()

		_, err := useCase.Create(ctx, "tooling", "")
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		mockRepo := &MockCommitteeRepository{}
		useCase := NewCommitteeUseCase(mockRepo)

		_, err := useCase.Create(ctx, "", "Tooling")
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		mockRepo.AssertNotCalled(t, "Create")
	})
}

func TestCommitteeUseCase_AddMember(t *testing.T) {
	ctx := context.Background()
	committee := &committeeDomain.Committee{Name: "tooling"}

	t.Run("adds member and foundation committer", func(t *testing.T) {
		mockRepo := &MockCommitteeRepository{}
		useCase := NewCommitteeUseCase(mockRepo)

		mockRepo.On("GetByName", ctx, "tooling").Return(committee, nil).Once()
		mockRepo.On("AddMember", ctx, "tooling", "sbp", committeeDomain.RoleCommitter).
			Return(nil).Once()
		mockRepo.On("AddFoundationCommitter", ctx, "sbp").Return(nil).Once()

		err := useCase.AddMember(ctx, "tooling", "sbp", committeeDomain.RoleCommitter)
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		mockRepo := &MockCommitteeRepository{}
		useCase := NewCommitteeUseCase(mockRepo)

		err := useCase.AddMember(ctx, "tooling", "sbp", committeeDomain.Role("chair"))
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		mockRepo.AssertNotCalled(t, "AddMember")
	})

	t.Run("unknown committee propagates not found", func(t *testing.T) {
		mockRepo := &MockCommitteeRepository{}
		useCase := NewCommitteeUseCase(mockRepo)

		mockRepo.On("GetByName", ctx, "missing").
			Return(nil, committeeDomain.ErrCommitteeNotFound).Once()

		err := useCase.AddMember(ctx, "missing", "sbp", committeeDomain.RoleMember)
		assert.ErrorIs(t, err, committeeDomain.ErrCommitteeNotFound)
		mockRepo.AssertNotCalled(t, "AddMember")
	})
}
