package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/openfoundry/releases/internal/auth/domain"
	committeeDomain "github.com/openfoundry/releases/internal/committee/domain"
	apperrors "github.com/openfoundry/releases/internal/errors"
)

func openSession(t *testing.T, deps *testDeps, principal *authDomain.Principal) *Session {
	t.Helper()

	deps.mock.ExpectBegin()
	deps.mock.ExpectRollback()

	session, err := deps.svc.Open(context.Background(), principal)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close(assert.AnError) })

	return session
}

func TestSession_AsGeneralPublic(t *testing.T) {
	t.Run("granted to anonymous sessions", func(t *testing.T) {
		deps := newTestService(t)
		session := openSession(t, deps, nil)

		public := session.AsGeneralPublic()
		assert.NotNil(t, public)
	})
}

func TestSession_AsFoundationCommitter(t *testing.T) {
	t.Run("granted to committers", func(t *testing.T) {
		deps := newTestService(t)
		session := openSession(t, deps, &authDomain.Principal{UID: "sbp"})

		deps.membership.On("IsFoundationCommitter", mock.Anything, "sbp").
			Return(true, nil).Once()

		committer, err := session.AsFoundationCommitter()
		require.NoError(t, err)
		assert.Equal(t, "sbp", committer.UID())
		deps.membership.AssertExpectations(t)
	})

	t.Run("denied to outsiders", func(t *testing.T) {
		deps := newTestService(t)
		session := openSession(t, deps, &authDomain.Principal{UID: "visitor"})

		deps.membership.On("IsFoundationCommitter", mock.Anything, "visitor").
			Return(false, nil).Once()

		_, err := session.AsFoundationCommitter()
		assert.ErrorIs(t, err, apperrors.ErrInsufficientPrivilege)
	})

	t.Run("denied to anonymous sessions", func(t *testing.T) {
		deps := newTestService(t)
		session := openSession(t, deps, nil)

		_, err := session.AsFoundationCommitter()
		assert.ErrorIs(t, err, apperrors.ErrInsufficientPrivilege)
	})

	t.Run("admins always qualify", func(t *testing.T) {
		deps := newTestService(t)
		session := openSession(t, deps, &authDomain.Principal{UID: "root", Admin: true})

		committer, err := session.AsFoundationCommitter()
		require.NoError(t, err)
		assert.Equal(t, "root", committer.UID())
		deps.membership.AssertNotCalled(t, "IsFoundationCommitter")
	})
}

func TestSession_AsCommitteeParticipant(t *testing.T) {
	tooling := &committeeDomain.Committee{Name: "tooling", DisplayName: "Tooling"}

	t.Run("granted to participants", func(t *testing.T) {
		deps := newTestService(t)
		session := openSession(t, deps, &authDomain.Principal{UID: "sbp"})

		deps.membership.On("GetByName", mock.Anything, "tooling").Return(tooling, nil).Once()
		deps.membership.On("IsParticipant", mock.Anything, "tooling", "sbp").
			Return(true, nil).Once()

		participant, err := session.AsCommitteeParticipant("tooling")
		require.NoError(t, err)
		assert.Equal(t, "tooling", participant.CommitteeName())
	})

	t.Run("denied to non-participants", func(t *testing.T) {
		deps := newTestService(t)
		session := openSession(t, deps, &authDomain.Principal{UID: "sbp"})

		deps.membership.On("GetByName", mock.Anything, "tooling").Return(tooling, nil).Once()
		deps.membership.On("IsParticipant", mock.Anything, "tooling", "sbp").
			Return(false, nil).Once()

		_, err := session.AsCommitteeParticipant("tooling")
		assert.ErrorIs(t, err, apperrors.ErrInsufficientPrivilege)
	})

	t.Run("unknown committee", func(t *testing.T) {
		deps := newTestService(t)
		session := openSession(t, deps, &authDomain.Principal{UID: "sbp"})

		deps.membership.On("GetByName", mock.Anything, "missing").
			Return(nil, committeeDomain.ErrCommitteeNotFound).Once()

		_, err := session.AsCommitteeParticipant("missing")
		assert.ErrorIs(t, err, committeeDomain.ErrCommitteeNotFound)
	})
}

func TestSession_AsCommitteeMember(t *testing.T) {
	tooling := &committeeDomain.Committee{Name: "tooling", DisplayName: "Tooling"}

	t.Run("granted to full members", func(t *testing.T) {
		deps := newTestService(t)
		session := openSession(t, deps, &authDomain.Principal{UID: "sbp"})

		deps.membership.On("GetByName", mock.Anything, "tooling").Return(tooling, nil).Once()
		deps.membership.On("IsMember", mock.Anything, "tooling", "sbp").
			Return(true, nil).Once()

		member, err := session.AsCommitteeMember("tooling")
		require.NoError(t, err)
		assert.Equal(t, "tooling", member.CommitteeName())
	})

	t.Run("denied to mere committers", func(t *testing.T) {
		deps := newTestService(t)
		session := openSession(t, deps, &authDomain.Principal{UID: "sbp"})

		deps.membership.On("GetByName", mock.Anything, "tooling").Return(tooling, nil).Once()
		deps.membership.On("IsMember", mock.Anything, "tooling", "sbp").
			Return(false, nil).Once()

		_, err := session.AsCommitteeMember("tooling")
		assert.ErrorIs(t, err, apperrors.ErrInsufficientPrivilege)
	})
}

// A member grant carries every lower level: the same value serves as
// participant, committer and public reader.
func TestCapabilityMonotonicity(t *testing.T) {
	tooling := &committeeDomain.Committee{Name: "tooling", DisplayName: "Tooling"}

	deps := newTestService(t)
	session := openSession(t, deps, &authDomain.Principal{UID: "sbp"})

	deps.membership.On("GetByName", mock.Anything, "tooling").Return(tooling, nil).Once()
	deps.membership.On("IsMember", mock.Anything, "tooling", "sbp").Return(true, nil).Once()

	member, err := session.AsCommitteeMember("tooling")
	require.NoError(t, err)

	var participant CommitteeParticipant = member
	var committer FoundationCommitter = participant
	var public GeneralPublic = committer

	assert.Equal(t, "sbp", committer.UID())
	assert.NotNil(t, public)
}
