package storage

import (
	"context"
	"database/sql"

	authDomain "github.com/openfoundry/releases/internal/auth/domain"
	apperrors "github.com/openfoundry/releases/internal/errors"
)

// Session is a single unit of mediated storage access. It wraps one
// database transaction; every capability derived from it reads and writes
// inside that transaction, and Close decides its fate.
type Session struct {
	svc       *Service
	principal *authDomain.Principal
	tx        *sql.Tx
	ctx       context.Context
	closed    bool
}

// Close finishes the session. A nil opErr commits the transaction; any
// other value, or a cancelled context, rolls it back. Close is idempotent.
func (s *Session) Close(opErr error) error {
	if s.closed {
		return nil
	}
	s.closed = true

	if opErr != nil || s.ctx.Err() != nil {
		if err := s.tx.Rollback(); err != nil && err != sql.ErrTxDone {
			return apperrors.Wrap(err, "failed to roll back storage session")
		}
		return nil
	}

	if err := s.tx.Commit(); err != nil {
		return apperrors.Wrap(err, "failed to commit storage session")
	}
	return nil
}

// uid returns the authenticated account, or "" for anonymous sessions.
func (s *Session) uid() string {
	if s.principal == nil {
		return ""
	}
	return s.principal.UID
}

// admin reports whether the session principal is a foundation administrator.
func (s *Session) admin() bool {
	return s.principal != nil && s.principal.Admin
}

// AsGeneralPublic derives the baseline read-only capability. Always granted.
func (s *Session) AsGeneralPublic() GeneralPublic {
	return &generalPublic{session: s}
}

// AsFoundationCommitter derives the committer capability. The grant is
// re-derived from membership data on every call; administrators always
// qualify. Returns ErrInsufficientPrivilege on shortfall.
func (s *Session) AsFoundationCommitter() (FoundationCommitter, error) {
	uid := s.uid()
	if uid == "" {
		return nil, apperrors.ErrInsufficientPrivilege
	}

	if !s.admin() {
		ok, err := s.svc.membership.IsFoundationCommitter(s.ctx, uid)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to derive committer privilege")
		}
		if !ok {
			return nil, apperrors.ErrInsufficientPrivilege
		}
	}

	return &foundationCommitter{generalPublic: generalPublic{session: s}}, nil
}

// AsCommitteeParticipant derives a capability scoped to the named
// committee. The committee must exist and the principal must hold a role
// in it. Returns ErrInsufficientPrivilege on shortfall.
func (s *Session) AsCommitteeParticipant(committeeName string) (CommitteeParticipant, error) {
	uid := s.uid()
	if uid == "" {
		return nil, apperrors.ErrInsufficientPrivilege
	}

	committee, err := s.svc.membership.GetByName(s.ctx, committeeName)
	if err != nil {
		return nil, err
	}

	if !s.admin() {
		ok, err := s.svc.membership.IsParticipant(s.ctx, committee.Name, uid)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to derive participant privilege")
		}
		if !ok {
			return nil, apperrors.ErrInsufficientPrivilege
		}
	}

	return &committeeParticipant{
		foundationCommitter: foundationCommitter{generalPublic: generalPublic{session: s}},
		committee:           committee,
	}, nil
}

// AsCommitteeMember derives the full write capability for the named
// committee. Requires full membership. Returns ErrInsufficientPrivilege on
// shortfall.
func (s *Session) AsCommitteeMember(committeeName string) (CommitteeMember, error) {
	uid := s.uid()
	if uid == "" {
		return nil, apperrors.ErrInsufficientPrivilege
	}

	committee, err := s.svc.membership.GetByName(s.ctx, committeeName)
	if err != nil {
		return nil, err
	}

	if !s.admin() {
		ok, err := s.svc.membership.IsMember(s.ctx, committee.Name, uid)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to derive member privilege")
		}
		if !ok {
			return nil, apperrors.ErrInsufficientPrivilege
		}
	}

	return &committeeMember{
		committeeParticipant: committeeParticipant{
			foundationCommitter: foundationCommitter{generalPublic: generalPublic{session: s}},
			committee:           committee,
		},
	}, nil
}

// record notifies the audit recorder of a write.
func (s *Session) record(action, committee, fingerprint string) {
	s.svc.recorder.Record(s.ctx, Event{
		UID:         s.uid(),
		Action:      action,
		Committee:   committee,
		Fingerprint: fingerprint,
		OccurredAt:  nowUTC(),
	})
}
