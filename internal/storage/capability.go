// Package storage mediates every access to the key registry through
// capability objects owned by a transactional session. Callers never touch
// repositories directly: they open a session, request a capability at the
// privilege level they hold, and operate through it. Each capability
// interface is a strict superset of the one below it, so a grant never
// loses operations and the compiler checks the hierarchy.
package storage

import (
	committeeDomain "github.com/openfoundry/releases/internal/committee/domain"
	keysDomain "github.com/openfoundry/releases/internal/keys/domain"
	"github.com/openfoundry/releases/internal/outcome"
)

// GeneralPublic is the unauthenticated baseline: read-only access to the
// published key registry. Every session can produce it.
type GeneralPublic interface {
	// Committees lists all committees.
	Committees() ([]*committeeDomain.Committee, error)

	// ListKeys returns the keys linked to a committee, paginated.
	ListKeys(committeeName string, offset, limit int) ([]*keysDomain.PublicSigningKey, error)

	// KeysFile returns the generated KEYS artifact for a committee.
	KeysFile(committeeName string) (string, error)
}

// FoundationCommitter extends public access with the ability to register
// signing keys in the foundation-wide store.
type FoundationCommitter interface {
	GeneralPublic

	// UID returns the authenticated account the capability was derived for.
	UID() string

	// EnsureStoredKey parses an armored public key and stores it if its
	// fingerprint is new. Repeated calls return the existing record.
	EnsureStoredKey(armored string) outcome.Outcome[*keysDomain.PublicSigningKey]
}

// CommitteeParticipant extends committer access with committee-scoped reads.
// The capability is bound to a single committee at derivation time.
type CommitteeParticipant interface {
	FoundationCommitter

	// CommitteeName returns the committee the capability is scoped to.
	CommitteeName() string

	// CommitteeKeys returns every key linked to the scoped committee.
	CommitteeKeys() ([]*keysDomain.PublicSigningKey, error)
}

// CommitteeMember holds the full write surface for the scoped committee.
type CommitteeMember interface {
	CommitteeParticipant

	// ImportKeys splits free-form text into armored blocks and stores and
	// links each one, reporting per-block outcomes. Malformed blocks fail
	// individually; the call itself never fails as a whole.
	ImportKeys(keysFileText string) *outcome.Outcomes[*keysDomain.PublicSigningKey]

	// LinkKey associates a stored key with the scoped committee and
	// regenerates the KEYS artifact. The artifact regeneration may fail
	// independently and is reported inside the payload.
	LinkKey(fingerprint string) outcome.Outcome[*LinkResult]

	// UnlinkKey removes a key's association with the scoped committee and
	// regenerates the KEYS artifact.
	UnlinkKey(fingerprint string) outcome.Outcome[*LinkResult]

	// RegenerateKeysFile rebuilds the committee's KEYS artifact from the
	// currently linked keys and stores it.
	RegenerateKeysFile() outcome.Outcome[string]

	// DeleteCommitteeKeys unlinks every key from the scoped committee,
	// deletes key records that are no longer linked anywhere, and
	// regenerates the now-empty artifact.
	DeleteCommitteeKeys() outcome.Outcome[*PurgeReport]
}

// LinkResult is the payload of link and unlink operations: the association
// that changed plus the outcome of the artifact regeneration side effect.
type LinkResult struct {
	Link     *keysDomain.KeyLink
	Artifact outcome.Outcome[string]
}

// PurgeReport summarizes a committee key purge.
type PurgeReport struct {
	UnlinkedCount int64
	DeletedCount  int64
	Artifact      outcome.Outcome[string]
}

// The hierarchy is monotonic: each level satisfies the one below it.
var (
	_ GeneralPublic        = (FoundationCommitter)(nil)
	_ FoundationCommitter  = (CommitteeParticipant)(nil)
	_ CommitteeParticipant = (CommitteeMember)(nil)
)

// The implementations cover their interfaces.
var (
	_ GeneralPublic        = (*generalPublic)(nil)
	_ FoundationCommitter  = (*foundationCommitter)(nil)
	_ CommitteeParticipant = (*committeeParticipant)(nil)
	_ CommitteeMember      = (*committeeMember)(nil)
)
