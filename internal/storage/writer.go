package storage

import (
	"fmt"
	"strings"
	"time"

	committeeDomain "github.com/openfoundry/releases/internal/committee/domain"
	apperrors "github.com/openfoundry/releases/internal/errors"
	keysDomain "github.com/openfoundry/releases/internal/keys/domain"
	"github.com/openfoundry/releases/internal/outcome"
)

func nowUTC() time.Time {
	return time.Now().UTC()
}

// generalPublic implements the read-only baseline capability.
type generalPublic struct {
	session *Session
}

func (g *generalPublic) Committees() ([]*committeeDomain.Committee, error) {
	return g.session.svc.membership.List(g.session.ctx)
}

func (g *generalPublic) ListKeys(
	committeeName string,
	offset, limit int,
) ([]*keysDomain.PublicSigningKey, error) {
	return g.session.svc.keys.ListByCommittee(g.session.ctx, committeeName, offset, limit)
}

func (g *generalPublic) KeysFile(committeeName string) (string, error) {
	return g.session.svc.keysFiles.Read(g.session.ctx, committeeName)
}

// foundationCommitter adds the foundation-wide key store write.
type foundationCommitter struct {
	generalPublic
}

func (f *foundationCommitter) UID() string {
	return f.session.uid()
}

func (f *foundationCommitter) EnsureStoredKey(
	armored string,
) outcome.Outcome[*keysDomain.PublicSigningKey] {
	stored, _, o := f.ensureStored(armored)
	if stored == nil {
		return o
	}
	// Idempotent: the existing record is a full result on repeat.
	return outcome.Result(stored)
}

// ensureStored parses and upserts one armored block, reporting the stored
// record, whether it is new, and the raw outcome for error cases.
func (f *foundationCommitter) ensureStored(
	armored string,
) (*keysDomain.PublicSigningKey, bool, outcome.Outcome[*keysDomain.PublicSigningKey]) {
	key, err := f.session.svc.parser.ParseArmored(armored)
	if err != nil {
		return nil, false, outcome.Error[*keysDomain.PublicSigningKey](err)
	}

	key.ApacheUID = f.session.uid()
	key.CreatedAt = nowUTC()

	stored, created, err := f.session.svc.keys.EnsureStored(f.session.ctx, key)
	if err != nil {
		return nil, false, outcome.Error[*keysDomain.PublicSigningKey](err)
	}

	if created {
		f.session.record("key.store", "", stored.Fingerprint)
	}
	return stored, created, outcome.Result(stored)
}

// committeeParticipant scopes the capability to one committee.
type committeeParticipant struct {
	foundationCommitter
	committee *committeeDomain.Committee
}

func (p *committeeParticipant) CommitteeName() string {
	return p.committee.Name
}

func (p *committeeParticipant) CommitteeKeys() ([]*keysDomain.PublicSigningKey, error) {
	return p.session.svc.keys.ListLinked(p.session.ctx, p.committee.Name)
}

// committeeMember holds the full write surface.
type committeeMember struct {
	committeeParticipant
}

func (m *committeeMember) ImportKeys(keysFileText string) *outcome.Outcomes[*keysDomain.PublicSigningKey] {
	outcomes := outcome.NewOutcomes[*keysDomain.PublicSigningKey]()

	blocks := m.session.svc.parser.SplitArmored(keysFileText)
	for i, block := range blocks {
		stored, created, o := m.ensureStored(block)
		if stored == nil {
			// No fingerprint to key on; fall back to block position.
			outcomes.Append(fmt.Sprintf("block-%d", i+1), o)
			continue
		}

		if _, _, err := m.session.svc.keys.Link(m.session.ctx, m.committee.Name, stored.Fingerprint); err != nil {
			outcomes.Append(stored.Fingerprint,
				outcome.ErrorAfter(apperrors.Wrap(err, "stored but not linked"), stored))
			continue
		}
		m.session.record("key.link", m.committee.Name, stored.Fingerprint)

		if !created {
			outcomes.Append(stored.Fingerprint, outcome.Warning(stored,
				apperrors.Wrap(apperrors.ErrConflict, "key already stored")))
			continue
		}
		outcomes.Append(stored.Fingerprint, outcome.Result(stored))
	}

	return outcomes
}

func (m *committeeMember) LinkKey(fingerprint string) outcome.Outcome[*LinkResult] {
	if _, err := m.session.svc.keys.Get(m.session.ctx, fingerprint); err != nil {
		return outcome.Error[*LinkResult](err)
	}

	link, created, err := m.session.svc.keys.Link(m.session.ctx, m.committee.Name, fingerprint)
	if err != nil {
		return outcome.Error[*LinkResult](err)
	}
	m.session.record("key.link", m.committee.Name, fingerprint)

	result := &LinkResult{
		Link:     link,
		Artifact: m.RegenerateKeysFile(),
	}

	if !created {
		return outcome.Warning(result,
			apperrors.Wrap(apperrors.ErrConflict, "key already linked"))
	}
	return outcome.Result(result)
}

func (m *committeeMember) UnlinkKey(fingerprint string) outcome.Outcome[*LinkResult] {
	if err := m.session.svc.keys.Unlink(m.session.ctx, m.committee.Name, fingerprint); err != nil {
		return outcome.Error[*LinkResult](err)
	}
	m.session.record("key.unlink", m.committee.Name, fingerprint)

	result := &LinkResult{
		Link: &keysDomain.KeyLink{
			CommitteeName: m.committee.Name,
			Fingerprint:   fingerprint,
		},
		Artifact: m.RegenerateKeysFile(),
	}
	return outcome.Result(result)
}

func (m *committeeMember) RegenerateKeysFile() outcome.Outcome[string] {
	linked, err := m.session.svc.keys.ListLinked(m.session.ctx, m.committee.Name)
	if err != nil {
		return outcome.Error[string](err)
	}

	content := renderKeysFile(m.committee, linked)

	if err := m.session.svc.keysFiles.Write(m.session.ctx, m.committee.Name, content); err != nil {
		// The content was assembled; only the store failed.
		return outcome.ErrorAfter(err, content)
	}
	m.session.record("keysfile.regenerate", m.committee.Name, "")

	return outcome.Result(content)
}

func (m *committeeMember) DeleteCommitteeKeys() outcome.Outcome[*PurgeReport] {
	unlinked, err := m.session.svc.keys.UnlinkAll(m.session.ctx, m.committee.Name)
	if err != nil {
		return outcome.Error[*PurgeReport](err)
	}

	deleted, err := m.session.svc.keys.DeleteOrphans(m.session.ctx)
	if err != nil {
		return outcome.ErrorAfter(err, &PurgeReport{UnlinkedCount: unlinked})
	}
	m.session.record("keys.purge", m.committee.Name, "")

	report := &PurgeReport{
		UnlinkedCount: unlinked,
		DeletedCount:  deleted,
		Artifact:      m.RegenerateKeysFile(),
	}
	return outcome.Result(report)
}

// renderKeysFile assembles the published KEYS artifact: a header followed
// by every linked key with its metadata and armored block.
func renderKeysFile(
	committee *committeeDomain.Committee,
	keys []*keysDomain.PublicSigningKey,
) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Signing keys for %s\n", committee.DisplayName)
	fmt.Fprintf(&b, "Committee: %s\n", committee.Name)
	fmt.Fprintf(&b, "Keys: %d\n\n", len(keys))

	for _, key := range keys {
		fmt.Fprintf(&b, "ASF ID: %s\n", key.ApacheUID)
		fmt.Fprintf(&b, "Fingerprint: %s\n", key.Fingerprint)
		if key.PrimaryIdentity != "" {
			fmt.Fprintf(&b, "Identity: %s\n", key.PrimaryIdentity)
		}
		b.WriteString(key.ASCIIArmored)
		b.WriteString("\n\n")
	}

	return b.String()
}
