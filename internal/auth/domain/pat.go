package domain

import (
	"time"

	"github.com/google/uuid"
)

// PersonalAccessToken is a long-lived credential bound to one foundation
// uid. Only the SHA-256 digest of the token is persisted; the plaintext
// exists at issuance time and in the user's possession, nowhere else.
type PersonalAccessToken struct {
	ID        uuid.UUID
	UID       string
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// Expired reports whether the token's expiry has passed at the given time.
func (p *PersonalAccessToken) Expired(now time.Time) bool {
	return p.ExpiresAt.Before(now)
}

// Revoked reports whether the token has been explicitly revoked.
func (p *PersonalAccessToken) Revoked() bool {
	return p.RevokedAt != nil
}

// IssuePATOutput carries the one-time plaintext alongside the stored record.
// SECURITY: the plaintext is only returned once and must never be logged.
type IssuePATOutput struct {
	PlainToken string
	Token      *PersonalAccessToken
}

// IssueJWTInput is the credential exchange request: a foundation uid plus
// the plaintext of one of its personal access tokens.
type IssueJWTInput struct {
	UID      string
	PlainPAT string
}

// IssueJWTOutput carries the minted session token.
type IssueJWTOutput struct {
	UID       string
	JWT       string
	ExpiresAt time.Time
}
