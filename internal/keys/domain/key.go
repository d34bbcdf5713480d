// Package domain contains the core entities for the public signing key registry.
package domain

import (
	"time"
)

// PublicSigningKey is an OpenPGP public key registered for release signing.
// The fingerprint is the primary identifier, stored as lowercase hex.
type PublicSigningKey struct {
	Fingerprint     string
	Algorithm       string
	Length          uint16
	PrimaryIdentity string
	ASCIIArmored    string
	ApacheUID       string
	KeyCreatedAt    time.Time
	KeyExpiresAt    *time.Time
	CreatedAt       time.Time
}

// Expired reports whether the key itself has expired at the given instant.
// Keys without an expiration never expire.
func (k *PublicSigningKey) Expired(now time.Time) bool {
	return k.KeyExpiresAt != nil && now.After(*k.KeyExpiresAt)
}

// KeyLink associates a stored key with a committee.
type KeyLink struct {
	CommitteeName string
	Fingerprint   string
	CreatedAt     time.Time
}
