// Package service provides credential primitives for authentication:
// personal access token generation/hashing and session token signing.
package service

import "time"

// PATService generates and hashes personal access tokens.
type PATService interface {
	// Generate creates a new cryptographically random token. Returns the
	// plaintext and its SHA-256 hash; only the hash may be persisted.
	Generate() (plainToken string, tokenHash string, err error)

	// Hash computes the SHA-256 hash of a plaintext token.
	Hash(plainToken string) string
}

// SessionTokenService mints and verifies signed session tokens.
type SessionTokenService interface {
	// Issue mints a session token for the given foundation uid, valid for
	// ttl from now, carrying a fresh unique token identifier.
	Issue(uid string, ttl time.Duration) (token string, claims *SessionClaims, err error)

	// Verify validates the token's signature and expiry and returns its
	// claims. Purely computational: no store is consulted.
	Verify(token string) (*SessionClaims, error)
}
