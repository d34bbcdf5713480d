package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	apperrors "github.com/openfoundry/releases/internal/errors"
)

// patService implements PATService using SHA-256 for token hashing.
type patService struct{}

// Generate creates a new cryptographically secure 32-byte random token.
// The token is base64 URL-encoded for easy transmission and storage.
// Returns the plain token and its SHA-256 hash.
func (p *patService) Generate() (plainToken string, tokenHash string, err error) {
	// Generate 32 random bytes (256 bits)
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate random token")
	}

	// Encode to base64 URL-safe string for text representation
	plainToken = base64.URLEncoding.EncodeToString(randomBytes)

	// Hash the token using SHA-256
	tokenHash = p.Hash(plainToken)

	return plainToken, tokenHash, nil
}

// Hash hashes a plain text token using SHA-256.
// Returns the hash as a hexadecimal string. The digest is deterministic so
// tokens can be looked up by hash; the plaintext is unrecoverable from it.
func (p *patService) Hash(plainToken string) string {
	hash := sha256.Sum256([]byte(plainToken))
	return hex.EncodeToString(hash[:])
}

// NewPATService creates a new PATService instance using SHA-256 for token hashing.
func NewPATService() PATService {
	return &patService{}
}
