// Package service provides OpenPGP parsing and KEYS artifact storage for
// the key registry.
package service

import (
	"context"

	keysDomain "github.com/openfoundry/releases/internal/keys/domain"
)

// KeyParser extracts key material from ASCII-armored OpenPGP text.
type KeyParser interface {
	// ParseArmored parses a single armored public key block into a domain
	// key. Returns ErrInvalidInput when the text is not a usable public key.
	ParseArmored(armored string) (*keysDomain.PublicSigningKey, error)

	// SplitArmored splits free-form text into individual armored public key
	// blocks, preserving order. Text outside the BEGIN/END markers is
	// discarded.
	SplitArmored(text string) []string
}

// KeysFileStore persists the generated per-committee KEYS artifact.
type KeysFileStore interface {
	// Write stores the KEYS artifact for a committee, replacing any
	// previous version.
	Write(ctx context.Context, committeeName, content string) error

	// Read returns the stored KEYS artifact for a committee. Returns
	// ErrKeysFileNotFound when none has been generated.
	Read(ctx context.Context, committeeName string) (string, error)
}
