package service

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/packet"

	apperrors "github.com/openfoundry/releases/internal/errors"
	keysDomain "github.com/openfoundry/releases/internal/keys/domain"
)

const (
	armorBegin = "-----BEGIN PGP PUBLIC KEY BLOCK-----"
	armorEnd   = "-----END PGP PUBLIC KEY BLOCK-----"
)

// keyParser implements KeyParser on top of golang.org/x/crypto/openpgp.
type keyParser struct{}

// NewKeyParser creates a new OpenPGP key parser.
func NewKeyParser() KeyParser {
	return &keyParser{}
}

// ParseArmored parses a single armored public key block into a domain key.
func (p *keyParser) ParseArmored(armored string) (*keysDomain.PublicSigningKey, error) {
	entities, err := openpgp.ReadArmoredKeyRing(strings.NewReader(armored))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput,
			fmt.Sprintf("failed to parse armored key: %s", err))
	}
	if len(entities) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "armored block contains no keys")
	}

	entity := entities[0]
	primaryKey := entity.PrimaryKey
	if primaryKey == nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "armored block has no primary key")
	}

	length, err := primaryKey.BitLength()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "failed to read key length")
	}

	key := &keysDomain.PublicSigningKey{
		Fingerprint:  hex.EncodeToString(primaryKey.Fingerprint[:]),
		Algorithm:    algorithmName(primaryKey.PubKeyAlgo),
		Length:       length,
		ASCIIArmored: strings.TrimSpace(armored),
		KeyCreatedAt: primaryKey.CreationTime,
	}

	identity := primaryIdentity(entity)
	if identity != nil {
		key.PrimaryIdentity = identity.Name
		if identity.SelfSignature != nil && identity.SelfSignature.KeyLifetimeSecs != nil {
			expiresAt := primaryKey.CreationTime.Add(
				time.Duration(*identity.SelfSignature.KeyLifetimeSecs) * time.Second)
			key.KeyExpiresAt = &expiresAt
		}
	}

	return key, nil
}

// SplitArmored splits free-form text into individual armored key blocks.
func (p *keyParser) SplitArmored(text string) []string {
	var blocks []string
	var current []string
	inBlock := false

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimRight(line, "\r")
		switch {
		case strings.TrimSpace(trimmed) == armorBegin:
			inBlock = true
			current = []string{armorBegin}
		case strings.TrimSpace(trimmed) == armorEnd && inBlock:
			current = append(current, armorEnd)
			blocks = append(blocks, strings.Join(current, "\n"))
			inBlock = false
			current = nil
		case inBlock:
			current = append(current, trimmed)
		}
	}

	return blocks
}

// primaryIdentity picks the identity flagged primary in its self-signature,
// falling back to any identity the entity carries.
func primaryIdentity(entity *openpgp.Entity) *openpgp.Identity {
	var fallback *openpgp.Identity
	for _, identity := range entity.Identities {
		if fallback == nil {
			fallback = identity
		}
		selfSig := identity.SelfSignature
		if selfSig != nil && selfSig.IsPrimaryId != nil && *selfSig.IsPrimaryId {
			return identity
		}
	}
	return fallback
}

// algorithmName maps OpenPGP algorithm identifiers to display names.
func algorithmName(algo packet.PublicKeyAlgorithm) string {
	switch algo {
	case packet.PubKeyAlgoRSA, packet.PubKeyAlgoRSASignOnly, packet.PubKeyAlgoRSAEncryptOnly:
		return "RSA"
	case packet.PubKeyAlgoDSA:
		return "DSA"
	case packet.PubKeyAlgoElGamal:
		return "ElGamal"
	case packet.PubKeyAlgoECDSA:
		return "ECDSA"
	case packet.PubKeyAlgoECDH:
		return "ECDH"
	case packet.PubKeyAlgoEdDSA:
		return "EdDSA"
	default:
		return fmt.Sprintf("unknown(%d)", int(algo))
	}
}
