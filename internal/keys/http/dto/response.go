package dto

import (
	"time"

	keysDomain "github.com/openfoundry/releases/internal/keys/domain"
	"github.com/openfoundry/releases/internal/outcome"
)

// Outcome status values used across key API responses.
const (
	StatusOK      = "ok"
	StatusWarning = "warning"
	StatusError   = "error"
)

// KeyResponse represents a stored public signing key in API responses.
// The armored block is included so consumers can verify against it.
type KeyResponse struct {
	Fingerprint     string     `json:"fingerprint"`
	Algorithm       string     `json:"algorithm"`
	Length          uint16     `json:"length"`
	PrimaryIdentity string     `json:"primary_identity,omitempty"`
	ASFUID          string     `json:"asfuid"`
	ASCIIArmored    string     `json:"armored"`
	KeyCreatedAt    time.Time  `json:"key_created_at"`
	KeyExpiresAt    *time.Time `json:"key_expires_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// MapKeyToResponse converts a domain key to an API response.
func MapKeyToResponse(key *keysDomain.PublicSigningKey) KeyResponse {
	return KeyResponse{
		Fingerprint:     key.Fingerprint,
		Algorithm:       key.Algorithm,
		Length:          key.Length,
		PrimaryIdentity: key.PrimaryIdentity,
		ASFUID:          key.ApacheUID,
		ASCIIArmored:    key.ASCIIArmored,
		KeyCreatedAt:    key.KeyCreatedAt,
		KeyExpiresAt:    key.KeyExpiresAt,
		CreatedAt:       key.CreatedAt,
	}
}

// ListKeysResponse represents a paginated list of keys in API responses.
type ListKeysResponse struct {
	Data []KeyResponse `json:"data"`
}

// MapKeysToListResponse converts a slice of domain keys to a list API
// response.
func MapKeysToListResponse(keys []*keysDomain.PublicSigningKey) ListKeysResponse {
	responses := make([]KeyResponse, 0, len(keys))
	for _, key := range keys {
		responses = append(responses, MapKeyToResponse(key))
	}
	return ListKeysResponse{
		Data: responses,
	}
}

// ImportOutcomeResponse reports the fate of a single armored block from an
// import. The key is the block's fingerprint, or its position for blocks
// that could not be parsed.
type ImportOutcomeResponse struct {
	Key     string       `json:"key"`
	Status  string       `json:"status"`
	Detail  *KeyResponse `json:"detail,omitempty"`
	Warning string       `json:"warning,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// ImportKeysResponse aggregates per-block import outcomes.
type ImportKeysResponse struct {
	Stored        int                     `json:"stored"`
	Warnings      int                     `json:"warnings"`
	Errors        int                     `json:"errors"`
	Outcomes      []ImportOutcomeResponse `json:"outcomes"`
	KeysFile      string                  `json:"keys_file_status"`
	KeysFileError string                  `json:"keys_file_error,omitempty"`
}

// MapImportToResponse converts an import aggregate to an API response.
func MapImportToResponse(outcomes *outcome.Outcomes[*keysDomain.PublicSigningKey]) ImportKeysResponse {
	response := ImportKeysResponse{
		Stored:   outcomes.ResultCount(),
		Warnings: outcomes.WarningCount(),
		Errors:   outcomes.ErrorCount(),
		Outcomes: make([]ImportOutcomeResponse, 0, outcomes.Len()),
	}

	outcomes.Each(func(key string, o outcome.Outcome[*keysDomain.PublicSigningKey]) {
		entry := ImportOutcomeResponse{Key: key, Status: StatusOK}

		if stored, err := o.Result(); err == nil {
			detail := MapKeyToResponse(stored)
			entry.Detail = &detail
		} else if partial, ok := o.Partial(); ok {
			detail := MapKeyToResponse(partial)
			entry.Detail = &detail
		}

		switch {
		case o.Warned():
			entry.Status = StatusWarning
			entry.Warning = o.WarningCause().Error()
		case !o.OK():
			entry.Status = StatusError
			entry.Error = o.Cause().Error()
		}

		response.Outcomes = append(response.Outcomes, entry)
	})

	return response
}

// LinkKeyResponse reports a link or unlink operation together with the
// artifact regeneration side effect.
type LinkKeyResponse struct {
	Committee     string `json:"committee"`
	Fingerprint   string `json:"fingerprint"`
	Warning       string `json:"warning,omitempty"`
	KeysFile      string `json:"keys_file_status"`
	KeysFileError string `json:"keys_file_error,omitempty"`
}

// RegenerateKeysFileResponse reports a rebuilt KEYS artifact.
type RegenerateKeysFileResponse struct {
	Committee string `json:"committee"`
	KeysFile  string `json:"keys_file"`
}

// PurgeKeysResponse reports a committee key purge.
type PurgeKeysResponse struct {
	Committee     string `json:"committee"`
	Unlinked      int64  `json:"unlinked"`
	Deleted       int64  `json:"deleted"`
	KeysFile      string `json:"keys_file_status"`
	KeysFileError string `json:"keys_file_error,omitempty"`
}
