// Package dto provides data transfer objects for key HTTP request and
// response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/openfoundry/releases/internal/validation"
)

// StoreKeyRequest carries one ASCII-armored public key block.
type StoreKeyRequest struct {
	ASCIIArmored string `json:"armored"`
}

// Validate validates the store key request fields.
func (r StoreKeyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ASCIIArmored, validation.Required, customValidation.NotBlank),
	)
}

// ImportKeysRequest carries free-form text containing one or more
// ASCII-armored public key blocks, typically a whole KEYS file.
type ImportKeysRequest struct {
	KeysText string `json:"keys_text"`
}

// Validate validates the import request fields.
func (r ImportKeysRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.KeysText, validation.Required, customValidation.NotBlank),
	)
}
