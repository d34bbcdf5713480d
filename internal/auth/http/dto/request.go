// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/openfoundry/releases/internal/validation"
)

// ExchangeJWTRequest contains the parameters for exchanging a personal
// access token for a session token.
type ExchangeJWTRequest struct {
	ASFUID string `json:"asfuid"`
	PAT    string `json:"pat"`
}

// Validate checks if the exchange request is valid.
func (r *ExchangeJWTRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ASFUID,
			validation.Required,
			customValidation.NotBlank,
			customValidation.UID,
		),
		validation.Field(&r.PAT,
			validation.Required,
			customValidation.NotBlank,
			customValidation.NoWhitespace,
		),
	)
}
