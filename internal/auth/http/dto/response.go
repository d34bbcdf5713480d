// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	authDomain "github.com/openfoundry/releases/internal/auth/domain"
)

// ExchangeJWTResponse contains the result of a credential exchange.
type ExchangeJWTResponse struct {
	ASFUID string `json:"asfuid"`
	JWT    string `json:"jwt"`
}

// IssuePATResponse contains the result of minting a personal access token.
// SECURITY: The token is only returned once and must be saved securely.
type IssuePATResponse struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PATResponse represents a personal access token in API responses
// (excludes the token hash).
type PATResponse struct {
	ID        string     `json:"id"`
	ExpiresAt time.Time  `json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// MapPATToResponse converts a domain token to an API response.
func MapPATToResponse(pat *authDomain.PersonalAccessToken) PATResponse {
	return PATResponse{
		ID:        pat.ID.String(),
		ExpiresAt: pat.ExpiresAt,
		RevokedAt: pat.RevokedAt,
		CreatedAt: pat.CreatedAt,
	}
}

// ListPATsResponse represents a list of personal access tokens in API responses.
type ListPATsResponse struct {
	Data []PATResponse `json:"data"`
}

// MapPATsToListResponse converts a slice of domain tokens to a list API response.
func MapPATsToListResponse(pats []*authDomain.PersonalAccessToken) ListPATsResponse {
	responses := make([]PATResponse, 0, len(pats))
	for _, pat := range pats {
		responses = append(responses, MapPATToResponse(pat))
	}
	return ListPATsResponse{
		Data: responses,
	}
}
