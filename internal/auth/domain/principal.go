// Package domain defines the authentication domain models: principals,
// personal access tokens and session tokens.
//
// Identity originates from the foundation's external identity provider; this
// application never stores passwords. A long-lived personal access token
// (PAT) is exchanged for a short-lived signed session token (JWT), and only
// the session token grants access to protected endpoints.
package domain

import "time"

// Principal is an authenticated foundation identity. It is created at token
// verification time, is immutable, and is never persisted beyond the
// request or session lifetime.
type Principal struct {
	// UID is the foundation user id (e.g., "sbp").
	UID string

	// Admin reports whether the uid is configured as an administrator.
	Admin bool

	// TokenID is the unique identifier (jti) of the session token this
	// principal was derived from, when derived from one.
	TokenID string

	// AuthenticatedAt is when the credential was verified.
	AuthenticatedAt time.Time
}
