// Package domain contains the core entities for committees and membership.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role describes a person's standing within a committee.
type Role string

const (
	// RoleMember marks full committee membership. Members hold every
	// privilege participants do.
	RoleMember Role = "member"

	// RoleCommitter marks participation without full membership.
	RoleCommitter Role = "committer"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleMember || r == RoleCommitter
}

// Committee represents a project management committee within the foundation.
type Committee struct {
	ID          uuid.UUID
	Name        string
	DisplayName string
	CreatedAt   time.Time
}

// Member associates an account with a committee under a role.
type Member struct {
	CommitteeID uuid.UUID
	UID         string
	Role        Role
	CreatedAt   time.Time
}
