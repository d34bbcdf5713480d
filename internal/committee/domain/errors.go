package domain

import (
	"github.com/openfoundry/releases/internal/errors"
)

// ErrCommitteeNotFound is returned when a committee does not exist.
var ErrCommitteeNotFound = errors.Wrap(errors.ErrNotFound, "committee not found")

// ErrMemberNotFound is returned when a membership record does not exist.
var ErrMemberNotFound = errors.Wrap(errors.ErrNotFound, "committee member not found")
