package domain

import (
	"github.com/openfoundry/releases/internal/errors"
)

// Authentication errors.
var (
	// ErrPATNotFound indicates no personal access token matched the given scope.
	ErrPATNotFound = errors.Wrap(errors.ErrNotFound, "personal access token not found")
)
