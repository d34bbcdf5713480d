package domain

import (
	"github.com/openfoundry/releases/internal/errors"
)

// ErrKeyNotFound is returned when a public signing key does not exist.
var ErrKeyNotFound = errors.Wrap(errors.ErrNotFound, "public signing key not found")

// ErrLinkNotFound is returned when a key is not linked to the committee.
var ErrLinkNotFound = errors.Wrap(errors.ErrNotFound, "key link not found")

// ErrKeysFileNotFound is returned when a committee has no generated KEYS file.
var ErrKeysFileNotFound = errors.Wrap(errors.ErrNotFound, "keys file not found")
