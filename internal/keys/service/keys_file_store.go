package service

import (
	"context"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	apperrors "github.com/openfoundry/releases/internal/errors"
	keysDomain "github.com/openfoundry/releases/internal/keys/domain"
)

// keysFileName is the artifact name under each committee's prefix.
const keysFileName = "KEYS"

// blobKeysFileStore implements KeysFileStore on a gocloud.dev blob bucket.
// The artifact lives at <committee>/KEYS, so any blob driver with a
// hierarchical key space serves, file:// in development.
type blobKeysFileStore struct {
	bucket *blob.Bucket
}

// NewBlobKeysFileStore creates a KeysFileStore backed by the given bucket.
func NewBlobKeysFileStore(bucket *blob.Bucket) KeysFileStore {
	return &blobKeysFileStore{bucket: bucket}
}

// Write stores the KEYS artifact for a committee.
func (s *blobKeysFileStore) Write(ctx context.Context, committeeName, content string) error {
	key := committeeName + "/" + keysFileName
	if err := s.bucket.WriteAll(ctx, key, []byte(content), nil); err != nil {
		return apperrors.Wrap(err, "failed to write keys file")
	}
	return nil
}

// Read returns the stored KEYS artifact for a committee.
func (s *blobKeysFileStore) Read(ctx context.Context, committeeName string) (string, error) {
	key := committeeName + "/" + keysFileName
	data, err := s.bucket.ReadAll(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return "", keysDomain.ErrKeysFileNotFound
		}
		return "", apperrors.Wrap(err, "failed to read keys file")
	}
	return string(data), nil
}
