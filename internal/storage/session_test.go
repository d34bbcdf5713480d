package storage

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/memblob"

	authDomain "github.com/openfoundry/releases/internal/auth/domain"
	apperrors "github.com/openfoundry/releases/internal/errors"
	keysService "github.com/openfoundry/releases/internal/keys/service"
)

// testDeps bundles a storage service with its mocked collaborators.
type testDeps struct {
	svc        *Service
	mock       sqlmock.Sqlmock
	keys       *MockKeyRepository
	membership *MockMembershipRepository
	keysFiles  keysService.KeysFileStore
}

func newTestService(t *testing.T) *testDeps {
	t.Helper()

	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	bucket, err := blob.OpenBucket(context.Background(), "mem://")
	require.NoError(t, err)
	t.Cleanup(func() { _ = bucket.Close() })

	keys := &MockKeyRepository{}
	membership := &MockMembershipRepository{}
	keysFiles := keysService.NewBlobKeysFileStore(bucket)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := NewService(db, keys, membership, keysService.NewKeyParser(), keysFiles, nil, logger)

	return &testDeps{
		svc:        svc,
		mock:       dbMock,
		keys:       keys,
		membership: membership,
		keysFiles:  keysFiles,
	}
}

func TestService_Open(t *testing.T) {
	t.Run("begins a transaction", func(t *testing.T) {
		deps := newTestService(t)
		deps.mock.ExpectBegin()
		deps.mock.ExpectCommit()

		session, err := deps.svc.Open(context.Background(), &authDomain.Principal{UID: "sbp"})
		require.NoError(t, err)
		require.NoError(t, session.Close(nil))
		assert.NoError(t, deps.mock.ExpectationsWereMet())
	})

	t.Run("unreachable store", func(t *testing.T) {
		deps := newTestService(t)
		deps.mock.ExpectBegin().WillReturnError(assert.AnError)

		_, err := deps.svc.Open(context.Background(), &authDomain.Principal{UID: "sbp"})
		assert.ErrorIs(t, err, apperrors.ErrUnavailable)
	})
}

func TestSession_Close(t *testing.T) {
	t.Run("commits on nil error", func(t *testing.T) {
		deps := newTestService(t)
		deps.mock.ExpectBegin()
		deps.mock.ExpectCommit()

		session, err := deps.svc.Open(context.Background(), nil)
		require.NoError(t, err)
		assert.NoError(t, session.Close(nil))
		assert.NoError(t, deps.mock.ExpectationsWereMet())
	})

	t.Run("rolls back on operation error", func(t *testing.T) {
		deps := newTestService(t)
		deps.mock.ExpectBegin()
		deps.mock.ExpectRollback()

		session, err := deps.svc.Open(context.Background(), nil)
		require.NoError(t, err)
		assert.NoError(t, session.Close(assert.AnError))
		assert.NoError(t, deps.mock.ExpectationsWereMet())
	})

	t.Run("rolls back on cancelled context", func(t *testing.T) {
		deps := newTestService(t)
		deps.mock.ExpectBegin()
		deps.mock.ExpectRollback()

		ctx, cancel := context.WithCancel(context.Background())
		session, err := deps.svc.Open(ctx, nil)
		require.NoError(t, err)

		cancel()
		assert.NoError(t, session.Close(nil))
		assert.NoError(t, deps.mock.ExpectationsWereMet())
	})

	t.Run("idempotent", func(t *testing.T) {
		deps := newTestService(t)
		deps.mock.ExpectBegin()
		deps.mock.ExpectCommit()

		session, err := deps.svc.Open(context.Background(), nil)
		require.NoError(t, err)
		assert.NoError(t, session.Close(nil))
		assert.NoError(t, session.Close(nil))
		assert.NoError(t, deps.mock.ExpectationsWereMet())
	})
}
