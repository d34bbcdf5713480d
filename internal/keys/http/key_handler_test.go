package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/memblob"
	"golang.org/x/crypto/openpgp"
	"golang.org/x/crypto/openpgp/armor"
	"golang.org/x/crypto/openpgp/packet"

	authDomain "github.com/openfoundry/releases/internal/auth/domain"
	authHTTP "github.com/openfoundry/releases/internal/auth/http"
	committeeDomain "github.com/openfoundry/releases/internal/committee/domain"
	keysDomain "github.com/openfoundry/releases/internal/keys/domain"
	"github.com/openfoundry/releases/internal/keys/http/dto"
	keysService "github.com/openfoundry/releases/internal/keys/service"
	"github.com/openfoundry/releases/internal/storage"
)

// MockKeyRepository is a mock implementation of storage.KeyRepository.
type MockKeyRepository struct {
	mock.Mock
}

func (m *MockKeyRepository) EnsureStored(
	ctx context.Context,
	key *keysDomain.PublicSigningKey,
) (*keysDomain.PublicSigningKey, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*keysDomain.PublicSigningKey), args.Bool(1), args.Error(2)
}

func (m *MockKeyRepository) Get(
	ctx context.Context,
	fingerprint string,
) (*keysDomain.PublicSigningKey, error) {
	args := m.Called(ctx, fingerprint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*keysDomain.PublicSigningKey), args.Error(1)
}

func (m *MockKeyRepository) ListByCommittee(
	ctx context.Context,
	committeeName string,
	offset, limit int,
) ([]*keysDomain.PublicSigningKey, error) {
	args := m.Called(ctx, committeeName, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*keysDomain.PublicSigningKey), args.Error(1)
}

func (m *MockKeyRepository) ListLinked(
	ctx context.Context,
	committeeName string,
) ([]*keysDomain.PublicSigningKey, error) {
	args := m.Called(ctx, committeeName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*keysDomain.PublicSigningKey), args.Error(1)
}

func (m *MockKeyRepository) Link(
	ctx context.Context,
	committeeName, fingerprint string,
) (*keysDomain.KeyLink, bool, error) {
	args := m.Called(ctx, committeeName, fingerprint)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*keysDomain.KeyLink), args.Bool(1), args.Error(2)
}

func (m *MockKeyRepository) Unlink(
	ctx context.Context,
	committeeName, fingerprint string,
) error {
	args := m.Called(ctx, committeeName, fingerprint)
	return args.Error(0)
}

func (m *MockKeyRepository) UnlinkAll(
	ctx context.Context,
	committeeName string,
) (int64, error) {
	args := m.Called(ctx, committeeName)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockKeyRepository) DeleteOrphans(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockMembershipRepository is a mock implementation of
// storage.MembershipRepository.
type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) GetByName(
	ctx context.Context,
	name string,
) (*committeeDomain.Committee, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*committeeDomain.Committee), args.Error(1)
}

func (m *MockMembershipRepository) List(ctx context.Context) ([]*committeeDomain.Committee, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*committeeDomain.Committee), args.Error(1)
}

func (m *MockMembershipRepository) IsFoundationCommitter(
	ctx context.Context,
	uid string,
) (bool, error) {
	args := m.Called(ctx, uid)
	return args.Bool(0), args.Error(1)
}

func (m *MockMembershipRepository) IsParticipant(
	ctx context.Context,
	committeeName, uid string,
) (bool, error) {
	args := m.Called(ctx, committeeName, uid)
	return args.Bool(0), args.Error(1)
}

func (m *MockMembershipRepository) IsMember(
	ctx context.Context,
	committeeName, uid string,
) (bool, error) {
	args := m.Called(ctx, committeeName, uid)
	return args.Bool(0), args.Error(1)
}

// keyTestDeps bundles a key handler with its mocked collaborators.
type keyTestDeps struct {
	handler    *KeyHandler
	dbMock     sqlmock.Sqlmock
	keys       *MockKeyRepository
	membership *MockMembershipRepository
	keysFiles  keysService.KeysFileStore
}

func setupKeyTestHandler(t *testing.T) *keyTestDeps {
	t.Helper()

	gin.SetMode(gin.TestMode)

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

	storageService := storage.NewService(db, keys, membership,
		keysService.NewKeyParser(), keysFiles, nil, logger)

	return &keyTestDeps{
		handler:    NewKeyHandler(storageService, logger),
		dbMock:     dbMock,
		keys:       keys,
		membership: membership,
		keysFiles:  keysFiles,
	}
}

// createTestContext creates a test Gin context with the given request.
func createTestContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	return c, w
}

// authenticateTestContext places a principal in the request context.
func authenticateTestContext(c *gin.Context, principal *authDomain.Principal) {
	ctx := authHTTP.WithPrincipal(c.Request.Context(), principal)
	c.Request = c.Request.WithContext(ctx)
}

// generateArmoredKey creates a throwaway RSA key and returns its armored
// public block plus its fingerprint.
func generateArmoredKey(t *testing.T, email string) (string, string) {
	t.Helper()

	config := &packet.Config{RSABits: 1024}
	entity, err := openpgp.NewEntity("Test Signer", "", email, config)
	require.NoError(t, err)

	var buf bytes.Buffer
	w, err := armor.Encode(&buf, openpgp.PublicKeyType, nil)
	require.NoError(t, err)
	require.NoError(t, entity.Serialize(w))
	require.NoError(t, w.Close())

	armored := buf.String()
	key, err := keysService.NewKeyParser().ParseArmored(armored)
	require.NoError(t, err)

	return armored, key.Fingerprint
}

func admin() *authDomain.Principal {
	return &authDomain.Principal{UID: "sbp", Admin: true}
}

func tooling() *committeeDomain.Committee {
	return &committeeDomain.Committee{Name: "tooling", DisplayName: "Tooling"}
}

func TestKeyHandler_StoreKeyHandler(t *testing.T) {
	t.Run("Success_StoresKey", func(t *testing.T) {
		deps := setupKeyTestHandler(t)
		deps.dbMock.ExpectBegin()
		deps.dbMock.ExpectCommit()

		armored, fingerprint := generateArmoredKey(t, "one@example.org")
		deps.keys.On("EnsureStored", mock.Anything, mock.Anything).
			Return(&keysDomain.PublicSigningKey{Fingerprint: fingerprint, ApacheUID: "sbp"}, true, nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/keys", dto.StoreKeyRequest{ASCIIArmored: armored})
		authenticateTestContext(c, admin())

		deps.handler.StoreKeyHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.KeyResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, fingerprint, response.Fingerprint)
		assert.NoError(t, deps.dbMock.ExpectationsWereMet())
	})

	t.Run("Error_NotAuthenticated", func(t *testing.T) {
		deps := setupKeyTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/keys", dto.StoreKeyRequest{ASCIIArmored: "block"})

		deps.handler.StoreKeyHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_NotACommitter", func(t *testing.T) {
		deps := setupKeyTestHandler(t)
		deps.dbMock.ExpectBegin()
		deps.dbMock.ExpectRollback()

		deps.membership.On("IsFoundationCommitter", mock.Anything, "visitor").
			Return(false, nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/keys", dto.StoreKeyRequest{ASCIIArmored: "block"})
		authenticateTestContext(c, &authDomain.Principal{UID: "visitor"})

		deps.handler.StoreKeyHandler(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.NoError(t, deps.dbMock.ExpectationsWereMet())
	})

	t.Run("Error_MalformedKey", func(t *testing.T) {
		deps := setupKeyTestHandler(t)
		deps.dbMock.ExpectBegin()
		deps.dbMock.ExpectRollback()

		c, w := createTestContext(http.MethodPost, "/v1/keys", dto.StoreKeyRequest{ASCIIArmored: "not a key"})
		authenticateTestContext(c, admin())

		deps.handler.StoreKeyHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		deps.keys.AssertNotCalled(t, "EnsureStored")
	})
}

func TestKeyHandler_ImportKeysHandler(t *testing.T) {
	t.Run("Success_MixedBlocks", func(t *testing.T) {
		deps := setupKeyTestHandler(t)
		deps.dbMock.ExpectBegin()
		deps.dbMock.ExpectCommit()

		armored, fingerprint := generateArmoredKey(t, "one@example.org")
		malformed := "-----BEGIN PGP PUBLIC KEY BLOCK-----\nnot base64\n-----END PGP PUBLIC KEY BLOCK-----"
		key := &keysDomain.PublicSigningKey{Fingerprint: fingerprint, ASCIIArmored: armored}

		deps.membership.On("GetByName", mock.Anything, "tooling").Return(tooling(), nil).Once()
		deps.keys.On("EnsureStored", mock.Anything, mock.Anything).Return(key, true, nil).Once()
		deps.keys.On("Link", mock.Anything, "tooling", fingerprint).
			Return(&keysDomain.KeyLink{CommitteeName: "tooling", Fingerprint: fingerprint}, true, nil).Once()
		deps.keys.On("ListLinked", mock.Anything, "tooling").
			Return([]*keysDomain.PublicSigningKey{key}, nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/committees/tooling/keys/import",
			dto.ImportKeysRequest{KeysText: armored + "\n" + malformed})
		c.Params = gin.Params{{Key: "name", Value: "tooling"}}
		authenticateTestContext(c, admin())

		deps.handler.ImportKeysHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.ImportKeysResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, 1, response.Stored)
		assert.Equal(t, 1, response.Errors)
		assert.Equal(t, dto.StatusOK, response.KeysFile)
		require.Len(t, response.Outcomes, 2)
		assert.Equal(t, fingerprint, response.Outcomes[0].Key)
		assert.Equal(t, "block-2", response.Outcomes[1].Key)
		assert.NoError(t, deps.dbMock.ExpectationsWereMet())
	})

	t.Run("Error_InvalidJSON", func(t *testing.T) {
		deps := setupKeyTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/committees/tooling/keys/import", nil)
		c.Params = gin.Params{{Key: "name", Value: "tooling"}}
		c.Request.Body = io.NopCloser(bytes.NewReader([]byte("{invalid")))
		authenticateTestContext(c, admin())

		deps.handler.ImportKeysHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_BadCommitteeName", func(t *testing.T) {
		deps := setupKeyTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/committees/Bad_Name/keys/import",
			dto.ImportKeysRequest{KeysText: "text"})
		c.Params = gin.Params{{Key: "name", Value: "Bad_Name"}}
		authenticateTestContext(c, admin())

		deps.handler.ImportKeysHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestKeyHandler_LinkKeyHandler(t *testing.T) {
	t.Run("Success_LinksAndRegenerates", func(t *testing.T) {
		deps := setupKeyTestHandler(t)
		deps.dbMock.ExpectBegin()
		deps.dbMock.ExpectCommit()

		armored, fingerprint := generateArmoredKey(t, "linked@example.org")
		key := &keysDomain.PublicSigningKey{Fingerprint: fingerprint, ASCIIArmored: armored}

		deps.membership.On("GetByName", mock.Anything, "tooling").Return(tooling(), nil).Once()
		deps.keys.On("Get", mock.Anything, fingerprint).Return(key, nil).Once()
		deps.keys.On("Link", mock.Anything, "tooling", fingerprint).
			Return(&keysDomain.KeyLink{CommitteeName: "tooling", Fingerprint: fingerprint}, true, nil).Once()
		deps.keys.On("ListLinked", mock.Anything, "tooling").
			Return([]*keysDomain.PublicSigningKey{key}, nil).Once()

		c, w := createTestContext(http.MethodPost,
			"/v1/committees/tooling/keys/"+fingerprint+"/link", nil)
		c.Params = gin.Params{
			{Key: "name", Value: "tooling"},
			{Key: "fingerprint", Value: fingerprint},
		}
		authenticateTestContext(c, admin())

		deps.handler.LinkKeyHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.LinkKeyResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "tooling", response.Committee)
		assert.Equal(t, fingerprint, response.Fingerprint)
		assert.Empty(t, response.Warning)
		assert.Equal(t, dto.StatusOK, response.KeysFile)

		content, err := deps.keysFiles.Read(context.Background(), "tooling")
		require.NoError(t, err)
		assert.Contains(t, content, fingerprint)
	})

	t.Run("Error_InvalidFingerprint", func(t *testing.T) {
		deps := setupKeyTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/committees/tooling/keys/xyz/link", nil)
		c.Params = gin.Params{
			{Key: "name", Value: "tooling"},
			{Key: "fingerprint", Value: "xyz"},
		}
		authenticateTestContext(c, admin())

		deps.handler.LinkKeyHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestKeyHandler_UnlinkKeyHandler(t *testing.T) {
	t.Run("Error_LinkNotFound", func(t *testing.T) {
		deps := setupKeyTestHandler(t)
		deps.dbMock.ExpectBegin()
		deps.dbMock.ExpectRollback()

		fingerprint := "0123456789abcdef0123456789abcdef01234567"

		deps.membership.On("GetByName", mock.Anything, "tooling").Return(tooling(), nil).Once()
		deps.keys.On("Unlink", mock.Anything, "tooling", fingerprint).
			Return(keysDomain.ErrLinkNotFound).Once()

		c, w := createTestContext(http.MethodPost,
			"/v1/committees/tooling/keys/"+fingerprint+"/unlink", nil)
		c.Params = gin.Params{
			{Key: "name", Value: "tooling"},
			{Key: "fingerprint", Value: fingerprint},
		}
		authenticateTestContext(c, admin())

		deps.handler.UnlinkKeyHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.NoError(t, deps.dbMock.ExpectationsWereMet())
	})
}

func TestKeyHandler_RegenerateKeysFileHandler(t *testing.T) {
	t.Run("Success_RebuildsArtifact", func(t *testing.T) {
		deps := setupKeyTestHandler(t)
		deps.dbMock.ExpectBegin()
		deps.dbMock.ExpectCommit()

		deps.membership.On("GetByName", mock.Anything, "tooling").Return(tooling(), nil).Once()
		deps.keys.On("ListLinked", mock.Anything, "tooling").
			Return([]*keysDomain.PublicSigningKey{}, nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/committees/tooling/keys-file", nil)
		c.Params = gin.Params{{Key: "name", Value: "tooling"}}
		authenticateTestContext(c, admin())

		deps.handler.RegenerateKeysFileHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.RegenerateKeysFileResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "tooling", response.Committee)
		assert.Contains(t, response.KeysFile, "Keys: 0")
	})

	t.Run("Error_NotAMember", func(t *testing.T) {
		deps := setupKeyTestHandler(t)
		deps.dbMock.ExpectBegin()
		deps.dbMock.ExpectRollback()

		deps.membership.On("GetByName", mock.Anything, "tooling").Return(tooling(), nil).Once()
		deps.membership.On("IsMember", mock.Anything, "tooling", "visitor").
			Return(false, nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/committees/tooling/keys-file", nil)
		c.Params = gin.Params{{Key: "name", Value: "tooling"}}
		authenticateTestContext(c, &authDomain.Principal{UID: "visitor"})

		deps.handler.RegenerateKeysFileHandler(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		deps.keys.AssertNotCalled(t, "ListLinked")
	})
}

func TestKeyHandler_PurgeCommitteeKeysHandler(t *testing.T) {
	deps := setupKeyTestHandler(t)
	deps.dbMock.ExpectBegin()
	deps.dbMock.ExpectCommit()

	deps.membership.On("GetByName", mock.Anything, "tooling").Return(tooling(), nil).Once()
	deps.keys.On("UnlinkAll", mock.Anything, "tooling").Return(int64(3), nil).Once()
	deps.keys.On("DeleteOrphans", mock.Anything).Return(int64(2), nil).Once()
	deps.keys.On("ListLinked", mock.Anything, "tooling").
		Return([]*keysDomain.PublicSigningKey{}, nil).Once()

	c, w := createTestContext(http.MethodPost, "/v1/admin/committees/tooling/keys/delete", nil)
	c.Params = gin.Params{{Key: "name", Value: "tooling"}}
	authenticateTestContext(c, admin())

	deps.handler.PurgeCommitteeKeysHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.PurgeKeysResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, int64(3), response.Unlinked)
	assert.Equal(t, int64(2), response.Deleted)
	assert.Equal(t, dto.StatusOK, response.KeysFile)
}

func TestKeyHandler_ListCommitteeKeysHandler(t *testing.T) {
	t.Run("Success_DefaultsPagination", func(t *testing.T) {
		deps := setupKeyTestHandler(t)
		deps.dbMock.ExpectBegin()
		deps.dbMock.ExpectCommit()

		keys := []*keysDomain.PublicSigningKey{
			{Fingerprint: "0123456789abcdef0123456789abcdef01234567"},
		}
		deps.keys.On("ListByCommittee", mock.Anything, "tooling", 0, 50).
			Return(keys, nil).Once()

		c, w := createTestContext(http.MethodGet, "/v1/committees/tooling/keys", nil)
		c.Params = gin.Params{{Key: "name", Value: "tooling"}}

		deps.handler.ListCommitteeKeysHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.ListKeysResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Data, 1)
		assert.Equal(t, keys[0].Fingerprint, response.Data[0].Fingerprint)
	})

	t.Run("Error_BadPagination", func(t *testing.T) {
		deps := setupKeyTestHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/committees/tooling/keys?limit=9999", nil)
		c.Params = gin.Params{{Key: "name", Value: "tooling"}}

		deps.handler.ListCommitteeKeysHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestKeyHandler_GetKeysFileHandler(t *testing.T) {
	t.Run("Success_ServesArtifact", func(t *testing.T) {
		deps := setupKeyTestHandler(t)
		deps.dbMock.ExpectBegin()
		deps.dbMock.ExpectCommit()

		require.NoError(t, deps.keysFiles.Write(context.Background(), "tooling",
			"Signing keys for Tooling\n"))

		c, w := createTestContext(http.MethodGet, "/v1/committees/tooling/keys-file", nil)
		c.Params = gin.Params{{Key: "name", Value: "tooling"}}

		deps.handler.GetKeysFileHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Signing keys for Tooling")
	})

	t.Run("Error_NoArtifact", func(t *testing.T) {
		deps := setupKeyTestHandler(t)
		deps.dbMock.ExpectBegin()
		deps.dbMock.ExpectRollback()

		c, w := createTestContext(http.MethodGet, "/v1/committees/tooling/keys-file", nil)
		c.Params = gin.Params{{Key: "name", Value: "tooling"}}

		deps.handler.GetKeysFileHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
