package storage

import (
	"context"
	"database/sql"
	"log/slog"

	authDomain "github.com/openfoundry/releases/internal/auth/domain"
	"github.com/openfoundry/releases/internal/database"
	apperrors "github.com/openfoundry/releases/internal/errors"
	keysService "github.com/openfoundry/releases/internal/keys/service"
)

// Service opens storage sessions. It owns the shared dependencies every
// session needs: the database handle for transactions, the repositories,
// the key parser, the artifact store and the audit recorder.
type Service struct {
	db         *sql.DB
	keys       KeyRepository
	membership MembershipRepository
	parser     keysService.KeyParser
	keysFiles  keysService.KeysFileStore
	recorder   Recorder
	logger     *slog.Logger
}

// NewService creates a storage service with required dependencies.
func NewService(
	db *sql.DB,
	keys KeyRepository,
	membership MembershipRepository,
	parser keysService.KeyParser,
	keysFiles keysService.KeysFileStore,
	recorder Recorder,
	logger *slog.Logger,
) *Service {
	if recorder == nil {
		recorder = NopRecorder()
	}
	return &Service{
		db:         db,
		keys:       keys,
		membership: membership,
		parser:     parser,
		keysFiles:  keysFiles,
		recorder:   recorder,
		logger:     logger,
	}
}

// Open begins a storage session for the given principal. The session owns a
// database transaction; the caller must Close it. A nil principal opens an
// anonymous session that can only produce the GeneralPublic capability.
func (s *Service) Open(ctx context.Context, principal *authDomain.Principal) (*Session, error) {
	tx, err := database.Begin(ctx, s.db)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUnavailable, err.Error())
	}

	return &Session{
		svc:       s,
		principal: principal,
		tx:        tx,
		ctx:       database.WithTxContext(ctx, tx),
	}, nil
}
