package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/openfoundry/releases/internal/auth/domain"
)

// PATRepository defines persistence operations for personal access tokens.
type PATRepository interface {
	// Create inserts a new token record.
	Create(ctx context.Context, pat *authDomain.PersonalAccessToken) error

	// Get retrieves a token by its id.
	Get(ctx context.Context, id uuid.UUID) (*authDomain.PersonalAccessToken, error)

	// GetByTokenHash retrieves a token by owner uid and token hash.
	GetByTokenHash(ctx context.Context, uid, tokenHash string) (*authDomain.PersonalAccessToken, error)

	// ListByUID lists all tokens owned by the given uid, newest first.
	ListByUID(ctx context.Context, uid string) ([]*authDomain.PersonalAccessToken, error)

	// Revoke marks the token revoked at the given time.
	Revoke(ctx context.Context, id uuid.UUID, revokedAt time.Time) error
}

// TokenUseCase orchestrates the credential lifecycle: issuing and revoking
// personal access tokens, exchanging them for session tokens, and verifying
// session tokens into principals.
type TokenUseCase interface {
	IssuePAT(ctx context.Context, principal *authDomain.Principal) (*authDomain.IssuePATOutput, error)
	ListPATs(ctx context.Context, principal *authDomain.Principal) ([]*authDomain.PersonalAccessToken, error)
	RevokePAT(ctx context.Context, caller *authDomain.Principal, patID uuid.UUID) error
	IssueJWT(ctx context.Context, input *authDomain.IssueJWTInput) (*authDomain.IssueJWTOutput, error)
	VerifyJWT(ctx context.Context, token string) (*authDomain.Principal, error)
}
