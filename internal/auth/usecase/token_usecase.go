// Package usecase implements business logic orchestration for authentication operations.
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/openfoundry/releases/internal/auth/domain"
	authService "github.com/openfoundry/releases/internal/auth/service"
	"github.com/openfoundry/releases/internal/config"
	apperrors "github.com/openfoundry/releases/internal/errors"
)

// tokenUseCase implements TokenUseCase for managing authentication tokens.
type tokenUseCase struct {
	config       *config.Config
	patRepo      PATRepository
	patService   authService.PATService
	tokenService authService.SessionTokenService
}

// IssuePAT generates a new personal access token for the principal.
//
// This method:
// 1. Requires an authenticated principal (identity is established by the
//    external identity provider upstream of this call)
// 2. Generates a cryptographically random token
// 3. Persists only the SHA-256 hash plus metadata
// 4. Returns the plaintext exactly once
//
// Security Notes:
//   - The plaintext is never stored and never logged
//   - Expiration is fixed from Config.PATExpiration at issuance
func (t *tokenUseCase) IssuePAT(
	ctx context.Context,
	principal *authDomain.Principal,
) (*authDomain.IssuePATOutput, error) {
	if principal == nil || principal.UID == "" {
		return nil, apperrors.ErrUnauthenticated
	}

	plainToken, tokenHash, err := t.patService.Generate()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	pat := &authDomain.PersonalAccessToken{
		ID:        uuid.Must(uuid.NewV7()),
		UID:       principal.UID,
		TokenHash: tokenHash,
		ExpiresAt: now.Add(t.config.PATExpiration),
		RevokedAt: nil,
		CreatedAt: now,
	}

	if err := t.patRepo.Create(ctx, pat); err != nil {
		return nil, err
	}

	return &authDomain.IssuePATOutput{
		PlainToken: plainToken,
		Token:      pat,
	}, nil
}

// ListPATs returns the principal's own tokens, hash and metadata only.
func (t *tokenUseCase) ListPATs(
	ctx context.Context,
	principal *authDomain.Principal,
) ([]*authDomain.PersonalAccessToken, error) {
	if principal == nil || principal.UID == "" {
		return nil, apperrors.ErrUnauthenticated
	}
	return t.patRepo.ListByUID(ctx, principal.UID)
}

// RevokePAT marks a personal access token revoked. Callable by the owning
// principal or an administrator; anyone else gets ErrForbidden. Revoking an
// already revoked token is a no-op.
func (t *tokenUseCase) RevokePAT(
	ctx context.Context,
	caller *authDomain.Principal,
	patID uuid.UUID,
) error {
	if caller == nil || caller.UID == "" {
		return apperrors.ErrUnauthenticated
	}

	pat, err := t.patRepo.Get(ctx, patID)
	if err != nil {
		return err
	}

	if pat.UID != caller.UID && !caller.Admin {
		return apperrors.ErrForbidden
	}

	if pat.Revoked() {
		return nil
	}

	return t.patRepo.Revoke(ctx, pat.ID, time.Now().UTC())
}

// IssueJWT exchanges a plaintext personal access token for a session token.
//
// This is the sole path from long-lived to short-lived credential and must
// be reachable without a prior session token. A PAT never grants direct
// access to protected operations.
//
// Security Notes:
//   - Lookup is by (uid, hash); a non-matching credential yields
//     ErrInvalidCredential without revealing whether the uid exists
//   - Expired and revoked tokens are reported distinctly so the owner can
//     tell a stale credential from an invalidated one
//   - All time comparisons use UTC
func (t *tokenUseCase) IssueJWT(
	ctx context.Context,
	input *authDomain.IssueJWTInput,
) (*authDomain.IssueJWTOutput, error) {
	if input == nil || input.UID == "" || input.PlainPAT == "" {
		return nil, apperrors.ErrInvalidCredential
	}

	tokenHash := t.patService.Hash(input.PlainPAT)
	pat, err := t.patRepo.GetByTokenHash(ctx, input.UID, tokenHash)
	if err != nil {
		if errors.Is(err, authDomain.ErrPATNotFound) {
			return nil, apperrors.ErrInvalidCredential
		}
		return nil, err
	}

	now := time.Now().UTC()
	if pat.Expired(now) {
		return nil, apperrors.ErrExpired
	}
	if pat.Revoked() {
		return nil, apperrors.ErrRevoked
	}

	token, claims, err := t.tokenService.Issue(pat.UID, t.config.JWTExpiration)
	if err != nil {
		return nil, err
	}

	return &authDomain.IssueJWTOutput{
		UID:       pat.UID,
		JWT:       token,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

// VerifyJWT validates a session token and derives the request principal.
// Purely computational: signature and claim checks only, no store access,
// hence no replay detection and no individual session revocation.
func (t *tokenUseCase) VerifyJWT(ctx context.Context, token string) (*authDomain.Principal, error) {
	claims, err := t.tokenService.Verify(token)
	if err != nil {
		return nil, err
	}

	return &authDomain.Principal{
		UID:             claims.UID,
		Admin:           t.config.IsAdmin(claims.UID),
		TokenID:         claims.TokenID,
		AuthenticatedAt: time.Now().UTC(),
	}, nil
}

// NewTokenUseCase creates a new TokenUseCase with the provided dependencies.
func NewTokenUseCase(
	config *config.Config,
	patRepo PATRepository,
	patService authService.PATService,
	tokenService authService.SessionTokenService,
) TokenUseCase {
	return &tokenUseCase{
		config:       config,
		patRepo:      patRepo,
		patService:   patService,
		tokenService: tokenService,
	}
}
