package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/openfoundry/releases/internal/auth/domain"
	"github.com/openfoundry/releases/internal/metrics"
)

// tokenUseCaseWithMetrics decorates TokenUseCase with metrics instrumentation.
type tokenUseCaseWithMetrics struct {
	next    TokenUseCase
	metrics metrics.BusinessMetrics
}

// NewTokenUseCaseWithMetrics wraps a TokenUseCase with metrics recording.
func NewTokenUseCaseWithMetrics(useCase TokenUseCase, m metrics.BusinessMetrics) TokenUseCase {
	return &tokenUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (t *tokenUseCaseWithMetrics) record(ctx context.Context, op string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	t.metrics.RecordOperation(ctx, "auth", op, status)
	t.metrics.RecordDuration(ctx, "auth", op, time.Since(start), status)
}

// IssuePAT records metrics for personal access token issuance.
func (t *tokenUseCaseWithMetrics) IssuePAT(
	ctx context.Context,
	principal *authDomain.Principal,
) (*authDomain.IssuePATOutput, error) {
	start := time.Now()
	output, err := t.next.IssuePAT(ctx, principal)
	t.record(ctx, "pat_issue", start, err)
	return output, err
}

// ListPATs records metrics for personal access token listing.
func (t *tokenUseCaseWithMetrics) ListPATs(
	ctx context.Context,
	principal *authDomain.Principal,
) ([]*authDomain.PersonalAccessToken, error) {
	start := time.Now()
	pats, err := t.next.ListPATs(ctx, principal)
	t.record(ctx, "pat_list", start, err)
	return pats, err
}

// RevokePAT records metrics for personal access token revocation.
func (t *tokenUseCaseWithMetrics) RevokePAT(
	ctx context.Context,
	caller *authDomain.Principal,
	patID uuid.UUID,
) error {
	start := time.Now()
	err := t.next.RevokePAT(ctx, caller, patID)
	t.record(ctx, "pat_revoke", start, err)
	return err
}

// IssueJWT records metrics for credential exchange.
func (t *tokenUseCaseWithMetrics) IssueJWT(
	ctx context.Context,
	input *authDomain.IssueJWTInput,
) (*authDomain.IssueJWTOutput, error) {
	start := time.Now()
	output, err := t.next.IssueJWT(ctx, input)
	t.record(ctx, "jwt_issue", start, err)
	return output, err
}

// VerifyJWT records metrics for session token verification.
func (t *tokenUseCaseWithMetrics) VerifyJWT(
	ctx context.Context,
	token string,
) (*authDomain.Principal, error) {
	start := time.Now()
	principal, err := t.next.VerifyJWT(ctx, token)
	t.record(ctx, "jwt_verify", start, err)
	return principal, err
}
