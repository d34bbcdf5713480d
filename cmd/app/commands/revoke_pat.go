package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	authDomain "github.com/openfoundry/releases/internal/auth/domain"
	authUseCase "github.com/openfoundry/releases/internal/auth/usecase"
)

// RunRevokePAT revokes a personal access token by id. Sessions already
// minted from the token stay valid until they expire.
func RunRevokePAT(
	ctx context.Context,
	tokenUseCase authUseCase.TokenUseCase,
	logger *slog.Logger,
	writer io.Writer,
	uid string,
	patID string,
) error {
	id, err := uuid.Parse(patID)
	if err != nil {
		return fmt.Errorf("invalid token id: %w", err)
	}

	logger.Info("revoking personal access token",
		slog.String("uid", uid),
		slog.String("token_id", id.String()),
	)

	caller := &authDomain.Principal{UID: uid, Admin: true}

	if err := tokenUseCase.RevokePAT(ctx, caller, id); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	_, _ = fmt.Fprintf(writer, "Token %s revoked\n", id.String())
	return nil
}
