package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	authDomain "github.com/openfoundry/releases/internal/auth/domain"
	authUseCase "github.com/openfoundry/releases/internal/auth/usecase"
)

// RunIssuePAT issues a new personal access token for a foundation account.
// The plaintext token is printed once and never stored; only its digest is
// persisted.
//
// Requirements: Database must be migrated and accessible.
func RunIssuePAT(
	ctx context.Context,
	tokenUseCase authUseCase.TokenUseCase,
	logger *slog.Logger,
	writer io.Writer,
	uid string,
	format string,
) error {
	logger.Info("issuing personal access token", slog.String("uid", uid))

	principal := &authDomain.Principal{UID: uid}

	output, err := tokenUseCase.IssuePAT(ctx, principal)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	if format == "json" {
		writeJSON(map[string]string{
			"id":         output.Token.ID.String(),
			"uid":        output.Token.UID,
			"token":      output.PlainToken,
			"expires_at": output.Token.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"),
		}, writer)
	} else {
		_, _ = fmt.Fprintln(writer, "Token issued successfully!")
		_, _ = fmt.Fprintf(writer, "ID: %s\n", output.Token.ID.String())
		_, _ = fmt.Fprintf(writer, "Token: %s\n", output.PlainToken)
		_, _ = fmt.Fprintf(writer, "Expires: %s\n", output.Token.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
		_, _ = fmt.Fprintln(writer, "\nIMPORTANT: The token is shown only once. Store it securely.")
	}

	logger.Info("token issued successfully",
		slog.String("token_id", output.Token.ID.String()),
		slog.String("uid", uid),
	)

	return nil
}
