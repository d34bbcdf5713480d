package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	authDomain "github.com/openfoundry/releases/internal/auth/domain"
	authUseCase "github.com/openfoundry/releases/internal/auth/usecase"
)

// RunListPATs lists the personal access tokens owned by a foundation
// account, newest first. Plaintext tokens are never available here.
func RunListPATs(
	ctx context.Context,
	tokenUseCase authUseCase.TokenUseCase,
	logger *slog.Logger,
	writer io.Writer,
	uid string,
	format string,
) error {
	principal := &authDomain.Principal{UID: uid}

	tokens, err := tokenUseCase.ListPATs(ctx, principal)
	if err != nil {
		return fmt.Errorf("failed to list tokens: %w", err)
	}

	if format == "json" {
		type tokenRow struct {
			ID        string `json:"id"`
			ExpiresAt string `json:"expires_at"`
			RevokedAt string `json:"revoked_at,omitempty"`
			CreatedAt string `json:"created_at"`
		}
		rows := make([]tokenRow, 0, len(tokens))
		for _, token := range tokens {
			row := tokenRow{
				ID:        token.ID.String(),
				ExpiresAt: token.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"),
				CreatedAt: token.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			}
			if token.RevokedAt != nil {
				row.RevokedAt = token.RevokedAt.Format("2006-01-02T15:04:05Z07:00")
			}
			rows = append(rows, row)
		}
		writeJSON(rows, writer)
		return nil
	}

	if len(tokens) == 0 {
		_, _ = fmt.Fprintf(writer, "No tokens found for %s\n", uid)
		return nil
	}

	_, _ = fmt.Fprintf(writer, "Tokens for %s:\n", uid)
	for _, token := range tokens {
		status := "active"
		if token.Revoked() {
			status = "revoked"
		}
		_, _ = fmt.Fprintf(writer, "  %s  expires %s  %s\n",
			token.ID.String(),
			token.ExpiresAt.Format("2006-01-02"),
			status,
		)
	}

	return nil
}
