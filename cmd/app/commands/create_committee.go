package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	committeeUsecase "github.com/openfoundry/releases/internal/committee/usecase"
)

// RunCreateCommittee registers a new committee. Outputs the created record
// in either text or JSON format.
//
// Requirements: Database must be migrated and accessible.
func RunCreateCommittee(
	ctx context.Context,
	committeeUseCase committeeUsecase.CommitteeUseCase,
	logger *slog.Logger,
	writer io.Writer,
	name string,
	displayName string,
	format string,
) error {
	logger.Info("creating committee", slog.String("name", name))

	committee, err := committeeUseCase.Create(ctx, name, displayName)
	if err != nil {
		return fmt.Errorf("failed to create committee: %w", err)
	}

	if format == "json" {
		writeJSON(map[string]string{
			"id":           committee.ID.String(),
			"name":         committee.Name,
			"display_name": committee.DisplayName,
		}, writer)
	} else {
		_, _ = fmt.Fprintf(writer, "Committee created: %s (%s)\n", committee.Name, committee.DisplayName)
		_, _ = fmt.Fprintf(writer, "ID: %s\n", committee.ID.String())
	}

	logger.Info("committee created successfully",
		slog.String("committee_id", committee.ID.String()),
		slog.String("name", committee.Name),
	)

	return nil
}
