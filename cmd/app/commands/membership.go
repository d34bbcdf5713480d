package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	committeeDomain "github.com/openfoundry/releases/internal/committee/domain"
	committeeUsecase "github.com/openfoundry/releases/internal/committee/usecase"
)

// RunAddMember records an account's role within a committee. Adding any
// role also records the account as a foundation committer.
//
// Requirements: Database must be migrated and the committee must exist.
func RunAddMember(
	ctx context.Context,
	committeeUseCase committeeUsecase.CommitteeUseCase,
	logger *slog.Logger,
	writer io.Writer,
	committeeName string,
	uid string,
	role string,
) error {
	parsedRole := committeeDomain.Role(role)
	if !parsedRole.Valid() {
		return fmt.Errorf("invalid role: %s (valid options: member, committer)", role)
	}

	logger.Info("adding committee member",
		slog.String("committee", committeeName),
		slog.String("uid", uid),
		slog.String("role", role),
	)

	if err := committeeUseCase.AddMember(ctx, committeeName, uid, parsedRole); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}

	_, _ = fmt.Fprintf(writer, "Added %s to %s as %s\n", uid, committeeName, role)
	return nil
}

// RunRemoveMember deletes an account's membership record from a committee.
// The foundation committer record is left in place since the account may
// hold roles elsewhere.
func RunRemoveMember(
	ctx context.Context,
	committeeUseCase committeeUsecase.CommitteeUseCase,
	logger *slog.Logger,
	writer io.Writer,
	committeeName string,
	uid string,
) error {
	logger.Info("removing committee member",
		slog.String("committee", committeeName),
		slog.String("uid", uid),
	)

	if err := committeeUseCase.RemoveMember(ctx, committeeName, uid); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	_, _ = fmt.Fprintf(writer, "Removed %s from %s\n", uid, committeeName)
	return nil
}
