package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	authDomain "github.com/openfoundry/releases/internal/auth/domain"
	"github.com/openfoundry/releases/internal/storage"
)

// RunDeleteCommitteeKeys unlinks every key from a committee, deletes key
// records no longer linked anywhere, and rewrites the now-empty artifact.
//
// Requirements: Database must be migrated and the artifact bucket reachable.
func RunDeleteCommitteeKeys(
	ctx context.Context,
	storageService *storage.Service,
	logger *slog.Logger,
	writer io.Writer,
	committeeName string,
	uid string,
	format string,
) error {
	logger.Info("purging committee keys",
		slog.String("committee", committeeName),
		slog.String("uid", uid),
	)

	principal := &authDomain.Principal{UID: uid, Admin: true}

	session, err := storageService.Open(ctx, principal)
	if err != nil {
		return fmt.Errorf("failed to open storage session: %w", err)
	}

	member, err := session.AsCommitteeMember(committeeName)
	if err != nil {
		_ = session.Close(err)
		return fmt.Errorf("failed to derive committee privilege: %w", err)
	}

	o := member.DeleteCommitteeKeys()
	if closeErr := session.Close(o.Cause()); closeErr != nil {
		return closeErr
	}

	report, err := o.Result()
	if err != nil {
		return fmt.Errorf("failed to purge committee keys: %w", err)
	}

	artifactStatus := "ok"
	if cause := report.Artifact.Cause(); cause != nil {
		artifactStatus = cause.Error()
	}

	if format == "json" {
		writeJSON(map[string]any{
			"committee": committeeName,
			"unlinked":  report.UnlinkedCount,
			"deleted":   report.DeletedCount,
			"keys_file": artifactStatus,
		}, writer)
	} else {
		_, _ = fmt.Fprintf(writer, "Purged keys for %s\n", committeeName)
		_, _ = fmt.Fprintf(writer, "Unlinked: %d\n", report.UnlinkedCount)
		_, _ = fmt.Fprintf(writer, "Deleted: %d\n", report.DeletedCount)
		_, _ = fmt.Fprintf(writer, "Keys file: %s\n", artifactStatus)
	}

	logger.Info("committee keys purged",
		slog.String("committee", committeeName),
		slog.Int64("unlinked", report.UnlinkedCount),
		slog.Int64("deleted", report.DeletedCount),
	)

	return nil
}
