package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	authDomain "github.com/openfoundry/releases/internal/auth/domain"
	"github.com/openfoundry/releases/internal/outcome"
	"github.com/openfoundry/releases/internal/storage"
)

// RunRegenerateKeysFiles rebuilds the KEYS artifact for every committee,
// fanning the work out across committees with bounded concurrency. Each
// committee runs in its own storage session so one failure never rolls
// back another committee's artifact. Per-committee outcomes are reported
// rather than aborting the sweep.
//
// Requirements: Database must be migrated and the artifact bucket reachable.
func RunRegenerateKeysFiles(
	ctx context.Context,
	storageService *storage.Service,
	logger *slog.Logger,
	writer io.Writer,
	uid string,
	concurrency int,
	format string,
) error {
	if concurrency < 1 {
		concurrency = 1
	}

	// The CLI runs with direct database access, so the operator acts with
	// administrator privilege.
	principal := &authDomain.Principal{UID: uid, Admin: true}

	listSession, err := storageService.Open(ctx, principal)
	if err != nil {
		return fmt.Errorf("failed to open storage session: %w", err)
	}

	committees, err := listSession.AsGeneralPublic().Committees()
	if closeErr := listSession.Close(err); closeErr != nil {
		return closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to list committees: %w", err)
	}

	logger.Info("regenerating keys files",
		slog.Int("committees", len(committees)),
		slog.Int("concurrency", concurrency),
	)

	outcomes := outcome.NewOutcomes[string]()
	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)

	for _, committee := range committees {
		name := committee.Name
		group.Go(func() error {
			o := regenerateOne(groupCtx, storageService, principal, name)

			mu.Lock()
			outcomes.Append(name, o)
			mu.Unlock()

			if cause := o.Cause(); cause != nil {
				logger.Error("keys file regeneration failed",
					slog.String("committee", name),
					slog.Any("error", cause),
				)
			}
			return nil
		})
	}

	// Goroutines report failures through outcomes, never through the group.
	_ = group.Wait()

	reportRegeneration(outcomes, writer, format)

	logger.Info("keys file sweep finished",
		slog.Int("regenerated", outcomes.ResultCount()),
		slog.Int("failed", outcomes.ErrorCount()),
	)

	if outcomes.ErrorCount() > 0 {
		return fmt.Errorf("%d of %d committees failed", outcomes.ErrorCount(), outcomes.Len())
	}
	return nil
}

// regenerateOne rebuilds a single committee's artifact inside its own
// session. The session commits only when the rebuild succeeded.
func regenerateOne(
	ctx context.Context,
	storageService *storage.Service,
	principal *authDomain.Principal,
	committeeName string,
) outcome.Outcome[string] {
	session, err := storageService.Open(ctx, principal)
	if err != nil {
		return outcome.Error[string](err)
	}

	member, err := session.AsCommitteeMember(committeeName)
	if err != nil {
		_ = session.Close(err)
		return outcome.Error[string](err)
	}

	o := member.RegenerateKeysFile()
	if closeErr := session.Close(o.Cause()); closeErr != nil {
		return outcome.Error[string](closeErr)
	}
	return o
}

func reportRegeneration(outcomes *outcome.Outcomes[string], writer io.Writer, format string) {
	if format == "json" {
		type row struct {
			Committee string `json:"committee"`
			Status    string `json:"status"`
			Error     string `json:"error,omitempty"`
		}
		rows := make([]row, 0, outcomes.Len())
		outcomes.Each(func(key string, o outcome.Outcome[string]) {
			r := row{Committee: key, Status: "ok"}
			if cause := o.Cause(); cause != nil {
				r.Status = "error"
				r.Error = cause.Error()
			}
			rows = append(rows, r)
		})
		writeJSON(rows, writer)
		return
	}

	outcomes.Each(func(key string, o outcome.Outcome[string]) {
		if cause := o.Cause(); cause != nil {
			_, _ = fmt.Fprintf(writer, "%s: error: %v\n", key, cause)
			return
		}
		_, _ = fmt.Fprintf(writer, "%s: ok\n", key)
	})
	_, _ = fmt.Fprintf(writer, "\nRegenerated %d of %d keys files\n",
		outcomes.ResultCount(), outcomes.Len())
}
