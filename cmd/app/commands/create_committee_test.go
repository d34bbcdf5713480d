package commands

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	committeeDomain "github.com/openfoundry/releases/internal/committee/domain"
)

func TestRunCreateCommittee(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("text", func(t *testing.T) {
		mockUseCase := &mockCommitteeUseCase{}
		committee := &committeeDomain.Committee{
			ID:          uuid.Must(uuid.NewV7()),
			Name:        "tooling",
			DisplayName: "Tooling Committee",
			CreatedAt:   time.Now().UTC(),
		}
		mockUseCase.On("Create", ctx, "tooling", "Tooling Committee").Return(committee, nil)

		var out bytes.Buffer
		err := RunCreateCommittee(ctx, mockUseCase, logger, &out, "tooling", "Tooling Committee", "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "tooling")
		require.Contains(t, out.String(), committee.ID.String())
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json", func(t *testing.T) {
		mockUseCase := &mockCommitteeUseCase{}
		committee := &committeeDomain.Committee{
			ID:          uuid.Must(uuid.NewV7()),
			Name:        "tooling",
			DisplayName: "tooling",
		}
		mockUseCase.On("Create", ctx, "tooling", "").Return(committee, nil)

		var out bytes.Buffer
		err := RunCreateCommittee(ctx, mockUseCase, logger, &out, "tooling", "", "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"name": "tooling"`)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("create-error", func(t *testing.T) {
		mockUseCase := &mockCommitteeUseCase{}
		mockUseCase.On("Create", ctx, "tooling", "").Return(nil, context.DeadlineExceeded)

		var out bytes.Buffer
		err := RunCreateCommittee(ctx, mockUseCase, logger, &out, "tooling", "", "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to create committee")
	})
}
