package storage

import (
	"context"
	"log/slog"
	"time"
)

// Event describes a single write that went through a storage session.
type Event struct {
	UID         string
	Action      string
	Committee   string
	Fingerprint string
	OccurredAt  time.Time
}

// Recorder receives an Event for every write performed through a session.
// Implementations must not fail the write.
type Recorder interface {
	Record(ctx context.Context, event Event)
}

type noopRecorder struct{}

func (noopRecorder) Record(context.Context, Event) {}

// NopRecorder returns a Recorder that discards all events.
func NopRecorder() Recorder {
	return noopRecorder{}
}

// slogRecorder logs events through the structured logger.
type slogRecorder struct {
	logger *slog.Logger
}

// NewSlogRecorder returns a Recorder that logs every write event.
func NewSlogRecorder(logger *slog.Logger) Recorder {
	return &slogRecorder{logger: logger}
}

func (r *slogRecorder) Record(ctx context.Context, event Event) {
	r.logger.InfoContext(ctx, "storage write",
		slog.String("uid", event.UID),
		slog.String("action", event.Action),
		slog.String("committee", event.Committee),
		slog.String("fingerprint", event.Fingerprint),
		slog.Time("occurred_at", event.OccurredAt),
	)
}
