// Package diagnostics is the channel fetch failures are reported on. Nothing
// here is shown to page visitors.
package diagnostics

import (
	"context"
	"time"

	"github.com/dhima/guild-log-viewer/internal/logging"
	"github.com/dhima/guild-log-viewer/internal/models"
	platformEvents "github.com/dhima/guild-log-viewer/platform/events"
	"go.uber.org/zap"
)

// publishTimeout bounds how long a fetch waits on the mirror.
const publishTimeout = 5 * time.Second

// Failure describes one failed fetch.
type Failure struct {
	ID         string
	Kind       models.LogKind
	Table      string
	Filter     string
	RequestID  string
	Err        error
	OccurredAt time.Time
}

// Reporter receives failures. Report runs on the fetching goroutine.
type Reporter interface {
	Report(ctx context.Context, f Failure)
}

// FailurePublisher mirrors failures to an external sink.
type FailurePublisher interface {
	Publish(ctx context.Context, event platformEvents.QueryFailureEvent) error
}

// LogReporter writes one error entry per failure and optionally mirrors it.
type LogReporter struct {
	logger    logging.Logger
	publisher FailurePublisher
}

// NewLogReporter builds a reporter. publisher may be nil.
func NewLogReporter(logger logging.Logger, publisher FailurePublisher) *LogReporter {
	return &LogReporter{
		logger:    logger.With(zap.String("component", "diagnostics")),
		publisher: publisher,
	}
}

// Report logs f and forwards it to the publisher when one is configured.
func (r *LogReporter) Report(ctx context.Context, f Failure) {
	fields := []zap.Field{
		zap.String("failure_id", f.ID),
		zap.String("kind", string(f.Kind)),
		zap.String("table", f.Table),
		zap.Error(f.Err),
	}
	if f.Filter != "" {
		fields = append(fields, zap.String("filter", f.Filter))
	}
	if f.RequestID != "" {
		fields = append(fields, zap.String("request_id", f.RequestID))
	}
	r.logger.Error("error fetching data", fields...)

	if r.publisher == nil {
		return
	}
	event := platformEvents.QueryFailureEvent{
		FailureID:  f.ID,
		Kind:       string(f.Kind),
		Table:      f.Table,
		Filter:     f.Filter,
		RequestID:  f.RequestID,
		OccurredAt: f.OccurredAt,
	}
	if f.Err != nil {
		event.Error = f.Err.Error()
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	// A lost mirror is not a second diagnostic.
	if err := r.publisher.Publish(ctx, event); err != nil {
		r.logger.Debug("failed to mirror query failure",
			zap.String("failure_id", f.ID),
			zap.Error(err))
	}
}
