package diagnostics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dhima/guild-log-viewer/internal/diagnostics"
	"github.com/dhima/guild-log-viewer/internal/logging"
	"github.com/dhima/guild-log-viewer/internal/models"
	"github.com/dhima/guild-log-viewer/internal/testutil/fakes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newFailure() diagnostics.Failure {
	return diagnostics.Failure{
		ID:         "f-1",
		Kind:       models.LogKindEvent,
		Table:      models.TableEventLogs,
		Filter:     "Member Join",
		RequestID:  "req-1",
		Err:        errors.New("connection refused"),
		OccurredAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestReport_WhenNoPublisher_ThenLogsExactlyOneError(t *testing.T) {
	// Arrange
	core, logs := observer.New(zapcore.DebugLevel)
	reporter := diagnostics.NewLogReporter(logging.NewFromZap(zap.New(core)), nil)

	// Act
	reporter.Report(context.Background(), newFailure())

	// Assert
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, "error fetching data", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "event_logs", fields["table"])
	assert.Equal(t, "Member Join", fields["filter"])
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "connection refused", fields["error"])
}

func TestReport_WhenPublisherConfigured_ThenMirrorsFailure(t *testing.T) {
	// Arrange
	core, logs := observer.New(zapcore.DebugLevel)
	pub := &fakes.FakePublisher{}
	reporter := diagnostics.NewLogReporter(logging.NewFromZap(zap.New(core)), pub)

	// Act
	reporter.Report(context.Background(), newFailure())

	// Assert
	assert.Equal(t, 1, logs.FilterMessage("error fetching data").Len())
	published := pub.Published()
	require.Len(t, published, 1)
	assert.Equal(t, "f-1", published[0].FailureID)
	assert.Equal(t, "event", published[0].Kind)
	assert.Equal(t, "connection refused", published[0].Error)
}

func TestReport_WhenPublisherFails_ThenStillOneDiagnosticEntry(t *testing.T) {
	// Arrange
	core, logs := observer.New(zapcore.DebugLevel)
	pub := &fakes.FakePublisher{FailNext: true}
	reporter := diagnostics.NewLogReporter(logging.NewFromZap(zap.New(core)), pub)

	// Act
	reporter.Report(context.Background(), newFailure())

	// Assert
	assert.Equal(t, 1, logs.FilterMessage("error fetching data").Len())
	mirror := logs.FilterMessage("failed to mirror query failure").All()
	require.Len(t, mirror, 1)
	assert.Equal(t, zapcore.DebugLevel, mirror[0].Level)
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	assert.Zero(t, logs.FilterLevelExact(zapcore.WarnLevel).Len())
	assert.Empty(t, pub.Published())
}

func TestRequestID_WhenStoredInContext_ThenReadBack(t *testing.T) {
	// Arrange
	ctx := diagnostics.WithRequestID(context.Background(), "req-9")

	// Act & Assert
	assert.Equal(t, "req-9", diagnostics.RequestIDFrom(ctx))
	assert.Empty(t, diagnostics.RequestIDFrom(context.Background()))
}
