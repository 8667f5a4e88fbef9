package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewPublisher_WhenCreated_ThenHasProductionSettings(t *testing.T) {
	// Arrange & Act
	publisher := NewPublisher([]string{"broker1:9092", "broker2:9092"}, "viewer-diagnostics", zap.NewNop())

	// Assert
	require.NotNil(t, publisher.writer)
	assert.Equal(t, "viewer-diagnostics", publisher.writer.Topic)
	assert.Equal(t, "broker1:9092,broker2:9092", publisher.writer.Addr.String())
	assert.Equal(t, kafka.RequireAll, publisher.writer.RequiredAcks)
	assert.Equal(t, 3, publisher.writer.MaxAttempts)
	assert.Equal(t, 10*time.Second, publisher.writer.WriteTimeout)
	assert.IsType(t, &kafka.Hash{}, publisher.writer.Balancer)
}

func TestPublish_WhenContextCanceled_ThenReturnsError(t *testing.T) {
	// Arrange
	publisher := NewPublisher([]string{"127.0.0.1:1"}, "viewer-diagnostics", zap.NewNop())
	defer publisher.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Act
	err := publisher.Publish(ctx, QueryFailureEvent{FailureID: "f-1", Table: "event_logs", Error: "boom"})

	// Assert
	assert.Error(t, err)
}

func TestClose_WhenCalledMultipleTimes_ThenDoesNotPanic(t *testing.T) {
	// Arrange
	publisher := NewPublisher([]string{"localhost:9092"}, "viewer-diagnostics", zap.NewNop())

	// Act & Assert
	assert.NotPanics(t, func() {
		_ = publisher.Close()
		_ = publisher.Close()
	})
}

func TestQueryFailureEvent_WhenMarshaled_ThenUsesSnakeCaseFields(t *testing.T) {
	// Arrange
	event := QueryFailureEvent{
		FailureID:  "f-1",
		Kind:       "event",
		Table:      "event_logs",
		Filter:     "Member Join",
		RequestID:  "req-1",
		Error:      "backend returned 503",
		OccurredAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	// Act
	raw, err := json.Marshal(event)

	// Assert
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"failure_id": "f-1",
		"kind": "event",
		"table": "event_logs",
		"filter": "Member Join",
		"request_id": "req-1",
		"error": "backend returned 503",
		"occurred_at": "2024-01-01T00:00:00Z"
	}`, string(raw))
}
