package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// QueryFailureEvent is the message mirrored to Kafka for every failed fetch.
type QueryFailureEvent struct {
	FailureID  string    `json:"failure_id"`
	Kind       string    `json:"kind"`
	Table      string    `json:"table"`
	Filter     string    `json:"filter,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	Error      string    `json:"error"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher writes diagnostic events to a Kafka topic.
type Publisher struct {
	writer    *kafka.Writer
	logger    *zap.Logger
	closeOnce sync.Once
	closeErr  error
}

// NewPublisher configures a writer that waits for all in-sync replicas.
func NewPublisher(brokers []string, topic string, logger *zap.Logger) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			MaxAttempts:  3,
			WriteTimeout: 10 * time.Second,
			BatchTimeout: 10 * time.Millisecond,
		},
		logger: logger,
	}
}

// Publish sends event keyed by table so failures of one table stay ordered.
func (p *Publisher) Publish(ctx context.Context, event QueryFailureEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal query failure event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.Table),
		Value: value,
		Time:  event.OccurredAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish query failure event: %w", err)
	}

	p.logger.Debug("query failure event published",
		zap.String("failure_id", event.FailureID),
		zap.String("topic", p.writer.Topic))
	return nil
}

// Close flushes pending messages. Safe to call more than once.
func (p *Publisher) Close() error {
	p.closeOnce.Do(func() {
		p.closeErr = p.writer.Close()
	})
	return p.closeErr
}
