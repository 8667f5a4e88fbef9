package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// LogKind selects which of the two log tables a view shows.
type LogKind string

const (
	LogKindEvent   LogKind = "event"
	LogKindMessage LogKind = "message"
)

// Table names in the backend store.
const (
	TableEventLogs   = "event_logs"
	TableMessageLogs = "message_logs"
)

// ColumnEventType is the only attribute a view filter constrains.
const ColumnEventType = "event_type"

// ErrUnknownLogKind is returned by ParseLogKind for anything but the two kinds.
var ErrUnknownLogKind = errors.New("unknown log kind")

// ParseLogKind accepts a kind name ("event", "message") or its table name.
func ParseLogKind(raw string) (LogKind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "event", "events", TableEventLogs:
		return LogKindEvent, nil
	case "message", "messages", TableMessageLogs:
		return LogKindMessage, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLogKind, raw)
}

// Table returns the backend table backing the kind.
func (k LogKind) Table() string {
	if k == LogKindMessage {
		return TableMessageLogs
	}
	return TableEventLogs
}

// Record is implemented by both log record shapes.
type Record interface {
	Kind() LogKind
	RecordID() string
}

// EventLogRecord is a row of event_logs.
type EventLogRecord struct {
	ID        string    `json:"id" example:"1"`
	EventType EventType `json:"event_type" example:"Member Join"`
	Timestamp time.Time `json:"timestamp" example:"2024-01-01T00:00:00Z"`
	Details   *string   `json:"details,omitempty" example:"alice joined the server."`
} // @name EventLogRecord

func (EventLogRecord) Kind() LogKind { return LogKindEvent }
func (r EventLogRecord) RecordID() string { return r.ID }

// MessageLogRecord is a row of message_logs.
type MessageLogRecord struct {
	ID        string    `json:"id" example:"42"`
	User      string    `json:"user" example:"alice#0001"`
	AvatarURL string    `json:"avatar_url" example:"https://cdn.example.com/avatars/alice.png"`
	Content   string    `json:"content" example:"hello there"`
	Channel   string    `json:"channel" example:"general"`
	Timestamp time.Time `json:"timestamp" example:"2024-01-01T00:00:00Z"`
} // @name MessageLogRecord

func (MessageLogRecord) Kind() LogKind { return LogKindMessage }
func (r MessageLogRecord) RecordID() string { return r.ID }
