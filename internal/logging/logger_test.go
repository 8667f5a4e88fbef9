package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_WhenDevelopmentEnvironment_ThenReturnsDevelopmentLogger(t *testing.T) {
	// Arrange & Act
	logger, err := NewLogger("development", "debug")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger to be non-nil")
	}

	// Cleanup
	_ = logger.Sync()
}

func TestNewLogger_WhenInvalidLogLevel_ThenDefaultsToInfo(t *testing.T) {
	// Arrange & Act
	logger, err := NewLogger("production", "invalid-level")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if logger.Zap().Core().Enabled(zapcore.DebugLevel) {
		t.Error("expected debug to be disabled at the default info level")
	}
	if !logger.Zap().Core().Enabled(zapcore.InfoLevel) {
		t.Error("expected info to be enabled")
	}
}

func TestNew_WhenConsoleEncodingInProduction_ThenBuilds(t *testing.T) {
	// Arrange & Act
	logger, err := New(Options{Environment: "production", Level: "warn", Encoding: "console"})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if logger.Zap().Core().Enabled(zapcore.InfoLevel) {
		t.Error("expected info to be disabled at warn level")
	}
}

func TestNewDevelopmentLogger_WhenCalled_ThenDebugEnabled(t *testing.T) {
	// Arrange & Act
	logger, err := NewDevelopmentLogger()

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !logger.Zap().Core().Enabled(zapcore.DebugLevel) {
		t.Error("expected debug to be enabled")
	}
}

func TestNewFromZap_WhenLogging_ThenEntriesReachCore(t *testing.T) {
	// Arrange
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewFromZap(zap.New(core))

	// Act
	logger.With(zap.String("request_id", "123")).Error("error fetching data", zap.String("table", "event_logs"))

	// Assert
	entries := logs.FilterMessage("error fetching data").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["request_id"] != "123" || fields["table"] != "event_logs" {
		t.Errorf("unexpected fields: %v", fields)
	}
}

func TestNoOpLogger_AllMethods_WhenCalled_ThenDoNothing(t *testing.T) {
	// Arrange
	logger := NewNoOpLogger()

	// Act & Assert (should not panic)
	logger.Debug("test")
	logger.Info("test")
	logger.Warn("test")
	logger.Error("test")
	logger.Zap().Info("test")

	if childLogger := logger.With(zap.String("key", "value")); childLogger != logger {
		t.Error("expected With to return same logger instance")
	}
	if err := logger.Sync(); err != nil {
		t.Errorf("expected no error from Sync, got %v", err)
	}
}
