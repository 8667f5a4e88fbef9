package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"BACKEND", "SUPABASE_URL", "SUPABASE_KEY", "DATABASE_URL", "REFRESH_SCHEDULE",
	"DISPLAY_TIMEZONE", "TIMESTAMP_LAYOUT", "API_PORT", "ENVIRONMENT", "LOG_LEVEL",
	"LOG_ENCODING", "CORS_ORIGINS", "KAFKA_BROKERS", "KAFKA_TOPIC",
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestFromEnv_WhenNoVariablesSet_ThenReturnsDefaults(t *testing.T) {
	// Arrange
	clearConfigEnv(t)

	// Act
	cfg := FromEnv()

	// Assert
	assert.Equal(t, BackendPostgREST, cfg.Backend)
	assert.Equal(t, DefaultRefreshSchedule, cfg.RefreshSchedule)
	assert.Equal(t, "Local", cfg.DisplayTimezone)
	assert.Equal(t, "1/2/2006, 3:04:05 PM", cfg.TimestampLayout)
	assert.Equal(t, "8080", cfg.APIPort)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogEncoding)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "viewer-diagnostics", cfg.KafkaTopic)
	assert.Empty(t, cfg.SupabaseURL)
	assert.Empty(t, cfg.KafkaBrokerList())
}

func TestFromEnv_WhenAllVariablesSet_ThenReturnsConfigWithSetValues(t *testing.T) {
	// Arrange
	clearConfigEnv(t)
	t.Setenv("BACKEND", "MySQL")
	t.Setenv("SUPABASE_URL", "https://project.supabase.co/")
	t.Setenv("SUPABASE_KEY", "anon-key")
	t.Setenv("DATABASE_URL", "user:pass@tcp(localhost:3306)/guild")
	t.Setenv("REFRESH_SCHEDULE", "@every 5m")
	t.Setenv("API_PORT", "9000")
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_ENCODING", "console")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://example.com")
	t.Setenv("KAFKA_BROKERS", "kafka1:9092,kafka2:9092")

	// Act
	cfg := FromEnv()

	// Assert
	assert.Equal(t, BackendMySQL, cfg.Backend)
	assert.Equal(t, "https://project.supabase.co", cfg.SupabaseURL)
	assert.Equal(t, "anon-key", cfg.SupabaseKey)
	assert.Equal(t, "user:pass@tcp(localhost:3306)/guild", cfg.DatabaseURL)
	assert.Equal(t, "@every 5m", cfg.RefreshSchedule)
	assert.Equal(t, "9000", cfg.APIPort)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogEncoding)
	assert.Equal(t, []string{"http://localhost:3000", "https://example.com"}, cfg.CORSOrigins)
	assert.Equal(t, []string{"kafka1:9092", "kafka2:9092"}, cfg.KafkaBrokerList())
}

func TestLoad_WhenFlagsChanged_ThenFlagsOverrideEnv(t *testing.T) {
	// Arrange
	clearConfigEnv(t)
	t.Setenv("API_PORT", "9000")
	loader := NewLoader()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	require.NoError(t, loader.BindFlags(fs))
	require.NoError(t, fs.Parse([]string{"--port", "9100", "--backend", "sqlite"}))

	// Act
	cfg, err := loader.Load("")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.APIPort)
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, DefaultRefreshSchedule, cfg.RefreshSchedule)
}

func TestLoad_WhenConfigFileGiven_ThenReadsValues(t *testing.T) {
	// Arrange
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), "viewer.yaml")
	content := "backend: postgres\ndatabase_url: postgres://localhost/guild\nrefresh_schedule: \"*/5 * * * *\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	// Act
	cfg, err := NewLoader().Load(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, BackendPostgres, cfg.Backend)
	assert.Equal(t, "postgres://localhost/guild", cfg.DatabaseURL)
	assert.Equal(t, "*/5 * * * *", cfg.RefreshSchedule)
}

func TestLoad_WhenConfigFileMissing_ThenReturnsError(t *testing.T) {
	// Arrange
	clearConfigEnv(t)

	// Act
	_, err := NewLoader().Load(filepath.Join(t.TempDir(), "missing.yaml"))

	// Assert
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     App
		wantErr string
	}{
		{
			name: "postgrest complete",
			cfg:  App{Backend: BackendPostgREST, SupabaseURL: "https://x", SupabaseKey: "k", RefreshSchedule: DefaultRefreshSchedule},
		},
		{
			name:    "postgrest missing key",
			cfg:     App{Backend: BackendPostgREST, SupabaseURL: "https://x", RefreshSchedule: DefaultRefreshSchedule},
			wantErr: "SUPABASE_KEY",
		},
		{
			name:    "sql missing dsn",
			cfg:     App{Backend: BackendMySQL, RefreshSchedule: DefaultRefreshSchedule},
			wantErr: "DATABASE_URL",
		},
		{
			name:    "unknown backend",
			cfg:     App{Backend: "redis", RefreshSchedule: DefaultRefreshSchedule},
			wantErr: "unsupported backend",
		},
		{
			name:    "empty schedule",
			cfg:     App{Backend: BackendSQLite, DatabaseURL: "file.db"},
			wantErr: "REFRESH_SCHEDULE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
