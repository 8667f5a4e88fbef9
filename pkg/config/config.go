package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Backend kinds understood by the viewer.
const (
	BackendPostgREST = "postgrest"
	BackendMySQL     = "mysql"
	BackendPostgres  = "postgres"
	BackendSQLite    = "sqlite"
)

// DefaultRefreshSchedule keeps the cadence the page has always run with (one
// minute), even though older notes describe it as five minutes.
const DefaultRefreshSchedule = "@every 1m"

// App holds runtime configuration derived from env vars, an optional file and flags.
type App struct {
	Backend     string
	SupabaseURL string
	SupabaseKey string
	DatabaseURL string

	RefreshSchedule string
	DisplayTimezone string
	TimestampLayout string

	APIPort     string
	Environment string
	LogLevel    string
	LogEncoding string
	CORSOrigins []string

	KafkaBrokers string
	KafkaTopic   string
}

// Loader wraps a private viper instance so tests never share global state.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader with defaults and environment lookup enabled.
func NewLoader() *Loader {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("BACKEND", BackendPostgREST)
	v.SetDefault("REFRESH_SCHEDULE", DefaultRefreshSchedule)
	v.SetDefault("DISPLAY_TIMEZONE", "Local")
	v.SetDefault("TIMESTAMP_LAYOUT", "1/2/2006, 3:04:05 PM")
	v.SetDefault("API_PORT", "8080")
	v.SetDefault("ENVIRONMENT", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_ENCODING", "json")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("KAFKA_TOPIC", "viewer-diagnostics")

	return &Loader{v: v}
}

// BindFlags registers command-line overrides on fs and binds them to their keys.
func (l *Loader) BindFlags(fs *pflag.FlagSet) error {
	fs.String("port", "", "HTTP listen port (overrides API_PORT)")
	fs.String("backend", "", "table backend: postgrest, mysql, postgres or sqlite")
	fs.String("refresh-schedule", "", "refresh cadence, e.g. \"@every 1m\" or a cron expression")

	bindings := map[string]string{
		"API_PORT":         "port",
		"BACKEND":          "backend",
		"REFRESH_SCHEDULE": "refresh-schedule",
	}
	for key, flag := range bindings {
		if err := l.v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}
	return nil
}

// Load reads the optional YAML file at path and resolves every key.
func (l *Loader) Load(path string) (App, error) {
	if path != "" {
		l.v.SetConfigFile(path)
		l.v.SetConfigType("yaml")
		if err := l.v.ReadInConfig(); err != nil {
			return App{}, fmt.Errorf("read config file: %w", err)
		}
	}
	return l.resolve(), nil
}

func (l *Loader) resolve() App {
	return App{
		Backend:         strings.ToLower(strings.TrimSpace(l.get("BACKEND"))),
		SupabaseURL:     strings.TrimRight(l.get("SUPABASE_URL"), "/"),
		SupabaseKey:     l.get("SUPABASE_KEY"),
		DatabaseURL:     l.get("DATABASE_URL"),
		RefreshSchedule: l.get("REFRESH_SCHEDULE"),
		DisplayTimezone: l.get("DISPLAY_TIMEZONE"),
		TimestampLayout: l.get("TIMESTAMP_LAYOUT"),
		APIPort:         l.get("API_PORT"),
		Environment:     l.get("ENVIRONMENT"),
		LogLevel:        l.get("LOG_LEVEL"),
		LogEncoding:     l.get("LOG_ENCODING"),
		CORSOrigins:     splitList(l.get("CORS_ORIGINS")),
		KafkaBrokers:    l.get("KAFKA_BROKERS"),
		KafkaTopic:      l.get("KAFKA_TOPIC"),
	}
}

func (l *Loader) get(key string) string {
	return l.v.GetString(key)
}

// FromEnv loads the application configuration from environment variables only.
func FromEnv() App {
	return NewLoader().resolve()
}

// KafkaBrokerList splits KafkaBrokers into individual addresses.
func (a App) KafkaBrokerList() []string {
	return splitList(a.KafkaBrokers)
}

// Validate reports settings the selected backend cannot run without.
func (a App) Validate() error {
	var errs []error
	switch a.Backend {
	case BackendPostgREST:
		if a.SupabaseURL == "" {
			errs = append(errs, errors.New("SUPABASE_URL is required for the postgrest backend"))
		}
		if a.SupabaseKey == "" {
			errs = append(errs, errors.New("SUPABASE_KEY is required for the postgrest backend"))
		}
	case BackendMySQL, BackendPostgres, BackendSQLite:
		if a.DatabaseURL == "" {
			errs = append(errs, fmt.Errorf("DATABASE_URL is required for the %s backend", a.Backend))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported backend %q", a.Backend))
	}
	if strings.TrimSpace(a.RefreshSchedule) == "" {
		errs = append(errs, errors.New("REFRESH_SCHEDULE must not be empty"))
	}
	return errors.Join(errs...)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
