package api

import (
	"errors"
	"fmt"

	"github.com/dhima/guild-log-viewer/internal/backend"
	"github.com/dhima/guild-log-viewer/internal/backend/postgrest"
	"github.com/dhima/guild-log-viewer/internal/diagnostics"
	"github.com/dhima/guild-log-viewer/internal/logging"
	"github.com/dhima/guild-log-viewer/internal/metrics"
	"github.com/dhima/guild-log-viewer/internal/records"
	"github.com/dhima/guild-log-viewer/internal/scheduler"
	"github.com/dhima/guild-log-viewer/internal/storage"
	"github.com/dhima/guild-log-viewer/internal/viewer"
	"github.com/dhima/guild-log-viewer/pkg/clock"
	"github.com/dhima/guild-log-viewer/pkg/config"
	platformEvents "github.com/dhima/guild-log-viewer/platform/events"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// Runtime is everything the server and the CLI share: the table client, the
// diagnostic channel, metrics and the view controller.
type Runtime struct {
	Backend    backend.Backend
	Controller *viewer.Controller
	Registry   *prometheus.Registry
	Times      viewer.TimeFormatter

	sqlClient *storage.SQLClient
	publisher *platformEvents.Publisher
	logger    logging.Logger
}

// Deps overrides parts of the runtime, mainly for tests. Zero fields are
// built from configuration.
type Deps struct {
	Backend   backend.Backend
	Publisher diagnostics.FailurePublisher
	Clock     clock.Clock
	Registry  *prometheus.Registry
}

// NewRuntime builds the runtime described by cfg.
func NewRuntime(cfg config.App, logger logging.Logger, deps Deps) (*Runtime, error) {
	rt := &Runtime{logger: logger}

	loc, err := scheduler.LoadLocation(cfg.DisplayTimezone)
	if err != nil {
		return nil, fmt.Errorf("DISPLAY_TIMEZONE: %w", err)
	}
	rt.Times = viewer.TimeFormatter{Location: loc, Layout: cfg.TimestampLayout}

	rt.Backend = deps.Backend
	if rt.Backend == nil {
		if rt.Backend, err = rt.openBackend(cfg); err != nil {
			return nil, err
		}
	}

	publisher := deps.Publisher
	if publisher == nil {
		if brokers := cfg.KafkaBrokerList(); len(brokers) > 0 {
			rt.publisher = platformEvents.NewPublisher(brokers, cfg.KafkaTopic, logger.Zap())
			publisher = rt.publisher
			logger.Info("mirroring fetch failures to kafka",
				zap.Strings("brokers", brokers),
				zap.String("topic", cfg.KafkaTopic))
		}
	}

	rt.Registry = deps.Registry
	if rt.Registry == nil {
		rt.Registry = prometheus.NewRegistry()
		rt.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	decoder, err := records.NewDecoder()
	if err != nil {
		rt.Close()
		return nil, err
	}

	clk := deps.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}

	rt.Controller = viewer.New(
		rt.Backend,
		decoder,
		diagnostics.NewLogReporter(logger, publisher),
		logger,
		viewer.WithRenderer(viewer.NewRenderer(rt.Times)),
		viewer.WithMetrics(metrics.NewMetrics(rt.Registry)),
		viewer.WithClock(clk),
	)
	return rt, nil
}

func (rt *Runtime) openBackend(cfg config.App) (backend.Backend, error) {
	switch cfg.Backend {
	case config.BackendPostgREST:
		rt.logger.Info("using hosted table store", zap.String("url", cfg.SupabaseURL))
		return postgrest.New(cfg.SupabaseURL, cfg.SupabaseKey), nil
	case config.BackendMySQL, config.BackendPostgres, config.BackendSQLite:
		dialect, err := storage.ParseDialect(cfg.Backend)
		if err != nil {
			return nil, err
		}
		db, err := storage.Open(dialect, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		rt.sqlClient = storage.NewSQLClient(db, dialect)
		rt.logger.Info("using sql table store", zap.String("dialect", string(dialect)))
		return rt.sqlClient, nil
	}
	return nil, fmt.Errorf("unsupported backend %q", cfg.Backend)
}

// Close releases the database pool and the Kafka writer, if any.
func (rt *Runtime) Close() error {
	var errs []error
	if rt.sqlClient != nil {
		if err := rt.sqlClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	if rt.publisher != nil {
		if err := rt.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close kafka publisher: %w", err))
		}
	}
	return errors.Join(errs...)
}
