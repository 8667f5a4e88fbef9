package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dhima/guild-log-viewer/internal/api/handlers"
	"github.com/dhima/guild-log-viewer/internal/api/middleware"
	"github.com/dhima/guild-log-viewer/internal/logging"
	"github.com/dhima/guild-log-viewer/internal/scheduler"
	"github.com/dhima/guild-log-viewer/pkg/clock"
	"github.com/dhima/guild-log-viewer/pkg/config"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Server orchestrates HTTP routing, the refresh loop and their dependencies.
type Server struct {
	config  config.App
	logger  logging.Logger
	router  *gin.Engine
	runtime *Runtime
	engine  *scheduler.Engine
	clock   clock.Clock
}

// NewServer wires the server from configuration.
func NewServer(cfg config.App, logger logging.Logger) (*Server, error) {
	return New(cfg, logger, Deps{})
}

// New wires the server, taking any dependency set in deps instead of building it.
func New(cfg config.App, logger logging.Logger, deps Deps) (*Server, error) {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	rt, err := NewRuntime(cfg, logger, deps)
	if err != nil {
		return nil, err
	}

	engine, err := scheduler.NewEngine(cfg.RefreshSchedule, rt.Times.Location, rt.Controller, logger)
	if err != nil {
		rt.Close()
		return nil, err
	}

	clk := deps.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}

	server := &Server{
		config:  cfg,
		logger:  logger,
		runtime: rt,
		engine:  engine,
		clock:   clk,
	}
	server.setupRouter()
	return server, nil
}

// setupRouter configures the Gin router with middleware and routes.
func (s *Server) setupRouter() {
	router := gin.New()
	zapLogger := s.logger.Zap()

	// Global middleware (order matters!)
	// 1. Recovery - must be first to catch panics from other middleware
	router.Use(ginzap.RecoveryWithZap(zapLogger, true))

	// 2. Request ID - inject unique ID for tracing
	router.Use(middleware.RequestID())

	// 3. Logging - log all requests with structured fields
	router.Use(ginzap.GinzapWithConfig(zapLogger, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		SkipPaths:  []string{"/health", "/metrics"},
		Context: func(c *gin.Context) []zap.Field {
			return []zap.Field{zap.String("request_id", c.GetString(middleware.RequestIDKey))}
		},
	}))

	// 4. CORS - the JSON endpoints are read by other dashboards
	router.Use(cors.New(s.corsConfig()))

	// Health and metrics endpoints (no /api/v1 prefix)
	router.GET("/health", handlers.NewHealthHandler(s.logger).Health)
	router.GET("/metrics", handlers.NewMetricsHandler(s.runtime.Registry).Metrics)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	view := handlers.NewViewHandler(s.logger, s.runtime.Controller, s.engine, s.runtime.Times, s.clock)

	// HTML page and its form targets
	router.GET("/", view.Page)
	router.POST("/controls/:id", view.ActivateControl)
	router.POST("/panels/:id/toggle", view.TogglePanel)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/view", view.View)
		v1.POST("/controls/:id", view.ActivateControlJSON)
		v1.POST("/panels/:id/toggle", view.TogglePanelJSON)

		logs := handlers.NewLogHandler(s.logger, s.runtime.Controller)
		v1.GET("/event-types", logs.ListEventTypes)
		v1.GET("/logs/:kind", logs.ListLogs)
	}

	s.router = router
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(s.config.CORSOrigins) == 0 || (len(s.config.CORSOrigins) == 1 && s.config.CORSOrigins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = s.config.CORSOrigins
	}
	return cfg
}

// Handler returns the router.
func (s *Server) Handler() http.Handler { return s.router }

// Runtime exposes the shared runtime.
func (s *Server) Runtime() *Runtime { return s.runtime }

// Serve starts the HTTP server and the refresh loop, and shuts both down
// gracefully on SIGINT, SIGTERM or when ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := ":" + s.config.APIPort
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = s.engine.Run(ctx)
	}()

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("starting viewer",
			zap.String("address", addr),
			zap.String("environment", s.config.Environment),
			zap.String("backend", s.config.Backend),
			zap.String("refresh_schedule", s.config.RefreshSchedule),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		s.logger.Info("shutting down server gracefully...")
	case err := <-serveErr:
		if err != nil {
			runErr = fmt.Errorf("http server: %w", err)
			s.logger.Error("http server failed", zap.Error(err))
			stop()
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("server forced to shutdown", zap.Error(err))
		runErr = errors.Join(runErr, err)
	}
	wg.Wait()

	if err := s.runtime.Close(); err != nil {
		s.logger.Error("failed to release resources", zap.Error(err))
	}

	s.logger.Info("server stopped")
	return runErr
}
