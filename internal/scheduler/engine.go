// Package scheduler runs the periodic refresh of the event list.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/dhima/guild-log-viewer/internal/logging"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresher is called on every tick.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Engine refreshes once when started and then on every tick of its schedule.
// There is no backoff: a failed refresh is followed by the next tick as usual.
type Engine struct {
	spec      string
	schedule  cron.Schedule
	location  *time.Location
	refresher Refresher
	logger    logging.Logger

	mu      sync.Mutex
	lastRun time.Time
}

// NewEngine parses spec and returns an engine evaluating it in loc (nil means
// local time).
func NewEngine(spec string, loc *time.Location, refresher Refresher, logger logging.Logger) (*Engine, error) {
	schedule, err := ParseSchedule(spec)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.Local
	}
	return &Engine{
		spec:      spec,
		schedule:  schedule,
		location:  loc,
		refresher: refresher,
		logger:    logger.With(zap.String("component", "scheduler")),
	}, nil
}

// Run blocks until ctx is cancelled and returns ctx.Err().
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Info("refresh loop started",
		zap.String("schedule", e.spec),
		zap.String("timezone", e.location.String()),
		zap.Time("next_refresh", e.NextRefresh(time.Now())))

	e.tick(ctx)

	c := cron.New(
		cron.WithLocation(e.location),
		cron.WithParser(parser),
		cron.WithLogger(cronLogger{e.logger.Zap()}),
		cron.WithChain(cron.Recover(cronLogger{e.logger.Zap()})),
	)
	c.Schedule(e.schedule, cron.FuncJob(func() { e.tick(ctx) }))
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	e.logger.Info("refresh loop stopped")
	return ctx.Err()
}

// NextRefresh returns the first tick after from.
func (e *Engine) NextRefresh(from time.Time) time.Time {
	return e.schedule.Next(from.In(e.location))
}

// LastRefresh returns when the last refresh started, or the zero time.
func (e *Engine) LastRefresh() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastRun
}

func (e *Engine) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	e.mu.Lock()
	e.lastRun = time.Now()
	e.mu.Unlock()

	// The failure itself is reported by the refresher.
	if err := e.refresher.Refresh(ctx); err != nil {
		e.logger.Debug("refresh failed", zap.Error(err))
	}
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
