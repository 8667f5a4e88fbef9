// Package viewer holds the view controller: it queries a log table, renders
// the rows and swaps them into the shared list. Failures are reported on the
// diagnostic channel and leave the list as it was.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dhima/guild-log-viewer/internal/backend"
	"github.com/dhima/guild-log-viewer/internal/diagnostics"
	"github.com/dhima/guild-log-viewer/internal/logging"
	"github.com/dhima/guild-log-viewer/internal/metrics"
	"github.com/dhima/guild-log-viewer/internal/models"
	"github.com/dhima/guild-log-viewer/internal/records"
	"github.com/dhima/guild-log-viewer/pkg/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Controller drives the list. It is safe for concurrent use.
type Controller struct {
	backend  backend.Backend
	decoder  *records.Decoder
	reporter diagnostics.Reporter
	logger   logging.Logger

	renderer *Renderer
	metrics  *metrics.Metrics
	clock    clock.Clock
	controls *ControlTable
	panels   *Panels

	list ListView
	seq  atomic.Uint64
}

// Option customises a Controller.
type Option func(*Controller)

// WithRenderer replaces the default renderer (local zone, default layout).
func WithRenderer(r *Renderer) Option {
	return func(c *Controller) { c.renderer = r }
}

// WithMetrics records fetch and render metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithClock sets the clock used for render times.
func WithClock(clk clock.Clock) Option {
	return func(c *Controller) { c.clock = clk }
}

// WithControls replaces the default control table.
func WithControls(t *ControlTable) Option {
	return func(c *Controller) { c.controls = t }
}

// WithPanels replaces the default panels.
func WithPanels(p *Panels) Option {
	return func(c *Controller) { c.panels = p }
}

// New creates a controller reading through b.
func New(b backend.Backend, decoder *records.Decoder, reporter diagnostics.Reporter, logger logging.Logger, opts ...Option) *Controller {
	c := &Controller{
		backend:  b,
		decoder:  decoder,
		reporter: reporter,
		logger:   logger.With(zap.String("component", "viewer")),
		renderer: NewRenderer(TimeFormatter{}),
		clock:    clock.RealClock{},
		controls: DefaultControls(),
		panels:   DefaultPanels(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchAndRender queries the table for kind, optionally narrowed to one event
// type, and replaces the list with the rendered rows. On failure the list is
// left untouched, one failure is reported and the *backend.QueryFailure is
// returned. A response that arrives after a newer fetch has rendered is
// discarded.
func (c *Controller) FetchAndRender(ctx context.Context, kind models.LogKind, eventTypeFilter string) error {
	seq := c.seq.Add(1)

	recs, err := c.Query(ctx, kind, eventTypeFilter)
	if err != nil {
		return err
	}

	rows := make([]Row, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, c.renderer.RenderRow(rec))
	}

	if kind == models.LogKindMessage {
		eventTypeFilter = ""
	}
	if !c.list.replace(seq, kind, eventTypeFilter, rows, c.clock.Now()) {
		c.metrics.IncStale()
		c.logger.Debug("discarding stale response",
			zap.Uint64("sequence", seq),
			zap.String("kind", string(kind)))
		return nil
	}

	c.metrics.SetRenderedRows(string(kind), len(rows))
	c.logger.Debug("rendered log list",
		zap.Uint64("sequence", seq),
		zap.String("kind", string(kind)),
		zap.String("filter", eventTypeFilter),
		zap.Int("rows", len(rows)))
	return nil
}

// Query runs one read against the table for kind and decodes the rows
// without touching the list. Failures are reported and returned as
// *backend.QueryFailure; an unknown kind returns models.ErrUnknownLogKind.
func (c *Controller) Query(ctx context.Context, kind models.LogKind, eventTypeFilter string) ([]models.Record, error) {
	q, err := c.buildQuery(kind, eventTypeFilter)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	raw, err := c.backend.Select(ctx, q)
	c.metrics.ObserveQuery(q.Table, time.Since(start), err)
	if err != nil {
		return nil, c.fail(ctx, kind, q, err)
	}

	recs, err := c.decoder.Decode(kind, raw)
	if err != nil {
		return nil, c.fail(ctx, kind, q, fmt.Errorf("decode rows: %w", err))
	}
	return recs, nil
}

// Refresh re-fetches the unfiltered event list.
func (c *Controller) Refresh(ctx context.Context) error {
	c.metrics.IncRefresh()
	return c.FetchAndRender(ctx, models.LogKindEvent, "")
}

// Activate runs the fetch bound to a control.
func (c *Controller) Activate(ctx context.Context, controlID string) (Control, error) {
	ctrl, err := c.controls.Lookup(controlID)
	if err != nil {
		return Control{}, err
	}
	c.metrics.IncControl(ctrl.ID)
	return ctrl, c.FetchAndRender(ctx, ctrl.Kind, ctrl.Filter)
}

// TogglePanel flips the visibility of a filter panel.
func (c *Controller) TogglePanel(panelID string) (PanelState, error) {
	return c.panels.Toggle(panelID)
}

// RenderRow formats one record with the controller's renderer.
func (c *Controller) RenderRow(rec models.Record) Row {
	return c.renderer.RenderRow(rec)
}

// Snapshot returns a copy of the list.
func (c *Controller) Snapshot() Snapshot { return c.list.Snapshot() }

// Controls returns the control table.
func (c *Controller) Controls() *ControlTable { return c.controls }

// Panels returns the panel state.
func (c *Controller) Panels() *Panels { return c.panels }

func (c *Controller) buildQuery(kind models.LogKind, eventTypeFilter string) (backend.Query, error) {
	switch kind {
	case models.LogKindEvent:
		q := backend.Query{Table: models.TableEventLogs}
		if eventTypeFilter != "" {
			q = q.Where(models.ColumnEventType, eventTypeFilter)
		}
		return q, nil
	case models.LogKindMessage:
		if eventTypeFilter != "" {
			c.logger.Debug("ignoring event type filter for message logs",
				zap.String("filter", eventTypeFilter))
		}
		return backend.Query{Table: models.TableMessageLogs}, nil
	}
	return backend.Query{}, fmt.Errorf("%w: %q", models.ErrUnknownLogKind, kind)
}

func (c *Controller) fail(ctx context.Context, kind models.LogKind, q backend.Query, err error) error {
	failure := &backend.QueryFailure{Table: q.Table, Err: err}

	f := diagnostics.Failure{
		ID:         uuid.New().String(),
		Kind:       kind,
		Table:      q.Table,
		RequestID:  diagnostics.RequestIDFrom(ctx),
		Err:        err,
		OccurredAt: c.clock.Now().UTC(),
	}
	if q.Filter != nil {
		f.Filter = q.Filter.Value
	}
	// Reporting must outlive a cancelled request.
	c.reporter.Report(context.WithoutCancel(ctx), f)
	return failure
}

// IsQueryFailure reports whether err came from a failed fetch.
func IsQueryFailure(err error) bool {
	var qf *backend.QueryFailure
	return errors.As(err, &qf)
}
