// Package metrics holds the Prometheus collectors for the viewer.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Query outcome label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Metrics contains the viewer's collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	QueriesTotal        *prometheus.CounterVec
	QueryDuration       *prometheus.HistogramVec
	RenderedRows        *prometheus.GaugeVec
	StaleResponsesTotal prometheus.Counter
	RefreshesTotal      prometheus.Counter
	ControlActivations  *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		QueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "log_viewer_queries_total",
				Help: "Total number of backend queries by table and outcome",
			},
			[]string{"table", "status"},
		),
		QueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "log_viewer_query_duration_seconds",
				Help:    "Duration of backend queries",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"table"},
		),
		RenderedRows: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "log_viewer_rendered_rows",
				Help: "Number of rows currently shown in the list",
			},
			[]string{"kind"},
		),
		StaleResponsesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "log_viewer_stale_responses_total",
				Help: "Responses discarded because a newer fetch had already rendered",
			},
		),
		RefreshesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "log_viewer_refreshes_total",
				Help: "Periodic refreshes of the event list",
			},
		),
		ControlActivations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "log_viewer_control_activations_total",
				Help: "Filter control activations by control id",
			},
			[]string{"control"},
		),
	}
}

// ObserveQuery records one backend query.
func (m *Metrics) ObserveQuery(table string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	m.QueriesTotal.WithLabelValues(table, status).Inc()
	m.QueryDuration.WithLabelValues(table).Observe(duration.Seconds())
}

// SetRenderedRows records the size of the list after a render. Only the
// rendered kind carries a non-zero value.
func (m *Metrics) SetRenderedRows(kind string, n int) {
	if m == nil {
		return
	}
	m.RenderedRows.Reset()
	m.RenderedRows.WithLabelValues(kind).Set(float64(n))
}

func (m *Metrics) IncStale() {
	if m == nil {
		return
	}
	m.StaleResponsesTotal.Inc()
}

func (m *Metrics) IncRefresh() {
	if m == nil {
		return
	}
	m.RefreshesTotal.Inc()
}

func (m *Metrics) IncControl(id string) {
	if m == nil {
		return
	}
	m.ControlActivations.WithLabelValues(id).Inc()
}
