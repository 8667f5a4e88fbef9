package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveQuery_WhenSuccessAndError_ThenCountsByStatus(t *testing.T) {
	// Arrange
	m := NewMetrics(prometheus.NewRegistry())

	// Act
	m.ObserveQuery("event_logs", 10*time.Millisecond, nil)
	m.ObserveQuery("event_logs", 5*time.Millisecond, errors.New("boom"))
	m.ObserveQuery("event_logs", 5*time.Millisecond, nil)

	// Assert
	assert.Equal(t, 2.0, testutil.ToFloat64(m.QueriesTotal.WithLabelValues("event_logs", StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueriesTotal.WithLabelValues("event_logs", StatusError)))
}

func TestSetRenderedRows_WhenKindChanges_ThenPreviousKindCleared(t *testing.T) {
	// Arrange
	m := NewMetrics(prometheus.NewRegistry())

	// Act
	m.SetRenderedRows("event", 3)
	m.SetRenderedRows("message", 2)

	// Assert
	assert.Equal(t, 1, testutil.CollectAndCount(m.RenderedRows))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RenderedRows.WithLabelValues("message")))
}

func TestNilMetrics_WhenMethodsCalled_ThenNoPanic(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveQuery("event_logs", time.Second, nil)
		m.SetRenderedRows("event", 1)
		m.IncStale()
		m.IncRefresh()
		m.IncControl("all-events")
	})
}

func TestNewMetrics_WhenRegisteredTwiceOnSameRegistry_ThenPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)

	assert.Panics(t, func() { NewMetrics(reg) })
}
