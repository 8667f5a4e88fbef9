package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dhima/guild-log-viewer/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_WhenQueriesObserved_ThenExposedInTextFormat(t *testing.T) {
	// Arrange
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	m.ObserveQuery("event_logs", 20*time.Millisecond, nil)
	router := gin.New()
	router.GET("/metrics", NewMetricsHandler(reg).Metrics)
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `log_viewer_queries_total{status="success",table="event_logs"} 1`)
	assert.Contains(t, w.Body.String(), "log_viewer_query_duration_seconds")
}
