package handlers

import (
	"context"
	"errors"

	"github.com/dhima/guild-log-viewer/internal/api/response"
	"github.com/dhima/guild-log-viewer/internal/logging"
	"github.com/dhima/guild-log-viewer/internal/models"
	"github.com/dhima/guild-log-viewer/internal/viewer"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LogQuerier reads a log table without touching the shared list.
type LogQuerier interface {
	Query(ctx context.Context, kind models.LogKind, eventTypeFilter string) ([]models.Record, error)
}

// LogHandler serves direct reads of the log tables and the event type catalogue.
type LogHandler struct {
	logger  logging.Logger
	querier LogQuerier
}

// NewLogHandler creates a new log handler.
func NewLogHandler(logger logging.Logger, querier LogQuerier) *LogHandler {
	return &LogHandler{
		logger:  logger.With(zap.String("handler", "logs")),
		querier: querier,
	}
}

// LogsResponse is the result of a direct table read.
type LogsResponse struct {
	Kind    models.LogKind  `json:"kind" example:"event"`
	Table   string          `json:"table" example:"event_logs"`
	Filter  string          `json:"filter,omitempty" example:"Member Join"`
	Count   int             `json:"count" example:"1"`
	Records []models.Record `json:"records"`
} // @name LogsResponse

// ListLogs godoc
// @Summary Read a log table
// @Description Returns the typed records of event_logs or message_logs in store order. The event_type filter only applies to event logs.
// @Tags Logs
// @Produce json
// @Param kind path string true "Log kind" Enums(event, message, event_logs, message_logs)
// @Param event_type query string false "Exact event type" example(Member Join)
// @Success 200 {object} LogsResponse
// @Failure 400 {object} response.ErrorResponse "Unknown log kind"
// @Failure 502 {object} response.ErrorResponse "Table store query failed"
// @Router /api/v1/logs/{kind} [get]
func (h *LogHandler) ListLogs(c *gin.Context) {
	kind, err := models.ParseLogKind(c.Param("kind"))
	if err != nil {
		response.BadRequest(c, "invalid log kind", err.Error())
		return
	}
	filter := c.Query("event_type")

	recs, err := h.querier.Query(c.Request.Context(), kind, filter)
	if err != nil {
		if viewer.IsQueryFailure(err) {
			response.BadGateway(c, "failed to fetch logs", err.Error())
			return
		}
		if errors.Is(err, models.ErrUnknownLogKind) {
			response.BadRequest(c, "invalid log kind", err.Error())
			return
		}
		h.logger.Error("unexpected log query error",
			zap.String("kind", string(kind)),
			zap.String("request_id", response.GetRequestID(c)),
			zap.Error(err))
		response.InternalServerError(c, "failed to fetch logs")
		return
	}

	if kind == models.LogKindMessage {
		filter = ""
	}
	if recs == nil {
		recs = []models.Record{}
	}
	response.OK(c, LogsResponse{
		Kind:    kind,
		Table:   kind.Table(),
		Filter:  filter,
		Count:   len(recs),
		Records: recs,
	})
}

// ListEventTypes godoc
// @Summary List event types
// @Description Returns every event type label the log writer emits, with its description
// @Tags Logs
// @Produce json
// @Success 200 {array} models.EventTypeInfo
// @Router /api/v1/event-types [get]
func (h *LogHandler) ListEventTypes(c *gin.Context) {
	response.OK(c, models.EventTypes())
}
