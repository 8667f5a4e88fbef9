package handlers

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/dhima/guild-log-viewer/internal/api/response"
	"github.com/dhima/guild-log-viewer/internal/logging"
	"github.com/dhima/guild-log-viewer/internal/models"
	"github.com/dhima/guild-log-viewer/internal/viewer"
	"github.com/dhima/guild-log-viewer/pkg/clock"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"go.uber.org/zap"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// ViewController is the part of the view controller the page needs.
type ViewController interface {
	Snapshot() viewer.Snapshot
	Activate(ctx context.Context, controlID string) (viewer.Control, error)
	TogglePanel(panelID string) (viewer.PanelState, error)
	Controls() *viewer.ControlTable
	Panels() *viewer.Panels
}

// RefreshSchedule tells the page when the list was and will be refreshed.
type RefreshSchedule interface {
	NextRefresh(from time.Time) time.Time
	LastRefresh() time.Time
}

// ViewHandler serves the HTML page and its JSON twin.
type ViewHandler struct {
	logger     logging.Logger
	controller ViewController
	schedule   RefreshSchedule
	times      viewer.TimeFormatter
	clock      clock.Clock
}

// NewViewHandler creates the page handler. schedule may be nil when no
// refresh loop runs.
func NewViewHandler(logger logging.Logger, controller ViewController, schedule RefreshSchedule, times viewer.TimeFormatter, clk clock.Clock) *ViewHandler {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &ViewHandler{
		logger:     logger.With(zap.String("handler", "view")),
		controller: controller,
		schedule:   schedule,
		times:      times,
		clock:      clk,
	}
}

// ViewResponse is the JSON form of the page.
type ViewResponse struct {
	View        viewer.Snapshot     `json:"view"`
	Panels      []viewer.PanelState `json:"panels"`
	NextRefresh *time.Time          `json:"next_refresh,omitempty"`
	LastRefresh *time.Time          `json:"last_refresh,omitempty"`
} // @name ViewResponse

// ActivationResponse reports a control activation. The view is returned as it
// stands afterwards; when the fetch failed it is the previous view.
type ActivationResponse struct {
	Control     viewer.Control  `json:"control"`
	FetchFailed bool            `json:"fetch_failed"`
	View        viewer.Snapshot `json:"view"`
} // @name ActivationResponse

type panelView struct {
	ID       string
	Title    string
	Visible  bool
	Controls []viewer.Control
}

type pageData struct {
	Heading        string
	Panels         []panelView
	Rows           []viewer.Row
	Filter         string
	RenderedAt     string
	NextRefresh    string
	RefreshSeconds int
}

var panelTitles = map[string]string{
	viewer.PanelEventFilters:   "Event Logs",
	viewer.PanelMessageFilters: "Message Logs",
}

// Page renders the list as HTML.
func (h *ViewHandler) Page(c *gin.Context) {
	snap := h.controller.Snapshot()
	now := h.clock.Now()

	data := pageData{
		Heading:        "Event Logs",
		Rows:           snap.Rows,
		Filter:         snap.Filter,
		RenderedAt:     "never",
		NextRefresh:    "not scheduled",
		RefreshSeconds: 60,
	}
	if snap.Kind == models.LogKindMessage {
		data.Heading = "Message Logs"
	}
	if !snap.RenderedAt.IsZero() {
		data.RenderedAt = h.times.Format(snap.RenderedAt)
	}
	if h.schedule != nil {
		next := h.schedule.NextRefresh(now)
		data.NextRefresh = h.times.Format(next)
		// Reload just after the list has been refreshed.
		data.RefreshSeconds = int(next.Sub(now).Seconds()) + 1
		if data.RefreshSeconds < 1 {
			data.RefreshSeconds = 1
		}
	}
	for _, state := range h.controller.Panels().States() {
		title := panelTitles[state.ID]
		if title == "" {
			title = state.ID
		}
		data.Panels = append(data.Panels, panelView{
			ID:       state.ID,
			Title:    title,
			Visible:  state.Visible,
			Controls: h.controller.Controls().InPanel(state.ID),
		})
	}

	c.Render(http.StatusOK, render.HTML{Template: pageTemplate, Name: "index.html", Data: data})
}

// ActivateControl runs a filter button and sends the browser back to the page.
func (h *ViewHandler) ActivateControl(c *gin.Context) {
	if _, err := h.activate(c); errors.Is(err, viewer.ErrUnknownControl) {
		c.String(http.StatusNotFound, "unknown control")
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// TogglePanel flips a filter panel and sends the browser back to the page.
func (h *ViewHandler) TogglePanel(c *gin.Context) {
	if _, err := h.controller.TogglePanel(c.Param("id")); err != nil {
		c.String(http.StatusNotFound, "unknown panel")
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// View godoc
// @Summary Current view
// @Description Returns the rendered list, panel visibility and the last and next refresh times
// @Tags View
// @Produce json
// @Success 200 {object} ViewResponse
// @Router /api/v1/view [get]
func (h *ViewHandler) View(c *gin.Context) {
	resp := ViewResponse{
		View:   h.controller.Snapshot(),
		Panels: h.controller.Panels().States(),
	}
	if h.schedule != nil {
		next := h.schedule.NextRefresh(h.clock.Now())
		resp.NextRefresh = &next
		if last := h.schedule.LastRefresh(); !last.IsZero() {
			resp.LastRefresh = &last
		}
	}
	response.OK(c, resp)
}

// ActivateControlJSON godoc
// @Summary Activate a filter control
// @Description Fetches the logs bound to the control and renders them into the shared list. A failed fetch keeps the previous list.
// @Tags View
// @Produce json
// @Param id path string true "Control ID" example(event-member-join)
// @Success 200 {object} ActivationResponse
// @Failure 404 {object} response.ErrorResponse "Unknown control"
// @Router /api/v1/controls/{id} [post]
func (h *ViewHandler) ActivateControlJSON(c *gin.Context) {
	ctrl, err := h.activate(c)
	if errors.Is(err, viewer.ErrUnknownControl) {
		response.NotFound(c, err.Error())
		return
	}
	response.OK(c, ActivationResponse{
		Control:     ctrl,
		FetchFailed: err != nil,
		View:        h.controller.Snapshot(),
	})
}

// TogglePanelJSON godoc
// @Summary Toggle a filter panel
// @Description Shows a hidden panel or hides a visible one
// @Tags View
// @Produce json
// @Param id path string true "Panel ID" Enums(event-filters, message-filters)
// @Success 200 {object} viewer.PanelState
// @Failure 404 {object} response.ErrorResponse "Unknown panel"
// @Router /api/v1/panels/{id}/toggle [post]
func (h *ViewHandler) TogglePanelJSON(c *gin.Context) {
	state, err := h.controller.TogglePanel(c.Param("id"))
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}
	response.OK(c, state)
}

// activate runs the control. Fetch failures were already reported by the
// controller, so they are only noted here.
func (h *ViewHandler) activate(c *gin.Context) (viewer.Control, error) {
	id := c.Param("id")
	ctrl, err := h.controller.Activate(c.Request.Context(), id)
	if err != nil && !errors.Is(err, viewer.ErrUnknownControl) {
		h.logger.Debug("control fetch failed, keeping previous list",
			zap.String("control", id),
			zap.String("request_id", response.GetRequestID(c)))
	}
	return ctrl, err
}
