// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/harusports/teamsite/internal/domain/calendar"
	"github.com/harusports/teamsite/internal/domain/model"
)

// CalendarDependencies defines the interface for calendar rendering.
type CalendarDependencies interface {
	CalendarGrid(ctx context.Context, view calendar.ViewMode, ref time.Time) (calendar.Grid, error)
	CalendarDay(ctx context.Context, date time.Time) ([]model.Event, error)
	CalendarFeed(ctx context.Context) (string, error)
}

// CalendarHandler handles calendar grid and feed requests.
type CalendarHandler struct {
	deps CalendarDependencies
}

// NewCalendarHandler creates a new calendar handler.
func NewCalendarHandler(deps CalendarDependencies) *CalendarHandler {
	return &CalendarHandler{deps: deps}
}

// HandleGrid handles GET /api/calendar?view=month|week|day&date=YYYY-MM-DD.
func (h *CalendarHandler) HandleGrid(w http.ResponseWriter, r *http.Request) {
	const op = "api.calendar"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	view, err := parseView(r.URL.Query().Get("view"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	date, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	grid, err := h.deps.CalendarGrid(r.Context(), view, date)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, grid)
}

// HandleDay handles GET /api/calendar/day?date=YYYY-MM-DD, the uncapped
// event list behind the month cell's "+N more" affordance.
func (h *CalendarHandler) HandleDay(w http.ResponseWriter, r *http.Request) {
	const op = "api.calendar_day"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	date, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	events, err := h.deps.CalendarDay(r.Context(), date)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, newEventViews(events))
}

// HandleFeed handles GET /api/calendar/feed.ics.
func (h *CalendarHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	const op = "api.calendar_feed"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	feed, err := h.deps.CalendarFeed(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	_, _ = w.Write([]byte(feed))
}
