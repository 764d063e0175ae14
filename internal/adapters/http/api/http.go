// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/harusports/teamsite/internal/adapters/repository"
	service "github.com/harusports/teamsite/internal/app"
	"github.com/harusports/teamsite/internal/auth"
	"github.com/harusports/teamsite/internal/domain/calendar"
	"github.com/harusports/teamsite/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	EventDependencies
	CalendarDependencies
	ResultDependencies
	ContactDependencies
	AnnouncementDependencies
	FileDependencies

	Auth() *auth.Authenticator
}

// Server wires HTTP routes for the business API.
type Server struct {
	authn *auth.Authenticator

	authHandler         *AuthHandler
	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
	eventsHandler       *EventsHandler
	calendarHandler     *CalendarHandler
	resultsHandler      *ResultsHandler
	contactsHandler     *ContactsHandler
	announcementHandler *AnnouncementHandler
	filesHandler        *FilesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxUploadBytes int64) *Server {
	authn := deps.Auth()
	return &Server{
		authn:               authn,
		authHandler:         NewAuthHandler(authn),
		healthHandler:       NewHealthHandler(),
		statsHandler:        NewStatsHandler(statsProvider),
		eventsHandler:       NewEventsHandler(deps, authn, maxUploadBytes),
		calendarHandler:     NewCalendarHandler(deps),
		resultsHandler:      NewResultsHandler(deps, authn),
		contactsHandler:     NewContactsHandler(deps, authn),
		announcementHandler: NewAnnouncementHandler(deps, authn),
		filesHandler:        NewFilesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/login", MetricsMiddleware(s.authHandler.HandleLogin, "login"))
	mux.HandleFunc("/api/logout", MetricsMiddleware(s.authHandler.HandleLogout, "logout"))
	mux.HandleFunc("/api/session", MetricsMiddleware(s.authHandler.HandleSession, "session"))
	mux.HandleFunc("/api/calendar/feed.ics", MetricsMiddleware(s.calendarHandler.HandleFeed, "calendar_feed"))
	mux.HandleFunc("/api/calendar/day", MetricsMiddleware(s.calendarHandler.HandleDay, "calendar_day"))
	mux.HandleFunc("/api/calendar", MetricsMiddleware(s.calendarHandler.HandleGrid, "calendar"))
	mux.HandleFunc("/api/events", MetricsMiddleware(s.eventsHandler.HandleCollection, "events"))
	mux.HandleFunc("/api/events/", MetricsMiddleware(s.eventsHandler.HandleItem, "event"))
	mux.HandleFunc("/api/results", MetricsMiddleware(s.resultsHandler.HandleCollection, "results"))
	mux.HandleFunc("/api/results/", MetricsMiddleware(s.resultsHandler.HandleItem, "result"))
	mux.HandleFunc("/api/contacts", MetricsMiddleware(s.contactsHandler.HandleCollection, "contacts"))
	mux.HandleFunc("/api/contacts/", MetricsMiddleware(s.contactsHandler.HandleItem, "contact"))
	mux.HandleFunc("/api/announcement", MetricsMiddleware(s.announcementHandler.HandleAnnouncement, "announcement"))
	mux.HandleFunc("/files/", MetricsMiddleware(s.filesHandler.HandleGet, "files"))
}

// eventView is the wire shape of an event, adding the display color
// derived from its type.
type eventView struct {
	model.Event
	Color string `json:"color"`
}

func newEventView(e model.Event) eventView {
	return eventView{Event: e, Color: e.Type.Color()}
}

func newEventViews(events []model.Event) []eventView {
	views := make([]eventView, 0, len(events))
	for _, e := range events {
		views = append(views, newEventView(e))
	}
	return views
}

// FileDependencies defines the interface for attachment serving.
type FileDependencies interface {
	OpenAttachment(path string) (io.ReadSeekCloser, error)
}

// FilesHandler serves stored attachment files.
type FilesHandler struct {
	deps FileDependencies
}

// NewFilesHandler creates a new files handler.
func NewFilesHandler(deps FileDependencies) *FilesHandler {
	return &FilesHandler{deps: deps}
}

// HandleGet handles GET /files/{path} requests.
func (h *FilesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	name := r.URL.Path[len("/files/"):]
	if name == "" {
		http.NotFound(w, r)
		return
	}
	rc, err := h.deps.OpenAttachment(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer rc.Close()
	http.ServeContent(w, r, name, time.Time{}, rc)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type statusResponse struct {
	Status string `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates core errors into the API error taxonomy.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}

// requireSession gates admin operations on a live session cookie. It
// writes the 401 itself and reports whether the caller may proceed.
func requireSession(w http.ResponseWriter, r *http.Request, authn *auth.Authenticator) bool {
	if authn.Open() {
		return true
	}
	cookie, err := r.Cookie(auth.SessionCookie)
	if err != nil || !authn.Validate(r.Context(), cookie.Value) {
		writeError(w, http.StatusUnauthorized, "unauthorized", ErrUnauthorized)
		return false
	}
	return true
}

// parseDate reads a YYYY-MM-DD query value, defaulting to today.
func parseDate(v string) (time.Time, error) {
	if v == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}
	return time.Parse("2006-01-02", v)
}

// parseView reads the calendar view query value, defaulting to month.
func parseView(v string) (calendar.ViewMode, error) {
	if v == "" {
		return calendar.ViewMonth, nil
	}
	mode := calendar.ViewMode(v)
	if !mode.Valid() {
		return "", ErrBadRequest
	}
	return mode, nil
}
