// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/harusports/teamsite/internal/auth"
	"github.com/harusports/teamsite/internal/domain/model"
)

// EventDependencies defines the interface for event operations.
type EventDependencies interface {
	ListEvents(ctx context.Context, from, to *time.Time) ([]model.Event, error)
	GetEvent(ctx context.Context, id string) (model.Event, error)
	CreateEvent(ctx context.Context, ev model.Event) (model.Event, error)
	UpdateEvent(ctx context.Context, id string, ev model.Event) (model.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	AddAttachment(ctx context.Context, eventID, name, contentType string, r io.Reader) (model.Attachment, error)
	RemoveAttachment(ctx context.Context, eventID, attID string) error
}

// EventsHandler handles event requests.
type EventsHandler struct {
	deps           EventDependencies
	authn          *auth.Authenticator
	maxUploadBytes int64
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps EventDependencies, authn *auth.Authenticator, maxUploadBytes int64) *EventsHandler {
	return &EventsHandler{deps: deps, authn: authn, maxUploadBytes: maxUploadBytes}
}

// HandleCollection handles GET (public) and POST (admin) /api/events.
func (h *EventsHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleCreate(w, r)
	default:
		http.NotFound(w, r)
	}
}

// HandleItem handles /api/events/{id} and its attachments subresource.
func (h *EventsHandler) HandleItem(w http.ResponseWriter, r *http.Request) {
	const op = "api.event"
	rest := strings.TrimPrefix(r.URL.Path, "/api/events/")
	parts := strings.Split(rest, "/")
	if parts[0] == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	id := parts[0]

	switch {
	case len(parts) == 1:
		switch r.Method {
		case http.MethodGet:
			h.handleGet(w, r, id)
		case http.MethodPut:
			h.handleUpdate(w, r, id)
		case http.MethodDelete:
			h.handleDelete(w, r, id)
		default:
			http.NotFound(w, r)
		}
	case len(parts) == 2 && parts[1] == "attachments" && r.Method == http.MethodPost:
		h.handleUpload(w, r, id)
	case len(parts) == 3 && parts[1] == "attachments" && r.Method == http.MethodDelete:
		h.handleRemoveAttachment(w, r, id, parts[2])
	default:
		http.NotFound(w, r)
	}
}

func (h *EventsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_events"
	from, err := parseTimeQuery(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	to, err := parseTimeQuery(r, "to")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	events, err := h.deps.ListEvents(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, newEventViews(events))
}

func (h *EventsHandler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.get_event"
	ev, err := h.deps.GetEvent(r.Context(), id)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, newEventView(ev))
}

func (h *EventsHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_event"
	if !requireSession(w, r, h.authn) {
		return
	}
	var ev model.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	created, err := h.deps.CreateEvent(r.Context(), ev)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, newEventView(created))
}

func (h *EventsHandler) handleUpdate(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.update_event"
	if !requireSession(w, r, h.authn) {
		return
	}
	var ev model.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	updated, err := h.deps.UpdateEvent(r.Context(), id, ev)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, newEventView(updated))
}

func (h *EventsHandler) handleDelete(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.delete_event"
	if !requireSession(w, r, h.authn) {
		return
	}
	if err := h.deps.DeleteEvent(r.Context(), id); err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "deleted"})
}

func (h *EventsHandler) handleUpload(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.upload_attachment"
	if !requireSession(w, r, h.authn) {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	defer file.Close()

	att, err := h.deps.AddAttachment(r.Context(), id, header.Filename,
		header.Header.Get("Content-Type"), file)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, att)
}

func (h *EventsHandler) handleRemoveAttachment(w http.ResponseWriter, r *http.Request, id, attID string) {
	const op = "api.remove_attachment"
	if !requireSession(w, r, h.authn) {
		return
	}
	if err := h.deps.RemoveAttachment(r.Context(), id, attID); err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "deleted"})
}

// parseTimeQuery reads an optional RFC3339 query value.
func parseTimeQuery(r *http.Request, key string) (*time.Time, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
