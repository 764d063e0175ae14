// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/harusports/teamsite/internal/auth"
	"github.com/harusports/teamsite/internal/domain/model"
)

// ContactDependencies defines the interface for contact form operations.
type ContactDependencies interface {
	SubmitContact(ctx context.Context, m model.ContactMessage) (model.ContactMessage, error)
	ListContacts(ctx context.Context) ([]model.ContactMessage, error)
	UpdateContactStatus(ctx context.Context, id string, status model.ContactStatus) (model.ContactMessage, error)
	DeleteContact(ctx context.Context, id string) error
}

// ContactsHandler handles contact form requests.
type ContactsHandler struct {
	deps  ContactDependencies
	authn *auth.Authenticator
}

// NewContactsHandler creates a new contacts handler.
func NewContactsHandler(deps ContactDependencies, authn *auth.Authenticator) *ContactsHandler {
	return &ContactsHandler{deps: deps, authn: authn}
}

// HandleCollection handles POST (public submit) and GET (admin list)
// /api/contacts.
func (h *ContactsHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	const op = "api.contacts"
	switch r.Method {
	case http.MethodPost:
		var msg model.ContactMessage
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		saved, err := h.deps.SubmitContact(r.Context(), msg)
		if err != nil {
			writeServiceError(w, op, err)
			return
		}
		writeJSON(w, http.StatusCreated, saved)
	case http.MethodGet:
		if !requireSession(w, r, h.authn) {
			return
		}
		contacts, err := h.deps.ListContacts(r.Context())
		if err != nil {
			writeServiceError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, contacts)
	default:
		http.NotFound(w, r)
	}
}

// contactStatusRequest is the body of PUT /api/contacts/{id}.
type contactStatusRequest struct {
	Status model.ContactStatus `json:"status"`
}

// HandleItem handles PUT and DELETE /api/contacts/{id} (admin).
func (h *ContactsHandler) HandleItem(w http.ResponseWriter, r *http.Request) {
	const op = "api.contact"
	id := strings.TrimPrefix(r.URL.Path, "/api/contacts/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if !requireSession(w, r, h.authn) {
		return
	}
	switch r.Method {
	case http.MethodPut:
		var req contactStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		updated, err := h.deps.UpdateContactStatus(r.Context(), id, req.Status)
		if err != nil {
			writeServiceError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if err := h.deps.DeleteContact(r.Context(), id); err != nil {
			writeServiceError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, statusResponse{Status: "deleted"})
	default:
		http.NotFound(w, r)
	}
}
