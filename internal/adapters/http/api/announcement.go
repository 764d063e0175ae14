// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/harusports/teamsite/internal/auth"
	"github.com/harusports/teamsite/internal/domain/model"
)

// AnnouncementDependencies defines the interface for the banner settings.
type AnnouncementDependencies interface {
	Announcement(ctx context.Context) (model.Announcement, error)
	SetAnnouncement(ctx context.Context, text string, visible bool) (model.Announcement, error)
}

// announcementRequest is the body of PUT /api/announcement.
type announcementRequest struct {
	Text    string `json:"text"`
	Visible bool   `json:"isVisible"`
}

// announcementView adds the derived shown flag clients render on.
type announcementView struct {
	model.Announcement
	Shown bool `json:"shown"`
}

// AnnouncementHandler handles banner announcement requests.
type AnnouncementHandler struct {
	deps  AnnouncementDependencies
	authn *auth.Authenticator
}

// NewAnnouncementHandler creates a new announcement handler.
func NewAnnouncementHandler(deps AnnouncementDependencies, authn *auth.Authenticator) *AnnouncementHandler {
	return &AnnouncementHandler{deps: deps, authn: authn}
}

// HandleAnnouncement handles GET (public) and PUT (admin) /api/announcement.
func (h *AnnouncementHandler) HandleAnnouncement(w http.ResponseWriter, r *http.Request) {
	const op = "api.announcement"
	switch r.Method {
	case http.MethodGet:
		a, err := h.deps.Announcement(r.Context())
		if err != nil {
			writeServiceError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, announcementView{Announcement: a, Shown: a.Shown()})
	case http.MethodPut:
		if !requireSession(w, r, h.authn) {
			return
		}
		var req announcementRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		a, err := h.deps.SetAnnouncement(r.Context(), req.Text, req.Visible)
		if err != nil {
			writeServiceError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, announcementView{Announcement: a, Shown: a.Shown()})
	default:
		http.NotFound(w, r)
	}
}
