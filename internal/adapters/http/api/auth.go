// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/harusports/teamsite/internal/auth"
)

// loginRequest is the body of POST /api/login.
type loginRequest struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

// sessionResponse reports the caller's session state.
type sessionResponse struct {
	Authenticated bool `json:"authenticated"`
	Open          bool `json:"open,omitempty"`
}

// AuthHandler handles login, logout and session checks.
type AuthHandler struct {
	authn *auth.Authenticator
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authn *auth.Authenticator) *AuthHandler {
	return &AuthHandler{authn: authn}
}

// HandleLogin handles POST /api/login requests.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	const op = "api.login"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	token, err := h.authn.Login(r.Context(), req.User, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "unauthorized", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// HandleLogout handles POST /api/logout requests.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if cookie, err := r.Cookie(auth.SessionCookie); err == nil {
		h.authn.Logout(r.Context(), cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// HandleSession handles GET /api/session requests.
func (h *AuthHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	resp := sessionResponse{Open: h.authn.Open()}
	if h.authn.Open() {
		resp.Authenticated = true
	} else if cookie, err := r.Cookie(auth.SessionCookie); err == nil {
		resp.Authenticated = h.authn.Validate(r.Context(), cookie.Value)
	}
	writeJSON(w, http.StatusOK, resp)
}
