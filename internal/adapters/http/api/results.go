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

// ResultDependencies defines the interface for game result operations.
type ResultDependencies interface {
	ListResults(ctx context.Context) ([]model.GameResult, error)
	GetResult(ctx context.Context, id string) (model.GameResult, error)
	CreateResult(ctx context.Context, r model.GameResult) (model.GameResult, error)
	UpdateResult(ctx context.Context, id string, r model.GameResult) (model.GameResult, error)
	DeleteResult(ctx context.Context, id string) error
}

// ResultsHandler handles game result requests.
type ResultsHandler struct {
	deps  ResultDependencies
	authn *auth.Authenticator
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(deps ResultDependencies, authn *auth.Authenticator) *ResultsHandler {
	return &ResultsHandler{deps: deps, authn: authn}
}

// HandleCollection handles GET (public) and POST (admin) /api/results.
func (h *ResultsHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	const op = "api.results"
	switch r.Method {
	case http.MethodGet:
		results, err := h.deps.ListResults(r.Context())
		if err != nil {
			writeServiceError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, results)
	case http.MethodPost:
		if !requireSession(w, r, h.authn) {
			return
		}
		var res model.GameResult
		if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		created, err := h.deps.CreateResult(r.Context(), res)
		if err != nil {
			writeServiceError(w, op, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		http.NotFound(w, r)
	}
}

// HandleItem handles GET (public) and PUT/DELETE (admin) /api/results/{id}.
func (h *ResultsHandler) HandleItem(w http.ResponseWriter, r *http.Request) {
	const op = "api.result"
	id := strings.TrimPrefix(r.URL.Path, "/api/results/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	switch r.Method {
	case http.MethodGet:
		res, err := h.deps.GetResult(r.Context(), id)
		if err != nil {
			writeServiceError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	case http.MethodPut:
		if !requireSession(w, r, h.authn) {
			return
		}
		var res model.GameResult
		if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		updated, err := h.deps.UpdateResult(r.Context(), id, res)
		if err != nil {
			writeServiceError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if !requireSession(w, r, h.authn) {
			return
		}
		if err := h.deps.DeleteResult(r.Context(), id); err != nil {
			writeServiceError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, statusResponse{Status: "deleted"})
	default:
		http.NotFound(w, r)
	}
}
