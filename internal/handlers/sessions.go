package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"caredash/internal/models"
	"caredash/internal/store"
)

// Wire error messages. These are part of the API contract and must not
// carry internal error detail.
const (
	msgInvalidSessionID = "Invalid session ID"
	msgInvalidStatus    = `Status must be either "Scheduled" or "Completed"`
	msgSessionNotFound  = "Session not found"
	msgFetchFailed      = "Failed to fetch sessions"
	msgUpdateFailed     = "Failed to update session"
)

// apiError tags a failed guard with the HTTP status it maps to.
type apiError struct {
	Code    int
	Message string
}

func (e *apiError) Error() string { return e.Message }

type updateRequest struct {
	ID     int64
	Status string
}

// parseUpdateRequest runs the input guards in contract order: the path id
// must parse as an integer, then the body status must be one of the two
// accepted values. A malformed body is a client input error and maps to the
// status guard.
func parseUpdateRequest(idParam string, body io.Reader) (updateRequest, *apiError) {
	id, err := strconv.ParseInt(strings.TrimSpace(idParam), 10, 64)
	if err != nil {
		return updateRequest{}, &apiError{Code: http.StatusBadRequest, Message: msgInvalidSessionID}
	}

	var payload struct {
		Status string `json:"status"`
	}
	if body != nil {
		if err := json.NewDecoder(body).Decode(&payload); err != nil {
			payload.Status = ""
		}
	}
	if !models.ValidStatus(payload.Status) {
		return updateRequest{}, &apiError{Code: http.StatusBadRequest, Message: msgInvalidStatus}
	}

	return updateRequest{ID: id, Status: payload.Status}, nil
}

func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.ListSessions(r.Context())
	if err != nil {
		log.Error().Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("list sessions")
		respondError(w, http.StatusInternalServerError, msgFetchFailed)
		return
	}

	respondJSON(w, http.StatusOK, models.FlattenAll(sessions))
}

func (h *Handler) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	req, apiErr := parseUpdateRequest(chi.URLParam(r, "id"), r.Body)
	if apiErr != nil {
		respondError(w, apiErr.Code, apiErr.Message)
		return
	}

	updated, apiErr := h.applyStatusUpdate(r.Context(), req)
	if apiErr != nil {
		respondError(w, apiErr.Code, apiErr.Message)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// applyStatusUpdate runs the remaining guards against the store and performs
// the single-field update. Existence is checked first so an unknown id maps
// to 404 rather than a blind zero-row update. There is no prior-status guard:
// repeating a transition succeeds and is idempotent.
func (h *Handler) applyStatusUpdate(ctx context.Context, req updateRequest) (models.FlatSession, *apiError) {
	if _, err := h.store.GetSession(ctx, req.ID); err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return models.FlatSession{}, &apiError{Code: http.StatusNotFound, Message: msgSessionNotFound}
		}
		log.Error().Err(err).Int64("session_id", req.ID).Msg("look up session")
		return models.FlatSession{}, &apiError{Code: http.StatusInternalServerError, Message: msgUpdateFailed}
	}

	session, err := h.store.UpdateSessionStatus(ctx, req.ID, req.Status)
	if err != nil {
		log.Error().Err(err).Int64("session_id", req.ID).Msg("update session status")
		return models.FlatSession{}, &apiError{Code: http.StatusInternalServerError, Message: msgUpdateFailed}
	}

	flat := session.Flatten()
	statusTransitions.WithLabelValues(flat.Status).Inc()

	if err := h.events.SessionStatusChanged(flat); err != nil {
		log.Warn().Err(err).Int64("session_id", flat.ID).Msg("publish status event")
	}

	return flat, nil
}
