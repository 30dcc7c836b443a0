package handlers

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"caredash/internal/dashboard"
	"caredash/internal/models"
)

// dashboardView is the template payload for one render of the dashboard.
type dashboardView struct {
	State         dashboard.State
	Summary       dashboard.Summary
	Sessions      []models.FlatSession
	StatusOptions []string
}

var statusOptions = []string{dashboard.FilterAll, models.StatusScheduled, models.StatusCompleted}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	state := dashboard.StateFromQuery(r.URL.Query())

	sessions, err := h.store.ListSessions(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list sessions for dashboard")
		state.Error = msgFetchFailed
		h.renderDashboard(w, state, nil)
		return
	}

	h.renderDashboard(w, state, models.FlattenAll(sessions))
}

// handleCompleteSession is the no-script path for the single state
// transition: it applies the same guarded update as the PATCH endpoint and
// re-renders with the updated row merged into the already-fetched list.
func (h *Handler) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, msgUpdateFailed)
		return
	}
	state := dashboard.StateFromQuery(r.PostForm)

	sessions, err := h.store.ListSessions(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list sessions for dashboard")
		state.Error = msgFetchFailed
		h.renderDashboard(w, state, nil)
		return
	}
	flat := models.FlattenAll(sessions)

	id, err := strconv.ParseInt(strings.TrimSpace(chi.URLParam(r, "id")), 10, 64)
	if err != nil {
		state.Error = msgInvalidSessionID
		h.renderDashboard(w, state, flat)
		return
	}

	updated, apiErr := h.applyStatusUpdate(r.Context(), updateRequest{ID: id, Status: models.StatusCompleted})
	if apiErr != nil {
		state.Error = apiErr.Message
		h.renderDashboard(w, state, flat)
		return
	}

	h.renderDashboard(w, state, dashboard.MergeUpdated(flat, updated))
}

func (h *Handler) renderDashboard(w http.ResponseWriter, state dashboard.State, sessions []models.FlatSession) {
	view := dashboardView{
		State:         state,
		Summary:       dashboard.Summarize(sessions),
		Sessions:      dashboard.Filter(sessions, state),
		StatusOptions: statusOptions,
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, "dashboard.tmpl", view); err != nil {
		log.Error().Err(err).Msg("render dashboard")
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
