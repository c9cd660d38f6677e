package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/futuresim/internal/analytics"
	"github.com/kalambet/futuresim/internal/progress"
)

type shareRequest struct {
	SessionID string `json:"sessionId"`
}

func handleGetProgress(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := deps.Service.Progress(r.Context())
		if err != nil {
			serviceError(w, "load progress", err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func handleProgressStats(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := deps.Service.ProgressStats(r.Context())
		if err != nil {
			serviceError(w, "progress stats", err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func handleAddMilestone(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in progress.MilestoneInput
		if !decodeBody(w, r, &in) {
			return
		}
		m, err := deps.Service.AddMilestone(in)
		if err != nil {
			serviceError(w, "add milestone", err)
			return
		}
		writeJSON(w, http.StatusCreated, m)
	}
}

// handleSuggestMilestones turns the first timeline events of a future into
// milestones. Without future_id the latest future is used.
func handleSuggestMilestones(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ms, err := deps.Service.SuggestMilestones(r.Context(), r.URL.Query().Get("future_id"))
		if err != nil {
			serviceError(w, "future", err)
			return
		}
		writeJSON(w, http.StatusCreated, ms)
	}
}

func handleCompleteMilestone(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := deps.Service.CompleteMilestone(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			serviceError(w, "milestone", err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func handleDeleteMilestone(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Service.DeleteMilestone(chi.URLParam(r, "id")); err != nil {
			serviceError(w, "milestone", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleShare(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		// The body is optional.
		var req shareRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if err := deps.Service.Share(req.SessionID); err != nil {
			serviceError(w, "share", err)
			return
		}
		snap, err := deps.Service.Progress(r.Context())
		if err != nil {
			serviceError(w, "load progress", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"socialShares": snap.SocialShares})
	}
}

func handleRecordEvent(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var e analytics.Event
		if !decodeBody(w, r, &e) {
			return
		}
		if err := deps.Service.RecordEvent(e); err != nil {
			serviceError(w, "record event", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
