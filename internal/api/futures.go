package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/futuresim/internal/profile"
	"github.com/kalambet/futuresim/internal/simulator"
	"github.com/kalambet/futuresim/internal/storage"
)

// GenerateRequest is the body of POST /futures.
type GenerateRequest struct {
	profile.UserProfile
	SessionID string `json:"sessionId,omitempty"`
}

// ExportRequest is the body of POST /futures/{id}/exports.
type ExportRequest struct {
	Format          string `json:"format"`
	IncludeProgress bool   `json:"includeProgress"`
	IncludeInsights bool   `json:"includeInsights"`
}

type analyzeRequest struct {
	Dream string `json:"dream"`
}

// decodeBody reads a size-limited JSON body into v. It writes the 400
// response itself and reports false on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
		return false
	}
	return true
}

func handleGenerate(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GenerateRequest
		if !decodeBody(w, r, &req) {
			return
		}
		rec, err := deps.Service.Generate(r.Context(), req.UserProfile, req.SessionID)
		if err != nil {
			serviceError(w, "generate future", err)
			return
		}
		writeJSON(w, http.StatusCreated, rec)
	}
}

func handleListFutures(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseIntParam(r, "limit", 20, 100)
		futures, err := deps.Service.ListFutures(limit)
		if err != nil {
			serviceError(w, "list futures", err)
			return
		}
		writeJSON(w, http.StatusOK, futures)
	}
}

func handleFutureStats(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := deps.Service.FutureStats()
		if err != nil {
			serviceError(w, "future stats", err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func handleGetFuture(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := deps.Service.Future(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			serviceError(w, "future", err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

func handleDeleteFuture(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Service.DeleteFuture(chi.URLParam(r, "id")); err != nil {
			serviceError(w, "future", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleReport(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := deps.Service.Report(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			serviceError(w, "future", err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func handleRequestExport(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ExportRequest
		if !decodeBody(w, r, &req) {
			return
		}
		exp, err := deps.Service.RequestExport(r.Context(), simulator.ExportRequest{
			FutureID:        chi.URLParam(r, "id"),
			Format:          req.Format,
			IncludeProgress: req.IncludeProgress,
			IncludeInsights: req.IncludeInsights,
		})
		if err != nil {
			serviceError(w, "future", err)
			return
		}
		w.Header().Set("Location", "/exports/"+exp.ID)
		writeJSON(w, http.StatusAccepted, exp)
	}
}

// handleGetExport serves the rendered document once it is ready and the
// export status otherwise.
func handleGetExport(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		exp, err := deps.Service.Export(chi.URLParam(r, "id"))
		if err != nil {
			serviceError(w, "export", err)
			return
		}
		switch exp.Status {
		case storage.ExportReady:
			w.Header().Set("Content-Type", exp.ContentType)
			w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exp.Filename))
			w.Write(exp.Body)
		case storage.ExportPending:
			writeJSON(w, http.StatusAccepted, exp)
		default:
			writeJSON(w, http.StatusOK, exp)
		}
	}
}

func handleAnalyze(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req analyzeRequest
		if !decodeBody(w, r, &req) {
			return
		}
		a, err := deps.Service.Analyze(req.Dream)
		if err != nil {
			serviceError(w, "analyze dream", err)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}
