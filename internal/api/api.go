package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kalambet/futuresim/internal/metrics"
	"github.com/kalambet/futuresim/internal/simulator"
)

const maxRequestBodySize = 1 << 20 // 1MB

// Deps holds everything the HTTP API needs.
type Deps struct {
	Service     *simulator.Service
	Token       string
	CORSOrigins []string
	RateLimit   float64 // generate requests per second; 0 disables
	Metrics     *metrics.Metrics
	Gatherer    prometheus.Gatherer // optional; /metrics is not mounted when nil
}

// NewHandler returns the REST API. /health and /metrics are public, every
// other route requires the bearer token.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(Instrument(deps.Metrics))
	if len(deps.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: deps.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", handleHealth)
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(deps.Token))

		r.With(RateLimit(deps.RateLimit, deps.Metrics)).Post("/futures", handleGenerate(deps))
		r.Get("/futures", handleListFutures(deps))
		r.Get("/futures/stats", handleFutureStats(deps))
		r.Get("/futures/{id}", handleGetFuture(deps))
		r.Delete("/futures/{id}", handleDeleteFuture(deps))
		r.Get("/futures/{id}/report", handleReport(deps))
		r.Post("/futures/{id}/exports", handleRequestExport(deps))
		r.Get("/exports/{id}", handleGetExport(deps))
		r.Post("/analyze", handleAnalyze(deps))

		r.Get("/progress", handleGetProgress(deps))
		r.Get("/progress/stats", handleProgressStats(deps))
		r.Post("/progress/milestones", handleAddMilestone(deps))
		r.Post("/progress/milestones/suggest", handleSuggestMilestones(deps))
		r.Post("/progress/milestones/{id}/complete", handleCompleteMilestone(deps))
		r.Delete("/progress/milestones/{id}", handleDeleteMilestone(deps))
		r.Post("/progress/shares", handleShare(deps))
		r.Post("/events", handleRecordEvent(deps))

		r.Get("/gamification", handleGamification(deps))
		r.Post("/gamification/challenges/{id}/complete", handleCompleteChallenge(deps))
		r.Post("/coach/assessments", handleAssess(deps))
		r.Get("/coach/weekly-review", handleWeeklyReview(deps))
		r.Get("/coach/daily", handleDailyMotivation(deps))
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
