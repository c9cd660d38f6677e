package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func handleGamification(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sum, err := deps.Service.Gamification(r.Context())
		if err != nil {
			serviceError(w, "gamification", err)
			return
		}
		writeJSON(w, http.StatusOK, sum)
	}
}

// handleCompleteChallenge credits today's challenge. Any other challenge,
// or a second completion on the same day, is a 400.
func handleCompleteChallenge(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := deps.Service.CompleteChallenge(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			serviceError(w, "complete challenge", err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func handleAssess(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := deps.Service.Coach(r.Context())
		if err != nil {
			serviceError(w, "assess progress", err)
			return
		}
		writeJSON(w, http.StatusCreated, a)
	}
}

func handleWeeklyReview(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		review, err := deps.Service.WeeklyReview(r.Context())
		if err != nil {
			serviceError(w, "weekly review", err)
			return
		}
		writeJSON(w, http.StatusOK, review)
	}
}

func handleDailyMotivation(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := deps.Service.DailyMotivation(r.Context())
		if err != nil {
			serviceError(w, "daily motivation", err)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}
