package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/kalambet/futuresim/internal/export"
	"github.com/kalambet/futuresim/internal/profile"
	"github.com/kalambet/futuresim/internal/simulator"
)

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}

// serviceError maps a service error onto the HTTP error envelope.
func serviceError(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, profile.ErrInvalidInput), errors.Is(err, export.ErrUnsupportedFormat):
		httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
	case simulator.IsNotFound(err):
		httpError(w, http.StatusNotFound, "not_found", "%s: not found", action)
	default:
		slog.Error("request failed", "action", action, "error", err)
		httpError(w, http.StatusInternalServerError, "api_error", "%s: %v", action, err)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func parseIntParam(r *http.Request, key string, defaultVal, maxVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	if maxVal > 0 && v > maxVal {
		return maxVal
	}
	return v
}
