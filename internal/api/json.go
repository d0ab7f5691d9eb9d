package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/subhashbohra/acloudresume-site/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// writeError maps domain sentinels onto HTTP statuses; anything unrecognized
// is logged and reported as a 500 without leaking internals.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrNoFeedConfigured):
		writeJSON(w, http.StatusServiceUnavailable, errorBody("no feed source configured"))
	case errors.Is(err, apperr.ErrStaleRefresh):
		writeJSON(w, http.StatusConflict, errorBody("superseded by a newer refresh"))
	case errors.Is(err, apperr.ErrRefreshInFlight):
		writeJSON(w, http.StatusTooManyRequests, errorBody("refresh already in flight"))
	default:
		slog.Error("request failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
