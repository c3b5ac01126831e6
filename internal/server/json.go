package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jwold/trailblazerstrivia/internal/trivia"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeServiceError maps errors from the session layer onto HTTP statuses.
// Anything unrecognised is logged and hidden behind a 500.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var ve *trivia.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, trivia.ErrNotFound):
		writeError(w, http.StatusNotFound, "game not found")
	case errors.Is(err, trivia.ErrTeamNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, trivia.ErrGameOver),
		errors.Is(err, trivia.ErrQuestionUsed),
		errors.Is(err, trivia.ErrWrongMode),
		errors.Is(err, trivia.ErrNoActiveTeam):
		writeError(w, http.StatusConflict, err.Error())
	default:
		logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
