package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jwold/trailblazerstrivia/internal/session"
	"github.com/jwold/trailblazerstrivia/internal/trivia"
)

// handleRandomQuestion answers 204 when every question of the requested
// difficulty has been played in this game.
func handleRandomQuestion(logger *slog.Logger, games GameService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := games.RandomQuestion(r.Context(), gameCode(r), chi.URLParam(r, "difficulty"))
		if errors.Is(err, trivia.ErrExhausted) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

func handleApplyAction(logger *slog.Logger, games GameService, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req session.ActionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		sess, err := games.Apply(r.Context(), gameCode(r), req)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}

		logger.Debug("action applied", "game_code", sess.GameCode, "type", req.Type, "phase", sess.GamePhase)
		broker.Notify(sess.GameCode)
		writeJSON(w, http.StatusOK, sess)
	}
}

func handleListQuestions(logger *slog.Logger, games GameService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qs, err := games.Questions(r.Context())
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, qs)
	}
}

func handleListCategories(logger *slog.Logger, games GameService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := games.Categories(r.Context())
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}
