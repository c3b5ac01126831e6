package server

import (
	"log/slog"
	"net/http"

	"github.com/jwold/trailblazerstrivia/internal/trivia"
)

// CreateGameResponse is returned when a game is created.
type CreateGameResponse struct {
	GameCode string         `json:"gameCode"`
	Session  trivia.Session `json:"session"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func handleCreateGame(logger *slog.Logger, games GameService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var setup trivia.Setup
		if err := readJSON(r, &setup); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		sess, err := games.Create(r.Context(), setup)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}

		logger.Info("game created",
			"game_code", sess.GameCode,
			"teams", len(sess.Teams),
			"mode", sess.GameMode,
			"target", sess.TargetScore,
		)
		writeJSON(w, http.StatusCreated, CreateGameResponse{GameCode: sess.GameCode, Session: sess})
	}
}

func handleGetGame(logger *slog.Logger, games GameService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := games.Get(r.Context(), gameCode(r))
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

// handleUpdateGame merges a client-computed patch. It serves both PUT and
// PATCH since clients send only the fields they changed either way.
func handleUpdateGame(logger *slog.Logger, games GameService, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch trivia.Patch
		if err := readJSON(r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if patch.Empty() {
			writeError(w, http.StatusBadRequest, "no updatable fields in request")
			return
		}

		sess, err := games.Update(r.Context(), gameCode(r), patch)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}

		broker.Notify(sess.GameCode)
		writeJSON(w, http.StatusOK, sess)
	}
}

func handleDeleteGame(logger *slog.Logger, games GameService, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := gameCode(r)
		if err := games.Delete(r.Context(), code); err != nil {
			writeServiceError(w, logger, err)
			return
		}

		broker.Notify(code)
		logger.Info("game deleted", "game_code", code)
		writeJSON(w, http.StatusOK, MessageResponse{Message: "Game session deleted successfully"})
	}
}
