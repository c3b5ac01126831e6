package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jwold/trailblazerstrivia/internal/trivia"
)

type ctxKey int

const ctxKeyGameCode ctxKey = iota

// gameCodeMiddleware normalizes the {code} URL parameter and rejects codes
// that cannot belong to any game.
func gameCodeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := trivia.NormalizeGameCode(chi.URLParam(r, "code"))
		if !trivia.ValidGameCode(code) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyGameCode, code)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func gameCode(r *http.Request) string {
	code, _ := r.Context().Value(ctxKeyGameCode).(string)
	return code
}
