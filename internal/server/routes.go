package server

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/jwold/trailblazerstrivia/internal/handler/health"
)

func addRoutes(r chi.Router, logger *slog.Logger, games GameService, broker *Broker, opts Options) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", handleSwaggerUI())
	r.Mount("/healthz", health.NewHandler(logger, opts.Checks).Routes())

	r.Route("/api", func(r chi.Router) {
		r.Get("/questions", handleListQuestions(logger, games))
		r.Get("/categories", handleListCategories(logger, games))

		r.Post("/games", handleCreateGame(logger, games))

		// {code} is normalized and checked by gameCodeMiddleware.
		r.Route("/games/{code}", func(r chi.Router) {
			r.Use(gameCodeMiddleware)
			r.Get("/", handleGetGame(logger, games))
			r.Put("/", handleUpdateGame(logger, games, broker))
			r.Patch("/", handleUpdateGame(logger, games, broker))
			r.Delete("/", handleDeleteGame(logger, games, broker))
			r.Get("/question/{difficulty}", handleRandomQuestion(logger, games))
			r.Post("/actions", handleApplyAction(logger, games, broker))
			r.Get("/events", handleEvents(logger, games, broker))
			r.Get("/ws", handleGameSocket(logger, games, broker))
			r.Get("/qr", handleQRCode(logger, games, opts.PublicURL))
		})
	})

	if opts.SPADir != "" {
		if info, err := os.Stat(opts.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", opts.SPADir)
			r.NotFound(handleSPA(opts.SPADir))
		}
	}
}

func handleSwaggerUI() http.Handler {
	return v5emb.New("Trailblazers Trivia API", "/openapi.json", "/docs")
}
