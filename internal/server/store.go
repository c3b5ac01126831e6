package server

import (
	"context"

	"github.com/jwold/trailblazerstrivia/internal/session"
	"github.com/jwold/trailblazerstrivia/internal/trivia"
)

// GameService is what the handlers need from the session layer.
type GameService interface {
	Create(ctx context.Context, setup trivia.Setup) (trivia.Session, error)
	Get(ctx context.Context, code string) (trivia.Session, error)
	Update(ctx context.Context, code string, p trivia.Patch) (trivia.Session, error)
	Apply(ctx context.Context, code string, req session.ActionRequest) (trivia.Session, error)
	RandomQuestion(ctx context.Context, code, difficulty string) (trivia.Question, error)
	Delete(ctx context.Context, code string) error
	Questions(ctx context.Context) ([]trivia.Question, error)
	Categories(ctx context.Context) ([]trivia.CategoryStats, error)
}
