// Package session is the access layer between the HTTP handlers and storage.
// It creates games, resolves questions for actions and persists the result of
// every transition.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/jwold/trailblazerstrivia/internal/trivia"
)

type QuestionStore interface {
	RandomQuestion(ctx context.Context, d trivia.Difficulty, category string, exclude []int) (trivia.Question, bool, error)
	Question(ctx context.Context, id int) (trivia.Question, error)
	AllQuestions(ctx context.Context) ([]trivia.Question, error)
	Categories(ctx context.Context) ([]trivia.CategoryStats, error)
}

type SessionStore interface {
	CreateSession(ctx context.Context, s trivia.Session) (trivia.Session, error)
	GetSession(ctx context.Context, code string) (trivia.Session, error)
	UpdateSession(ctx context.Context, code string, p trivia.Patch) (trivia.Session, error)
	DeleteSession(ctx context.Context, code string) (bool, error)
}

type Service struct {
	logger    *slog.Logger
	questions QuestionStore
	sessions  SessionStore
	now       func() time.Time
	startTeam func(n int) int
}

func NewService(logger *slog.Logger, questions QuestionStore, sessions SessionStore) *Service {
	return &Service{
		logger:    logger,
		questions: questions,
		sessions:  sessions,
		now:       time.Now,
		startTeam: rand.IntN,
	}
}

// Create validates setup, assigns team IDs, picks a random starting team and
// stores the new game.
func (s *Service) Create(ctx context.Context, setup trivia.Setup) (trivia.Session, error) {
	setup, err := setup.Normalize()
	if err != nil {
		return trivia.Session{}, err
	}
	for i := range setup.Teams {
		if setup.Teams[i].ID == "" {
			setup.Teams[i].ID = uuid.NewString()
		}
	}

	sess, err := trivia.NewSession(setup, s.startTeam(len(setup.Teams)), s.now())
	if err != nil {
		return trivia.Session{}, err
	}
	created, err := s.sessions.CreateSession(ctx, sess)
	if err != nil {
		return trivia.Session{}, fmt.Errorf("creating session: %w", err)
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, code string) (trivia.Session, error) {
	code, err := lookupCode(code)
	if err != nil {
		return trivia.Session{}, err
	}
	return s.sessions.GetSession(ctx, code)
}

// Update merges a client-computed patch into the stored session.
func (s *Service) Update(ctx context.Context, code string, p trivia.Patch) (trivia.Session, error) {
	code, err := lookupCode(code)
	if err != nil {
		return trivia.Session{}, err
	}
	return s.sessions.UpdateSession(ctx, code, p)
}

// Apply runs one action against the stored session and saves the result.
func (s *Service) Apply(ctx context.Context, code string, req ActionRequest) (trivia.Session, error) {
	current, err := s.Get(ctx, code)
	if err != nil {
		return trivia.Session{}, err
	}
	action, err := s.resolve(ctx, req)
	if err != nil {
		return trivia.Session{}, err
	}
	next, err := trivia.Apply(current, action, s.now())
	if err != nil {
		return trivia.Session{}, err
	}
	saved, err := s.sessions.UpdateSession(ctx, current.GameCode, snapshot(next))
	if err != nil {
		return trivia.Session{}, err
	}

	if current.GamePhase != trivia.PhaseVictory && saved.GamePhase == trivia.PhaseVictory {
		if leader, ok := saved.Leader(); ok {
			s.logger.Info("game finished",
				"game_code", saved.GameCode,
				"winner", leader.Name,
				"score", leader.Score,
				"questions", len(saved.QuestionHistory),
			)
		}
	}
	return saved, nil
}

// RandomQuestion draws an unplayed question of the given difficulty from the
// session's category.
func (s *Service) RandomQuestion(ctx context.Context, code, difficulty string) (trivia.Question, error) {
	d, err := trivia.ParseDifficulty(difficulty)
	if err != nil {
		return trivia.Question{}, err
	}
	sess, err := s.Get(ctx, code)
	if err != nil {
		return trivia.Question{}, err
	}

	q, found, err := s.questions.RandomQuestion(ctx, d, sess.Category, sess.QuestionHistory)
	if err != nil {
		return trivia.Question{}, fmt.Errorf("drawing question: %w", err)
	}
	if !found {
		return trivia.Question{}, trivia.ErrExhausted
	}
	return q, nil
}

func (s *Service) Delete(ctx context.Context, code string) error {
	code, err := lookupCode(code)
	if err != nil {
		return err
	}
	ok, err := s.sessions.DeleteSession(ctx, code)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	if !ok {
		return trivia.ErrNotFound
	}
	return nil
}

func (s *Service) Questions(ctx context.Context) ([]trivia.Question, error) {
	return s.questions.AllQuestions(ctx)
}

func (s *Service) Categories(ctx context.Context) ([]trivia.CategoryStats, error) {
	return s.questions.Categories(ctx)
}

// lookupCode normalizes a client-supplied code. Codes that cannot exist are
// reported as not found without touching the store.
func lookupCode(code string) (string, error) {
	code = trivia.NormalizeGameCode(code)
	if !trivia.ValidGameCode(code) {
		return "", trivia.ErrNotFound
	}
	return code, nil
}

// snapshot turns a full session into a patch of every mutable field.
func snapshot(s trivia.Session) trivia.Patch {
	return trivia.Patch{
		Teams:            &s.Teams,
		CurrentTeamIndex: s.CurrentTeamIndex,
		QuestionHistory:  &s.QuestionHistory,
		DetailedHistory:  &s.DetailedHistory,
		GamePhase:        &s.GamePhase,
		IsActive:         &s.IsActive,

		ClearCurrentTeamIndex: s.CurrentTeamIndex == nil,
	}
}
