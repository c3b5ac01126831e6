package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/jwold/trailblazerstrivia/internal/trivia"
)

type ActionType string

const (
	ActionMarkCorrect      ActionType = "markCorrect"
	ActionMarkIncorrect    ActionType = "markIncorrect"
	ActionMarkTeamCorrect  ActionType = "markTeamCorrect"
	ActionSkipQuestion     ActionType = "skipQuestion"
	ActionEditHistoryEntry ActionType = "editHistoryEntry"
	ActionRenameTeam       ActionType = "renameTeam"
	ActionEndGame          ActionType = "endGame"
)

// ActionRequest is the wire form of a state-machine action. Which fields are
// read depends on Type.
type ActionRequest struct {
	Type       ActionType `json:"type"`
	QuestionID int        `json:"questionId,omitempty"`
	UsedAssist bool       `json:"usedAssist,omitempty"`
	TeamID     string     `json:"teamId,omitempty"`
	Index      *int       `json:"index,omitempty"`
	Correct    bool       `json:"correct,omitempty"`
	Name       string     `json:"name,omitempty"`
}

func (s *Service) resolve(ctx context.Context, req ActionRequest) (trivia.Action, error) {
	switch req.Type {
	case ActionMarkCorrect:
		q, err := s.question(ctx, req.QuestionID)
		if err != nil {
			return nil, err
		}
		return trivia.MarkCorrect{Question: q, UsedAssist: req.UsedAssist}, nil
	case ActionMarkIncorrect:
		q, err := s.question(ctx, req.QuestionID)
		if err != nil {
			return nil, err
		}
		return trivia.MarkIncorrect{Question: q}, nil
	case ActionMarkTeamCorrect:
		if req.TeamID == "" {
			return nil, &trivia.ValidationError{Field: "teamId", Msg: "is required"}
		}
		q, err := s.question(ctx, req.QuestionID)
		if err != nil {
			return nil, err
		}
		return trivia.MarkTeamCorrect{TeamID: req.TeamID, Question: q}, nil
	case ActionSkipQuestion:
		return trivia.SkipQuestion{QuestionID: req.QuestionID}, nil
	case ActionEditHistoryEntry:
		if req.Index == nil {
			return nil, &trivia.ValidationError{Field: "index", Msg: "is required"}
		}
		return trivia.EditHistoryEntry{Index: *req.Index, Correct: req.Correct}, nil
	case ActionRenameTeam:
		if req.TeamID == "" {
			return nil, &trivia.ValidationError{Field: "teamId", Msg: "is required"}
		}
		return trivia.RenameTeam{TeamID: req.TeamID, Name: req.Name}, nil
	case ActionEndGame:
		return trivia.EndGame{}, nil
	case "":
		return nil, &trivia.ValidationError{Field: "type", Msg: "is required"}
	default:
		return nil, &trivia.ValidationError{Field: "type", Msg: fmt.Sprintf("unknown action %q", req.Type)}
	}
}

// question loads the question an action refers to. An unknown ID is the
// caller's mistake, not a missing game.
func (s *Service) question(ctx context.Context, id int) (trivia.Question, error) {
	if id <= 0 {
		return trivia.Question{}, &trivia.ValidationError{Field: "questionId", Msg: "is required"}
	}
	q, err := s.questions.Question(ctx, id)
	if errors.Is(err, trivia.ErrNotFound) {
		return trivia.Question{}, &trivia.ValidationError{Field: "questionId", Msg: fmt.Sprintf("unknown question %d", id)}
	}
	if err != nil {
		return trivia.Question{}, fmt.Errorf("loading question: %w", err)
	}
	return q, nil
}
