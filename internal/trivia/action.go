package trivia

import (
	"strings"
	"time"
)

// Action is one state-machine transition. The set of actions is closed; see
// the types below.
type Action interface {
	apply(s *Session, now time.Time) error
}

// Apply runs a onto a copy of s and returns the new session. s itself is never
// modified, so a failed action leaves the caller's state intact.
func Apply(s Session, a Action, now time.Time) (Session, error) {
	next := s.Clone()
	if err := a.apply(&next, now); err != nil {
		return s, err
	}
	return next, nil
}

// MarkCorrect credits the current team with the question.
type MarkCorrect struct {
	Question   Question
	UsedAssist bool
}

// MarkIncorrect records a miss for the current team and passes the turn.
type MarkIncorrect struct {
	Question Question
}

// MarkTeamCorrect credits any team in shoutout mode.
type MarkTeamCorrect struct {
	TeamID   string
	Question Question
}

// SkipQuestion retires a question without scoring or changing turns.
type SkipQuestion struct {
	QuestionID int
}

// EditHistoryEntry flips the result of an already answered question.
type EditHistoryEntry struct {
	Index   int
	Correct bool
}

type RenameTeam struct {
	TeamID string
	Name   string
}

// EndGame stops the game early.
type EndGame struct{}

func (a MarkCorrect) apply(s *Session, now time.Time) error {
	if err := checkPlayable(s, a.Question); err != nil {
		return err
	}
	if a.UsedAssist && s.GameMode == ModeShoutout {
		return ErrWrongMode
	}
	idx, err := activeTeam(s)
	if err != nil {
		return err
	}

	points := a.Question.Difficulty.BasePoints()
	if a.UsedAssist {
		points = a.Question.Difficulty.AssistPoints()
	}
	award(s, idx, a.Question, points, now)

	if reachedTarget(s, idx) {
		s.GamePhase = PhaseVictory
		return nil
	}
	rotate(s)
	return nil
}

func (a MarkIncorrect) apply(s *Session, now time.Time) error {
	if err := checkPlayable(s, a.Question); err != nil {
		return err
	}
	idx, err := activeTeam(s)
	if err != nil {
		return err
	}

	s.DetailedHistory = append(s.DetailedHistory, newEntry(s.Teams[idx], a.Question, 0, false, now))
	s.QuestionHistory = append(s.QuestionHistory, a.Question.ID)
	rotate(s)
	return nil
}

func (a MarkTeamCorrect) apply(s *Session, now time.Time) error {
	if s.GameMode != ModeShoutout {
		return ErrWrongMode
	}
	if err := checkPlayable(s, a.Question); err != nil {
		return err
	}
	idx := s.teamIndex(a.TeamID)
	if idx < 0 {
		return ErrTeamNotFound
	}

	award(s, idx, a.Question, a.Question.Difficulty.BasePoints(), now)
	if reachedTarget(s, idx) {
		s.GamePhase = PhaseVictory
	}
	return nil
}

func (a SkipQuestion) apply(s *Session, _ time.Time) error {
	if s.GamePhase == PhaseVictory {
		return ErrGameOver
	}
	if a.QuestionID <= 0 {
		return invalid("questionId", "is required")
	}
	if s.questionUsed(a.QuestionID) {
		return ErrQuestionUsed
	}
	s.QuestionHistory = append(s.QuestionHistory, a.QuestionID)
	return nil
}

// Corrections always use the base rate because entries do not record whether
// an assist was used.
func (a EditHistoryEntry) apply(s *Session, _ time.Time) error {
	if a.Index < 0 || a.Index >= len(s.DetailedHistory) {
		return invalid("index", "history entry %d does not exist", a.Index)
	}
	entry := &s.DetailedHistory[a.Index]
	idx := s.teamIndex(entry.TeamID)
	if idx < 0 {
		return ErrTeamNotFound
	}
	team := &s.Teams[idx]

	if entry.WasCorrect {
		team.Score -= entry.Points
		team.CorrectAnswers--
	}
	if a.Correct {
		entry.Points = entry.Difficulty.BasePoints()
		team.Score += entry.Points
		team.CorrectAnswers++
	} else {
		entry.Points = 0
	}
	entry.WasCorrect = a.Correct

	if s.GamePhase == PhasePlaying && reachedTarget(s, idx) {
		s.GamePhase = PhaseVictory
	}
	return nil
}

func (a RenameTeam) apply(s *Session, _ time.Time) error {
	name := strings.TrimSpace(a.Name)
	if name == "" {
		return invalid("name", "team name is required")
	}
	idx := s.teamIndex(a.TeamID)
	if idx < 0 {
		return ErrTeamNotFound
	}
	s.Teams[idx].Name = name
	return nil
}

func (EndGame) apply(s *Session, _ time.Time) error {
	s.GamePhase = PhaseVictory
	return nil
}

func checkPlayable(s *Session, q Question) error {
	if s.GamePhase == PhaseVictory {
		return ErrGameOver
	}
	if q.ID <= 0 {
		return invalid("questionId", "is required")
	}
	if !q.Difficulty.Valid() {
		return invalid("difficulty", "unknown difficulty %q", q.Difficulty)
	}
	if s.questionUsed(q.ID) {
		return ErrQuestionUsed
	}
	return nil
}

func activeTeam(s *Session) (int, error) {
	if _, ok := s.CurrentTeam(); !ok {
		return 0, ErrNoActiveTeam
	}
	return *s.CurrentTeamIndex, nil
}

func award(s *Session, idx int, q Question, points float64, now time.Time) {
	team := &s.Teams[idx]
	team.Score += points
	team.CorrectAnswers++
	s.DetailedHistory = append(s.DetailedHistory, newEntry(*team, q, points, true, now))
	s.QuestionHistory = append(s.QuestionHistory, q.ID)
}

func reachedTarget(s *Session, idx int) bool {
	return s.Teams[idx].Score >= float64(s.TargetScore)
}

// rotate passes the turn in regular mode. Shoutout games and single-team
// sessions keep their index.
func rotate(s *Session) {
	n := len(s.Teams)
	if s.GameMode != ModeRegular || n <= 1 || s.CurrentTeamIndex == nil {
		return
	}
	next := (*s.CurrentTeamIndex + 1) % n
	s.CurrentTeamIndex = &next
}

func newEntry(t Team, q Question, points float64, correct bool, now time.Time) HistoryEntry {
	return HistoryEntry{
		QuestionID: q.ID,
		TeamID:     t.ID,
		TeamName:   t.Name,
		Difficulty: q.Difficulty,
		Question:   q.Question,
		Answer:     q.Answer,
		Reference:  q.Reference,
		Points:     points,
		WasCorrect: correct,
		Timestamp:  now.UnixMilli(),
	}
}
