// Package trivia defines the core domain types and the game-session state
// machine. It has no dependencies outside the standard library.
package trivia

import (
	"slices"
	"time"
)

type GameMode string

const (
	ModeRegular  GameMode = "regular"
	ModeShoutout GameMode = "shoutout"
)

func (m GameMode) Valid() bool {
	return m == ModeRegular || m == ModeShoutout
}

type Phase string

const (
	PhaseSetup   Phase = "setup"
	PhasePlaying Phase = "playing"
	PhaseVictory Phase = "victory"
)

func (p Phase) Valid() bool {
	return p == PhaseSetup || p == PhasePlaying || p == PhaseVictory
}

type Team struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Color          string  `json:"color"`
	Score          float64 `json:"score"`
	CorrectAnswers int     `json:"correctAnswers"`
}

type Question struct {
	ID         int        `json:"id"`
	Difficulty Difficulty `json:"difficulty"`
	Question   string     `json:"question"`
	Answer     string     `json:"answer"`
	Reference  string     `json:"reference"`
	Category   string     `json:"category"`
}

// HistoryEntry records one answered question. TeamName is a snapshot taken
// when the answer was marked; later renames do not rewrite it.
type HistoryEntry struct {
	QuestionID int        `json:"questionId"`
	TeamID     string     `json:"teamId"`
	TeamName   string     `json:"teamName"`
	Difficulty Difficulty `json:"difficulty"`
	Question   string     `json:"question"`
	Answer     string     `json:"answer"`
	Reference  string     `json:"reference"`
	Points     float64    `json:"points"`
	WasCorrect bool       `json:"wasCorrect"`
	Timestamp  int64      `json:"timestamp"`
}

// CategoryStats summarizes the question pool for one category.
type CategoryStats struct {
	Category string             `json:"category"`
	Counts   map[Difficulty]int `json:"counts"`
	Total    int                `json:"total"`
}

type Session struct {
	GameCode         string         `json:"gameCode"`
	Teams            []Team         `json:"teams"`
	CurrentTeamIndex *int           `json:"currentTeamIndex"`
	TargetScore      int            `json:"targetScore"`
	Category         string         `json:"category"`
	GameMode         GameMode       `json:"gameMode"`
	QuestionHistory  []int          `json:"questionHistory"`
	DetailedHistory  []HistoryEntry `json:"detailedHistory"`
	GamePhase        Phase          `json:"gamePhase"`
	IsActive         bool           `json:"isActive"`
	CreatedAt        time.Time      `json:"createdAt"`
}

// Clone returns a deep copy so that actions never alias the caller's slices.
func (s Session) Clone() Session {
	c := s
	c.Teams = slices.Clone(s.Teams)
	c.QuestionHistory = slices.Clone(s.QuestionHistory)
	c.DetailedHistory = slices.Clone(s.DetailedHistory)
	if s.CurrentTeamIndex != nil {
		idx := *s.CurrentTeamIndex
		c.CurrentTeamIndex = &idx
	}
	if c.Teams == nil {
		c.Teams = []Team{}
	}
	if c.QuestionHistory == nil {
		c.QuestionHistory = []int{}
	}
	if c.DetailedHistory == nil {
		c.DetailedHistory = []HistoryEntry{}
	}
	return c
}

// CurrentTeam returns the team whose turn it is, if any.
func (s Session) CurrentTeam() (Team, bool) {
	if s.CurrentTeamIndex == nil {
		return Team{}, false
	}
	i := *s.CurrentTeamIndex
	if i < 0 || i >= len(s.Teams) {
		return Team{}, false
	}
	return s.Teams[i], true
}

func (s Session) teamIndex(id string) int {
	return slices.IndexFunc(s.Teams, func(t Team) bool { return t.ID == id })
}

func (s Session) questionUsed(id int) bool {
	return slices.Contains(s.QuestionHistory, id)
}

// Leader returns the team with the highest score. Ties go to the team listed
// first.
func (s Session) Leader() (Team, bool) {
	if len(s.Teams) == 0 {
		return Team{}, false
	}
	best := s.Teams[0]
	for _, t := range s.Teams[1:] {
		if t.Score > best.Score {
			best = t
		}
	}
	return best, true
}

func intPtr(v int) *int { return &v }
