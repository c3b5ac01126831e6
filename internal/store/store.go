// Package store persists questions and game sessions. Questions always live in
// SQLite; sessions live in SQLite or Redis.
package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jwold/trailblazerstrivia/internal/trivia"
)

// createAttempts bounds the retries when a freshly drawn game code collides
// with an existing session.
const createAttempts = 8

// sessionDoc is the persisted form of a session. Structured fields are stored
// as encoded JSON values and decoded back to native slices at the boundary.
type sessionDoc struct {
	GameCode         string `json:"gameCode"`
	Teams            string `json:"teams"`
	CurrentTeamIndex *int   `json:"currentTeamIndex"`
	TargetScore      int    `json:"targetScore"`
	Category         string `json:"category"`
	GameMode         string `json:"gameMode"`
	QuestionHistory  string `json:"questionHistory"`
	DetailedHistory  string `json:"detailedHistory"`
	GamePhase        string `json:"gamePhase"`
	IsActive         bool   `json:"isActive"`
	CreatedAt        string `json:"createdAt"`
}

func encodeSession(s trivia.Session) (sessionDoc, error) {
	s = s.Clone()
	teams, err := json.Marshal(s.Teams)
	if err != nil {
		return sessionDoc{}, fmt.Errorf("encoding teams: %w", err)
	}
	qh, err := json.Marshal(s.QuestionHistory)
	if err != nil {
		return sessionDoc{}, fmt.Errorf("encoding question history: %w", err)
	}
	dh, err := json.Marshal(s.DetailedHistory)
	if err != nil {
		return sessionDoc{}, fmt.Errorf("encoding detailed history: %w", err)
	}
	return sessionDoc{
		GameCode:         s.GameCode,
		Teams:            string(teams),
		CurrentTeamIndex: s.CurrentTeamIndex,
		TargetScore:      s.TargetScore,
		Category:         s.Category,
		GameMode:         string(s.GameMode),
		QuestionHistory:  string(qh),
		DetailedHistory:  string(dh),
		GamePhase:        string(s.GamePhase),
		IsActive:         s.IsActive,
		CreatedAt:        s.CreatedAt.UTC().Format(time.RFC3339Nano),
	}, nil
}

func decodeSession(d sessionDoc) (trivia.Session, error) {
	s := trivia.Session{
		GameCode:         d.GameCode,
		CurrentTeamIndex: d.CurrentTeamIndex,
		TargetScore:      d.TargetScore,
		Category:         d.Category,
		GameMode:         trivia.GameMode(d.GameMode),
		GamePhase:        trivia.Phase(d.GamePhase),
		IsActive:         d.IsActive,
	}
	if err := unmarshalOrEmpty(d.Teams, &s.Teams); err != nil {
		return trivia.Session{}, fmt.Errorf("decoding teams: %w", err)
	}
	if err := unmarshalOrEmpty(d.QuestionHistory, &s.QuestionHistory); err != nil {
		return trivia.Session{}, fmt.Errorf("decoding question history: %w", err)
	}
	if err := unmarshalOrEmpty(d.DetailedHistory, &s.DetailedHistory); err != nil {
		return trivia.Session{}, fmt.Errorf("decoding detailed history: %w", err)
	}
	if d.CreatedAt != "" {
		t, err := time.Parse(time.RFC3339Nano, d.CreatedAt)
		if err != nil {
			return trivia.Session{}, fmt.Errorf("decoding created_at: %w", err)
		}
		s.CreatedAt = t
	}
	return s.Clone(), nil
}

func unmarshalOrEmpty(data string, v any) error {
	if data == "" {
		data = "[]"
	}
	return json.Unmarshal([]byte(data), v)
}
