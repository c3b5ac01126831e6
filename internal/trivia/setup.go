package trivia

import (
	"crypto/rand"
	"fmt"
	"slices"
	"strings"
	"time"
)

const (
	MinTeams          = 2
	MinTargetScore    = 5
	MaxTargetScore    = 50
	DefaultTarget     = 10
	DefaultCategory   = "bible"
	GameCodeLength    = 6
	fallbackTeamColor = "gray"
)

type TeamSetup struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Setup is the payload used to start a game.
type Setup struct {
	Teams       []TeamSetup `json:"teams"`
	TargetScore int         `json:"targetScore,omitempty"`
	Category    string      `json:"category,omitempty"`
	GameMode    GameMode    `json:"gameMode,omitempty"`
}

// Normalize applies defaults, validates the setup, and fills in blank team
// names and colours from the category's name list and the colour palette.
// Team IDs are left to the caller.
func (s Setup) Normalize() (Setup, error) {
	out := Setup{
		TargetScore: s.TargetScore,
		Category:    strings.ToLower(strings.TrimSpace(s.Category)),
		GameMode:    s.GameMode,
	}
	if out.TargetScore == 0 {
		out.TargetScore = DefaultTarget
	}
	if out.Category == "" {
		out.Category = DefaultCategory
	}
	if out.GameMode == "" {
		out.GameMode = ModeRegular
	}

	if len(s.Teams) < MinTeams {
		return Setup{}, invalid("teams", "at least %d teams required", MinTeams)
	}
	if out.TargetScore < MinTargetScore || out.TargetScore > MaxTargetScore {
		return Setup{}, invalid("targetScore", "must be between %d and %d", MinTargetScore, MaxTargetScore)
	}
	if !out.GameMode.Valid() {
		return Setup{}, invalid("gameMode", "unknown game mode %q", s.GameMode)
	}

	seen := make(map[string]bool, len(s.Teams))
	out.Teams = make([]TeamSetup, len(s.Teams))
	for i, t := range s.Teams {
		t.ID = strings.TrimSpace(t.ID)
		t.Name = strings.TrimSpace(t.Name)
		t.Color = strings.TrimSpace(t.Color)
		if t.ID != "" {
			if seen[t.ID] {
				return Setup{}, invalid("teams", "duplicate team id %q", t.ID)
			}
			seen[t.ID] = true
		}
		out.Teams[i] = t
	}

	names := TeamNames(out.Category)
	var usedNames, usedColors []string
	for _, t := range out.Teams {
		usedNames = append(usedNames, t.Name)
		usedColors = append(usedColors, t.Color)
	}
	for i := range out.Teams {
		t := &out.Teams[i]
		if t.Name == "" {
			t.Name = pickUnused(names, usedNames, fmt.Sprintf("Team %d", i+1))
			usedNames = append(usedNames, t.Name)
		}
		if t.Color == "" {
			t.Color = pickUnused(TeamColors, usedColors, fallbackTeamColor)
			usedColors = append(usedColors, t.Color)
		}
	}
	return out, nil
}

func pickUnused(pool, used []string, fallback string) string {
	for _, p := range pool {
		if !slices.Contains(used, p) {
			return p
		}
	}
	return fallback
}

// NewSession builds a fresh playing session from a setup. start is the index of
// the team that answers first; callers draw it uniformly at random.
func NewSession(setup Setup, start int, now time.Time) (Session, error) {
	setup, err := setup.Normalize()
	if err != nil {
		return Session{}, err
	}
	if start < 0 || start >= len(setup.Teams) {
		return Session{}, invalid("currentTeamIndex", "start index %d out of range", start)
	}

	teams := make([]Team, len(setup.Teams))
	for i, t := range setup.Teams {
		if t.ID == "" {
			return Session{}, invalid("teams", "team %d has no id", i)
		}
		teams[i] = Team{ID: t.ID, Name: t.Name, Color: t.Color}
	}

	return Session{
		Teams:            teams,
		CurrentTeamIndex: intPtr(start),
		TargetScore:      setup.TargetScore,
		Category:         setup.Category,
		GameMode:         setup.GameMode,
		QuestionHistory:  []int{},
		DetailedHistory:  []HistoryEntry{},
		GamePhase:        PhasePlaying,
		IsActive:         true,
		CreatedAt:        now.UTC(),
	}, nil
}

// NewGameCode returns a random code of six uppercase letters and digits.
func NewGameCode() string {
	return rand.Text()[:GameCodeLength]
}

// NormalizeGameCode upper-cases and trims a user-supplied code.
func NormalizeGameCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func ValidGameCode(code string) bool {
	if len(code) != GameCodeLength {
		return false
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
