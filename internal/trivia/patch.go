package trivia

import (
	"bytes"
	"encoding/json"
)

// Patch is a partial session update computed by a client. Nil fields are left
// untouched. Code, target score, category and mode are fixed at creation and
// cannot be patched. An explicit "currentTeamIndex": null sets
// ClearCurrentTeamIndex.
type Patch struct {
	Teams            *[]Team         `json:"teams,omitempty"`
	CurrentTeamIndex *int            `json:"currentTeamIndex,omitempty"`
	QuestionHistory  *[]int          `json:"questionHistory,omitempty"`
	DetailedHistory  *[]HistoryEntry `json:"detailedHistory,omitempty"`
	GamePhase        *Phase          `json:"gamePhase,omitempty"`
	IsActive         *bool           `json:"isActive,omitempty"`

	ClearCurrentTeamIndex bool `json:"-"`
}

func (p *Patch) UnmarshalJSON(data []byte) error {
	type plain Patch
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if raw, ok := fields["currentTeamIndex"]; ok && bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		v.ClearCurrentTeamIndex = true
	}
	*p = Patch(v)
	return nil
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Teams == nil && p.CurrentTeamIndex == nil && p.QuestionHistory == nil &&
		p.DetailedHistory == nil && p.GamePhase == nil && p.IsActive == nil && !p.ClearCurrentTeamIndex
}

// ApplyTo merges p into a copy of s. It rejects phases that do not exist, a
// patch that would move a finished game back into play, a team index that
// falls outside the resulting team list, and clearing the index of a regular
// game still in play.
func (p Patch) ApplyTo(s Session) (Session, error) {
	next := s.Clone()
	if p.Teams != nil {
		next.Teams = append([]Team{}, (*p.Teams)...)
	}
	if p.QuestionHistory != nil {
		next.QuestionHistory = append([]int{}, (*p.QuestionHistory)...)
	}
	if p.DetailedHistory != nil {
		next.DetailedHistory = append([]HistoryEntry{}, (*p.DetailedHistory)...)
	}
	if p.GamePhase != nil {
		if !p.GamePhase.Valid() {
			return s, invalid("gamePhase", "unknown phase %q", *p.GamePhase)
		}
		if s.GamePhase == PhaseVictory && *p.GamePhase != PhaseVictory {
			return s, invalid("gamePhase", "a finished game cannot be resumed")
		}
		next.GamePhase = *p.GamePhase
	}
	if p.IsActive != nil {
		next.IsActive = *p.IsActive
	}
	switch {
	case p.CurrentTeamIndex != nil:
		next.CurrentTeamIndex = intPtr(*p.CurrentTeamIndex)
	case p.ClearCurrentTeamIndex:
		if next.GameMode == ModeRegular && next.GamePhase == PhasePlaying {
			return s, invalid("currentTeamIndex", "a regular game in play needs an active team")
		}
		next.CurrentTeamIndex = nil
	}
	if next.CurrentTeamIndex != nil {
		if i := *next.CurrentTeamIndex; i < 0 || i >= len(next.Teams) {
			return s, invalid("currentTeamIndex", "index %d out of range for %d teams", i, len(next.Teams))
		}
	}
	return next, nil
}
