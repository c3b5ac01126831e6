package trivia

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrExhausted = errors.New("no questions left for this difficulty and category")

	ErrGameOver     = errors.New("game is over")
	ErrNoActiveTeam = errors.New("no active team")
	ErrQuestionUsed = errors.New("question already played")
	ErrWrongMode    = errors.New("action not available in this game mode")
	ErrTeamNotFound = errors.New("team not found")
)

// ValidationError reports a malformed request. It never implies a state change.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
