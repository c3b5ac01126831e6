package trivia

import (
	"fmt"
	"strings"
)

type Difficulty string

const (
	Easy Difficulty = "Easy"
	Hard Difficulty = "Hard"
)

// Difficulties lists every playable difficulty in display order.
var Difficulties = []Difficulty{Easy, Hard}

type pointValue struct {
	base   float64
	assist float64
}

var pointTable = map[Difficulty]pointValue{
	Easy: {base: 1, assist: 0.5},
	Hard: {base: 3, assist: 1},
}

// ParseDifficulty accepts difficulty names case-insensitively. "Difficult" is
// accepted as an alias for Hard, as found in imported question sheets.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "hard", "difficult":
		return Hard, nil
	}
	return "", &ValidationError{Field: "difficulty", Msg: fmt.Sprintf("unknown difficulty %q", s)}
}

func (d Difficulty) Valid() bool {
	_, ok := pointTable[d]
	return ok
}

// BasePoints is the score for a correct unassisted answer.
func (d Difficulty) BasePoints() float64 {
	return pointTable[d].base
}

// AssistPoints is the reduced score for a correct answer given with help.
func (d Difficulty) AssistPoints() float64 {
	return pointTable[d].assist
}
