package importer

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/jwold/trailblazerstrivia/internal/trivia"
)

//go:embed seed/bible.csv
var seedCSV []byte

// SeedStore is a Store that can also report how many questions it holds.
type SeedStore interface {
	Store
	CountQuestions(ctx context.Context) (int, error)
}

// SeedQuestions returns the built-in question set.
func SeedQuestions() ([]trivia.Question, error) {
	res, err := Parse(bytes.NewReader(seedCSV), trivia.DefaultCategory)
	if err != nil {
		return nil, fmt.Errorf("parsing seed questions: %w", err)
	}
	return res.Questions, nil
}

// Seed loads the built-in questions when the store is empty. It returns the
// number of questions inserted, which is zero if the store already had data.
func Seed(ctx context.Context, logger *slog.Logger, st SeedStore) (int, error) {
	n, err := st.CountQuestions(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting questions: %w", err)
	}
	if n > 0 {
		logger.Debug("question table already populated", "count", n)
		return 0, nil
	}

	qs, err := SeedQuestions()
	if err != nil {
		return 0, err
	}
	return Load(ctx, logger, st, qs, false, DefaultBatchSize)
}
