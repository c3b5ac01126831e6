// Package importer reads trivia questions from CSV and loads them into the
// question store.
//
// The expected columns are id, difficulty, question, answer, reference and an
// optional category. The first row is a header. The id column is ignored;
// the store assigns its own.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jwold/trailblazerstrivia/internal/trivia"
)

const (
	DefaultBatchSize = 50
	minFields        = 5
)

// Skipped is a row that could not be turned into a question.
type Skipped struct {
	Line   int
	Reason string
}

type Result struct {
	Questions []trivia.Question
	Skipped   []Skipped
}

// Parse reads CSV rows from r. Rows with too few fields, a blank question or
// answer, or an unknown difficulty are reported in Result.Skipped rather than
// failing the whole file. category is used when a row has no category column.
func Parse(r io.Reader, category string) (Result, error) {
	if category = strings.ToLower(strings.TrimSpace(category)); category == "" {
		category = trivia.DefaultCategory
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	var res Result
	header := true
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				// A malformed first row still counts as the header.
				header = false
				res.Skipped = append(res.Skipped, Skipped{Line: perr.StartLine, Reason: perr.Err.Error()})
				continue
			}
			return Result{}, fmt.Errorf("reading csv: %w", err)
		}
		if header {
			header = false
			continue
		}
		line, _ := cr.FieldPos(0)

		q, reason := parseRecord(record, category)
		if reason != "" {
			res.Skipped = append(res.Skipped, Skipped{Line: line, Reason: reason})
			continue
		}
		res.Questions = append(res.Questions, q)
	}
	return res, nil
}

func parseRecord(record []string, category string) (trivia.Question, string) {
	if len(record) < minFields {
		return trivia.Question{}, "insufficient fields"
	}
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}

	question, answer := record[2], record[3]
	if question == "" || answer == "" {
		return trivia.Question{}, "missing question or answer"
	}
	d, err := trivia.ParseDifficulty(record[1])
	if err != nil {
		return trivia.Question{}, fmt.Sprintf("invalid difficulty %q", record[1])
	}
	if len(record) > minFields && record[minFields] != "" {
		category = strings.ToLower(record[minFields])
	}

	return trivia.Question{
		Difficulty: d,
		Question:   question,
		Answer:     answer,
		Reference:  record[4],
		Category:   category,
	}, ""
}

// Store is the subset of the question store the loader writes to.
type Store interface {
	ImportQuestions(ctx context.Context, qs []trivia.Question, replace bool) (int, error)
}

// Load writes qs in batches of batchSize. With replace set the existing
// questions are cleared by the first batch.
func Load(ctx context.Context, logger *slog.Logger, st Store, qs []trivia.Question, replace bool, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if replace && len(qs) == 0 {
		return st.ImportQuestions(ctx, nil, true)
	}

	imported := 0
	for start := 0; start < len(qs); start += batchSize {
		end := min(start+batchSize, len(qs))
		n, err := st.ImportQuestions(ctx, qs[start:end], replace && start == 0)
		if err != nil {
			return imported, fmt.Errorf("importing batch at row %d: %w", start, err)
		}
		imported += n
		logger.Info("imported batch", "imported", imported, "total", len(qs))
	}
	return imported, nil
}
