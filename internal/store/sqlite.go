package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jwold/trailblazerstrivia/internal/trivia"
)

// SQLiteStore keeps questions and sessions in the same SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Questions

const questionColumns = `id, difficulty, question, answer, reference, category`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (trivia.Question, error) {
	var q trivia.Question
	var difficulty string
	if err := row.Scan(&q.ID, &difficulty, &q.Question, &q.Answer, &q.Reference, &q.Category); err != nil {
		return trivia.Question{}, err
	}
	q.Difficulty = trivia.Difficulty(difficulty)
	return q, nil
}

// RandomQuestion draws one question uniformly from the pool matching
// difficulty and category, skipping exclude. found is false when the pool is
// empty.
func (s *SQLiteStore) RandomQuestion(ctx context.Context, d trivia.Difficulty, category string, exclude []int) (q trivia.Question, found bool, err error) {
	if exclude == nil {
		exclude = []int{}
	}
	excludeJSON, err := json.Marshal(exclude)
	if err != nil {
		return trivia.Question{}, false, err
	}

	q, err = scanQuestion(s.db.QueryRowContext(ctx, `
		SELECT `+questionColumns+`
		FROM trivia_questions
		WHERE difficulty = ?
			AND lower(category) = lower(?)
			AND id NOT IN (SELECT value FROM json_each(?))
		ORDER BY random()
		LIMIT 1
	`, string(d), category, string(excludeJSON)))
	if errors.Is(err, sql.ErrNoRows) {
		return trivia.Question{}, false, nil
	}
	if err != nil {
		return trivia.Question{}, false, err
	}
	return q, true, nil
}

func (s *SQLiteStore) Question(ctx context.Context, id int) (trivia.Question, error) {
	q, err := scanQuestion(s.db.QueryRowContext(ctx, `
		SELECT `+questionColumns+` FROM trivia_questions WHERE id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return trivia.Question{}, trivia.ErrNotFound
	}
	return q, err
}

func (s *SQLiteStore) AllQuestions(ctx context.Context) ([]trivia.Question, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+questionColumns+` FROM trivia_questions ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := []trivia.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (s *SQLiteStore) CountQuestions(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trivia_questions`).Scan(&n)
	return n, err
}

// Categories counts questions per category and difficulty.
func (s *SQLiteStore) Categories(ctx context.Context) ([]trivia.CategoryStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT lower(category), difficulty, COUNT(*)
		FROM trivia_questions
		GROUP BY lower(category), difficulty
		ORDER BY lower(category)
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []trivia.CategoryStats{}
	for rows.Next() {
		var category, difficulty string
		var n int
		if err := rows.Scan(&category, &difficulty, &n); err != nil {
			return nil, err
		}
		if len(stats) == 0 || stats[len(stats)-1].Category != category {
			stats = append(stats, trivia.CategoryStats{Category: category, Counts: map[trivia.Difficulty]int{}})
		}
		cs := &stats[len(stats)-1]
		cs.Counts[trivia.Difficulty(difficulty)] += n
		cs.Total += n
	}
	return stats, rows.Err()
}

// ImportQuestions inserts qs in one transaction. With replace set, every
// existing question is removed first. Question IDs in qs are ignored.
func (s *SQLiteStore) ImportQuestions(ctx context.Context, qs []trivia.Question, replace bool) (int, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if replace {
		if _, err := tx.ExecContext(ctx, `DELETE FROM trivia_questions`); err != nil {
			return 0, fmt.Errorf("clearing questions: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trivia_questions (difficulty, question, answer, reference, category)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for i, q := range qs {
		category := q.Category
		if category == "" {
			category = trivia.DefaultCategory
		}
		if _, err := stmt.ExecContext(ctx, string(q.Difficulty), q.Question, q.Answer, q.Reference, category); err != nil {
			return 0, fmt.Errorf("inserting question %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(qs), nil
}

// Sessions

const sessionColumns = `game_code, teams, current_team_index, target_score, category, game_mode,
	question_history, detailed_history, game_phase, is_active, created_at`

func scanSession(row rowScanner) (trivia.Session, error) {
	var d sessionDoc
	var idx sql.NullInt64
	var active int
	if err := row.Scan(&d.GameCode, &d.Teams, &idx, &d.TargetScore, &d.Category, &d.GameMode,
		&d.QuestionHistory, &d.DetailedHistory, &d.GamePhase, &active, &d.CreatedAt); err != nil {
		return trivia.Session{}, err
	}
	d.IsActive = active != 0
	if idx.Valid {
		i := int(idx.Int64)
		d.CurrentTeamIndex = &i
	}
	return decodeSession(d)
}

// CreateSession stores s under a freshly drawn game code and returns the
// stored session.
func (s *SQLiteStore) CreateSession(ctx context.Context, sess trivia.Session) (trivia.Session, error) {
	for range createAttempts {
		sess.GameCode = trivia.NewGameCode()
		d, err := encodeSession(sess)
		if err != nil {
			return trivia.Session{}, err
		}

		result, err := s.db.ExecContext(ctx, `
			INSERT INTO game_sessions (`+sessionColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(game_code) DO NOTHING
		`, d.GameCode, d.Teams, d.CurrentTeamIndex, d.TargetScore, d.Category, d.GameMode,
			d.QuestionHistory, d.DetailedHistory, d.GamePhase, boolInt(d.IsActive), d.CreatedAt)
		if err != nil {
			return trivia.Session{}, err
		}
		if n, _ := result.RowsAffected(); n == 1 {
			return sess.Clone(), nil
		}
	}
	return trivia.Session{}, errors.New("could not allocate a unique game code")
}

func (s *SQLiteStore) GetSession(ctx context.Context, code string) (trivia.Session, error) {
	sess, err := scanSession(s.db.QueryRowContext(ctx, `
		SELECT `+sessionColumns+` FROM game_sessions WHERE game_code = ?
	`, code))
	if errors.Is(err, sql.ErrNoRows) {
		return trivia.Session{}, trivia.ErrNotFound
	}
	return sess, err
}

// UpdateSession loads a session, merges p, and saves it in a transaction.
func (s *SQLiteStore) UpdateSession(ctx context.Context, code string, p trivia.Patch) (trivia.Session, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return trivia.Session{}, err
	}
	defer tx.Rollback()

	current, err := scanSession(tx.QueryRowContext(ctx, `
		SELECT `+sessionColumns+` FROM game_sessions WHERE game_code = ?
	`, code))
	if errors.Is(err, sql.ErrNoRows) {
		return trivia.Session{}, trivia.ErrNotFound
	}
	if err != nil {
		return trivia.Session{}, err
	}

	next, err := p.ApplyTo(current)
	if err != nil {
		return trivia.Session{}, err
	}
	d, err := encodeSession(next)
	if err != nil {
		return trivia.Session{}, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE game_sessions
		SET teams = ?, current_team_index = ?, question_history = ?, detailed_history = ?,
			game_phase = ?, is_active = ?
		WHERE game_code = ?
	`, d.Teams, d.CurrentTeamIndex, d.QuestionHistory, d.DetailedHistory, d.GamePhase, boolInt(d.IsActive), code)
	if err != nil {
		return trivia.Session{}, err
	}

	if err := tx.Commit(); err != nil {
		return trivia.Session{}, err
	}
	return next, nil
}

func (s *SQLiteStore) DeleteSession(ctx context.Context, code string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM game_sessions WHERE game_code = ?`, code)
	if err != nil {
		return false, err
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
