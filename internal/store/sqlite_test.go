package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwold/trailblazerstrivia/internal/database"
	"github.com/jwold/trailblazerstrivia/internal/migrations"
	"github.com/jwold/trailblazerstrivia/internal/trivia"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(ctx, db))
	return db
}

func testSession(t *testing.T) trivia.Session {
	t.Helper()
	s, err := trivia.NewSession(trivia.Setup{
		Teams: []trivia.TeamSetup{
			{ID: "t1", Name: "Israelites", Color: "red"},
			{ID: "t2", Name: "Levites", Color: "blue"},
		},
		TargetScore: 10,
		Category:    "bible",
		GameMode:    trivia.ModeRegular,
	}, 0, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return s
}

var testQuestions = []trivia.Question{
	{Difficulty: trivia.Easy, Question: "Who built the ark?", Answer: "Noah", Reference: "Genesis 6", Category: "bible"},
	{Difficulty: trivia.Easy, Question: "First book?", Answer: "Genesis", Category: "bible"},
	{Difficulty: trivia.Hard, Question: "Who succeeded Moses?", Answer: "Joshua", Reference: "Joshua 1", Category: "bible"},
	{Difficulty: trivia.Easy, Question: "H2O?", Answer: "Water", Category: "Science"},
}

func TestImportAndRandomQuestion(t *testing.T) {
	ctx := context.Background()
	st := NewSQLiteStore(openTestDB(t))

	n, err := st.ImportQuestions(ctx, testQuestions, true)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	all, err := st.AllQuestions(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)

	var easyBible []int
	for _, q := range all {
		if q.Category == "bible" && q.Difficulty == trivia.Easy {
			easyBible = append(easyBible, q.ID)
		}
	}
	require.Len(t, easyBible, 2)

	q, found, err := st.RandomQuestion(ctx, trivia.Easy, "BIBLE", nil)
	require.NoError(t, err)
	require.True(t, found)
	assert.Contains(t, easyBible, q.ID)

	q, found, err = st.RandomQuestion(ctx, trivia.Easy, "bible", easyBible[:1])
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, easyBible[1], q.ID)

	_, found, err = st.RandomQuestion(ctx, trivia.Easy, "bible", easyBible)
	require.NoError(t, err)
	assert.False(t, found)

	q, found, err = st.RandomQuestion(ctx, trivia.Easy, "science", nil)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Water", q.Answer)

	_, found, err = st.RandomQuestion(ctx, trivia.Hard, "science", nil)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestImportReplace(t *testing.T) {
	ctx := context.Background()
	st := NewSQLiteStore(openTestDB(t))

	_, err := st.ImportQuestions(ctx, testQuestions, false)
	require.NoError(t, err)
	_, err = st.ImportQuestions(ctx, testQuestions[:1], false)
	require.NoError(t, err)

	count, err := st.CountQuestions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	_, err = st.ImportQuestions(ctx, testQuestions[:2], true)
	require.NoError(t, err)
	count, err = st.CountQuestions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestQuestionByID(t *testing.T) {
	ctx := context.Background()
	st := NewSQLiteStore(openTestDB(t))
	_, err := st.ImportQuestions(ctx, testQuestions, true)
	require.NoError(t, err)

	all, err := st.AllQuestions(ctx)
	require.NoError(t, err)

	q, err := st.Question(ctx, all[0].ID)
	require.NoError(t, err)
	assert.Equal(t, all[0], q)

	_, err = st.Question(ctx, 9999)
	assert.ErrorIs(t, err, trivia.ErrNotFound)
}

func TestCategories(t *testing.T) {
	ctx := context.Background()
	st := NewSQLiteStore(openTestDB(t))
	_, err := st.ImportQuestions(ctx, testQuestions, true)
	require.NoError(t, err)

	stats, err := st.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, "bible", stats[0].Category)
	assert.Equal(t, 2, stats[0].Counts[trivia.Easy])
	assert.Equal(t, 1, stats[0].Counts[trivia.Hard])
	assert.Equal(t, 3, stats[0].Total)

	assert.Equal(t, "science", stats[1].Category)
	assert.Equal(t, 1, stats[1].Total)
}

func TestSQLiteSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	st := NewSQLiteStore(openTestDB(t))

	created, err := st.CreateSession(ctx, testSession(t))
	require.NoError(t, err)
	require.True(t, trivia.ValidGameCode(created.GameCode))

	got, err := st.GetSession(ctx, created.GameCode)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	idx := 1
	history := []int{7}
	updated, err := st.UpdateSession(ctx, created.GameCode, trivia.Patch{
		CurrentTeamIndex: &idx,
		QuestionHistory:  &history,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, *updated.CurrentTeamIndex)

	got, err = st.GetSession(ctx, created.GameCode)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
	assert.Equal(t, []int{7}, got.QuestionHistory)
	assert.Equal(t, created.Teams, got.Teams, "fields outside the patch are untouched")

	bad := 5
	_, err = st.UpdateSession(ctx, created.GameCode, trivia.Patch{CurrentTeamIndex: &bad})
	assert.True(t, trivia.IsValidation(err))

	deleted, err := st.DeleteSession(ctx, created.GameCode)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = st.DeleteSession(ctx, created.GameCode)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = st.GetSession(ctx, created.GameCode)
	assert.ErrorIs(t, err, trivia.ErrNotFound)

	_, err = st.UpdateSession(ctx, created.GameCode, trivia.Patch{CurrentTeamIndex: &idx})
	assert.ErrorIs(t, err, trivia.ErrNotFound)
}

func TestSQLiteSessionNullTeamIndex(t *testing.T) {
	ctx := context.Background()
	st := NewSQLiteStore(openTestDB(t))

	s := testSession(t)
	s.CurrentTeamIndex = nil
	created, err := st.CreateSession(ctx, s)
	require.NoError(t, err)

	got, err := st.GetSession(ctx, created.GameCode)
	require.NoError(t, err)
	assert.Nil(t, got.CurrentTeamIndex)
}

func TestSessionDocRoundTrip(t *testing.T) {
	s := testSession(t)
	s.GameCode = "ABC123"
	s.DetailedHistory = []trivia.HistoryEntry{{
		QuestionID: 3, TeamID: "t1", TeamName: "Israelites", Difficulty: trivia.Hard,
		Points: 3, WasCorrect: true, Timestamp: 1700000000000,
	}}

	data, err := marshalSession(s)
	require.NoError(t, err)
	got, err := unmarshalSession(data)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}
