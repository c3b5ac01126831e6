package session

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwold/trailblazerstrivia/internal/database"
	"github.com/jwold/trailblazerstrivia/internal/migrations"
	"github.com/jwold/trailblazerstrivia/internal/store"
	"github.com/jwold/trailblazerstrivia/internal/trivia"
)

var fixedNow = time.Date(2026, 5, 2, 18, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, map[string]trivia.Question) {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(ctx, db))

	st := store.NewSQLiteStore(db)
	_, err = st.ImportQuestions(ctx, []trivia.Question{
		{Difficulty: trivia.Easy, Question: "Who built the ark?", Answer: "Noah", Category: "bible"},
		{Difficulty: trivia.Hard, Question: "Who succeeded Moses?", Answer: "Joshua", Category: "bible"},
		{Difficulty: trivia.Hard, Question: "Longest book?", Answer: "Psalms", Category: "bible"},
	}, true)
	require.NoError(t, err)

	all, err := st.AllQuestions(ctx)
	require.NoError(t, err)
	byAnswer := make(map[string]trivia.Question, len(all))
	for _, q := range all {
		byAnswer[q.Answer] = q
	}

	svc := NewService(slog.New(slog.DiscardHandler), st, st)
	svc.now = func() time.Time { return fixedNow }
	svc.startTeam = func(int) int { return 0 }
	return svc, byAnswer
}

func twoTeams(mode trivia.GameMode, target int) trivia.Setup {
	return trivia.Setup{
		Teams:       []trivia.TeamSetup{{Name: "Israelites"}, {Name: "Levites"}},
		TargetScore: target,
		GameMode:    mode,
	}
}

func TestCreate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	sess, err := svc.Create(ctx, twoTeams("", 0))
	require.NoError(t, err)

	assert.True(t, trivia.ValidGameCode(sess.GameCode))
	assert.Equal(t, trivia.PhasePlaying, sess.GamePhase)
	assert.Equal(t, trivia.DefaultTarget, sess.TargetScore)
	assert.Equal(t, "bible", sess.Category)
	assert.Equal(t, 0, *sess.CurrentTeamIndex)
	require.Len(t, sess.Teams, 2)
	assert.NotEmpty(t, sess.Teams[0].ID)
	assert.NotEqual(t, sess.Teams[0].ID, sess.Teams[1].ID)
	assert.Equal(t, fixedNow, sess.CreatedAt)

	got, err := svc.Get(ctx, sess.GameCode)
	require.NoError(t, err)
	assert.Equal(t, sess, got)

	_, err = svc.Create(ctx, trivia.Setup{Teams: []trivia.TeamSetup{{Name: "Solo"}}})
	assert.True(t, trivia.IsValidation(err))
}

func TestGetNormalizesCode(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	sess, err := svc.Create(ctx, twoTeams("", 0))
	require.NoError(t, err)

	got, err := svc.Get(ctx, " "+strings.ToLower(sess.GameCode)+" ")
	require.NoError(t, err)
	assert.Equal(t, sess.GameCode, got.GameCode)

	_, err = svc.Get(ctx, "NOPE00")
	assert.ErrorIs(t, err, trivia.ErrNotFound)

	_, err = svc.Get(ctx, "bad code")
	assert.ErrorIs(t, err, trivia.ErrNotFound)
}

func TestApplyScoresAndPersists(t *testing.T) {
	svc, qs := newTestService(t)
	ctx := context.Background()

	sess, err := svc.Create(ctx, twoTeams(trivia.ModeRegular, 5))
	require.NoError(t, err)

	next, err := svc.Apply(ctx, sess.GameCode, ActionRequest{Type: ActionMarkCorrect, QuestionID: qs["Joshua"].ID})
	require.NoError(t, err)
	assert.Equal(t, 3.0, next.Teams[0].Score)
	assert.Equal(t, 1, *next.CurrentTeamIndex)
	assert.Equal(t, []int{qs["Joshua"].ID}, next.QuestionHistory)
	require.Len(t, next.DetailedHistory, 1)
	assert.Equal(t, fixedNow.UnixMilli(), next.DetailedHistory[0].Timestamp)

	stored, err := svc.Get(ctx, sess.GameCode)
	require.NoError(t, err)
	assert.Equal(t, next, stored)

	_, err = svc.Apply(ctx, sess.GameCode, ActionRequest{Type: ActionMarkCorrect, QuestionID: qs["Joshua"].ID})
	assert.ErrorIs(t, err, trivia.ErrQuestionUsed)

	next, err = svc.Apply(ctx, sess.GameCode, ActionRequest{Type: ActionMarkIncorrect, QuestionID: qs["Noah"].ID})
	require.NoError(t, err)
	assert.Equal(t, 0, *next.CurrentTeamIndex)

	next, err = svc.Apply(ctx, sess.GameCode, ActionRequest{Type: ActionMarkCorrect, QuestionID: qs["Psalms"].ID})
	require.NoError(t, err)
	assert.Equal(t, trivia.PhaseVictory, next.GamePhase)
	assert.Equal(t, 6.0, next.Teams[0].Score)

	_, err = svc.Apply(ctx, sess.GameCode, ActionRequest{Type: ActionSkipQuestion, QuestionID: 42})
	assert.ErrorIs(t, err, trivia.ErrGameOver)

	next, err = svc.Apply(ctx, sess.GameCode, ActionRequest{Type: ActionRenameTeam, TeamID: next.Teams[0].ID, Name: "Judah"})
	require.NoError(t, err)
	assert.Equal(t, "Judah", next.Teams[0].Name)
	assert.Equal(t, "Israelites", next.DetailedHistory[0].TeamName)
}

func TestApplyRejectsBadRequests(t *testing.T) {
	svc, qs := newTestService(t)
	ctx := context.Background()

	sess, err := svc.Create(ctx, twoTeams(trivia.ModeRegular, 10))
	require.NoError(t, err)

	tests := []struct {
		name string
		req  ActionRequest
	}{
		{"missing type", ActionRequest{}},
		{"unknown type", ActionRequest{Type: "teleport"}},
		{"missing question", ActionRequest{Type: ActionMarkCorrect}},
		{"unknown question", ActionRequest{Type: ActionMarkIncorrect, QuestionID: 9999}},
		{"missing index", ActionRequest{Type: ActionEditHistoryEntry}},
		{"missing team", ActionRequest{Type: ActionRenameTeam, Name: "X"}},
		{"blank name", ActionRequest{Type: ActionRenameTeam, TeamID: sess.Teams[0].ID, Name: "  "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Apply(ctx, sess.GameCode, tt.req)
			assert.True(t, trivia.IsValidation(err), "got %v", err)
		})
	}

	_, err = svc.Apply(ctx, sess.GameCode, ActionRequest{Type: ActionMarkTeamCorrect, TeamID: sess.Teams[0].ID, QuestionID: qs["Noah"].ID})
	assert.ErrorIs(t, err, trivia.ErrWrongMode)

	_, err = svc.Apply(ctx, "ZZZZZZ", ActionRequest{Type: ActionEndGame})
	assert.ErrorIs(t, err, trivia.ErrNotFound)

	got, err := svc.Get(ctx, sess.GameCode)
	require.NoError(t, err)
	assert.Equal(t, sess, got, "failed actions leave the stored session unchanged")
}

func TestShoutoutTeamCorrect(t *testing.T) {
	svc, qs := newTestService(t)
	ctx := context.Background()

	sess, err := svc.Create(ctx, twoTeams(trivia.ModeShoutout, 5))
	require.NoError(t, err)

	next, err := svc.Apply(ctx, sess.GameCode, ActionRequest{
		Type: ActionMarkTeamCorrect, TeamID: sess.Teams[1].ID, QuestionID: qs["Joshua"].ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 3.0, next.Teams[1].Score)
	assert.Equal(t, 0, *next.CurrentTeamIndex)
}

func TestRandomQuestion(t *testing.T) {
	svc, qs := newTestService(t)
	ctx := context.Background()

	sess, err := svc.Create(ctx, twoTeams(trivia.ModeRegular, 10))
	require.NoError(t, err)

	q, err := svc.RandomQuestion(ctx, sess.GameCode, "easy")
	require.NoError(t, err)
	assert.Equal(t, qs["Noah"].ID, q.ID)

	_, err = svc.Apply(ctx, sess.GameCode, ActionRequest{Type: ActionSkipQuestion, QuestionID: q.ID})
	require.NoError(t, err)

	_, err = svc.RandomQuestion(ctx, sess.GameCode, "Easy")
	assert.ErrorIs(t, err, trivia.ErrExhausted)

	q, err = svc.RandomQuestion(ctx, sess.GameCode, "Difficult")
	require.NoError(t, err)
	assert.Equal(t, trivia.Hard, q.Difficulty)

	_, err = svc.RandomQuestion(ctx, sess.GameCode, "medium")
	assert.True(t, trivia.IsValidation(err))
}

func TestUpdateAndDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	sess, err := svc.Create(ctx, twoTeams(trivia.ModeRegular, 10))
	require.NoError(t, err)

	victory := trivia.PhaseVictory
	next, err := svc.Update(ctx, sess.GameCode, trivia.Patch{GamePhase: &victory})
	require.NoError(t, err)
	assert.Equal(t, trivia.PhaseVictory, next.GamePhase)

	playing := trivia.PhasePlaying
	_, err = svc.Update(ctx, sess.GameCode, trivia.Patch{GamePhase: &playing})
	assert.True(t, trivia.IsValidation(err))

	require.NoError(t, svc.Delete(ctx, sess.GameCode))
	assert.ErrorIs(t, svc.Delete(ctx, sess.GameCode), trivia.ErrNotFound)
	_, err = svc.Update(ctx, sess.GameCode, trivia.Patch{GamePhase: &victory})
	assert.ErrorIs(t, err, trivia.ErrNotFound)
}

func TestListings(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	all, err := svc.Questions(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	cats, err := svc.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, 1, cats[0].Counts[trivia.Easy])
	assert.Equal(t, 2, cats[0].Counts[trivia.Hard])
}
