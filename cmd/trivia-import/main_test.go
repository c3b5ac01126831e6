package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `id,difficulty,question,answer,reference
1,Easy,Who built the ark?,Noah,Genesis 6
2,Difficult,Who was swallowed by a great fish?,Jonah,Jonah 1
3,Medium,Bad difficulty,Nope,None
4,Hard,Short row
`

func writeCSV(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRunImportDryRun(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "q.csv", sampleCSV)

	var out bytes.Buffer
	cfg := &Config{category: "bible", batchSize: 50, dryRun: true}
	require.NoError(t, runImport(context.Background(), &out, cfg, []string{path}))

	assert.Contains(t, out.String(), "questions=2")
	assert.Contains(t, out.String(), "skipped=2")
	assert.Contains(t, out.String(), "dry run")
}

func TestRunImportWritesDatabase(t *testing.T) {
	dir := t.TempDir()
	a := writeCSV(t, dir, "a.csv", sampleCSV)
	b := writeCSV(t, dir, "b.csv", "id,difficulty,question,answer,reference\n9,Hard,Q,A,R\n")

	var out bytes.Buffer
	cfg := &Config{
		dbPath:    filepath.Join(dir, "trivia.db"),
		category:  "bible",
		replace:   true,
		batchSize: 1,
	}
	require.NoError(t, runImport(context.Background(), &out, cfg, []string{a, b}))

	assert.Contains(t, out.String(), "imported=3")
	assert.Contains(t, out.String(), "easy=1")
	assert.Contains(t, out.String(), "hard=2")
}

func TestRunImportMissingFile(t *testing.T) {
	cfg := &Config{category: "bible", batchSize: 50, dryRun: true}
	err := runImport(context.Background(), &bytes.Buffer{}, cfg, []string{filepath.Join(t.TempDir(), "nope.csv")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening")
}

func TestConfigValidate(t *testing.T) {
	assert.Error(t, (&Config{batchSize: 50}).validate())
	assert.NoError(t, (&Config{batchSize: 50, dryRun: true}).validate())
	assert.Error(t, (&Config{dbPath: "x.db", batchSize: 0}).validate())
}

func TestFlagsFromEnv(t *testing.T) {
	t.Setenv("TRIVIA_BATCH_SIZE", "7")
	t.Setenv("TRIVIA_CATEGORY", "history")

	cfg := &Config{}
	newCmd(cfg)

	assert.Equal(t, 7, cfg.batchSize)
	assert.Equal(t, "history", cfg.category)
	assert.True(t, cfg.replace)
}
