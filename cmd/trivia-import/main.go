package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"golang.org/x/sync/errgroup"

	"github.com/jwold/trailblazerstrivia/internal/database"
	"github.com/jwold/trailblazerstrivia/internal/importer"
	"github.com/jwold/trailblazerstrivia/internal/migrations"
	"github.com/jwold/trailblazerstrivia/internal/store"
	"github.com/jwold/trailblazerstrivia/internal/trivia"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newCmd(&Config{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runImport(ctx context.Context, stdout io.Writer, cfg *Config, files []string) error {
	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stdout, &slog.HandlerOptions{Level: level}))

	results, err := parseFiles(ctx, cfg.category, files)
	if err != nil {
		return err
	}

	var questions []trivia.Question
	for i, res := range results {
		for _, s := range res.Skipped {
			logger.Debug("skipped row", "file", files[i], "line", s.Line, "reason", s.Reason)
		}
		logger.Info("parsed file", "file", files[i], "questions", len(res.Questions), "skipped", len(res.Skipped))
		questions = append(questions, res.Questions...)
	}

	if cfg.dryRun {
		logger.Info("dry run, nothing written", "questions", len(questions))
		return nil
	}

	db, err := database.Open(ctx, cfg.dbPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(ctx, db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	st := store.NewSQLiteStore(db)
	if cfg.replace {
		logger.Info("clearing existing questions")
	}
	n, err := importer.Load(ctx, logger, st, questions, cfg.replace, cfg.batchSize)
	if err != nil {
		return err
	}

	stats, err := st.Categories(ctx)
	if err != nil {
		return fmt.Errorf("counting questions: %w", err)
	}
	logger.Info("import completed", "imported", n)
	for _, cs := range stats {
		logger.Info("question bank",
			"category", cs.Category,
			"easy", cs.Counts[trivia.Easy],
			"hard", cs.Counts[trivia.Hard],
			"total", cs.Total,
		)
	}
	return nil
}

// parseFiles parses every file concurrently and returns the results in the
// order the files were given.
func parseFiles(ctx context.Context, category string, files []string) ([]importer.Result, error) {
	results := make([]importer.Result, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("opening %s: %w", path, err)
			}
			defer f.Close()

			res, err := importer.Parse(f, category)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", path, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
