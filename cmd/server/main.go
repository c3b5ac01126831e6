package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/jwold/trailblazerstrivia/internal/config"
	"github.com/jwold/trailblazerstrivia/internal/database"
	"github.com/jwold/trailblazerstrivia/internal/handler/health"
	"github.com/jwold/trailblazerstrivia/internal/importer"
	"github.com/jwold/trailblazerstrivia/internal/migrations"
	"github.com/jwold/trailblazerstrivia/internal/server"
	"github.com/jwold/trailblazerstrivia/internal/session"
	"github.com/jwold/trailblazerstrivia/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(ctx, db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	version, err := migrations.Version(ctx, db)
	if err != nil {
		return err
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath, "schema_version", version)

	questions := store.NewSQLiteStore(db)
	if cfg.SeedQuestions {
		n, err := importer.Seed(ctx, logger, questions)
		if err != nil {
			return fmt.Errorf("seeding questions: %w", err)
		}
		if n > 0 {
			logger.Info("seeded question bank", "count", n)
		}
	}

	checks := map[string]health.Checker{
		"sqlite":    health.CheckFunc(db.PingContext),
		"questions": health.Optional(health.CheckFunc(questionBankCheck(questions))),
	}

	// --- Sessions: Redis when configured, otherwise SQLite ---
	var sessions session.SessionStore = questions
	if cfg.RedisURL != "" {
		rdb, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()

		sessions = store.NewRedisSessionStore(rdb, cfg.SessionTTL)
		checks["redis"] = health.CheckFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		logger.Info("storing sessions in redis", "ttl", cfg.SessionTTL)
	} else {
		logger.Info("storing sessions in sqlite")
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, session.NewService(logger, questions, sessions), server.Options{
		SPADir:    cfg.SPADir,
		PublicURL: cfg.PublicURL,
		Checks:    checks,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

// questionBankCheck fails while the bank is empty. Games can still be set up,
// but every question request would come back exhausted.
func questionBankCheck(st *store.SQLiteStore) func(context.Context) error {
	return func(ctx context.Context) error {
		n, err := st.CountQuestions(ctx)
		if err != nil {
			return err
		}
		if n == 0 {
			return errors.New("question bank is empty")
		}
		return nil
	}
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}
