package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/avallois/marketsense/internal/analytics"
	"github.com/avallois/marketsense/internal/config"
	"github.com/avallois/marketsense/internal/database"
	"github.com/avallois/marketsense/internal/docstore"
	"github.com/avallois/marketsense/internal/scoring"
	"github.com/avallois/marketsense/internal/sqlstore"
	"github.com/avallois/marketsense/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/pipeline.local.yaml", "path to config file")
	skipScoring := flag.Bool("skip-scoring", false, "skip the scoring pass and only aggregate/correlate")
	flag.Parse()

	// Local .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting analyze",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to document store
	store, err := docstore.Connect(ctx, cfg.Mongo, logger)
	if err != nil {
		logger.Error("failed to connect to document store", "error", err)
		os.Exit(1)
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer closeCancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Error("document store close failed", "error", err)
		}
	}()

	// Connect to relational store
	pool, err := database.Connect(ctx, cfg.Database.Postgres)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	sql := sqlstore.New(pool, logger)
	if err := sql.EnsureSchema(ctx); err != nil {
		logger.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	// Pass 1: score documents that have no sentiment yet.
	if !*skipScoring {
		if err := scorePending(ctx, cfg, store, logger); err != nil {
			logger.Error("scoring pass failed", "error", err)
			os.Exit(1)
		}
	}

	// Pass 2: collapse scored records into daily rows.
	rows, err := analytics.NewAggregator(store, sql, logger).Run(ctx)
	if err != nil {
		logger.Error("aggregation pass failed", "error", err)
		os.Exit(1)
	}

	// Pass 3: correlate sentiment deltas against price returns.
	points, err := analytics.NewEngine(sql, sql, logger).Run(ctx)
	if err != nil {
		logger.Error("correlation pass failed", "error", err)
		os.Exit(1)
	}

	logger.Info("analysis complete",
		"daily_rows", rows,
		"correlation_points", points,
	)
}

// scorePending pulls unscored documents in batches and patches each with
// its classification. A failing document is logged and left unscored so a
// later run can retry it.
func scorePending(ctx context.Context, cfg *config.Config, store *docstore.Store, logger *slog.Logger) error {
	client, err := scoring.New(cfg.Scoring, logger)
	if err != nil {
		return err
	}

	scored, failed := 0, 0
	for {
		docs, err := store.Unscored(ctx, int64(cfg.Scoring.BatchSize))
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			break
		}

		batchScored := 0
		for _, doc := range docs {
			snap, err := client.Score(ctx, doc.Title+"\n"+doc.Body)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.Warn("score failed", "id", doc.ID.Hex(), "ticker", doc.Ticker, "error", err)
				failed++
				continue
			}
			if err := store.SetSentiment(ctx, doc.ID, snap); err != nil {
				return err
			}
			scored++
			batchScored++
		}

		// Every document in the batch failed; bail out rather than spin on
		// the same unscorable set.
		if batchScored == 0 {
			break
		}
	}

	logger.Info("scoring pass complete", "scored", scored, "failed", failed)
	return nil
}
