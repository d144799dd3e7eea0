package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/avallois/marketsense/internal/config"
	"github.com/avallois/marketsense/internal/database"
	"github.com/avallois/marketsense/internal/docstore"
	"github.com/avallois/marketsense/internal/ingest"
	"github.com/avallois/marketsense/internal/model"
	"github.com/avallois/marketsense/internal/pricefeed"
	"github.com/avallois/marketsense/internal/ratelimit"
	"github.com/avallois/marketsense/internal/source"
	"github.com/avallois/marketsense/internal/sqlstore"
	"github.com/avallois/marketsense/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/pipeline.local.yaml", "path to config file")
	mediums := flag.String("sources", "social,general-news,financial-news", "comma-separated sources to ingest")
	withPrices := flag.Bool("prices", false, "also fetch daily price bars into the relational store")
	flag.Parse()

	// Local .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting ingest",
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

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"instruments", len(cfg.Instruments),
		"lookback_days", cfg.Ingestion.LookbackDays,
	)

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
	logger.Info("document store connected", "database", cfg.Mongo.Database, "collection", cfg.Mongo.Collection)

	adapters := buildAdapters(cfg, *mediums, logger)
	if len(adapters) == 0 && !*withPrices {
		logger.Error("no usable sources, nothing to do")
		os.Exit(1)
	}

	instruments := make([]model.Instrument, 0, len(cfg.Instruments))
	for _, e := range cfg.Instruments {
		instruments = append(instruments, model.Instrument{
			Ticker:          e.Ticker,
			Name:            e.Name,
			AlternateTicker: e.AlternateTicker,
		})
	}

	window := source.Lookback(cfg.Ingestion.LookbackDays)

	if len(adapters) > 0 {
		coordinator := ingest.New(
			adapters,
			instruments,
			store,
			window,
			cfg.Ingestion.FetchLimit,
			cfg.Ingestion.Concurrency,
			logger,
		)

		report, err := coordinator.Run(ctx)
		if err != nil {
			logger.Error("ingestion run aborted", "error", err)
			os.Exit(1)
		}
		for _, failed := range report.Failed() {
			logger.Warn("source task failed",
				"ticker", failed.Ticker,
				"medium", failed.Medium,
				"error", failed.Err,
			)
		}
		logger.Info("ingestion complete",
			"run_id", report.RunID,
			"inserted", report.Inserted(),
			"failed_tasks", len(report.Failed()),
		)
	}

	if *withPrices {
		if err := ingestPrices(ctx, cfg, instruments, window, logger); err != nil {
			logger.Error("price ingestion failed", "error", err)
			os.Exit(1)
		}
	}
}

// buildAdapters constructs the requested source adapters, each with its own
// sliding-window limiter. A source that cannot be constructed (missing URL
// or credentials) is logged once and skipped; the others still run.
func buildAdapters(cfg *config.Config, mediums string, logger *slog.Logger) []source.Adapter {
	enabled := make(map[string]bool)
	for _, m := range splitList(mediums) {
		enabled[m] = true
	}

	var adapters []source.Adapter
	add := func(medium model.SourceMedium, a source.Adapter, err error) {
		if err != nil {
			logger.Warn("source disabled", "medium", medium, "error", err)
			return
		}
		adapters = append(adapters, a)
	}

	if enabled[string(model.MediumSocial)] {
		limiter := ratelimit.New(cfg.Sources.Social.RateLimit.Calls, cfg.Sources.Social.RateLimit.Period)
		a, err := source.NewSocial(cfg.Sources.Social, limiter, logger)
		add(model.MediumSocial, a, err)
	}
	if enabled[string(model.MediumGeneralNews)] {
		limiter := ratelimit.New(cfg.Sources.GeneralNews.RateLimit.Calls, cfg.Sources.GeneralNews.RateLimit.Period)
		a, err := source.NewGeneralNews(cfg.Sources.GeneralNews, limiter, logger)
		add(model.MediumGeneralNews, a, err)
	}
	if enabled[string(model.MediumFinancialNews)] {
		limiter := ratelimit.New(cfg.Sources.FinancialNews.RateLimit.Calls, cfg.Sources.FinancialNews.RateLimit.Period)
		a, err := source.NewFinancialNews(cfg.Sources.FinancialNews, limiter, logger)
		add(model.MediumFinancialNews, a, err)
	}

	return adapters
}

// ingestPrices fetches daily bars for the basket and upserts them into the
// relational store. A failing ticker is logged and skipped.
func ingestPrices(ctx context.Context, cfg *config.Config, instruments []model.Instrument, window source.Window, logger *slog.Logger) error {
	pool, err := database.Connect(ctx, cfg.Database.Postgres)
	if err != nil {
		return err
	}
	defer pool.Close()

	sql := sqlstore.New(pool, logger)
	if err := sql.EnsureSchema(ctx); err != nil {
		return err
	}

	limiter := ratelimit.New(cfg.Prices.RateLimit.Calls, cfg.Prices.RateLimit.Period)
	feed, err := pricefeed.New(cfg.Prices, limiter, logger)
	if err != nil {
		return err
	}

	total := 0
	for _, inst := range instruments {
		bars, err := feed.DailyBars(ctx, inst.Ticker, window.Start, window.End)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Warn("price fetch failed", "ticker", inst.Ticker, "error", err)
			continue
		}
		for _, bar := range bars {
			if err := sql.UpsertDailyPrice(ctx, bar); err != nil {
				return err
			}
			total++
		}
	}

	logger.Info("price ingestion complete", "bars", total)
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
