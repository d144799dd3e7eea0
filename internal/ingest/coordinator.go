// Package ingest coordinates one batch ingestion run: every configured
// instrument is fetched from every enabled source adapter, and the
// normalized records are stamped with run metadata and persisted.
package ingest

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/avallois/marketsense/internal/model"
	"github.com/avallois/marketsense/internal/source"
)

// RecordStore persists fetched records.
type RecordStore interface {
	InsertRecord(ctx context.Context, rec model.ContentRecord) error
}

// Result is the outcome of one (instrument, adapter) fetch task.
type Result struct {
	Ticker   string
	Medium   model.SourceMedium
	Fetched  int
	Inserted int
	Err      error
}

// Report summarizes one ingestion run.
type Report struct {
	RunID     uuid.UUID
	StartedAt time.Time
	Duration  time.Duration
	Results   []Result
}

// Inserted is the total number of records persisted across all tasks.
func (r Report) Inserted() int {
	total := 0
	for _, res := range r.Results {
		total += res.Inserted
	}
	return total
}

// Failed returns the results whose fetch errored.
func (r Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// Coordinator fans one run out over the instrument basket and the enabled
// adapters with bounded concurrency.
type Coordinator struct {
	adapters    []source.Adapter
	instruments []model.Instrument
	store       RecordStore
	window      source.Window
	fetchLimit  int
	concurrency int
	logger      *slog.Logger
	now         func() time.Time
}

// New creates a Coordinator. Concurrency values below 1 are raised to 1.
func New(
	adapters []source.Adapter,
	instruments []model.Instrument,
	store RecordStore,
	window source.Window,
	fetchLimit int,
	concurrency int,
	logger *slog.Logger,
) *Coordinator {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		adapters:    adapters,
		instruments: instruments,
		store:       store,
		window:      window,
		fetchLimit:  fetchLimit,
		concurrency: concurrency,
		logger:      logger,
		now:         time.Now,
	}
}

// Run executes the fan-out. A failing fetch is recorded in its Result and
// does not abort the run; Run itself errors only when the context dies.
func (c *Coordinator) Run(ctx context.Context) (Report, error) {
	report := Report{
		RunID:     uuid.New(),
		StartedAt: c.now().UTC(),
	}

	c.logger.Info("ingestion run started",
		"run_id", report.RunID,
		"instruments", len(c.instruments),
		"adapters", len(c.adapters),
		"concurrency", c.concurrency,
	)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for _, inst := range c.instruments {
		for _, adapter := range c.adapters {
			inst, adapter := inst, adapter
			g.Go(func() error {
				res := c.runTask(gctx, inst, adapter, report.RunID)
				mu.Lock()
				report.Results = append(report.Results, res)
				mu.Unlock()
				return gctx.Err()
			})
		}
	}

	err := g.Wait()
	report.Duration = c.now().UTC().Sub(report.StartedAt)

	c.logger.Info("ingestion run finished",
		"run_id", report.RunID,
		"inserted", report.Inserted(),
		"failed_tasks", len(report.Failed()),
		"duration", report.Duration,
	)
	return report, err
}

func (c *Coordinator) runTask(ctx context.Context, inst model.Instrument, adapter source.Adapter, runID uuid.UUID) Result {
	res := Result{Ticker: inst.Ticker, Medium: adapter.Medium()}

	records, err := adapter.Fetch(ctx, inst, c.window, c.fetchLimit)
	if err != nil {
		c.logger.Error("fetch failed",
			"ticker", inst.Ticker,
			"medium", adapter.Medium(),
			"error", err,
		)
		res.Err = err
		return res
	}
	res.Fetched = len(records)

	ingestedAt := c.now().UTC()
	for _, rec := range records {
		rec.RunID = runID
		rec.IngestedAt = ingestedAt
		if err := c.store.InsertRecord(ctx, rec); err != nil {
			// One bad document should not sink the batch.
			c.logger.Error("insert failed",
				"ticker", inst.Ticker,
				"medium", adapter.Medium(),
				"url", rec.URL,
				"error", err,
			)
			continue
		}
		res.Inserted++
	}

	c.logger.Info("task complete",
		"ticker", inst.Ticker,
		"medium", adapter.Medium(),
		"fetched", res.Fetched,
		"inserted", res.Inserted,
	)
	return res
}
