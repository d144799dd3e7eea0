package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/avallois/marketsense/internal/model"
)

// ObservationSource provides the scored records to aggregate.
type ObservationSource interface {
	ScoredObservations(ctx context.Context) ([]model.SentimentObservation, error)
}

// SentimentSink receives the per-day aggregates.
type SentimentSink interface {
	UpsertDailySentiment(ctx context.Context, row model.DailySentiment) error
}

// Aggregator collapses scored observations into one row per
// (ticker, UTC calendar day).
type Aggregator struct {
	source ObservationSource
	sink   SentimentSink
	logger *slog.Logger
}

// NewAggregator creates an Aggregator.
func NewAggregator(source ObservationSource, sink SentimentSink, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{source: source, sink: sink, logger: logger}
}

type dayKey struct {
	ticker string
	day    int64 // UTC midnight unix seconds
}

type dayAccum struct {
	sum    float64
	count  int
	newsID string // First observation encountered for the group
}

// Run aggregates all scored observations and upserts the resulting rows.
// It returns the number of rows written. No observations is a no-op.
func (a *Aggregator) Run(ctx context.Context) (int, error) {
	obs, err := a.source.ScoredObservations(ctx)
	if err != nil {
		return 0, fmt.Errorf("load observations: %w", err)
	}
	if len(obs) == 0 {
		a.logger.Info("no scored observations to aggregate")
		return 0, nil
	}

	groups := make(map[dayKey]*dayAccum)
	for _, o := range obs {
		key := dayKey{ticker: o.Ticker, day: model.Day(o.PublishedAt).Unix()}
		acc, ok := groups[key]
		if !ok {
			acc = &dayAccum{newsID: o.NewsID}
			groups[key] = acc
		}
		acc.sum += o.Confidence
		acc.count++
	}

	keys := make([]dayKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].ticker != keys[j].ticker {
			return keys[i].ticker < keys[j].ticker
		}
		return keys[i].day < keys[j].day
	})

	written := 0
	for _, k := range keys {
		acc := groups[k]
		row := model.DailySentiment{
			Ticker: k.ticker,
			Date:   timeFromDay(k.day),
			Score:  acc.sum / float64(acc.count),
			NewsID: acc.newsID,
		}
		if err := a.sink.UpsertDailySentiment(ctx, row); err != nil {
			return written, fmt.Errorf("upsert %s/%s: %w", row.Ticker, row.Date.Format("2006-01-02"), err)
		}
		written++
	}

	a.logger.Info("sentiment aggregated",
		"observations", len(obs),
		"rows", written,
	)
	return written, nil
}
