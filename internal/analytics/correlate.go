package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/avallois/marketsense/internal/model"
)

// SeriesSource provides the per-ticker daily series the engine correlates.
type SeriesSource interface {
	SentimentTickers(ctx context.Context) ([]string, error)
	SentimentSeries(ctx context.Context, ticker string) ([]model.DailySentiment, error)
	PriceSeries(ctx context.Context, ticker string) ([]model.DailyPrice, error)
}

// CorrelationSink receives the per-ticker correlation points.
type CorrelationSink interface {
	UpsertCorrelation(ctx context.Context, point model.CorrelationPoint) error
}

// Engine computes, per ticker, the Pearson correlation between day-over-day
// sentiment deltas and price returns over consecutive common dates.
type Engine struct {
	source SeriesSource
	sink   CorrelationSink
	logger *slog.Logger
}

// NewEngine creates an Engine.
func NewEngine(source SeriesSource, sink CorrelationSink, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{source: source, sink: sink, logger: logger}
}

// Run correlates every ticker that has sentiment rows and upserts the
// resulting points. Tickers with too little overlapping data are skipped,
// not failed. It returns the number of points written.
func (e *Engine) Run(ctx context.Context) (int, error) {
	tickers, err := e.source.SentimentTickers(ctx)
	if err != nil {
		return 0, fmt.Errorf("list tickers: %w", err)
	}

	written := 0
	for _, ticker := range tickers {
		point, ok, err := e.correlate(ctx, ticker)
		if err != nil {
			return written, err
		}
		if !ok {
			continue
		}
		if err := e.sink.UpsertCorrelation(ctx, point); err != nil {
			return written, fmt.Errorf("upsert correlation %s: %w", ticker, err)
		}
		written++
	}

	e.logger.Info("correlation pass complete",
		"tickers", len(tickers),
		"points", written,
	)
	return written, nil
}

// correlate builds the delta pairs for one ticker. ok is false when the
// ticker lacks enough overlapping history to produce a point.
func (e *Engine) correlate(ctx context.Context, ticker string) (model.CorrelationPoint, bool, error) {
	sentiments, err := e.source.SentimentSeries(ctx, ticker)
	if err != nil {
		return model.CorrelationPoint{}, false, fmt.Errorf("sentiment series %s: %w", ticker, err)
	}
	if len(sentiments) < 2 {
		e.logger.Debug("skipping ticker, not enough sentiment rows", "ticker", ticker, "rows", len(sentiments))
		return model.CorrelationPoint{}, false, nil
	}

	prices, err := e.source.PriceSeries(ctx, ticker)
	if err != nil {
		return model.CorrelationPoint{}, false, fmt.Errorf("price series %s: %w", ticker, err)
	}
	if len(prices) < 2 {
		e.logger.Debug("skipping ticker, not enough price rows", "ticker", ticker, "rows", len(prices))
		return model.CorrelationPoint{}, false, nil
	}

	scoreByDay := make(map[int64]float64, len(sentiments))
	for _, s := range sentiments {
		scoreByDay[model.Day(s.Date).Unix()] = s.Score
	}
	closeByDay := make(map[int64]float64, len(prices))
	for _, p := range prices {
		closeByDay[model.Day(p.Date).Unix()] = p.Close
	}

	var common []int64
	for day := range scoreByDay {
		if _, ok := closeByDay[day]; ok {
			common = append(common, day)
		}
	}
	if len(common) < 2 {
		e.logger.Debug("skipping ticker, not enough common dates", "ticker", ticker, "common", len(common))
		return model.CorrelationPoint{}, false, nil
	}
	sort.Slice(common, func(i, j int) bool { return common[i] < common[j] })

	// Consecutive-pair deltas over the common dates. A zero previous close
	// would make the return undefined, so that pair is dropped.
	var sentimentDeltas, priceReturns []float64
	var lastDay int64
	for i := 1; i < len(common); i++ {
		prev, cur := common[i-1], common[i]
		prevClose := closeByDay[prev]
		if prevClose == 0 {
			continue
		}
		sentimentDeltas = append(sentimentDeltas, scoreByDay[cur]-scoreByDay[prev])
		priceReturns = append(priceReturns, (closeByDay[cur]-prevClose)/prevClose)
		lastDay = cur
	}
	if len(sentimentDeltas) < 2 {
		e.logger.Debug("skipping ticker, not enough delta pairs", "ticker", ticker, "pairs", len(sentimentDeltas))
		return model.CorrelationPoint{}, false, nil
	}

	point := model.CorrelationPoint{
		Ticker:      ticker,
		Date:        timeFromDay(lastDay),
		Coefficient: pearson(sentimentDeltas, priceReturns),
	}
	return point, true, nil
}

// pearson computes Pearson's correlation coefficient over two equal-length
// series. A zero denominator (no variance in either series) yields 0.0.
func pearson(x, y []float64) float64 {
	n := float64(len(x))
	var sumX, sumY, sumXY, sumXX, sumYY float64
	for i := range x {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumXX += x[i] * x[i]
		sumYY += y[i] * y[i]
	}

	num := n*sumXY - sumX*sumY
	den := math.Sqrt((n*sumXX - sumX*sumX) * (n*sumYY - sumY*sumY))
	if den == 0 {
		return 0.0
	}
	return num / den
}

func timeFromDay(day int64) time.Time {
	return time.Unix(day, 0).UTC()
}
