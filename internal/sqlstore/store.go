package sqlstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avallois/marketsense/internal/model"
)

// Store provides upsert writers and series readers over the three
// analytical tables.
type Store struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// New creates a Store on an existing connection pool.
func New(db *pgxpool.Pool, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

const schema = `
CREATE TABLE IF NOT EXISTS sentiment_records (
	ticker   TEXT             NOT NULL,
	date     DATE             NOT NULL,
	score    DOUBLE PRECISION NOT NULL,
	news_id  TEXT             NOT NULL,
	PRIMARY KEY (ticker, date)
);

CREATE TABLE IF NOT EXISTS stock_prices (
	ticker  TEXT             NOT NULL,
	date    DATE             NOT NULL,
	open    DOUBLE PRECISION NOT NULL,
	high    DOUBLE PRECISION NOT NULL,
	low     DOUBLE PRECISION NOT NULL,
	close   DOUBLE PRECISION NOT NULL,
	volume  DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (ticker, date)
);

CREATE TABLE IF NOT EXISTS correlation_records (
	ticker       TEXT             NOT NULL,
	date         DATE             NOT NULL,
	coefficient  DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (ticker, date)
);
`

// EnsureSchema creates the analytical tables when they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// UpsertDailySentiment writes one (ticker, day) aggregate, replacing any
// previous row for the same key.
func (s *Store) UpsertDailySentiment(ctx context.Context, row model.DailySentiment) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO sentiment_records (ticker, date, score, news_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (ticker, date) DO UPDATE
		SET score = EXCLUDED.score, news_id = EXCLUDED.news_id`,
		row.Ticker, row.Date, row.Score, row.NewsID)
	if err != nil {
		return fmt.Errorf("upsert daily sentiment %s/%s: %w", row.Ticker, row.Date.Format("2006-01-02"), err)
	}
	return nil
}

// UpsertDailyPrice writes one daily bar, replacing any previous row for the
// same (ticker, date).
func (s *Store) UpsertDailyPrice(ctx context.Context, bar model.DailyPrice) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO stock_prices (ticker, date, open, high, low, close, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (ticker, date) DO UPDATE
		SET open = EXCLUDED.open, high = EXCLUDED.high, low = EXCLUDED.low,
		    close = EXCLUDED.close, volume = EXCLUDED.volume`,
		bar.Ticker, bar.Date, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume)
	if err != nil {
		return fmt.Errorf("upsert daily price %s/%s: %w", bar.Ticker, bar.Date.Format("2006-01-02"), err)
	}
	return nil
}

// UpsertCorrelation writes one correlation point, replacing any previous row
// for the same (ticker, date).
func (s *Store) UpsertCorrelation(ctx context.Context, point model.CorrelationPoint) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO correlation_records (ticker, date, coefficient)
		VALUES ($1, $2, $3)
		ON CONFLICT (ticker, date) DO UPDATE
		SET coefficient = EXCLUDED.coefficient`,
		point.Ticker, point.Date, point.Coefficient)
	if err != nil {
		return fmt.Errorf("upsert correlation %s/%s: %w", point.Ticker, point.Date.Format("2006-01-02"), err)
	}
	return nil
}

// SentimentSeries returns all daily sentiment rows for one ticker ordered
// by date ascending.
func (s *Store) SentimentSeries(ctx context.Context, ticker string) ([]model.DailySentiment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT ticker, date, score, news_id
		FROM sentiment_records
		WHERE ticker = $1
		ORDER BY date`,
		ticker)
	if err != nil {
		return nil, fmt.Errorf("query sentiment series %s: %w", ticker, err)
	}
	defer rows.Close()

	var out []model.DailySentiment
	for rows.Next() {
		var r model.DailySentiment
		if err := rows.Scan(&r.Ticker, &r.Date, &r.Score, &r.NewsID); err != nil {
			return nil, fmt.Errorf("scan sentiment row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sentiment series: %w", err)
	}
	return out, nil
}

// PriceSeries returns all daily bars for one ticker ordered by date
// ascending.
func (s *Store) PriceSeries(ctx context.Context, ticker string) ([]model.DailyPrice, error) {
	rows, err := s.db.Query(ctx, `
		SELECT ticker, date, open, high, low, close, volume
		FROM stock_prices
		WHERE ticker = $1
		ORDER BY date`,
		ticker)
	if err != nil {
		return nil, fmt.Errorf("query price series %s: %w", ticker, err)
	}
	defer rows.Close()

	var out []model.DailyPrice
	for rows.Next() {
		var b model.DailyPrice
		if err := rows.Scan(&b.Ticker, &b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan price row: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price series: %w", err)
	}
	return out, nil
}

// SentimentTickers returns the distinct tickers that have at least one
// daily sentiment row.
func (s *Store) SentimentTickers(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT DISTINCT ticker FROM sentiment_records ORDER BY ticker`)
	if err != nil {
		return nil, fmt.Errorf("query sentiment tickers: %w", err)
	}
	defer rows.Close()

	var tickers []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan ticker: %w", err)
		}
		tickers = append(tickers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tickers: %w", err)
	}
	return tickers, nil
}
