// Package pricefeed is the HTTP client for the external daily-price API.
// It fetches daily OHLCV bars per ticker; the bars land in the relational
// store and feed the correlation pass.
package pricefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/avallois/marketsense/internal/config"
	"github.com/avallois/marketsense/internal/model"
	"github.com/avallois/marketsense/internal/ratelimit"
)

// Client fetches daily bars. Calls are admitted through the feed's own
// sliding-window limiter.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	logger     *slog.Logger
}

// New creates a Client from config.
func New(cfg config.PricesConfig, limiter *ratelimit.Limiter, logger *slog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("pricefeed: base URL not configured")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("pricefeed: API key not configured")
	}
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultSourceTimeout
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
		logger:     logger,
	}, nil
}

type aggsResponse struct {
	Status  string    `json:"status"`
	Results []aggsBar `json:"results"`
}

type aggsBar struct {
	Timestamp int64   `json:"t"` // Unix milliseconds, start of day
	Open      float64 `json:"o"`
	High      float64 `json:"h"`
	Low       float64 `json:"l"`
	Close     float64 `json:"c"`
	Volume    float64 `json:"v"`
}

// DailyBars returns the daily bars for ticker over [start, end], dates
// truncated to UTC midnight.
func (c *Client) DailyBars(ctx context.Context, ticker string, start, end time.Time) ([]model.DailyPrice, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	url := fmt.Sprintf("%s/v2/aggs/ticker/%s/range/1/day/%s/%s?adjusted=true&sort=asc",
		c.baseURL, ticker, start.UTC().Format("2006-01-02"), end.UTC().Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("price request %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("price request %s: status %d: %s", ticker, resp.StatusCode, string(body))
	}

	var parsed aggsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	bars := make([]model.DailyPrice, 0, len(parsed.Results))
	for _, b := range parsed.Results {
		bars = append(bars, model.DailyPrice{
			Ticker: ticker,
			Date:   model.Day(time.UnixMilli(b.Timestamp)),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}

	c.logger.Debug("fetched daily bars", "ticker", ticker, "bars", len(bars))
	return bars, nil
}
