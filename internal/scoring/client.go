// Package scoring is the HTTP client for the external sentiment inference
// service. The service classifies a text into three-way probabilities; the
// scalar confidence used downstream is positive minus negative.
package scoring

import (
	"bytes"
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
)

// Client scores texts against the inference service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time
}

// New creates a Client from config.
func New(cfg config.ScoringConfig, logger *slog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("scoring: base URL not configured")
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
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		now:        time.Now,
	}, nil
}

type scoreRequest struct {
	Text string `json:"text"`
}

type scoreResponse struct {
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
	Positive float64 `json:"positive"`
}

// Score classifies one text and returns the full snapshot.
func (c *Client) Score(ctx context.Context, text string) (model.SentimentSnapshot, error) {
	body, err := json.Marshal(scoreRequest{Text: text})
	if err != nil {
		return model.SentimentSnapshot{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return model.SentimentSnapshot{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.SentimentSnapshot{}, fmt.Errorf("score request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.SentimentSnapshot{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return model.SentimentSnapshot{}, fmt.Errorf("score request: status %d: %s", resp.StatusCode, string(respBody))
	}

	var scores scoreResponse
	if err := json.Unmarshal(respBody, &scores); err != nil {
		return model.SentimentSnapshot{}, fmt.Errorf("unmarshal response: %w", err)
	}

	return model.SentimentSnapshot{
		Negative:   scores.Negative,
		Neutral:    scores.Neutral,
		Positive:   scores.Positive,
		Label:      label(scores),
		Confidence: scores.Positive - scores.Negative,
		UpdatedAt:  c.now().UTC(),
	}, nil
}

// label picks the highest-probability class. Ties resolve in the order
// negative, neutral, positive.
func label(s scoreResponse) string {
	best, name := s.Negative, "negative"
	if s.Neutral > best {
		best, name = s.Neutral, "neutral"
	}
	if s.Positive > best {
		name = "positive"
	}
	return name
}
