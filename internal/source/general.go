package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/avallois/marketsense/internal/config"
	"github.com/avallois/marketsense/internal/model"
	"github.com/avallois/marketsense/internal/ratelimit"
	"github.com/avallois/marketsense/internal/textutil"
)

const (
	// The general news tier only serves the trailing 30 days.
	generalMaxLookbackDays = 30
	generalMaxPageSize     = 100
)

// GeneralNews fetches articles from a general news index using a boolean OR
// query over the ticker, company name, and alternate ticker.
type GeneralNews struct {
	client *restClient
	logger *slog.Logger
}

// NewGeneralNews creates the general-news adapter. Missing URL or key is a
// configuration error that disables the source for the run.
func NewGeneralNews(cfg config.SourceConfig, limiter *ratelimit.Limiter, logger *slog.Logger) (*GeneralNews, error) {
	if cfg.BaseURL == "" || cfg.APIKey == "" {
		return nil, errors.New("general news source base_url or api_key not configured")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GeneralNews{
		client: newRESTClient(cfg.BaseURL, cfg.APIKey, cfg.Timeout, limiter, logger),
		logger: logger,
	}, nil
}

// Medium implements Adapter.
func (g *GeneralNews) Medium() model.SourceMedium { return model.MediumGeneralNews }

// Fetch requests up to 100 articles ranked by relevance. The window is
// clamped to the source's 30-day maximum lookback regardless of what the
// caller asked for. A source-reported error fails the whole ticker.
func (g *GeneralNews) Fetch(ctx context.Context, inst model.Instrument, window Window, limit int) ([]model.ContentRecord, error) {
	window = window.Clamp(generalMaxLookbackDays)

	q := inst.Ticker + " OR " + inst.Name
	if inst.AlternateTicker != "" {
		q += " OR " + inst.AlternateTicker
	}

	if limit < 1 || limit > generalMaxPageSize {
		limit = generalMaxPageSize
	}

	query := url.Values{}
	query.Set("q", q)
	query.Set("from", window.Start.Format("2006-01-02"))
	query.Set("sortBy", "relevancy")
	query.Set("language", "en")
	query.Set("pageSize", strconv.Itoa(limit))

	var resp generalNewsResponse
	if err := g.client.get(ctx, "/v2/everything", query, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("general news source error %s: %s", resp.Code, resp.Message)
	}

	records := make([]model.ContentRecord, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		published, err := parseUTC(a.PublishedAt)
		if err != nil {
			g.logger.Debug("skipping article without usable timestamp",
				"ticker", inst.Ticker,
				"published_at", a.PublishedAt,
			)
			continue
		}

		sourceName := a.Source.Name
		if sourceName == "" {
			sourceName = "unknown"
		}

		records = append(records, model.ContentRecord{
			Ticker:      inst.Ticker,
			Title:       textutil.CleanText(a.Title),
			Body:        textutil.CleanText(a.Content),
			Medium:      model.MediumGeneralNews,
			Source:      sourceName,
			Description: textutil.CleanText(a.Description),
			URL:         a.URL,
			PublishedAt: published,
		})
	}

	return records, nil
}

// parseUTC parses an RFC 3339 timestamp; a trailing literal "Z" designator
// is UTC offset zero.
func parseUTC(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// generalNewsResponse mirrors the news index's response envelope.
type generalNewsResponse struct {
	Status   string               `json:"status"`
	Code     string               `json:"code"`
	Message  string               `json:"message"`
	Articles []generalNewsArticle `json:"articles"`
}

type generalNewsArticle struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}
