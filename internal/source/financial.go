package source

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/avallois/marketsense/internal/config"
	"github.com/avallois/marketsense/internal/model"
	"github.com/avallois/marketsense/internal/ratelimit"
	"github.com/avallois/marketsense/internal/textutil"
)

const financialMaxPageSize = 1000

// FinancialNews fetches articles from a financial news API keyed directly
// by ticker symbol over an explicit date range.
type FinancialNews struct {
	client *restClient
	logger *slog.Logger
}

// NewFinancialNews creates the financial-news adapter. Missing URL or key
// is a configuration error that disables the source for the run.
func NewFinancialNews(cfg config.SourceConfig, limiter *ratelimit.Limiter, logger *slog.Logger) (*FinancialNews, error) {
	if cfg.BaseURL == "" || cfg.APIKey == "" {
		return nil, errors.New("financial news source base_url or api_key not configured")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FinancialNews{
		client: newRESTClient(cfg.BaseURL, cfg.APIKey, cfg.Timeout, limiter, logger),
		logger: logger,
	}, nil
}

// Medium implements Adapter.
func (f *FinancialNews) Medium() model.SourceMedium { return model.MediumFinancialNews }

// Fetch queries the window's date range newest-first, up to the source's
// page cap. When an article carries an insight for the queried ticker, its
// reasoning and keywords fill the record's description and keyword list;
// otherwise both default to empty.
func (f *FinancialNews) Fetch(ctx context.Context, inst model.Instrument, window Window, limit int) ([]model.ContentRecord, error) {
	if limit < 1 || limit > financialMaxPageSize {
		limit = financialMaxPageSize
	}

	query := url.Values{}
	query.Set("ticker", inst.Ticker)
	query.Set("published_utc.gte", window.Start.Format("2006-01-02"))
	query.Set("published_utc.lte", window.End.Format("2006-01-02"))
	query.Set("sort", "published_utc")
	query.Set("order", "desc")
	query.Set("limit", strconv.Itoa(limit))

	var resp financialNewsResponse
	if err := f.client.get(ctx, "/v2/reference/news", query, &resp); err != nil {
		return nil, err
	}

	records := make([]model.ContentRecord, 0, len(resp.Results))
	for _, a := range resp.Results {
		published, err := parseUTC(a.PublishedUTC)
		if err != nil {
			f.logger.Debug("skipping article without usable timestamp",
				"ticker", inst.Ticker,
				"published_utc", a.PublishedUTC,
			)
			continue
		}

		var description string
		var keywords []string
		if insight := a.insightFor(inst.Ticker); insight != nil {
			description = textutil.CleanText(insight.SentimentReasoning)
			keywords = insight.Keywords
		}

		sourceName := a.Publisher.HomepageURL
		if sourceName == "" {
			sourceName = "unknown"
		}

		records = append(records, model.ContentRecord{
			Ticker:      inst.Ticker,
			Title:       textutil.CleanText(a.Title),
			Body:        textutil.CleanText(a.Description),
			Medium:      model.MediumFinancialNews,
			Source:      sourceName,
			Description: description,
			URL:         a.ArticleURL,
			Keywords:    keywords,
			NativeID:    a.ID,
			PublishedAt: published,
		})
	}

	return records, nil
}

// financialNewsResponse mirrors the financial news API's response envelope.
type financialNewsResponse struct {
	Status  string                 `json:"status"`
	Results []financialNewsArticle `json:"results"`
}

type financialNewsArticle struct {
	ID        string `json:"id"`
	Publisher struct {
		Name        string `json:"name"`
		HomepageURL string `json:"homepage_url"`
	} `json:"publisher"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	ArticleURL   string             `json:"article_url"`
	PublishedUTC string             `json:"published_utc"`
	Insights     []financialInsight `json:"insights"`
}

type financialInsight struct {
	Ticker             string   `json:"ticker"`
	Sentiment          string   `json:"sentiment"`
	SentimentReasoning string   `json:"sentiment_reasoning"`
	Keywords           []string `json:"keywords"`
}

// insightFor returns the first insight matching the queried ticker, or nil.
func (a *financialNewsArticle) insightFor(ticker string) *financialInsight {
	for i := range a.Insights {
		if a.Insights[i].Ticker == ticker {
			return &a.Insights[i]
		}
	}
	return nil
}
