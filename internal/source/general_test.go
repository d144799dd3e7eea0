package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avallois/marketsense/internal/config"
	"github.com/avallois/marketsense/internal/model"
)

func generalConfig(baseURL string) config.SourceConfig {
	return config.SourceConfig{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	}
}

func TestNewGeneralNews_RequiresConfig(t *testing.T) {
	if _, err := NewGeneralNews(config.SourceConfig{APIKey: "k"}, testLimiter(), nil); err == nil {
		t.Error("NewGeneralNews without base_url expected error, got nil")
	}
	if _, err := NewGeneralNews(config.SourceConfig{BaseURL: "http://x"}, testLimiter(), nil); err == nil {
		t.Error("NewGeneralNews without api_key expected error, got nil")
	}
}

func TestGeneralNewsFetch(t *testing.T) {
	end := time.Now().UTC()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/everything" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q, want bearer key", got)
		}

		q := r.URL.Query()
		if got, want := q.Get("q"), "TTE.PA OR TotalEnergies OR TTE"; got != want {
			t.Errorf("q = %q, want %q", got, want)
		}
		if got := q.Get("sortBy"); got != "relevancy" {
			t.Errorf("sortBy = %q, want relevancy", got)
		}
		if got := q.Get("pageSize"); got != "100" {
			t.Errorf("pageSize = %q, want 100", got)
		}

		// Lookback must be clamped to 30 days even though 90 were requested.
		from, err := time.Parse("2006-01-02", q.Get("from"))
		if err != nil {
			t.Errorf("from = %q unparseable: %v", q.Get("from"), err)
		} else if end.Sub(from) > 31*24*time.Hour {
			t.Errorf("from = %v, want clamped to 30 days before %v", from, end)
		}

		fmt.Fprint(w, `{
			"status": "ok",
			"articles": [
				{
					"source": {"id": "reuters", "name": "Reuters"},
					"title": "Total\n  profits up",
					"description": " beat estimates ",
					"url": "http://news/1",
					"publishedAt": "2024-05-20T08:00:00Z",
					"content": "Full   text here"
				},
				{
					"source": {"name": ""},
					"title": "No timestamp",
					"url": "http://news/2",
					"publishedAt": ""
				}
			]
		}`)
	}))
	defer srv.Close()

	g, err := NewGeneralNews(generalConfig(srv.URL), testLimiter(), nil)
	if err != nil {
		t.Fatalf("NewGeneralNews error = %v", err)
	}

	inst := model.Instrument{Ticker: "TTE.PA", Name: "TotalEnergies", AlternateTicker: "TTE"}
	records, err := g.Fetch(context.Background(), inst, Window{Start: end.AddDate(0, 0, -90), End: end}, 100)
	if err != nil {
		t.Fatalf("Fetch error = %v", err)
	}

	// The article without a parseable timestamp is dropped.
	if len(records) != 1 {
		t.Fatalf("Fetch returned %d records, want 1", len(records))
	}

	rec := records[0]
	if rec.Medium != model.MediumGeneralNews {
		t.Errorf("Medium = %q, want %q", rec.Medium, model.MediumGeneralNews)
	}
	if rec.Source != "Reuters" {
		t.Errorf("Source = %q, want Reuters", rec.Source)
	}
	if rec.Title != "Total profits up" {
		t.Errorf("Title = %q, want collapsed whitespace", rec.Title)
	}
	if rec.Description != "beat estimates" {
		t.Errorf("Description = %q, want trimmed", rec.Description)
	}
	want := time.Date(2024, 5, 20, 8, 0, 0, 0, time.UTC)
	if !rec.PublishedAt.Equal(want) {
		t.Errorf("PublishedAt = %v, want %v", rec.PublishedAt, want)
	}
}

func TestGeneralNewsFetch_SourceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"error","code":"rateLimited","message":"too many requests"}`)
	}))
	defer srv.Close()

	g, err := NewGeneralNews(generalConfig(srv.URL), testLimiter(), nil)
	if err != nil {
		t.Fatalf("NewGeneralNews error = %v", err)
	}

	_, err = g.Fetch(context.Background(), model.Instrument{Ticker: "T", Name: "Test"}, Lookback(7), 100)
	if err == nil {
		t.Fatal("Fetch expected error for source-reported failure, got nil")
	}
}

func TestGeneralNewsFetch_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	g, err := NewGeneralNews(generalConfig(srv.URL), testLimiter(), nil)
	if err != nil {
		t.Fatalf("NewGeneralNews error = %v", err)
	}

	_, err = g.Fetch(context.Background(), model.Instrument{Ticker: "T", Name: "Test"}, Lookback(7), 100)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Fetch error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want 400", apiErr.StatusCode)
	}
}
