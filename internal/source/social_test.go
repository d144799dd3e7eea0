package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avallois/marketsense/internal/config"
	"github.com/avallois/marketsense/internal/model"
	"github.com/avallois/marketsense/internal/ratelimit"
)

func socialConfig(baseURL string, communities ...string) config.SocialSourceConfig {
	return config.SocialSourceConfig{
		SourceConfig: config.SourceConfig{
			BaseURL: baseURL,
			Timeout: 5 * time.Second,
		},
		Communities: communities,
	}
}

func testLimiter() *ratelimit.Limiter {
	return ratelimit.New(1000, time.Minute)
}

func postJSON(id, title, body, url string, created time.Time) string {
	return fmt.Sprintf(`{"data":{"id":%q,"title":%q,"selftext":%q,"url":%q,"created_utc":%d}}`,
		id, title, body, url, created.Unix())
}

func TestNewSocial_RequiresConfig(t *testing.T) {
	if _, err := NewSocial(socialConfig("", "stocks"), testLimiter(), nil); err == nil {
		t.Error("NewSocial with empty base_url expected error, got nil")
	}
	if _, err := NewSocial(socialConfig("http://example.com"), testLimiter(), nil); err == nil {
		t.Error("NewSocial with no communities expected error, got nil")
	}
}

func TestSocialFetch(t *testing.T) {
	now := time.Now().UTC()
	recent := now.Add(-24 * time.Hour)
	stale := now.Add(-60 * 24 * time.Hour)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("sort"); got != "new" {
			t.Errorf("sort = %q, want new", got)
		}
		switch r.URL.Path {
		case "/r/stocks/search.json":
			fmt.Fprintf(w, `{"data":{"children":[%s,%s,%s]}}`,
				postJSON("aaa", "Total  SA\n rallies", "body a", "http://x/a", recent),
				postJSON("bbb", "old post", "body b", "http://x/b", stale),
				postJSON("ccc", "newer", "body c", "http://x/c", now.Add(-time.Hour)),
			)
		case "/r/investing/search.json":
			// Same native id as stocks' first post: must be dropped.
			fmt.Fprintf(w, `{"data":{"children":[%s,%s]}}`,
				postJSON("aaa", "cross-post", "body a", "http://x/a2", recent),
				postJSON("ddd", "unique", "body d", "http://x/d", recent.Add(-time.Hour)),
			)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	s, err := NewSocial(socialConfig(srv.URL, "stocks", "investing"), testLimiter(), nil)
	if err != nil {
		t.Fatalf("NewSocial error = %v", err)
	}

	inst := model.Instrument{Ticker: "TTE.PA", Name: "TotalEnergies SA"}
	records, err := s.Fetch(context.Background(), inst, Window{Start: now.AddDate(0, 0, -30), End: now}, 100)
	if err != nil {
		t.Fatalf("Fetch error = %v", err)
	}

	// aaa (once), ccc, ddd survive; bbb is outside the window; the duplicate
	// aaa from the second community is dropped.
	if len(records) != 3 {
		t.Fatalf("Fetch returned %d records, want 3: %+v", len(records), records)
	}

	// Newest first.
	for i := 1; i < len(records); i++ {
		if records[i].PublishedAt.After(records[i-1].PublishedAt) {
			t.Errorf("records not sorted descending at index %d", i)
		}
	}

	first := records[0]
	if first.NativeID != "t3_ccc" {
		t.Errorf("first record NativeID = %q, want t3_ccc", first.NativeID)
	}
	if first.Medium != model.MediumSocial {
		t.Errorf("Medium = %q, want %q", first.Medium, model.MediumSocial)
	}
	if first.Ticker != "TTE.PA" {
		t.Errorf("Ticker = %q, want TTE.PA", first.Ticker)
	}

	// Title whitespace must be collapsed.
	for _, r := range records {
		if r.NativeID == "t3_aaa" && r.Title != "Total SA rallies" {
			t.Errorf("Title = %q, want %q", r.Title, "Total SA rallies")
		}
	}
}

func TestSocialFetch_CommunityFailureDoesNotAbort(t *testing.T) {
	now := time.Now().UTC()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/r/broken/search.json":
			http.NotFound(w, r)
		case "/r/stocks/search.json":
			fmt.Fprintf(w, `{"data":{"children":[%s]}}`,
				postJSON("aaa", "hello", "body", "http://x/a", now.Add(-time.Hour)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	s, err := NewSocial(socialConfig(srv.URL, "broken", "stocks"), testLimiter(), nil)
	if err != nil {
		t.Fatalf("NewSocial error = %v", err)
	}

	records, err := s.Fetch(context.Background(), model.Instrument{Ticker: "T", Name: "Test Co"}, Lookback(30), 100)
	if err != nil {
		t.Fatalf("Fetch error = %v", err)
	}
	if len(records) != 1 {
		t.Errorf("Fetch returned %d records, want 1 from the healthy community", len(records))
	}
}

func TestSocialFetch_CleanedNameFallsBackToOriginal(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		fmt.Fprint(w, `{"data":{"children":[]}}`)
	}))
	defer srv.Close()

	s, err := NewSocial(socialConfig(srv.URL, "stocks"), testLimiter(), nil)
	if err != nil {
		t.Fatalf("NewSocial error = %v", err)
	}

	// "SA" cleans to the empty string, so the raw name must be searched.
	if _, err := s.Fetch(context.Background(), model.Instrument{Ticker: "X", Name: "SA"}, Lookback(30), 100); err != nil {
		t.Fatalf("Fetch error = %v", err)
	}
	if gotQuery != "SA" {
		t.Errorf("search query = %q, want fallback to original name %q", gotQuery, "SA")
	}
}

func TestSocialFetch_NoCompanyName(t *testing.T) {
	s, err := NewSocial(socialConfig("http://example.invalid", "stocks"), testLimiter(), nil)
	if err != nil {
		t.Fatalf("NewSocial error = %v", err)
	}

	if _, err := s.Fetch(context.Background(), model.Instrument{Ticker: "X"}, Lookback(30), 100); err == nil {
		t.Error("Fetch with no company name expected error, got nil")
	}
}
