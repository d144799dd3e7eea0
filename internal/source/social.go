package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/avallois/marketsense/internal/config"
	"github.com/avallois/marketsense/internal/model"
	"github.com/avallois/marketsense/internal/ratelimit"
	"github.com/avallois/marketsense/internal/textutil"
)

const maxSearchResultsPerCommunity = 100

// Social fetches discussion posts by searching each configured community
// for the instrument's cleaned company name.
type Social struct {
	client      *restClient
	communities []string
	logger      *slog.Logger
}

// NewSocial creates the social-discussion adapter. A missing base URL is a
// configuration error that disables the source for the run.
func NewSocial(cfg config.SocialSourceConfig, limiter *ratelimit.Limiter, logger *slog.Logger) (*Social, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("social source base_url not configured")
	}
	if len(cfg.Communities) == 0 {
		return nil, errors.New("social source has no communities configured")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Social{
		client:      newRESTClient(cfg.BaseURL, cfg.APIKey, cfg.Timeout, limiter, logger),
		communities: cfg.Communities,
		logger:      logger,
	}, nil
}

// Medium implements Adapter.
func (s *Social) Medium() model.SourceMedium { return model.MediumSocial }

// Fetch searches every community for the instrument, newest first. A single
// community failing is logged and skipped; the remaining communities still
// contribute. Results are deduplicated by (native id, URL) while collecting,
// sorted by creation time descending, then deduplicated again on the full
// (URL, native id, body) identity.
func (s *Social) Fetch(ctx context.Context, inst model.Instrument, window Window, limit int) ([]model.ContentRecord, error) {
	if inst.Name == "" {
		return nil, fmt.Errorf("instrument %s has no company name to search", inst.Ticker)
	}

	searchTerm := textutil.CleanCompanyName(inst.Name)
	if searchTerm == "" {
		// Cleaning removed everything; search the raw name instead.
		searchTerm = inst.Name
	}

	s.logger.Debug("searching communities",
		"ticker", inst.Ticker,
		"term", searchTerm,
		"communities", len(s.communities),
	)

	var records []model.ContentRecord
	seenIDs := make(map[string]struct{})
	seenURLs := make(map[string]struct{})

	for _, community := range s.communities {
		posts, err := s.search(ctx, community, searchTerm, limit)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn("community search failed",
				"community", community,
				"term", searchTerm,
				"err", err,
			)
			continue
		}

		for _, post := range posts {
			created := time.Unix(int64(post.CreatedUTC), 0).UTC()
			if created.Before(window.Start) {
				continue
			}

			nativeID := "t3_" + post.ID
			if _, dup := seenIDs[nativeID]; dup {
				continue
			}
			if post.URL != "" {
				if _, dup := seenURLs[post.URL]; dup {
					continue
				}
			}

			records = append(records, model.ContentRecord{
				Ticker:      inst.Ticker,
				Title:       textutil.CleanText(post.Title),
				Body:        textutil.CleanText(post.Selftext),
				Medium:      model.MediumSocial,
				Source:      community,
				URL:         post.URL,
				NativeID:    nativeID,
				PublishedAt: created,
			})

			seenIDs[nativeID] = struct{}{}
			if post.URL != "" {
				seenURLs[post.URL] = struct{}{}
			}
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].PublishedAt.After(records[j].PublishedAt)
	})

	return dedupeRecords(records), nil
}

// search issues one rate-gated search against a single community.
func (s *Social) search(ctx context.Context, community, term string, limit int) ([]socialPost, error) {
	if limit < 1 || limit > maxSearchResultsPerCommunity {
		limit = maxSearchResultsPerCommunity
	}

	query := url.Values{}
	query.Set("q", term)
	query.Set("sort", "new")
	query.Set("restrict_sr", "1")
	query.Set("limit", strconv.Itoa(limit))
	query.Set("raw_json", "1")

	var listing socialListing
	if err := s.client.get(ctx, "/r/"+community+"/search.json", query, &listing); err != nil {
		return nil, err
	}

	posts := make([]socialPost, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		posts = append(posts, child.Data)
	}
	return posts, nil
}

// socialListing mirrors the forum's search response envelope.
type socialListing struct {
	Data struct {
		Children []struct {
			Data socialPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type socialPost struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Selftext   string  `json:"selftext"`
	URL        string  `json:"url"`
	CreatedUTC float64 `json:"created_utc"`
	Subreddit  string  `json:"subreddit"`
}
