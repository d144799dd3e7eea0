package model

import (
	"time"

	"github.com/google/uuid"
)

// SourceMedium identifies the kind of external source a record came from.
type SourceMedium string

const (
	MediumSocial        SourceMedium = "social"
	MediumGeneralNews   SourceMedium = "general-news"
	MediumFinancialNews SourceMedium = "financial-news"
)

// Instrument is one tracked security in the configured basket.
type Instrument struct {
	Ticker          string // Primary listing symbol (e.g., "TTE.PA")
	Name            string // Company name used for text search
	AlternateTicker string // Optional secondary listing (e.g., US ADR)
}

// ContentRecord is one normalized ingested item (post or article).
type ContentRecord struct {
	Ticker      string             `bson:"ticker"`
	Title       string             `bson:"title"`
	Body        string             `bson:"content"`
	Medium      SourceMedium       `bson:"medium"`
	Source      string             `bson:"source"` // Publisher or community name
	Description string             `bson:"description,omitempty"`
	URL         string             `bson:"url,omitempty"`
	Keywords    []string           `bson:"keywords,omitempty"`
	NativeID    string             `bson:"native_id,omitempty"` // Source-native post/article id
	PublishedAt time.Time          `bson:"published_at"`
	IngestedAt  time.Time          `bson:"ingested_at"`
	RunID       uuid.UUID          `bson:"run_id"`
	Sentiment   *SentimentSnapshot `bson:"sentiment,omitempty"`
}

// SentimentSnapshot holds the three-way classification for a record.
// A nil snapshot means the record has not been scored yet.
type SentimentSnapshot struct {
	Negative   float64   `bson:"negative"`
	Neutral    float64   `bson:"neutral"`
	Positive   float64   `bson:"positive"`
	Label      string    `bson:"label"`      // "negative" | "neutral" | "positive"
	Confidence float64   `bson:"confidence"` // Positive minus negative
	UpdatedAt  time.Time `bson:"updated_at"`
}

// SentimentObservation is a scored record projected down to what the daily
// aggregation needs.
type SentimentObservation struct {
	Ticker      string
	PublishedAt time.Time
	Confidence  float64
	NewsID      string // Document store id of the record
}

// DailySentiment is the per (ticker, calendar day) aggregate.
type DailySentiment struct {
	Ticker string
	Date   time.Time // UTC midnight
	Score  float64   // Mean confidence over the day's observations
	NewsID string    // Representative record id (first encountered)
}

// DailyPrice is one daily bar from the external price feed.
type DailyPrice struct {
	Ticker string
	Date   time.Time // UTC midnight
	Open   float64
	High   float64
	Low    float64
	Close  float64 // Required; feeds the correlation engine
	Volume float64
}

// CorrelationPoint is the Pearson coefficient between sentiment deltas and
// price returns for one ticker, tagged with the most recent date that
// contributed a delta pair.
type CorrelationPoint struct {
	Ticker      string
	Date        time.Time
	Coefficient float64 // In [-1, 1], or 0.0 when a series has no variance
}

// Day truncates a timestamp to its UTC calendar day.
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
