package analytics

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/avallois/marketsense/internal/model"
)

type fakeObservations struct {
	obs []model.SentimentObservation
	err error
}

func (f *fakeObservations) ScoredObservations(context.Context) ([]model.SentimentObservation, error) {
	return f.obs, f.err
}

type fakeSentimentSink struct {
	rows []model.DailySentiment
	err  error
}

func (f *fakeSentimentSink) UpsertDailySentiment(_ context.Context, row model.DailySentiment) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, row)
	return nil
}

func obsAt(ticker string, ts time.Time, confidence float64, newsID string) model.SentimentObservation {
	return model.SentimentObservation{Ticker: ticker, PublishedAt: ts, Confidence: confidence, NewsID: newsID}
}

func TestAggregatorRun(t *testing.T) {
	day1 := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 5, 21, 0, 0, 0, 0, time.UTC)

	source := &fakeObservations{obs: []model.SentimentObservation{
		obsAt("TTE.PA", day1.Add(9*time.Hour), 0.8, "a"),
		obsAt("TTE.PA", day1.Add(15*time.Hour), 0.2, "b"),
		obsAt("TTE.PA", day2.Add(1*time.Hour), -0.4, "c"),
		obsAt("AIR.PA", day1.Add(3*time.Hour), 0.5, "d"),
	}}
	sink := &fakeSentimentSink{}

	written, err := NewAggregator(source, sink, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run error = %v", err)
	}
	if written != 3 {
		t.Fatalf("Run wrote %d rows, want 3", written)
	}

	want := []model.DailySentiment{
		{Ticker: "AIR.PA", Date: day1, Score: 0.5, NewsID: "d"},
		{Ticker: "TTE.PA", Date: day1, Score: 0.5, NewsID: "a"},
		{Ticker: "TTE.PA", Date: day2, Score: -0.4, NewsID: "c"},
	}
	for i, w := range want {
		got := sink.rows[i]
		if got.Ticker != w.Ticker || !got.Date.Equal(w.Date) || got.NewsID != w.NewsID {
			t.Errorf("row %d = %+v, want %+v", i, got, w)
		}
		if math.Abs(got.Score-w.Score) > 1e-9 {
			t.Errorf("row %d score = %v, want %v", i, got.Score, w.Score)
		}
	}
}

func TestAggregatorRun_SameDayDifferentHoursCollapse(t *testing.T) {
	// Two observations 23 hours apart on the same UTC day form one group.
	base := time.Date(2024, 5, 20, 0, 30, 0, 0, time.UTC)
	source := &fakeObservations{obs: []model.SentimentObservation{
		obsAt("OR.PA", base, 1.0, "x"),
		obsAt("OR.PA", base.Add(23*time.Hour), 0.0, "y"),
	}}
	sink := &fakeSentimentSink{}

	written, err := NewAggregator(source, sink, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run error = %v", err)
	}
	if written != 1 {
		t.Fatalf("Run wrote %d rows, want 1", written)
	}
	if got := sink.rows[0].Score; math.Abs(got-0.5) > 1e-9 {
		t.Errorf("score = %v, want 0.5", got)
	}
	if got := sink.rows[0].NewsID; got != "x" {
		t.Errorf("news id = %q, want first observation's id", got)
	}
}

func TestAggregatorRun_NoObservations(t *testing.T) {
	sink := &fakeSentimentSink{}
	written, err := NewAggregator(&fakeObservations{}, sink, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run error = %v", err)
	}
	if written != 0 || len(sink.rows) != 0 {
		t.Errorf("Run wrote %d rows (%d upserts), want none", written, len(sink.rows))
	}
}

func TestAggregatorRun_SourceError(t *testing.T) {
	source := &fakeObservations{err: errors.New("cursor broken")}
	if _, err := NewAggregator(source, &fakeSentimentSink{}, nil).Run(context.Background()); err == nil {
		t.Fatal("Run expected error from source, got nil")
	}
}

func TestAggregatorRun_SinkError(t *testing.T) {
	source := &fakeObservations{obs: []model.SentimentObservation{
		obsAt("BNP.PA", time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC), 0.1, "a"),
	}}
	sink := &fakeSentimentSink{err: errors.New("insert failed")}
	if _, err := NewAggregator(source, sink, nil).Run(context.Background()); err == nil {
		t.Fatal("Run expected error from sink, got nil")
	}
}
