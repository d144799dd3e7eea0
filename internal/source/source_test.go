package source

import (
	"testing"
	"time"

	"github.com/avallois/marketsense/internal/model"
)

func TestWindowClamp(t *testing.T) {
	end := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		start     time.Time
		maxDays   int
		wantStart time.Time
	}{
		{
			name:      "inside cap untouched",
			start:     end.AddDate(0, 0, -10),
			maxDays:   30,
			wantStart: end.AddDate(0, 0, -10),
		},
		{
			name:      "beyond cap clamped",
			start:     end.AddDate(0, 0, -90),
			maxDays:   30,
			wantStart: end.AddDate(0, 0, -30),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Window{Start: tt.start, End: end}.Clamp(tt.maxDays)
			if !w.Start.Equal(tt.wantStart) {
				t.Errorf("Clamp start = %v, want %v", w.Start, tt.wantStart)
			}
			if !w.End.Equal(end) {
				t.Errorf("Clamp end = %v, want unchanged %v", w.End, end)
			}
		})
	}
}

func TestLookback_MinimumOneDay(t *testing.T) {
	w := Lookback(0)
	if got := w.End.Sub(w.Start); got < 23*time.Hour {
		t.Errorf("Lookback(0) span = %v, want at least one day", got)
	}
}

func TestDedupeRecords(t *testing.T) {
	rec := func(url, id, body string) model.ContentRecord {
		return model.ContentRecord{URL: url, NativeID: id, Body: body}
	}

	tests := []struct {
		name string
		in   []model.ContentRecord
		want int
	}{
		{
			name: "identical tuple collapses",
			in:   []model.ContentRecord{rec("u1", "a", "text"), rec("u1", "a", "text")},
			want: 1,
		},
		{
			name: "different body kept",
			in:   []model.ContentRecord{rec("u1", "a", "text"), rec("u1", "a", "other")},
			want: 2,
		},
		{
			name: "different id kept",
			in:   []model.ContentRecord{rec("u1", "a", "text"), rec("u1", "b", "text")},
			want: 2,
		},
		{
			name: "empty input",
			in:   nil,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(dedupeRecords(tt.in)); got != tt.want {
				t.Errorf("dedupeRecords() kept %d records, want %d", got, tt.want)
			}
		})
	}
}

func TestParseUTC(t *testing.T) {
	got, err := parseUTC("2024-01-15T09:30:00Z")
	if err != nil {
		t.Fatalf("parseUTC error = %v", err)
	}
	want := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("parseUTC = %v, want %v", got, want)
	}

	if _, err := parseUTC(""); err == nil {
		t.Error("parseUTC(\"\") expected error, got nil")
	}
	if _, err := parseUTC("not-a-time"); err == nil {
		t.Error("parseUTC(garbage) expected error, got nil")
	}
}
