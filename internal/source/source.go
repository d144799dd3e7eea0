package source

import (
	"context"
	"time"

	"github.com/avallois/marketsense/internal/model"
)

// Window bounds the publication time range of a fetch.
type Window struct {
	Start time.Time
	End   time.Time
}

// Lookback returns a window covering the last n days, ending now. A lookback
// below one day is raised to one day.
func Lookback(days int) Window {
	if days < 1 {
		days = 1
	}
	end := time.Now().UTC()
	return Window{Start: end.AddDate(0, 0, -days), End: end}
}

// Clamp caps the window's lookback at maxDays before its end.
func (w Window) Clamp(maxDays int) Window {
	min := w.End.AddDate(0, 0, -maxDays)
	if w.Start.Before(min) {
		w.Start = min
	}
	return w
}

// Adapter turns a (ticker, time window) query into normalized content
// records for one source medium.
type Adapter interface {
	Medium() model.SourceMedium
	Fetch(ctx context.Context, inst model.Instrument, window Window, limit int) ([]model.ContentRecord, error)
}

// dedupeRecords removes records sharing a (URL, native id, body) identity,
// keeping the first occurrence. Order is otherwise preserved.
func dedupeRecords(records []model.ContentRecord) []model.ContentRecord {
	type identity struct {
		url, id, body string
	}
	seen := make(map[identity]struct{}, len(records))
	out := records[:0]
	for _, r := range records {
		key := identity{url: r.URL, id: r.NativeID, body: r.Body}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}
