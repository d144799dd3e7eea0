package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter admits at most maxCalls calls in any trailing window. Wait blocks
// until admission is safe; it never fails except on context cancellation.
type Limiter struct {
	mu       sync.Mutex
	maxCalls int
	window   time.Duration
	stamps   []time.Time // Oldest first, len <= maxCalls

	// Injectable for tests.
	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

// New creates a Limiter admitting maxCalls per window.
func New(maxCalls int, window time.Duration) *Limiter {
	if maxCalls < 1 {
		maxCalls = 1
	}
	return &Limiter{
		maxCalls: maxCalls,
		window:   window,
		stamps:   make([]time.Time, 0, maxCalls),
		now:      time.Now,
		sleep:    sleepCtx,
	}
}

// Wait blocks until one more call may be issued, then records it. The lock
// is held across the suspension so concurrent callers queue in admission
// order; the guarantee is that no trailing window ever holds more than
// maxCalls recorded admissions.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.stamps) < l.maxCalls {
		l.stamps = append(l.stamps, l.now())
		return nil
	}

	elapsed := l.now().Sub(l.stamps[0])
	if elapsed < l.window {
		if err := l.sleep(ctx, l.window-elapsed); err != nil {
			return err
		}
	}

	// Evict the oldest stamp and record this call.
	copy(l.stamps, l.stamps[1:])
	l.stamps[len(l.stamps)-1] = l.now()
	return nil
}

// Recorded returns the number of admissions currently inside the window.
func (l *Limiter) Recorded() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	n := 0
	for _, ts := range l.stamps {
		if ts.After(cutoff) {
			n++
		}
	}
	return n
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
