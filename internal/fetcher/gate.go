package fetcher

import (
	"context"
	"sync"
	"time"
)

const (
	// IntervalWithKey keeps a keyed client under 5 requests per second.
	IntervalWithKey = 200 * time.Millisecond
	// IntervalWithoutKey keeps an anonymous client under 3 requests per second.
	IntervalWithoutKey = 334 * time.Millisecond
)

// IntervalFor returns the dispatch spacing for a credential.
func IntervalFor(apiKey string) time.Duration {
	if apiKey != "" {
		return IntervalWithKey
	}
	return IntervalWithoutKey
}

// Gate spaces request dispatches at least interval apart. Callers reserve a
// dispatch slot under the lock and then sleep until it starts, so the next
// slot is claimed before the current request completes.
type Gate struct {
	interval time.Duration

	mu   sync.Mutex
	next time.Time
}

// NewGate returns a gate that spaces dispatches interval apart.
func NewGate(interval time.Duration) *Gate {
	return &Gate{interval: interval}
}

// Interval returns the minimum spacing between dispatches.
func (g *Gate) Interval() time.Duration {
	return g.interval
}

// Wait blocks until the caller may dispatch. A slot reserved by a caller whose
// context is cancelled stays consumed.
func (g *Gate) Wait(ctx context.Context) error {
	start := g.reserve(time.Now())

	delay := time.Until(start)
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (g *Gate) reserve(now time.Time) time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()

	start := g.next
	if start.Before(now) {
		start = now
	}
	g.next = start.Add(g.interval)
	return start
}
