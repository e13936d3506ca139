// Package infra provides shared infrastructure for outbound EDGAR access:
// request spacing, retry-on-rate-limit, and soft-miss HTTP fetching.
package infra

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jmhodges/clock"
)

// ErrHTTP wraps a non-success HTTP response with its status code.
type ErrHTTP struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *ErrHTTP) Error() string {
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Status, e.URL)
}

// Gate enforces a minimum spacing between outbound requests. EDGAR bans
// clients that exceed its published rate limit, so every request in the
// process must pass through one shared gate.
type Gate struct {
	mu      sync.Mutex
	clk     clock.Clock
	spacing time.Duration
	last    time.Time
}

// NewGate creates a gate with the given minimum inter-request spacing.
func NewGate(clk clock.Clock, spacing time.Duration) *Gate {
	return &Gate{clk: clk, spacing: spacing}
}

// Wait blocks until the spacing since the previous request has elapsed.
// The reservation is taken before sleeping so concurrent callers queue
// rather than stampede.
func (g *Gate) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.mu.Lock()
	now := g.clk.Now()
	next := g.last.Add(g.spacing)
	if next.Before(now) {
		next = now
	}
	g.last = next
	g.mu.Unlock()

	if sleep := next.Sub(now); sleep > 0 {
		g.clk.Sleep(sleep)
	}
	return ctx.Err()
}
