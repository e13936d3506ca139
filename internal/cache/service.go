// Package cache owns the two-tier holdings cache: an in-memory map of
// fund results plus a persisted snapshot that survives process restarts,
// kept warm by a background refresh loop.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmhodges/clock"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fundwatch/fundwatch/pkg/models"
)

// FetchFunc produces one fund's result. Implementations never return nil;
// failures are carried in the result's Error field.
type FetchFunc func(ctx context.Context, fund models.Fund) *models.FundResult

// Service is the cache manager and refresh scheduler. All state lives
// behind one mutex: the current entry, its timestamp, and the warming
// flag that serializes refresh cycles.
type Service struct {
	mu      sync.Mutex
	data    map[string]*models.FundResult
	ts      time.Time
	warming bool
	done    chan struct{} // closed when the in-flight cycle completes

	funds    []models.Fund
	fetch    FetchFunc
	clk      clock.Clock
	ttl      time.Duration
	path     string
	parallel int
	log      *zap.Logger
}

// Options configures a Service.
type Options struct {
	Funds    []models.Fund
	Fetch    FetchFunc
	Clock    clock.Clock
	TTL      time.Duration
	Path     string // snapshot file location
	Parallel int    // per-fund fan-out inside one refresh cycle
	Log      *zap.Logger
}

func New(opts Options) *Service {
	if opts.Parallel <= 0 {
		opts.Parallel = 1
	}
	return &Service{
		funds:    opts.Funds,
		fetch:    opts.Fetch,
		clk:      opts.Clock,
		ttl:      opts.TTL,
		path:     opts.Path,
		parallel: opts.Parallel,
		log:      opts.Log,
	}
}

// Start brings the cache up and keeps it warm: adopt a fresh persisted
// snapshot without touching the network, otherwise refresh immediately;
// then refresh whenever the entry's age reaches the TTL, until ctx is
// cancelled.
func (s *Service) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *Service) run(ctx context.Context) {
	if !s.loadSnapshot() {
		s.log.Info("no fresh snapshot on disk, refreshing now")
		s.refreshOrWait(ctx)
	}
	for {
		s.mu.Lock()
		ts := s.ts
		s.mu.Unlock()

		sleep := s.ttl - s.clk.Now().Sub(ts)
		if sleep < 0 {
			sleep = 0
		}
		s.log.Info("next refresh scheduled", zap.Duration("in", sleep))
		select {
		case <-ctx.Done():
			return
		case <-s.clk.After(sleep):
		}
		s.refreshOrWait(ctx)
	}
}

// refreshOrWait runs one cycle, or, when a manual cycle is already in
// flight, blocks until that one finishes. Without the wait the loop would
// keep recomputing a zero sleep from the stale timestamp and spin for the
// whole in-flight cycle.
func (s *Service) refreshOrWait(ctx context.Context) {
	if s.Refresh(ctx) {
		return
	}
	select {
	case <-ctx.Done():
	case <-s.refreshDone():
	}
}

// refreshDone returns a channel that is closed once the in-flight cycle
// completes. Already closed when no cycle is running.
func (s *Service) refreshDone() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.warming {
		return s.done
	}
	ch := make(chan struct{})
	close(ch)
	return ch
}

// Refresh runs one full fetch cycle and swaps the result in atomically.
// At most one cycle runs at a time: a call that finds another in progress
// returns false immediately without fetching anything.
//
// The cycle always completes: one fund's failure lands in that fund's
// Error field and never aborts the others.
func (s *Service) Refresh(ctx context.Context) bool {
	s.mu.Lock()
	if s.warming {
		s.mu.Unlock()
		return false
	}
	s.warming = true
	s.done = make(chan struct{})
	s.mu.Unlock()

	s.log.Info("refresh cycle starting", zap.Int("funds", len(s.funds)))

	data := make(map[string]*models.FundResult, len(s.funds))
	var dataMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallel)
	for _, fund := range s.funds {
		fund := fund
		g.Go(func() error {
			r := s.fetch(gctx, fund)
			dataMu.Lock()
			data[fund.Name] = r
			dataMu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // fetchers report failure via FundResult.Error

	ts := s.clk.Now()
	s.mu.Lock()
	s.data = data
	s.ts = ts
	s.warming = false
	close(s.done)
	s.mu.Unlock()

	s.saveSnapshot(models.Snapshot{Timestamp: ts, Data: data})
	s.log.Info("refresh cycle complete")
	return true
}

// saveSnapshot persists the full entry via write-temp-then-rename so a
// crash mid-write cannot corrupt the previous good copy.
func (s *Service) saveSnapshot(snap models.Snapshot) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.log.Error("create snapshot dir failed", zap.Error(err))
		return
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		s.log.Error("marshal snapshot failed", zap.Error(err))
		return
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		s.log.Error("write snapshot failed", zap.Error(err))
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		s.log.Error("rename snapshot failed", zap.Error(err))
		return
	}
	s.log.Info("snapshot saved", zap.String("path", s.path))
}

// Load adopts the persisted snapshot without scheduling anything. Used by
// read-only CLI commands; returns whether a fresh snapshot was found.
func (s *Service) Load() bool {
	return s.loadSnapshot()
}

// loadSnapshot adopts the persisted entry if it exists and is younger
// than the TTL. Returns false when a refresh is needed instead.
func (s *Service) loadSnapshot() bool {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		return false
	}
	var snap models.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		s.log.Warn("snapshot unreadable, ignoring", zap.Error(err))
		return false
	}
	age := s.clk.Now().Sub(snap.Timestamp)
	if age > s.ttl {
		s.log.Info("snapshot stale", zap.Duration("age", age))
		return false
	}
	s.mu.Lock()
	s.data = snap.Data
	s.ts = snap.Timestamp
	s.mu.Unlock()
	s.log.Info("snapshot loaded", zap.Duration("age", age))
	return true
}

// --- Read accessors ---

// ErrNotCached distinguishes "cache still cold" from an empty result.
var ErrNotCached = fmt.Errorf("holdings not cached yet")

// All returns the current entry for every fund, or ErrNotCached while the
// cache is cold. The returned map is the live entry; callers must treat
// it as read-only.
func (s *Service) All() (map[string]*models.FundResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, ErrNotCached
	}
	return s.data, nil
}

// Fund returns one fund's result by display name.
func (s *Service) Fund(name string) (*models.FundResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, ErrNotCached
	}
	r, ok := s.data[name]
	if !ok {
		return nil, fmt.Errorf("unknown fund %q", name)
	}
	return r, nil
}

// BySymbol scans every cached fund's quarters for holdings of the given
// ticker and returns the matches grouped by fund name.
func (s *Service) BySymbol(ticker string) (map[string][]models.SymbolHolding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, ErrNotCached
	}
	matches := make(map[string][]models.SymbolHolding)
	for fund, result := range s.data {
		for _, q := range result.Quarters {
			for _, h := range q.Holdings {
				if h.Ticker == ticker {
					matches[fund] = append(matches[fund], models.SymbolHolding{
						Period:  q.Period,
						Holding: h,
					})
				}
			}
		}
	}
	return matches, nil
}

// Fresh reports whether the in-memory entry exists and is younger than
// the TTL.
func (s *Service) Fresh() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data != nil && s.clk.Now().Sub(s.ts) < s.ttl
}

// Warming reports whether a refresh cycle is in progress.
func (s *Service) Warming() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.warming
}

// LastUpdated returns when the current entry was assembled; zero while
// the cache is cold.
func (s *Service) LastUpdated() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ts
}
