package roster

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultFreshFor is the freshness window of a snapshot.
	DefaultFreshFor = 10 * time.Minute

	// DefaultFetchTimeout bounds one refresh against the source.
	DefaultFetchTimeout = 30 * time.Second

	refreshKey = "roster"
)

// Cache serves the filtered roster from a time-windowed snapshot.
//
// At most one refresh runs at a time; concurrent callers needing a refresh
// wait for the running one and share its result. A failed refresh falls back
// to the previous snapshot when there is one.
type Cache struct {
	source       Source
	eligible     []string
	freshFor     time.Duration
	fetchTimeout time.Duration
	now          func() time.Time

	mu          sync.RWMutex
	snap        Snapshot
	invalidated bool
	generation  uint64

	group singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithFreshFor sets the freshness window.
func WithFreshFor(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.freshFor = d
		}
	}
}

// WithFetchTimeout bounds a single refresh.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.fetchTimeout = d
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// NewCache returns an empty cache over source listing members holding one of eligible.
func NewCache(source Source, eligible []string, opts ...Option) *Cache {
	c := &Cache{
		source:       source,
		eligible:     append([]string(nil), eligible...),
		freshFor:     DefaultFreshFor,
		fetchTimeout: DefaultFetchTimeout,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Get returns the roster snapshot. Without forceRefresh a fresh snapshot is
// returned without contacting the source.
//
// Errors wrap ErrUpstreamUnavailable and only occur when no snapshot exists.
func (c *Cache) Get(ctx context.Context, forceRefresh bool) (Snapshot, error) {
	if !forceRefresh {
		if s, ok := c.fresh(); ok {
			cacheHits.Inc()
			return s, nil
		}
	}

	// the shared refresh must outlive the caller that happened to start it
	refreshCtx := context.WithoutCancel(ctx)

	ch := c.group.DoChan(refreshKey, func() (interface{}, error) {
		return c.refresh(refreshCtx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return c.fallback(res.Err)
		}

		return res.Val.(Snapshot), nil //nolint:forcetypeassert
	case <-ctx.Done():
		return c.fallback(ctx.Err())
	}
}

// Warm forces a refresh, used once after startup.
func (c *Cache) Warm(ctx context.Context) error {
	s, err := c.Get(ctx, true)
	if err != nil {
		return err
	}

	log.Info().Int("members", len(s.Members)).Bool("stale", s.Stale).Msg("roster cache ready")

	return nil
}

// Invalidate marks the current snapshot as outdated. The next Get refreshes,
// the old snapshot stays available as fallback.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.invalidated = true
	c.generation++
	c.mu.Unlock()
}

// Peek returns the current snapshot without any freshness check or I/O.
func (c *Cache) Peek() (Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.snap, !c.snap.Empty()
}

func (c *Cache) fresh() (Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.snap.Empty() || c.invalidated {
		return Snapshot{}, false
	}

	if c.now().Sub(c.snap.CapturedAt) >= c.freshFor {
		return Snapshot{}, false
	}

	return c.snap, true
}

func (c *Cache) refresh(ctx context.Context) (Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	started := c.now()

	c.mu.RLock()
	gen := c.generation
	c.mu.RUnlock()

	members, err := c.source.FetchGroupMembers(ctx)
	if err != nil {
		refreshTotal.WithLabelValues("error").Inc()
		return Snapshot{}, fmt.Errorf("fetch members: %w", err)
	}

	roles, err := c.source.FetchRoles(ctx)
	if err != nil {
		refreshTotal.WithLabelValues("error").Inc()
		return Snapshot{}, fmt.Errorf("fetch roles: %w", err)
	}

	s := newSnapshot(members, roles, c.eligible, started)

	c.mu.Lock()
	c.snap = s
	// an Invalidate during the fetch keeps the new snapshot outdated
	if c.generation == gen {
		c.invalidated = false
	}
	c.mu.Unlock()

	refreshTotal.WithLabelValues("ok").Inc()
	memberGauge.Set(float64(len(s.Members)))

	log.Debug().
		Int("fetched", len(members)).
		Int("listed", len(s.Members)).
		Dur("took", c.now().Sub(started)).
		Msg("roster refreshed")

	return s, nil
}

func (c *Cache) fallback(cause error) (Snapshot, error) {
	s, ok := c.Peek()
	if !ok {
		log.Error().Err(cause).Msg("roster refresh failed and no snapshot is cached")
		return Snapshot{}, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, cause)
	}

	staleServed.Inc()
	log.Warn().Err(cause).Time("captured_at", s.CapturedAt).Msg("roster refresh failed, serving cached snapshot")

	s.Stale = true

	return s, nil
}
