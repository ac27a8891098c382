package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ppiankov/factdash/internal/cache"
	"github.com/ppiankov/factdash/internal/model"
)

// ErrUnknownKey is returned by Refetch for keys that have never been read
var ErrUnknownKey = errors.New("unknown query key")

// ErrClosed is returned once the client has been closed
var ErrClosed = errors.New("query client closed")

// Config holds the client-wide defaults
type Config struct {
	StaleTime  time.Duration
	GCTime     time.Duration // Inactive entries are evicted this long after their last read
	Retry      int
	RetryDelay time.Duration
	Logger     *slog.Logger
	Recorder   Recorder
	Now        func() time.Time
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() Config {
	return Config{
		StaleTime:  5 * time.Minute,
		GCTime:     5 * time.Minute,
		Retry:      1,
		RetryDelay: time.Second,
	}
}

// ConfigFromModel maps the cache config section to client defaults
func ConfigFromModel(cfg model.CacheConfig) Config {
	c := DefaultConfig()
	if cfg.StaleTime > 0 {
		c.StaleTime = cfg.StaleTime
	}
	if cfg.GCTime > 0 {
		c.GCTime = cfg.GCTime
	}
	if cfg.Retry >= 0 {
		c.Retry = cfg.Retry
	}
	if cfg.RetryDelay > 0 {
		c.RetryDelay = cfg.RetryDelay
	}
	return c
}

// retrySleep waits between attempts; overridden in tests
var retrySleep = func(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// Client owns the cache entries and every fetch started on their behalf.
// Create one per process and pass it to whatever needs backend data.
type Client struct {
	cfg      Config
	logger   *slog.Logger
	recorder Recorder
	now      func() time.Time

	store   *cache.MemoryCache[*entry]
	group   singleflight.Group
	entryID atomic.Uint64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed atomic.Bool
}

// NewClient creates a query client
func NewClient(cfg Config) *Client {
	defaults := DefaultConfig()
	if cfg.StaleTime == 0 {
		cfg.StaleTime = defaults.StaleTime
	}
	if cfg.GCTime <= 0 {
		cfg.GCTime = defaults.GCTime
	}
	if cfg.Retry < 0 {
		cfg.Retry = 0
	}
	if cfg.RetryDelay < 0 {
		cfg.RetryDelay = 0
	}

	c := &Client{
		cfg:      cfg,
		logger:   cfg.Logger,
		recorder: cfg.Recorder,
		now:      cfg.Now,
		store:    cache.NewMemoryCache[*entry](cfg.GCTime, cfg.GCTime/2),
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.recorder == nil {
		c.recorder = nopRecorder{}
	}
	if c.now == nil {
		c.now = time.Now
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	return c
}

// Close cancels in-flight fetches, stops background re-fetching and drops every entry
func (c *Client) Close() {
	if !c.closed.CompareAndSwap(false, true) {
		return
	}
	c.cancel()
	c.wg.Wait()
	c.store.Clear()
}

// Len returns the number of cached entries
func (c *Client) Len() int {
	return c.store.Len()
}

// Invalidate marks an entry stale. Observed entries are re-fetched right away;
// others on their next read.
func (c *Client) Invalidate(key string) {
	e, ok := c.store.Get(key)
	if !ok {
		return
	}

	e.mu.Lock()
	e.stale = true
	observed := len(e.observers) > 0
	e.mu.Unlock()

	if observed {
		c.start(e, startRead)
	}
}

// Refetch forces a new fetch for key even while one is in flight and waits
// for it. The fetch keeps running if ctx ends first.
func (c *Client) Refetch(ctx context.Context, key string) error {
	if c.closed.Load() {
		return ErrClosed
	}

	e, ok := c.store.Get(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	select {
	case res := <-c.start(e, startForced):
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// entryFor returns the entry for spec, creating it on first use
func entryFor[T any](c *Client, spec Spec[T]) *entry {
	e := c.store.GetOrCreate(spec.Key, func() *entry {
		return &entry{
			id:       c.entryID.Add(1),
			key:      spec.Key,
			resource: spec.Resource,
		}
	})

	e.mu.Lock()
	e.fetch = spec.erased()
	e.opts = c.resolve(spec.Options)
	e.mu.Unlock()
	return e
}

func (c *Client) resolve(o Options) Options {
	if o.StaleTime == 0 {
		o.StaleTime = c.cfg.StaleTime
	}
	switch {
	case o.Retry == 0:
		o.Retry = c.cfg.Retry
	case o.Retry < 0:
		o.Retry = 0
	}
	if o.RetryDelay == 0 {
		o.RetryDelay = c.cfg.RetryDelay
	}
	return o
}

// startMode controls how start treats in-flight and fresh data
type startMode int

const (
	startRead     startMode = iota // Join the in-flight fetch; skip if data turned fresh
	startInterval                  // Join the in-flight fetch; always fetch otherwise
	startForced                    // Always begin a new fetch
)

// start begins a fetch for e, or joins the one in flight unless forced
func (c *Client) start(e *entry, mode startMode) <-chan singleflight.Result {
	if c.closed.Load() {
		ch := make(chan singleflight.Result, 1)
		ch <- singleflight.Result{Err: ErrClosed}
		return ch
	}

	flightKey := fmt.Sprintf("%s#%d", e.key, e.id)
	if mode == startForced {
		c.group.Forget(flightKey)
	}

	return c.group.DoChan(flightKey, func() (any, error) {
		return c.run(e, mode)
	})
}

// run executes one fetch with retries and settles the entry
func (c *Client) run(e *entry, mode startMode) (any, error) {
	e.mu.Lock()
	if mode == startRead && e.classify(c.now()) == lookupFresh {
		// Another fetch settled between the read and this one starting
		data := e.data
		e.mu.Unlock()
		return data, nil
	}
	fetch := e.fetch
	opts := e.opts
	e.mu.Unlock()

	seq := e.begin()
	started := c.now()
	c.logger.Debug("query fetch started", "key", e.key, "seq", seq)

	var (
		val any
		err error
	)
	for attempt := 0; attempt <= opts.Retry; attempt++ {
		if attempt > 0 {
			c.logger.Debug("query fetch retrying", "key", e.key, "seq", seq, "error", err)
			if !retrySleep(c.ctx, opts.RetryDelay) {
				break
			}
		}
		val, err = fetch(c.ctx)
		if err == nil || c.ctx.Err() != nil {
			break
		}
	}

	elapsed := c.now().Sub(started)
	applied := e.settle(seq, val, err, c.now())

	switch {
	case !applied:
		c.recorder.FetchCompleted(e.resource, FetchDiscarded, elapsed)
		c.logger.Debug("query fetch superseded", "key", e.key, "seq", seq)
	case err != nil:
		c.recorder.FetchCompleted(e.resource, FetchError, elapsed)
		c.logger.Warn("query fetch failed", "key", e.key, "seq", seq, "error", err)
	default:
		c.recorder.FetchCompleted(e.resource, FetchSuccess, elapsed)
		c.logger.Debug("query fetch completed", "key", e.key, "seq", seq, "duration", elapsed)
	}

	return val, err
}
