package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/krisalay/sheets-cache/engine"
	"github.com/krisalay/sheets-cache/types"
	"golang.org/x/sync/singleflight"
)

// refreshKey is the only singleflight key: the cache holds one sheet.
const refreshKey = "sheet"

/*
SheetCache is the main cache implementation.
It holds one entry (the last successful fetch of the sheet) and connects:
- expiration
- fetching
- refresh hooks
- metrics
*/
type SheetCache struct {
	// engine contains the "rules" of the cache: TTL, fetcher, refresh hook, metrics, clock.
	engine *engine.CacheEngine

	// entry is the current snapshot. nil until the first successful refresh.
	// It is swapped whole, never edited.
	entry atomic.Pointer[types.CacheEntry]

	// lastErr is the most recent refresh failure, cleared by the next success.
	lastErr atomic.Pointer[failure]

	// sf makes sure at most one refresh talks to the remote sheet at a time.
	sf singleflight.Group

	// fetchTimeout bounds one refresh attempt. Zero means no bound beyond the fetcher's own.
	fetchTimeout time.Duration
}

type failure struct {
	err error
	at  time.Time
}

// Option configures a SheetCache.
type Option func(*SheetCache)

// WithFetchTimeout bounds how long a single refresh may take.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *SheetCache) { c.fetchTimeout = d }
}

func NewSheetCache(engine *engine.CacheEngine, opts ...Option) *SheetCache {
	c := &SheetCache{engine: engine}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

/*
Records returns the current records of the sheet.
The returned slice is shared with the cache and must not be modified.
*/
func (c *SheetCache) Records(ctx context.Context) []types.Record {
	ent := c.entry.Load()

	if !c.engine.IsExpired(ent) {
		// Cache hit
		c.engine.Metrics.Hit()
		return ent.Records
	}

	if ent == nil {
		c.engine.Metrics.Miss()
	} else {
		c.engine.Metrics.Expire()
	}

	ent, err := c.refresh(ctx, false)
	if err != nil {
		return []types.Record{}
	}
	return ent.Records
}

/*
Refresh forces a refresh regardless of TTL.
On failure the current entry is kept and the error is returned.
*/
func (c *SheetCache) Refresh(ctx context.Context) ([]types.Record, error) {
	ent, err := c.refresh(ctx, true)
	if err != nil {
		return []types.Record{}, err
	}
	return ent.Records, nil
}

// Status describes the cached entry and the last refresh outcome.
func (c *SheetCache) Status() types.Status {
	var st types.Status

	if ent := c.entry.Load(); ent != nil {
		now := c.engine.Now()
		st.HasEntry = true
		st.Fresh = !c.engine.Expiration.IsExpired(ent, now)
		st.Records = len(ent.Records)
		st.FetchedAt = ent.FetchedAt
		st.ExpiresIn = c.engine.Expiration.Remaining(ent, now)
	}

	if f := c.lastErr.Load(); f != nil {
		st.LastError = f.err.Error()
		st.LastErrorAt = f.at
	}

	return st
}

/*
refresh runs one refresh attempt through singleflight.

  - If 100 goroutines find the entry expired at once,
    only ONE of them calls the remote sheet.
  - Others wait for the result and share it.

A caller that arrives after another flight already replaced the entry would
otherwise fetch again, so a non-forced flight re-checks the entry first.

The fetch itself is detached from the caller's cancellation: one impatient
caller must not fail the refresh for everyone waiting on it. Each caller
still stops waiting when its own ctx is done.
*/
func (c *SheetCache) refresh(ctx context.Context, force bool) (*types.CacheEntry, error) {
	ch := c.sf.DoChan(refreshKey, func() (any, error) {
		if !force {
			if ent := c.entry.Load(); !c.engine.IsExpired(ent) {
				return ent, nil
			}
		}

		fctx := context.WithoutCancel(ctx)
		if c.fetchTimeout > 0 {
			var cancel context.CancelFunc
			fctx, cancel = context.WithTimeout(fctx, c.fetchTimeout)
			defer cancel()
		}

		ent, err := c.engine.Load(fctx)
		if err != nil {
			c.lastErr.Store(&failure{err: err, at: c.engine.Now()})
			return nil, err
		}

		c.entry.Store(ent)
		c.lastErr.Store(nil)
		return ent, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*types.CacheEntry), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
