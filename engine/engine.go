package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/krisalay/sheets-cache/expiration"
	"github.com/krisalay/sheets-cache/grid"
	"github.com/krisalay/sheets-cache/refresh"
	"github.com/krisalay/sheets-cache/types"
)

/*
CacheEngine is the "brain" of the cache system.
It is responsible for the "behavior" of the cache, NOT storage.
This acts as the policy layer.

It decides:
- When the entry is expired
- How the remote sheet is turned into records
- Who hears about refresh outcomes
- How metrics are recorded

It does NOT:
- Hold the entry
- Handle locking or single-flight
*/
type CacheEngine struct {

	// Expiration controls when the cached sheet should be considered "too old".
	Expiration expiration.Strategy

	// Refresh is an optional hook that runs after every refresh attempt.
	// If nil, outcomes are not reported anywhere.
	Refresh refresh.Hook

	// Fetcher is how the cache talks to the remote spreadsheet.
	Fetcher types.Fetcher

	// Metrics is how we keep track of what the cache is doing.
	Metrics types.Metrics

	// Clock is the time source. Tests swap in a fake one.
	Clock Clock
}

/*
NewCacheEngine creates a CacheEngine.
*/
func NewCacheEngine(
	exp expiration.Strategy,
	hook refresh.Hook,
	fetcher types.Fetcher,
	metrics types.Metrics,
) *CacheEngine {

	if exp == nil {
		exp = &expiration.ExpireAfterWrite{}
	}

	// Ensure metrics is always non-nil
	if metrics == nil {
		metrics = types.NoopMetrics{}
	}

	return &CacheEngine{
		Expiration: exp,
		Refresh:    hook,
		Fetcher:    fetcher,
		Metrics:    metrics,
		Clock:      SystemClock{},
	}
}

// Now returns the current time from the configured clock.
func (e *CacheEngine) Now() time.Time {
	return e.Clock.Now()
}

/*
IsExpired checks whether the entry is expired right now.
A nil entry (nothing fetched yet) is always expired.
*/
func (e *CacheEngine) IsExpired(ent *types.CacheEntry) bool {
	return e.Expiration.IsExpired(ent, e.Now())
}

/*
Load performs one refresh attempt against the remote sheet.

FLOW:
-----
1. Ask the Fetcher for the raw grid
2. Normalize the grid into records
3. Stamp a new entry with the time the attempt started
4. Report the outcome to the refresh hook and metrics

It never touches the currently cached entry. The caller decides what to do with the result.
*/
func (e *CacheEngine) Load(ctx context.Context) (*types.CacheEntry, error) {
	start := e.Now()

	records, err := e.fetch(ctx)

	var ent *types.CacheEntry
	if err == nil {
		ent = types.NewCacheEntry(records, start)
		e.Metrics.Refresh()
	} else {
		e.Metrics.RefreshError(types.ErrorKind(err))
	}

	if e.Refresh != nil {
		e.Refresh.OnRefresh(ent, err, e.Now().Sub(start))
	}

	return ent, err
}

// fetch reads and normalizes the grid. A panicking fetcher is turned into a
// transient failure so it cannot take the serving process down.
func (e *CacheEngine) fetch(ctx context.Context) (records []types.Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			records = nil
			err = types.NewRefreshError("fetch", types.ErrTransientRemote, fmt.Errorf("panic: %v", r))
		}
	}()

	rows, err := e.Fetcher.Fetch(ctx)
	if err != nil {
		var rerr *types.RefreshError
		if !errors.As(err, &rerr) {
			err = types.NewRefreshError("fetch", nil, err)
		}
		return nil, err
	}
	return grid.Normalize(rows), nil
}
