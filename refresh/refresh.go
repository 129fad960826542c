// This file defines the idea of a "refresh hook".
// The hook lets the cache report the outcome of every refresh attempt without
// knowing who is listening: logs, status pages, alerting.

package refresh

import (
	"time"

	"github.com/krisalay/sheets-cache/types"
)

/*
Hook is the interface for refresh observers.
If a refresh hook is configured, it is called once per refresh attempt, after the
attempt has finished and before the caller gets its answer.

On success ent is the new entry and err is nil.
On failure ent is nil and err is a *types.RefreshError.
*/
type Hook interface {

	/*
		OnRefresh runs on the request path of whichever caller triggered the refresh.
		It MUST be fast and must not block.
	*/
	OnRefresh(ent *types.CacheEntry, err error, took time.Duration)
}

// Hooks fans one refresh outcome out to several hooks in order.
type Hooks []Hook

func (hs Hooks) OnRefresh(ent *types.CacheEntry, err error, took time.Duration) {
	for _, h := range hs {
		h.OnRefresh(ent, err, took)
	}
}
