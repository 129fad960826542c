package expiration

import (
	"time"

	"github.com/krisalay/sheets-cache/types"
)

// DefaultTTL is how long a fetched sheet is served before the next refresh.
const DefaultTTL = 300 * time.Second

/*
ExpireAfterWrite implements a fixed TTL counted from the moment the entry was fetched.
Reads never extend it: the sheet is re-read at most once per TTL no matter how busy the cache is.
*/
type ExpireAfterWrite struct {

	// TTL (Time-To-Live) defines how long the entry stays valid after it was fetched.
	// A zero TTL falls back to DefaultTTL.
	TTL time.Duration
}

func (e *ExpireAfterWrite) ttl() time.Duration {
	if e.TTL <= 0 {
		return DefaultTTL
	}
	return e.TTL
}

// IsExpired reports whether now - FetchedAt has reached the TTL.
func (e *ExpireAfterWrite) IsExpired(ent *types.CacheEntry, now time.Time) bool {
	if ent == nil {
		return true
	}
	return ent.Age(now) >= e.ttl()
}

// Remaining returns the time left before the entry expires.
func (e *ExpireAfterWrite) Remaining(ent *types.CacheEntry, now time.Time) time.Duration {
	if ent == nil {
		return 0
	}
	d := e.ttl() - ent.Age(now)
	if d < 0 {
		return 0
	}
	return d
}
