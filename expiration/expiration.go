// This file defines how cache entries expire over time.

package expiration

import (
	"time"

	"github.com/krisalay/sheets-cache/types"
)

/*
Strategy is the interface that all expiration rules must follow. Instead of hard-coding
expiration logic into the cache, we define a strategy so expiration behavior can be swapped easily.
*/
type Strategy interface {

	// IsExpired checks if the entry is expired at now.
	// A nil entry is always expired.
	IsExpired(*types.CacheEntry, time.Time) bool

	// Remaining returns how long the entry stays fresh, or 0 if it is already expired.
	Remaining(*types.CacheEntry, time.Time) time.Duration
}
