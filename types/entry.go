package types

import "time"

/*
CacheEntry is one complete snapshot of the remote sheet.

An entry is immutable once built. A refresh never edits the current entry,
it builds a new one and swaps the pointer, so a reader always sees either the
whole previous fetch or the whole new one.
*/
type CacheEntry struct {
	Records   []Record
	FetchedAt time.Time
}

// NewCacheEntry stamps records with the time they were fetched.
func NewCacheEntry(records []Record, fetchedAt time.Time) *CacheEntry {
	if records == nil {
		records = []Record{}
	}
	return &CacheEntry{Records: records, FetchedAt: fetchedAt}
}

// Age returns how long ago the entry was fetched.
func (e *CacheEntry) Age(now time.Time) time.Duration {
	return now.Sub(e.FetchedAt)
}
