package types

// This file defines how the cache reports what it is doing.

/*
Metrics is an interface that defines what the cache wants to measure.
Each method represents an event in the cache lifecycle. The cache will call these methods whenever something happens.
*/
type Metrics interface {

	// Hit is called when a fresh entry is served without a remote call.
	Hit()

	// Miss is called when there is no entry at all yet and the cache has to fetch.
	Miss()

	// Expire is called when the entry exists but has passed its TTL.
	Expire()

	// Refresh is called when a refresh succeeds and the entry is replaced.
	Refresh()

	// RefreshError is called when a refresh fails. kind is one of the ErrorKind values.
	RefreshError(kind string)
}

/*
NoopMetrics is a "do nothing" implementation of Metrics.

If someone does not care about metrics, we still want the cache to work without
nil checks around every call.
*/
type NoopMetrics struct{}

func (NoopMetrics) Hit()                {}
func (NoopMetrics) Miss()               {}
func (NoopMetrics) Expire()             {}
func (NoopMetrics) Refresh()            {}
func (NoopMetrics) RefreshError(string) {}
