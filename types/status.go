package types

import "time"

// Status is a read-only view of the cache for operators.
type Status struct {
	// HasEntry is false until the first successful refresh.
	HasEntry  bool          `json:"has_entry"`
	Fresh     bool          `json:"fresh"`
	Records   int           `json:"records"`
	FetchedAt time.Time     `json:"fetched_at"`
	ExpiresIn time.Duration `json:"expires_in"`

	LastError   string    `json:"last_error,omitempty"`
	LastErrorAt time.Time `json:"last_error_at,omitempty"`
}
