package cache

import (
	"context"

	"github.com/krisalay/sheets-cache/types"
)

/*
RecordCache defines the PUBLIC API of the sheet cache.
This is a contract that guarantees certain behaviors, without exposing internals.
Expiry, single-flight, fetching and normalizing are hidden behind this interface.
*/
type RecordCache interface {

	/*
		Records returns the current records of the sheet.

		BEHAVIOR:
		-------------------
		1. If the cached entry exists and is NOT expired:
		   - Return it unchanged, no remote call (cache hit)

		2. If there is no entry or it is expired:
		   - Refresh from the remote sheet
		   - On success replace the entry and return the new records
		   - On failure return an empty slice and keep the old entry

		It never returns an error. A caller that gets an empty slice renders "no records".
	*/
	Records(ctx context.Context) []types.Record

	/*
		Refresh forces a refresh regardless of TTL.

		Same replace-on-success / keep-on-failure rules as Records,
		but the failure is returned to the caller.
	*/
	Refresh(ctx context.Context) ([]types.Record, error)

	// Status describes the cached entry and the last refresh outcome.
	Status() types.Status
}
