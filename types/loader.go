package types

import "context"

// Fetcher is the contract between the cache and the remote spreadsheet.
type Fetcher interface {

	/*
		Fetch is called when the cache has no fresh entry.

		1. Cache checks its entry → missing or expired
		2. Cache calls Fetch
		3. Fetcher opens the spreadsheet, selects the worksheet and reads every cell
		4. Cache normalizes the grid into records and stores them
		5. Cache returns the records

		The grid is returned as-is: row 0 holds the headers, rows may be ragged,
		and no cell is type-coerced. An empty grid is a valid answer, not an error.
	*/
	Fetch(ctx context.Context) ([][]string, error)
}
