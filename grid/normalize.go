// Package grid turns the raw cell grid of a worksheet into records.
package grid

import (
	"strings"

	"github.com/krisalay/sheets-cache/types"
)

// Normalize treats row 0 as the header row and zips every later row against it.
//
// Columns with an empty or whitespace header are dropped. Rows shorter than
// the header row are padded with "". Records whose values are all blank are
// left out. Record order follows row order.
func Normalize(rows [][]string) []types.Record {
	if len(rows) == 0 {
		return []types.Record{}
	}

	headers := rows[0]
	records := make([]types.Record, 0, len(rows)-1)

	for _, row := range rows[1:] {
		rec := make(types.Record, len(headers))
		for i, h := range headers {
			if strings.TrimSpace(h) == "" {
				continue
			}
			if i < len(row) {
				rec[h] = row[i]
			} else {
				rec[h] = ""
			}
		}

		if rec.IsBlank() {
			continue
		}
		records = append(records, rec)
	}

	return records
}
