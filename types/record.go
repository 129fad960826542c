package types

import "strings"

// Record is one normalized spreadsheet row: column header → cell value.
type Record map[string]string

// IsBlank reports whether every value of the record is empty or whitespace.
func (r Record) IsBlank() bool {
	for _, v := range r {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Contains reports whether any value contains needle, ignoring case.
// An empty needle matches every record.
func (r Record) Contains(needle string) bool {
	if needle == "" {
		return true
	}
	needle = strings.ToLower(needle)
	for _, v := range r {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}
