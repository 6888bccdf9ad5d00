// Package logbook implements the practice log file convention: one JSON file
// per slug per day at slug/YYYY/MM/DD.json, containing a single-element array
// [{"minutes": N}].
//
// The layout is the contract consumed by the hosted graphing site and the
// summary tooling, so paths and file contents are byte-stable: writing the
// same entry twice produces identical files.
package logbook

import (
	"encoding/json"
	"fmt"
)

// Entry is one day's practice record for a slug.
type Entry struct {
	Minutes int `json:"minutes"`
}

// MarshalFile serializes an entry as the on-disk single-element array.
func MarshalFile(e Entry) ([]byte, error) {
	if e.Minutes < 0 {
		return nil, fmt.Errorf("minutes must be non-negative, got %d", e.Minutes)
	}
	data, err := json.Marshal([]Entry{e})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entry: %w", err)
	}
	return append(data, '\n'), nil
}

// UnmarshalFile parses on-disk entry content. Reading is permissive: extra
// elements beyond the first are tolerated (the hosted site ignores them too),
// but an empty array is an error.
func UnmarshalFile(data []byte) (Entry, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return Entry{}, fmt.Errorf("failed to parse entry file: %w", err)
	}
	if len(entries) == 0 {
		return Entry{}, fmt.Errorf("entry file contains no records")
	}
	return entries[0], nil
}
