package snapshot

import (
	"slices"
	"strings"
)

// ChangeSet describes the differences between two indexes.
type ChangeSet struct {
	Added    []string `json:"added"`
	Modified []string `json:"modified"`
	Deleted  []string `json:"deleted"`
}

// NewChangeSet creates an empty ChangeSet.
func NewChangeSet() *ChangeSet {
	return &ChangeSet{
		Added:    []string{},
		Modified: []string{},
		Deleted:  []string{},
	}
}

// IsEmpty returns true if there are no changes.
func (cs *ChangeSet) IsEmpty() bool {
	if cs == nil {
		return true
	}
	return len(cs.Added) == 0 && len(cs.Modified) == 0 && len(cs.Deleted) == 0
}

// TotalChanges returns the total number of changed files.
func (cs *ChangeSet) TotalChanges() int {
	if cs == nil {
		return 0
	}
	return len(cs.Added) + len(cs.Modified) + len(cs.Deleted)
}

// Slugs returns the sorted unique slugs (top-level path segments) touched by
// the changes.
func (cs *ChangeSet) Slugs() []string {
	if cs == nil {
		return nil
	}

	slugs := make(map[string]struct{})
	for _, paths := range [][]string{cs.Added, cs.Modified, cs.Deleted} {
		for _, p := range paths {
			if slug, _, ok := strings.Cut(p, "/"); ok {
				slugs[slug] = struct{}{}
			}
		}
	}

	result := make([]string, 0, len(slugs))
	for s := range slugs {
		result = append(result, s)
	}
	slices.Sort(result)
	return result
}

// sort sorts all slices for deterministic output.
func (cs *ChangeSet) sort() {
	if cs == nil {
		return
	}
	slices.Sort(cs.Added)
	slices.Sort(cs.Modified)
	slices.Sort(cs.Deleted)
}
