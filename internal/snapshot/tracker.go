package snapshot

import (
	"context"
	"fmt"
	"path/filepath"
)

// Tracker provides high-level change tracking for a log tree.
type Tracker struct {
	store   Store
	scanner *Scanner
	root    string
}

// NewTracker creates a tracker for the given log root.
func NewTracker(root string, excludes []string) *Tracker {
	return &Tracker{
		store:   NewJSONStore(root),
		scanner: NewScanner(root, excludes),
		root:    root,
	}
}

// Status checks for changes without modifying state. It returns a ChangeSet
// describing what changed since the last Refresh. Hashing is lazy: files
// whose mtime and size are unchanged are never re-read.
func (t *Tracker) Status(ctx context.Context) (*ChangeSet, error) {
	oldIdx, err := t.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	fastIdx, err := t.scanner.ScanFast(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan log tree: %w", err)
	}

	return t.diffWithLazyHash(oldIdx, fastIdx), nil
}

// diffWithLazyHash computes changes, hashing only files that might differ.
func (t *Tracker) diffWithLazyHash(oldIdx, fastIdx *Index) *ChangeSet {
	cs := NewChangeSet()

	oldEntries := map[string]*Entry{}
	newEntries := map[string]*Entry{}
	if oldIdx != nil && oldIdx.Entries != nil {
		oldEntries = oldIdx.Entries
	}
	if fastIdx != nil && fastIdx.Entries != nil {
		newEntries = fastIdx.Entries
	}

	for path, newEntry := range newEntries {
		oldEntry, exists := oldEntries[path]
		if !exists {
			cs.Added = append(cs.Added, path)
			continue
		}

		// Fast path: unchanged mtime and size means unchanged content.
		if oldEntry.ModTime == newEntry.ModTime && oldEntry.Size == newEntry.Size {
			continue
		}

		hash, err := HashFile(filepath.Join(t.root, filepath.FromSlash(path)))
		if err != nil {
			// Unreadable now; treat as modified.
			cs.Modified = append(cs.Modified, path)
			continue
		}
		if oldEntry.Hash != hash {
			cs.Modified = append(cs.Modified, path)
		}
	}

	for path := range oldEntries {
		if _, exists := newEntries[path]; !exists {
			cs.Deleted = append(cs.Deleted, path)
		}
	}

	cs.sort()
	return cs
}

// Refresh updates the stored index from the current disk state.
func (t *Tracker) Refresh(ctx context.Context) error {
	idx, err := t.scanner.Scan(ctx)
	if err != nil {
		return fmt.Errorf("failed to scan log tree: %w", err)
	}

	if err := t.store.Save(idx); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}

	return nil
}

// HasState returns true if a previous snapshot exists.
func (t *Tracker) HasState() bool {
	return t.store.Exists()
}

// TrackedFileCount returns the number of files in the stored index, or 0 if
// no state exists.
func (t *Tracker) TrackedFileCount() int {
	idx, err := t.store.Load()
	if err != nil {
		return 0
	}
	return idx.Len()
}
