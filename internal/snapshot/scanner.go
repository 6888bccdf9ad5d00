package snapshot

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/benchantech/practice/internal/logbook"
	"github.com/benchantech/practice/internal/summary"
)

// Scanner builds an Index by walking a log tree. Only files matching the
// slug/YYYY/MM/DD.json layout are tracked; everything else is invisible to
// change detection.
type Scanner struct {
	root     string
	excludes map[string]bool
}

// NewScanner creates a scanner rooted at the given directory.
func NewScanner(root string, excludes []string) *Scanner {
	ex := make(map[string]bool)
	for _, d := range summary.DefaultExcludes {
		ex[d] = true
	}
	for _, d := range excludes {
		ex[d] = true
	}
	return &Scanner{root: root, excludes: ex}
}

// Scan walks the tree and builds a fully hashed index.
func (s *Scanner) Scan(ctx context.Context) (*Index, error) {
	return s.scan(ctx, true)
}

// ScanFast builds an index with mtime and size only, skipping hashing.
// Useful for quickly detecting whether anything might have changed.
func (s *Scanner) ScanFast(ctx context.Context) (*Index, error) {
	return s.scan(ctx, false)
}

func (s *Scanner) scan(ctx context.Context, withHash bool) (*Index, error) {
	idx := NewIndex()

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != s.root && s.excludes[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		rel := filepath.ToSlash(relPath)

		if _, _, err := logbook.ParseEntryPath(rel); err != nil {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		entry := &Entry{
			Path:    rel,
			ModTime: info.ModTime().UnixNano(),
			Size:    info.Size(),
		}
		if withHash {
			hash, err := HashFile(path)
			if err != nil {
				return err
			}
			entry.Hash = hash
		}

		idx.Add(entry)
		return nil
	})

	if err != nil {
		return nil, err
	}

	return idx, nil
}
