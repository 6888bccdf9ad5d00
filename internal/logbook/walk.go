package logbook

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// WalkFunc receives each valid entry found under the book root.
type WalkFunc func(slug string, date time.Time, e Entry, rel string) error

// Walk visits every file matching the entry layout, in lexical order,
// skipping dot-directories. Files inside the layout that fail to parse are
// skipped silently; the summary package is the place for skip accounting.
func (b *Book) Walk(ctx context.Context, fn WalkFunc) error {
	return filepath.WalkDir(b.root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			return err
		}

		if d.IsDir() {
			if path == b.root {
				return nil
			}
			if b.excludes[d.Name()] {
				return filepath.SkipDir
			}
			if ValidateSlug(d.Name()) != nil && filepath.Dir(path) == b.root {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(b.root, path)
		if err != nil {
			return nil
		}
		rel := filepath.ToSlash(relPath)

		slug, date, err := ParseEntryPath(rel)
		if err != nil {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		entry, err := UnmarshalFile(data)
		if err != nil {
			return nil
		}

		return fn(slug, date, entry, rel)
	})
}
