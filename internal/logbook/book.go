package logbook

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"
)

// DefaultExcludes are directory names never scanned for logs.
var DefaultExcludes = []string{".git", ".hg", ".svn", "node_modules", ".venv", "venv", "__pycache__", ".practice"}

// Book is a practice log tree rooted at a directory.
type Book struct {
	root     string
	excludes map[string]bool
}

// NewBook creates a book rooted at the given directory. The directory does
// not need to exist yet; Write creates it on demand. Any extra excludes are
// skipped by Walk and Slugs in addition to DefaultExcludes, so reads agree
// with what the aggregator reports for the same tree.
func NewBook(root string, excludes ...string) *Book {
	ex := make(map[string]bool)
	for _, d := range DefaultExcludes {
		ex[d] = true
	}
	for _, d := range excludes {
		ex[d] = true
	}
	return &Book{root: root, excludes: ex}
}

// Root returns the book's root directory.
func (b *Book) Root() string {
	return b.root
}

// Excludes returns the sorted directory names the book skips.
func (b *Book) Excludes() []string {
	out := make([]string, 0, len(b.excludes))
	for d := range b.excludes {
		out = append(out, d)
	}
	slices.Sort(out)
	return out
}

// Write records an entry for the slug and date, replacing any existing file.
// The write is atomic (temp file + rename) so a partially written file is
// never observed by the graphing pipeline.
func (b *Book) Write(slug string, date time.Time, e Entry) (string, error) {
	if err := ValidateSlug(slug); err != nil {
		return "", err
	}

	data, err := MarshalFile(e)
	if err != nil {
		return "", err
	}

	rel := EntryPath(slug, date)
	abs := filepath.Join(b.root, filepath.FromSlash(rel))

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}

	tmp := abs + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write temp entry file: %w", err)
	}
	if err := os.Rename(tmp, abs); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to rename entry file: %w", err)
	}

	return rel, nil
}

// Read returns the entry for the slug and date.
func (b *Book) Read(slug string, date time.Time) (Entry, error) {
	if err := ValidateSlug(slug); err != nil {
		return Entry{}, err
	}

	abs := filepath.Join(b.root, filepath.FromSlash(EntryPath(slug, date)))
	data, err := os.ReadFile(abs)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read entry: %w", err)
	}
	return UnmarshalFile(data)
}

// Exists reports whether an entry file exists for the slug and date.
func (b *Book) Exists(slug string, date time.Time) bool {
	abs := filepath.Join(b.root, filepath.FromSlash(EntryPath(slug, date)))
	_, err := os.Stat(abs)
	return err == nil
}

// Slugs returns the sorted top-level directories that contain at least one
// file matching the entry layout. Dot-directories are never slugs.
func (b *Book) Slugs() ([]string, error) {
	dirents, err := os.ReadDir(b.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read log root: %w", err)
	}

	var slugs []string
	for _, d := range dirents {
		if !d.IsDir() {
			continue
		}
		name := d.Name()
		if b.excludes[name] || ValidateSlug(name) != nil {
			continue
		}
		ok, err := hasEntryFile(filepath.Join(b.root, name), name)
		if err != nil {
			return nil, err
		}
		if ok {
			slugs = append(slugs, name)
		}
	}
	return slugs, nil
}

// hasEntryFile reports whether any file under dir matches slug/YYYY/MM/DD.json.
func hasEntryFile(dir, slug string) (bool, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*", "*", "*.json"))
	if err != nil {
		return false, err
	}
	for _, m := range matches {
		rel, err := filepath.Rel(filepath.Dir(dir), m)
		if err != nil {
			continue
		}
		if _, _, err := ParseEntryPath(filepath.ToSlash(rel)); err == nil {
			return true, nil
		}
	}
	return false, nil
}
