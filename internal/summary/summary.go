// Package summary aggregates practice log files into a single report,
// grouped by slug and restricted to a trailing window of calendar months.
package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/benchantech/practice/internal/log"
	"github.com/benchantech/practice/internal/logbook"
)

// DefaultExcludes are directory names never scanned for logs.
var DefaultExcludes = logbook.DefaultExcludes

// Config configures a summarize run.
type Config struct {
	Root           string
	Excludes       []string // in addition to DefaultExcludes
	Months         int      // window size; values < 1 are treated as 1
	FollowSymlinks bool
	Now            time.Time // zero means time.Now()
}

// Summarizer walks a log tree and builds reports.
type Summarizer struct {
	cfg      Config
	excludes map[string]bool
	logger   *slog.Logger
}

// New creates a summarizer for the given config.
func New(cfg Config) *Summarizer {
	if cfg.Months < 1 {
		cfg.Months = 1
	}
	excludes := make(map[string]bool)
	for _, d := range DefaultExcludes {
		excludes[d] = true
	}
	for _, d := range cfg.Excludes {
		excludes[d] = true
	}
	return &Summarizer{
		cfg:      cfg,
		excludes: excludes,
		logger:   log.Component("summary"),
	}
}

// Run walks the tree and aggregates every in-window log file into a report.
// Files that do not match the slug/YYYY/MM/DD.json layout, or that fail to
// parse, are recorded as skips in the report metadata rather than failing
// the run.
func (s *Summarizer) Run(ctx context.Context) (*Report, error) {
	root, err := filepath.Abs(s.cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("log root does not exist or is not a directory: %s", root)
	}

	now := s.cfg.Now
	if now.IsZero() {
		now = time.Now()
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	cutoff := MonthsAgo(today, s.cfg.Months)

	report := &Report{
		Metadata: Metadata{
			RunID:           uuid.New().String(),
			AggregatedAt:    now,
			SourceDirectory: root,
			Excludes:        s.sortedExcludes(),
			WindowMonths:    s.cfg.Months,
			WindowStart:     cutoff.Format(time.DateOnly),
			WindowEnd:       today.Format(time.DateOnly),
			Groups:          make(map[string]GroupStats),
			ParsingErrors:   []string{},
		},
		Groups: make(map[string][]Item),
	}

	walk := func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && s.excludes[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		// Root-level files are not logs; only slug subtrees count.
		if filepath.Dir(path) == root {
			return nil
		}
		if filepath.Ext(path) != ".json" {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		s.collect(report, root, filepath.ToSlash(rel), cutoff, today)
		return nil
	}

	if s.cfg.FollowSymlinks {
		err = walkFollowingSymlinks(root, walk)
	} else {
		err = filepath.WalkDir(root, walk)
	}
	if err != nil {
		return nil, err
	}

	sortReport(report)
	return report, nil
}

// collect processes one candidate file path, updating the report in place.
func (s *Summarizer) collect(report *Report, root, rel string, cutoff, today time.Time) {
	meta := &report.Metadata
	meta.TotalFilesFound++

	slug, logDate, err := logbook.ParseEntryPath(rel)
	if err != nil {
		meta.TotalSkipped++
		meta.ParsingErrors = append(meta.ParsingErrors,
			fmt.Sprintf("%s: path does not match slug/YYYY/MM/DD.json", rel))
		s.logger.Debug("skipping file outside layout", "path", rel)
		return
	}

	// Out-of-window files are excluded silently.
	if logDate.Before(cutoff) || logDate.After(today) {
		return
	}
	meta.TotalWithinWindow++

	stats := meta.Groups[slug]
	stats.FoundInWindow++

	item, err := s.parseFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		meta.TotalSkipped++
		stats.Skipped++
		meta.Groups[slug] = stats
		meta.ParsingErrors = append(meta.ParsingErrors, fmt.Sprintf("%s: %v", rel, err))
		s.logger.Warn("failed to parse log file", "path", rel, "error", err)
		return
	}

	item[KeySourceFile] = rel
	item[KeyGroup] = slug
	item[KeyLogDate] = logDate.Format(time.DateOnly)
	if info, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel))); err == nil {
		item[KeyFileModified] = info.ModTime().Format(time.RFC3339)
	}

	report.Groups[slug] = append(report.Groups[slug], item)
	stats.Parsed++
	meta.Groups[slug] = stats
	meta.TotalParsed++
}

// parseFile reads one JSON file into an Item. Object roots are taken as-is;
// array roots (the entry file format) are wrapped under "logs".
func (s *Summarizer) parseFile(path string) (Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("JSON decode error: %w", err)
	}

	switch v := raw.(type) {
	case map[string]any:
		return Item(v), nil
	case []any:
		return Item{"logs": v}, nil
	default:
		return nil, fmt.Errorf("unsupported JSON root type %T", raw)
	}
}

func (s *Summarizer) sortedExcludes() []string {
	out := make([]string, 0, len(s.excludes))
	for d := range s.excludes {
		out = append(out, d)
	}
	slices.Sort(out)
	return out
}

// sortReport orders each group's items by log date for deterministic output.
func sortReport(r *Report) {
	for _, items := range r.Groups {
		slices.SortFunc(items, func(a, b Item) int {
			da, _ := a[KeyLogDate].(string)
			db, _ := b[KeyLogDate].(string)
			if da != db {
				if da < db {
					return -1
				}
				return 1
			}
			return 0
		})
	}
	slices.Sort(r.Metadata.ParsingErrors)
}

// walkFollowingSymlinks is WalkDir with directory symlinks traversed.
// Each symlink is resolved once and walked at its real location, with paths
// reported under the symlinked location so layout parsing still works.
// Already-visited real directories are skipped, which also breaks cycles.
func walkFollowingSymlinks(root string, fn fs.WalkDirFunc) error {
	return walkResolved(root, fn, make(map[string]bool))
}

func walkResolved(root string, fn fs.WalkDirFunc, visited map[string]bool) error {
	real, err := filepath.EvalSymlinks(root)
	if err != nil {
		return err
	}
	if visited[real] {
		return nil
	}
	visited[real] = true

	return filepath.WalkDir(real, func(path string, d fs.DirEntry, err error) error {
		mapped := root
		if path != real {
			rel, relErr := filepath.Rel(real, path)
			if relErr != nil {
				return relErr
			}
			mapped = filepath.Join(root, rel)
		}

		if err == nil && d.Type()&fs.ModeSymlink != 0 {
			if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
				return walkResolved(mapped, fn, visited)
			}
		}
		return fn(mapped, d, err)
	})
}
