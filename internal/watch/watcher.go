package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/benchantech/practice/internal/logbook"
	"github.com/benchantech/practice/internal/snapshot"
	"github.com/benchantech/practice/internal/summary"
)

// Config configures the watcher.
type Config struct {
	Root     string
	Excludes []string // in addition to summary.DefaultExcludes
	Months   int      // aggregation window in months
	Output   string   // report path
	Prompt   string   // prompt file path; empty disables
	Debounce int      // debounce window in milliseconds
	Verbose  bool
	NoColor  bool
	JSON     bool
}

// Watcher watches a log tree and re-aggregates on changes.
type Watcher struct {
	config     Config
	fsWatcher  *fsnotify.Watcher
	tracker    *snapshot.Tracker
	debouncer  *Debouncer
	logger     *Logger
	ignoreDirs map[string]bool

	// summarizeMu prevents concurrent aggregation runs
	summarizeMu sync.Mutex
}

// New creates a watcher with the given configuration.
func New(cfg Config) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	ignoreDirs := make(map[string]bool)
	for _, d := range summary.DefaultExcludes {
		ignoreDirs[d] = true
	}
	for _, d := range cfg.Excludes {
		ignoreDirs[d] = true
	}

	return &Watcher{
		config:    cfg,
		fsWatcher: fsWatcher,
		tracker:   snapshot.NewTracker(cfg.Root, cfg.Excludes),
		logger: NewLogger(LoggerConfig{
			Verbose: cfg.Verbose,
			NoColor: cfg.NoColor,
			JSON:    cfg.JSON,
		}),
		ignoreDirs: ignoreDirs,
	}, nil
}

// Run starts the watch loop. It blocks until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	debounceWindow := time.Duration(w.config.Debounce) * time.Millisecond
	if debounceWindow <= 0 {
		debounceWindow = 500 * time.Millisecond
	}
	w.debouncer = NewDebouncer(debounceWindow, w.handleChangedSlugs)
	defer w.debouncer.Stop()

	if err := w.addRecursive(w.config.Root); err != nil {
		return fmt.Errorf("failed to watch log tree: %w", err)
	}

	// TrackedFileCount may be 0 on first run before any state exists.
	w.logger.Ready(w.tracker.TrackedFileCount(), w.config.Root)

	for {
		select {
		case <-ctx.Done():
			w.logger.Shutdown()
			return nil

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error(err)
		}
	}
}

// addRecursive adds a directory and all subdirectories to the watcher.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsPermission(err) {
				if w.config.Verbose {
					w.logger.Error(fmt.Errorf("permission denied: %s", path))
				}
				return nil
			}
			w.logger.Error(fmt.Errorf("walk error at %s: %w", path, err))
			return nil
		}

		if !d.IsDir() {
			return nil
		}

		if path != root && w.ignoreDirs[d.Name()] {
			return filepath.SkipDir
		}

		if err := w.fsWatcher.Add(path); err != nil {
			if isWatchLimitError(err) {
				return fmt.Errorf("inotify watch limit reached for %s: %w\n"+
					"Increase limit with: sudo sysctl fs.inotify.max_user_watches=524288", path, err)
			}
			if w.config.Verbose {
				w.logger.Error(fmt.Errorf("failed to watch %s: %w", path, err))
			}
			return nil
		}

		return nil
	})
}

// isWatchLimitError checks if an error is due to inotify watch limits.
func isWatchLimitError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "no space left on device") ||
		strings.Contains(errStr, "too many open files")
}

// handleEvent processes a single filesystem event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	// New directories (a fresh slug, year, or month) need watches added.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if w.ignoreDirs[filepath.Base(path)] {
				return
			}
			if err := w.addRecursive(path); err != nil {
				w.logger.Error(fmt.Errorf("failed to watch new directory %s: %w", path, err))
			}
			return
		}
	}

	rel, err := filepath.Rel(w.config.Root, path)
	if err != nil {
		return
	}
	relSlash := filepath.ToSlash(rel)

	// Only files in the log layout matter; editor temp files, the state
	// dir and the report itself are ignored.
	slug, _, err := logbook.ParseEntryPath(relSlash)
	if err != nil {
		return
	}

	var changeType ChangeType
	switch {
	case event.Has(fsnotify.Create):
		changeType = ChangeAdded
	case event.Has(fsnotify.Write):
		changeType = ChangeModified
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		changeType = ChangeDeleted
	default:
		return // ignore chmod events
	}

	w.logger.FileChanged(relSlash, changeType)
	w.debouncer.Add(slug)
}

// handleChangedSlugs is called when the debouncer flushes. It re-runs the
// aggregation and refreshes the snapshot state.
func (w *Watcher) handleChangedSlugs(slugs []string) {
	if len(slugs) == 0 {
		return
	}

	w.summarizeMu.Lock()
	defer w.summarizeMu.Unlock()

	slices.Sort(slugs)
	w.logger.Summarizing(slugs)

	report, err := summary.New(summary.Config{
		Root:     w.config.Root,
		Excludes: w.config.Excludes,
		Months:   w.config.Months,
	}).Run(context.Background())
	if err != nil {
		w.logger.Error(fmt.Errorf("summarize failed: %w", err))
		return
	}

	if err := report.WriteFile(w.config.Output); err != nil {
		w.logger.Error(err)
		return
	}
	if w.config.Prompt != "" {
		if err := summary.WritePromptFile(w.config.Output, w.config.Prompt); err != nil {
			w.logger.Error(err)
			return
		}
	}

	if err := w.tracker.Refresh(context.Background()); err != nil {
		w.logger.Error(fmt.Errorf("failed to update state: %w", err))
		return
	}

	w.logger.Summarized(w.config.Output, report.Metadata.TotalParsed)
}

// Close closes the watcher and releases resources.
func (w *Watcher) Close() error {
	if w.fsWatcher != nil {
		return w.fsWatcher.Close()
	}
	return nil
}
