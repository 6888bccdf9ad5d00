package summary

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestMonthsAgo(t *testing.T) {
	tests := []struct {
		name   string
		date   string
		months int
		want   string
	}{
		{"same year", "2026-08-25", 3, "2026-05-25"},
		{"across year boundary", "2026-02-10", 3, "2025-11-10"},
		{"clamp to short month", "2026-03-31", 1, "2026-02-28"},
		{"clamp leap year", "2024-03-31", 1, "2024-02-29"},
		{"twelve months", "2026-06-15", 12, "2025-06-15"},
		{"many months", "2026-01-31", 14, "2024-11-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := time.Parse(time.DateOnly, tt.date)
			if err != nil {
				t.Fatal(err)
			}
			got := MonthsAgo(d, tt.months).Format(time.DateOnly)
			if got != tt.want {
				t.Errorf("MonthsAgo(%s, %d) = %s, want %s", tt.date, tt.months, got, tt.want)
			}
		})
	}
}

// writeFile writes content at a relative path under root, creating parents.
func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestSummarizerRun(t *testing.T) {
	root := t.TempDir()
	now := time.Date(2026, time.August, 25, 12, 0, 0, 0, time.UTC)

	// In-window entries.
	writeFile(t, root, "violin/2026/08/01.json", `[{"minutes": 30}]`)
	writeFile(t, root, "violin/2026/07/15.json", `[{"minutes": 45}]`)
	writeFile(t, root, "piano/2026/06/10.json", `[{"minutes": 20}]`)
	// Out of window (months=3 means cutoff 2026-05-25).
	writeFile(t, root, "violin/2026/01/01.json", `[{"minutes": 60}]`)
	// Malformed JSON, in window.
	writeFile(t, root, "piano/2026/08/02.json", `[{"minutes": `)
	// Wrong layout.
	writeFile(t, root, "violin/notes.json", `{"a": 1}`)
	// Root-level file, ignored entirely.
	writeFile(t, root, "settings.json", `{}`)
	// Excluded directory.
	writeFile(t, root, "node_modules/x/2026/08/01.json", `[{"minutes": 5}]`)
	// Non-JSON file, ignored.
	writeFile(t, root, "violin/2026/08/README.md", `hi`)

	report, err := New(Config{Root: root, Months: 3, Now: now}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	meta := report.Metadata
	if meta.WindowStart != "2026-05-25" || meta.WindowEnd != "2026-08-25" {
		t.Errorf("window = %s..%s, want 2026-05-25..2026-08-25", meta.WindowStart, meta.WindowEnd)
	}
	if meta.TotalParsed != 3 {
		t.Errorf("TotalParsed = %d, want 3", meta.TotalParsed)
	}
	if meta.TotalWithinWindow != 4 {
		t.Errorf("TotalWithinWindow = %d, want 4", meta.TotalWithinWindow)
	}
	// Skips: malformed file + layout mismatch.
	if meta.TotalSkipped != 2 {
		t.Errorf("TotalSkipped = %d, want 2: %v", meta.TotalSkipped, meta.ParsingErrors)
	}
	if meta.RunID == "" {
		t.Error("RunID should not be empty")
	}

	if got := len(report.Groups["violin"]); got != 2 {
		t.Errorf("violin items = %d, want 2", got)
	}
	if got := len(report.Groups["piano"]); got != 1 {
		t.Errorf("piano items = %d, want 1", got)
	}

	violin := meta.Groups["violin"]
	if violin.FoundInWindow != 2 || violin.Parsed != 2 || violin.Skipped != 0 {
		t.Errorf("violin stats = %+v", violin)
	}
	piano := meta.Groups["piano"]
	if piano.FoundInWindow != 2 || piano.Parsed != 1 || piano.Skipped != 1 {
		t.Errorf("piano stats = %+v", piano)
	}
}

func TestSummarizerItemAnnotations(t *testing.T) {
	root := t.TempDir()
	now := time.Date(2026, time.August, 25, 0, 0, 0, 0, time.UTC)
	writeFile(t, root, "violin/2026/08/01.json", `[{"minutes": 30}]`)

	report, err := New(Config{Root: root, Months: 1, Now: now}).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	items := report.Groups["violin"]
	if len(items) != 1 {
		t.Fatalf("violin items = %d, want 1", len(items))
	}
	item := items[0]

	if item[KeySourceFile] != "violin/2026/08/01.json" {
		t.Errorf("%s = %v", KeySourceFile, item[KeySourceFile])
	}
	if item[KeyGroup] != "violin" {
		t.Errorf("%s = %v", KeyGroup, item[KeyGroup])
	}
	if item[KeyLogDate] != "2026-08-01" {
		t.Errorf("%s = %v", KeyLogDate, item[KeyLogDate])
	}
	if _, ok := item[KeyFileModified].(string); !ok {
		t.Errorf("%s missing", KeyFileModified)
	}

	// Array roots are wrapped under "logs".
	logs, ok := item["logs"].([]any)
	if !ok || len(logs) != 1 {
		t.Fatalf("logs = %v", item["logs"])
	}
	rec, ok := logs[0].(map[string]any)
	if !ok || rec["minutes"] != float64(30) {
		t.Errorf("logs[0] = %v", logs[0])
	}
}

func TestSummarizerObjectRoot(t *testing.T) {
	root := t.TempDir()
	now := time.Date(2026, time.August, 25, 0, 0, 0, 0, time.UTC)
	writeFile(t, root, "violin/2026/08/01.json", `{"minutes": 30, "note": "scales"}`)

	report, err := New(Config{Root: root, Months: 1, Now: now}).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	item := report.Groups["violin"][0]
	if item["note"] != "scales" {
		t.Errorf("object root should be taken as-is, got %v", item)
	}
}

func TestSummarizerUnsupportedRoot(t *testing.T) {
	root := t.TempDir()
	now := time.Date(2026, time.August, 25, 0, 0, 0, 0, time.UTC)
	writeFile(t, root, "violin/2026/08/01.json", `"just a string"`)

	report, err := New(Config{Root: root, Months: 1, Now: now}).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.Metadata.TotalSkipped != 1 {
		t.Errorf("TotalSkipped = %d, want 1", report.Metadata.TotalSkipped)
	}
	if len(report.Metadata.ParsingErrors) != 1 {
		t.Errorf("ParsingErrors = %v", report.Metadata.ParsingErrors)
	}
}

func TestSummarizerCustomExcludes(t *testing.T) {
	root := t.TempDir()
	now := time.Date(2026, time.August, 25, 0, 0, 0, 0, time.UTC)
	writeFile(t, root, "archive/2026/08/01.json", `[{"minutes": 30}]`)

	report, err := New(Config{Root: root, Months: 1, Now: now, Excludes: []string{"archive"}}).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.Metadata.TotalFilesFound != 0 {
		t.Errorf("TotalFilesFound = %d, want 0", report.Metadata.TotalFilesFound)
	}
}

func TestSummarizerFollowSymlinks(t *testing.T) {
	root := t.TempDir()
	ext := t.TempDir()
	now := time.Date(2026, time.August, 25, 0, 0, 0, 0, time.UTC)

	writeFile(t, ext, "2026/08/01.json", `[{"minutes": 30}]`)
	if err := os.Symlink(ext, filepath.Join(root, "violin")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	// Symlinked slug directories are invisible by default.
	report, err := New(Config{Root: root, Months: 1, Now: now}).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.Metadata.TotalFilesFound != 0 {
		t.Errorf("TotalFilesFound = %d, want 0 without follow", report.Metadata.TotalFilesFound)
	}

	report, err = New(Config{Root: root, Months: 1, Now: now, FollowSymlinks: true}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Metadata.TotalParsed != 1 {
		t.Fatalf("TotalParsed = %d, want 1: %v", report.Metadata.TotalParsed, report.Metadata.ParsingErrors)
	}
	items := report.Groups["violin"]
	if len(items) != 1 {
		t.Fatalf("violin items = %d, want 1", len(items))
	}
	// Paths are reported under the symlinked location, not the target.
	if items[0][KeySourceFile] != "violin/2026/08/01.json" {
		t.Errorf("%s = %v", KeySourceFile, items[0][KeySourceFile])
	}
}

func TestSummarizerFollowSymlinksCycle(t *testing.T) {
	root := t.TempDir()
	now := time.Date(2026, time.August, 25, 0, 0, 0, 0, time.UTC)
	writeFile(t, root, "violin/2026/08/01.json", `[{"minutes": 30}]`)

	// Symlink back to the root from inside a slug tree.
	if err := os.Symlink(root, filepath.Join(root, "violin", "loop")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	report, err := New(Config{Root: root, Months: 1, Now: now, FollowSymlinks: true}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Metadata.TotalParsed != 1 {
		t.Errorf("TotalParsed = %d, want 1", report.Metadata.TotalParsed)
	}
}

func TestSummarizerMissingRoot(t *testing.T) {
	if _, err := New(Config{Root: filepath.Join(t.TempDir(), "nope"), Months: 1}).Run(context.Background()); err == nil {
		t.Error("Run() expected error for missing root")
	}
}

func TestSummarizerCancellation(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "violin/2026/08/01.json", `[{"minutes": 30}]`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(Config{Root: root, Months: 1}).Run(ctx); err == nil {
		t.Error("Run() expected error for cancelled context")
	}
}

func TestWriteReportAndPromptFile(t *testing.T) {
	root := t.TempDir()
	now := time.Date(2026, time.August, 25, 0, 0, 0, 0, time.UTC)
	writeFile(t, root, "violin/2026/08/01.json", `[{"minutes": 30}]`)

	report, err := New(Config{Root: root, Months: 1, Now: now}).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "aggregated_logs.json")
	if err := report.WriteFile(out); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	prompt := filepath.Join(filepath.Dir(out), "ai_analysis_prompt.txt")
	if err := WritePromptFile(out, prompt); err != nil {
		t.Fatalf("WritePromptFile() error = %v", err)
	}

	data, err := os.ReadFile(prompt)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "Please analyze these practice logs") {
		t.Error("prompt file missing instruction header")
	}
	if !strings.Contains(content, `"violin"`) {
		t.Error("prompt file missing report data")
	}
}
