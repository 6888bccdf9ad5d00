package logbook

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEntryPath(t *testing.T) {
	tests := []struct {
		name string
		slug string
		date time.Time
		want string
	}{
		{"basic", "violin", date(2026, time.January, 1), "violin/2026/01/01.json"},
		{"padding", "piano", date(2026, time.March, 7), "piano/2026/03/07.json"},
		{"two digit day", "guitar", date(2025, time.December, 31), "guitar/2025/12/31.json"},
		{"short year", "drums", date(99, time.February, 3), "drums/0099/02/03.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EntryPath(tt.slug, tt.date); got != tt.want {
				t.Errorf("EntryPath(%q, %v) = %q, want %q", tt.slug, tt.date, got, tt.want)
			}
		})
	}
}

func TestParseEntryPath(t *testing.T) {
	slug, d, err := ParseEntryPath("violin/2026/01/01.json")
	if err != nil {
		t.Fatalf("ParseEntryPath() error = %v", err)
	}
	if slug != "violin" {
		t.Errorf("slug = %q, want %q", slug, "violin")
	}
	if !d.Equal(date(2026, time.January, 1)) {
		t.Errorf("date = %v, want 2026-01-01", d)
	}
}

func TestParseEntryPathRejects(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"too shallow", "violin/2026/01.json"},
		{"too deep", "violin/extra/2026/01/01.json"},
		{"not json", "violin/2026/01/01.txt"},
		{"non-numeric year", "violin/year/01/01.json"},
		{"non-numeric day", "violin/2026/01/xx.json"},
		{"impossible date", "violin/2026/02/30.json"},
		{"month out of range", "violin/2026/13/01.json"},
		{"dot slug", ".git/2026/01/01.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := ParseEntryPath(tt.path); err == nil {
				t.Errorf("ParseEntryPath(%q) expected error", tt.path)
			}
		})
	}
}

func TestPathRoundTrip(t *testing.T) {
	want := date(2026, time.March, 7)
	slug, got, err := ParseEntryPath(EntryPath("piano", want))
	if err != nil {
		t.Fatalf("round trip error = %v", err)
	}
	if slug != "piano" || !got.Equal(want) {
		t.Errorf("round trip = (%q, %v), want (piano, %v)", slug, got, want)
	}
}

func TestValidateSlug(t *testing.T) {
	valid := []string{"violin", "music-theory", "piano_2", "日本語"}
	for _, s := range valid {
		if err := ValidateSlug(s); err != nil {
			t.Errorf("ValidateSlug(%q) = %v, want nil", s, err)
		}
	}

	invalid := []string{"", ".", "..", ".hidden", "a/b", `a\b`, "two words"}
	for _, s := range invalid {
		if err := ValidateSlug(s); err == nil {
			t.Errorf("ValidateSlug(%q) expected error", s)
		}
	}
}

func TestMarshalFile(t *testing.T) {
	data, err := MarshalFile(Entry{Minutes: 45})
	if err != nil {
		t.Fatalf("MarshalFile() error = %v", err)
	}
	if got := string(bytes.TrimSpace(data)); got != `[{"minutes":45}]` {
		t.Errorf("MarshalFile() = %q, want %q", got, `[{"minutes":45}]`)
	}
}

func TestMarshalFileNegativeMinutes(t *testing.T) {
	if _, err := MarshalFile(Entry{Minutes: -1}); err == nil {
		t.Error("MarshalFile() expected error for negative minutes")
	}
}

func TestUnmarshalFile(t *testing.T) {
	e, err := UnmarshalFile([]byte(`[{"minutes": 30}]`))
	if err != nil {
		t.Fatalf("UnmarshalFile() error = %v", err)
	}
	if e.Minutes != 30 {
		t.Errorf("Minutes = %d, want 30", e.Minutes)
	}
}

func TestUnmarshalFileRejects(t *testing.T) {
	for _, content := range []string{``, `[]`, `{"minutes": 30`, `"thirty"`} {
		if _, err := UnmarshalFile([]byte(content)); err == nil {
			t.Errorf("UnmarshalFile(%q) expected error", content)
		}
	}
}

func TestBookWriteRead(t *testing.T) {
	book := NewBook(t.TempDir())
	d := date(2026, time.March, 7)

	rel, err := book.Write("piano", d, Entry{Minutes: 45})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if rel != "piano/2026/03/07.json" {
		t.Errorf("Write() path = %q, want piano/2026/03/07.json", rel)
	}

	got, err := book.Read("piano", d)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got.Minutes != 45 {
		t.Errorf("Read() minutes = %d, want 45", got.Minutes)
	}

	if !book.Exists("piano", d) {
		t.Error("Exists() = false after Write")
	}
	if book.Exists("piano", date(2026, time.March, 8)) {
		t.Error("Exists() = true for missing entry")
	}
}

func TestBookWriteIdempotent(t *testing.T) {
	root := t.TempDir()
	book := NewBook(root)
	d := date(2026, time.January, 1)

	if _, err := book.Write("violin", d, Entry{Minutes: 30}); err != nil {
		t.Fatal(err)
	}
	first, err := os.ReadFile(filepath.Join(root, "violin", "2026", "01", "01.json"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := book.Write("violin", d, Entry{Minutes: 30}); err != nil {
		t.Fatal(err)
	}
	second, err := os.ReadFile(filepath.Join(root, "violin", "2026", "01", "01.json"))
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(first, second) {
		t.Errorf("repeated writes differ: %q vs %q", first, second)
	}
}

func TestBookWriteRejectsBadSlug(t *testing.T) {
	book := NewBook(t.TempDir())
	if _, err := book.Write("../escape", time.Now(), Entry{Minutes: 10}); err == nil {
		t.Error("Write() expected error for slug with separator")
	}
}

func TestBookSlugs(t *testing.T) {
	root := t.TempDir()
	book := NewBook(root)

	if _, err := book.Write("violin", date(2026, time.January, 1), Entry{Minutes: 30}); err != nil {
		t.Fatal(err)
	}
	if _, err := book.Write("piano", date(2026, time.February, 2), Entry{Minutes: 15}); err != nil {
		t.Fatal(err)
	}

	// Directories without valid entries are not slugs.
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}

	slugs, err := book.Slugs()
	if err != nil {
		t.Fatalf("Slugs() error = %v", err)
	}
	want := []string{"piano", "violin"}
	if len(slugs) != len(want) {
		t.Fatalf("Slugs() = %v, want %v", slugs, want)
	}
	for i := range want {
		if slugs[i] != want[i] {
			t.Errorf("Slugs()[%d] = %q, want %q", i, slugs[i], want[i])
		}
	}
}

func TestBookSlugsMissingRoot(t *testing.T) {
	book := NewBook(filepath.Join(t.TempDir(), "nope"))
	slugs, err := book.Slugs()
	if err != nil {
		t.Fatalf("Slugs() error = %v", err)
	}
	if len(slugs) != 0 {
		t.Errorf("Slugs() = %v, want empty", slugs)
	}
}

func TestBookWalk(t *testing.T) {
	root := t.TempDir()
	book := NewBook(root, "archive")

	for _, w := range []struct {
		slug    string
		date    time.Time
		minutes int
	}{
		{"violin", date(2026, time.August, 20), 30},
		{"piano", date(2026, time.August, 21), 15},
	} {
		if _, err := book.Write(w.slug, w.date, Entry{Minutes: w.minutes}); err != nil {
			t.Fatal(err)
		}
	}
	// Entries under an excluded directory are invisible.
	if _, err := NewBook(root).Write("archive", date(2026, time.August, 22), Entry{Minutes: 60}); err != nil {
		t.Fatal(err)
	}

	var seen []string
	err := book.Walk(context.Background(), func(slug string, d time.Time, e Entry, rel string) error {
		seen = append(seen, rel)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	want := []string{"piano/2026/08/21.json", "violin/2026/08/20.json"}
	if len(seen) != len(want) {
		t.Fatalf("Walk() visited %v, want %v", seen, want)
	}
	for i, rel := range want {
		if seen[i] != rel {
			t.Errorf("Walk()[%d] = %s, want %s", i, seen[i], rel)
		}
	}
}

func TestBookSlugsHonorsExcludes(t *testing.T) {
	root := t.TempDir()

	if _, err := NewBook(root).Write("violin", date(2026, time.August, 20), Entry{Minutes: 30}); err != nil {
		t.Fatal(err)
	}
	if _, err := NewBook(root).Write("archive", date(2026, time.August, 20), Entry{Minutes: 30}); err != nil {
		t.Fatal(err)
	}

	slugs, err := NewBook(root, "archive").Slugs()
	if err != nil {
		t.Fatalf("Slugs() error = %v", err)
	}
	if len(slugs) != 1 || slugs[0] != "violin" {
		t.Errorf("Slugs() = %v, want [violin]", slugs)
	}
}
