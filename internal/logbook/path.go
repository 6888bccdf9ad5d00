package logbook

import (
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"
)

// EntryPath returns the canonical slash-separated location for a slug and
// date: slug/YYYY/MM/DD.json with zero-padded month and day.
func EntryPath(slug string, date time.Time) string {
	return fmt.Sprintf("%s/%04d/%02d/%02d.json", slug, date.Year(), int(date.Month()), date.Day())
}

// ParseEntryPath parses a slash-separated relative path of the form
// slug/YYYY/MM/DD.json. Paths that do not match the convention, or that
// encode an impossible calendar date, return an error.
func ParseEntryPath(rel string) (string, time.Time, error) {
	parts := strings.Split(path.Clean(rel), "/")
	if len(parts) != 4 {
		return "", time.Time{}, fmt.Errorf("path %q does not match slug/YYYY/MM/DD.json", rel)
	}

	slug := parts[0]
	if err := ValidateSlug(slug); err != nil {
		return "", time.Time{}, fmt.Errorf("path %q: %w", rel, err)
	}

	day, ok := strings.CutSuffix(parts[3], ".json")
	if !ok {
		return "", time.Time{}, fmt.Errorf("path %q does not end in .json", rel)
	}

	y, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", time.Time{}, fmt.Errorf("path %q: year is not numeric", rel)
	}
	m, err := strconv.Atoi(parts[2])
	if err != nil {
		return "", time.Time{}, fmt.Errorf("path %q: month is not numeric", rel)
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("path %q: day is not numeric", rel)
	}

	// time.Date normalizes out-of-range components (Feb 30 -> Mar 2), so
	// round-trip the result to reject impossible dates.
	date := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if date.Year() != y || int(date.Month()) != m || date.Day() != d {
		return "", time.Time{}, fmt.Errorf("path %q encodes invalid date %04d-%02d-%02d", rel, y, m, d)
	}

	return slug, date, nil
}

// ValidateSlug checks that a slug is a usable path segment. Slugs are
// user-chosen and intentionally non-identifying; the only mechanical
// requirements are that they name a single directory.
func ValidateSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("slug must not be empty")
	}
	if slug == "." || slug == ".." {
		return fmt.Errorf("slug %q is reserved", slug)
	}
	if strings.HasPrefix(slug, ".") {
		return fmt.Errorf("slug %q must not start with a dot", slug)
	}
	if strings.ContainsAny(slug, "/\\") {
		return fmt.Errorf("slug %q must not contain path separators", slug)
	}
	if strings.ContainsAny(slug, " \t\n") {
		return fmt.Errorf("slug %q must not contain whitespace", slug)
	}
	return nil
}
