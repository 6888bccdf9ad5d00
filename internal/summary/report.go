package summary

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Item is one parsed log file with its annotations. Entry files are arrays,
// so their records appear under "logs"; the underscore keys carry provenance.
// The key names are part of the report format consumed downstream.
type Item map[string]any

// Annotation keys added to every item.
const (
	KeySourceFile   = "_source_file"
	KeyFileModified = "_file_modified"
	KeyGroup        = "_group"
	KeyLogDate      = "_log_date"
)

// GroupStats counts per-slug outcomes within the window.
type GroupStats struct {
	FoundInWindow int `json:"found_in_window"`
	Parsed        int `json:"parsed"`
	Skipped       int `json:"skipped"`
}

// Metadata describes a summarize run.
type Metadata struct {
	RunID             string                `json:"run_id"`
	AggregatedAt      time.Time             `json:"aggregated_at"`
	SourceDirectory   string                `json:"source_directory"`
	Excludes          []string              `json:"excludes"`
	WindowMonths      int                   `json:"window_months"`
	WindowStart       string                `json:"window_start"`
	WindowEnd         string                `json:"window_end"`
	TotalFilesFound   int                   `json:"total_files_found"`
	TotalParsed       int                   `json:"total_parsed"`
	TotalSkipped      int                   `json:"total_skipped"`
	TotalWithinWindow int                   `json:"total_within_window"`
	Groups            map[string]GroupStats `json:"groups"`
	ParsingErrors     []string              `json:"parsing_errors"`
}

// Report is the aggregated output of a summarize run.
type Report struct {
	Metadata Metadata          `json:"metadata"`
	Groups   map[string][]Item `json:"groups"`
}

// WriteFile writes the report as indented JSON.
func (r *Report) WriteFile(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
