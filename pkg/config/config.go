// Package config provides configuration management for practice.
// It supports multi-layer configuration with precedence:
//  1. Built-in defaults (lowest priority)
//  2. Global user config (~/.config/practice/config.toml)
//  3. Project config (.practice/config.toml or practice.toml)
//  4. Environment variables (PRACTICE_*)
//  5. CLI flags (highest priority)
package config

// Config is the main configuration struct for practice.
type Config struct {
	// Logs configures the log tree and aggregation window.
	Logs LogsConfig `toml:"logs"`

	// Summary configures summarize output.
	Summary SummaryConfig `toml:"summary"`

	// Watch configures the file watcher.
	Watch WatchConfig `toml:"watch"`

	// Server configures the local preview server.
	Server ServerConfig `toml:"server"`
}

// LogsConfig holds log tree settings.
type LogsConfig struct {
	// Root is the log tree root directory.
	Root string `toml:"root"`

	// Excludes are directory names skipped during scans, in addition to the
	// built-in exclusions.
	Excludes []string `toml:"excludes"`

	// Months is the default aggregation window in calendar months.
	Months int `toml:"months"`
}

// SummaryConfig holds summarize output settings.
type SummaryConfig struct {
	// Output is the aggregated report path.
	Output string `toml:"output"`

	// Prompt enables writing the AI analysis prompt file alongside the report.
	Prompt *bool `toml:"prompt"`

	// PromptFile is the prompt file path.
	PromptFile string `toml:"prompt_file"`

	// FollowSymlinks enables following symlinked directories during the scan.
	FollowSymlinks *bool `toml:"follow_symlinks"`
}

// WatchConfig holds file watcher settings.
type WatchConfig struct {
	// DebounceMS is the debounce window in milliseconds.
	DebounceMS int `toml:"debounce_ms"`
}

// ServerConfig holds preview server settings.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `toml:"addr"`
}

// NewConfig creates a new Config with built-in defaults.
func NewConfig() *Config {
	falseVal := false
	return &Config{
		Logs: LogsConfig{
			Root:     ".",
			Excludes: []string{},
			Months:   3,
		},
		Summary: SummaryConfig{
			Output:         "aggregated_logs.json",
			Prompt:         &falseVal,
			PromptFile:     "ai_analysis_prompt.txt",
			FollowSymlinks: &falseVal,
		},
		Watch: WatchConfig{
			DebounceMS: 500,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8642",
		},
	}
}

// Merge merges another config into this one (other takes precedence).
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Logs.Root != "" {
		c.Logs.Root = other.Logs.Root
	}
	if len(other.Logs.Excludes) > 0 {
		c.Logs.Excludes = append(c.Logs.Excludes, other.Logs.Excludes...)
	}
	if other.Logs.Months > 0 {
		c.Logs.Months = other.Logs.Months
	}

	if other.Summary.Output != "" {
		c.Summary.Output = other.Summary.Output
	}
	if other.Summary.Prompt != nil {
		c.Summary.Prompt = other.Summary.Prompt
	}
	if other.Summary.PromptFile != "" {
		c.Summary.PromptFile = other.Summary.PromptFile
	}
	if other.Summary.FollowSymlinks != nil {
		c.Summary.FollowSymlinks = other.Summary.FollowSymlinks
	}

	if other.Watch.DebounceMS > 0 {
		c.Watch.DebounceMS = other.Watch.DebounceMS
	}

	if other.Server.Addr != "" {
		c.Server.Addr = other.Server.Addr
	}
}
