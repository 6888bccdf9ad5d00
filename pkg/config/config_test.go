package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig()

	if cfg.Logs.Root != "." {
		t.Errorf("logs root should be '.', got %q", cfg.Logs.Root)
	}
	if cfg.Logs.Months != 3 {
		t.Errorf("logs months should be 3, got %d", cfg.Logs.Months)
	}
	if cfg.Summary.Output != "aggregated_logs.json" {
		t.Errorf("summary output should be 'aggregated_logs.json', got %q", cfg.Summary.Output)
	}
	if cfg.Summary.Prompt == nil || *cfg.Summary.Prompt {
		t.Error("prompt should be disabled by default")
	}
	if cfg.Watch.DebounceMS != 500 {
		t.Errorf("watch debounce should be 500, got %d", cfg.Watch.DebounceMS)
	}
	if cfg.Server.Addr == "" {
		t.Error("server addr should have a default")
	}
}

func TestMerge(t *testing.T) {
	base := NewConfig()
	trueVal := true
	other := &Config{
		Logs: LogsConfig{
			Root:     "/logs",
			Excludes: []string{"archive"},
			Months:   6,
		},
		Summary: SummaryConfig{
			Prompt: &trueVal,
		},
	}

	base.Merge(other)

	if base.Logs.Root != "/logs" {
		t.Errorf("logs root should be '/logs', got %q", base.Logs.Root)
	}
	if base.Logs.Months != 6 {
		t.Errorf("logs months should be 6, got %d", base.Logs.Months)
	}
	if len(base.Logs.Excludes) != 1 || base.Logs.Excludes[0] != "archive" {
		t.Errorf("excludes should contain archive, got %v", base.Logs.Excludes)
	}
	if base.Summary.Prompt == nil || !*base.Summary.Prompt {
		t.Error("prompt should be enabled after merge")
	}
	// Unset fields keep defaults.
	if base.Summary.Output != "aggregated_logs.json" {
		t.Errorf("summary output should keep default, got %q", base.Summary.Output)
	}
	if base.Watch.DebounceMS != 500 {
		t.Errorf("watch debounce should keep default, got %d", base.Watch.DebounceMS)
	}
}

func TestMergeNil(t *testing.T) {
	base := NewConfig()
	base.Merge(nil)
	if base.Logs.Months != 3 {
		t.Error("merging nil should not change config")
	}
}

func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	configContent := `
[logs]
root = "/home/me/practice-logs"
excludes = ["archive", "drafts"]
months = 6

[summary]
output = "report.json"
prompt = true

[watch]
debounce_ms = 250

[server]
addr = "127.0.0.1:9000"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg := loadConfigFile(configPath)
	if cfg == nil {
		t.Fatal("loadConfigFile returned nil")
	}

	if cfg.Logs.Root != "/home/me/practice-logs" {
		t.Errorf("logs root = %q", cfg.Logs.Root)
	}
	if len(cfg.Logs.Excludes) != 2 {
		t.Errorf("expected 2 excludes, got %d", len(cfg.Logs.Excludes))
	}
	if cfg.Logs.Months != 6 {
		t.Errorf("logs months = %d", cfg.Logs.Months)
	}
	if cfg.Summary.Prompt == nil || !*cfg.Summary.Prompt {
		t.Error("prompt should be enabled")
	}
	if cfg.Watch.DebounceMS != 250 {
		t.Errorf("watch debounce = %d", cfg.Watch.DebounceMS)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("server addr = %q", cfg.Server.Addr)
	}
}

func TestLoadConfigFileMissing(t *testing.T) {
	if cfg := loadConfigFile(filepath.Join(t.TempDir(), "nope.toml")); cfg != nil {
		t.Error("missing file should return nil")
	}
}

func TestApplyEnvironmentVariables(t *testing.T) {
	cfg := NewConfig()

	t.Setenv("PRACTICE_LOGS_ROOT", "/env/logs")
	t.Setenv("PRACTICE_LOGS_EXCLUDES", "archive, drafts")
	t.Setenv("PRACTICE_LOGS_MONTHS", "12")
	t.Setenv("PRACTICE_SUMMARY_PROMPT", "true")
	t.Setenv("PRACTICE_WATCH_DEBOUNCE_MS", "100")
	t.Setenv("PRACTICE_SERVER_ADDR", ":9999")

	applyEnvironmentVariables(cfg)

	if cfg.Logs.Root != "/env/logs" {
		t.Errorf("logs root = %q", cfg.Logs.Root)
	}
	if len(cfg.Logs.Excludes) != 2 {
		t.Errorf("excludes = %v", cfg.Logs.Excludes)
	}
	if cfg.Logs.Months != 12 {
		t.Errorf("months = %d", cfg.Logs.Months)
	}
	if cfg.Summary.Prompt == nil || !*cfg.Summary.Prompt {
		t.Error("prompt should be enabled via env var")
	}
	if cfg.Watch.DebounceMS != 100 {
		t.Errorf("debounce = %d", cfg.Watch.DebounceMS)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("server addr = %q", cfg.Server.Addr)
	}
}

func TestApplyEnvironmentVariablesInvalidNumbers(t *testing.T) {
	cfg := NewConfig()

	t.Setenv("PRACTICE_LOGS_MONTHS", "not-a-number")
	t.Setenv("PRACTICE_WATCH_DEBOUNCE_MS", "-5")

	applyEnvironmentVariables(cfg)

	if cfg.Logs.Months != 3 {
		t.Errorf("invalid months should keep default, got %d", cfg.Logs.Months)
	}
	if cfg.Watch.DebounceMS != 500 {
		t.Errorf("negative debounce should keep default, got %d", cfg.Watch.DebounceMS)
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"archive,drafts", []string{"archive", "drafts"}},
		{" archive , drafts ", []string{"archive", "drafts"}},
		{"archive", []string{"archive"}},
		{"", []string{}},
		{" , , ", []string{}},
	}

	for _, tt := range tests {
		result := splitAndTrim(tt.input)
		if len(result) != len(tt.expected) {
			t.Errorf("splitAndTrim(%q) = %v, want %v", tt.input, result, tt.expected)
			continue
		}
		for i, v := range result {
			if v != tt.expected[i] {
				t.Errorf("splitAndTrim(%q)[%d] = %q, want %q", tt.input, i, v, tt.expected[i])
			}
		}
	}
}

func TestProjectConfigSearch(t *testing.T) {
	tmpDir := t.TempDir()
	projectDir := filepath.Join(tmpDir, "project", "violin", "2026")
	if err := os.MkdirAll(projectDir, 0o755); err != nil {
		t.Fatalf("failed to create project dir: %v", err)
	}

	gitDir := filepath.Join(tmpDir, "project", ".git")
	if err := os.MkdirAll(gitDir, 0o755); err != nil {
		t.Fatalf("failed to create .git dir: %v", err)
	}

	configPath := filepath.Join(tmpDir, "project", "practice.toml")
	configContent := `
[logs]
months = 6
`
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg := loadProjectConfigFrom(projectDir)
	if cfg == nil {
		t.Fatal("loadProjectConfigFrom returned nil")
	}
	if cfg.Logs.Months != 6 {
		t.Errorf("logs months = %d, want 6", cfg.Logs.Months)
	}
}

func TestProjectConfigDirTakesPrecedence(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, ConfigDirName), 0o755); err != nil {
		t.Fatal(err)
	}

	dirConfig := filepath.Join(tmpDir, ConfigDirName, "config.toml")
	if err := os.WriteFile(dirConfig, []byte("[logs]\nmonths = 6\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	rootConfig := filepath.Join(tmpDir, ConfigFileName)
	if err := os.WriteFile(rootConfig, []byte("[logs]\nmonths = 12\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := loadProjectConfigFrom(tmpDir)
	if cfg == nil {
		t.Fatal("loadProjectConfigFrom returned nil")
	}
	if cfg.Logs.Months != 6 {
		t.Errorf(".practice/config.toml should win, got months = %d", cfg.Logs.Months)
	}
}

func TestWorkspaceRootDetection(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, ".git"), 0o755); err != nil {
		t.Fatalf("failed to create .git dir: %v", err)
	}
	if !isWorkspaceRoot(tmpDir) {
		t.Error("directory with .git should be workspace root")
	}

	tmpDir2 := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir2, ConfigDirName), 0o755); err != nil {
		t.Fatal(err)
	}
	if !isWorkspaceRoot(tmpDir2) {
		t.Error("directory with .practice should be workspace root")
	}

	if isWorkspaceRoot(t.TempDir()) {
		t.Error("empty directory should not be workspace root")
	}
}
