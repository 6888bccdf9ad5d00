package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is the name of the project-level config file.
const ConfigFileName = "practice.toml"

// ConfigDirName is the name of the project-level config directory.
const ConfigDirName = ".practice"

// GlobalConfigDir is the name of the global config directory inside user's config.
const GlobalConfigDir = "practice"

// Load loads configuration from all layers in order of precedence:
//  1. Built-in defaults
//  2. Global user config (~/.config/practice/config.toml)
//  3. Project config (.practice/config.toml or practice.toml)
//  4. Environment variables (PRACTICE_*)
//
// CLI flags are applied separately after Load() returns.
func Load() *Config {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return LoadFrom(wd)
}

// LoadFrom loads configuration starting from a specific directory.
func LoadFrom(dir string) *Config {
	cfg := NewConfig()

	if globalCfg := loadGlobalConfig(); globalCfg != nil {
		cfg.Merge(globalCfg)
	}

	if projectCfg := loadProjectConfigFrom(dir); projectCfg != nil {
		cfg.Merge(projectCfg)
	}

	applyEnvironmentVariables(cfg)

	return cfg
}

// loadGlobalConfig loads the global user configuration from ~/.config/practice/config.toml.
func loadGlobalConfig() *Config {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	return loadConfigFile(filepath.Join(configDir, GlobalConfigDir, "config.toml"))
}

// loadProjectConfigFrom looks for project configuration starting from the
// given directory, walking up to the workspace root.
func loadProjectConfigFrom(dir string) *Config {
	current := dir
	for {
		if cfg := loadConfigFile(filepath.Join(current, ConfigDirName, "config.toml")); cfg != nil {
			return cfg
		}
		if cfg := loadConfigFile(filepath.Join(current, ConfigFileName)); cfg != nil {
			return cfg
		}

		if isWorkspaceRoot(current) {
			break
		}

		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}

	return nil
}

// isWorkspaceRoot checks if the directory is a workspace root (has .git or
// a .practice state directory).
func isWorkspaceRoot(dir string) bool {
	for _, marker := range []string{".git", ConfigDirName} {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}

// loadConfigFile loads a configuration from a TOML file.
func loadConfigFile(path string) *Config {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil
	}

	return &cfg
}

// applyEnvironmentVariables applies PRACTICE_* environment variables to the config.
func applyEnvironmentVariables(cfg *Config) {
	if v := os.Getenv("PRACTICE_LOGS_ROOT"); v != "" {
		cfg.Logs.Root = v
	}
	if v := os.Getenv("PRACTICE_LOGS_EXCLUDES"); v != "" {
		cfg.Logs.Excludes = splitAndTrim(v)
	}
	if v := os.Getenv("PRACTICE_LOGS_MONTHS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Logs.Months = n
		}
	}

	if v := os.Getenv("PRACTICE_SUMMARY_OUTPUT"); v != "" {
		cfg.Summary.Output = v
	}
	applyBoolEnv("PRACTICE_SUMMARY_PROMPT", &cfg.Summary.Prompt)
	if v := os.Getenv("PRACTICE_SUMMARY_PROMPT_FILE"); v != "" {
		cfg.Summary.PromptFile = v
	}
	applyBoolEnv("PRACTICE_SUMMARY_FOLLOW_SYMLINKS", &cfg.Summary.FollowSymlinks)

	if v := os.Getenv("PRACTICE_WATCH_DEBOUNCE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Watch.DebounceMS = n
		}
	}

	if v := os.Getenv("PRACTICE_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// applyBoolEnv applies a boolean environment variable to a pointer.
func applyBoolEnv(envVar string, target **bool) {
	if v := os.Getenv(envVar); v != "" {
		switch strings.ToLower(v) {
		case "true", "1", "yes":
			t := true
			*target = &t
		case "false", "0", "no":
			f := false
			*target = &f
		}
	}
}

// GetGlobalConfigPath returns the path to the global config file.
func GetGlobalConfigPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, GlobalConfigDir, "config.toml")
}

// GetProjectConfigPaths returns potential project config paths for a given directory.
func GetProjectConfigPaths(dir string) []string {
	return []string{
		filepath.Join(dir, ConfigDirName, "config.toml"),
		filepath.Join(dir, ConfigFileName),
	}
}
