// Package cli implements the practice command-line interface.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/benchantech/practice/internal/log"
	"github.com/benchantech/practice/pkg/config"
)

// Version information (set via ldflags)
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// globalFlags holds persistent flags that apply to all commands
var globalFlags struct {
	verbosity int
	logFormat string
	root      string
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "practice",
	Short: "Practice log toolkit",
	Long: `Practice keeps a tree of daily practice logs, one JSON file per day:

  <slug>/YYYY/MM/DD.json

and aggregates them into a single report for analysis. Use 'practice log'
to record a session and 'practice summarize' to rebuild the report.`,
	// Default behavior: show help
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// versionCmd shows version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("practice %s (%s)\n", Version, GitCommit)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	// Global flags (persistent across all commands)
	rootCmd.PersistentFlags().IntVarP(&globalFlags.verbosity, "verbosity", "v", 1,
		"Verbosity level (0=error, 1=warn, 2=info, 3=debug, 4=trace)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.logFormat, "log-format", "text",
		"Log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.root, "root", "",
		"Log tree root (defaults to configured root)")

	// Hook to apply flags before command runs
	cobra.OnInitialize(initLogging)
}

// initLogging applies CLI flags to the logger.
// This runs after flags are parsed but before command execution.
func initLogging() {
	log.SetVerbosity(globalFlags.verbosity)
	if globalFlags.logFormat != "" {
		log.Init(globalFlags.verbosity, globalFlags.logFormat)
	}
}

// loadConfig loads the layered configuration. The --root flag, when set,
// overrides the configured log root.
func loadConfig() *config.Config {
	cfg := config.Load()
	if globalFlags.root != "" {
		cfg.Logs.Root = globalFlags.root
	}
	return cfg
}

// resolveRoot returns the absolute log tree root for a command run.
func resolveRoot(cfg *config.Config) (string, error) {
	root, err := filepath.Abs(cfg.Logs.Root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve log root: %w", err)
	}
	return root, nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// RootCmd returns the root command for testing.
func RootCmd() *cobra.Command {
	return rootCmd
}

func outputJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
