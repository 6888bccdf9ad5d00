package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/benchantech/practice/internal/watch"
)

var watchFlags struct {
	debounce int
	verbose  bool
	json     bool
	noColor  bool
	prompt   bool
}

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Watch the log tree and re-aggregate on changes",
	Long: `Watches the log tree for changes and automatically rebuilds the
aggregated report when log files are added, modified, or deleted.

Example output:

  $ practice watch

  practice: watching 412 log files in /home/me/practice-logs
  practice: ready

  [14:32:15] ~ violin/2026/08/25.json
  [14:32:15] summarizing violin...
  [14:32:16] aggregated_logs.json updated (412 entries)

Press Ctrl+C to stop watching.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&watchFlags.debounce, "debounce", 0,
		"Debounce window in milliseconds (defaults to configured value)")
	watchCmd.Flags().BoolVar(&watchFlags.verbose, "verbose", false,
		"Show file-level changes")
	watchCmd.Flags().BoolVar(&watchFlags.json, "json", false,
		"Stream JSON events (for tooling integration)")
	watchCmd.Flags().BoolVar(&watchFlags.noColor, "no-color", false,
		"Disable colored output")
	watchCmd.Flags().BoolVar(&watchFlags.prompt, "prompt", false,
		"Also rewrite the AI analysis prompt file on each run")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if len(args) > 0 {
		cfg.Logs.Root = args[0]
		info, err := os.Stat(args[0])
		if err != nil {
			return fmt.Errorf("invalid path %s: %w", args[0], err)
		}
		if !info.IsDir() {
			return fmt.Errorf("path must be a directory: %s", args[0])
		}
	}
	root, err := resolveRoot(cfg)
	if err != nil {
		return err
	}

	debounce := cfg.Watch.DebounceMS
	if watchFlags.debounce > 0 {
		debounce = watchFlags.debounce
	}
	promptFile := ""
	if watchFlags.prompt || (cfg.Summary.Prompt != nil && *cfg.Summary.Prompt) {
		promptFile = cfg.Summary.PromptFile
	}

	// Include SIGHUP to handle terminal hangup
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	w, err := watch.New(watch.Config{
		Root:     root,
		Excludes: cfg.Logs.Excludes,
		Months:   cfg.Logs.Months,
		Output:   cfg.Summary.Output,
		Prompt:   promptFile,
		Debounce: debounce,
		Verbose:  watchFlags.verbose,
		NoColor:  watchFlags.noColor,
		JSON:     watchFlags.json,
	})
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	return w.Run(ctx)
}
