package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/benchantech/practice/internal/snapshot"
	"github.com/benchantech/practice/internal/summary"
)

var summarizeFlags struct {
	output         string
	months         int
	exclude        []string
	followSymlinks bool
	prompt         bool
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize [path]",
	Short: "Aggregate practice logs into a single report",
	Long: `Walks the log tree and aggregates every log file within the trailing
window of calendar months into one JSON report, grouped by slug.

Files that do not match the slug/YYYY/MM/DD.json layout, or that fail to
parse, are recorded as skips in the report metadata rather than failing
the run. Use --prompt to also write an AI analysis prompt file that
embeds the report.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().StringVarP(&summarizeFlags.output, "output", "o", "",
		"Output report path (defaults to configured output)")
	summarizeCmd.Flags().IntVar(&summarizeFlags.months, "months", 0,
		"How many months back from today to include (defaults to configured window)")
	summarizeCmd.Flags().StringSliceVarP(&summarizeFlags.exclude, "exclude", "x", nil,
		"Additional directory names to exclude from the scan")
	summarizeCmd.Flags().BoolVar(&summarizeFlags.followSymlinks, "follow-symlinks", false,
		"Follow symlinked directories during the scan")
	summarizeCmd.Flags().BoolVar(&summarizeFlags.prompt, "prompt", false,
		"Also write the AI analysis prompt file")

	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
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

	months := cfg.Logs.Months
	if summarizeFlags.months > 0 {
		months = summarizeFlags.months
	}
	output := cfg.Summary.Output
	if summarizeFlags.output != "" {
		output = summarizeFlags.output
	}
	excludes := append([]string{}, cfg.Logs.Excludes...)
	excludes = append(excludes, summarizeFlags.exclude...)
	followSymlinks := summarizeFlags.followSymlinks ||
		(cfg.Summary.FollowSymlinks != nil && *cfg.Summary.FollowSymlinks)

	report, err := summary.New(summary.Config{
		Root:           root,
		Excludes:       excludes,
		Months:         months,
		FollowSymlinks: followSymlinks,
	}).Run(cmd.Context())
	if err != nil {
		return err
	}

	if err := report.WriteFile(output); err != nil {
		return err
	}

	m := report.Metadata
	fmt.Printf("aggregated %d of %d files into %s (%d skipped, window %s..%s)\n",
		m.TotalParsed, m.TotalFilesFound, output, m.TotalSkipped, m.WindowStart, m.WindowEnd)

	if summarizeFlags.prompt || (cfg.Summary.Prompt != nil && *cfg.Summary.Prompt) {
		if err := summary.WritePromptFile(output, cfg.Summary.PromptFile); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", cfg.Summary.PromptFile)
	}

	// Record the tree state so 'practice status' can report staleness
	// relative to this run.
	tracker := snapshot.NewTracker(root, excludes)
	if err := tracker.Refresh(cmd.Context()); err != nil {
		return fmt.Errorf("failed to record tree state: %w", err)
	}

	return nil
}
