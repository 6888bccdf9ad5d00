package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benchantech/practice/internal/snapshot"
)

var statusFlags struct {
	verbose bool
	json    bool
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show log changes since the last summarize",
	Long: `Compares the current log tree against the state recorded by the last
'practice summarize' to show whether the aggregated report is stale.

The --verbose flag shows individual file changes (new, modified, deleted).
The --json flag outputs the result as JSON for scripting.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusFlags.verbose, "verbose", false,
		"Show individual file changes")
	statusCmd.Flags().BoolVar(&statusFlags.json, "json", false,
		"Output as JSON")

	rootCmd.AddCommand(statusCmd)
}

// StatusOutput is the JSON output format for practice status.
type StatusOutput struct {
	Stale         bool     `json:"stale"`
	StaleSlugs    []string `json:"stale_slugs"`
	NewFiles      []string `json:"new_files,omitempty"`
	ModifiedFiles []string `json:"modified_files,omitempty"`
	DeletedFiles  []string `json:"deleted_files,omitempty"`
	Error         string   `json:"error,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	root, err := resolveRoot(cfg)
	if err != nil {
		return err
	}

	tracker := snapshot.NewTracker(root, cfg.Logs.Excludes)

	if !tracker.HasState() {
		if statusFlags.json {
			return outputJSON(StatusOutput{
				Stale: true,
				Error: "no state found",
			})
		}
		fmt.Println("No state found. Run 'practice summarize' to create initial state.")
		return nil
	}

	cs, err := tracker.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to detect staleness: %w", err)
	}

	if statusFlags.json {
		return outputJSON(StatusOutput{
			Stale:         !cs.IsEmpty(),
			StaleSlugs:    cs.Slugs(),
			NewFiles:      cs.Added,
			ModifiedFiles: cs.Modified,
			DeletedFiles:  cs.Deleted,
		})
	}

	if cs.IsEmpty() {
		fmt.Println("Aggregated report is up to date")
		return nil
	}

	staleSlugs := cs.Slugs()
	fmt.Printf("Changed slugs (%d):\n", len(staleSlugs))
	for _, s := range staleSlugs {
		fmt.Printf("  %s\n", s)
	}

	if statusFlags.verbose {
		if len(cs.Added) > 0 {
			fmt.Printf("\nNew files (%d):\n", len(cs.Added))
			for _, f := range cs.Added {
				fmt.Printf("  + %s\n", f)
			}
		}

		if len(cs.Modified) > 0 {
			fmt.Printf("\nModified files (%d):\n", len(cs.Modified))
			for _, f := range cs.Modified {
				fmt.Printf("  ~ %s\n", f)
			}
		}

		if len(cs.Deleted) > 0 {
			fmt.Printf("\nDeleted files (%d):\n", len(cs.Deleted))
			for _, f := range cs.Deleted {
				fmt.Printf("  - %s\n", f)
			}
		}
	}

	fmt.Println("\nRun 'practice summarize' to refresh the report")
	return nil
}
