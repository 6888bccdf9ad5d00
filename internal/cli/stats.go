package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/benchantech/practice/internal/logbook"
	"github.com/benchantech/practice/internal/store"
	"github.com/benchantech/practice/pkg/config"
)

var statsFlags struct {
	period string
	json   bool
}

var statsCmd = &cobra.Command{
	Use:   "stats [slug]",
	Short: "Show practice totals and streaks",
	Long: `Shows per-slug practice totals for a period, backed by a SQLite index
rebuilt from the log tree on each run. With a slug argument, also shows
the current consecutive-day streak.`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeSlugs,
	RunE:              runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsFlags.period, "period", "month",
		"Period to total (day, week, month, year)")
	statsCmd.Flags().BoolVar(&statsFlags.json, "json", false,
		"Output as JSON")

	rootCmd.AddCommand(statsCmd)
}

// StatsOutput is the JSON output format for practice stats.
type StatsOutput struct {
	Period string            `json:"period"`
	Start  string            `json:"start"`
	End    string            `json:"end"`
	Totals []store.SlugTotal `json:"totals"`
	Streak *int              `json:"streak,omitempty"`
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	root, err := resolveRoot(cfg)
	if err != nil {
		return err
	}

	now := time.Now()
	start, end, err := store.PeriodRange(statsFlags.period, now)
	if err != nil {
		return err
	}

	repo, err := store.Open(filepath.Join(root, config.ConfigDirName, "index.db"))
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	if _, err := repo.Reindex(cmd.Context(), logbook.NewBook(root, cfg.Logs.Excludes...)); err != nil {
		return fmt.Errorf("failed to index log tree: %w", err)
	}

	totals, err := repo.Totals(start, end)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		slug := args[0]
		filtered := totals[:0]
		for _, t := range totals {
			if t.Slug == slug {
				filtered = append(filtered, t)
			}
		}
		totals = filtered
	}

	var streak *int
	if len(args) > 0 {
		n, err := repo.Streak(args[0], now)
		if err != nil {
			return err
		}
		streak = &n
	}

	if statsFlags.json {
		return outputJSON(StatsOutput{
			Period: statsFlags.period,
			Start:  start.Format(time.DateOnly),
			End:    end.AddDate(0, 0, -1).Format(time.DateOnly),
			Totals: totals,
			Streak: streak,
		})
	}

	if len(totals) == 0 {
		fmt.Printf("No practice logged this %s\n", statsFlags.period)
	} else {
		fmt.Printf("This %s:\n", statsFlags.period)
		for _, t := range totals {
			fmt.Printf("  %-20s %4dm over %d day(s)\n", t.Slug, t.Minutes, t.Days)
		}
	}
	if streak != nil {
		fmt.Printf("\n%s streak: %d day(s)\n", args[0], *streak)
	}
	return nil
}
