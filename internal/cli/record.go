package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/benchantech/practice/internal/log"
	"github.com/benchantech/practice/internal/logbook"
	"github.com/benchantech/practice/internal/store"
	"github.com/benchantech/practice/pkg/config"
)

var logFlags struct {
	date string
}

var logCmd = &cobra.Command{
	Use:   "log <slug> <minutes>",
	Short: "Record a practice session",
	Long: `Records a practice session as <root>/<slug>/YYYY/MM/DD.json.

The file is written atomically and byte-stable, so re-logging the same
minutes for the same day produces no diff. Defaults to today; use --date
to backfill.`,
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeSlugs,
	RunE:              runLog,
}

func init() {
	logCmd.Flags().StringVar(&logFlags.date, "date", "",
		"Entry date as YYYY-MM-DD (defaults to today)")

	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, args []string) error {
	slug := args[0]
	minutes, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid minutes %q: %w", args[1], err)
	}

	date := time.Now()
	if logFlags.date != "" {
		date, err = time.ParseInLocation(time.DateOnly, logFlags.date, time.Local)
		if err != nil {
			return fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", logFlags.date, err)
		}
	}

	cfg := loadConfig()
	root, err := resolveRoot(cfg)
	if err != nil {
		return err
	}

	book := logbook.NewBook(root)
	rel, err := book.Write(slug, date, logbook.Entry{Minutes: minutes})
	if err != nil {
		return err
	}

	// Keep the stats index current when one exists. Best effort; the index
	// is rebuilt from scratch by 'practice stats' anyway.
	updateIndex(root, store.Entry{
		Slug:       slug,
		Date:       date,
		Minutes:    minutes,
		SourcePath: rel,
	})

	fmt.Printf("logged %d minutes to %s\n", minutes, rel)
	return nil
}

func updateIndex(root string, e store.Entry) {
	dbPath := filepath.Join(root, config.ConfigDirName, "index.db")
	if !fileExists(dbPath) {
		return
	}
	repo, err := store.Open(dbPath)
	if err != nil {
		log.Debug("failed to open stats index", "error", err)
		return
	}
	defer func() { _ = repo.Close() }()
	if err := repo.Upsert(e); err != nil {
		log.Debug("failed to update stats index", "error", err)
	}
}
