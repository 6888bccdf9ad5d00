package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/benchantech/practice/internal/logbook"
)

var showFlags struct {
	date string
	json bool
}

var showCmd = &cobra.Command{
	Use:               "show <slug>",
	Short:             "Show a recorded practice entry",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeSlugs,
	RunE:              runShow,
}

func init() {
	showCmd.Flags().StringVar(&showFlags.date, "date", "",
		"Entry date as YYYY-MM-DD (defaults to today)")
	showCmd.Flags().BoolVar(&showFlags.json, "json", false,
		"Output as JSON")

	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	slug := args[0]

	date := time.Now()
	if showFlags.date != "" {
		var err error
		date, err = time.ParseInLocation(time.DateOnly, showFlags.date, time.Local)
		if err != nil {
			return fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", showFlags.date, err)
		}
	}

	cfg := loadConfig()
	root, err := resolveRoot(cfg)
	if err != nil {
		return err
	}

	book := logbook.NewBook(root)
	entry, err := book.Read(slug, date)
	if err != nil {
		return err
	}

	if showFlags.json {
		return outputJSON(map[string]any{
			"slug":    slug,
			"date":    date.Format(time.DateOnly),
			"minutes": entry.Minutes,
		})
	}

	fmt.Printf("%s %s: %d minutes\n", slug, date.Format(time.DateOnly), entry.Minutes)
	return nil
}
