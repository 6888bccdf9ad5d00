package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benchantech/practice/internal/logbook"
)

var slugsCmd = &cobra.Command{
	Use:   "slugs",
	Short: "List practice slugs in the log tree",
	RunE:  runSlugs,
}

func init() {
	rootCmd.AddCommand(slugsCmd)
}

func runSlugs(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	root, err := resolveRoot(cfg)
	if err != nil {
		return err
	}

	slugs, err := logbook.NewBook(root, cfg.Logs.Excludes...).Slugs()
	if err != nil {
		return err
	}
	for _, s := range slugs {
		fmt.Println(s)
	}
	return nil
}

// completeSlugs provides shell completion for slug arguments.
func completeSlugs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfg := loadConfig()
	root, err := resolveRoot(cfg)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	slugs, err := logbook.NewBook(root, cfg.Logs.Excludes...).Slugs()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return slugs, cobra.ShellCompDirectiveNoFileComp
}
