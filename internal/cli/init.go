package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/benchantech/practice/pkg/config"
)

var initFlags struct {
	check  bool
	dryRun bool
}

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Initialize a practice log repository",
	Long: `Initializes a directory as a practice log repository.

This command will:
1. Create a README.md describing the log convention
2. Create a practice.toml with default settings
3. Create a .gitignore covering generated files

Use --check to verify configuration without making changes (useful for CI).
Use --dry-run to preview changes without applying them.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initFlags.check, "check", false,
		"Check if repository is properly configured (exit 1 if not)")
	initCmd.Flags().BoolVar(&initFlags.dryRun, "dry-run", false,
		"Show what would change without applying")

	rootCmd.AddCommand(initCmd)
}

// scaffoldFile is one file created by practice init.
type scaffoldFile struct {
	name    string
	content string
}

func scaffoldFiles() []scaffoldFile {
	return []scaffoldFile{
		{"README.md", readmeContent},
		{config.ConfigFileName, configContent},
		{".gitignore", gitignoreContent},
	}
}

const readmeContent = `# Practice Logs

Daily practice logs, one JSON file per day:

    <slug>/YYYY/MM/DD.json

Each file contains a single-entry array:

    [{"minutes": 30}]

Record a session with:

    practice log <slug> <minutes>

and rebuild the aggregated report with:

    practice summarize
`

const configContent = `[logs]
# root = "."
# excludes = []
months = 3

[summary]
output = "aggregated_logs.json"
prompt = false

[watch]
debounce_ms = 500

[server]
addr = "127.0.0.1:8642"
`

const gitignoreContent = `aggregated_logs.json
ai_analysis_prompt.txt
.practice/
`

func runInit(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	if initFlags.check {
		return runInitCheck(absPath)
	}

	if initFlags.dryRun {
		return runInitDryRun(absPath)
	}

	return runInitApply(absPath)
}

func runInitCheck(dir string) error {
	issues := []string{}
	for _, f := range scaffoldFiles() {
		if !fileExists(filepath.Join(dir, f.name)) {
			issues = append(issues, fmt.Sprintf("%s not found", f.name))
		}
	}

	if len(issues) > 0 {
		fmt.Fprintln(os.Stderr, "Repository configuration issues:")
		for _, issue := range issues {
			fmt.Fprintf(os.Stderr, "  - %s\n", issue)
		}
		fmt.Fprintln(os.Stderr, "\nRun 'practice init' to fix")
		os.Exit(1)
	}

	fmt.Println("Repository is properly configured")
	return nil
}

func runInitDryRun(dir string) error {
	for _, f := range scaffoldFiles() {
		path := filepath.Join(dir, f.name)
		if fileExists(path) {
			fmt.Printf("%s exists at %s (would not modify)\n", f.name, path)
			continue
		}
		fmt.Printf("Would create %s:\n", path)
		fmt.Println(f.content)
	}
	return nil
}

func runInitApply(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	for _, f := range scaffoldFiles() {
		path := filepath.Join(dir, f.name)
		if fileExists(path) {
			fmt.Printf("%s already exists (skipping)\n", f.name)
			continue
		}
		if err := os.WriteFile(path, []byte(f.content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.name, err)
		}
		fmt.Printf("Created %s\n", path)
	}

	fmt.Println("\nNext steps:")
	fmt.Println("  1. Record a session: practice log <slug> <minutes>")
	fmt.Println("  2. Build the report: practice summarize")

	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
