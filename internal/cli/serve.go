package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/benchantech/practice/internal/server"
)

var serveFlags struct {
	addr string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a local HTTP preview of the log tree",
	Long: `Starts a local read-only HTTP server over the log tree:

  GET /health
  GET /api/slugs
  GET /api/logs/{slug}
  GET /api/summary

This previews the data the visualization site consumes; nothing is
published anywhere.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", "",
		"Listen address (defaults to configured address)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	root, err := resolveRoot(cfg)
	if err != nil {
		return err
	}

	addr := cfg.Server.Addr
	if serveFlags.addr != "" {
		addr = serveFlags.addr
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return server.New(server.Config{
		Addr:     addr,
		Root:     root,
		Excludes: cfg.Logs.Excludes,
		Months:   cfg.Logs.Months,
	}).Run(ctx)
}
