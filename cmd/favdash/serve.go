package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/favdash/internal/logging"
	"github.com/nikbrunner/favdash/internal/mcp"
	"github.com/nikbrunner/favdash/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the local JSON API for the browser extension.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("listen")

		return withEnv(func(ctx context.Context, e *env) error {
			if addr == "" {
				addr = e.cfg.Serve.Addr
			}

			// Warm the cache so the first request doesn't pay for the fetch.
			if _, err := e.cache.Load(ctx, false); err != nil {
				logging.Log.WithError(err).Warn("initial load failed")
			}
			e.cache.Start()

			return server.New(e.cache, server.Options{
				Addr:    addr,
				Origins: e.cfg.Serve.Origins,
				Logger:  logging.Log,
			}).ListenAndServe(ctx)
		})
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serves bookmark tools to MCP clients over stdio.",
	Long: `Serves the bookmarks_search, bookmarks_folder, bookmarks_tree and
bookmarks_stats tools over stdin/stdout. Logs go to stderr.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(func(ctx context.Context, e *env) error {
			e.cache.Start()
			return mcp.Run(e.cache, version)
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	serveCmd.Flags().String("listen", "", "HTTP listen address (default from config, 127.0.0.1:7878)")
}
