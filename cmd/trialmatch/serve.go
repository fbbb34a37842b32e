// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/trialmatch/internal/ctgov"
	"github.com/pdiddy/trialmatch/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the match and trends tools over MCP stdio",
	Long: `Serve runs an MCP server on stdin/stdout exposing two tools: match_trials
and analyze_trends. Agent frontends connect it as a stdio MCP server; all
diagnostics go to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		client := ctgov.New(cfg)

		fmt.Fprintf(os.Stderr, "trialmatch %s serving MCP on stdio\n", version)
		return mcp.NewServer(client, cfg, version).Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
