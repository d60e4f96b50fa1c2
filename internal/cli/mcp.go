package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/mvp-joe/project-neo/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for NEO lookups and approach queries",
	Long: `Start the Model Context Protocol (MCP) server that lets LLM assistants look up
near-Earth objects and query close approaches.

The MCP server:
- Loads the NEO catalog and close-approach data once
- Provides the neo_inspect, neo_query and neo_search tools
- Reloads when either data file changes (watch.enabled)
- Communicates via stdio (standard MCP transport)

Example:
  neo mcp`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// stdout carries the protocol
	quiet = true

	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.close()

	cat, err := s.openCatalog(ctx)
	if err != nil {
		return err
	}
	defer cat.Close()

	stats := cat.Stats()
	fmt.Fprintf(cmd.ErrOrStderr(), "neo MCP Server\n")
	fmt.Fprintf(cmd.ErrOrStderr(), "NEOs: %s, close approaches: %s\n\n",
		formatNumber(stats.NEOs), formatNumber(stats.Approaches))

	server, err := mcp.NewMCPServer(cat, s.cfg, Version, s.logger)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer server.Close()

	// Serve (blocks until shutdown)
	if err := server.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("MCP server error: %w", err)
	}

	return nil
}
