// Package main provides the entry point for the rex CLI.
package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	rexmcp "github.com/gorewood/rex/internal/mcp"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run rex as a Model Context Protocol (MCP) server over stdio.

This exposes the prompt library and compile workflow as MCP tools that
any MCP-capable agent environment can use (Claude Code, Cursor,
Windsurf, Gemini CLI, etc).

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "rex": {
        "command": "rex",
        "args": ["serve"]
      }
    }
  }

Available tools: list_prompts, get_prompt, config_get, compile, cache_stats`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := newCmdPrinter(cmd)
			resolver := newResolver(cmd, printer)
			if _, err := resolver.Load(nil); err != nil {
				return err
			}

			server := rexmcp.NewServer(buildVersion(), rexmcp.Deps{
				Library:    newLibrary(resolver, printer),
				Resolver:   resolver,
				Cache:      newCacheManager(cmd, printer),
				ProjectDir: projectDir(cmd),
			})
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
