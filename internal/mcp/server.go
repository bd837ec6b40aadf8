// Package mcp provides a Model Context Protocol server for rex.
// It exposes the prompt library, configuration, and compilation workflow as
// MCP tools that any MCP-capable agent can use.
package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/rex/internal/cache"
	"github.com/gorewood/rex/internal/config"
	"github.com/gorewood/rex/internal/library"
)

// Deps carries the collaborators the tool handlers operate on.
type Deps struct {
	Library    *library.Library
	Resolver   *config.Resolver
	Cache      *cache.Manager
	ProjectDir string
}

// NewServer creates an MCP server with all rex tools registered.
func NewServer(version string, deps Deps) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "rex",
		Version: version,
	}, nil)
	registerTools(server, deps)
	return server
}

// boolPtr returns a pointer to a bool value.
func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for read-only tools.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// writeAnnotations returns annotations for write tools (additive, not destructive).
func writeAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		DestructiveHint: boolPtr(false),
		OpenWorldHint:   boolPtr(false),
	}
}

// registerTools adds all rex tools to the server.
func registerTools(server *mcp.Server, deps Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_prompts",
		Description: "List prompts in the library, optionally filtered by tag. Returns name, description, tags, and targets per prompt.",
		Annotations: readOnlyAnnotations(),
	}, handleListPrompts(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_prompt",
		Description: "Fetch a single prompt by name, including its full content.",
		Annotations: readOnlyAnnotations(),
	}, handleGetPrompt(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "config_get",
		Description: "Read a value from the merged rex configuration by dotted key path.",
		Annotations: readOnlyAnnotations(),
	}, handleConfigGet(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compile",
		Description: "Compile library prompts into editor-specific artifacts (Copilot instructions, Cursor rules). Unchanged prompts are skipped via the fingerprint cache.",
		Annotations: writeAnnotations(),
	}, handleCompile(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "cache_stats",
		Description: "Report fingerprint and detection cache statistics: entry counts, storage location, and whether it exists.",
		Annotations: readOnlyAnnotations(),
	}, handleCacheStats(deps))
}
