package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/rex/internal/compile"
)

// --- Shared types ---

// PromptInfo is a prompt summary for listing.
type PromptInfo struct {
	Name        string   `json:"name"                  jsonschema:"prompt name"`
	Description string   `json:"description,omitempty" jsonschema:"prompt description"`
	Tags        []string `json:"tags,omitempty"        jsonschema:"prompt tags"`
	Targets     []string `json:"targets,omitempty"     jsonschema:"publish targets; empty means all"`
}

// --- list_prompts tool ---

// ListPromptsInput is the input for the list_prompts tool.
type ListPromptsInput struct {
	Tag string `json:"tag,omitempty" jsonschema:"only list prompts carrying this tag"`
}

// ListPromptsOutput is the output for the list_prompts tool.
type ListPromptsOutput struct {
	Count   int          `json:"count"             jsonschema:"number of prompts returned"`
	Prompts []PromptInfo `json:"prompts,omitempty" jsonschema:"matching prompts"`
}

func handleListPrompts(deps Deps) mcp.ToolHandlerFor[ListPromptsInput, ListPromptsOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ListPromptsInput) (*mcp.CallToolResult, ListPromptsOutput, error) {
		prompts, err := deps.Library.Scan()
		if err != nil {
			return nil, ListPromptsOutput{}, fmt.Errorf("scanning library: %w", err)
		}

		var infos []PromptInfo
		for _, p := range prompts {
			if input.Tag != "" && !p.HasTag(input.Tag) {
				continue
			}
			infos = append(infos, PromptInfo{
				Name:        p.Name,
				Description: p.Description,
				Tags:        p.Tags,
				Targets:     p.Targets,
			})
		}

		return nil, ListPromptsOutput{Count: len(infos), Prompts: infos}, nil
	}
}

// --- get_prompt tool ---

// GetPromptInput is the input for the get_prompt tool.
type GetPromptInput struct {
	Name string `json:"name" jsonschema:"prompt name"`
}

// GetPromptOutput is the output for the get_prompt tool.
type GetPromptOutput struct {
	PromptInfo
	Content string `json:"content" jsonschema:"full prompt body"`
	Path    string `json:"path"    jsonschema:"source file path"`
}

func handleGetPrompt(deps Deps) mcp.ToolHandlerFor[GetPromptInput, GetPromptOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input GetPromptInput) (*mcp.CallToolResult, GetPromptOutput, error) {
		if input.Name == "" {
			return nil, GetPromptOutput{}, fmt.Errorf("name is required")
		}

		prompt, err := deps.Library.Find(input.Name)
		if err != nil {
			return nil, GetPromptOutput{}, fmt.Errorf("searching library: %w", err)
		}
		if prompt == nil {
			return nil, GetPromptOutput{}, fmt.Errorf("prompt %q not found", input.Name)
		}

		return nil, GetPromptOutput{
			PromptInfo: PromptInfo{
				Name:        prompt.Name,
				Description: prompt.Description,
				Tags:        prompt.Tags,
				Targets:     prompt.Targets,
			},
			Content: prompt.Content,
			Path:    prompt.Path,
		}, nil
	}
}

// --- config_get tool ---

// ConfigGetInput is the input for the config_get tool.
type ConfigGetInput struct {
	Key string `json:"key" jsonschema:"dotted key path, e.g. deploy.defaultTags"`
}

// ConfigGetOutput is the output for the config_get tool.
type ConfigGetOutput struct {
	Key   string `json:"key"             jsonschema:"the queried key path"`
	Value any    `json:"value,omitempty" jsonschema:"the resolved value, absent when not found"`
	Found bool   `json:"found"           jsonschema:"whether the key path resolved to a value"`
}

func handleConfigGet(deps Deps) mcp.ToolHandlerFor[ConfigGetInput, ConfigGetOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ConfigGetInput) (*mcp.CallToolResult, ConfigGetOutput, error) {
		if input.Key == "" {
			return nil, ConfigGetOutput{}, fmt.Errorf("key is required")
		}

		if !deps.Resolver.IsLoaded() {
			if _, err := deps.Resolver.Load(nil); err != nil {
				return nil, ConfigGetOutput{}, fmt.Errorf("loading configuration: %w", err)
			}
		}

		// A private sentinel distinguishes "absent" from a stored nil.
		type missing struct{}
		value, err := deps.Resolver.Get(input.Key, missing{})
		if err != nil {
			return nil, ConfigGetOutput{}, err
		}
		if _, isMissing := value.(missing); isMissing {
			return nil, ConfigGetOutput{Key: input.Key, Found: false}, nil
		}

		return nil, ConfigGetOutput{Key: input.Key, Value: value, Found: true}, nil
	}
}

// --- compile tool ---

// CompileInput is the input for the compile tool.
type CompileInput struct {
	Targets []string `json:"targets,omitempty" jsonschema:"target names (copilot, cursor); empty means all"`
	Tags    []string `json:"tags,omitempty"    jsonschema:"only compile prompts carrying one of these tags"`
	Force   bool     `json:"force,omitempty"   jsonschema:"recompile even unchanged prompts"`
	DryRun  bool     `json:"dry_run,omitempty" jsonschema:"report without writing artifacts"`
}

// CompileOutput is the output for the compile tool.
type CompileOutput struct {
	Compiled  int                `json:"compiled"            jsonschema:"number of artifacts produced"`
	Skipped   int                `json:"skipped"             jsonschema:"number of unchanged prompts skipped"`
	Artifacts []compile.Artifact `json:"artifacts,omitempty" jsonschema:"rendered artifacts"`
}

func handleCompile(deps Deps) mcp.ToolHandlerFor[CompileInput, CompileOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input CompileInput) (*mcp.CallToolResult, CompileOutput, error) {
		result, err := compile.Run(deps.Library, deps.Cache, compile.Options{
			ProjectDir: deps.ProjectDir,
			Targets:    input.Targets,
			Tags:       input.Tags,
			Force:      input.Force,
			DryRun:     input.DryRun,
		})
		if err != nil {
			return nil, CompileOutput{}, err
		}

		return nil, CompileOutput{
			Compiled:  len(result.Artifacts),
			Skipped:   len(result.Skipped),
			Artifacts: result.Artifacts,
		}, nil
	}
}

// --- cache_stats tool ---

// CacheStatsInput is the input for the cache_stats tool (no parameters needed).
type CacheStatsInput struct{}

// CacheStatsOutput is the output for the cache_stats tool.
type CacheStatsOutput struct {
	FingerprintEntries int    `json:"fingerprint_entries" jsonschema:"number of cached file fingerprints"`
	DetectionEntries   int    `json:"detection_entries"   jsonschema:"number of cached detection results"`
	Dir                string `json:"dir"                 jsonschema:"cache storage directory"`
	Exists             bool   `json:"exists"              jsonschema:"whether the cache directory exists"`
	Error              string `json:"error,omitempty"     jsonschema:"introspection failure, if any"`
}

func handleCacheStats(deps Deps) mcp.ToolHandlerFor[CacheStatsInput, CacheStatsOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ CacheStatsInput) (*mcp.CallToolResult, CacheStatsOutput, error) {
		stats := deps.Cache.StatsNow()
		return nil, CacheStatsOutput{
			FingerprintEntries: stats.FingerprintEntries,
			DetectionEntries:   stats.DetectionEntries,
			Dir:                stats.Dir,
			Exists:             stats.Exists,
			Error:              stats.Error,
		}, nil
	}
}
