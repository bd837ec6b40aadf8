// Package main provides the entry point for the rex CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/gorewood/rex/internal/cache"
	"github.com/gorewood/rex/internal/config"
	"github.com/gorewood/rex/internal/envfile"
	"github.com/gorewood/rex/internal/library"
	"github.com/gorewood/rex/internal/output"
)

// Build info set via ldflags at build time by goreleaser.
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2024-01-01"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// isJSONMode reads the --json persistent flag from the command hierarchy.
func isJSONMode(cmd *cobra.Command) bool {
	flag := cmd.Flags().Lookup("json")
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup("json")
	}
	return flag != nil && flag.Value.String() == "true"
}

// projectDir reads the --project persistent flag, defaulting to the
// current directory.
func projectDir(cmd *cobra.Command) string {
	flag := cmd.Flags().Lookup("project")
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup("project")
	}
	if flag == nil || flag.Value.String() == "" {
		return "."
	}
	return flag.Value.String()
}

// newCmdPrinter builds the printer every command writes through.
func newCmdPrinter(cmd *cobra.Command) *output.Printer {
	return output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), output.IsTTY(cmd.OutOrStdout())).
		WithStderr(cmd.ErrOrStderr())
}

// newResolver builds a configuration resolver scoped to the command's
// project directory, routing non-fatal events to the printer.
func newResolver(cmd *cobra.Command, printer *output.Printer) *config.Resolver {
	return config.NewResolver(config.Options{
		ProjectDir: projectDir(cmd),
		Warnf:      printer.Warn,
	})
}

// newCacheManager builds the cache manager under <project>/.rex/cache.
func newCacheManager(cmd *cobra.Command, printer *output.Printer) *cache.Manager {
	dir := filepath.Join(config.ProjectDir(projectDir(cmd)), "cache")
	return cache.NewManager(dir, printer.Warn)
}

// newLibrary builds the prompt library, honoring the library.dir key from
// the merged configuration when set.
func newLibrary(resolver *config.Resolver, printer *output.Printer) *library.Library {
	dir := filepath.Join(config.Dir(), "prompts")
	if resolver.IsLoaded() {
		if configured, err := resolver.Get("library.dir", nil); err == nil {
			if s, ok := configured.(string); ok && s != "" {
				dir = s
			}
		}
	}
	return library.New(dir, printer.Warn)
}

// buildVersion returns the full version string including commit and date.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	shortCommit := commit
	if len(commit) > 7 {
		shortCommit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, shortCommit, date)
}

func main() {
	code := run()
	os.Exit(code)
}

func run() int {
	cmd := newRootCmd()
	err := fang.Execute(context.Background(), cmd, fang.WithVersion(buildVersion()))
	return output.GetExitCode(err)
}

// newRootCmd creates the root command for the rex CLI.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rex",
		Short: "A prompt library manager for AI editors",
		Long: `Rex manages a personal library of AI prompt files and republishes them,
reformatted, into editor-specific configuration locations.

Rex keeps prompts as markdown with YAML frontmatter and:
  - Merges configuration from global, project, and flag scopes
  - Compiles prompts into GitHub Copilot instructions and Cursor rules
  - Skips unchanged prompts via a content-fingerprint cache
  - Detects which editor integrations a project already uses

All commands support --json for structured output.`,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// If --json flag is set but no subcommand, output JSON error
			if isJSONMode(cmd) {
				printer := output.NewPrinter(cmd.OutOrStdout(), true, false)
				err := output.NewUserError("no command specified. Run 'rex --help' for usage")
				printer.Error(err)
				return err
			}
			return cmd.Help()
		},
	}

	// Load .env.local (then .env) for settings that can't be exported to env.
	// Environment variables always take precedence over file values.
	cmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		loadEnvFiles()
		return nil
	}

	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().String("project", ".", "Project directory to operate on")

	lipgloss.SetHasDarkBackground(true)

	addCommandGroups(cmd)
	addCommands(cmd)

	return cmd
}

// loadEnvFiles loads env files in priority order. First match for each
// variable wins; environment variables already set always take precedence.
//
// Resolution order:
//  1. $CWD/.env.local   (per-repo override, gitignored)
//  2. $CWD/.env         (per-repo)
//  3. ~/.config/rex/env (global fallback)
func loadEnvFiles() {
	_ = envfile.Load(".env.local")
	_ = envfile.Load(".env")

	if dir := config.Dir(); dir != "" {
		_ = envfile.Load(filepath.Join(dir, "env"))
	}
}

// addCommandGroups defines the command groups for help output.
func addCommandGroups(cmd *cobra.Command) {
	cmd.AddGroup(&cobra.Group{ID: "library", Title: "Library Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "publish", Title: "Publish Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "config", Title: "Config Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "admin", Title: "Admin Commands:"})
}

// addCommands adds all subcommands with their group assignments.
func addCommands(cmd *cobra.Command) {
	// Library commands: list, show
	addGroupedCommand(cmd, newListCmd(), "library")
	addGroupedCommand(cmd, newShowCmd(), "library")

	// Publish commands: compile, deploy, detect
	addGroupedCommand(cmd, newCompileCmd(), "publish")
	addGroupedCommand(cmd, newDeployCmd(), "publish")
	addGroupedCommand(cmd, newDetectCmd(), "publish")

	// Config commands: config
	addGroupedCommand(cmd, newConfigCmd(), "config")

	// Admin commands: cache, serve
	addGroupedCommand(cmd, newCacheCmd(), "admin")
	addGroupedCommand(cmd, newServeCmd(), "admin")
}

// addGroupedCommand assigns a group ID and adds the command.
func addGroupedCommand(cmd *cobra.Command, sub *cobra.Command, groupID string) {
	sub.GroupID = groupID
	cmd.AddCommand(sub)
}
