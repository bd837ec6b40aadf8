// Package main provides the entry point for the rex CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gorewood/rex/internal/compile"
	"github.com/gorewood/rex/internal/config"
	"github.com/gorewood/rex/internal/output"
)

// newCompileCmd creates the compile command.
func newCompileCmd() *cobra.Command {
	var (
		targets []string
		tags    []string
		force   bool
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile library prompts into editor artifacts",
		Long: `Compile renders every library prompt into the formats the requested
targets consume and writes them under the project directory:

  copilot  .github/instructions/<name>.instructions.md
  cursor   .cursor/rules/<name>.mdc

Prompts whose content fingerprint matches the cache are skipped; use
--force to recompile everything. Defaults for --target and --tag come
from the compile.targets and compile.tags configuration keys.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := newCmdPrinter(cmd)
			resolver := newResolver(cmd, printer)

			if _, err := resolver.Load(nil); err != nil {
				printer.Error(err)
				return err
			}

			if len(targets) == 0 {
				targets = configStringList(resolver, "compile.targets")
			}
			if len(tags) == 0 {
				tags = configStringList(resolver, "compile.tags")
			}

			lib := newLibrary(resolver, printer)
			mgr := newCacheManager(cmd, printer)

			result, err := compile.Run(lib, mgr, compile.Options{
				ProjectDir: projectDir(cmd),
				Targets:    targets,
				Tags:       tags,
				Force:      force,
				DryRun:     dryRun,
			})
			if err != nil {
				printer.Error(err)
				return err
			}

			return printCompileResult(printer, result, dryRun)
		},
	}

	cmd.Flags().StringArrayVarP(&targets, "target", "t", nil, "Target to compile for (repeatable; default: all)")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "Only compile prompts carrying this tag (repeatable)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Recompile even unchanged prompts")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would compile without writing anything")

	return cmd
}

// printCompileResult renders a compilation result in JSON or human form.
func printCompileResult(printer *output.Printer, result *compile.Result, dryRun bool) error {
	if printer.IsJSON() {
		return printer.WriteJSON(map[string]any{
			"compiled":  len(result.Artifacts),
			"skipped":   len(result.Skipped),
			"dryRun":    dryRun,
			"artifacts": result.Artifacts,
		})
	}

	verb := "Compiled"
	if dryRun {
		verb = "Would compile"
	}

	if len(result.Artifacts) == 0 && len(result.Skipped) == 0 {
		printer.Println("Nothing to compile")
		return nil
	}

	for _, a := range result.Artifacts {
		printer.Println(fmt.Sprintf("%s %s (%s) -> %s", verb, a.Prompt, a.Target, a.Path))
	}
	if len(result.Skipped) > 0 {
		printer.Stderr("Skipped %d unchanged prompt(s)\n", len(result.Skipped))
	}
	return nil
}

// configStringList reads a list-valued configuration key as a string slice.
// Non-list values and non-string elements are ignored.
func configStringList(resolver *config.Resolver, key string) []string {
	value, err := resolver.Get(key, nil)
	if err != nil {
		return nil
	}
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
