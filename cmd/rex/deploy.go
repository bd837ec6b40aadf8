// Package main provides the entry point for the rex CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/rex/internal/compile"
	"github.com/gorewood/rex/internal/config"
)

// newDeployCmd creates the deploy command.
func newDeployCmd() *cobra.Command {
	var (
		target string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Compile for the configured deploy target",
		Long: `Deploy compiles the library for one target and reports the result.

The target comes from --target, falling back to the deploy.target
configuration key; deploy fails with a validation error when neither is
set. Tag filters come from deploy.defaultTags when configured.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := newCmdPrinter(cmd)
			resolver := newResolver(cmd, printer)

			// The flag becomes a per-invocation override so it participates
			// in the merge like any other scope.
			override := config.Fragment{}
			if target != "" {
				override["deploy"] = config.Fragment{"target": target}
			}

			if _, err := resolver.Load(override); err != nil {
				printer.Error(err)
				return err
			}

			if err := resolver.ValidateRequired([]string{"deploy.target"}); err != nil {
				printer.Error(err)
				return err
			}

			resolved, err := resolver.Get("deploy.target", "")
			if err != nil {
				printer.Error(err)
				return err
			}
			targetName, _ := resolved.(string)

			lib := newLibrary(resolver, printer)
			mgr := newCacheManager(cmd, printer)

			result, err := compile.Run(lib, mgr, compile.Options{
				ProjectDir: projectDir(cmd),
				Targets:    []string{targetName},
				Tags:       configStringList(resolver, "deploy.defaultTags"),
				Force:      force,
			})
			if err != nil {
				printer.Error(err)
				return err
			}

			return printCompileResult(printer, result, false)
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", "", "Target to deploy to (overrides deploy.target)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Recompile even unchanged prompts")

	return cmd
}
