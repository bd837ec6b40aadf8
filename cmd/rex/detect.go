// Package main provides the entry point for the rex CLI.
package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/gorewood/rex/internal/cache"
	"github.com/gorewood/rex/internal/detect"
)

// newDetectCmd creates the detect command.
func newDetectCmd() *cobra.Command {
	var maxAgeMinutes int

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Detect AI editor integrations in the project",
		Long: `Detect probes the project directory for editor integration markers
(.github, .cursor, .claude, .vscode and friends) and lists what it finds.

Results are cached; a cached answer younger than --max-age is served
without touching the filesystem. Use --max-age 0 to force a fresh probe.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := newCmdPrinter(cmd)
			mgr := newCacheManager(cmd, printer)

			maxAge := time.Duration(maxAgeMinutes) * time.Minute
			items, fromCache := detect.Cached(mgr, projectDir(cmd), maxAge)

			if printer.IsJSON() {
				return printer.WriteJSON(map[string]any{
					"detected":  items,
					"fromCache": fromCache,
				})
			}

			if len(items) == 0 {
				printer.Println("No editor integrations detected")
				return nil
			}
			for _, item := range items {
				printer.Println(item)
			}
			if fromCache {
				printer.Stderr("(served from cache)\n")
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxAgeMinutes, "max-age", int(cache.DefaultDetectionMaxAge/time.Minute),
		"Serve cached results younger than this many minutes")

	return cmd
}
