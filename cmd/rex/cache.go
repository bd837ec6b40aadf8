// Package main provides the entry point for the rex CLI.
package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// newCacheCmd creates the cache command and its subcommands.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clear the compilation cache",
		Long: `Cache manages the per-project compilation cache under .rex/cache.

The cache holds content fingerprints used to skip unchanged prompts
during compile, and time-stamped detection results. It is always safe
to clear; the next compile rebuilds it.`,
	}

	cmd.AddCommand(newCacheStatsCmd())
	cmd.AddCommand(newCacheClearCmd())

	return cmd
}

// newCacheStatsCmd creates the cache stats command.
func newCacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache entry counts and location",
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := newCmdPrinter(cmd)
			mgr := newCacheManager(cmd, printer)

			stats := mgr.StatsNow()
			if printer.IsJSON() {
				return printer.WriteJSON(stats)
			}

			printer.KeyValue("Directory", stats.Dir)
			printer.KeyValue("Exists", strconv.FormatBool(stats.Exists))
			printer.KeyValue("Fingerprints", fmt.Sprintf("%d", stats.FingerprintEntries))
			printer.KeyValue("Detections", fmt.Sprintf("%d", stats.DetectionEntries))
			if stats.Error != "" {
				printer.Stderr("Warning: %s\n", stats.Error)
			}
			return nil
		},
	}
}

// newCacheClearCmd creates the cache clear command.
func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached fingerprints and detections",
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := newCmdPrinter(cmd)
			mgr := newCacheManager(cmd, printer)

			if err := mgr.Clear(); err != nil {
				printer.Error(err)
				return err
			}

			return printer.Success(map[string]any{
				"message": "Cache cleared",
			})
		},
	}
}
