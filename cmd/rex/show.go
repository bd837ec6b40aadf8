// Package main provides the entry point for the rex CLI.
package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/gorewood/rex/internal/output"
)

// newShowCmd creates the show command.
func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a prompt's metadata and content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := newCmdPrinter(cmd)
			resolver := newResolver(cmd, printer)

			if _, err := resolver.Load(nil); err != nil {
				printer.Error(err)
				return err
			}

			lib := newLibrary(resolver, printer)
			prompt, err := lib.Find(args[0])
			if err != nil {
				printer.Error(err)
				return err
			}
			if prompt == nil {
				err := output.NewUserError("prompt not found: " + args[0])
				printer.Error(err)
				return err
			}

			if printer.IsJSON() {
				return printer.WriteJSON(map[string]any{
					"name":        prompt.Name,
					"description": prompt.Description,
					"tags":        prompt.Tags,
					"targets":     prompt.Targets,
					"path":        prompt.Path,
					"content":     prompt.Content,
				})
			}

			printer.KeyValue("Name", prompt.Name)
			if prompt.Description != "" {
				printer.KeyValue("Description", prompt.Description)
			}
			if len(prompt.Tags) > 0 {
				printer.KeyValue("Tags", strings.Join(prompt.Tags, ", "))
			}
			if len(prompt.Targets) > 0 {
				printer.KeyValue("Targets", strings.Join(prompt.Targets, ", "))
			}
			printer.KeyValue("Path", prompt.Path)
			printer.Section("Content")
			printer.Println(prompt.Content)
			return nil
		},
	}
}
