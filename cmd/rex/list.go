// Package main provides the entry point for the rex CLI.
package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/gorewood/rex/internal/library"
)

// newListCmd creates the list command.
func newListCmd() *cobra.Command {
	var tag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List prompts in the library",
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := newCmdPrinter(cmd)
			resolver := newResolver(cmd, printer)

			if _, err := resolver.Load(nil); err != nil {
				printer.Error(err)
				return err
			}

			lib := newLibrary(resolver, printer)
			prompts, err := lib.Scan()
			if err != nil {
				printer.Error(err)
				return err
			}
			prompts = filterPromptsByTag(prompts, tag)

			if printer.IsJSON() {
				type row struct {
					Name        string   `json:"name"`
					Description string   `json:"description,omitempty"`
					Tags        []string `json:"tags,omitempty"`
					Targets     []string `json:"targets,omitempty"`
				}
				rows := make([]row, 0, len(prompts))
				for _, p := range prompts {
					rows = append(rows, row{
						Name:        p.Name,
						Description: p.Description,
						Tags:        p.Tags,
						Targets:     p.Targets,
					})
				}
				return printer.WriteJSON(map[string]any{
					"count":   len(rows),
					"prompts": rows,
				})
			}

			if len(prompts) == 0 {
				printer.Println("No prompts in library at", lib.Dir())
				return nil
			}

			rows := make([][]string, 0, len(prompts))
			for _, p := range prompts {
				rows = append(rows, []string{
					p.Name,
					strings.Join(p.Tags, ","),
					p.Description,
				})
			}
			printer.Table([]string{"NAME", "TAGS", "DESCRIPTION"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&tag, "tag", "", "Only list prompts carrying this tag")

	return cmd
}

// filterPromptsByTag keeps prompts carrying the given tag.
// An empty tag keeps everything.
func filterPromptsByTag(prompts []*library.Prompt, tag string) []*library.Prompt {
	if tag == "" {
		return prompts
	}
	var kept []*library.Prompt
	for _, p := range prompts {
		if p.HasTag(tag) {
			kept = append(kept, p)
		}
	}
	return kept
}
