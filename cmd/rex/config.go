// Package main provides the entry point for the rex CLI.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gorewood/rex/internal/config"
	"github.com/gorewood/rex/internal/output"
)

// newConfigCmd creates the config command and its subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit layered configuration",
		Long: `Config reads and writes rex configuration.

Configuration merges three scopes by ascending precedence:
  global   ~/.config/rex/config.json (user-wide)
  project  <project>/.rex/config.json
  flags    per-invocation overrides

Keys are dotted paths addressing nested values, e.g. deploy.defaultTags.
Lists and scalars from a higher scope fully replace lower-scope values;
only nested mappings merge field-by-field.`,
	}

	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigUnsetCmd())
	cmd.AddCommand(newConfigListCmd())
	cmd.AddCommand(newConfigValidateCmd())
	cmd.AddCommand(newConfigUtilityCmd())

	return cmd
}

// newConfigGetCmd creates the config get command.
func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Read a value from the merged configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := newCmdPrinter(cmd)
			resolver := newResolver(cmd, printer)

			if _, err := resolver.Load(nil); err != nil {
				printer.Error(err)
				return err
			}

			type missing struct{}
			value, err := resolver.Get(args[0], missing{})
			if err != nil {
				printer.Error(err)
				return err
			}
			if _, isMissing := value.(missing); isMissing {
				err := output.NewUserError("key not set: " + args[0])
				printer.Error(err)
				return err
			}

			if printer.IsJSON() {
				return printer.WriteJSON(map[string]any{"key": args[0], "value": value})
			}
			printer.Println(formatConfigValue(value))
			return nil
		},
	}
}

// newConfigSetCmd creates the config set command.
func newConfigSetCmd() *cobra.Command {
	var globalFlag bool

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Write a value to project (or global) configuration",
		Long: `Set writes a value into the project configuration file, or into the
global one with --global. Values parse as JSON when possible, so lists
and numbers work: rex config set deploy.defaultTags '["go","review"]'.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := newCmdPrinter(cmd)
			resolver := newResolver(cmd, printer)

			if _, err := resolver.Load(nil); err != nil {
				printer.Error(err)
				return err
			}

			fragment, save, scope := scopedFragment(resolver, globalFlag)
			config.SetValue(fragment, args[0], parseConfigValue(args[1]))
			if err := save(fragment); err != nil {
				printer.Error(err)
				return err
			}

			return printer.Success(map[string]any{
				"message": fmt.Sprintf("Set %s in %s config", args[0], scope),
				"key":     args[0],
				"scope":   scope,
			})
		},
	}

	cmd.Flags().BoolVar(&globalFlag, "global", false, "Write to global config instead of project")

	return cmd
}

// newConfigUnsetCmd creates the config unset command.
func newConfigUnsetCmd() *cobra.Command {
	var globalFlag bool

	cmd := &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a key from project (or global) configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := newCmdPrinter(cmd)
			resolver := newResolver(cmd, printer)

			if _, err := resolver.Load(nil); err != nil {
				printer.Error(err)
				return err
			}

			fragment, save, scope := scopedFragment(resolver, globalFlag)
			config.DeleteValue(fragment, args[0])
			if err := save(fragment); err != nil {
				printer.Error(err)
				return err
			}

			return printer.Success(map[string]any{
				"message": fmt.Sprintf("Unset %s in %s config", args[0], scope),
				"key":     args[0],
				"scope":   scope,
			})
		},
	}

	cmd.Flags().BoolVar(&globalFlag, "global", false, "Remove from global config instead of project")

	return cmd
}

// newConfigListCmd creates the config list command.
func newConfigListCmd() *cobra.Command {
	var sourcesFlag bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the merged configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := newCmdPrinter(cmd)
			resolver := newResolver(cmd, printer)

			if _, err := resolver.Load(nil); err != nil {
				printer.Error(err)
				return err
			}

			if sourcesFlag {
				global, project, merged := resolver.Sources()
				return printer.WriteJSON(map[string]any{
					"global":  global,
					"project": project,
					"merged":  merged,
				})
			}

			merged, err := resolver.GetAll()
			if err != nil {
				printer.Error(err)
				return err
			}
			return printer.WriteJSON(merged)
		},
	}

	cmd.Flags().BoolVar(&sourcesFlag, "sources", false, "Show per-scope fragments alongside the merge")

	return cmd
}

// newConfigValidateCmd creates the config validate command.
func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <key>...",
		Short: "Check that required keys resolve to values",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := newCmdPrinter(cmd)
			resolver := newResolver(cmd, printer)

			if _, err := resolver.Load(nil); err != nil {
				printer.Error(err)
				return err
			}

			if err := resolver.ValidateRequired(args); err != nil {
				printer.Error(err)
				return err
			}

			return printer.Success(map[string]any{
				"message": "All required keys are set",
				"keys":    args,
			})
		},
	}
}

// newConfigUtilityCmd creates the config utility command for scoped
// utility settings under utilities.<scope>.
func newConfigUtilityCmd() *cobra.Command {
	var unsetFlag bool

	cmd := &cobra.Command{
		Use:   "utility <scope> <key> [<value>]",
		Short: "Write a utility-scoped setting",
		Long: `Utility writes nested settings under utilities.<scope> in the project
configuration. Unsetting the last key of a scope prunes the scope, and
pruning the last scope removes the utilities mapping entirely.

Examples:
  rex config utility formatter style compact
  rex config utility formatter style --unset`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := newCmdPrinter(cmd)
			resolver := newResolver(cmd, printer)

			var value any
			switch {
			case unsetFlag:
				if len(args) == 3 {
					err := output.NewUserError("cannot combine a value with --unset")
					printer.Error(err)
					return err
				}
				value = config.Unset
			case len(args) == 3:
				value = parseConfigValue(args[2])
			default:
				err := output.NewUserError("specify a value or --unset")
				printer.Error(err)
				return err
			}

			if err := resolver.SetUtilityValue(args[0], args[1], value); err != nil {
				printer.Error(err)
				return err
			}

			verb := "Set"
			if unsetFlag {
				verb = "Unset"
			}
			return printer.Success(map[string]any{
				"message": fmt.Sprintf("%s utilities.%s.%s", verb, args[0], args[1]),
			})
		},
	}

	cmd.Flags().BoolVar(&unsetFlag, "unset", false, "Delete the key instead of setting it")

	return cmd
}

// scopedFragment returns the fragment, save function, and scope name for
// the requested write scope.
func scopedFragment(resolver *config.Resolver, global bool) (config.Fragment, func(config.Fragment) error, string) {
	globalFragment, projectFragment, _ := resolver.Sources()
	if global {
		if globalFragment == nil {
			globalFragment = config.Fragment{}
		}
		return globalFragment, resolver.SaveGlobalFragment, "global"
	}
	if projectFragment == nil {
		projectFragment = config.Fragment{}
	}
	return projectFragment, resolver.SaveProjectFragment, "project"
}

// parseConfigValue interprets a CLI value: JSON where valid (numbers,
// booleans, lists, objects), plain string otherwise.
func parseConfigValue(raw string) any {
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
		return parsed
	}
	return raw
}

// formatConfigValue renders a value for human output.
func formatConfigValue(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(data)
}
