// Package output provides structured output handling for the rex CLI.
//
// This package handles both human-readable and JSON output formats so every
// command works equally well for human users and automated agents.
//
// # Printer
//
// The Printer is the primary interface for command output. It switches format
// based on the --json flag and TTY detection:
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), jsonMode, output.IsTTY(cmd.OutOrStdout()))
//
//	// For success output
//	printer.Success(map[string]any{"message": "Compiled 3 prompts"})
//
//	// For error output
//	printer.Error(err)
//
//	// For raw output
//	printer.Println("Some text")
//	printer.Print("Formatted: %s\n", value)
//
// # JSON Mode
//
// When JSON mode is enabled (via --json flag), all output is structured:
//
//	// Success: {"message": "...", ...}
//	// Error: {"error": "message", "code": N}
//
// # Exit Codes
//
// The package defines standard exit codes and error constructors:
//
//	output.ExitSuccess     // 0: Success
//	output.ExitUserError   // 1: User error (bad args, missing required keys)
//	output.ExitSystemError // 2: System error (I/O, persistence failure)
//	output.ExitStateError  // 3: Resolver queried before load
//
// Error kinds for the configuration resolver (not-loaded, validation,
// filesystem) are carried as ExitError values with errors.Is-able sentinels
// (ErrNotLoaded, ErrValidation, ErrFilesystem), so callers can branch on the
// kind without string matching.
package output
