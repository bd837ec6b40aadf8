// Package config provides layered configuration resolution for rex.
//
// Configuration is merged from three fragments in ascending precedence:
// global (user-wide), project (current directory), and per-invocation
// overrides. The merged view supports dotted key-path get/set/delete with
// auto-pruning of emptied containers.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Dir returns the rex global configuration directory.
//
// Resolution:
//   - $REX_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/rex if set (respects XDG on any platform)
//   - %AppData%/rex on Windows
//   - ~/.config/rex on macOS and Linux
func Dir() string {
	// Explicit override
	if dir := os.Getenv("REX_CONFIG_HOME"); dir != "" {
		return dir
	}

	// XDG override (works on any platform)
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "rex")
	}

	// Windows: use AppData
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "rex")
		}
	}

	// macOS and Linux: ~/.config/rex
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "rex")
}

// ProjectDir returns the rex directory inside a project root.
// Project-scoped configuration and caches live under <root>/.rex.
func ProjectDir(root string) string {
	return filepath.Join(root, ".rex")
}
