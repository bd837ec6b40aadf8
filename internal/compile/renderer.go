// Package compile turns library prompts into editor-specific artifacts,
// using the fingerprint cache to skip prompts whose content is unchanged.
package compile

import (
	"sort"

	"github.com/gorewood/rex/internal/library"
)

// Renderer produces one editor's artifact format for a prompt.
type Renderer interface {
	// Target returns the short identifier used in CLI flags (e.g. "copilot").
	Target() string

	// DisplayName returns the human-readable name (e.g. "GitHub Copilot").
	DisplayName() string

	// OutputPath returns where the rendered artifact belongs under projectDir.
	OutputPath(projectDir string, p *library.Prompt) string

	// Render produces the artifact content for a prompt.
	Render(p *library.Prompt) ([]byte, error)
}

// registry holds all known renderers, keyed by target name.
var registry = map[string]Renderer{}

// RegisterRenderer registers a renderer implementation.
func RegisterRenderer(r Renderer) {
	registry[r.Target()] = r
}

// GetRenderer returns a registered renderer by target name, or nil.
func GetRenderer(target string) Renderer {
	return registry[target]
}

// AllTargets returns the registered target names in sorted order.
func AllTargets() []string {
	targets := make([]string, 0, len(registry))
	for name := range registry {
		targets = append(targets, name)
	}
	sort.Strings(targets)
	return targets
}
