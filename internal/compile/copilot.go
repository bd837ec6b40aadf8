package compile

import (
	"bytes"
	"fmt"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gorewood/rex/internal/library"
)

func init() {
	RegisterRenderer(&CopilotRenderer{})
}

// CopilotRenderer publishes prompts as GitHub Copilot instruction files
// under .github/instructions/.
type CopilotRenderer struct{}

// Target implements Renderer.
func (*CopilotRenderer) Target() string { return "copilot" }

// DisplayName implements Renderer.
func (*CopilotRenderer) DisplayName() string { return "GitHub Copilot" }

// OutputPath implements Renderer.
func (*CopilotRenderer) OutputPath(projectDir string, p *library.Prompt) string {
	return filepath.Join(projectDir, ".github", "instructions", p.Name+".instructions.md")
}

// copilotFrontmatter is the instruction-file header Copilot reads.
type copilotFrontmatter struct {
	ApplyTo     string `yaml:"applyTo"`
	Description string `yaml:"description,omitempty"`
}

// Render implements Renderer.
func (*CopilotRenderer) Render(p *library.Prompt) ([]byte, error) {
	header, err := yaml.Marshal(copilotFrontmatter{
		ApplyTo:     "**",
		Description: p.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering copilot frontmatter for %s: %w", p.Name, err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(header)
	buf.WriteString("---\n\n")
	buf.WriteString(p.Content)
	buf.WriteString("\n")
	return buf.Bytes(), nil
}
