package compile

import (
	"bytes"
	"fmt"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gorewood/rex/internal/library"
)

func init() {
	RegisterRenderer(&CursorRenderer{})
}

// CursorRenderer publishes prompts as Cursor rule files under .cursor/rules/.
type CursorRenderer struct{}

// Target implements Renderer.
func (*CursorRenderer) Target() string { return "cursor" }

// DisplayName implements Renderer.
func (*CursorRenderer) DisplayName() string { return "Cursor" }

// OutputPath implements Renderer.
func (*CursorRenderer) OutputPath(projectDir string, p *library.Prompt) string {
	return filepath.Join(projectDir, ".cursor", "rules", p.Name+".mdc")
}

// cursorFrontmatter is the MDC rule header Cursor reads.
type cursorFrontmatter struct {
	Description string `yaml:"description,omitempty"`
	AlwaysApply bool   `yaml:"alwaysApply"`
}

// Render implements Renderer.
func (*CursorRenderer) Render(p *library.Prompt) ([]byte, error) {
	header, err := yaml.Marshal(cursorFrontmatter{
		Description: p.Description,
		AlwaysApply: false,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering cursor frontmatter for %s: %w", p.Name, err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(header)
	buf.WriteString("---\n\n")
	buf.WriteString(p.Content)
	buf.WriteString("\n")
	return buf.Bytes(), nil
}
