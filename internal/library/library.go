// Package library models the personal prompt library: markdown files with
// optional YAML frontmatter, stored in one directory and addressed by name.
package library

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Prompt is one prompt file from the library.
type Prompt struct {
	// Metadata from frontmatter
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags,omitempty"`
	Targets     []string `yaml:"targets,omitempty"`

	// Prompt content (after frontmatter)
	Content string `yaml:"-"`

	// Path is the absolute source file path.
	Path string `yaml:"-"`
}

// WarnFunc receives non-fatal scan events (unreadable or unparsable files).
type WarnFunc func(format string, args ...any)

// Library reads prompts from a directory.
type Library struct {
	dir   string
	warnf WarnFunc
}

// New creates a library over dir.
func New(dir string, warnf WarnFunc) *Library {
	if warnf == nil {
		warnf = func(string, ...any) {}
	}
	return &Library{dir: dir, warnf: warnf}
}

// Dir returns the library directory.
func (l *Library) Dir() string {
	return l.dir
}

// Scan returns all prompts in the library sorted by name. Files that cannot
// be read or parsed are skipped with a warning. A missing library directory
// yields an empty result, not an error.
func (l *Library) Scan() ([]*Prompt, error) {
	dirEntries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading library directory %s: %w", l.dir, err)
	}

	var prompts []*Prompt
	for _, entry := range dirEntries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		path := filepath.Join(l.dir, entry.Name())
		prompt, err := Load(path)
		if err != nil {
			l.warnf("skipping %s: %v", path, err)
			continue
		}
		prompts = append(prompts, prompt)
	}

	sort.Slice(prompts, func(i, j int) bool { return prompts[i].Name < prompts[j].Name })
	return prompts, nil
}

// Find returns the prompt with the given name, or nil if absent.
func (l *Library) Find(name string) (*Prompt, error) {
	prompts, err := l.Scan()
	if err != nil {
		return nil, err
	}
	for _, p := range prompts {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, nil
}

// Load reads and parses a single prompt file.
// A prompt without frontmatter gets its file basename as the name.
func Load(path string) (*Prompt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading prompt %s: %w", path, err)
	}

	prompt, err := parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing prompt %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	prompt.Path = abs
	if prompt.Name == "" {
		prompt.Name = strings.TrimSuffix(filepath.Base(path), ".md")
	}
	return prompt, nil
}

// parse parses raw prompt text with optional YAML frontmatter.
func parse(raw string) (*Prompt, error) {
	frontmatter, content := splitFrontmatter(raw)

	var prompt Prompt
	if frontmatter != "" {
		if err := yaml.Unmarshal([]byte(frontmatter), &prompt); err != nil {
			return nil, fmt.Errorf("invalid frontmatter: %w", err)
		}
	}

	prompt.Content = strings.TrimSpace(content)
	return &prompt, nil
}

// splitFrontmatter separates YAML frontmatter from content.
// Frontmatter is delimited by --- at the start and end.
func splitFrontmatter(raw string) (frontmatter, content string) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "---") {
		return "", raw
	}

	rest := raw[3:] // skip opening ---
	before, after, ok := strings.Cut(rest, "\n---")
	if !ok {
		return "", raw
	}

	return strings.TrimSpace(before), strings.TrimSpace(after)
}

// HasTag reports whether the prompt carries the given tag.
func (p *Prompt) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// TargetsInclude reports whether the prompt should be published to target.
// A prompt with no explicit targets publishes everywhere.
func (p *Prompt) TargetsInclude(target string) bool {
	if len(p.Targets) == 0 {
		return true
	}
	for _, t := range p.Targets {
		if t == target {
			return true
		}
	}
	return false
}
