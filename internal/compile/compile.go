package compile

import (
	"os"
	"path/filepath"

	"github.com/gorewood/rex/internal/cache"
	"github.com/gorewood/rex/internal/library"
	"github.com/gorewood/rex/internal/output"
)

// Options controls one compilation run.
type Options struct {
	// ProjectDir is the root the artifacts are written under.
	ProjectDir string

	// Targets selects renderers by name. Empty means all registered targets.
	Targets []string

	// Tags, when non-empty, restricts compilation to prompts carrying at
	// least one of the given tags.
	Tags []string

	// Force recompiles every prompt regardless of the fingerprint cache.
	Force bool

	// DryRun reports what would be compiled without writing artifacts or
	// updating the cache.
	DryRun bool
}

// Artifact records one rendered output file.
type Artifact struct {
	Prompt string `json:"prompt"`
	Target string `json:"target"`
	Path   string `json:"path"`
}

// Result summarizes a compilation run.
type Result struct {
	Artifacts []Artifact `json:"artifacts"`
	Skipped   []string   `json:"skipped,omitempty"` // unchanged prompt names
}

// Run compiles the library: classify sources against the fingerprint cache,
// render the changed ones for each requested target, record fingerprints for
// successfully compiled prompts, and save the cache once at the end.
func Run(lib *library.Library, mgr *cache.Manager, opts Options) (*Result, error) {
	renderers, err := resolveRenderers(opts.Targets)
	if err != nil {
		return nil, err
	}

	prompts, err := lib.Scan()
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to scan prompt library", err)
	}
	prompts = filterByTags(prompts, opts.Tags)

	paths := make([]string, len(prompts))
	for i, p := range prompts {
		paths[i] = p.Path
	}
	_, unchanged := mgr.Classify(paths)
	unchangedSet := make(map[string]bool, len(unchanged))
	for _, path := range unchanged {
		unchangedSet[path] = true
	}

	fingerprints, detections := mgr.Load()
	result := &Result{}

	for _, p := range prompts {
		if unchangedSet[p.Path] && !opts.Force {
			result.Skipped = append(result.Skipped, p.Name)
			continue
		}

		compiled, err := renderPrompt(p, renderers, opts, result)
		if err != nil {
			return nil, err
		}
		if compiled && !opts.DryRun {
			mgr.UpdateFingerprint(p.Path, fingerprints)
		}
	}

	if !opts.DryRun {
		mgr.Save(fingerprints, detections)
	}
	return result, nil
}

// renderPrompt writes the prompt's artifact for every renderer whose target
// the prompt publishes to. Returns whether at least one artifact was produced.
func renderPrompt(p *library.Prompt, renderers []Renderer, opts Options, result *Result) (bool, error) {
	compiled := false
	for _, r := range renderers {
		if !p.TargetsInclude(r.Target()) {
			continue
		}

		outPath := r.OutputPath(opts.ProjectDir, p)
		if !opts.DryRun {
			content, err := r.Render(p)
			if err != nil {
				return false, output.NewSystemErrorWithCause("failed to render "+p.Name, err)
			}
			if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
				return false, output.NewFilesystemError("creating output directory for", outPath, err)
			}
			if err := os.WriteFile(outPath, content, 0o644); err != nil {
				return false, output.NewFilesystemError("writing artifact", outPath, err)
			}
		}

		compiled = true
		result.Artifacts = append(result.Artifacts, Artifact{
			Prompt: p.Name,
			Target: r.Target(),
			Path:   outPath,
		})
	}
	return compiled, nil
}

// resolveRenderers maps target names to renderers, defaulting to all.
func resolveRenderers(targets []string) ([]Renderer, error) {
	if len(targets) == 0 {
		targets = AllTargets()
	}
	renderers := make([]Renderer, 0, len(targets))
	for _, name := range targets {
		r := GetRenderer(name)
		if r == nil {
			return nil, output.NewUserError("unknown target: " + name)
		}
		renderers = append(renderers, r)
	}
	return renderers, nil
}

// filterByTags keeps prompts carrying at least one of the given tags.
// An empty tag list keeps everything.
func filterByTags(prompts []*library.Prompt, tags []string) []*library.Prompt {
	if len(tags) == 0 {
		return prompts
	}
	var kept []*library.Prompt
	for _, p := range prompts {
		for _, tag := range tags {
			if p.HasTag(tag) {
				kept = append(kept, p)
				break
			}
		}
	}
	return kept
}
