package compile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorewood/rex/internal/cache"
	"github.com/gorewood/rex/internal/library"
)

// --- Test Helpers ---

type fixture struct {
	lib        *library.Library
	mgr        *cache.Manager
	libDir     string
	projectDir string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	libDir := t.TempDir()
	projectDir := t.TempDir()
	return &fixture{
		lib:        library.New(libDir, nil),
		mgr:        cache.NewManager(filepath.Join(projectDir, ".rex", "cache"), func(string, ...any) {}),
		libDir:     libDir,
		projectDir: projectDir,
	}
}

func (f *fixture) writePrompt(t *testing.T, name, frontmatter, body string) {
	t.Helper()
	content := body
	if frontmatter != "" {
		content = "---\n" + frontmatter + "\n---\n\n" + body
	}
	if err := os.WriteFile(filepath.Join(f.libDir, name+".md"), []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write prompt: %v", err)
	}
}

func (f *fixture) run(t *testing.T, opts Options) *Result {
	t.Helper()
	opts.ProjectDir = f.projectDir
	result, err := Run(f.lib, f.mgr, opts)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	return result
}

// --- Renderers ---

func TestCopilotRender(t *testing.T) {
	p := &library.Prompt{Name: "review", Description: "Code review", Content: "Review carefully."}

	content, err := (&CopilotRenderer{}).Render(p)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	text := string(content)
	if !strings.HasPrefix(text, "---\n") {
		t.Error("copilot artifact should start with frontmatter")
	}
	if !strings.Contains(text, `applyTo: '**'`) && !strings.Contains(text, `applyTo: "**"`) {
		t.Errorf("artifact should carry applyTo, got:\n%s", text)
	}
	if !strings.Contains(text, "Review carefully.") {
		t.Error("artifact should contain the prompt body")
	}
}

func TestCursorOutputPath(t *testing.T) {
	p := &library.Prompt{Name: "review"}
	got := (&CursorRenderer{}).OutputPath("/proj", p)
	want := filepath.Join("/proj", ".cursor", "rules", "review.mdc")
	if got != want {
		t.Errorf("OutputPath() = %q, want %q", got, want)
	}
}

func TestRegistryKnowsBuiltinTargets(t *testing.T) {
	for _, target := range []string{"copilot", "cursor"} {
		if GetRenderer(target) == nil {
			t.Errorf("GetRenderer(%q) = nil", target)
		}
	}
}

// --- Run ---

func TestRunCompilesAndWritesArtifacts(t *testing.T) {
	f := newFixture(t)
	f.writePrompt(t, "review", "name: review\ndescription: Code review", "Review carefully.")

	result := f.run(t, Options{})

	if len(result.Artifacts) != 2 {
		t.Fatalf("artifacts = %v, want one per registered target", result.Artifacts)
	}
	for _, a := range result.Artifacts {
		data, err := os.ReadFile(a.Path)
		if err != nil {
			t.Errorf("artifact %s not written: %v", a.Path, err)
			continue
		}
		if !strings.Contains(string(data), "Review carefully.") {
			t.Errorf("artifact %s missing prompt body", a.Path)
		}
	}
}

func TestRunSkipsUnchangedOnSecondRun(t *testing.T) {
	f := newFixture(t)
	f.writePrompt(t, "review", "name: review", "Review carefully.")

	first := f.run(t, Options{})
	if len(first.Artifacts) == 0 {
		t.Fatal("first run should compile")
	}

	second := f.run(t, Options{})
	if len(second.Artifacts) != 0 {
		t.Errorf("second run artifacts = %v, want none", second.Artifacts)
	}
	if len(second.Skipped) != 1 || second.Skipped[0] != "review" {
		t.Errorf("skipped = %v, want [review]", second.Skipped)
	}
}

func TestRunRecompilesAfterEdit(t *testing.T) {
	f := newFixture(t)
	f.writePrompt(t, "review", "name: review", "Review carefully.")
	f.run(t, Options{})

	f.writePrompt(t, "review", "name: review", "Review even more carefully.")

	result := f.run(t, Options{})
	if len(result.Artifacts) == 0 {
		t.Error("edited prompt should recompile")
	}
}

func TestRunForceRecompiles(t *testing.T) {
	f := newFixture(t)
	f.writePrompt(t, "review", "name: review", "Review carefully.")
	f.run(t, Options{})

	result := f.run(t, Options{Force: true})
	if len(result.Artifacts) == 0 {
		t.Error("force run should recompile unchanged prompts")
	}
}

func TestRunDryRunWritesNothing(t *testing.T) {
	f := newFixture(t)
	f.writePrompt(t, "review", "name: review", "Review carefully.")

	result := f.run(t, Options{DryRun: true})

	if len(result.Artifacts) == 0 {
		t.Fatal("dry run should still report artifacts")
	}
	for _, a := range result.Artifacts {
		if _, err := os.Stat(a.Path); !os.IsNotExist(err) {
			t.Errorf("dry run must not write %s", a.Path)
		}
	}

	// Cache must be untouched: the next real run still compiles.
	real := f.run(t, Options{})
	if len(real.Artifacts) == 0 {
		t.Error("run after dry run should compile")
	}
}

func TestRunHonorsPromptTargets(t *testing.T) {
	f := newFixture(t)
	f.writePrompt(t, "cursor-only", "name: cursor-only\ntargets: [cursor]", "Body.")

	result := f.run(t, Options{})

	if len(result.Artifacts) != 1 || result.Artifacts[0].Target != "cursor" {
		t.Errorf("artifacts = %v, want single cursor artifact", result.Artifacts)
	}
}

func TestRunTagFilter(t *testing.T) {
	f := newFixture(t)
	f.writePrompt(t, "go-review", "name: go-review\ntags: [go]", "Go body.")
	f.writePrompt(t, "py-review", "name: py-review\ntags: [python]", "Py body.")

	result := f.run(t, Options{Tags: []string{"go"}})

	for _, a := range result.Artifacts {
		if a.Prompt != "go-review" {
			t.Errorf("unexpected artifact %v for tag filter", a)
		}
	}
	if len(result.Artifacts) == 0 {
		t.Error("tag-matching prompt should compile")
	}
}

func TestRunUnknownTarget(t *testing.T) {
	f := newFixture(t)
	if _, err := Run(f.lib, f.mgr, Options{ProjectDir: f.projectDir, Targets: []string{"nope"}}); err == nil {
		t.Error("unknown target should fail")
	}
}
