//go:build integration

// Package integration provides integration tests for the rex CLI.
// These tests build the real binary and run full command workflows
// against temporary config homes and project directories.
//
// Run with: go test -tags=integration ./internal/integration/...
package integration

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// testWorkspace is a helper for running the built rex binary against an
// isolated config home and project directory.
type testWorkspace struct {
	t          *testing.T
	binary     string
	configHome string
	project    string
}

// newTestWorkspace builds the rex binary and prepares isolated directories.
func newTestWorkspace(t *testing.T) *testWorkspace {
	t.Helper()

	dir := t.TempDir()

	binary := filepath.Join(dir, "rex")
	buildCmd := exec.Command("go", "build", "-o", binary, "./cmd/rex")
	buildCmd.Dir = findProjectRoot(t)
	buildCmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to build rex: %v\n%s", err, output)
	}

	ws := &testWorkspace{
		t:          t,
		binary:     binary,
		configHome: filepath.Join(dir, "config"),
		project:    filepath.Join(dir, "project"),
	}
	for _, d := range []string{filepath.Join(ws.configHome, "prompts"), ws.project} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("failed to create %s: %v", d, err)
		}
	}
	return ws
}

// findProjectRoot locates the project root by finding go.mod.
func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// run executes rex with args and fails the test on a non-zero exit.
func (w *testWorkspace) run(args ...string) string {
	w.t.Helper()

	output, err := w.runMayFail(args...)
	if err != nil {
		w.t.Fatalf("rex %v failed: %v\n%s", args, err, output)
	}
	return output
}

// runMayFail executes rex with args and returns combined output.
func (w *testWorkspace) runMayFail(args ...string) (string, error) {
	w.t.Helper()

	args = append(args, "--project", w.project)
	cmd := exec.Command(w.binary, args...)
	cmd.Env = append(os.Environ(), "REX_CONFIG_HOME="+w.configHome)
	output, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(output)), err
}

// addPrompt writes a prompt file into the workspace library.
func (w *testWorkspace) addPrompt(name, content string) {
	w.t.Helper()

	path := filepath.Join(w.configHome, "prompts", name+".md")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		w.t.Fatalf("failed to write prompt: %v", err)
	}
}

func TestCompileWorkflow(t *testing.T) {
	ws := newTestWorkspace(t)
	ws.addPrompt("review", "---\nname: review\ndescription: Code review\n---\nReview carefully.")

	ws.run("compile")

	for _, artifact := range []string{
		filepath.Join(ws.project, ".github", "instructions", "review.instructions.md"),
		filepath.Join(ws.project, ".cursor", "rules", "review.mdc"),
	} {
		if _, err := os.Stat(artifact); err != nil {
			t.Errorf("artifact not written: %v", err)
		}
	}

	// Second run is served from the fingerprint cache.
	output := ws.run("compile", "--json")
	var result map[string]any
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, output)
	}
	if result["compiled"] != float64(0) || result["skipped"] != float64(1) {
		t.Errorf("second compile = %v, want skip", result)
	}

	// Editing the prompt invalidates the cache.
	ws.addPrompt("review", "---\nname: review\n---\nReview very carefully.")
	output = ws.run("compile", "--json")
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if result["compiled"] != float64(2) {
		t.Errorf("compile after edit = %v, want recompile", result)
	}
}

func TestConfigWorkflow(t *testing.T) {
	ws := newTestWorkspace(t)

	ws.run("config", "set", "deploy.target", "copilot", "--global")
	ws.run("config", "set", "deploy.target", "cursor")

	if got := ws.run("config", "get", "deploy.target"); got != "cursor" {
		t.Errorf("project scope should win, got %q", got)
	}

	ws.run("config", "unset", "deploy.target")
	if got := ws.run("config", "get", "deploy.target"); got != "copilot" {
		t.Errorf("global value should resurface after unset, got %q", got)
	}

	if _, err := ws.runMayFail("config", "validate", "deploy.target", "missing.key"); err == nil {
		t.Error("validate with a missing key should exit non-zero")
	}
}

func TestDeployAndDetectWorkflow(t *testing.T) {
	ws := newTestWorkspace(t)
	ws.addPrompt("review", "---\nname: review\n---\nReview.")

	ws.run("config", "set", "deploy.target", "cursor")
	ws.run("deploy")

	if _, err := os.Stat(filepath.Join(ws.project, ".cursor", "rules", "review.mdc")); err != nil {
		t.Fatalf("deploy artifact not written: %v", err)
	}

	// Deploy created .cursor, so detection sees the integration.
	output := ws.run("detect", "--max-age", "0", "--json")
	var result struct {
		Detected []string `json:"detected"`
	}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, output)
	}
	found := false
	for _, item := range result.Detected {
		if item == "cursor" {
			found = true
		}
	}
	if !found {
		t.Errorf("detect should report cursor, got %v", result.Detected)
	}
}

func TestCacheWorkflow(t *testing.T) {
	ws := newTestWorkspace(t)
	ws.addPrompt("review", "---\nname: review\n---\nReview.")

	ws.run("compile")

	output := ws.run("cache", "stats", "--json")
	var stats struct {
		FingerprintEntries int  `json:"fingerprint_entries"`
		Exists             bool `json:"exists"`
	}
	if err := json.Unmarshal([]byte(output), &stats); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, output)
	}
	if !stats.Exists || stats.FingerprintEntries != 1 {
		t.Errorf("stats = %+v, want one fingerprint", stats)
	}

	ws.run("cache", "clear")
	if _, err := os.Stat(filepath.Join(ws.project, ".rex", "cache")); !os.IsNotExist(err) {
		t.Error("cache directory should be gone after clear")
	}
}
