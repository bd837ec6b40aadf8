package main

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestListCommand(t *testing.T) {
	configHome, project := setupWorkspace(t)
	writePrompt(t, configHome, "review", "---\nname: review\ndescription: Code review\ntags: [go]\n---\nReview.")
	writePrompt(t, configHome, "docs", "---\nname: docs\ndescription: Write docs\ntags: [writing]\n---\nDocs.")

	out, err := runCmd(t, "list", "--project", project)
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	for _, want := range []string{"NAME", "review", "docs", "Code review"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
}

func TestListCommand_Empty(t *testing.T) {
	_, project := setupWorkspace(t)

	out, err := runCmd(t, "list", "--project", project)
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	if !strings.Contains(out, "No prompts in library") {
		t.Errorf("output = %q, want empty-library message", out)
	}
}

func TestListCommand_TagFilter(t *testing.T) {
	configHome, project := setupWorkspace(t)
	writePrompt(t, configHome, "review", "---\nname: review\ntags: [go]\n---\nReview.")
	writePrompt(t, configHome, "docs", "---\nname: docs\ntags: [writing]\n---\nDocs.")

	out, err := runCmd(t, "list", "--tag", "go", "--json", "--project", project)
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	var result struct {
		Count   int `json:"count"`
		Prompts []struct {
			Name string `json:"name"`
		} `json:"prompts"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("invalid JSON output: %v\noutput: %s", err, out)
	}
	if result.Count != 1 || result.Prompts[0].Name != "review" {
		t.Errorf("result = %+v, want only review", result)
	}
}

func TestListCommand_LibraryDirFromConfig(t *testing.T) {
	_, project := setupWorkspace(t)
	altLib := t.TempDir()
	writePromptAt(t, altLib, "special", "---\nname: special\n---\nSpecial.")

	mustRun(t, "config", "set", "library.dir", altLib, "--project", project)

	out, err := runCmd(t, "list", "--project", project)
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	if !strings.Contains(out, "special") {
		t.Errorf("library.dir config should redirect the library: %s", out)
	}
}
