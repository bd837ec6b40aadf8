package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gorewood/rex/internal/output"
)

func TestDeployCommand_RequiresTarget(t *testing.T) {
	_, project := setupWorkspace(t)

	_, err := runCmd(t, "deploy", "--project", project)
	if err == nil {
		t.Fatal("deploy without a target should fail")
	}
	if !errors.Is(err, output.ErrValidation) {
		t.Errorf("error should be a validation error: %v", err)
	}
}

func TestDeployCommand_TargetFlag(t *testing.T) {
	configHome, project := setupWorkspace(t)
	writePrompt(t, configHome, "review", "---\nname: review\n---\nReview carefully.")

	mustRun(t, "deploy", "--target", "cursor", "--project", project)

	if _, err := os.Stat(filepath.Join(project, ".cursor", "rules", "review.mdc")); err != nil {
		t.Errorf("artifact not written: %v", err)
	}
}

func TestDeployCommand_TargetFromConfig(t *testing.T) {
	configHome, project := setupWorkspace(t)
	writePrompt(t, configHome, "review", "---\nname: review\n---\nReview carefully.")

	mustRun(t, "config", "set", "deploy.target", "copilot", "--project", project)
	mustRun(t, "deploy", "--project", project)

	artifact := filepath.Join(project, ".github", "instructions", "review.instructions.md")
	if _, err := os.Stat(artifact); err != nil {
		t.Errorf("artifact not written: %v", err)
	}
}

func TestDeployCommand_FlagOverridesConfig(t *testing.T) {
	configHome, project := setupWorkspace(t)
	writePrompt(t, configHome, "review", "---\nname: review\n---\nReview carefully.")

	mustRun(t, "config", "set", "deploy.target", "copilot", "--project", project)
	mustRun(t, "deploy", "--target", "cursor", "--project", project)

	if _, err := os.Stat(filepath.Join(project, ".cursor", "rules", "review.mdc")); err != nil {
		t.Errorf("flag target artifact not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(project, ".github")); !os.IsNotExist(err) {
		t.Error("config target should be shadowed by the flag")
	}
}

func TestDeployCommand_DefaultTagsFilter(t *testing.T) {
	configHome, project := setupWorkspace(t)
	writePrompt(t, configHome, "review", "---\nname: review\ntags: [go]\n---\nReview.")
	writePrompt(t, configHome, "docs", "---\nname: docs\ntags: [writing]\n---\nWrite docs.")

	mustRun(t, "config", "set", "deploy.defaultTags", `["go"]`, "--project", project)
	mustRun(t, "deploy", "--target", "cursor", "--project", project)

	if _, err := os.Stat(filepath.Join(project, ".cursor", "rules", "review.mdc")); err != nil {
		t.Errorf("tagged prompt not deployed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(project, ".cursor", "rules", "docs.mdc")); !os.IsNotExist(err) {
		t.Error("untagged prompt should be filtered out")
	}
}
