package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestPrinterSuccessJSON(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, true, false)

	if err := p.Success(map[string]any{"message": "done", "count": 3}); err != nil {
		t.Fatalf("Success() error: %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if out["message"] != "done" {
		t.Errorf("message = %v, want done", out["message"])
	}
}

func TestPrinterSuccessHuman(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false, false)

	if err := p.Success(map[string]any{"message": "compiled 2 prompts"}); err != nil {
		t.Fatalf("Success() error: %v", err)
	}
	if !strings.Contains(buf.String(), "compiled 2 prompts") {
		t.Errorf("output %q should contain the message", buf.String())
	}
}

func TestPrinterErrorJSON(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, true, false)

	p.Error(NewSystemError("cache write failed"))

	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if out["error"] != "cache write failed" {
		t.Errorf("error = %v, want cache write failed", out["error"])
	}
	if out["code"].(float64) != ExitSystemError {
		t.Errorf("code = %v, want %d", out["code"], ExitSystemError)
	}
}

func TestPrinterErrorHumanGoesToStderr(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, false, false).WithStderr(&errOut)

	p.Error(NewUserError("unknown prompt"))

	if out.Len() != 0 {
		t.Errorf("stdout should be empty, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "unknown prompt") {
		t.Errorf("stderr %q should contain the message", errOut.String())
	}
}

func TestPrinterWarn(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, false, false).WithStderr(&errOut)

	p.Warn("failed to parse %s", "config.json")

	if !strings.Contains(errOut.String(), "config.json") {
		t.Errorf("stderr %q should contain the warning", errOut.String())
	}
}

func TestPrinterWarnJSON(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, true, false)

	p.Warn("stale cache")

	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if out["warning"] != "stale cache" {
		t.Errorf("warning = %v, want stale cache", out["warning"])
	}
}

func TestPrinterTable(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false, false)

	p.Table([]string{"NAME", "TAGS"}, [][]string{
		{"code-review", "review,go"},
		{"tests", "testing"},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[1], "code-review") {
		t.Errorf("row %q should start with prompt name", lines[1])
	}
}

func TestResolveColorMode(t *testing.T) {
	tests := []struct {
		mode  string
		isTTY bool
		want  bool
	}{
		{"never", true, false},
		{"always", false, true},
		{"auto", true, true},
		{"auto", false, false},
		{"", true, true},
	}
	for _, tt := range tests {
		if got := ResolveColorMode(tt.mode, tt.isTTY); got != tt.want {
			t.Errorf("ResolveColorMode(%q, %v) = %v, want %v", tt.mode, tt.isTTY, got, tt.want)
		}
	}
}
