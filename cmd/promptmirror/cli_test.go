package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
)

// run executes the CLI with args and stdin in an isolated home directory.
func run(t *testing.T, home, stdin string, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	t.Setenv("HOME", home)
	for _, key := range []string{"OPENAI_API_KEY", "GEMINI_API_KEY", "PROMPT_MIRROR_REMOTE_ENABLED"} {
		t.Setenv(key, "")
	}

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeCmd(t *testing.T) {
	out, err := run(t, t.TempDir(), "", "analyze", "write", "something", "good")
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	for _, want := range []string{"Score:", "(rule_based)", `"something"`, "Role:\n["} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestAnalyzeCmd_JSONFromStdin(t *testing.T) {
	out, err := run(t, t.TempDir(), "You are a chef. Plan a menu.", "analyze", "--json")
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	var got struct {
		Input  string `json:"input"`
		Source string `json:"source"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got.Input != "You are a chef. Plan a menu." || got.Source != "rule_based" {
		t.Errorf("outcome = %+v", got)
	}
}

func TestRewriteCmd(t *testing.T) {
	out, err := run(t, t.TempDir(), "", "rewrite", "fix it")
	if err != nil {
		t.Fatalf("rewrite failed: %v", err)
	}
	if !strings.HasPrefix(out, "Role:\n") || !strings.HasSuffix(out, "\n") {
		t.Errorf("rewrite = %q", out)
	}
}

func TestDiffCmd(t *testing.T) {
	out, err := run(t, t.TempDir(), "", "diff", "write something good")
	if err != nil {
		t.Fatalf("diff failed: %v", err)
	}
	if !strings.Contains(out, "1 removed") || !strings.Contains(out, "- write something good") {
		t.Errorf("diff output:\n%s", out)
	}
}

func TestExportCmd(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, "out.md")
	if _, err := run(t, home, "", "export", "-f", "markdown", "-o", path, "fix it"); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	if !strings.HasPrefix(string(data), "# Prompt Mirror report") {
		t.Errorf("export = %q", data)
	}

	if _, err := run(t, home, "", "export", "-f", "pdf", "x"); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestPresetsCmd_Lifecycle(t *testing.T) {
	home := t.TempDir()

	out, err := run(t, home, "", "presets", "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "feature_spec") {
		t.Errorf("list missing built-in:\n%s", out)
	}

	if _, err := run(t, home, "", "presets", "add", "--id", "standup", "--label", "Standup", "--rough", "summarize the standup"); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	exportPath := filepath.Join(home, "presets.yaml")
	if _, err := run(t, home, "", "presets", "export", exportPath); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	if _, err := run(t, home, "", "presets", "delete", "feature_spec"); err == nil {
		t.Error("deleting a built-in should fail")
	}
	if _, err := run(t, home, "", "presets", "delete", "standup"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	out, err = run(t, home, "", "presets", "import", exportPath)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if !strings.Contains(out, "Imported 1") {
		t.Errorf("import output = %q", out)
	}

	out, err = run(t, home, "", "presets", "show", "standup", "--analyze")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !strings.Contains(out, "summarize the standup") || !strings.Contains(out, "Score:") {
		t.Errorf("show output:\n%s", out)
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, t.TempDir(), "", "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "promptmirror v") {
		t.Errorf("version = %q", out)
	}
}

func TestMissingConfigFile(t *testing.T) {
	if _, err := run(t, t.TempDir(), "", "--config", "/nonexistent/config.yaml", "analyze", "x"); err == nil {
		t.Error("expected error for missing explicit config")
	}
}
