package server

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/HendryAvila/prompt-mirror/internal/mirror"
	"github.com/HendryAvila/prompt-mirror/internal/presets"
)

func newTestServerDeps(t *testing.T, withPresets bool) Deps {
	t.Helper()
	deps := Deps{
		Analyzer:      mirror.NewService(mirror.Options{}),
		MaxInputChars: mirror.DefaultMaxInputChars,
	}
	if withPresets {
		store, err := presets.New(presets.Config{DataDir: t.TempDir()})
		if err != nil {
			t.Fatalf("setup: create preset store: %v", err)
		}
		t.Cleanup(func() { store.Close() })
		deps.Presets = store
	}
	return deps
}

// listTools sends a tools/list JSON-RPC message through the server and
// returns the raw response.
func listTools(t *testing.T, deps Deps) string {
	t.Helper()
	s := New(deps)
	msg := json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	resp := s.HandleMessage(context.Background(), msg)

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	return string(data)
}

func TestNew_RegistersAllTools(t *testing.T) {
	names := listTools(t, newTestServerDeps(t, true))
	for _, want := range []string{
		"mirror_analyze", "mirror_rewrite", "mirror_export", "mirror_diff",
		"mirror_presets", "mirror_save_preset",
	} {
		if !strings.Contains(names, `"`+want+`"`) {
			t.Errorf("tool %s not registered (got %s)", want, names)
		}
	}
}

func TestNew_WithoutPresets(t *testing.T) {
	names := listTools(t, newTestServerDeps(t, false))
	if strings.Contains(names, `"mirror_presets"`) {
		t.Error("preset tools should be skipped without a store")
	}
	if !strings.Contains(names, `"mirror_analyze"`) {
		t.Error("analysis tools should always be registered")
	}
}

func TestServerInstructions_MentionsResources(t *testing.T) {
	ins := serverInstructions()
	for _, want := range []string{"mirror://rubric", "mirror://schema", "mirror_analyze", "byte offsets"} {
		if !strings.Contains(ins, want) {
			t.Errorf("instructions missing %q", want)
		}
	}
}
