package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"curio-cli/internal/store"
)

func TestWorkspaceFlagOverridesEnvDir(t *testing.T) {
	t.Setenv("CURIO_AUTOCOMMIT", "0")

	cfgDir := t.TempDir()
	t.Setenv("CURIO_CONFIG_DIR", cfgDir)

	// Seed the registered workspace with the target page.
	wsName := "inventory"
	wsDir := t.TempDir()
	ws := store.Store{Root: wsDir}
	if _, err := ws.Init(wsName); err != nil {
		t.Fatalf("init workspace store: %v", err)
	}
	p, err := ws.CreatePage("", "Target Page", nil, "# Target Page\n\nLives in the registered workspace.")
	if err != nil {
		t.Fatalf("seed workspace page: %v", err)
	}
	if err := store.RegisterWorkspace(wsName, wsDir); err != nil {
		t.Fatalf("register workspace: %v", err)
	}

	// Seed a different store dir (CURIO_DIR) that does not contain the page.
	envDir := t.TempDir()
	env := store.Store{Root: envDir}
	if _, err := env.Init("decoy"); err != nil {
		t.Fatalf("init env store: %v", err)
	}
	if _, err := env.CreatePage("", "Other", nil, "decoy"); err != nil {
		t.Fatalf("seed env page: %v", err)
	}

	t.Setenv("CURIO_DIR", envDir)

	cmd := NewRootCmd()
	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs([]string{"pages", "show", p.Path, "--workspace", wsName})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute error: %v\nstderr:\n%s", err, errBuf.String())
	}

	var out struct {
		Data struct {
			Path  string `json:"path"`
			Title string `json:"title"`
		} `json:"data"`
	}
	if err := json.Unmarshal(outBuf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal output: %v\nstdout:\n%s", err, outBuf.String())
	}
	if out.Data.Path != p.Path {
		t.Fatalf("unexpected page path: got %q want %q\nstdout:\n%s", out.Data.Path, p.Path, outBuf.String())
	}
	if out.Data.Title != "Target Page" {
		t.Fatalf("unexpected title: got %q want %q", out.Data.Title, "Target Page")
	}
}
