//go:build integration

package cli

import (
	"encoding/json"
	"testing"
)

func TestCLIIntegrationSmoke(t *testing.T) {
	t.Setenv("CURIO_CONFIG_DIR", t.TempDir())
	t.Setenv("CURIO_AUTOCOMMIT", "0")

	dir := t.TempDir()

	mustRun := func(args ...string) map[string]any {
		t.Helper()
		stdout, stderr, err := runCLI(t, args)
		if err != nil {
			t.Fatalf("command failed: curio %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, string(stderr), string(stdout))
		}
		var env map[string]any
		if err := json.Unmarshal(stdout, &env); err != nil {
			t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s\nargs: %v", err, string(stdout), args)
		}
		if _, ok := env["data"]; !ok {
			t.Fatalf("expected JSON envelope to contain data key; got: %v\nstdout:\n%s", env, string(stdout))
		}
		return env
	}

	dataMap := func(env map[string]any) map[string]any {
		t.Helper()
		m, ok := env["data"].(map[string]any)
		if !ok {
			t.Fatalf("expected data object; got: %#v", env["data"])
		}
		return m
	}

	// Init isolated workspace (the global registry stays untouched with --register=false).
	mustRun("init", dir, "--register=false")

	// Create a page and confirm the slugged path.
	created := dataMap(mustRun("--dir", dir, "pages", "create", "--title", "Cordless Drill", "--type", "tool", "--body", "# Cordless Drill\n\nLives on the garage shelf."))
	path, _ := created["path"].(string)
	if path != "cordless-drill.md" {
		t.Fatalf("expected slugged page path, got %q", path)
	}

	// Build up a frontmatter tree: add a section, rename it, set nested values.
	added := dataMap(mustRun("--dir", dir, "fm", "add", path, "--kind", "section"))
	if k, _ := added["key"].(string); k != "new_section" {
		t.Fatalf("expected generated section key, got %#v", added["key"])
	}
	mustRun("--dir", dir, "fm", "rename-key", path, "new_section", "specs")
	mustRun("--dir", dir, "fm", "set", path, "specs.voltage", "18V")
	mustRun("--dir", dir, "fm", "set", path, "tags", "power", "garage")
	mustRun("--dir", dir, "fm", "set", path, "needs_manual", "--absent")

	got := dataMap(mustRun("--dir", dir, "fm", "get", path, "specs.voltage"))
	if v, _ := got["value"].(string); v != "18V" {
		t.Fatalf("expected specs.voltage 18V, got %#v", got["value"])
	}

	// The whole tree rides along in the page payload.
	shown := dataMap(mustRun("--dir", dir, "pages", "show", path))
	fm, ok := shown["frontmatter"].(map[string]any)
	if !ok {
		t.Fatalf("expected frontmatter object in page payload; got %#v", shown["frontmatter"])
	}
	if _, ok := fm["specs"]; !ok {
		t.Fatalf("expected specs section on the saved page; frontmatter: %#v", fm)
	}

	mustRun("--dir", dir, "fm", "unset", path, "needs_manual")

	// Search goes through the index the edits maintained.
	res := mustRun("--dir", dir, "search", "drill")
	if hits, ok := res["data"].([]any); !ok || len(hits) == 0 {
		t.Fatalf("expected search hits for drill; got %#v", res["data"])
	}

	// Rename and delete complete the page lifecycle.
	mustRun("--dir", dir, "pages", "rename", path, "garage/drill.md")
	mustRun("--dir", dir, "pages", "show", "garage/drill.md")
	mustRun("--dir", dir, "pages", "delete", "garage/drill.md")
	if _, _, err := runCLI(t, []string{"--dir", dir, "pages", "show", "garage/drill.md"}); err == nil {
		t.Fatalf("expected show to fail after delete")
	}
}
