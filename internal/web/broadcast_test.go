package web

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPageBroadcasterSnapshot(t *testing.T) {
	root := t.TempDir()
	mustWrite := func(rel, body string) {
		t.Helper()
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	mustWrite("home.md", "# Home\n")
	mustWrite("garage/drill.md", "# Drill\n")
	mustWrite("notes.txt", "not a page\n")
	mustWrite(".curio/index.sqlite", "derived\n")

	b := newPageBroadcaster(root)
	defer b.Stop()

	stamps := b.snapshot()
	if len(stamps) != 2 {
		t.Fatalf("stamps = %v, want home.md and garage/drill.md", stamps)
	}
	if _, ok := stamps["garage/drill.md"]; !ok {
		t.Fatalf("missing nested page: %v", stamps)
	}

	rev := revOf(stamps)
	if rev == "" || rev == revOf(map[string]pageStamp{}) {
		t.Fatalf("rev = %q", rev)
	}

	mustWrite("home.md", "# Home, but longer\n")
	if got := revOf(b.snapshot()); got == rev {
		t.Fatalf("rev did not change after edit: %q", got)
	}
}

func TestResourceHubBroadcast(t *testing.T) {
	h := newResourceHub()
	ch, cancel := h.subscribe()

	h.broadcast()
	select {
	case <-ch:
	default:
		t.Fatalf("expected a queued notification")
	}

	// A full buffer must not block the broadcaster.
	for i := 0; i < 20; i++ {
		h.broadcast()
	}

	cancel()
	if _, ok := <-ch; ok {
		// Buffered notifications may drain first; the channel must end up closed.
		for range ch {
		}
	}
}
