package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReloadTick_PicksUpNewPages(t *testing.T) {
	s, m := newTestApp(t)
	if got := len(m.pagesList.Items()); got != 0 {
		t.Fatalf("expected an empty list, got %d rows", got)
	}

	if _, err := s.CreatePage("", "Alpha", nil, "body"); err != nil {
		t.Fatalf("create page: %v", err)
	}

	m = press(m, reloadTickMsg{})
	if got := len(m.pagesList.Items()); got != 1 {
		t.Fatalf("expected the tick to pick up the new page, got %d rows", got)
	}
}

func TestReloadTick_ReloadsOpenPageChangedOnDisk(t *testing.T) {
	s, m := newTestApp(t)
	p, err := s.CreatePage("", "Alpha", nil, "short")
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	(&m).refreshPages()
	(&m).openPage(p.Path)

	// Rewrite the page behind the app's back.
	p2, err := s.LoadPage(p.Path)
	if err != nil {
		t.Fatalf("load page: %v", err)
	}
	p2.Body = "# Alpha\n\nChanged on disk, much longer now."
	if err := s.SavePage(p2); err != nil {
		t.Fatalf("save page: %v", err)
	}

	m = press(m, reloadTickMsg{})
	if m.page == nil || !strings.Contains(m.page.Body, "Changed on disk") {
		t.Fatalf("expected the open page reloaded from disk")
	}
	if !strings.Contains(m.minibufferText, "Reloaded") {
		t.Fatalf("expected a reload notice, got %q", m.minibufferText)
	}
}

func TestReloadTick_ClosesDialogWhenPageRemoved(t *testing.T) {
	s, m := newTestApp(t)
	p, err := s.CreatePage("", "Alpha", nil, "body")
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	(&m).refreshPages()
	(&m).openPage(p.Path)

	m = press(m, keyRune('e'))
	if m.modal != modalFrontmatter {
		t.Fatalf("expected frontmatter dialog, got %v", m.modal)
	}

	if err := os.Remove(filepath.Join(s.Root, "alpha.md")); err != nil {
		t.Fatalf("remove page file: %v", err)
	}

	m = press(m, reloadTickMsg{})
	if m.modal != modalNone {
		t.Fatalf("expected the dialog bound to the removed page to close")
	}
	if !strings.Contains(m.minibufferText, "Page removed") {
		t.Fatalf("expected a removal notice, got %q", m.minibufferText)
	}
}
