package store

import (
	"context"
	"path/filepath"
	"testing"

	"curio-cli/internal/frontmatter"
)

func TestReindexAndSearch(t *testing.T) {
	s := tempWorkspace(t)
	ctx := context.Background()

	writePage(t, s, "garage/drill.md", "---\ntitle: Power Drill\ntype: tool\nbrand: Ryobi\n---\n")
	writePage(t, s, "notes/shopping.md", "---\ntitle: Shopping\nneeds:\n  - drill bits\n  - sandpaper\n---\n")
	writePage(t, s, "plain.md", "no frontmatter here\n")

	n, err := s.Reindex(ctx)
	if err != nil {
		t.Fatalf("Reindex: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 pages indexed, got %d", n)
	}

	// Title hits rank before frontmatter hits.
	res, err := s.Search(ctx, "drill")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res) != 2 {
		t.Fatalf("expected 2 results, got %+v", res)
	}
	if res[0].Path != "garage/drill.md" || res[0].Field != "title" {
		t.Fatalf("expected title hit first, got %+v", res[0])
	}
	if res[1].Path != "notes/shopping.md" || res[1].Field != "frontmatter" {
		t.Fatalf("expected frontmatter hit second, got %+v", res[1])
	}

	// Frontmatter-only match.
	res, err = s.Search(ctx, "ryobi")
	if err != nil {
		t.Fatalf("Search ryobi: %v", err)
	}
	if len(res) != 1 || res[0].Field != "frontmatter" {
		t.Fatalf("expected one frontmatter hit, got %+v", res)
	}

	// Empty query returns nothing rather than everything.
	res, err = s.Search(ctx, "   ")
	if err != nil {
		t.Fatalf("Search blank: %v", err)
	}
	if len(res) != 0 {
		t.Fatalf("expected no results for blank query, got %+v", res)
	}
}

func TestIndexPage_UpsertAndRemove(t *testing.T) {
	s := tempWorkspace(t)
	ctx := context.Background()

	writePage(t, s, "box.md", "---\ntitle: Box\n---\n")
	if _, err := s.Reindex(ctx); err != nil {
		t.Fatalf("Reindex: %v", err)
	}

	p, err := s.LoadPage("box.md")
	if err != nil {
		t.Fatalf("LoadPage: %v", err)
	}
	fields := p.Frontmatter.Clone()
	fields.Set("title", frontmatter.Scalar("Crate"))
	p.Frontmatter = fields
	if err := s.SavePage(p); err != nil {
		t.Fatalf("SavePage: %v", err)
	}
	if err := s.IndexPage(ctx, p); err != nil {
		t.Fatalf("IndexPage: %v", err)
	}

	res, err := s.Search(ctx, "crate")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res) != 1 || res[0].Title != "Crate" {
		t.Fatalf("expected reindexed title, got %+v", res)
	}

	if err := s.RemoveFromIndex(ctx, "box.md"); err != nil {
		t.Fatalf("RemoveFromIndex: %v", err)
	}
	res, err = s.Search(ctx, "crate")
	if err != nil {
		t.Fatalf("Search after remove: %v", err)
	}
	if len(res) != 0 {
		t.Fatalf("expected no results after remove, got %+v", res)
	}
}

func TestDiscoverRoot(t *testing.T) {
	s := tempWorkspace(t)
	nested := filepath.Join(s.Root, "garage", "shelf")
	writePage(t, s, "garage/shelf/jar.md", "jar\n")

	root, ok := DiscoverRoot(nested)
	if !ok {
		t.Fatalf("expected to discover workspace from %s", nested)
	}
	if root != s.Root {
		t.Fatalf("expected %s, got %s", s.Root, root)
	}

	if _, ok := DiscoverRoot(t.TempDir()); ok {
		t.Fatalf("expected no workspace in a fresh temp dir")
	}
}
