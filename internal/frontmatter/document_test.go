package frontmatter

import (
	"strings"
	"testing"
)

func TestParseDocument_SplitsFrontmatterAndBody(t *testing.T) {
	src := "---\ntitle: Hello\ntags:\n  - a\n---\n# Heading\n\nbody text\n"
	doc, err := ParseDocument([]byte(src))
	if err != nil {
		t.Fatalf("ParseDocument error: %v", err)
	}
	title, _ := doc.Fields.Get("title")
	if title != Scalar("Hello") {
		t.Fatalf("expected title Hello; got %v", title)
	}
	if doc.Body != "# Heading\n\nbody text\n" {
		t.Fatalf("unexpected body: %q", doc.Body)
	}
}

func TestParseDocument_NoFence(t *testing.T) {
	doc, err := ParseDocument([]byte("just a body\n"))
	if err != nil {
		t.Fatalf("ParseDocument error: %v", err)
	}
	if doc.Fields.Len() != 0 {
		t.Fatalf("expected no fields; got %v", doc.Fields.Keys())
	}
	if doc.Body != "just a body\n" {
		t.Fatalf("unexpected body: %q", doc.Body)
	}
}

func TestParseDocument_UnclosedFenceIsBody(t *testing.T) {
	src := "---\ntitle: Hello\nno closing fence\n"
	doc, err := ParseDocument([]byte(src))
	if err != nil {
		t.Fatalf("ParseDocument error: %v", err)
	}
	if doc.Fields.Len() != 0 {
		t.Fatalf("expected no fields for unclosed fence; got %v", doc.Fields.Keys())
	}
	if doc.Body != src {
		t.Fatalf("expected whole content as body; got %q", doc.Body)
	}
}

func TestParseDocument_FenceAtEndOfInput(t *testing.T) {
	doc, err := ParseDocument([]byte("---\ntitle: Hello\n---"))
	if err != nil {
		t.Fatalf("ParseDocument error: %v", err)
	}
	title, _ := doc.Fields.Get("title")
	if title != Scalar("Hello") {
		t.Fatalf("expected title Hello; got %v", title)
	}
	if doc.Body != "" {
		t.Fatalf("expected empty body; got %q", doc.Body)
	}
}

func TestParseDocument_EmptyBlock(t *testing.T) {
	doc, err := ParseDocument([]byte("---\n---\nbody\n"))
	if err != nil {
		t.Fatalf("ParseDocument error: %v", err)
	}
	if doc.Fields.Len() != 0 {
		t.Fatalf("expected empty fields; got %v", doc.Fields.Keys())
	}
	if doc.Body != "body\n" {
		t.Fatalf("unexpected body: %q", doc.Body)
	}
}

func TestParseDocument_InvalidYAMLErrors(t *testing.T) {
	if _, err := ParseDocument([]byte("---\n[broken\n---\nbody\n")); err == nil {
		t.Fatalf("expected error for invalid frontmatter yaml")
	}
}

func TestParseDocument_HorizontalRuleBodyOnly(t *testing.T) {
	// A --- later in the body is a horizontal rule, not a fence.
	src := "intro\n---\nmore\n"
	doc, err := ParseDocument([]byte(src))
	if err != nil {
		t.Fatalf("ParseDocument error: %v", err)
	}
	if doc.Fields.Len() != 0 {
		t.Fatalf("expected no fields; got %v", doc.Fields.Keys())
	}
	if doc.Body != src {
		t.Fatalf("expected whole content as body; got %q", doc.Body)
	}
}

func TestDocumentRender_RoundTrip(t *testing.T) {
	src := "---\ntitle: Hello\ncount: 42\n---\nbody line\n"
	doc, err := ParseDocument([]byte(src))
	if err != nil {
		t.Fatalf("ParseDocument error: %v", err)
	}
	out, err := doc.Render()
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if string(out) != src {
		t.Fatalf("expected byte-identical round trip\nwant: %q\ngot:  %q", src, out)
	}
}

func TestDocumentRender_EmptyFieldsOmitsFences(t *testing.T) {
	doc := &Document{Fields: NewFields(), Body: "body only\n"}
	out, err := doc.Render()
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if strings.Contains(string(out), fence) {
		t.Fatalf("expected no fences for empty frontmatter; got %q", out)
	}
	if string(out) != "body only\n" {
		t.Fatalf("unexpected output: %q", out)
	}
}
