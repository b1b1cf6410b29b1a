package mutate

import (
	"testing"

	"curio-cli/internal/frontmatter"
)

func TestArraySet(t *testing.T) {
	items := frontmatter.Array{"a", "b", "c"}

	out, changed := ArraySet(items, 1, "B")
	if !changed {
		t.Fatalf("expected set to apply")
	}
	if out[1] != "B" || items[1] != "b" {
		t.Fatalf("expected copy-on-write; got out=%v items=%v", out, items)
	}

	if _, changed := ArraySet(items, 3, "x"); changed {
		t.Fatalf("expected reject past end")
	}
	if _, changed := ArraySet(items, -1, "x"); changed {
		t.Fatalf("expected reject below zero")
	}
}

func TestArrayAppend(t *testing.T) {
	items := frontmatter.Array{"a"}
	out := ArrayAppend(items, "b")
	if len(out) != 2 || out[1] != "b" {
		t.Fatalf("expected [a b]; got %v", out)
	}
	if len(items) != 1 {
		t.Fatalf("input mutated: %v", items)
	}
}

func TestArrayRemove(t *testing.T) {
	items := frontmatter.Array{"a", "b", "c"}
	out, changed := ArrayRemove(items, 1)
	if !changed {
		t.Fatalf("expected remove to apply")
	}
	if len(out) != 2 || out[0] != "a" || out[1] != "c" {
		t.Fatalf("expected [a c]; got %v", out)
	}
	if len(items) != 3 {
		t.Fatalf("input mutated: %v", items)
	}

	if _, changed := ArrayRemove(items, 5); changed {
		t.Fatalf("expected reject past end")
	}
}
