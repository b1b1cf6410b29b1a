package frontmatter

import "testing"

func TestKindOf_BucketsAllShapes(t *testing.T) {
	if got := KindOf(Scalar("x")); got != KindScalar {
		t.Fatalf("expected KindScalar; got %v", got)
	}
	if got := KindOf(Array{"a"}); got != KindArray {
		t.Fatalf("expected KindArray; got %v", got)
	}
	if got := KindOf(NewFields()); got != KindSection {
		t.Fatalf("expected KindSection; got %v", got)
	}
	// Absent renders as a scalar-shaped row.
	if got := KindOf(nil); got != KindScalar {
		t.Fatalf("expected KindScalar for absent; got %v", got)
	}
}

func TestNodeEqual(t *testing.T) {
	inner := NewFields()
	inner.Set("a", Scalar("1"))

	other := NewFields()
	other.Set("a", Scalar("1"))

	cases := []struct {
		name string
		a, b Node
		want bool
	}{
		{"absent both", nil, nil, true},
		{"absent vs empty scalar", nil, Scalar(""), false},
		{"scalar equal", Scalar("x"), Scalar("x"), true},
		{"scalar differs", Scalar("x"), Scalar("y"), false},
		{"scalar vs array", Scalar("x"), Array{"x"}, false},
		{"array equal", Array{"a", "b"}, Array{"a", "b"}, true},
		{"array order matters", Array{"a", "b"}, Array{"b", "a"}, false},
		{"array length differs", Array{"a"}, Array{"a", "b"}, false},
		{"section equal", inner, other, true},
	}
	for _, tc := range cases {
		if got := NodeEqual(tc.a, tc.b); got != tc.want {
			t.Fatalf("%s: expected %v; got %v", tc.name, tc.want, got)
		}
	}
}

func TestNodeEqual_SectionKeyOrderMatters(t *testing.T) {
	a := NewFields()
	a.Set("x", Scalar("1"))
	a.Set("y", Scalar("2"))

	b := NewFields()
	b.Set("y", Scalar("2"))
	b.Set("x", Scalar("1"))

	if NodeEqual(a, b) {
		t.Fatalf("sections with different insertion order should not be equal")
	}
}

func TestCloneNode_DeepCopiesContainers(t *testing.T) {
	inner := NewFields()
	inner.Set("a", Scalar("1"))
	root := NewFields()
	root.Set("meta", inner)
	root.Set("tags", Array{"x"})

	clone := CloneNode(root).(*Fields)
	if !clone.Equal(root) {
		t.Fatalf("clone should equal original")
	}

	clonedMeta, _ := clone.Get("meta")
	clonedMeta.(*Fields).Set("a", Scalar("changed"))
	got, _ := inner.Get("a")
	if got != Scalar("1") {
		t.Fatalf("mutating clone leaked into original: %v", got)
	}

	clonedTags, _ := clone.Get("tags")
	clonedTags.(Array)[0] = "changed"
	origTags, _ := root.Get("tags")
	if origTags.(Array)[0] != "x" {
		t.Fatalf("mutating cloned array leaked into original")
	}
}

func TestFields_SetReplacesInPlace(t *testing.T) {
	f := NewFields()
	f.Set("a", Scalar("1"))
	f.Set("b", Scalar("2"))
	f.Set("a", Scalar("3"))

	keys := f.Keys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Fatalf("expected keys [a b]; got %v", keys)
	}
	got, _ := f.Get("a")
	if got != Scalar("3") {
		t.Fatalf("expected replaced value 3; got %v", got)
	}
}

func TestFields_DeleteDropsExactlyOne(t *testing.T) {
	f := NewFields()
	f.Set("a", Scalar("1"))
	f.Set("b", Scalar("2"))
	f.Set("c", Scalar("3"))

	if !f.Delete("b") {
		t.Fatalf("expected delete to report true")
	}
	if f.Delete("b") {
		t.Fatalf("expected second delete to report false")
	}
	keys := f.Keys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "c" {
		t.Fatalf("expected keys [a c]; got %v", keys)
	}
}

func TestFields_CloneSharesValues(t *testing.T) {
	inner := NewFields()
	root := NewFields()
	root.Set("meta", inner)

	clone := root.Clone()
	got, _ := clone.Get("meta")
	if got.(*Fields) != inner {
		t.Fatalf("shallow clone should share value references")
	}
}
