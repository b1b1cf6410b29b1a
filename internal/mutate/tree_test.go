package mutate

import (
	"testing"

	"curio-cli/internal/frontmatter"
)

func fieldsOf(pairs ...string) *frontmatter.Fields {
	f := frontmatter.NewFields()
	for i := 0; i+1 < len(pairs); i += 2 {
		f.Set(pairs[i], frontmatter.Scalar(pairs[i+1]))
	}
	return f
}

func TestRenameKey_PreservesPositionAndValue(t *testing.T) {
	f := fieldsOf("identifier", "x-1", "title", "Box")

	out, changed := RenameKey(f, "identifier", "id")
	if !changed {
		t.Fatalf("expected rename to apply")
	}
	keys := out.Keys()
	if len(keys) != 2 || keys[0] != "id" || keys[1] != "title" {
		t.Fatalf("expected keys [id title]; got %v", keys)
	}
	got, _ := out.Get("id")
	if got != frontmatter.Scalar("x-1") {
		t.Fatalf("expected value carried over; got %v", got)
	}
	// Input mapping untouched.
	if !f.Has("identifier") || f.Has("id") {
		t.Fatalf("input mapping was mutated: %v", f.Keys())
	}
}

func TestRenameKey_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		oldKey string
		newKey string
	}{
		{"empty", "a", ""},
		{"whitespace", "a", "   "},
		{"unchanged", "a", "a"},
		{"collision", "a", "b"},
		{"missing old key", "zzz", "w"},
	}
	for _, tc := range cases {
		f := fieldsOf("a", "1", "b", "2")
		out, changed := RenameKey(f, tc.oldKey, tc.newKey)
		if changed {
			t.Fatalf("%s: expected reject", tc.name)
		}
		if out != f {
			t.Fatalf("%s: expected input mapping returned unchanged", tc.name)
		}
	}
}

func TestRenameKey_TrimsNewKey(t *testing.T) {
	f := fieldsOf("a", "1")
	out, changed := RenameKey(f, "a", "  b  ")
	if !changed {
		t.Fatalf("expected rename to apply")
	}
	if !out.Has("b") {
		t.Fatalf("expected trimmed key b; got %v", out.Keys())
	}
}

func TestSetValue_ReplacesOnlyThatKey(t *testing.T) {
	shared := frontmatter.Array{"x"}
	f := frontmatter.NewFields()
	f.Set("a", frontmatter.Scalar("1"))
	f.Set("b", shared)

	out, changed := SetValue(f, "a", frontmatter.Scalar("2"))
	if !changed {
		t.Fatalf("expected set to apply")
	}
	got, _ := out.Get("a")
	if got != frontmatter.Scalar("2") {
		t.Fatalf("expected a=2; got %v", got)
	}
	// Untouched siblings keep their references.
	b, _ := out.Get("b")
	if &b.(frontmatter.Array)[0] != &shared[0] {
		t.Fatalf("expected sibling array to keep its backing storage")
	}
	if v, _ := f.Get("a"); v != frontmatter.Scalar("1") {
		t.Fatalf("input mapping was mutated")
	}
}

func TestSetValue_MissingKeyRejected(t *testing.T) {
	f := fieldsOf("a", "1")
	out, changed := SetValue(f, "nope", frontmatter.Scalar("2"))
	if changed || out != f {
		t.Fatalf("expected reject for missing key")
	}
}

func TestRemoveKey_DropsExactlyOne(t *testing.T) {
	f := fieldsOf("a", "1", "b", "2", "c", "3")
	out, changed := RemoveKey(f, "b")
	if !changed {
		t.Fatalf("expected remove to apply")
	}
	keys := out.Keys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "c" {
		t.Fatalf("expected keys [a c]; got %v", keys)
	}
	if f.Len() != 3 {
		t.Fatalf("input mapping was mutated")
	}

	_, changed = RemoveKey(f, "zzz")
	if changed {
		t.Fatalf("expected reject for missing key")
	}
}

func TestAddField_GeneratesSuffixedKeys(t *testing.T) {
	f := frontmatter.NewFields()

	res := AddField(f)
	if res.Key != "new_field" {
		t.Fatalf("expected new_field; got %q", res.Key)
	}
	v, ok := res.Fields.Get("new_field")
	if !ok || v != frontmatter.Scalar("") {
		t.Fatalf("expected empty scalar; got %#v", v)
	}

	res2 := AddField(res.Fields)
	if res2.Key != "new_field_1" {
		t.Fatalf("expected new_field_1; got %q", res2.Key)
	}
	res3 := AddField(res2.Fields)
	if res3.Key != "new_field_2" {
		t.Fatalf("expected new_field_2; got %q", res3.Key)
	}
}

func TestAdd_SmallestUnusedSuffix(t *testing.T) {
	f := frontmatter.NewFields()
	f.Set("new_array", frontmatter.Array{})
	f.Set("new_array_2", frontmatter.Array{})

	res := AddArray(f)
	if res.Key != "new_array_1" {
		t.Fatalf("expected gap to be filled with new_array_1; got %q", res.Key)
	}
}

func TestAddSection_AppendsEmptyMapping(t *testing.T) {
	res := AddSection(fieldsOf("a", "1"))
	v, ok := res.Fields.Get("new_section")
	if !ok {
		t.Fatalf("expected new_section key")
	}
	section, ok := v.(*frontmatter.Fields)
	if !ok || section.Len() != 0 {
		t.Fatalf("expected empty section; got %#v", v)
	}
	keys := res.Fields.Keys()
	if keys[len(keys)-1] != "new_section" {
		t.Fatalf("expected new entry appended last; got %v", keys)
	}
}

func TestUniqueKey_IgnoresOtherBases(t *testing.T) {
	f := fieldsOf("new_field", "x", "other", "y")
	if got := UniqueKey(f, "fresh"); got != "fresh" {
		t.Fatalf("expected fresh; got %q", got)
	}
	if got := UniqueKey(f, "new_field"); got != "new_field_1" {
		t.Fatalf("expected new_field_1; got %q", got)
	}
}
