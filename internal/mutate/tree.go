package mutate

import (
	"strconv"
	"strings"

	"curio-cli/internal/frontmatter"
)

// RenameKey returns a new mapping with oldKey's slot renamed to newKey,
// keeping position and value. Rejected renames (empty, unchanged, sibling
// collision, missing key) return the input mapping and changed=false.
func RenameKey(fields *frontmatter.Fields, oldKey, newKey string) (*frontmatter.Fields, bool) {
	newKey = strings.TrimSpace(newKey)
	if fields == nil || newKey == "" || newKey == oldKey {
		return fields, false
	}
	if !fields.Has(oldKey) || fields.Has(newKey) {
		return fields, false
	}
	out := frontmatter.NewFields()
	for _, k := range fields.Keys() {
		v, _ := fields.Get(k)
		if k == oldKey {
			out.Set(newKey, v)
			continue
		}
		out.Set(k, v)
	}
	return out, true
}

// SetValue returns a new mapping with key bound to value, order untouched.
// A missing key is a rejected edit.
func SetValue(fields *frontmatter.Fields, key string, value frontmatter.Node) (*frontmatter.Fields, bool) {
	if fields == nil || !fields.Has(key) {
		return fields, false
	}
	out := fields.Clone()
	out.Set(key, value)
	return out, true
}

// RemoveKey returns a new mapping without key. Sibling values keep their
// references.
func RemoveKey(fields *frontmatter.Fields, key string) (*frontmatter.Fields, bool) {
	if fields == nil || !fields.Has(key) {
		return fields, false
	}
	out := frontmatter.NewFields()
	for _, k := range fields.Keys() {
		if k == key {
			continue
		}
		v, _ := fields.Get(k)
		out.Set(k, v)
	}
	return out, true
}

// AddResult is the outcome of an add: the new mapping and the generated
// key of the appended entry.
type AddResult struct {
	Fields *frontmatter.Fields
	Key    string
}

func AddField(fields *frontmatter.Fields) AddResult {
	return add(fields, "new_field", frontmatter.Scalar(""))
}

func AddArray(fields *frontmatter.Fields) AddResult {
	return add(fields, "new_array", frontmatter.Array{})
}

func AddSection(fields *frontmatter.Fields) AddResult {
	return add(fields, "new_section", frontmatter.NewFields())
}

func add(fields *frontmatter.Fields, base string, empty frontmatter.Node) AddResult {
	if fields == nil {
		fields = frontmatter.NewFields()
	}
	key := UniqueKey(fields, base)
	out := fields.Clone()
	out.Set(key, empty)
	return AddResult{Fields: out, Key: key}
}

// UniqueKey returns base when free, else base_1, base_2, ... with the
// smallest unused suffix.
func UniqueKey(fields *frontmatter.Fields, base string) string {
	if !fields.Has(base) {
		return base
	}
	for i := 1; ; i++ {
		candidate := base + "_" + strconv.Itoa(i)
		if !fields.Has(candidate) {
			return candidate
		}
	}
}
