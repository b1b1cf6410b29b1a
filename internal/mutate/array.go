package mutate

import (
	"curio-cli/internal/frontmatter"
)

// ArraySet returns a new array with element i replaced. Out-of-range
// indexes are rejected edits.
func ArraySet(items frontmatter.Array, i int, v frontmatter.Scalar) (frontmatter.Array, bool) {
	if i < 0 || i >= len(items) {
		return items, false
	}
	out := make(frontmatter.Array, len(items))
	copy(out, items)
	out[i] = v
	return out, true
}

// ArrayAppend returns a new array with v at the end.
func ArrayAppend(items frontmatter.Array, v frontmatter.Scalar) frontmatter.Array {
	out := make(frontmatter.Array, len(items), len(items)+1)
	copy(out, items)
	return append(out, v)
}

// ArrayRemove returns a new array without element i.
func ArrayRemove(items frontmatter.Array, i int) (frontmatter.Array, bool) {
	if i < 0 || i >= len(items) {
		return items, false
	}
	out := make(frontmatter.Array, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...), true
}
