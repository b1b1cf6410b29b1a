package editor

import (
	"curio-cli/internal/frontmatter"
)

// Change events travel synchronously up the component tree as Update
// return values. Each container consumes its children's events and
// re-emits its own canonical shape, so exactly one SectionChanged leaves
// the root per accepted edit.

// KeyChanged reports a committed key rename. The key editor never touches
// the mapping itself; the owning section decides whether the rename
// applies.
type KeyChanged struct {
	OldKey string
	NewKey string
}

// ScalarChanged reports a committed scalar value edit.
type ScalarChanged struct {
	OldValue string
	NewValue string
}

// ArrayChanged reports any accepted element edit, append, or removal.
type ArrayChanged struct {
	OldItems frontmatter.Array
	NewItems frontmatter.Array
}

// ValueChanged is the dispatcher's normalized shape: whatever child
// produced the edit, the parent section sees old and new node values.
type ValueChanged struct {
	OldValue frontmatter.Node
	NewValue frontmatter.Node
}

// SectionChanged reports one applied mutation on a mapping: the mapping
// before and the mapping after.
type SectionChanged struct {
	OldFields *frontmatter.Fields
	NewFields *frontmatter.Fields
}

// AddRequested asks the owning section to append a new entry of the given
// kind.
type AddRequested struct {
	Kind frontmatter.Kind
}
