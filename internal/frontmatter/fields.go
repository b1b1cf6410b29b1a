package frontmatter

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Fields is an ordered mapping of unique string keys to nodes. Insertion
// order is preserved in the data; row presentation order is computed
// elsewhere and never stored here.
type Fields struct {
	om *orderedmap.OrderedMap[string, Node]
}

func (*Fields) node() {}

func NewFields() *Fields {
	return &Fields{om: orderedmap.New[string, Node]()}
}

// Set inserts key at the end, or replaces the value in place when the key
// already exists.
func (f *Fields) Set(key string, v Node) {
	f.om.Set(key, v)
}

func (f *Fields) Get(key string) (Node, bool) {
	return f.om.Get(key)
}

func (f *Fields) Has(key string) bool {
	_, ok := f.om.Get(key)
	return ok
}

func (f *Fields) Delete(key string) bool {
	_, ok := f.om.Delete(key)
	return ok
}

func (f *Fields) Len() int {
	if f == nil || f.om == nil {
		return 0
	}
	return f.om.Len()
}

// Keys returns the keys in insertion order.
func (f *Fields) Keys() []string {
	if f == nil || f.om == nil {
		return nil
	}
	keys := make([]string, 0, f.om.Len())
	for pair := f.om.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Clone copies the mapping. Values are shared; nodes are never mutated in
// place, so sharing is safe.
func (f *Fields) Clone() *Fields {
	out := NewFields()
	if f == nil {
		return out
	}
	for pair := f.om.Oldest(); pair != nil; pair = pair.Next() {
		out.om.Set(pair.Key, pair.Value)
	}
	return out
}

func (f *Fields) Equal(other *Fields) bool {
	if f.Len() != other.Len() {
		return false
	}
	if f == nil || other == nil {
		return true
	}
	a := f.om.Oldest()
	b := other.om.Oldest()
	for a != nil && b != nil {
		if a.Key != b.Key || !NodeEqual(a.Value, b.Value) {
			return false
		}
		a = a.Next()
		b = b.Next()
	}
	return a == nil && b == nil
}

// MarshalJSON emits the mapping in insertion order. Absent values become
// null, scalars strings, arrays string arrays, sections nested objects.
func (f *Fields) MarshalJSON() ([]byte, error) {
	if f == nil || f.om == nil {
		return []byte("{}"), nil
	}
	return f.om.MarshalJSON()
}
