package frontmatter

// Node is a frontmatter value: Scalar, Array, *Fields, or nil for an
// absent value. Absent is distinct from Scalar(""): a key can be present
// with no value at all.
type Node interface {
	node()
}

// Scalar is a leaf value. Numbers and booleans from YAML are carried as
// their literal source spelling; the coercion is one-way.
type Scalar string

// Array is an ordered sequence of scalars. Element order is data, not
// presentation.
type Array []Scalar

func (Scalar) node() {}
func (Array) node()  {}

type Kind int

const (
	KindScalar Kind = iota
	KindArray
	KindSection
)

func (k Kind) String() string {
	switch k {
	case KindArray:
		return "array"
	case KindSection:
		return "section"
	default:
		return "field"
	}
}

// KindOf buckets a node for presentation. Absent values group with
// scalars: they occupy a scalar-shaped row.
func KindOf(n Node) Kind {
	switch n.(type) {
	case *Fields:
		return KindSection
	case Array:
		return KindArray
	default:
		return KindScalar
	}
}

// NodeEqual reports deep structural equality.
func NodeEqual(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case Scalar:
		bv, ok := b.(Scalar)
		return ok && av == bv
	case Array:
		bv, ok := b.(Array)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i] != bv[i] {
				return false
			}
		}
		return true
	case *Fields:
		bv, ok := b.(*Fields)
		return ok && av.Equal(bv)
	}
	return false
}

// CloneNode deep-copies containers. Scalars are immutable and returned
// as-is.
func CloneNode(n Node) Node {
	switch v := n.(type) {
	case Array:
		out := make(Array, len(v))
		copy(out, v)
		return out
	case *Fields:
		out := NewFields()
		for _, k := range v.Keys() {
			val, _ := v.Get(k)
			out.Set(k, CloneNode(val))
		}
		return out
	default:
		return n
	}
}
