package mutate

import (
	"sort"

	"curio-cli/internal/frontmatter"
)

// RowOrder computes the presentation order for a mapping: scalar rows
// first, then arrays, then sections, sorted by code point within each
// bucket. The order is derived on demand and never stored in the data.
func RowOrder(fields *frontmatter.Fields) []string {
	if fields == nil {
		return nil
	}
	var scalars, arrays, sections []string
	for _, k := range fields.Keys() {
		v, _ := fields.Get(k)
		switch frontmatter.KindOf(v) {
		case frontmatter.KindSection:
			sections = append(sections, k)
		case frontmatter.KindArray:
			arrays = append(arrays, k)
		default:
			scalars = append(scalars, k)
		}
	}
	sort.Strings(scalars)
	sort.Strings(arrays)
	sort.Strings(sections)

	out := make([]string, 0, len(scalars)+len(arrays)+len(sections))
	out = append(out, scalars...)
	out = append(out, arrays...)
	return append(out, sections...)
}
