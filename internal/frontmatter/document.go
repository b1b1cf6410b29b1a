package frontmatter

import (
	"strings"
)

const fence = "---"

// Document is a markdown page: an ordered frontmatter mapping plus the
// body below the closing fence.
type Document struct {
	Fields *Fields
	Body   string
}

// ParseDocument splits src on the --- fences and parses the frontmatter
// block. Content without an opening fence is all body. A detected fence
// with invalid YAML is an error: degrading it to body would drop the
// frontmatter on the next save.
func ParseDocument(src []byte) (*Document, error) {
	content := string(src)
	doc := &Document{Fields: NewFields(), Body: content}

	rest, found := strings.CutPrefix(content, fence+"\n")
	if !found {
		return doc, nil
	}
	yamlPart, body, found := cutClosingFence(rest)
	if !found {
		return doc, nil
	}
	fields, err := UnmarshalFields([]byte(yamlPart))
	if err != nil {
		return nil, err
	}
	doc.Fields = fields
	doc.Body = body
	return doc, nil
}

// cutClosingFence finds the closing --- on its own line. The fence may sit
// directly under the opening one (empty block) or at end of input.
func cutClosingFence(rest string) (yamlPart, body string, ok bool) {
	if rest == fence {
		return "", "", true
	}
	if after, found := strings.CutPrefix(rest, fence+"\n"); found {
		return "", after, true
	}
	if i := strings.Index(rest, "\n"+fence+"\n"); i >= 0 {
		return rest[:i+1], rest[i+1+len(fence)+1:], true
	}
	if cut, found := strings.CutSuffix(rest, "\n"+fence); found {
		return cut + "\n", "", true
	}
	return "", "", false
}

// Render reassembles the page. Empty frontmatter emits the body alone,
// with no empty fence block.
func (d *Document) Render() ([]byte, error) {
	if d.Fields.Len() == 0 {
		return []byte(d.Body), nil
	}
	yamlBytes, err := MarshalFields(d.Fields)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	b.WriteString(fence + "\n")
	b.Write(yamlBytes)
	b.WriteString(fence + "\n")
	b.WriteString(d.Body)
	return []byte(b.String()), nil
}
