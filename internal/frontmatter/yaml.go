package frontmatter

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// fromYAMLValue converts a yaml value node into a Node. Mappings become
// sections, sequences become arrays, scalars keep their literal source
// spelling, nulls become Absent.
func fromYAMLValue(n *yaml.Node) (Node, error) {
	n = resolveAlias(n)
	if n == nil {
		return nil, nil
	}
	switch n.Kind {
	case yaml.MappingNode:
		return fromYAMLMapping(n)
	case yaml.SequenceNode:
		items := make(Array, 0, len(n.Content))
		for _, el := range n.Content {
			el = resolveAlias(el)
			if el != nil && el.Kind == yaml.ScalarNode {
				items = append(items, Scalar(el.Value))
				continue
			}
			// Non-scalar elements are carried as their one-line flow
			// spelling so arrays stay scalar-only.
			flow, err := encodeFlow(el)
			if err != nil {
				return nil, err
			}
			items = append(items, Scalar(flow))
		}
		return items, nil
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil, nil
		}
		return Scalar(n.Value), nil
	default:
		return nil, fmt.Errorf("unsupported yaml node kind %d at line %d", n.Kind, n.Line)
	}
}

func fromYAMLMapping(n *yaml.Node) (*Fields, error) {
	fields := NewFields()
	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode := resolveAlias(n.Content[i])
		key := keyNode.Value
		if keyNode.Kind != yaml.ScalarNode {
			flow, err := encodeFlow(keyNode)
			if err != nil {
				return nil, err
			}
			key = flow
		}
		val, err := fromYAMLValue(n.Content[i+1])
		if err != nil {
			return nil, err
		}
		// Duplicate keys: the last value wins, the first position holds.
		fields.Set(key, val)
	}
	return fields, nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func encodeFlow(n *yaml.Node) (string, error) {
	setFlow(n)
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return "", fmt.Errorf("encode array element: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func setFlow(n *yaml.Node) {
	if n == nil {
		return
	}
	if n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode {
		n.Style = yaml.FlowStyle
	}
	for _, c := range n.Content {
		setFlow(c)
	}
}

// toYAMLValue builds a fresh yaml node for v. Scalars emit plain so the
// literal spelling survives; the encoder adds quoting only where syntax
// demands it.
func toYAMLValue(v Node) *yaml.Node {
	switch n := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: ""}
	case Scalar:
		return scalarYAMLNode(string(n))
	case Array:
		out := &yaml.Node{Kind: yaml.SequenceNode}
		for _, el := range n {
			out.Content = append(out.Content, scalarYAMLNode(string(el)))
		}
		return out
	case *Fields:
		out := &yaml.Node{Kind: yaml.MappingNode}
		for _, key := range n.Keys() {
			val, _ := n.Get(key)
			out.Content = append(out.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
				toYAMLValue(val))
		}
		return out
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: ""}
}

func scalarYAMLNode(s string) *yaml.Node {
	node := &yaml.Node{Kind: yaml.ScalarNode, Value: s}
	// A plain empty or null-spelled scalar would reparse as Absent; pin
	// the string tag so the encoder quotes it.
	if s == "" || isNullSpelling(s) {
		node.Tag = "!!str"
	}
	return node
}

func isNullSpelling(s string) bool {
	switch s {
	case "~", "null", "Null", "NULL":
		return true
	}
	return false
}

// MarshalFields renders fields as a YAML mapping with two-space indent.
func MarshalFields(fields *Fields) ([]byte, error) {
	if fields.Len() == 0 {
		return nil, nil
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(toYAMLValue(fields)); err != nil {
		return nil, fmt.Errorf("marshal frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalFields parses a YAML mapping. The document root must be a
// mapping or empty.
func UnmarshalFields(src []byte) (*Fields, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return NewFields(), nil
	}
	root := resolveAlias(doc.Content[0])
	if root == nil || (root.Kind == yaml.ScalarNode && root.Tag == "!!null") {
		return NewFields(), nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("frontmatter is not a mapping (line %d)", root.Line)
	}
	return fromYAMLMapping(root)
}
