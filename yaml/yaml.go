// Package yaml bridges YAML documents and the JSON tree, so YAML input can
// be decoded with any serializer through the text format.
package yaml

import (
	"bytes"
	"fmt"
	"strconv"

	yamlv3 "gopkg.in/yaml.v3"

	goserde "github.com/reoring/goserde"
	eng "github.com/reoring/goserde/internal/engine"
	"github.com/reoring/goserde/json"
)

// FromElement renders a tree as a YAML document. Object member order is
// kept; bare literals keep their text.
func FromElement(doc json.Element) ([]byte, error) {
	var buf bytes.Buffer
	enc := yamlv3.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(toNode(doc)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toNode(e json.Element) *yamlv3.Node {
	switch e := e.(type) {
	case *json.Object:
		n := &yamlv3.Node{Kind: yamlv3.MappingNode, Tag: "!!map"}
		for k, v := range e.All() {
			n.Content = append(n.Content, &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: "!!str", Value: k}, toNode(v))
		}
		return n
	case *json.Array:
		n := &yamlv3.Node{Kind: yamlv3.SequenceNode, Tag: "!!seq"}
		for _, v := range e.Items {
			n.Content = append(n.Content, toNode(v))
		}
		return n
	case *json.Primitive:
		return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: literalTag(e), Value: e.Content}
	}
	return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: "!!null", Value: "null"}
}

func literalTag(p *json.Primitive) string {
	if p.IsString {
		return "!!str"
	}
	switch p.Content {
	case "true", "false":
		return "!!bool"
	}
	if _, err := p.Int64(); err == nil {
		return "!!int"
	}
	if _, err := p.Float64(); err == nil {
		return "!!float"
	}
	return "!!str"
}

// ToElement parses the first YAML document of data. Scalars tagged bool, int
// or float become bare literals, null becomes JSONNull and everything else a
// string. Anchors are resolved.
func ToElement(data []byte) (json.Element, error) {
	var doc yamlv3.Node
	if err := yamlv3.Unmarshal(data, &doc); err != nil {
		return nil, goserde.WithCause(goserde.Fail(goserde.CodeParseError, err.Error()), err)
	}
	if doc.Kind == 0 {
		return json.JSONNull, nil
	}
	return fromNode(&doc, "")
}

func fromNode(n *yamlv3.Node, path string) (json.Element, error) {
	switch n.Kind {
	case yamlv3.DocumentNode:
		return fromNode(n.Content[0], path)
	case yamlv3.AliasNode:
		return fromNode(n.Alias, path)
	case yamlv3.MappingNode:
		o := json.NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind != yamlv3.ScalarNode {
				return nil, goserde.FailAt(goserde.CodeInvalidType, eng.NormalizePointer(path), -1, fmt.Sprintf("line %d: non-scalar mapping key", k.Line))
			}
			v, err := fromNode(n.Content[i+1], eng.JoinPointer(path, k.Value))
			if err != nil {
				return nil, err
			}
			o.Set(k.Value, v)
		}
		return o, nil
	case yamlv3.SequenceNode:
		a := json.NewArray()
		for i, c := range n.Content {
			v, err := fromNode(c, eng.JoinPointer(path, strconv.Itoa(i)))
			if err != nil {
				return nil, err
			}
			a.Items = append(a.Items, v)
		}
		return a, nil
	}
	switch n.ShortTag() {
	case "!!null":
		return json.JSONNull, nil
	case "!!bool", "!!int", "!!float":
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, goserde.WithCause(goserde.FailAt(goserde.CodeInvalidLiteral, eng.NormalizePointer(path), -1, n.Value), err)
		}
		return json.FromAny(v)
	}
	return json.NewString(n.Value), nil
}

// Decode parses data as YAML and decodes the tree with s through f.
func Decode[T any](f *json.Format, s goserde.Serializer[T], data []byte) (T, error) {
	doc, err := ToElement(data)
	if err != nil {
		var zero T
		return zero, err
	}
	return json.DecodeFromElement(f, s, doc)
}

// Encode renders v with s through f and prints the tree as YAML.
func Encode[T any](f *json.Format, s goserde.Serializer[T], v T) ([]byte, error) {
	doc, err := json.EncodeToElement(f, s, v)
	if err != nil {
		return nil, err
	}
	return FromElement(doc)
}

// Update parses data as YAML and merges it into old through f.
func Update[T any](f *json.Format, s goserde.Serializer[T], old T, data []byte) (T, error) {
	doc, err := ToElement(data)
	if err != nil {
		var zero T
		return zero, err
	}
	return json.Update(f, s, old, doc.String())
}
