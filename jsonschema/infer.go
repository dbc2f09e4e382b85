package jsonschema

import (
	"sort"

	"github.com/reoring/goserde/json"
)

// Infer derives a schema from a sample document. Every member seen in an
// object is required; array items that disagree on type become an anyOf.
func Infer(e json.Element) *Schema {
	switch e := e.(type) {
	case *json.Null:
		return &Schema{Type: "null"}
	case *json.Primitive:
		switch {
		case e.IsString:
			return &Schema{Type: "string"}
		case e.Content == "true" || e.Content == "false":
			return &Schema{Type: "boolean"}
		}
		if _, err := e.Int64(); err == nil {
			return &Schema{Type: "integer"}
		}
		if _, err := e.Float64(); err == nil {
			return &Schema{Type: "number"}
		}
		// bare text reads back as a string
		return &Schema{Type: "string"}
	case *json.Object:
		s := &Schema{Type: "object", Properties: make(map[string]*Schema, e.Len())}
		for k, v := range e.All() {
			s.Properties[k] = Infer(v)
			s.Required = append(s.Required, k)
		}
		sort.Strings(s.Required)
		return s
	case *json.Array:
		s := &Schema{Type: "array"}
		if len(e.Items) > 0 {
			s.Items = inferItems(e.Items)
		}
		return s
	}
	return &Schema{}
}

func inferItems(items []json.Element) *Schema {
	var variants []*Schema
	seen := map[string]int{}
	for _, it := range items {
		is := Infer(it)
		if i, ok := seen[is.Type]; ok {
			variants[i] = merge(variants[i], is)
			continue
		}
		seen[is.Type] = len(variants)
		variants = append(variants, is)
	}
	if len(variants) == 1 {
		return variants[0]
	}
	return &Schema{AnyOf: variants}
}

// merge widens a to cover b; both have the same Type.
func merge(a, b *Schema) *Schema {
	switch a.Type {
	case "object":
		out := &Schema{Type: "object", Properties: make(map[string]*Schema, len(a.Properties))}
		for k, v := range a.Properties {
			out.Properties[k] = v
		}
		inB := make(map[string]bool, len(b.Required))
		for _, k := range b.Required {
			inB[k] = true
		}
		for _, k := range a.Required {
			if inB[k] {
				out.Required = append(out.Required, k)
			}
		}
		for k, v := range b.Properties {
			if prev, ok := out.Properties[k]; ok && prev.Type == v.Type {
				out.Properties[k] = merge(prev, v)
			} else if !ok {
				out.Properties[k] = v
			} else {
				out.Properties[k] = &Schema{AnyOf: []*Schema{prev, v}}
			}
		}
		return out
	case "array":
		if a.Items == nil {
			return b
		}
		if b.Items == nil || a.Items.Type != b.Items.Type {
			if b.Items != nil {
				return &Schema{Type: "array", Items: &Schema{AnyOf: []*Schema{a.Items, b.Items}}}
			}
			return a
		}
		return &Schema{Type: "array", Items: merge(a.Items, b.Items)}
	}
	return a
}
