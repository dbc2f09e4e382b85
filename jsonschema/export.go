package jsonschema

import (
	"fmt"
	"math"

	goserde "github.com/reoring/goserde"
	"github.com/reoring/goserde/json"
)

// Options tunes FromDescriptor.
type Options struct {
	// Format whose framing the schema describes; nil means json.Default.
	Format *json.Format
	// Variants lists the concrete descriptors of each polymorphic base,
	// keyed by the base name (the serial name of the "value" element).
	// Bases without an entry accept any payload.
	Variants map[string][]*goserde.Descriptor
}

// FromDescriptor exports the shape a text Format gives values described by
// d. Unknown-key policy and polymorphic framing follow the Format config.
func FromDescriptor(d *goserde.Descriptor, opts Options) (*Schema, error) {
	f := opts.Format
	if f == nil {
		f = json.Default
	}
	x := exporter{cfg: f.Config(), variants: opts.Variants}
	return x.schema(d, false)
}

type exporter struct {
	cfg      json.Config
	variants map[string][]*goserde.Descriptor
	// active guards against recursive descriptors
	active []*goserde.Descriptor
}

var floatSpecials = []any{"NaN", "Infinity", "-Infinity"}

func (x *exporter) schema(d *goserde.Descriptor, inMap bool) (*Schema, error) {
	s, err := x.bare(d, inMap)
	if err != nil || !d.IsNullable() {
		return s, err
	}
	return &Schema{AnyOf: []*Schema{{Type: "null"}, s}}, nil
}

func (x *exporter) bare(d *goserde.Descriptor, inMap bool) (*Schema, error) {
	switch k := d.Kind(); k {
	case goserde.KindBool:
		return &Schema{Type: "boolean"}, nil
	case goserde.KindInt8:
		return &Schema{Type: "integer", Minimum: int64Ptr(math.MinInt8), Maximum: int64Ptr(math.MaxInt8)}, nil
	case goserde.KindInt16:
		return &Schema{Type: "integer", Minimum: int64Ptr(math.MinInt16), Maximum: int64Ptr(math.MaxInt16)}, nil
	case goserde.KindInt32:
		return &Schema{Type: "integer", Minimum: int64Ptr(math.MinInt32), Maximum: int64Ptr(math.MaxInt32)}, nil
	case goserde.KindInt64:
		return &Schema{Type: "integer"}, nil
	case goserde.KindFloat32, goserde.KindFloat64:
		// non-finite values travel as quoted names
		return &Schema{AnyOf: []*Schema{{Type: "number"}, {Type: "string", Enum: floatSpecials}}}, nil
	case goserde.KindRune:
		return &Schema{Type: "string", MinLength: intPtr(1), MaxLength: intPtr(1)}, nil
	case goserde.KindString:
		return &Schema{Type: "string"}, nil
	case goserde.KindEnum:
		names := make([]any, d.ElementsCount())
		for i := range names {
			names[i] = d.ElementName(i)
		}
		return &Schema{Type: "string", Enum: names}, nil
	}
	for _, a := range x.active {
		if a == d {
			return &Schema{Title: d.Name()}, nil
		}
	}
	x.active = append(x.active, d)
	defer func() { x.active = x.active[:len(x.active)-1] }()

	switch d.Kind() {
	case goserde.KindClass:
		return x.class(d)
	case goserde.KindObject:
		return &Schema{Type: "object", Title: d.Name(), AdditionalProperties: x.cfg.IgnoreUnknownKeys}, nil
	case goserde.KindList, goserde.KindSet:
		items, err := x.schema(d.ElementDescriptor(0), false)
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "array", Items: items, UniqueItems: d.Kind() == goserde.KindSet}, nil
	case goserde.KindMap:
		return x.mapSchema(d)
	case goserde.KindEntry:
		if inMap {
			return nil, fmt.Errorf("jsonschema: %s: entries inside maps are framed by the map", d.Name())
		}
		return x.class(d)
	case goserde.KindPolymorphic:
		return x.polymorphic(d)
	}
	return nil, fmt.Errorf("jsonschema: %s: unsupported kind %s", d.Name(), d.Kind())
}

func (x *exporter) class(d *goserde.Descriptor) (*Schema, error) {
	s := &Schema{
		Type:                 "object",
		Title:                d.Name(),
		Properties:           make(map[string]*Schema, d.ElementsCount()),
		AdditionalProperties: x.cfg.IgnoreUnknownKeys,
	}
	for i := 0; i < d.ElementsCount(); i++ {
		ps, err := x.schema(d.ElementDescriptor(i), false)
		if err != nil {
			return nil, err
		}
		name := d.ElementName(i)
		s.Properties[name] = ps
		if !d.IsElementOptional(i) {
			s.Required = append(s.Required, name)
		}
	}
	return s, nil
}

// mapSchema mirrors the two map framings: an object for primitive and enum
// keys, otherwise a flat array alternating keys and values.
func (x *exporter) mapSchema(d *goserde.Descriptor) (*Schema, error) {
	key := d.ElementDescriptor(0)
	vs, err := x.schema(d.ElementDescriptor(1), true)
	if err != nil {
		return nil, err
	}
	if k := key.Kind(); k.IsPrimitive() || k == goserde.KindEnum {
		return &Schema{Type: "object", AdditionalProperties: vs}, nil
	}
	ks, err := x.schema(key, false)
	if err != nil {
		return nil, err
	}
	return &Schema{Type: "array", Items: &Schema{AnyOf: []*Schema{ks, vs}}}, nil
}

func (x *exporter) polymorphic(d *goserde.Descriptor) (*Schema, error) {
	base := d.ElementDescriptor(1).Name()
	concrete := x.variants[base]
	if len(concrete) == 0 {
		if x.cfg.ClassDiscriminator != "" {
			return &Schema{
				Type:       "object",
				Title:      base,
				Properties: map[string]*Schema{x.cfg.ClassDiscriminator: {Type: "string"}},
				Required:   []string{x.cfg.ClassDiscriminator},
			}, nil
		}
		return pair(&Schema{Type: "string"}, &Schema{}), nil
	}
	out := &Schema{Title: base, OneOf: make([]*Schema, 0, len(concrete))}
	for _, c := range concrete {
		vs, err := x.schema(c, false)
		if err != nil {
			return nil, err
		}
		tag := &Schema{Const: c.Name()}
		if x.cfg.ClassDiscriminator == "" {
			out.OneOf = append(out.OneOf, pair(tag, vs))
			continue
		}
		if vs.Type != "object" || vs.Properties == nil {
			return nil, fmt.Errorf("jsonschema: %s: class discriminator needs an object value", c.Name())
		}
		framed := *vs
		framed.Properties = make(map[string]*Schema, len(vs.Properties)+1)
		for k, v := range vs.Properties {
			framed.Properties[k] = v
		}
		framed.Properties[x.cfg.ClassDiscriminator] = tag
		framed.Required = append([]string{x.cfg.ClassDiscriminator}, vs.Required...)
		out.OneOf = append(out.OneOf, &framed)
	}
	return out, nil
}

// pair is the ["discriminator", value] array framing.
func pair(tag, value *Schema) *Schema {
	return &Schema{
		Type:        "array",
		PrefixItems: []*Schema{tag, value},
		MinItems:    intPtr(2),
		MaxItems:    intPtr(2),
	}
}
