package goserde

import (
	"errors"
	"fmt"
	"strconv"
)

// Descriptor is immutable schema metadata for one serializable type: its
// serial name, its kind, and per-element names, nested descriptors,
// optionality and annotations.
//
// A Descriptor is frozen by DescriptorBuilder.Build and never mutated
// afterwards, so it may be cached and read from any number of goroutines.
type Descriptor struct {
	name        string
	kind        Kind
	nullable    bool
	elements    []element
	index       map[string]int
	annotations []any
}

type element struct {
	name        string
	desc        *Descriptor
	optional    bool
	annotations []any
}

// IndexError is the panic value raised when a descriptor is asked about an
// element index it does not have.
type IndexError struct {
	Descriptor string
	Index      int
	Count      int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("goserde: element index %d out of range [0,%d) in %s", e.Index, e.Count, e.Descriptor)
}

func (d *Descriptor) Name() string       { return d.name }
func (d *Descriptor) Kind() Kind         { return d.kind }
func (d *Descriptor) IsNullable() bool   { return d.nullable }
func (d *Descriptor) ElementsCount() int { return len(d.elements) }
func (d *Descriptor) Annotations() []any { return d.annotations }

func (d *Descriptor) String() string { return d.name + "(" + d.kind.String() + ")" }

// element resolves index i. Collection descriptors accept any non-negative
// index: lists and sets describe every position with their single element,
// maps alternate key and value.
func (d *Descriptor) element(i int) *element {
	if i >= 0 && len(d.elements) > 0 {
		switch d.kind {
		case KindList, KindSet:
			return &d.elements[0]
		case KindMap:
			return &d.elements[i%2]
		}
	}
	if i < 0 || i >= len(d.elements) {
		panic(&IndexError{Descriptor: d.name, Index: i, Count: len(d.elements)})
	}
	return &d.elements[i]
}

// ElementName returns the name of element i. Collection elements are named
// by their decimal position.
func (d *Descriptor) ElementName(i int) string {
	e := d.element(i)
	if d.kind.IsCollection() {
		return strconv.Itoa(i)
	}
	return e.name
}

// ElementIndex returns the index of the element called name, or UnknownName.
func (d *Descriptor) ElementIndex(name string) int {
	if d.kind.IsCollection() {
		i, err := strconv.Atoi(name)
		if err != nil || i < 0 {
			return UnknownName
		}
		return i
	}
	if i, ok := d.index[name]; ok {
		return i
	}
	return UnknownName
}

func (d *Descriptor) ElementDescriptor(i int) *Descriptor { return d.element(i).desc }
func (d *Descriptor) ElementAnnotations(i int) []any      { return d.element(i).annotations }

func (d *Descriptor) IsElementOptional(i int) bool {
	e := d.element(i)
	return !d.kind.IsCollection() && e.optional
}

// DescriptorBuilder assembles a Descriptor. The zero value is not usable;
// start with NewDescriptor.
type DescriptorBuilder struct {
	d    Descriptor
	errs []error
}

// ElementOption customizes one element added with DescriptorBuilder.Element.
type ElementOption func(*element)

// Optional marks an element that may be absent from the payload.
func Optional() ElementOption { return func(e *element) { e.optional = true } }

// Annotated attaches opaque annotations to an element.
func Annotated(a ...any) ElementOption {
	return func(e *element) { e.annotations = append(e.annotations, a...) }
}

// NewDescriptor starts a descriptor with the given serial name and kind.
func NewDescriptor(name string, kind Kind) *DescriptorBuilder {
	return &DescriptorBuilder{d: Descriptor{name: name, kind: kind}}
}

// Element appends an element. Indices follow call order.
func (b *DescriptorBuilder) Element(name string, d *Descriptor, opts ...ElementOption) *DescriptorBuilder {
	if d == nil {
		b.errs = append(b.errs, fmt.Errorf("element %q: nil descriptor", name))
		return b
	}
	e := element{name: name, desc: d}
	for _, o := range opts {
		o(&e)
	}
	b.d.elements = append(b.d.elements, e)
	return b
}

// Annotate attaches type-level annotations.
func (b *DescriptorBuilder) Annotate(a ...any) *DescriptorBuilder {
	b.d.annotations = append(b.d.annotations, a...)
	return b
}

// Build freezes the descriptor and computes the name index once.
func (b *DescriptorBuilder) Build() (*Descriptor, error) {
	errs := b.errs
	index := make(map[string]int, len(b.d.elements))
	for i, e := range b.d.elements {
		if _, dup := index[e.name]; dup {
			errs = append(errs, fmt.Errorf("duplicate element name %q", e.name))
			continue
		}
		index[e.name] = i
	}
	switch b.d.kind {
	case KindList, KindSet:
		if len(b.d.elements) != 1 {
			errs = append(errs, fmt.Errorf("%s descriptor needs exactly one element, got %d", b.d.kind, len(b.d.elements)))
		}
	case KindMap, KindEntry:
		if len(b.d.elements) != 2 {
			errs = append(errs, fmt.Errorf("%s descriptor needs exactly two elements, got %d", b.d.kind, len(b.d.elements)))
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("goserde: descriptor %s: %w", b.d.name, errors.Join(errs...))
	}
	d := b.d
	d.elements = append([]element(nil), b.d.elements...)
	d.annotations = append([]any(nil), b.d.annotations...)
	d.index = index
	return &d, nil
}

// MustBuild is Build that panics on error; for package-level descriptors.
func (b *DescriptorBuilder) MustBuild() *Descriptor {
	d, err := b.Build()
	if err != nil {
		panic(err)
	}
	return d
}

// PrimitiveDescriptor describes a scalar type.
func PrimitiveDescriptor(name string, kind Kind) *Descriptor {
	if !kind.IsPrimitive() {
		panic(fmt.Sprintf("goserde: %s is not a primitive kind", kind))
	}
	return NewDescriptor(name, kind).MustBuild()
}

// ListDescriptor describes an ordered sequence of elem.
func ListDescriptor(elem *Descriptor) *Descriptor {
	return NewDescriptor("List<"+elem.Name()+">", KindList).Element("0", elem).MustBuild()
}

// SetDescriptor describes a set of elem.
func SetDescriptor(elem *Descriptor) *Descriptor {
	return NewDescriptor("Set<"+elem.Name()+">", KindSet).Element("0", elem).MustBuild()
}

// MapDescriptor describes a map from key to value.
func MapDescriptor(key, value *Descriptor) *Descriptor {
	return NewDescriptor("Map<"+key.Name()+","+value.Name()+">", KindMap).
		Element("key", key).
		Element("value", value).
		MustBuild()
}

// NullableDescriptor returns a view of d that admits null. The element table
// is shared.
func NullableDescriptor(d *Descriptor) *Descriptor {
	if d.nullable {
		return d
	}
	n := *d
	n.name = d.name + "?"
	n.nullable = true
	return &n
}
