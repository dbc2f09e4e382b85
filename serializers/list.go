package serializers

import (
	"iter"
	"slices"

	goserde "github.com/reoring/goserde"
)

// SequenceSpec describes a custom sequence container for Sequence.
type SequenceSpec[E, C any] struct {
	Descriptor *goserde.Descriptor
	Len        func(C) int
	All        func(C) iter.Seq[E]
	// NewBuilder returns a builder holding a copy of base. Deserialize
	// passes the zero C.
	NewBuilder func(base C) Builder[E, C]
}

// Sequence builds a serializer for any sequence-like container. List, Set
// and Array are Sequences.
func Sequence[E, C any](elem goserde.Serializer[E], spec SequenceSpec[E, C]) goserde.Serializer[C] {
	return collection[C, Builder[E, C]]{strategy: sequenceStrategy[E, C]{elem: elem, spec: spec}}
}

type sequenceStrategy[E, C any] struct {
	elem goserde.Serializer[E]
	spec SequenceSpec[E, C]
}

func (s sequenceStrategy[E, C]) descriptor() *goserde.Descriptor { return s.spec.Descriptor }

func (s sequenceStrategy[E, C]) typeArguments() []goserde.Described {
	return []goserde.Described{s.elem}
}

func (s sequenceStrategy[E, C]) collectionSize(v C) int { return s.spec.Len(v) }

func (s sequenceStrategy[E, C]) writeContent(c goserde.CompositeEncoder, v C) error {
	i := 0
	for e := range s.spec.All(v) {
		if err := goserde.EncodeSerializableElement(c, s.spec.Descriptor, i, s.elem, e); err != nil {
			return err
		}
		i++
	}
	return nil
}

func (s sequenceStrategy[E, C]) builder() Builder[E, C] {
	var zero C
	return s.spec.NewBuilder(zero)
}

func (s sequenceStrategy[E, C]) toBuilder(v C) Builder[E, C] { return s.spec.NewBuilder(v) }
func (s sequenceStrategy[E, C]) builderSize(b Builder[E, C]) int { return b.Size() }
func (s sequenceStrategy[E, C]) checkCapacity(b Builder[E, C], size int) { b.EnsureCapacity(size) }
func (s sequenceStrategy[E, C]) toResult(b Builder[E, C]) C { return b.Finish() }

func (s sequenceStrategy[E, C]) readElement(c goserde.CompositeDecoder, start, index int, b Builder[E, C], _ bool) error {
	e, err := goserde.DecodeSerializableElement(c, s.spec.Descriptor, index, s.elem)
	if err != nil {
		return err
	}
	b.Insert(start+index, e)
	return nil
}

func (s sequenceStrategy[E, C]) readAll(c goserde.CompositeDecoder, b Builder[E, C], start, size int) error {
	for i := 0; i < size; i++ {
		if err := s.readElement(c, start, i, b, false); err != nil {
			return err
		}
	}
	return nil
}

// List serializes []E. Patch appends the payload's elements to the old
// slice's copy.
func List[E any](elem goserde.Serializer[E]) goserde.Serializer[[]E] {
	return Sequence(elem, SequenceSpec[E, []E]{
		Descriptor: goserde.ListDescriptor(elem.Descriptor()),
		Len:        func(v []E) int { return len(v) },
		All:        slices.Values[[]E],
		NewBuilder: func(base []E) Builder[E, []E] {
			return &sliceBuilder[E]{buf: slices.Clone(base)}
		},
	})
}

// Array serializes []E through a temporary growable buffer and materializes
// an exact-length slice (cap == len).
func Array[E any](elem goserde.Serializer[E]) goserde.Serializer[[]E] {
	return Sequence(elem, SequenceSpec[E, []E]{
		Descriptor: goserde.NewDescriptor("Array<"+elem.Descriptor().Name()+">", goserde.KindList).
			Element("0", elem.Descriptor()).
			MustBuild(),
		Len:        func(v []E) int { return len(v) },
		All:        slices.Values[[]E],
		NewBuilder: func(base []E) Builder[E, []E] {
			return &sliceBuilder[E]{buf: slices.Clone(base), exact: true}
		},
	})
}

type sliceBuilder[E any] struct {
	buf   []E
	exact bool
}

func (b *sliceBuilder[E]) Size() int { return len(b.buf) }
func (b *sliceBuilder[E]) EnsureCapacity(n int) { b.buf = slices.Grow(b.buf, n) }

func (b *sliceBuilder[E]) Insert(index int, e E) {
	switch {
	case index == len(b.buf):
		b.buf = append(b.buf, e)
	case index < len(b.buf):
		b.buf = slices.Insert(b.buf, index, e)
	default:
		// gap left by a sparse payload is zero-filled
		b.buf = append(b.buf, make([]E, index-len(b.buf))...)
		b.buf = append(b.buf, e)
	}
}

// Finish keeps a nil base nil when the payload added nothing.
func (b *sliceBuilder[E]) Finish() []E {
	if b.buf == nil {
		return nil
	}
	if b.exact {
		out := make([]E, len(b.buf))
		copy(out, b.buf)
		return out
	}
	return b.buf
}

// Set serializes an insertion-ordered set. Duplicate payload elements
// collapse.
func Set[E comparable](elem goserde.Serializer[E]) goserde.Serializer[*OrderedSet[E]] {
	return Sequence(elem, SequenceSpec[E, *OrderedSet[E]]{
		Descriptor: goserde.SetDescriptor(elem.Descriptor()),
		Len:        (*OrderedSet[E]).Len,
		All: func(v *OrderedSet[E]) iter.Seq[E] {
			return slices.Values(v.Values())
		},
		NewBuilder: func(base *OrderedSet[E]) Builder[E, *OrderedSet[E]] {
			return &setBuilder[E]{set: NewOrderedSet(base.Values()...)}
		},
	})
}

type setBuilder[E comparable] struct{ set *OrderedSet[E] }

func (b *setBuilder[E]) Size() int { return b.set.Len() }
func (b *setBuilder[E]) EnsureCapacity(int) {}
func (b *setBuilder[E]) Insert(_ int, e E) { b.set.Add(e) }
func (b *setBuilder[E]) Finish() *OrderedSet[E] { return b.set }
