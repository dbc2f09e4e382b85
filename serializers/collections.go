package serializers

import (
	goserde "github.com/reoring/goserde"
)

// Builder accumulates the elements of a collection being decoded. A builder
// is seeded either empty or with a copy of the value being patched, so the
// patched value itself is never mutated.
type Builder[E, C any] interface {
	// Size is the number of elements already held.
	Size() int
	// EnsureCapacity makes room for n more elements.
	EnsureCapacity(n int)
	// Insert places e at position index. Sets ignore the position.
	Insert(index int, e E)
	// Finish materializes the collection.
	Finish() C
}

// collectionStrategy is the per-container half of the shared collection
// algorithm. C is the container type, B the builder type.
type collectionStrategy[C, B any] interface {
	descriptor() *goserde.Descriptor
	typeArguments() []goserde.Described
	collectionSize(v C) int
	writeContent(c goserde.CompositeEncoder, v C) error
	builder() B
	toBuilder(v C) B
	builderSize(b B) int
	checkCapacity(b B, size int)
	// readElement decodes the element the decoder reported as index; it
	// lands at position start+index of the builder. With checkIndex the
	// strategy may consume further indices from c and must verify them.
	readElement(c goserde.CompositeDecoder, start, index int, b B, checkIndex bool) error
	readAll(c goserde.CompositeDecoder, b B, start, size int) error
	toResult(b B) C
}

// collection turns a strategy into a Serializer that also implements Patch.
type collection[C, B any] struct {
	strategy collectionStrategy[C, B]
}

func (s collection[C, B]) Descriptor() *goserde.Descriptor { return s.strategy.descriptor() }

func (s collection[C, B]) Serialize(enc goserde.Encoder, v C) error {
	d := s.strategy.descriptor()
	c, err := enc.BeginCollection(d, s.strategy.collectionSize(v), s.strategy.typeArguments()...)
	if err != nil {
		return err
	}
	return goserde.EndEncoding(c, d, s.strategy.writeContent(c, v))
}

func (s collection[C, B]) Deserialize(dec goserde.Decoder) (C, error) {
	return s.merge(dec, s.strategy.builder())
}

func (s collection[C, B]) Patch(dec goserde.Decoder, old C) (C, error) {
	return s.merge(dec, s.strategy.toBuilder(old))
}

func (s collection[C, B]) merge(dec goserde.Decoder, b B) (C, error) {
	var zero C
	d := s.strategy.descriptor()
	start := s.strategy.builderSize(b)
	c, err := dec.BeginStructure(d, s.strategy.typeArguments()...)
	if err != nil {
		return zero, err
	}
	err = func() error {
		size, err := c.DecodeCollectionSize(d)
		if err != nil {
			return err
		}
		if size >= 0 {
			s.strategy.checkCapacity(b, size)
		}
		for {
			index, err := c.DecodeElementIndex(d)
			if err != nil {
				return err
			}
			switch index {
			case goserde.ReadDone:
				return nil
			case goserde.ReadAll:
				if size < 0 {
					return goserde.Failf(goserde.CodeInvalidIndex, "%s: bulk read without a declared size", d.Name())
				}
				return s.strategy.readAll(c, b, start, size)
			}
			if index < 0 {
				return goserde.Failf(goserde.CodeInvalidIndex, "%s: index %d", d.Name(), index)
			}
			if err := s.strategy.readElement(c, start, index, b, true); err != nil {
				return err
			}
		}
	}()
	if err := goserde.EndDecoding(c, d, err); err != nil {
		return zero, err
	}
	return s.strategy.toResult(b), nil
}
