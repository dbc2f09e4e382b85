package serializers

import (
	"cmp"
	"iter"
	"maps"
	"slices"

	goserde "github.com/reoring/goserde"
)

// mapStrategy lays entries out flat: the key of entry i is element 2i and its
// value element 2i+1. The builder is always an OrderedMap; finish converts it
// to the container type.
type mapStrategy[K comparable, V, C any] struct {
	desc   *goserde.Descriptor
	key    goserde.Serializer[K]
	value  goserde.Serializer[V]
	size   func(C) int
	all    func(C) iter.Seq2[K, V]
	seed   func(C) *OrderedMap[K, V]
	finish func(*OrderedMap[K, V]) C
}

func (s mapStrategy[K, V, C]) descriptor() *goserde.Descriptor { return s.desc }

func (s mapStrategy[K, V, C]) typeArguments() []goserde.Described {
	return []goserde.Described{s.key, s.value}
}

func (s mapStrategy[K, V, C]) collectionSize(v C) int { return s.size(v) }

func (s mapStrategy[K, V, C]) writeContent(c goserde.CompositeEncoder, v C) error {
	i := 0
	for k, val := range s.all(v) {
		if err := goserde.EncodeSerializableElement(c, s.desc, i, s.key, k); err != nil {
			return err
		}
		if err := goserde.EncodeSerializableElement(c, s.desc, i+1, s.value, val); err != nil {
			return err
		}
		i += 2
	}
	return nil
}

func (s mapStrategy[K, V, C]) builder() *OrderedMap[K, V] { return NewOrderedMap[K, V]() }
func (s mapStrategy[K, V, C]) toBuilder(v C) *OrderedMap[K, V] { return s.seed(v) }
func (s mapStrategy[K, V, C]) builderSize(b *OrderedMap[K, V]) int { return b.Len() * 2 }
func (s mapStrategy[K, V, C]) checkCapacity(*OrderedMap[K, V], int) {}
func (s mapStrategy[K, V, C]) toResult(b *OrderedMap[K, V]) C { return s.finish(b) }

// readElement decodes the key at index and the value right after it. Keys
// land by identity, so the builder position is irrelevant. When
// the key is already present and the value is not primitive, the payload is
// merged into the existing value instead of replacing it.
func (s mapStrategy[K, V, C]) readElement(c goserde.CompositeDecoder, _, index int, b *OrderedMap[K, V], checkIndex bool) error {
	k, err := goserde.DecodeSerializableElement(c, s.desc, index, s.key)
	if err != nil {
		return err
	}
	valueIndex := index + 1
	if checkIndex {
		valueIndex, err = c.DecodeElementIndex(s.desc)
		if err != nil {
			return err
		}
		if valueIndex != index+1 {
			return goserde.Failf(goserde.CodeInvalidIndex, "%s: value must follow its key: expected index %d, got %d", s.desc.Name(), index+1, valueIndex)
		}
	}
	var v V
	if old, ok := b.Get(k); ok && !s.value.Descriptor().Kind().IsPrimitive() {
		v, err = goserde.UpdateSerializableElement(c, s.desc, valueIndex, s.value, old)
	} else {
		v, err = goserde.DecodeSerializableElement(c, s.desc, valueIndex, s.value)
	}
	if err != nil {
		return err
	}
	b.Set(k, v)
	return nil
}

func (s mapStrategy[K, V, C]) readAll(c goserde.CompositeDecoder, b *OrderedMap[K, V], start, size int) error {
	for i := 0; i < size*2; i += 2 {
		if err := s.readElement(c, start, i, b, false); err != nil {
			return err
		}
	}
	return nil
}

// Map serializes an insertion-ordered map.
func Map[K comparable, V any](key goserde.Serializer[K], value goserde.Serializer[V]) goserde.Serializer[*OrderedMap[K, V]] {
	return collection[*OrderedMap[K, V], *OrderedMap[K, V]]{strategy: mapStrategy[K, V, *OrderedMap[K, V]]{
		desc:  goserde.MapDescriptor(key.Descriptor(), value.Descriptor()),
		key:   key,
		value: value,
		size:  (*OrderedMap[K, V]).Len,
		all:   (*OrderedMap[K, V]).All,
		seed: func(old *OrderedMap[K, V]) *OrderedMap[K, V] {
			if old == nil {
				return NewOrderedMap[K, V]()
			}
			return old.Clone()
		},
		finish: func(b *OrderedMap[K, V]) *OrderedMap[K, V] { return b },
	}}
}

// GoMap serializes a built-in map. Keys are written in ascending order so
// the output is deterministic.
func GoMap[K cmp.Ordered, V any](key goserde.Serializer[K], value goserde.Serializer[V]) goserde.Serializer[map[K]V] {
	return collection[map[K]V, *OrderedMap[K, V]]{strategy: mapStrategy[K, V, map[K]V]{
		desc:  goserde.MapDescriptor(key.Descriptor(), value.Descriptor()),
		key:   key,
		value: value,
		size:  func(m map[K]V) int { return len(m) },
		all:   sortedEntries[K, V],
		seed: func(old map[K]V) *OrderedMap[K, V] {
			b := NewOrderedMap[K, V]()
			for k, v := range sortedEntries(old) {
				b.Set(k, v)
			}
			return b
		},
		finish: func(b *OrderedMap[K, V]) map[K]V {
			out := make(map[K]V, b.Len())
			for k, v := range b.All() {
				out[k] = v
			}
			return out
		},
	}}
}

func sortedEntries[K cmp.Ordered, V any](m map[K]V) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range slices.Sorted(maps.Keys(m)) {
			if !yield(k, m[k]) {
				return
			}
		}
	}
}
