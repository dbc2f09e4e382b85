package serializers

import (
	goserde "github.com/reoring/goserde"
)

type Pair[A, B any] struct {
	First  A
	Second B
}

type Triple[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// Entry is one key/value association. It is framed as a map entry, so
// inside a map in the text format it renders as a bare "key":value.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// PairOf serializes Pair as a class with elements "first" and "second".
func PairOf[A, B any](a goserde.Serializer[A], b goserde.Serializer[B]) goserde.Serializer[Pair[A, B]] {
	return pairSerializer[A, B]{
		desc: goserde.NewDescriptor("Pair", goserde.KindClass).
			Element("first", a.Descriptor()).
			Element("second", b.Descriptor()).
			MustBuild(),
		a: a,
		b: b,
	}
}

type pairSerializer[A, B any] struct {
	desc *goserde.Descriptor
	a    goserde.Serializer[A]
	b    goserde.Serializer[B]
}

func (s pairSerializer[A, B]) Descriptor() *goserde.Descriptor { return s.desc }

func (s pairSerializer[A, B]) Serialize(enc goserde.Encoder, v Pair[A, B]) error {
	c, err := enc.BeginStructure(s.desc)
	if err != nil {
		return err
	}
	err = goserde.EncodeSerializableElement(c, s.desc, 0, s.a, v.First)
	if err == nil {
		err = goserde.EncodeSerializableElement(c, s.desc, 1, s.b, v.Second)
	}
	return goserde.EndEncoding(c, s.desc, err)
}

func (s pairSerializer[A, B]) Deserialize(dec goserde.Decoder) (Pair[A, B], error) {
	var v Pair[A, B]
	err := readFixed(dec, s.desc, func(c goserde.CompositeDecoder, i int) (err error) {
		switch i {
		case 0:
			v.First, err = goserde.DecodeSerializableElement(c, s.desc, 0, s.a)
		case 1:
			v.Second, err = goserde.DecodeSerializableElement(c, s.desc, 1, s.b)
		}
		return err
	})
	return v, err
}

// TripleOf serializes Triple as a class with elements "first", "second" and
// "third".
func TripleOf[A, B, C any](a goserde.Serializer[A], b goserde.Serializer[B], c goserde.Serializer[C]) goserde.Serializer[Triple[A, B, C]] {
	return tripleSerializer[A, B, C]{
		desc: goserde.NewDescriptor("Triple", goserde.KindClass).
			Element("first", a.Descriptor()).
			Element("second", b.Descriptor()).
			Element("third", c.Descriptor()).
			MustBuild(),
		a: a,
		b: b,
		c: c,
	}
}

type tripleSerializer[A, B, C any] struct {
	desc *goserde.Descriptor
	a    goserde.Serializer[A]
	b    goserde.Serializer[B]
	c    goserde.Serializer[C]
}

func (s tripleSerializer[A, B, C]) Descriptor() *goserde.Descriptor { return s.desc }

func (s tripleSerializer[A, B, C]) Serialize(enc goserde.Encoder, v Triple[A, B, C]) error {
	c, err := enc.BeginStructure(s.desc)
	if err != nil {
		return err
	}
	err = goserde.EncodeSerializableElement(c, s.desc, 0, s.a, v.First)
	if err == nil {
		err = goserde.EncodeSerializableElement(c, s.desc, 1, s.b, v.Second)
	}
	if err == nil {
		err = goserde.EncodeSerializableElement(c, s.desc, 2, s.c, v.Third)
	}
	return goserde.EndEncoding(c, s.desc, err)
}

func (s tripleSerializer[A, B, C]) Deserialize(dec goserde.Decoder) (Triple[A, B, C], error) {
	var v Triple[A, B, C]
	err := readFixed(dec, s.desc, func(c goserde.CompositeDecoder, i int) (err error) {
		switch i {
		case 0:
			v.First, err = goserde.DecodeSerializableElement(c, s.desc, 0, s.a)
		case 1:
			v.Second, err = goserde.DecodeSerializableElement(c, s.desc, 1, s.b)
		case 2:
			v.Third, err = goserde.DecodeSerializableElement(c, s.desc, 2, s.c)
		}
		return err
	})
	return v, err
}

// MapEntry serializes Entry with the ENTRY kind (elements "key", "value").
func MapEntry[K, V any](key goserde.Serializer[K], value goserde.Serializer[V]) goserde.Serializer[Entry[K, V]] {
	return entrySerializer[K, V]{
		desc: goserde.NewDescriptor("MapEntry", goserde.KindEntry).
			Element("key", key.Descriptor()).
			Element("value", value.Descriptor()).
			MustBuild(),
		key:   key,
		value: value,
	}
}

type entrySerializer[K, V any] struct {
	desc  *goserde.Descriptor
	key   goserde.Serializer[K]
	value goserde.Serializer[V]
}

func (s entrySerializer[K, V]) Descriptor() *goserde.Descriptor { return s.desc }

func (s entrySerializer[K, V]) Serialize(enc goserde.Encoder, v Entry[K, V]) error {
	c, err := enc.BeginStructure(s.desc, s.key, s.value)
	if err != nil {
		return err
	}
	err = goserde.EncodeSerializableElement(c, s.desc, 0, s.key, v.Key)
	if err == nil {
		err = goserde.EncodeSerializableElement(c, s.desc, 1, s.value, v.Value)
	}
	return goserde.EndEncoding(c, s.desc, err)
}

func (s entrySerializer[K, V]) Deserialize(dec goserde.Decoder) (Entry[K, V], error) {
	var v Entry[K, V]
	err := readFixed(dec, s.desc, func(c goserde.CompositeDecoder, i int) (err error) {
		switch i {
		case 0:
			v.Key, err = goserde.DecodeSerializableElement(c, s.desc, 0, s.key)
		case 1:
			v.Value, err = goserde.DecodeSerializableElement(c, s.desc, 1, s.value)
		}
		return err
	}, s.key, s.value)
	return v, err
}

// readFixed drives the decode loop of a fixed-arity structure. read decodes
// element i into the caller's value. ReadAll reads every element in order;
// an element still unread at ReadDone fails with missing_field naming it,
// and an element read twice fails with invalid_index.
func readFixed(dec goserde.Decoder, d *goserde.Descriptor, read func(c goserde.CompositeDecoder, i int) error, typeArgs ...goserde.Described) error {
	c, err := dec.BeginStructure(d, typeArgs...)
	if err != nil {
		return err
	}
	n := d.ElementsCount()
	seen := make([]bool, n)
	err = func() error {
		for {
			i, err := c.DecodeElementIndex(d)
			if err != nil {
				return err
			}
			switch {
			case i == goserde.ReadDone:
				for j, ok := range seen {
					if !ok {
						return goserde.Fail(goserde.CodeMissingField, d.ElementName(j))
					}
				}
				return nil
			case i == goserde.ReadAll:
				for j := 0; j < n; j++ {
					if err := read(c, j); err != nil {
						return err
					}
				}
				return nil
			case i >= 0 && i < n:
				if seen[i] {
					return goserde.Failf(goserde.CodeInvalidIndex, "%s: element %q repeated", d.Name(), d.ElementName(i))
				}
				if err := read(c, i); err != nil {
					return err
				}
				seen[i] = true
			default:
				return goserde.Failf(goserde.CodeInvalidIndex, "%s: unexpected index %d", d.Name(), i)
			}
		}
	}()
	return goserde.EndDecoding(c, d, err)
}
