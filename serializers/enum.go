package serializers

import (
	goserde "github.com/reoring/goserde"
)

// Enum returns a serializer for an integer-backed enum whose constants are
// 0..len(names)-1. Values travel by name.
func Enum[E ~int](name string, names ...string) goserde.Serializer[E] {
	b := goserde.NewDescriptor(name, goserde.KindEnum)
	for _, n := range names {
		b.Element(n, goserde.NewDescriptor(name+"."+n, goserde.KindObject).MustBuild())
	}
	return enumSerializer[E]{desc: b.MustBuild()}
}

type enumSerializer[E ~int] struct{ desc *goserde.Descriptor }

func (s enumSerializer[E]) Descriptor() *goserde.Descriptor { return s.desc }

func (s enumSerializer[E]) Serialize(enc goserde.Encoder, v E) error {
	i := int(v)
	if i < 0 || i >= s.desc.ElementsCount() {
		return goserde.Failf(goserde.CodeInvalidEnum, "%s has no constant %d", s.desc.Name(), i)
	}
	return enc.EncodeEnum(s.desc, i)
}

func (s enumSerializer[E]) Deserialize(dec goserde.Decoder) (E, error) {
	i, err := dec.DecodeEnum(s.desc)
	if err != nil {
		return 0, err
	}
	if i < 0 || i >= s.desc.ElementsCount() {
		return 0, goserde.Failf(goserde.CodeInvalidEnum, "%s has no constant %d", s.desc.Name(), i)
	}
	return E(i), nil
}

// Singleton serializes a stateless value as an empty structure. Decoding
// returns the same value.
func Singleton[T any](name string, value T) goserde.Serializer[T] {
	return singletonSerializer[T]{desc: goserde.NewDescriptor(name, goserde.KindObject).MustBuild(), value: value}
}

// Unit is the singleton for struct{}.
func Unit() goserde.Serializer[struct{}] { return Singleton("Unit", struct{}{}) }

type singletonSerializer[T any] struct {
	desc  *goserde.Descriptor
	value T
}

func (s singletonSerializer[T]) Descriptor() *goserde.Descriptor { return s.desc }

func (s singletonSerializer[T]) Serialize(enc goserde.Encoder, _ T) error {
	c, err := enc.BeginStructure(s.desc)
	if err != nil {
		return err
	}
	return goserde.EndEncoding(c, s.desc, nil)
}

func (s singletonSerializer[T]) Deserialize(dec goserde.Decoder) (T, error) {
	c, err := dec.BeginStructure(s.desc)
	if err != nil {
		return s.value, err
	}
	err = func() error {
		for {
			i, err := c.DecodeElementIndex(s.desc)
			if err != nil {
				return err
			}
			switch i {
			case goserde.ReadDone, goserde.ReadAll:
				return nil
			default:
				return goserde.Failf(goserde.CodeInvalidIndex, "%s has no elements, got index %d", s.desc.Name(), i)
			}
		}
	}()
	return s.value, goserde.EndDecoding(c, s.desc, err)
}
