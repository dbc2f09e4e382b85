package serializers

import (
	"reflect"

	goserde "github.com/reoring/goserde"
)

// ObjectBuilder assembles a class serializer for a struct type T from field
// accessors. It stands in for generated serializers.
type ObjectBuilder[T any] struct {
	name        string
	annotations []any
	fields      []objectField[T]
}

type objectField[T any] struct {
	name      string
	desc      *goserde.Descriptor
	opts      []goserde.ElementOption
	optional  bool
	encode    func(c goserde.CompositeEncoder, d *goserde.Descriptor, i int, v *T) error
	decode    func(c goserde.CompositeDecoder, d *goserde.Descriptor, i int, v *T, merge bool) error
	isDefault func(v *T) bool
	reset     func(v *T)
}

// Object starts a builder for the class called name.
func Object[T any](name string) *ObjectBuilder[T] {
	return &ObjectBuilder[T]{name: name}
}

// Annotate attaches type-level annotations to the descriptor.
func (b *ObjectBuilder[T]) Annotate(a ...any) *ObjectBuilder[T] {
	b.annotations = append(b.annotations, a...)
	return b
}

// Field declares a required field. Element indices follow declaration order.
func Field[T, F any](b *ObjectBuilder[T], name string, s goserde.Serializer[F], get func(*T) F, set func(*T, F), opts ...goserde.ElementOption) *ObjectBuilder[T] {
	b.fields = append(b.fields, newField(name, s, get, set, opts))
	return b
}

// OptionalField declares a field that may be absent from the payload; an
// absent field decodes as def. A field equal to def is skipped on encode
// unless the format asks for defaults.
func OptionalField[T, F any](b *ObjectBuilder[T], name string, s goserde.Serializer[F], get func(*T) F, set func(*T, F), def F, opts ...goserde.ElementOption) *ObjectBuilder[T] {
	f := newField(name, s, get, set, append(opts, goserde.Optional()))
	f.optional = true
	f.isDefault = func(v *T) bool { return reflect.DeepEqual(get(v), def) }
	f.reset = func(v *T) { set(v, def) }
	b.fields = append(b.fields, f)
	return b
}

func newField[T, F any](name string, s goserde.Serializer[F], get func(*T) F, set func(*T, F), opts []goserde.ElementOption) objectField[T] {
	return objectField[T]{
		name: name,
		desc: s.Descriptor(),
		opts: opts,
		encode: func(c goserde.CompositeEncoder, d *goserde.Descriptor, i int, v *T) error {
			return goserde.EncodeSerializableElement(c, d, i, s, get(v))
		},
		decode: func(c goserde.CompositeDecoder, d *goserde.Descriptor, i int, v *T, merge bool) error {
			var (
				f   F
				err error
			)
			if merge {
				f, err = goserde.UpdateSerializableElement(c, d, i, s, get(v))
			} else {
				f, err = goserde.DecodeSerializableElement(c, d, i, s)
			}
			if err != nil {
				return err
			}
			set(v, f)
			return nil
		},
	}
}

// Build freezes the field list into a serializer. The serializer implements
// Patch: fields present in the payload are merged into the old value, absent
// fields keep it.
func (b *ObjectBuilder[T]) Build() (goserde.Serializer[T], error) {
	db := goserde.NewDescriptor(b.name, goserde.KindClass).Annotate(b.annotations...)
	for _, f := range b.fields {
		db.Element(f.name, f.desc, f.opts...)
	}
	d, err := db.Build()
	if err != nil {
		return nil, err
	}
	return &objectSerializer[T]{desc: d, fields: append([]objectField[T](nil), b.fields...)}, nil
}

// MustBuild is Build that panics on error.
func (b *ObjectBuilder[T]) MustBuild() goserde.Serializer[T] {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

type objectSerializer[T any] struct {
	desc   *goserde.Descriptor
	fields []objectField[T]
}

func (s *objectSerializer[T]) Descriptor() *goserde.Descriptor { return s.desc }

func (s *objectSerializer[T]) Serialize(enc goserde.Encoder, v T) error {
	c, err := enc.BeginStructure(s.desc)
	if err != nil {
		return err
	}
	for i, f := range s.fields {
		if f.optional && f.isDefault(&v) && !c.ShouldEncodeElementDefault(s.desc, i) {
			continue
		}
		if err = f.encode(c, s.desc, i, &v); err != nil {
			break
		}
	}
	return goserde.EndEncoding(c, s.desc, err)
}

func (s *objectSerializer[T]) Deserialize(dec goserde.Decoder) (T, error) {
	var v T
	return s.read(dec, v, false)
}

func (s *objectSerializer[T]) Patch(dec goserde.Decoder, old T) (T, error) {
	return s.read(dec, old, true)
}

func (s *objectSerializer[T]) read(dec goserde.Decoder, v T, merge bool) (T, error) {
	c, err := dec.BeginStructure(s.desc)
	if err != nil {
		return v, err
	}
	seen := make([]bool, len(s.fields))
	readField := func(i int) error {
		if err := s.fields[i].decode(c, s.desc, i, &v, merge); err != nil {
			return err
		}
		seen[i] = true
		return nil
	}
	err = func() error {
		for {
			i, err := c.DecodeElementIndex(s.desc)
			if err != nil {
				return err
			}
			switch {
			case i == goserde.ReadDone:
				return nil
			case i == goserde.ReadAll:
				for j := range s.fields {
					if err := readField(j); err != nil {
						return err
					}
				}
				return nil
			case i >= 0 && i < len(s.fields):
				if seen[i] {
					return goserde.Failf(goserde.CodeInvalidIndex, "%s: element %q repeated", s.desc.Name(), s.fields[i].name)
				}
				if err := readField(i); err != nil {
					return err
				}
			default:
				return goserde.Failf(goserde.CodeInvalidIndex, "%s: unexpected index %d", s.desc.Name(), i)
			}
		}
	}()
	if err := goserde.EndDecoding(c, s.desc, err); err != nil {
		var zero T
		return zero, err
	}
	if merge {
		return v, nil
	}
	for i, f := range s.fields {
		switch {
		case seen[i]:
		case f.optional:
			f.reset(&v)
		default:
			var zero T
			return zero, goserde.Fail(goserde.CodeMissingField, f.name)
		}
	}
	return v, nil
}
