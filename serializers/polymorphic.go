package serializers

import (
	"fmt"
	"reflect"
	"sort"

	goserde "github.com/reoring/goserde"
)

// Registry maps the concrete types of a base interface B to their
// serializers. Register everything before the first encode or decode; after
// that the registry is read-only and safe to share.
type Registry[B any] struct {
	base                string
	byName              map[string]goserde.Serializer[B]
	byType              map[reflect.Type]goserde.Serializer[B]
	defaultDeserializer func(discriminator string) (goserde.Serializer[B], bool)
	defaultSerializer   func(v B) (goserde.Serializer[B], bool)
}

// NewRegistry returns an empty registry for the base type called baseName.
func NewRegistry[B any](baseName string) *Registry[B] {
	return &Registry[B]{
		base:   baseName,
		byName: map[string]goserde.Serializer[B]{},
		byType: map[reflect.Type]goserde.Serializer[B]{},
	}
}

// Subclass registers T as a concrete type of B. The discriminator is the
// serial name of s's descriptor.
func Subclass[B, T any](r *Registry[B], s goserde.Serializer[T]) error {
	t, base := reflect.TypeFor[T](), reflect.TypeFor[B]()
	if !t.AssignableTo(base) {
		return fmt.Errorf("goserde: %s is not assignable to %s", t, base)
	}
	name := s.Descriptor().Name()
	if _, dup := r.byName[name]; dup {
		return fmt.Errorf("goserde: %s: discriminator %q registered twice", r.base, name)
	}
	if _, dup := r.byType[t]; dup {
		return fmt.Errorf("goserde: %s: type %s registered twice", r.base, t)
	}
	u := upcast[B, T]{inner: s}
	r.byName[name] = u
	r.byType[t] = u
	return nil
}

// MustSubclass is Subclass that panics on error.
func MustSubclass[B, T any](r *Registry[B], s goserde.Serializer[T]) {
	if err := Subclass(r, s); err != nil {
		panic(err)
	}
}

// DefaultDeserializer installs the fallback consulted for discriminators
// with no registration.
func (r *Registry[B]) DefaultDeserializer(f func(discriminator string) (goserde.Serializer[B], bool)) {
	r.defaultDeserializer = f
}

// DefaultSerializer installs the fallback consulted for runtime types with
// no registration.
func (r *Registry[B]) DefaultSerializer(f func(v B) (goserde.Serializer[B], bool)) {
	r.defaultSerializer = f
}

// Descriptors returns the descriptors of the registered concrete types,
// ordered by discriminator.
func (r *Registry[B]) Descriptors() []*goserde.Descriptor {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]*goserde.Descriptor, len(names))
	for i, n := range names {
		out[i] = r.byName[n].Descriptor()
	}
	return out
}

func (r *Registry[B]) lookupName(discriminator string) (goserde.Serializer[B], error) {
	if s, ok := r.byName[discriminator]; ok {
		return s, nil
	}
	if r.defaultDeserializer != nil {
		if s, ok := r.defaultDeserializer(discriminator); ok {
			return s, nil
		}
	}
	return nil, goserde.Fail(goserde.CodeDiscriminatorUnknown, discriminator)
}

func (r *Registry[B]) lookupValue(v B) (goserde.Serializer[B], error) {
	t := reflect.TypeOf(any(v))
	if t == nil {
		return nil, goserde.Failf(goserde.CodeNotRegistered, "nil %s", r.base)
	}
	if s, ok := r.byType[t]; ok {
		return s, nil
	}
	if r.defaultSerializer != nil {
		if s, ok := r.defaultSerializer(v); ok {
			return s, nil
		}
	}
	return nil, goserde.Fail(goserde.CodeNotRegistered, t.String())
}

// upcast views a Serializer[T] as a Serializer[B].
type upcast[B, T any] struct {
	inner goserde.Serializer[T]
}

func (u upcast[B, T]) Descriptor() *goserde.Descriptor { return u.inner.Descriptor() }

func (u upcast[B, T]) Serialize(enc goserde.Encoder, v B) error {
	t, ok := any(v).(T)
	if !ok {
		return goserde.Failf(goserde.CodeInvalidType, "%T is not %s", v, u.inner.Descriptor().Name())
	}
	return u.inner.Serialize(enc, t)
}

func (u upcast[B, T]) Deserialize(dec goserde.Decoder) (B, error) {
	t, err := u.inner.Deserialize(dec)
	if err != nil {
		var zero B
		return zero, err
	}
	return any(t).(B), nil
}

func (u upcast[B, T]) Patch(dec goserde.Decoder, old B) (B, error) {
	prev, ok := any(old).(T)
	if !ok {
		return u.Deserialize(dec)
	}
	t, err := goserde.Update(dec, u.inner, prev)
	if err != nil {
		var zero B
		return zero, err
	}
	return any(t).(B), nil
}

// Polymorphic returns the serializer for values of B resolved through r. The
// value is framed as two elements: the discriminator ("type") and the
// payload ("value").
func Polymorphic[B any](r *Registry[B]) goserde.Serializer[B] {
	return polymorphic[B]{
		reg: r,
		desc: goserde.NewDescriptor("Polymorphic<"+r.base+">", goserde.KindPolymorphic).
			Element("type", StringDescriptor).
			Element("value", goserde.NewDescriptor(r.base, goserde.KindClass).MustBuild()).
			MustBuild(),
	}
}

type polymorphic[B any] struct {
	reg  *Registry[B]
	desc *goserde.Descriptor
}

func (p polymorphic[B]) Descriptor() *goserde.Descriptor { return p.desc }

func (p polymorphic[B]) Serialize(enc goserde.Encoder, v B) error {
	s, err := p.reg.lookupValue(v)
	if err != nil {
		return err
	}
	c, err := enc.BeginStructure(p.desc)
	if err != nil {
		return err
	}
	err = goserde.EncodeStringElement(c, p.desc, 0, s.Descriptor().Name())
	if err == nil {
		err = goserde.EncodeSerializableElement(c, p.desc, 1, s, v)
	}
	return goserde.EndEncoding(c, p.desc, err)
}

func (p polymorphic[B]) Deserialize(dec goserde.Decoder) (B, error) {
	var (
		value         B
		discriminator string
		haveName      bool
		haveValue     bool
	)
	c, err := dec.BeginStructure(p.desc)
	if err != nil {
		return value, err
	}
	readValue := func() error {
		s, err := p.reg.lookupName(discriminator)
		if err != nil {
			return err
		}
		value, err = goserde.DecodeSerializableElement(c, p.desc, 1, s)
		haveValue = err == nil
		return err
	}
	err = func() error {
		for {
			i, err := c.DecodeElementIndex(p.desc)
			if err != nil {
				return err
			}
			switch i {
			case goserde.ReadDone:
				switch {
				case !haveName:
					return goserde.Fail(goserde.CodeDiscriminatorMissing, p.reg.base)
				case !haveValue:
					return goserde.Fail(goserde.CodeMissingField, p.desc.ElementName(1))
				}
				return nil
			case goserde.ReadAll:
				if discriminator, err = goserde.DecodeStringElement(c, p.desc, 0); err != nil {
					return err
				}
				haveName = true
				return readValue()
			case 0:
				if discriminator, err = goserde.DecodeStringElement(c, p.desc, 0); err != nil {
					return err
				}
				haveName = true
			case 1:
				if !haveName {
					return goserde.Fail(goserde.CodeDiscriminatorMissing, p.reg.base)
				}
				if err := readValue(); err != nil {
					return err
				}
			default:
				return goserde.Failf(goserde.CodeInvalidIndex, "%s: unexpected index %d", p.desc.Name(), i)
			}
		}
	}()
	if err := goserde.EndDecoding(c, p.desc, err); err != nil {
		var zero B
		return zero, err
	}
	return value, nil
}
