package goserde

// Serializer converts values of T through the Encoder/Decoder contract.
// Implementations are supplied per type by the caller, by code generation or
// by the serializers package.
type Serializer[T any] interface {
	Described
	Serialize(enc Encoder, v T) error
	Deserialize(dec Decoder) (T, error)
}

// Patcher is implemented by serializers that can merge a payload into an
// existing value instead of building a fresh one.
type Patcher[T any] interface {
	Patch(dec Decoder, old T) (T, error)
}

// Update decodes the next value as a patch over old. Serializers without a
// Patch method overwrite, which is the rule for primitives.
func Update[T any](dec Decoder, s Serializer[T], old T) (T, error) {
	if p, ok := s.(Patcher[T]); ok {
		return p.Patch(dec, old)
	}
	return s.Deserialize(dec)
}

// EncodeSerializableElement writes v as element index of d.
func EncodeSerializableElement[T any](c CompositeEncoder, d *Descriptor, index int, s Serializer[T], v T) error {
	enc, err := c.EncodeElement(d, index)
	if err != nil {
		return err
	}
	return s.Serialize(enc, v)
}

// DecodeSerializableElement reads element index of d.
func DecodeSerializableElement[T any](c CompositeDecoder, d *Descriptor, index int, s Serializer[T]) (T, error) {
	dec, err := c.DecodeElement(d, index)
	if err != nil {
		var zero T
		return zero, err
	}
	return s.Deserialize(dec)
}

// UpdateSerializableElement reads element index of d as a patch over old.
func UpdateSerializableElement[T any](c CompositeDecoder, d *Descriptor, index int, s Serializer[T], old T) (T, error) {
	dec, err := c.DecodeElement(d, index)
	if err != nil {
		var zero T
		return zero, err
	}
	return Update(dec, s, old)
}

func EncodeStringElement(c CompositeEncoder, d *Descriptor, index int, v string) error {
	enc, err := c.EncodeElement(d, index)
	if err != nil {
		return err
	}
	return enc.EncodeString(v)
}

func DecodeStringElement(c CompositeDecoder, d *Descriptor, index int) (string, error) {
	dec, err := c.DecodeElement(d, index)
	if err != nil {
		return "", err
	}
	return dec.DecodeString()
}

func EncodeInt64Element(c CompositeEncoder, d *Descriptor, index int, v int64) error {
	enc, err := c.EncodeElement(d, index)
	if err != nil {
		return err
	}
	return enc.EncodeInt64(v)
}

func DecodeInt64Element(c CompositeDecoder, d *Descriptor, index int) (int64, error) {
	dec, err := c.DecodeElement(d, index)
	if err != nil {
		return 0, err
	}
	return dec.DecodeInt64()
}

func EncodeBoolElement(c CompositeEncoder, d *Descriptor, index int, v bool) error {
	enc, err := c.EncodeElement(d, index)
	if err != nil {
		return err
	}
	return enc.EncodeBool(v)
}

func DecodeBoolElement(c CompositeDecoder, d *Descriptor, index int) (bool, error) {
	dec, err := c.DecodeElement(d, index)
	if err != nil {
		return false, err
	}
	return dec.DecodeBool()
}

// Nullable adapts s to a pointer type where nil is encoded as null.
func Nullable[T any](s Serializer[T]) Serializer[*T] {
	return &nullableSerializer[T]{inner: s, desc: NullableDescriptor(s.Descriptor())}
}

type nullableSerializer[T any] struct {
	inner Serializer[T]
	desc  *Descriptor
}

func (n *nullableSerializer[T]) Descriptor() *Descriptor { return n.desc }

func (n *nullableSerializer[T]) Serialize(enc Encoder, v *T) error {
	if v == nil {
		return enc.EncodeNull()
	}
	if err := enc.EncodeNotNullMark(); err != nil {
		return err
	}
	return n.inner.Serialize(enc, *v)
}

func (n *nullableSerializer[T]) Deserialize(dec Decoder) (*T, error) {
	return n.Patch(dec, nil)
}

func (n *nullableSerializer[T]) Patch(dec Decoder, old *T) (*T, error) {
	notNull, err := dec.DecodeNotNullMark()
	if err != nil {
		return nil, err
	}
	if !notNull {
		return nil, dec.DecodeNull()
	}
	var v T
	if old != nil {
		v, err = Update(dec, n.inner, *old)
	} else {
		v, err = n.inner.Deserialize(dec)
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}
