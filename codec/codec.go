package codec

import (
	goserde "github.com/reoring/goserde"
)

// Codec converts between a wire representation A and a domain value B.
type Codec[A, B any] interface {
	Decode(a A) (B, error)
	Encode(b B) (A, error)
}

// Identity returns a Codec[T,T] that passes values through unchanged.
func Identity[T any]() Codec[T, T] { return identityCodec[T]{} }

type identityCodec[T any] struct{}

func (identityCodec[T]) Decode(a T) (T, error) { return a, nil }
func (identityCodec[T]) Encode(b T) (T, error) { return b, nil }

// Transform returns a serializer for D that travels as W through wire. The
// descriptor keeps wire's kind under the new serial name, so formats frame
// the value exactly like W.
func Transform[W, D any](name string, wire goserde.Serializer[W], c Codec[W, D]) goserde.Serializer[D] {
	d := wire.Descriptor()
	if d.Kind().IsPrimitive() {
		d = goserde.PrimitiveDescriptor(name, d.Kind())
	}
	return transformed[W, D]{desc: d, wire: wire, codec: c}
}

type transformed[W, D any] struct {
	desc  *goserde.Descriptor
	wire  goserde.Serializer[W]
	codec Codec[W, D]
}

func (t transformed[W, D]) Descriptor() *goserde.Descriptor { return t.desc }

func (t transformed[W, D]) Serialize(enc goserde.Encoder, v D) error {
	w, err := t.codec.Encode(v)
	if err != nil {
		return err
	}
	return t.wire.Serialize(enc, w)
}

func (t transformed[W, D]) Deserialize(dec goserde.Decoder) (D, error) {
	w, err := t.wire.Deserialize(dec)
	if err != nil {
		var zero D
		return zero, err
	}
	return t.codec.Decode(w)
}
