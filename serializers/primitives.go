package serializers

import (
	goserde "github.com/reoring/goserde"
)

// Primitive descriptors, shared by every serializer in this package.
var (
	BoolDescriptor    = goserde.PrimitiveDescriptor("bool", goserde.KindBool)
	Int8Descriptor    = goserde.PrimitiveDescriptor("int8", goserde.KindInt8)
	Int16Descriptor   = goserde.PrimitiveDescriptor("int16", goserde.KindInt16)
	Int32Descriptor   = goserde.PrimitiveDescriptor("int32", goserde.KindInt32)
	Int64Descriptor   = goserde.PrimitiveDescriptor("int64", goserde.KindInt64)
	IntDescriptor     = goserde.PrimitiveDescriptor("int", goserde.KindInt64)
	Float32Descriptor = goserde.PrimitiveDescriptor("float32", goserde.KindFloat32)
	Float64Descriptor = goserde.PrimitiveDescriptor("float64", goserde.KindFloat64)
	RuneDescriptor    = goserde.PrimitiveDescriptor("rune", goserde.KindRune)
	StringDescriptor  = goserde.PrimitiveDescriptor("string", goserde.KindString)
)

// primitive wires a scalar type to its Encoder/Decoder methods.
type primitive[T any] struct {
	desc   *goserde.Descriptor
	encode func(goserde.Encoder, T) error
	decode func(goserde.Decoder) (T, error)
}

func (p primitive[T]) Descriptor() *goserde.Descriptor { return p.desc }
func (p primitive[T]) Serialize(enc goserde.Encoder, v T) error { return p.encode(enc, v) }
func (p primitive[T]) Deserialize(dec goserde.Decoder) (T, error) { return p.decode(dec) }

// Bool returns the serializer for bool.
func Bool() goserde.Serializer[bool] {
	return primitive[bool]{BoolDescriptor, goserde.Encoder.EncodeBool, goserde.Decoder.DecodeBool}
}

func Int8() goserde.Serializer[int8] {
	return primitive[int8]{Int8Descriptor, goserde.Encoder.EncodeInt8, goserde.Decoder.DecodeInt8}
}

func Int16() goserde.Serializer[int16] {
	return primitive[int16]{Int16Descriptor, goserde.Encoder.EncodeInt16, goserde.Decoder.DecodeInt16}
}

func Int32() goserde.Serializer[int32] {
	return primitive[int32]{Int32Descriptor, goserde.Encoder.EncodeInt32, goserde.Decoder.DecodeInt32}
}

func Int64() goserde.Serializer[int64] {
	return primitive[int64]{Int64Descriptor, goserde.Encoder.EncodeInt64, goserde.Decoder.DecodeInt64}
}

// Int serializes the platform int as a 64-bit integer.
func Int() goserde.Serializer[int] {
	return primitive[int]{
		desc:   IntDescriptor,
		encode: func(enc goserde.Encoder, v int) error { return enc.EncodeInt64(int64(v)) },
		decode: func(dec goserde.Decoder) (int, error) {
			v, err := dec.DecodeInt64()
			return int(v), err
		},
	}
}

func Float32() goserde.Serializer[float32] {
	return primitive[float32]{Float32Descriptor, goserde.Encoder.EncodeFloat32, goserde.Decoder.DecodeFloat32}
}

func Float64() goserde.Serializer[float64] {
	return primitive[float64]{Float64Descriptor, goserde.Encoder.EncodeFloat64, goserde.Decoder.DecodeFloat64}
}

func Rune() goserde.Serializer[rune] {
	return primitive[rune]{RuneDescriptor, goserde.Encoder.EncodeRune, goserde.Decoder.DecodeRune}
}

// String returns the serializer for string.
func String() goserde.Serializer[string] {
	return primitive[string]{StringDescriptor, goserde.Encoder.EncodeString, goserde.Decoder.DecodeString}
}

// StringAs projects String onto a named string type.
func StringAs[T ~string]() goserde.Serializer[T] {
	return primitive[T]{
		desc:   StringDescriptor,
		encode: func(enc goserde.Encoder, v T) error { return enc.EncodeString(string(v)) },
		decode: func(dec goserde.Decoder) (T, error) {
			s, err := dec.DecodeString()
			return T(s), err
		},
	}
}
