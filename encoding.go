package goserde

// Sentinels returned by CompositeDecoder.DecodeElementIndex and
// Descriptor.ElementIndex.
const (
	// ReadDone signals that the composite has no more elements.
	ReadDone = -1
	// ReadAll signals that the format knows the composite's size up front;
	// the caller reads every index 0..size-1 without further index queries.
	ReadAll = -2
	// UnknownName is returned by ElementIndex for a name with no element.
	UnknownName = -3
)

// Described is the type-erased view of a serializer: enough to pass type
// arguments to BeginStructure.
type Described interface {
	Descriptor() *Descriptor
}

// Encoder writes one value. Formats implement it; serializers drive it.
type Encoder interface {
	// EncodeNotNullMark precedes a non-null value of a nullable type.
	EncodeNotNullMark() error
	EncodeNull() error
	EncodeBool(v bool) error
	EncodeInt8(v int8) error
	EncodeInt16(v int16) error
	EncodeInt32(v int32) error
	EncodeInt64(v int64) error
	EncodeFloat32(v float32) error
	EncodeFloat64(v float64) error
	EncodeRune(v rune) error
	EncodeString(v string) error
	// EncodeEnum writes the enum constant at index of d.
	EncodeEnum(d *Descriptor, index int) error

	// BeginStructure opens a composite. The returned handle is valid until
	// its EndStructure and may be the receiver itself.
	BeginStructure(d *Descriptor, typeArgs ...Described) (CompositeEncoder, error)
	// BeginCollection opens a composite whose element count is known.
	BeginCollection(d *Descriptor, size int, typeArgs ...Described) (CompositeEncoder, error)
}

// CompositeEncoder writes the elements of one composite.
type CompositeEncoder interface {
	// EncodeElement positions the output at element index of d and returns
	// the Encoder to write its value with.
	EncodeElement(d *Descriptor, index int) (Encoder, error)
	// ShouldEncodeElementDefault reports whether an optional element still
	// holding its default value should be written.
	ShouldEncodeElementDefault(d *Descriptor, index int) bool
	// EndStructure closes the composite. It is called exactly once per
	// successful BeginStructure, on error paths too.
	EndStructure(d *Descriptor) error
}

// Decoder reads one value.
type Decoder interface {
	// DecodeNotNullMark reports whether the next value is not null.
	DecodeNotNullMark() (bool, error)
	DecodeNull() error
	DecodeBool() (bool, error)
	DecodeInt8() (int8, error)
	DecodeInt16() (int16, error)
	DecodeInt32() (int32, error)
	DecodeInt64() (int64, error)
	DecodeFloat32() (float32, error)
	DecodeFloat64() (float64, error)
	DecodeRune() (rune, error)
	DecodeString() (string, error)
	// DecodeEnum returns the index of the enum constant in d.
	DecodeEnum(d *Descriptor) (int, error)

	BeginStructure(d *Descriptor, typeArgs ...Described) (CompositeDecoder, error)
}

// CompositeDecoder reads the elements of one composite.
type CompositeDecoder interface {
	// DecodeElementIndex returns the index of the next element, ReadDone or
	// ReadAll. Elements may arrive in any order unless the kind is
	// positional (ENTRY, POLYMORPHIC).
	DecodeElementIndex(d *Descriptor) (int, error)
	// DecodeCollectionSize returns the declared element count, or -1 when
	// the format does not know it.
	DecodeCollectionSize(d *Descriptor) (int, error)
	// DecodeElement returns the Decoder positioned at element index.
	DecodeElement(d *Descriptor, index int) (Decoder, error)
	EndStructure(d *Descriptor) error
}

// EndEncoding closes c and returns err, or the close error when err is nil.
func EndEncoding(c CompositeEncoder, d *Descriptor, err error) error {
	if endErr := c.EndStructure(d); err == nil {
		return endErr
	}
	return err
}

// EndDecoding closes c and returns err, or the close error when err is nil.
func EndDecoding(c CompositeDecoder, d *Descriptor, err error) error {
	if endErr := c.EndStructure(d); err == nil {
		return endErr
	}
	return err
}
