package cbor

import (
	goserde "github.com/reoring/goserde"
)

// encoder writes one composite. Element bodies are buffered per composite
// so the definite-length head can carry the number of elements actually
// written, which differs from the descriptor's count when defaults are
// omitted.
type encoder struct {
	cfg    *Config
	w      *writer
	kind   goserde.Kind
	count  int
	parent *writer
}

var (
	_ goserde.Encoder          = (*encoder)(nil)
	_ goserde.CompositeEncoder = (*encoder)(nil)
)

func newEncoder(cfg *Config, w *writer) *encoder {
	return &encoder{cfg: cfg, w: w, kind: goserde.KindClass}
}

func (e *encoder) EncodeNotNullMark() error { return nil }

func (e *encoder) EncodeNull() error {
	e.w.writeNull()
	return nil
}

func (e *encoder) EncodeBool(v bool) error {
	e.w.writeBool(v)
	return nil
}

func (e *encoder) EncodeInt8(v int8) error   { return e.EncodeInt64(int64(v)) }
func (e *encoder) EncodeInt16(v int16) error { return e.EncodeInt64(int64(v)) }
func (e *encoder) EncodeInt32(v int32) error { return e.EncodeInt64(int64(v)) }

func (e *encoder) EncodeInt64(v int64) error {
	e.w.writeInt(v)
	return nil
}

func (e *encoder) EncodeFloat32(v float32) error { return e.EncodeFloat64(float64(v)) }

func (e *encoder) EncodeFloat64(v float64) error {
	e.w.writeFloat(v)
	return nil
}

// EncodeRune writes the code point as an integer.
func (e *encoder) EncodeRune(v rune) error { return e.EncodeInt64(int64(v)) }

func (e *encoder) EncodeString(v string) error {
	e.w.writeString(v)
	return nil
}

func (e *encoder) EncodeEnum(d *goserde.Descriptor, index int) error {
	return e.EncodeString(d.ElementName(index))
}

func (e *encoder) BeginCollection(d *goserde.Descriptor, _ int, typeArgs ...goserde.Described) (goserde.CompositeEncoder, error) {
	return e.BeginStructure(d, typeArgs...)
}

func (e *encoder) BeginStructure(d *goserde.Descriptor, _ ...goserde.Described) (goserde.CompositeEncoder, error) {
	if !d.Kind().IsStructure() {
		return nil, goserde.Failf(goserde.CodeInvalidType, "%s is not a structure", d)
	}
	return &encoder{cfg: e.cfg, w: &writer{}, kind: d.Kind(), parent: e.w}, nil
}

func (e *encoder) EncodeElement(d *goserde.Descriptor, index int) (goserde.Encoder, error) {
	switch e.kind {
	case goserde.KindClass, goserde.KindObject:
		e.w.writeString(d.ElementName(index))
	}
	e.count++
	return e, nil
}

func (e *encoder) ShouldEncodeElementDefault(*goserde.Descriptor, int) bool {
	return !e.cfg.OmitDefaults
}

// EndStructure writes the head and the buffered body into the parent.
func (e *encoder) EndStructure(d *goserde.Descriptor) error {
	switch e.kind {
	case goserde.KindMap:
		if e.count%2 != 0 {
			return goserde.Failf(goserde.CodeInvalidIndex, "%s: key without a value", d.Name())
		}
		e.parent.writeHead(majorMap, uint64(e.count/2))
	case goserde.KindClass, goserde.KindObject:
		e.parent.writeHead(majorMap, uint64(e.count))
	default:
		e.parent.writeHead(majorArray, uint64(e.count))
	}
	e.parent.writeRaw(e.w.buf)
	return nil
}
