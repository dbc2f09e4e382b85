package cbor

import (
	"errors"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/x448/float16"

	goserde "github.com/reoring/goserde"
	eng "github.com/reoring/goserde/internal/engine"
)

// decoder reads one composite from the shared reader. Collections, entries
// and polymorphic values are read positionally (ReadAll); classes are maps
// keyed by element name.
type decoder struct {
	cfg     *Config
	r       *reader
	kind    goserde.Kind
	path    string
	label   string
	started bool
	size    int // elements of an array, pairs of a map
	read    int // keys consumed from a class map
	served  bool
}

var (
	_ goserde.Decoder          = (*decoder)(nil)
	_ goserde.CompositeDecoder = (*decoder)(nil)
)

func newDecoder(cfg *Config, r *reader) *decoder {
	return &decoder{cfg: cfg, r: r, kind: goserde.KindClass}
}

func (d *decoder) elementPath() string {
	if !d.started {
		return d.path
	}
	return eng.JoinPointer(d.path, d.label)
}

func (d *decoder) fail(code string, off int64, hint string) error {
	return goserde.FailAt(code, eng.NormalizePointer(d.elementPath()), off, hint)
}

// syntax converts reader errors into issues at the current element.
func (d *decoder) syntax(err error) error {
	var se *eng.SyntaxError
	if errors.As(err, &se) {
		return goserde.WithCause(d.fail(se.Code, se.Offset, se.Msg), se)
	}
	return err
}

var majorNames = [...]string{"unsigned integer", "negative integer", "byte string", "text string", "array", "map", "tag", "simple value"}

// expect reads a head and fails unless its major type is want.
func (d *decoder) expect(want byte) (byte, uint64, int64, error) {
	off := d.r.offset()
	major, info, arg, err := d.r.head()
	if err != nil {
		return 0, 0, off, d.syntax(err)
	}
	if major != want {
		return 0, 0, off, d.fail(goserde.CodeInvalidType, off, "expected "+majorNames[want]+", got "+majorNames[major])
	}
	return info, arg, off, nil
}

func (d *decoder) DecodeNotNullMark() (bool, error) {
	b, ok := d.r.peek()
	return !ok || b != simpleNull, nil
}

func (d *decoder) DecodeNull() error {
	info, _, off, err := d.expect(majorSimple)
	if err != nil {
		return err
	}
	if info != simpleNull&0x1f {
		return d.fail(goserde.CodeInvalidType, off, "expected null")
	}
	return nil
}

func (d *decoder) DecodeBool() (bool, error) {
	info, _, off, err := d.expect(majorSimple)
	if err != nil {
		return false, err
	}
	switch info {
	case simpleFalse & 0x1f:
		return false, nil
	case simpleTrue & 0x1f:
		return true, nil
	}
	return false, d.fail(goserde.CodeInvalidType, off, "expected boolean")
}

// decodeInt reads major type 0 or 1 and range-checks the result against
// a signed integer of the given width.
func (d *decoder) decodeInt(bits int) (int64, error) {
	off := d.r.offset()
	major, _, arg, err := d.r.head()
	if err != nil {
		return 0, d.syntax(err)
	}
	var v int64
	switch major {
	case majorUnsigned:
		if arg > math.MaxInt64 {
			return 0, d.fail(goserde.CodeOverflow, off, strconv.FormatUint(arg, 10))
		}
		v = int64(arg)
	case majorNegative:
		if arg > math.MaxInt64 {
			return 0, d.fail(goserde.CodeOverflow, off, "-1-"+strconv.FormatUint(arg, 10))
		}
		v = ^int64(arg)
	default:
		return 0, d.fail(goserde.CodeInvalidType, off, "expected integer, got "+majorNames[major])
	}
	if bits < 64 {
		limit := int64(1) << (bits - 1)
		if v < -limit || v >= limit {
			return 0, d.fail(goserde.CodeOverflow, off, strconv.FormatInt(v, 10)+" overflows int"+strconv.Itoa(bits))
		}
	}
	return v, nil
}

func (d *decoder) DecodeInt8() (int8, error) {
	v, err := d.decodeInt(8)
	return int8(v), err
}

func (d *decoder) DecodeInt16() (int16, error) {
	v, err := d.decodeInt(16)
	return int16(v), err
}

func (d *decoder) DecodeInt32() (int32, error) {
	v, err := d.decodeInt(32)
	return int32(v), err
}

func (d *decoder) DecodeInt64() (int64, error) { return d.decodeInt(64) }

// DecodeFloat64 accepts every float width so that input from other
// encoders, which pick the shortest exact form, still decodes.
func (d *decoder) DecodeFloat64() (float64, error) {
	info, arg, off, err := d.expect(majorSimple)
	if err != nil {
		return 0, err
	}
	switch info {
	case headFloat64 & 0x1f:
		return math.Float64frombits(arg), nil
	case headFloat32 & 0x1f:
		return float64(math.Float32frombits(uint32(arg))), nil
	case headFloat16 & 0x1f:
		return float64(float16.Frombits(uint16(arg)).Float32()), nil
	}
	return 0, d.fail(goserde.CodeInvalidType, off, "expected float")
}

func (d *decoder) DecodeFloat32() (float32, error) {
	v, err := d.DecodeFloat64()
	return float32(v), err
}

func (d *decoder) DecodeRune() (rune, error) {
	off := d.r.offset()
	v, err := d.decodeInt(32)
	if err != nil {
		return 0, err
	}
	if !utf8.ValidRune(rune(v)) {
		return 0, d.fail(goserde.CodeInvalidLiteral, off, strconv.FormatInt(v, 10)+" is not a code point")
	}
	return rune(v), nil
}

func (d *decoder) DecodeString() (string, error) {
	_, n, off, err := d.expect(majorText)
	if err != nil {
		return "", err
	}
	p, err := d.r.take(n, "a text string")
	if err != nil {
		return "", d.syntax(err)
	}
	if !utf8.Valid(p) {
		return "", d.fail(goserde.CodeInvalidLiteral, off, "text string is not UTF-8")
	}
	return string(p), nil
}

func (d *decoder) DecodeEnum(desc *goserde.Descriptor) (int, error) {
	off := d.r.offset()
	s, err := d.DecodeString()
	if err != nil {
		return 0, err
	}
	i := desc.ElementIndex(s)
	if i == goserde.UnknownName {
		return 0, d.fail(goserde.CodeInvalidEnum, off, s+" is not a value of "+desc.Name())
	}
	return i, nil
}

func (d *decoder) BeginStructure(desc *goserde.Descriptor, _ ...goserde.Described) (goserde.CompositeDecoder, error) {
	kind := desc.Kind()
	want := majorArray
	switch kind {
	case goserde.KindMap, goserde.KindClass, goserde.KindObject:
		want = majorMap
	case goserde.KindList, goserde.KindSet, goserde.KindEntry, goserde.KindPolymorphic:
	default:
		return nil, d.fail(goserde.CodeInvalidType, d.r.offset(), desc.Name()+" is not a structure")
	}
	_, n, off, err := d.expect(want)
	if err != nil {
		return nil, err
	}
	// every element takes at least one byte
	if n > uint64(d.r.remaining()) {
		return nil, d.syntax(d.r.truncated(desc.Name()))
	}
	if (kind == goserde.KindEntry || kind == goserde.KindPolymorphic) && n != 2 {
		return nil, d.fail(goserde.CodeInvalidType, off, desc.Name()+" needs 2 elements, got "+strconv.FormatUint(n, 10))
	}
	return &decoder{cfg: d.cfg, r: d.r, kind: kind, path: d.elementPath(), size: int(n)}, nil
}

func (d *decoder) DecodeCollectionSize(*goserde.Descriptor) (int, error) {
	if d.kind.IsCollection() {
		return d.size, nil
	}
	return -1, nil
}

func (d *decoder) DecodeElementIndex(desc *goserde.Descriptor) (int, error) {
	switch d.kind {
	case goserde.KindClass, goserde.KindObject:
		return d.keyIndex(desc)
	}
	if d.served {
		return goserde.ReadDone, nil
	}
	d.served = true
	return goserde.ReadAll, nil
}

func (d *decoder) keyIndex(desc *goserde.Descriptor) (int, error) {
	for d.read < d.size {
		off := d.r.offset()
		key, err := d.DecodeString()
		if err != nil {
			return 0, err
		}
		d.read++
		d.started = true
		d.label = key
		if i := desc.ElementIndex(key); i != goserde.UnknownName {
			return i, nil
		}
		if !d.cfg.IgnoreUnknownKeys {
			return 0, d.fail(goserde.CodeUnknownKey, off, key)
		}
		if err := d.r.skip(); err != nil {
			return 0, d.syntax(err)
		}
	}
	return goserde.ReadDone, nil
}

func (d *decoder) DecodeElement(_ *goserde.Descriptor, index int) (goserde.Decoder, error) {
	switch d.kind {
	case goserde.KindClass, goserde.KindObject:
	case goserde.KindMap:
		d.started = true
		d.label = strconv.Itoa(index / 2)
	default:
		d.started = true
		d.label = strconv.Itoa(index)
	}
	return d, nil
}

func (d *decoder) EndStructure(desc *goserde.Descriptor) error {
	if (d.kind == goserde.KindClass || d.kind == goserde.KindObject) && d.read < d.size {
		return d.fail(goserde.CodeInvalidIndex, d.r.offset(), desc.Name()+": unread members")
	}
	return nil
}
