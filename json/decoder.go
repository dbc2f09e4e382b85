package json

import (
	"strconv"
	"unicode/utf8"

	goserde "github.com/reoring/goserde"
	eng "github.com/reoring/goserde/internal/engine"
)

// ElementDecoder is implemented by decoders that can read a JSON tree at
// the current position.
type ElementDecoder interface {
	DecodeJSONElement() (Element, error)
}

// streamDecoder reads one composite from the shared lexer. The element
// decoder handed out by DecodeElement is the composite itself.
type streamDecoder struct {
	cfg     *Config
	lex     *eng.Lexer
	mode    mode
	parent  *streamDecoder
	path    string // JSON pointer of this composite
	label   string // reference token of the current element
	started bool
	index   int
	// noOffsets is set when the lexer runs over re-rendered text whose
	// offsets mean nothing to the caller.
	noOffsets bool

	// class-discriminator framing of a polymorphic value
	tree *polyTree
}

type polyTree struct {
	discriminator string
	value         *Object
	next          int
}

var (
	_ goserde.Decoder          = (*streamDecoder)(nil)
	_ goserde.CompositeDecoder = (*streamDecoder)(nil)
	_ ElementDecoder           = (*streamDecoder)(nil)
)

func newStreamDecoder(cfg *Config, lex *eng.Lexer) *streamDecoder {
	return &streamDecoder{cfg: cfg, lex: lex, mode: modeObj, index: -1}
}

func (d *streamDecoder) elementPath() string {
	if !d.started {
		return d.path
	}
	return eng.JoinPointer(d.path, d.label)
}

func (d *streamDecoder) offset() int64 {
	if d.noOffsets {
		return -1
	}
	return d.lex.Offset()
}

func (d *streamDecoder) fail(code, hint string) error {
	return goserde.FailAt(code, eng.NormalizePointer(d.elementPath()), d.offset(), hint)
}

func (d *streamDecoder) syntax(err error) error {
	err = syntaxIssue(err, d.elementPath())
	if d.noOffsets {
		return d.locate(err, -1)
	}
	return err
}

// locate fills in the path and offset of issues raised without them.
func (d *streamDecoder) locate(err error, off int64) error {
	iss, ok := goserde.AsIssues(err)
	if !ok {
		return err
	}
	out := append(goserde.Issues(nil), iss...)
	for i := range out {
		if out[i].Path == "" {
			out[i].Path = eng.NormalizePointer(d.elementPath())
		}
		if d.noOffsets {
			out[i].Offset = -1
		} else if out[i].Offset < 0 {
			out[i].Offset = off
		}
	}
	return out
}

// mismatch reports a token of the wrong class for what the caller expects.
func (d *streamDecoder) mismatch(want string) error {
	switch d.lex.Class() {
	case eng.ClassEOF, eng.ClassInvalid:
		return d.syntax(d.lex.Unexpected(want))
	}
	return d.fail(goserde.CodeInvalidType, "expected "+want+", got "+d.lex.Class().String())
}

func canBeginValue(c eng.TokenClass) bool {
	switch c {
	case eng.ClassString, eng.ClassOther, eng.ClassNull, eng.ClassBeginObject, eng.ClassBeginList:
		return true
	}
	return false
}

func (d *streamDecoder) takeScalar(what string) (string, int64, error) {
	off := d.offset()
	switch d.lex.Class() {
	case eng.ClassString, eng.ClassOther:
		v := d.lex.Value()
		d.lex.Next()
		return v, off, nil
	}
	return "", off, d.mismatch(what)
}

func (d *streamDecoder) DecodeNotNullMark() (bool, error) {
	return d.lex.Class() != eng.ClassNull, nil
}

func (d *streamDecoder) DecodeNull() error {
	if d.lex.Class() != eng.ClassNull {
		return d.mismatch("null")
	}
	d.lex.Next()
	return nil
}

func (d *streamDecoder) DecodeBool() (bool, error) {
	s, off, err := d.takeScalar("boolean")
	if err != nil {
		return false, err
	}
	v, err := parseBool(s)
	return v, d.locate(err, off)
}

func (d *streamDecoder) decodeInt(bits int) (int64, error) {
	s, off, err := d.takeScalar("number")
	if err != nil {
		return 0, err
	}
	v, err := parseInt(s, bits)
	return v, d.locate(err, off)
}

func (d *streamDecoder) DecodeInt8() (int8, error) {
	v, err := d.decodeInt(8)
	return int8(v), err
}

func (d *streamDecoder) DecodeInt16() (int16, error) {
	v, err := d.decodeInt(16)
	return int16(v), err
}

func (d *streamDecoder) DecodeInt32() (int32, error) {
	v, err := d.decodeInt(32)
	return int32(v), err
}

func (d *streamDecoder) DecodeInt64() (int64, error) { return d.decodeInt(64) }

func (d *streamDecoder) decodeFloat(bits int) (float64, error) {
	s, off, err := d.takeScalar("number")
	if err != nil {
		return 0, err
	}
	v, err := parseFloat(s, bits)
	return v, d.locate(err, off)
}

func (d *streamDecoder) DecodeFloat32() (float32, error) {
	v, err := d.decodeFloat(32)
	return float32(v), err
}

func (d *streamDecoder) DecodeFloat64() (float64, error) { return d.decodeFloat(64) }

func (d *streamDecoder) DecodeRune() (rune, error) {
	s, off, err := d.takeScalar("character")
	if err != nil {
		return 0, err
	}
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) {
		return 0, d.locate(goserde.Failf(goserde.CodeInvalidLiteral, "%q is not a single character", s), off)
	}
	return r, nil
}

func (d *streamDecoder) DecodeString() (string, error) {
	s, _, err := d.takeScalar("string")
	return s, err
}

func (d *streamDecoder) DecodeEnum(desc *goserde.Descriptor) (int, error) {
	s, off, err := d.takeScalar("enum name")
	if err != nil {
		return 0, err
	}
	i := desc.ElementIndex(s)
	if i == goserde.UnknownName {
		return 0, d.locate(goserde.Failf(goserde.CodeInvalidEnum, "%q is not a value of %s", s, desc.Name()), off)
	}
	return i, nil
}

func (d *streamDecoder) DecodeJSONElement() (Element, error) {
	el, err := treeReader{lex: d.lex}.read(d.elementPath())
	if err != nil && d.noOffsets {
		return nil, d.locate(err, -1)
	}
	return el, err
}

func (d *streamDecoder) BeginStructure(desc *goserde.Descriptor, typeArgs ...goserde.Described) (goserde.CompositeDecoder, error) {
	if desc.Kind() == goserde.KindPolymorphic && d.cfg.ClassDiscriminator != "" {
		return d.beginPolyObject(desc)
	}
	m := switchMode(d.mode, desc, typeArgs)
	if m == modeEntry && d.index%2 != 0 {
		m = modeObj
	}
	if m.begin() != 0 {
		if d.lex.Class() != m.beginClass() {
			return nil, d.mismatch(m.beginClass().String() + " for " + desc.Name())
		}
		d.lex.Next()
	}
	return &streamDecoder{
		cfg:       d.cfg,
		lex:       d.lex,
		mode:      m,
		parent:    d,
		path:      d.elementPath(),
		index:     -1,
		noOffsets: d.noOffsets,
	}, nil
}

// beginPolyObject reads the whole object, pulls the discriminator member out
// and serves the two polymorphic elements from the tree.
func (d *streamDecoder) beginPolyObject(desc *goserde.Descriptor) (goserde.CompositeDecoder, error) {
	key := d.cfg.ClassDiscriminator
	if d.lex.Class() != eng.ClassBeginObject {
		return nil, d.mismatch("object for " + desc.Name())
	}
	el, err := d.DecodeJSONElement()
	if err != nil {
		return nil, err
	}
	obj := el.(*Object)
	tv, ok := obj.Get(key)
	if !ok {
		return nil, d.locate(goserde.Fail(goserde.CodeDiscriminatorMissing, key), -1)
	}
	p, ok := tv.(*Primitive)
	if !ok {
		return nil, d.locate(goserde.Failf(goserde.CodeInvalidType, "class discriminator %q must be a string", key), -1)
	}
	obj.Delete(key)
	return &streamDecoder{
		cfg:       d.cfg,
		mode:      d.mode,
		parent:    d,
		path:      d.elementPath(),
		index:     -1,
		noOffsets: true,
		tree:      &polyTree{discriminator: p.Content, value: obj},
	}, nil
}

func (d *streamDecoder) DecodeCollectionSize(*goserde.Descriptor) (int, error) { return -1, nil }

func (d *streamDecoder) DecodeElement(desc *goserde.Descriptor, index int) (goserde.Decoder, error) {
	if d.tree == nil {
		return d, nil
	}
	var text string
	switch index {
	case 0:
		text = NewString(d.tree.discriminator).String()
	case 1:
		text = d.tree.value.String()
	default:
		return nil, d.fail(goserde.CodeInvalidIndex, strconv.Itoa(index))
	}
	sub := newStreamDecoder(d.cfg, eng.NewLexer(text))
	sub.mode = d.mode
	sub.path = d.path
	sub.noOffsets = true
	return sub, nil
}

func (d *streamDecoder) DecodeElementIndex(desc *goserde.Descriptor) (int, error) {
	if d.tree != nil {
		if d.tree.next > 1 {
			return goserde.ReadDone, nil
		}
		d.tree.next++
		return d.tree.next - 1, nil
	}
	switch d.mode {
	case modeList:
		return d.listIndex()
	case modeMap:
		return d.mapIndex()
	case modeEntry:
		return d.pairIndex(eng.ClassColon)
	case modePoly:
		return d.pairIndex(eng.ClassComma)
	}
	return d.objectIndex(desc)
}

// separator consumes the comma between elements. It reports false when the
// composite ends instead.
func (d *streamDecoder) separator(end eng.TokenClass) (bool, error) {
	c := d.lex.Class()
	if !d.started {
		if c == eng.ClassComma {
			return false, d.syntax(d.lex.Fail("unexpected leading comma"))
		}
		return c != end, nil
	}
	if c == end {
		return false, nil
	}
	if c != eng.ClassComma {
		return false, d.syntax(d.lex.Unexpected("',' or " + end.String()))
	}
	d.lex.Next()
	if d.lex.Class() == end {
		return false, d.syntax(d.lex.Fail("unexpected trailing comma"))
	}
	return true, nil
}

func (d *streamDecoder) listIndex() (int, error) {
	more, err := d.separator(eng.ClassEndList)
	if err != nil || !more {
		return goserde.ReadDone, err
	}
	if !canBeginValue(d.lex.Class()) {
		return 0, d.syntax(d.lex.Unexpected("value"))
	}
	d.started = true
	d.index++
	d.label = strconv.Itoa(d.index)
	return d.index, nil
}

func (d *streamDecoder) mapIndex() (int, error) {
	if d.index%2 != 0 { // next is a key
		more, err := d.separator(eng.ClassEndObject)
		if err != nil || !more {
			return goserde.ReadDone, err
		}
		if !canBeginValue(d.lex.Class()) {
			return 0, d.syntax(d.lex.Unexpected("key"))
		}
		d.label = d.lex.Value()
	} else if err := d.lex.Expect(eng.ClassColon); err != nil {
		return 0, d.syntax(err)
	}
	d.started = true
	d.index++
	return d.index, nil
}

// pairIndex serves the two positional elements of ENTRY and POLY framing.
func (d *streamDecoder) pairIndex(sep eng.TokenClass) (int, error) {
	switch d.index {
	case -1:
		d.label = "0"
		if d.mode == modeEntry {
			d.label = d.lex.Value()
		}
	case 0:
		if err := d.lex.Expect(sep); err != nil {
			return 0, d.syntax(err)
		}
		if d.mode == modePoly {
			d.label = "1"
		}
	default:
		return goserde.ReadDone, nil
	}
	d.started = true
	d.index++
	return d.index, nil
}

func (d *streamDecoder) objectIndex(desc *goserde.Descriptor) (int, error) {
	for {
		more, err := d.separator(eng.ClassEndObject)
		if err != nil || !more {
			return goserde.ReadDone, err
		}
		off := d.offset()
		key, err := d.lex.TakeString()
		if err != nil {
			return 0, d.syntax(err)
		}
		if err := d.lex.Expect(eng.ClassColon); err != nil {
			return 0, d.syntax(err)
		}
		d.started = true
		d.label = key
		if i := desc.ElementIndex(key); i != goserde.UnknownName {
			return i, nil
		}
		if !d.cfg.IgnoreUnknownKeys {
			return 0, goserde.FailAt(goserde.CodeUnknownKey, d.elementPath(), off, key)
		}
		if err := d.lex.Skip(); err != nil {
			return 0, d.syntax(err)
		}
	}
}

func (d *streamDecoder) EndStructure(*goserde.Descriptor) error {
	if d.tree != nil {
		return nil
	}
	if end := d.mode.end(); end != 0 {
		if err := d.lex.Expect(d.mode.endClass()); err != nil {
			return d.syntax(err)
		}
	}
	if d.mode == modeEntry && d.parent != nil && d.parent.mode == modeMap {
		// a bare entry fills both the key and the value slot of its map
		d.parent.index++
	}
	return nil
}
