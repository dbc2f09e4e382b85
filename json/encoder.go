package json

import (
	"math"
	"strconv"

	goserde "github.com/reoring/goserde"
)

// ElementEncoder is implemented by encoders that can write a JSON tree
// verbatim.
type ElementEncoder interface {
	EncodeJSONElement(e Element) error
}

// streamEncoder writes one composite. Every composite gets its own instance
// over the shared composer; the element encoder handed out by EncodeElement
// is the composite itself.
type streamEncoder struct {
	cfg          *Config
	out          *composer
	mode         mode
	count        int
	forceQuoting bool
	// slot is the next key/value position of a MAP composite; a bare entry
	// takes two.
	slot int

	// class-discriminator framing of a polymorphic value
	polyObj       bool
	capturing     bool
	discriminator string
	pending       bool
}

var (
	_ goserde.Encoder          = (*streamEncoder)(nil)
	_ goserde.CompositeEncoder = (*streamEncoder)(nil)
	_ ElementEncoder           = (*streamEncoder)(nil)
)

func newStreamEncoder(cfg *Config, out *composer) *streamEncoder {
	return &streamEncoder{cfg: cfg, out: out, mode: modeObj}
}

func (e *streamEncoder) checkScalar(what string) error {
	switch {
	case e.capturing:
		return goserde.Failf(goserde.CodeInvalidType, "class discriminator must be a string, got %s", what)
	case e.pending:
		return goserde.Failf(goserde.CodeInvalidType, "class discriminator %q needs an object value, got %s", e.cfg.ClassDiscriminator, what)
	}
	return nil
}

func (e *streamEncoder) writeString(v string) {
	if e.cfg.UnquotedPrint && !shouldBeQuoted(v) {
		e.out.print(v)
		return
	}
	e.out.printQuoted(v)
}

// writeLiteral writes a number or boolean, quoted when it is a map key.
func (e *streamEncoder) writeLiteral(text string) {
	if e.forceQuoting {
		e.writeString(text)
		return
	}
	e.out.print(text)
}

func (e *streamEncoder) EncodeNotNullMark() error { return nil }

func (e *streamEncoder) EncodeNull() error {
	if err := e.checkScalar("null"); err != nil {
		return err
	}
	e.out.print("null")
	return nil
}

func (e *streamEncoder) EncodeBool(v bool) error {
	if err := e.checkScalar("bool"); err != nil {
		return err
	}
	e.writeLiteral(strconv.FormatBool(v))
	return nil
}

func (e *streamEncoder) EncodeInt8(v int8) error   { return e.EncodeInt64(int64(v)) }
func (e *streamEncoder) EncodeInt16(v int16) error { return e.EncodeInt64(int64(v)) }
func (e *streamEncoder) EncodeInt32(v int32) error { return e.EncodeInt64(int64(v)) }

func (e *streamEncoder) EncodeInt64(v int64) error {
	if err := e.checkScalar("number"); err != nil {
		return err
	}
	if e.forceQuoting {
		e.writeString(strconv.FormatInt(v, 10))
		return nil
	}
	e.out.printInt(v)
	return nil
}

func (e *streamEncoder) EncodeFloat32(v float32) error { return e.encodeFloat(float64(v), 32) }
func (e *streamEncoder) EncodeFloat64(v float64) error { return e.encodeFloat(v, 64) }

// encodeFloat renders NaN and the infinities as quoted names.
func (e *streamEncoder) encodeFloat(v float64, bits int) error {
	if err := e.checkScalar("number"); err != nil {
		return err
	}
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		e.out.printQuoted(floatSpecial(v))
	case e.forceQuoting:
		e.writeString(strconv.FormatFloat(v, 'g', -1, bits))
	default:
		e.out.printFloat(v, bits)
	}
	return nil
}

func (e *streamEncoder) EncodeRune(v rune) error { return e.EncodeString(string(v)) }

func (e *streamEncoder) EncodeString(v string) error {
	if e.capturing {
		e.discriminator = v
		e.capturing = false
		return nil
	}
	if err := e.checkScalar("string"); err != nil {
		return err
	}
	e.writeString(v)
	return nil
}

func (e *streamEncoder) EncodeEnum(d *goserde.Descriptor, index int) error {
	return e.EncodeString(d.ElementName(index))
}

func (e *streamEncoder) BeginCollection(d *goserde.Descriptor, _ int, typeArgs ...goserde.Described) (goserde.CompositeEncoder, error) {
	return e.BeginStructure(d, typeArgs...)
}

func (e *streamEncoder) BeginStructure(d *goserde.Descriptor, typeArgs ...goserde.Described) (goserde.CompositeEncoder, error) {
	if e.capturing {
		return nil, e.checkScalar(d.Kind().String())
	}
	if d.Kind() == goserde.KindPolymorphic && e.cfg.ClassDiscriminator != "" {
		if e.pending {
			return nil, goserde.Failf(goserde.CodeInvalidType, "class discriminator %q cannot frame the nested polymorphic %s", e.cfg.ClassDiscriminator, d.Name())
		}
		return &streamEncoder{cfg: e.cfg, out: e.out, mode: e.mode, polyObj: true}, nil
	}
	m := switchMode(e.mode, d, typeArgs)
	if m == modeEntry {
		if e.slot%2 == 0 {
			// an entry held as a map value is an ordinary object
			m = modeObj
		} else {
			// the entry writes the value slot itself
			e.slot++
			e.forceQuoting = false
		}
	}
	if e.pending {
		key := e.cfg.ClassDiscriminator
		if m != modeObj {
			return nil, goserde.Failf(goserde.CodeInvalidType, "class discriminator %q needs an object value, %s is framed as %s", key, d.Name(), m)
		}
		if d.ElementIndex(key) != goserde.UnknownName {
			return nil, goserde.Failf(goserde.CodeInvalidType, "%s has an element named like the class discriminator %q", d.Name(), key)
		}
	}
	child := e.open(m)
	if e.pending {
		child.writeName(e.cfg.ClassDiscriminator)
		child.writeString(e.discriminator)
		e.pending = false
	}
	return child, nil
}

func (e *streamEncoder) open(m mode) *streamEncoder {
	if b := m.begin(); b != 0 {
		e.out.printByte(b)
		e.out.indentIn()
	}
	return &streamEncoder{cfg: e.cfg, out: e.out, mode: m}
}

// writeName starts an object member.
func (e *streamEncoder) writeName(name string) {
	if e.count > 0 {
		e.out.printByte(',')
	}
	e.out.nextItem()
	e.writeString(name)
	e.out.printByte(':')
	e.out.space()
	e.count++
}

func (e *streamEncoder) EncodeElement(d *goserde.Descriptor, index int) (goserde.Encoder, error) {
	if e.polyObj {
		switch index {
		case 0:
			e.capturing = true
		case 1:
			if e.capturing {
				return nil, goserde.Fail(goserde.CodeDiscriminatorMissing, d.Name())
			}
			e.pending = true
		}
		return e, nil
	}
	switch e.mode {
	case modeList:
		if e.count > 0 {
			e.out.printByte(',')
		}
		e.out.nextItem()
	case modeMap:
		if e.slot%2 == 0 {
			if e.count > 0 {
				e.out.printByte(',')
			}
			e.out.nextItem()
			e.forceQuoting = true
		} else {
			e.out.printByte(':')
			e.out.space()
			e.forceQuoting = false
		}
		e.slot++
	case modeEntry:
		if index == 0 {
			e.forceQuoting = true
		} else {
			e.out.printByte(':')
			e.out.space()
			e.forceQuoting = false
		}
	case modePoly:
		if index == 0 {
			e.forceQuoting = true
		} else {
			e.out.printByte(',')
			e.out.space()
			e.forceQuoting = false
		}
	default:
		e.writeName(d.ElementName(index))
		return e, nil
	}
	e.count++
	return e, nil
}

func (e *streamEncoder) ShouldEncodeElementDefault(*goserde.Descriptor, int) bool {
	return !e.cfg.OmitDefaults
}

func (e *streamEncoder) EndStructure(d *goserde.Descriptor) error {
	if e.polyObj {
		if e.pending || e.capturing {
			return goserde.Fail(goserde.CodeMissingField, d.Name())
		}
		return nil
	}
	e.close()
	return nil
}

func (e *streamEncoder) close() {
	end := e.mode.end()
	if end == 0 {
		return
	}
	e.out.indentOut()
	if e.count > 0 && e.mode != modePoly {
		e.out.nextItem()
	}
	e.out.printByte(end)
}

// EncodeJSONElement writes a tree as-is: bare primitives stay bare.
func (e *streamEncoder) EncodeJSONElement(el Element) error {
	switch el := el.(type) {
	case *Null:
		return e.EncodeNull()
	case *Primitive:
		if el.IsString {
			return e.EncodeString(el.Content)
		}
		if err := e.checkScalar("literal"); err != nil {
			return err
		}
		e.writeLiteral(el.Content)
		return nil
	case *Object:
		if err := e.checkScalar("object"); err != nil {
			return err
		}
		c := e.open(modeObj)
		for k, v := range el.All() {
			c.writeName(k)
			if err := c.EncodeJSONElement(v); err != nil {
				return err
			}
		}
		c.close()
		return nil
	case *Array:
		if err := e.checkScalar("array"); err != nil {
			return err
		}
		c := e.open(modeList)
		for _, v := range el.Items {
			if c.count > 0 {
				c.out.printByte(',')
			}
			c.out.nextItem()
			c.count++
			if err := c.EncodeJSONElement(v); err != nil {
				return err
			}
		}
		c.close()
		return nil
	}
	return goserde.Failf(goserde.CodeInvalidType, "unsupported element %T", el)
}
