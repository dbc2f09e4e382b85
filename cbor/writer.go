package cbor

import (
	"encoding/binary"
	"math"
)

// Major types, RFC 7049 section 2.1.
const (
	majorUnsigned byte = 0
	majorNegative byte = 1
	majorBytes    byte = 2
	majorText     byte = 3
	majorArray    byte = 4
	majorMap      byte = 5
	majorTag      byte = 6
	majorSimple   byte = 7
)

// Initial bytes of major type 7.
const (
	simpleFalse byte = 0xf4
	simpleTrue  byte = 0xf5
	simpleNull  byte = 0xf6
	headFloat16 byte = 0xf9
	headFloat32 byte = 0xfa
	headFloat64 byte = 0xfb
)

const infoIndefinite = 31

// writer appends data items to a byte slice.
type writer struct {
	buf []byte
}

// writeHead writes the initial byte of major with the shortest argument
// encoding of n.
func (w *writer) writeHead(major byte, n uint64) {
	m := major << 5
	switch {
	case n < 24:
		w.buf = append(w.buf, m|byte(n))
	case n <= math.MaxUint8:
		w.buf = append(w.buf, m|24, byte(n))
	case n <= math.MaxUint16:
		w.buf = binary.BigEndian.AppendUint16(append(w.buf, m|25), uint16(n))
	case n <= math.MaxUint32:
		w.buf = binary.BigEndian.AppendUint32(append(w.buf, m|26), uint32(n))
	default:
		w.buf = binary.BigEndian.AppendUint64(append(w.buf, m|27), n)
	}
}

// writeInt uses major type 1 with the one's complement for negatives.
func (w *writer) writeInt(v int64) {
	if v >= 0 {
		w.writeHead(majorUnsigned, uint64(v))
		return
	}
	w.writeHead(majorNegative, uint64(^v))
}

// writeFloat always uses the 8-byte form.
func (w *writer) writeFloat(v float64) {
	w.buf = binary.BigEndian.AppendUint64(append(w.buf, headFloat64), math.Float64bits(v))
}

func (w *writer) writeString(s string) {
	w.writeHead(majorText, uint64(len(s)))
	w.buf = append(w.buf, s...)
}

func (w *writer) writeBool(v bool) {
	if v {
		w.buf = append(w.buf, simpleTrue)
		return
	}
	w.buf = append(w.buf, simpleFalse)
}

func (w *writer) writeNull() { w.buf = append(w.buf, simpleNull) }

func (w *writer) writeRaw(p []byte) { w.buf = append(w.buf, p...) }
