package cbor

import (
	"encoding/binary"
	"strconv"

	eng "github.com/reoring/goserde/internal/engine"
)

// reader walks the data items of one input. Errors are
// *engine.SyntaxError carrying the offset of the offending head.
type reader struct {
	src []byte
	pos int
}

func (r *reader) offset() int64 { return int64(r.pos) }

func (r *reader) remaining() int { return len(r.src) - r.pos }

func (r *reader) truncated(what string) *eng.SyntaxError {
	return &eng.SyntaxError{Code: "truncated", Offset: int64(r.pos), Msg: "input ends inside " + what}
}

func (r *reader) malformed(off int, msg string) *eng.SyntaxError {
	return &eng.SyntaxError{Code: "parse_error", Offset: int64(off), Msg: msg}
}

// peek returns the next initial byte without consuming it.
func (r *reader) peek() (byte, bool) {
	if r.pos >= len(r.src) {
		return 0, false
	}
	return r.src[r.pos], true
}

func (r *reader) take(n uint64, what string) ([]byte, error) {
	if n > uint64(r.remaining()) {
		return nil, r.truncated(what)
	}
	p := r.src[r.pos : r.pos+int(n)]
	r.pos += int(n)
	return p, nil
}

// head reads an initial byte and its argument. Tags are skipped; indefinite
// lengths and reserved additional information are rejected.
func (r *reader) head() (major, info byte, arg uint64, err error) {
	for {
		start := r.pos
		b, ok := r.peek()
		if !ok {
			return 0, 0, 0, r.truncated("a data item")
		}
		r.pos++
		major, info = b>>5, b&0x1f
		switch {
		case info < 24:
			arg = uint64(info)
		case info <= 27:
			p, err := r.take(1<<(info-24), "a head argument")
			if err != nil {
				return 0, 0, 0, err
			}
			switch len(p) {
			case 1:
				arg = uint64(p[0])
			case 2:
				arg = uint64(binary.BigEndian.Uint16(p))
			case 4:
				arg = uint64(binary.BigEndian.Uint32(p))
			default:
				arg = binary.BigEndian.Uint64(p)
			}
		case info == infoIndefinite:
			r.pos = start
			return 0, 0, 0, r.malformed(start, "indefinite-length items are not supported")
		default:
			r.pos = start
			return 0, 0, 0, r.malformed(start, "reserved additional information "+strconv.Itoa(int(info)))
		}
		if major != majorTag {
			return major, info, arg, nil
		}
	}
}

// skip consumes one complete data item.
func (r *reader) skip() error {
	major, _, arg, err := r.head()
	if err != nil {
		return err
	}
	switch major {
	case majorBytes, majorText:
		_, err = r.take(arg, "a string")
		return err
	case majorArray, majorMap:
		if arg > uint64(r.remaining()) {
			return r.truncated("a container")
		}
		n := arg
		if major == majorMap {
			n *= 2
		}
		for i := uint64(0); i < n; i++ {
			if err := r.skip(); err != nil {
				return err
			}
		}
	}
	return nil
}
