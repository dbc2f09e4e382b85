package engine

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// TokenClass classifies the current token of a Lexer.
type TokenClass int

const (
	ClassOther TokenClass = iota // bare literal: number, true, false or unquoted text
	ClassEOF
	ClassInvalid
	ClassBeginObject
	ClassEndObject
	ClassBeginList
	ClassEndList
	ClassComma
	ClassColon
	ClassString
	ClassNull
)

var classNames = [...]string{
	ClassOther:       "literal",
	ClassEOF:         "end of input",
	ClassInvalid:     "invalid token",
	ClassBeginObject: "'{'",
	ClassEndObject:   "'}'",
	ClassBeginList:   "'['",
	ClassEndList:     "']'",
	ClassComma:       "','",
	ClassColon:       "':'",
	ClassString:      "string",
	ClassNull:        "null",
}

func (c TokenClass) String() string {
	if c >= 0 && int(c) < len(classNames) {
		return classNames[c]
	}
	return "TokenClass(" + strconv.Itoa(int(c)) + ")"
}

// SyntaxError reports malformed input at a byte offset.
type SyntaxError struct {
	Code   string // "parse_error" or "truncated"
	Offset int64
	Msg    string
}

func (e *SyntaxError) Error() string {
	return e.Msg + " at offset " + strconv.FormatInt(e.Offset, 10)
}

// Lexer splits JSON text (including the unquoted-literal dialect) into
// classified tokens. It always holds one current token; Next advances.
type Lexer struct {
	src      string
	pos      int // offset just past the current token
	start    int // offset of the current token
	class    TokenClass
	value    string
	err      *SyntaxError
	depth    int
	maxDepth int
}

// NewLexer positions a lexer on the first token of src.
func NewLexer(src string) *Lexer {
	l := &Lexer{src: src, class: ClassComma}
	l.Next()
	return l
}

// SetMaxDepth bounds object/list nesting; 0 disables the check. Set it
// before consuming the first container.
func (l *Lexer) SetMaxDepth(n int) { l.maxDepth = n }

func (l *Lexer) Class() TokenClass { return l.class }

// Value is the text of a String or Other token with escapes resolved.
func (l *Lexer) Value() string { return l.value }

// Offset is the byte offset of the current token.
func (l *Lexer) Offset() int64 { return int64(l.start) }

// Err returns the error behind an Invalid token.
func (l *Lexer) Err() error {
	if l.err == nil {
		return nil
	}
	return l.err
}

// Fail builds a SyntaxError at the current token.
func (l *Lexer) Fail(msg string) *SyntaxError {
	if l.err != nil {
		return l.err
	}
	return &SyntaxError{Code: "parse_error", Offset: int64(l.start), Msg: msg}
}

// Expect fails unless the current token has class c, then advances.
func (l *Lexer) Expect(c TokenClass) error {
	if l.class != c {
		return l.Unexpected(c.String())
	}
	l.Next()
	return nil
}

// Unexpected builds the error for a current token that is not want.
func (l *Lexer) Unexpected(want string) *SyntaxError {
	if l.err != nil {
		return l.err
	}
	if l.class == ClassEOF {
		return &SyntaxError{Code: "truncated", Offset: int64(l.start), Msg: "expected " + want + ", got end of input"}
	}
	return l.Fail("expected " + want + ", got " + l.describe())
}

func (l *Lexer) describe() string {
	switch l.class {
	case ClassString:
		return strconv.Quote(l.value)
	case ClassOther:
		return "'" + l.value + "'"
	}
	return l.class.String()
}

// TakeString returns the text of a String or Other token and advances.
func (l *Lexer) TakeString() (string, error) {
	if l.class != ClassString && l.class != ClassOther {
		return "", l.Unexpected("string or literal")
	}
	v := l.value
	l.Next()
	return v, nil
}

// Next advances to the following token. After EOF or an invalid token the
// lexer stays put.
func (l *Lexer) Next() {
	if l.class == ClassInvalid || l.class == ClassEOF {
		return
	}
	l.value = ""
	for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
		l.pos++
	}
	l.start = l.pos
	if l.pos >= len(l.src) {
		l.class = ClassEOF
		return
	}
	c := l.src[l.pos]
	switch c {
	case '{':
		l.pos++
		l.class = ClassBeginObject
		l.enter()
	case '}':
		l.pos++
		l.class = ClassEndObject
		l.depth--
	case '[':
		l.pos++
		l.class = ClassBeginList
		l.enter()
	case ']':
		l.pos++
		l.class = ClassEndList
		l.depth--
	case ',':
		l.pos++
		l.class = ClassComma
	case ':':
		l.pos++
		l.class = ClassColon
	case '"':
		l.readString()
	default:
		end := l.pos
		for end < len(l.src) && !isSpace(l.src[end]) && !isStructural(l.src[end]) {
			end++
		}
		l.value = l.src[l.pos:end]
		l.pos = end
		l.class = ClassOther
		if l.value == "null" {
			l.class = ClassNull
		}
	}
}

func (l *Lexer) enter() {
	l.depth++
	if l.maxDepth > 0 && l.depth > l.maxDepth {
		l.invalid("parse_error", l.start, "max depth "+strconv.Itoa(l.maxDepth)+" exceeded")
	}
}

func (l *Lexer) invalid(code string, off int, msg string) {
	l.class = ClassInvalid
	l.err = &SyntaxError{Code: code, Offset: int64(off), Msg: msg}
}

func (l *Lexer) readString() {
	i := l.pos + 1
	// fast path: no escapes
	for i < len(l.src) {
		c := l.src[i]
		if c == '"' {
			l.value = l.src[l.pos+1 : i]
			l.pos = i + 1
			l.class = ClassString
			return
		}
		if c == '\\' {
			break
		}
		i++
	}
	var b strings.Builder
	b.WriteString(l.src[l.pos+1 : i])
	for i < len(l.src) {
		c := l.src[i]
		switch c {
		case '"':
			l.value = b.String()
			l.pos = i + 1
			l.class = ClassString
			return
		case '\\':
			n, ok := l.escape(&b, i)
			if !ok {
				return
			}
			i = n
		default:
			b.WriteByte(c)
			i++
		}
	}
	l.invalid("truncated", l.start, "unterminated string")
}

// escape decodes the escape sequence at src[i] into b and returns the index
// after it.
func (l *Lexer) escape(b *strings.Builder, i int) (int, bool) {
	if i+1 >= len(l.src) {
		l.invalid("truncated", l.start, "unterminated string")
		return 0, false
	}
	switch e := l.src[i+1]; e {
	case '"', '\\', '/':
		b.WriteByte(e)
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')
	case 'u':
		r, ok := l.hex4(i + 2)
		if !ok {
			return 0, false
		}
		next := i + 6
		if utf16.IsSurrogate(r) {
			if lo, ok := l.lowSurrogate(next); ok {
				r = utf16.DecodeRune(r, lo)
				next += 6
			} else {
				r = utf8.RuneError
			}
		}
		b.WriteRune(r)
		return next, true
	default:
		l.invalid("parse_error", i, "invalid escape '\\"+string(e)+"'")
		return 0, false
	}
	return i + 2, true
}

func (l *Lexer) lowSurrogate(i int) (rune, bool) {
	if i+6 > len(l.src) || l.src[i] != '\\' || l.src[i+1] != 'u' {
		return 0, false
	}
	v, err := strconv.ParseUint(l.src[i+2:i+6], 16, 16)
	if err != nil || v < 0xdc00 || v > 0xdfff {
		return 0, false
	}
	return rune(v), true
}

func (l *Lexer) hex4(i int) (rune, bool) {
	if i+4 > len(l.src) {
		l.invalid("truncated", l.start, "unterminated escape")
		return 0, false
	}
	v, err := strconv.ParseUint(l.src[i:i+4], 16, 16)
	if err != nil {
		l.invalid("parse_error", i-2, "invalid escape '\\u"+l.src[i:i+4]+"'")
		return 0, false
	}
	return rune(v), true
}

// Skip consumes the current value, including nested containers.
func (l *Lexer) Skip() error {
	switch l.class {
	case ClassBeginObject, ClassBeginList:
	case ClassString, ClassOther, ClassNull:
		l.Next()
		return nil
	default:
		return l.Unexpected("value")
	}
	var stack []TokenClass
	for {
		switch l.class {
		case ClassBeginObject, ClassBeginList:
			stack = append(stack, l.class)
		case ClassEndObject, ClassEndList:
			want := ClassBeginObject
			if l.class == ClassEndList {
				want = ClassBeginList
			}
			if len(stack) == 0 || stack[len(stack)-1] != want {
				return l.Fail("unbalanced " + l.class.String())
			}
			stack = stack[:len(stack)-1]
		case ClassEOF, ClassInvalid:
			return l.Unexpected("end of value")
		}
		l.Next()
		if len(stack) == 0 {
			return nil
		}
	}
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

func isStructural(c byte) bool {
	switch c {
	case '{', '}', '[', ']', ':', ',', '"':
		return true
	}
	return false
}
