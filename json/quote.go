package json

import (
	"math"
	"strings"
)

const hexDigits = "0123456789abcdef"

// shouldBeQuoted reports whether s cannot travel as a bare literal in the
// unquoted dialect.
func shouldBeQuoted(s string) bool {
	if s == "" || s == "null" {
		return true
	}
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '{', '}', '[', ']', ':', ',', '"', '\\':
			return true
		default:
			if c <= ' ' || c == 0x7f {
				return true
			}
		}
	}
	return false
}

// printQuoted writes s as a JSON string literal.
func printQuoted(b *strings.Builder, s string) {
	b.WriteByte('"')
	last := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		var esc string
		switch c {
		case '"':
			esc = `\"`
		case '\\':
			esc = `\\`
		case '\n':
			esc = `\n`
		case '\r':
			esc = `\r`
		case '\t':
			esc = `\t`
		case '\b':
			esc = `\b`
		case '\f':
			esc = `\f`
		default:
			if c >= 0x20 {
				continue
			}
			esc = `\u00` + string(hexDigits[c>>4]) + string(hexDigits[c&0xf])
		}
		b.WriteString(s[last:i])
		b.WriteString(esc)
		last = i + 1
	}
	b.WriteString(s[last:])
	b.WriteByte('"')
}

// floatSpecial names NaN and the infinities.
func floatSpecial(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case v > 0:
		return "Infinity"
	}
	return "-Infinity"
}
