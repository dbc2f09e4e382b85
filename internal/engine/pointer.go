package engine

import "strings"

var jsonPointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// EscapePointerToken escapes one JSON Pointer reference token (RFC 6901).
func EscapePointerToken(s string) string {
	return jsonPointerEscaper.Replace(s)
}

// JoinPointer appends token to the JSON Pointer base.
func JoinPointer(base, token string) string {
	return base + "/" + EscapePointerToken(token)
}

// NormalizePointer renders the root pointer as "/".
func NormalizePointer(p string) string {
	if p == "" {
		return "/"
	}
	return p
}
