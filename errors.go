package goserde

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/goserde/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeParseError           = "parse_error"   // Malformed input.
	CodeTruncated            = "truncated"     // Input ended inside a value.
	CodeInvalidType          = "invalid_type"  // Token of the wrong class for the requested value.
	CodeInvalidLiteral       = "invalid_literal"
	CodeInvalidEnum          = "invalid_enum"
	CodeInvalidFormat        = "invalid_format"
	CodeOverflow             = "overflow"
	CodeUnknownKey           = "unknown_key"
	CodeMissingField         = "missing_field"
	CodeInvalidIndex         = "invalid_index" // Element index the descriptor does not have.
	CodeDiscriminatorMissing = "discriminator_missing"
	CodeDiscriminatorUnknown = "discriminator_unknown"
	CodeNotRegistered        = "not_registered"
)

// Issue describes why an encode or decode call failed.
type Issue struct {
	Path    string // JSON Pointer of the element being processed (for example: /items/2/price).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: the offending key, literal, field name, etc.
	Cause   error  // Optional: underlying error.
	Offset  int64  // Byte offset in the input (-1 when unknown).
}

// Issues is a collection of issues that implements error. Encoding and
// decoding stop at the first failure, so in practice it holds one entry.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. unknown_key at /config: unknown key (timeout)
		b.WriteString(it.Code)
		if it.Path != "" {
			fmt.Fprintf(b, " at %s", it.Path)
		}
		if it.Message != "" {
			fmt.Fprintf(b, ": %s", it.Message)
		}
		if it.Hint != "" {
			fmt.Fprintf(b, " (%s)", it.Hint)
		}
		if it.Offset >= 0 {
			fmt.Fprintf(b, " [offset %d]", it.Offset)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes the issue causes to errors.Is and errors.As.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// HasCode reports whether err carries an issue with the given code.
func HasCode(err error, code string) bool {
	iss, ok := AsIssues(err)
	if !ok {
		return false
	}
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

// Fail builds a single-issue error whose message comes from the i18n
// catalog. hint names the offending key, literal or field.
func Fail(code, hint string) error {
	return Issues{{Code: code, Message: i18n.T(code, nil), Hint: hint, Offset: -1}}
}

// FailAt is Fail with a path and an input offset.
func FailAt(code, path string, offset int64, hint string) error {
	return Issues{{Path: path, Code: code, Message: i18n.T(code, nil), Hint: hint, Offset: offset}}
}

// Failf is Fail with a formatted hint.
func Failf(code, format string, args ...any) error {
	return Fail(code, fmt.Sprintf(format, args...))
}

// WithCause attaches cause to a single-issue error built by Fail or FailAt.
func WithCause(err error, cause error) error {
	iss, ok := AsIssues(err)
	if !ok || len(iss) == 0 {
		return err
	}
	out := append(Issues(nil), iss...)
	out[0].Cause = cause
	return out
}
