package json

import (
	"io"

	goserde "github.com/reoring/goserde"
	eng "github.com/reoring/goserde/internal/engine"
)

// Config bundles the text format options. The zero value is the strict,
// compact, quoted default.
type Config struct {
	// IgnoreUnknownKeys skips object members the descriptor does not name
	// instead of failing with unknown_key.
	IgnoreUnknownKeys bool
	// UnquotedPrint writes strings bare when they contain only ordinary
	// literal characters.
	UnquotedPrint bool
	PrettyPrint   bool
	// Indent is the pretty-print indentation unit; empty means four spaces.
	Indent string
	// OmitDefaults skips optional elements that still hold their default.
	OmitDefaults bool
	// ClassDiscriminator, when set, frames polymorphic values as objects
	// whose first member is this key, instead of ["type",value] arrays.
	ClassDiscriminator string
	// MaxDepth bounds container nesting on decode; 0 means unlimited.
	MaxDepth int
}

// Format is an immutable configured text format. It is safe for
// concurrent use; every call allocates its own encoder or decoder.
type Format struct {
	cfg Config
}

// New returns a Format for cfg.
func New(cfg Config) *Format {
	if cfg.Indent == "" {
		cfg.Indent = "    "
	}
	return &Format{cfg: cfg}
}

// Default is the Format with the zero Config.
var Default = New(Config{})

// Config returns the effective options.
func (f *Format) Config() Config { return f.cfg }

// Option adjusts a Config; see Format.With.
type Option func(*Config)

func WithIgnoreUnknownKeys() Option { return func(c *Config) { c.IgnoreUnknownKeys = true } }
func WithUnquotedPrint() Option     { return func(c *Config) { c.UnquotedPrint = true } }
func WithOmitDefaults() Option      { return func(c *Config) { c.OmitDefaults = true } }

// WithPrettyPrint turns pretty printing on; an empty indent keeps the
// current unit.
func WithPrettyPrint(indent string) Option {
	return func(c *Config) {
		c.PrettyPrint = true
		if indent != "" {
			c.Indent = indent
		}
	}
}

// WithClassDiscriminator frames polymorphic values as objects keyed by key.
func WithClassDiscriminator(key string) Option {
	return func(c *Config) { c.ClassDiscriminator = key }
}

func WithMaxDepth(n int) Option { return func(c *Config) { c.MaxDepth = n } }

// With returns a new Format with opts applied on top of f's options. f is
// unchanged.
func (f *Format) With(opts ...Option) *Format {
	cfg := orDefault(f).cfg
	for _, o := range opts {
		o(&cfg)
	}
	return New(cfg)
}

func orDefault(f *Format) *Format {
	if f == nil {
		return Default
	}
	return f
}

// Encode renders v as text.
func Encode[T any](f *Format, s goserde.Serializer[T], v T) (string, error) {
	f = orDefault(f)
	out := &composer{pretty: f.cfg.PrettyPrint, indent: f.cfg.Indent}
	if err := s.Serialize(newStreamEncoder(&f.cfg, out), v); err != nil {
		return "", err
	}
	return out.String(), nil
}

// EncodeToWriter renders v and writes the text to w.
func EncodeToWriter[T any](f *Format, w io.Writer, s goserde.Serializer[T], v T) error {
	text, err := Encode(f, s, v)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text)
	return err
}

// Decode parses text into a fresh value. The text must hold exactly one
// value.
func Decode[T any](f *Format, s goserde.Serializer[T], text string) (T, error) {
	return decodeText(f, text, s.Deserialize)
}

// Update merges the payload in text into old and returns the result. old
// itself is not modified.
func Update[T any](f *Format, s goserde.Serializer[T], old T, text string) (T, error) {
	return decodeText(f, text, func(dec goserde.Decoder) (T, error) {
		return goserde.Update(dec, s, old)
	})
}

func decodeText[T any](f *Format, text string, read func(goserde.Decoder) (T, error)) (T, error) {
	var zero T
	f = orDefault(f)
	lex := eng.NewLexer(text)
	lex.SetMaxDepth(f.cfg.MaxDepth)
	v, err := read(newStreamDecoder(&f.cfg, lex))
	if err != nil {
		return zero, err
	}
	if lex.Class() != eng.ClassEOF {
		return zero, syntaxIssue(lex.Fail("trailing content after the top-level value"), "")
	}
	return v, nil
}

// EncodeToElement renders v as a tree.
func EncodeToElement[T any](f *Format, s goserde.Serializer[T], v T) (Element, error) {
	f = orDefault(f)
	text, err := Encode(f, s, v)
	if err != nil {
		return nil, err
	}
	return f.ParseElement(text)
}

// DecodeFromElement decodes a value from a tree.
func DecodeFromElement[T any](f *Format, s goserde.Serializer[T], e Element) (T, error) {
	return Decode(f, s, e.String())
}

// Print renders a tree with the format's options.
func (f *Format) Print(e Element) (string, error) {
	return Encode(f, ElementSerializer(), e)
}
