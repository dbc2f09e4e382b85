package cbor

import (
	"encoding/hex"

	goserde "github.com/reoring/goserde"
)

// Config bundles the binary format options.
type Config struct {
	// IgnoreUnknownKeys skips class members the descriptor does not name
	// instead of failing with unknown_key.
	IgnoreUnknownKeys bool
	// OmitDefaults skips optional elements that still hold their default.
	OmitDefaults bool
}

// Format is an immutable configured binary format, safe for concurrent use.
type Format struct {
	cfg Config
}

func New(cfg Config) *Format { return &Format{cfg: cfg} }

// Default is the Format with the zero Config.
var Default = New(Config{})

func (f *Format) Config() Config { return f.cfg }

// Option adjusts a Config; see Format.With.
type Option func(*Config)

func WithIgnoreUnknownKeys() Option { return func(c *Config) { c.IgnoreUnknownKeys = true } }
func WithOmitDefaults() Option      { return func(c *Config) { c.OmitDefaults = true } }

// With returns a new Format with opts applied on top of f's options.
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

// Encode renders v as one data item.
func Encode[T any](f *Format, s goserde.Serializer[T], v T) ([]byte, error) {
	f = orDefault(f)
	w := &writer{}
	if err := s.Serialize(newEncoder(&f.cfg, w), v); err != nil {
		return nil, err
	}
	return w.buf, nil
}

// Decode reads exactly one data item from data.
func Decode[T any](f *Format, s goserde.Serializer[T], data []byte) (T, error) {
	return decodeBytes(f, data, s.Deserialize)
}

// Update merges the payload in data into old; old itself is not modified.
func Update[T any](f *Format, s goserde.Serializer[T], old T, data []byte) (T, error) {
	return decodeBytes(f, data, func(dec goserde.Decoder) (T, error) {
		return goserde.Update(dec, s, old)
	})
}

func decodeBytes[T any](f *Format, data []byte, read func(goserde.Decoder) (T, error)) (T, error) {
	var zero T
	f = orDefault(f)
	r := &reader{src: data}
	v, err := read(newDecoder(&f.cfg, r))
	if err != nil {
		return zero, err
	}
	if r.remaining() > 0 {
		se := r.malformed(r.pos, "trailing bytes after the data item")
		return zero, goserde.WithCause(goserde.FailAt(se.Code, "/", se.Offset, se.Msg), se)
	}
	return v, nil
}

// EncodeHex is Encode with lowercase hex output.
func EncodeHex[T any](f *Format, s goserde.Serializer[T], v T) (string, error) {
	b, err := Encode(f, s, v)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// DecodeHex is Decode over hex input.
func DecodeHex[T any](f *Format, s goserde.Serializer[T], text string) (T, error) {
	b, err := hex.DecodeString(text)
	if err != nil {
		var zero T
		return zero, goserde.WithCause(goserde.FailAt(goserde.CodeParseError, "/", -1, "invalid hex"), err)
	}
	return Decode(f, s, b)
}
