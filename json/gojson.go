package json

import (
	"errors"
	"io"

	gojson "github.com/goccy/go-json"

	goserde "github.com/reoring/goserde"
)

// ReadElementStrict parses standard JSON from r with the goccy tokenizer.
// Unlike ReadFully it rejects bare keys and unquoted text, and it does not
// require the whole input in memory. Like ReadFully, anything but
// whitespace after the value is a parse_error.
func ReadElementStrict(r io.Reader) (Element, error) {
	dec := gojson.NewDecoder(r)
	dec.UseNumber()
	e, err := readToken(dec)
	if err != nil {
		code := goserde.CodeParseError
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			code = goserde.CodeTruncated
		}
		return nil, goserde.WithCause(goserde.FailAt(code, "", dec.InputOffset(), err.Error()), err)
	}
	end := dec.InputOffset()
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, goserde.FailAt(goserde.CodeParseError, "", end, "trailing content after the top-level value")
	}
	return e, nil
}

func readToken(dec *gojson.Decoder) (Element, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch tok := tok.(type) {
	case nil:
		return JSONNull, nil
	case bool:
		return NewBool(tok), nil
	case string:
		return NewString(tok), nil
	case gojson.Number:
		return NewLiteral(string(tok)), nil
	case float64:
		return NewFloat(tok), nil
	case gojson.Delim:
		switch tok {
		case '{':
			o := NewObject()
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, _ := kt.(string)
				v, err := readToken(dec)
				if err != nil {
					return nil, err
				}
				o.Set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return o, nil
		case '[':
			a := &Array{}
			for dec.More() {
				v, err := readToken(dec)
				if err != nil {
					return nil, err
				}
				a.Items = append(a.Items, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return a, nil
		}
	}
	return nil, goserde.Failf(goserde.CodeParseError, "unexpected token %v", tok)
}
