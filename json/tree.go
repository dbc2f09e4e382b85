package json

import (
	"errors"
	"strconv"

	goserde "github.com/reoring/goserde"
	eng "github.com/reoring/goserde/internal/engine"
)

// ReadFully parses text into a tree. The input must hold exactly one value;
// trailing content is a parse_error carrying its offset. Keys may be quoted
// strings or bare literals, and duplicate keys keep the last value.
func ReadFully(text string) (Element, error) {
	return Default.ParseElement(text)
}

// ParseElement is ReadFully with the format's depth limit.
func (f *Format) ParseElement(text string) (Element, error) {
	f = orDefault(f)
	lex := eng.NewLexer(text)
	lex.SetMaxDepth(f.cfg.MaxDepth)
	r := treeReader{lex: lex}
	e, err := r.read("")
	if err != nil {
		return nil, err
	}
	if lex.Class() != eng.ClassEOF {
		return nil, syntaxIssue(lex.Fail("trailing content after the top-level value"), "")
	}
	return e, nil
}

// treeReader builds Elements by recursive descent over the lexer's token
// classes.
type treeReader struct {
	lex *eng.Lexer
}

func (r treeReader) read(path string) (Element, error) {
	switch r.lex.Class() {
	case eng.ClassNull:
		r.lex.Next()
		return JSONNull, nil
	case eng.ClassString:
		v := r.lex.Value()
		r.lex.Next()
		return NewString(v), nil
	case eng.ClassOther:
		v := r.lex.Value()
		r.lex.Next()
		return NewLiteral(v), nil
	case eng.ClassBeginObject:
		return r.readObject(path)
	case eng.ClassBeginList:
		return r.readArray(path)
	}
	return nil, syntaxIssue(r.lex.Unexpected("value"), path)
}

func (r treeReader) readObject(path string) (Element, error) {
	r.lex.Next()
	if r.lex.Class() == eng.ClassComma {
		return nil, syntaxIssue(r.lex.Fail("unexpected leading comma"), path)
	}
	o := NewObject()
	for r.lex.Class() != eng.ClassEndObject {
		key, err := r.lex.TakeString()
		if err != nil {
			return nil, syntaxIssue(err, path)
		}
		if err := r.lex.Expect(eng.ClassColon); err != nil {
			return nil, syntaxIssue(err, path)
		}
		v, err := r.read(eng.JoinPointer(path, key))
		if err != nil {
			return nil, err
		}
		o.Set(key, v)
		if r.lex.Class() != eng.ClassComma {
			break
		}
		r.lex.Next()
		if r.lex.Class() == eng.ClassEndObject {
			return nil, syntaxIssue(r.lex.Fail("unexpected trailing comma"), path)
		}
	}
	if err := r.lex.Expect(eng.ClassEndObject); err != nil {
		return nil, syntaxIssue(err, path)
	}
	return o, nil
}

func (r treeReader) readArray(path string) (Element, error) {
	r.lex.Next()
	if r.lex.Class() == eng.ClassComma {
		return nil, syntaxIssue(r.lex.Fail("unexpected leading comma"), path)
	}
	a := &Array{}
	for r.lex.Class() != eng.ClassEndList {
		v, err := r.read(eng.JoinPointer(path, strconv.Itoa(len(a.Items))))
		if err != nil {
			return nil, err
		}
		a.Items = append(a.Items, v)
		if r.lex.Class() != eng.ClassComma {
			break
		}
		r.lex.Next()
		if r.lex.Class() == eng.ClassEndList {
			return nil, syntaxIssue(r.lex.Fail("unexpected trailing comma"), path)
		}
	}
	if err := r.lex.Expect(eng.ClassEndList); err != nil {
		return nil, syntaxIssue(err, path)
	}
	return a, nil
}

// syntaxIssue converts a lexer error into an Issue at path.
func syntaxIssue(err error, path string) error {
	var se *eng.SyntaxError
	if errors.As(err, &se) {
		return goserde.WithCause(goserde.FailAt(se.Code, eng.NormalizePointer(path), se.Offset, se.Msg), se)
	}
	return err
}
