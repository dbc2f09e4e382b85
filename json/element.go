package json

import (
	"fmt"
	"iter"
	"maps"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"

	goserde "github.com/reoring/goserde"
)

// Element is a node of the JSON tree: *Null, *Primitive, *Object or *Array.
type Element interface {
	// String renders the element as compact JSON.
	String() string
	isElement()
}

// Null is the JSON null literal.
type Null struct{}

// JSONNull is the shared null element.
var JSONNull = &Null{}

// Primitive is a scalar. IsString records whether the text was quoted in the
// source; bare literals (numbers, booleans, unquoted text) have it false.
type Primitive struct {
	Content  string
	IsString bool
}

// Object is an insertion-ordered JSON object. Setting an existing key keeps
// its position and replaces the value.
type Object struct {
	keys   []string
	values map[string]Element
}

// Array is a JSON array.
type Array struct {
	Items []Element
}

func (*Null) isElement()      {}
func (*Primitive) isElement() {}
func (*Object) isElement()    {}
func (*Array) isElement()     {}

func NewString(s string) *Primitive { return &Primitive{Content: s, IsString: true} }

// NewLiteral wraps bare literal text such as a number.
func NewLiteral(text string) *Primitive { return &Primitive{Content: text} }

func NewBool(b bool) *Primitive { return NewLiteral(strconv.FormatBool(b)) }

func NewInt(v int64) *Primitive { return NewLiteral(strconv.FormatInt(v, 10)) }

func NewFloat(v float64) *Primitive { return NewLiteral(strconv.FormatFloat(v, 'g', -1, 64)) }

func NewObject() *Object { return &Object{values: map[string]Element{}} }

func NewArray(items ...Element) *Array { return &Array{Items: items} }

// Int64 converts the content; failures are invalid_literal or overflow issues.
func (p *Primitive) Int64() (int64, error) { return parseInt(p.Content, 64) }

func (p *Primitive) Float64() (float64, error) { return parseFloat(p.Content, 64) }

func (p *Primitive) Bool() (bool, error) { return parseBool(p.Content) }

func (o *Object) Len() int { return len(o.keys) }

func (o *Object) Get(key string) (Element, bool) {
	v, ok := o.values[key]
	return v, ok
}

func (o *Object) Set(key string, v Element) {
	if o.values == nil {
		o.values = map[string]Element{}
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// Delete removes key and reports whether it was present.
func (o *Object) Delete(key string) bool {
	if _, ok := o.values[key]; !ok {
		return false
	}
	delete(o.values, key)
	o.keys = slices.DeleteFunc(o.keys, func(k string) bool { return k == key })
	return true
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string { return slices.Clone(o.keys) }

// All iterates members in insertion order.
func (o *Object) All() iter.Seq2[string, Element] {
	return func(yield func(string, Element) bool) {
		for _, k := range o.keys {
			if !yield(k, o.values[k]) {
				return
			}
		}
	}
}

func (*Null) String() string { return "null" }

func (p *Primitive) String() string {
	if p.IsString {
		var b strings.Builder
		printQuoted(&b, p.Content)
		return b.String()
	}
	return p.Content
}

func (o *Object) String() string {
	var b strings.Builder
	writeCompact(&b, o)
	return b.String()
}

func (a *Array) String() string {
	var b strings.Builder
	writeCompact(&b, a)
	return b.String()
}

func writeCompact(b *strings.Builder, e Element) {
	switch e := e.(type) {
	case *Object:
		b.WriteByte('{')
		i := 0
		for k, v := range e.All() {
			if i > 0 {
				b.WriteByte(',')
			}
			printQuoted(b, k)
			b.WriteByte(':')
			writeCompact(b, v)
			i++
		}
		b.WriteByte('}')
	case *Array:
		b.WriteByte('[')
		for i, v := range e.Items {
			if i > 0 {
				b.WriteByte(',')
			}
			writeCompact(b, v)
		}
		b.WriteByte(']')
	default:
		b.WriteString(e.String())
	}
}

// MarshalJSON renders standard JSON: bare literals that are not valid JSON
// numbers or booleans are quoted.
func (n *Null) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

func (p *Primitive) MarshalJSON() ([]byte, error) {
	if p.IsString || isJSONLiteral(p.Content) {
		return []byte(p.String()), nil
	}
	return []byte(NewString(p.Content).String()), nil
}

func (o *Object) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	i := 0
	for k, v := range o.All() {
		if i > 0 {
			b.WriteByte(',')
		}
		printQuoted(&b, k)
		b.WriteByte(':')
		raw, err := v.(gojson.Marshaler).MarshalJSON()
		if err != nil {
			return nil, err
		}
		b.Write(raw)
		i++
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

func (a *Array) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range a.Items {
		if i > 0 {
			b.WriteByte(',')
		}
		raw, err := v.(gojson.Marshaler).MarshalJSON()
		if err != nil {
			return nil, err
		}
		b.Write(raw)
	}
	b.WriteByte(']')
	return []byte(b.String()), nil
}

func isJSONLiteral(s string) bool {
	if s == "true" || s == "false" {
		return true
	}
	return gojson.Valid([]byte(s)) && s != "" && (s[0] == '-' || (s[0] >= '0' && s[0] <= '9'))
}

// ToAny projects the tree onto plain Go values: map[string]any, []any,
// string, bool, gojson.Number and nil. Bare text that is neither a number
// nor a boolean becomes a string.
func ToAny(e Element) any {
	switch e := e.(type) {
	case *Null:
		return nil
	case *Primitive:
		if e.IsString {
			return e.Content
		}
		switch {
		case e.Content == "true":
			return true
		case e.Content == "false":
			return false
		case isJSONLiteral(e.Content):
			return gojson.Number(e.Content)
		}
		return e.Content
	case *Object:
		m := make(map[string]any, e.Len())
		for k, v := range e.All() {
			m[k] = ToAny(v)
		}
		return m
	case *Array:
		out := make([]any, len(e.Items))
		for i, v := range e.Items {
			out[i] = ToAny(v)
		}
		return out
	}
	return nil
}

// FromAny builds a tree from plain Go values. Map keys are sorted so the
// result is deterministic.
func FromAny(v any) (Element, error) {
	switch v := v.(type) {
	case nil:
		return JSONNull, nil
	case Element:
		return v, nil
	case string:
		return NewString(v), nil
	case bool:
		return NewBool(v), nil
	case gojson.Number:
		return NewLiteral(string(v)), nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewString(floatSpecial(v)), nil
		}
		return NewFloat(v), nil
	case float32:
		return FromAny(float64(v))
	case map[string]any:
		o := NewObject()
		for _, k := range slices.Sorted(maps.Keys(v)) {
			el, err := FromAny(v[k])
			if err != nil {
				return nil, err
			}
			o.Set(k, el)
		}
		return o, nil
	case []any:
		a := &Array{Items: make([]Element, 0, len(v))}
		for _, it := range v {
			el, err := FromAny(it)
			if err != nil {
				return nil, err
			}
			a.Items = append(a.Items, el)
		}
		return a, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return NewInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return NewLiteral(strconv.FormatUint(rv.Uint(), 10)), nil
	}
	return nil, goserde.Fail(goserde.CodeInvalidType, fmt.Sprintf("%T", v))
}

// Equal reports deep equality of two trees. Object member order is
// ignored; the quoted flag of primitives is not.
func Equal(a, b Element) bool {
	switch a := a.(type) {
	case *Null:
		_, ok := b.(*Null)
		return ok
	case *Primitive:
		bp, ok := b.(*Primitive)
		return ok && *a == *bp
	case *Object:
		bo, ok := b.(*Object)
		if !ok || a.Len() != bo.Len() {
			return false
		}
		for k, v := range a.All() {
			w, ok := bo.Get(k)
			if !ok || !Equal(v, w) {
				return false
			}
		}
		return true
	case *Array:
		ba, ok := b.(*Array)
		return ok && slices.EqualFunc(a.Items, ba.Items, Equal)
	}
	return false
}
