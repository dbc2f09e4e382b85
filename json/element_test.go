package json_test

import (
	"strings"
	"testing"

	gojson "github.com/goccy/go-json"

	goserde "github.com/reoring/goserde"
	"github.com/reoring/goserde/json"
)

func TestReadFully(t *testing.T) {
	e, err := json.ReadFully(`{"a":[1,"x",null,true],b:2,"s":"q\"\n"}`)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got, want := e.String(), `{"a":[1,"x",null,true],"b":2,"s":"q\"\n"}`; got != want {
		t.Fatalf("got %s\nwant %s", got, want)
	}
	o := e.(*json.Object)
	if b, _ := o.Get("b"); b.(*json.Primitive).IsString {
		t.Fatalf("bare literal must not be flagged as string")
	}
	if v, err := mustPrimitive(t, o, "b").Int64(); err != nil || v != 2 {
		t.Fatalf("Int64 = %d, %v", v, err)
	}
}

func mustPrimitive(t *testing.T, o *json.Object, key string) *json.Primitive {
	t.Helper()
	v, ok := o.Get(key)
	if !ok {
		t.Fatalf("missing %s", key)
	}
	p, ok := v.(*json.Primitive)
	if !ok {
		t.Fatalf("%s is %T", key, v)
	}
	return p
}

func TestReadFully_Errors(t *testing.T) {
	cases := []struct {
		in     string
		code   string
		offset int64
	}{
		{`{} x`, goserde.CodeParseError, 3},
		{`[1,]`, goserde.CodeParseError, 3},
		{`[,1]`, goserde.CodeParseError, 1},
		{`{"a":1,}`, goserde.CodeParseError, 7},
		{`{"a" 1}`, goserde.CodeParseError, 5},
		{`[1`, goserde.CodeTruncated, 2},
		{``, goserde.CodeTruncated, 0},
	}
	for _, tc := range cases {
		_, err := json.ReadFully(tc.in)
		if err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
		it := firstIssue(t, err)
		if it.Code != tc.code || it.Offset != tc.offset {
			t.Fatalf("%q: got %s at %d, want %s at %d", tc.in, it.Code, it.Offset, tc.code, tc.offset)
		}
	}
}

func TestReadFully_DuplicateKeysKeepLast(t *testing.T) {
	e, err := json.ReadFully(`{"a":1,"b":2,"a":3}`)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := e.String(); got != `{"a":3,"b":2}` {
		t.Fatalf("got %s", got)
	}
}

func TestPrint_Pretty(t *testing.T) {
	e, err := json.ReadFully(`{"a":[1,2],"b":{}}`)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	got, err := json.New(json.Config{PrettyPrint: true, Indent: "  "}).Print(e)
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	want := "{\n  \"a\": [\n    1,\n    2\n  ],\n  \"b\": {}\n}"
	if got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

func TestElement_MarshalJSONIsStandard(t *testing.T) {
	e, err := json.ReadFully(`{k:bare,"n":-1.5e3,"t":true,"l":[null]}`)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	raw, err := gojson.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !gojson.Valid(raw) {
		t.Fatalf("not valid JSON: %s", raw)
	}
	var back map[string]any
	if err := gojson.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back["k"] != "bare" || back["n"] != -1500.0 || back["t"] != true {
		t.Fatalf("unexpected projection: %v", back)
	}
}

func TestToAnyFromAny(t *testing.T) {
	e, err := json.ReadFully(`{"b":[1,"x",null],"a":true}`)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	v := json.ToAny(e)
	m := v.(map[string]any)
	if m["a"] != true || m["b"].([]any)[0] != gojson.Number("1") {
		t.Fatalf("unexpected: %#v", v)
	}
	back, err := json.FromAny(v)
	if err != nil {
		t.Fatalf("from any: %v", err)
	}
	if !json.Equal(e, back) {
		t.Fatalf("trees differ: %s vs %s", e, back)
	}
	if got := back.String(); got != `{"a":true,"b":[1,"x",null]}` {
		t.Fatalf("keys should be sorted, got %s", got)
	}
	if _, err := json.FromAny(struct{}{}); !goserde.HasCode(err, goserde.CodeInvalidType) {
		t.Fatalf("expected invalid_type, got %v", err)
	}
}

func TestObjectDelete(t *testing.T) {
	o := json.NewObject()
	o.Set("a", json.NewInt(1))
	o.Set("b", json.NewInt(2))
	o.Set("a", json.NewInt(3))
	if !o.Delete("b") || o.Delete("b") {
		t.Fatalf("delete semantics broken")
	}
	if got := strings.Join(o.Keys(), ","); got != "a" {
		t.Fatalf("keys = %s", got)
	}
}

func TestElementSerializer_ThroughText(t *testing.T) {
	e, err := json.ReadFully(`{"x":[1,2.5,"s",null],"y":{"z":false}}`)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	text, err := json.Encode(nil, json.ElementSerializer(), e)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := json.Decode(nil, json.ElementSerializer(), text)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !json.Equal(e, back) {
		t.Fatalf("round trip differs: %s vs %s", e, back)
	}
}

func TestEncodeToElement(t *testing.T) {
	e, err := json.EncodeToElement(nil, pointSerializer, point{X: 3, Y: 4})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	o := e.(*json.Object)
	if v, _ := mustPrimitive(t, o, "y").Int64(); v != 4 {
		t.Fatalf("y = %d", v)
	}
	o.Set("x", json.NewInt(10))
	p, err := json.DecodeFromElement(nil, pointSerializer, o)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p != (point{X: 10, Y: 4}) {
		t.Fatalf("got %+v", p)
	}
}

func TestReadElementStrict(t *testing.T) {
	e, err := json.ReadElementStrict(strings.NewReader(`{"a":1.5,"b":[true,null,"s"]}`))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := e.String(); got != `{"a":1.5,"b":[true,null,"s"]}` {
		t.Fatalf("got %s", got)
	}
	if _, err := json.ReadElementStrict(strings.NewReader(`{a:1}`)); err == nil {
		t.Fatalf("bare keys must be rejected")
	}
	if _, err := json.ReadElementStrict(strings.NewReader(`[1,2`)); err == nil {
		t.Fatalf("truncated input must be rejected")
	}
}

func TestReadElementStrict_TrailingContent(t *testing.T) {
	if _, err := json.ReadElementStrict(strings.NewReader("[1]\n\t ")); err != nil {
		t.Fatalf("trailing whitespace must be accepted: %v", err)
	}
	for _, in := range []string{`{"a":1} 2`, `[1]]`, `"x""y"`} {
		_, err := json.ReadElementStrict(strings.NewReader(in))
		if !goserde.HasCode(err, goserde.CodeParseError) {
			t.Fatalf("%s: expected parse_error, got %v", in, err)
		}
	}
}
