package json_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	goserde "github.com/reoring/goserde"
	"github.com/reoring/goserde/json"
	"github.com/reoring/goserde/serializers"
)

func firstIssue(t *testing.T, err error) goserde.Issue {
	t.Helper()
	iss, ok := goserde.AsIssues(err)
	if !ok || len(iss) == 0 {
		t.Fatalf("expected Issues, got %T: %v", err, err)
	}
	return iss[0]
}

func TestEncode_ObjectAndDefaults(t *testing.T) {
	full := profile{Name: "ann", Tags: []string{"a", "b"}, Score: 1.5, Home: &point{X: 1, Y: 2}}
	got, err := json.Encode(nil, profileSerializer, full)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if want := `{"name":"ann","tags":["a","b"],"score":1.5,"home":{"x":1,"y":2}}`; got != want {
		t.Fatalf("got %s\nwant %s", got, want)
	}

	got, err = json.Encode(nil, profileSerializer, profile{Name: "ann"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if want := `{"name":"ann","tags":[],"score":0,"home":null}`; got != want {
		t.Fatalf("got %s\nwant %s", got, want)
	}

	omit := json.New(json.Config{OmitDefaults: true})
	got, err = json.Encode(omit, profileSerializer, profile{Name: "ann"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if want := `{"name":"ann"}`; got != want {
		t.Fatalf("got %s\nwant %s", got, want)
	}
}

func TestEncode_PrettyPrint(t *testing.T) {
	f := json.New(json.Config{PrettyPrint: true})
	got, err := json.Encode(f, pointSerializer, point{X: 1, Y: 2})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := "{\n    \"x\": 1,\n    \"y\": 2\n}"
	if got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}

	f = json.New(json.Config{PrettyPrint: true, Indent: "  "})
	got, err = json.Encode(f, serializers.List(serializers.Int()), []int{})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got != "[]" {
		t.Fatalf("empty list should stay on one line, got %q", got)
	}
}

func TestEncode_UnquotedPrintBoundary(t *testing.T) {
	f := json.New(json.Config{UnquotedPrint: true})
	in := []string{"abc", "a b", "", "null", "x:y", "q\"", "tab\t"}
	got, err := json.Encode(f, serializers.List(serializers.String()), in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := `[abc,"a b","","null","x:y","q\"","tab\t"]`
	if got != want {
		t.Fatalf("got %s\nwant %s", got, want)
	}
	back, err := json.Decode(f, serializers.List(serializers.String()), got)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(in, back); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_Object(t *testing.T) {
	got, err := json.Decode(nil, profileSerializer, `{"home":{"y":2,"x":1},"name":"ann","tags":["a"]}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := profile{Name: "ann", Tags: []string{"a"}, Home: &point{X: 1, Y: 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_UnknownKey(t *testing.T) {
	_, err := json.Decode(nil, profileSerializer, `{"name":"ann","age":3}`)
	it := firstIssue(t, err)
	if it.Code != goserde.CodeUnknownKey || it.Hint != "age" || it.Path != "/age" || it.Offset != 14 {
		t.Fatalf("unexpected issue: %+v", it)
	}

	lenient := json.New(json.Config{IgnoreUnknownKeys: true})
	got, err := json.Decode(lenient, profileSerializer, `{"name":"ann","extra":{"a":[1,{"b":null}]},"tags":[]}`)
	if err != nil {
		t.Fatalf("lenient decode: %v", err)
	}
	if got.Name != "ann" || len(got.Tags) != 0 {
		t.Fatalf("unexpected value: %+v", got)
	}
}

func TestDecode_MissingRequiredField(t *testing.T) {
	_, err := json.Decode(nil, profileSerializer, `{"tags":[]}`)
	if it := firstIssue(t, err); it.Code != goserde.CodeMissingField || it.Hint != "name" {
		t.Fatalf("unexpected issue: %+v", it)
	}

	_, err = json.Decode(nil, serializers.PairOf(serializers.Int(), serializers.Int()), `{"first":1}`)
	if it := firstIssue(t, err); it.Code != goserde.CodeMissingField || it.Hint != "second" {
		t.Fatalf("unexpected issue: %+v", it)
	}
}

func TestDecode_NestedErrorPath(t *testing.T) {
	_, err := json.Decode(nil, profileSerializer, `{"name":"ann","home":{"x":"q","y":1}}`)
	it := firstIssue(t, err)
	if it.Code != goserde.CodeInvalidLiteral || it.Path != "/home/x" || it.Offset != 26 {
		t.Fatalf("unexpected issue: %+v", it)
	}
}

func TestDecode_TrailingContent(t *testing.T) {
	_, err := json.Decode(nil, serializers.Int(), "1 2")
	it := firstIssue(t, err)
	if it.Code != goserde.CodeParseError || it.Offset != 2 {
		t.Fatalf("unexpected issue: %+v", it)
	}
	if _, err := json.Decode(nil, serializers.Int(), " 7 "); err != nil {
		t.Fatalf("surrounding whitespace should be accepted: %v", err)
	}
}

func TestDecode_Truncated(t *testing.T) {
	_, err := json.Decode(nil, pointSerializer, `{"x":1,`)
	if !goserde.HasCode(err, goserde.CodeTruncated) && !goserde.HasCode(err, goserde.CodeParseError) {
		t.Fatalf("expected a syntax issue, got %v", err)
	}
}

func TestMaxDepth(t *testing.T) {
	f := json.New(json.Config{MaxDepth: 2})
	s := serializers.List(serializers.List(serializers.List(serializers.Int())))
	if _, err := json.Decode(f, s, `[[[1]]]`); !goserde.HasCode(err, goserde.CodeParseError) {
		t.Fatalf("expected parse_error, got %v", err)
	}
	if _, err := json.Decode(nil, s, `[[[1]]]`); err != nil {
		t.Fatalf("unbounded decode: %v", err)
	}
}

func TestFloatSpecials(t *testing.T) {
	s := serializers.List(serializers.Float64())
	got, err := json.Encode(nil, s, []float64{math.NaN(), math.Inf(1), math.Inf(-1), 0.5})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if want := `["NaN","Infinity","-Infinity",0.5]`; got != want {
		t.Fatalf("got %s want %s", got, want)
	}
	back, err := json.Decode(nil, s, got)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !math.IsNaN(back[0]) || !math.IsInf(back[1], 1) || !math.IsInf(back[2], -1) || back[3] != 0.5 {
		t.Fatalf("unexpected values: %v", back)
	}
}

type color int

func TestEnum(t *testing.T) {
	s := serializers.Enum[color]("Color", "RED", "GREEN")
	got, err := json.Encode(nil, s, color(1))
	if err != nil || got != `"GREEN"` {
		t.Fatalf("got %s, %v", got, err)
	}
	if _, err := json.Decode(nil, s, `"BLUE"`); !goserde.HasCode(err, goserde.CodeInvalidEnum) {
		t.Fatalf("expected invalid_enum, got %v", err)
	}
	if _, err := json.Encode(nil, s, color(7)); !goserde.HasCode(err, goserde.CodeInvalidEnum) {
		t.Fatalf("expected invalid_enum on encode, got %v", err)
	}
}

func TestMap_PrimitiveKeysAreQuoted(t *testing.T) {
	s := serializers.GoMap(serializers.Int(), serializers.String())
	got, err := json.Encode(nil, s, map[int]string{2: "b", 1: "a"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if want := `{"1":"a","2":"b"}`; got != want {
		t.Fatalf("got %s want %s", got, want)
	}
	back, err := json.Decode(nil, s, `{"1":"a",2:"b"}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(map[int]string{1: "a", 2: "b"}, back); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestMap_StructuredKeysFallBackToList(t *testing.T) {
	key := serializers.PairOf(serializers.Int(), serializers.Int())
	s := serializers.Map(key, serializers.String())
	m := serializers.NewOrderedMap[serializers.Pair[int, int], string]()
	m.Set(serializers.Pair[int, int]{First: 1, Second: 2}, "v")
	got, err := json.Encode(nil, s, m)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if want := `[{"first":1,"second":2},"v"]`; got != want {
		t.Fatalf("got %s want %s", got, want)
	}
	back, err := json.Decode(nil, s, got)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v, ok := back.Get(serializers.Pair[int, int]{First: 1, Second: 2}); !ok || v != "v" {
		t.Fatalf("entry lost: %v %v", v, ok)
	}
}

func TestPolymorphic_ArrayFraming(t *testing.T) {
	s := serializers.List(shapeSerializer())
	in := []shape{circle{Radius: 1}, rect{W: 2, H: 3}}
	got, err := json.Encode(nil, s, in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if want := `[["circle",{"radius":1}],["rect",{"w":2,"h":3}]]`; got != want {
		t.Fatalf("got %s\nwant %s", got, want)
	}
	back, err := json.Decode(nil, s, got)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(in, back); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	_, err = json.Decode(nil, shapeSerializer(), `["square",{}]`)
	if it := firstIssue(t, err); it.Code != goserde.CodeDiscriminatorUnknown || it.Hint != "square" {
		t.Fatalf("unexpected issue: %+v", it)
	}
}

func TestPolymorphic_ClassDiscriminator(t *testing.T) {
	f := json.New(json.Config{ClassDiscriminator: "type"})
	s := serializers.List(shapeSerializer())
	in := []shape{circle{Radius: 1}, rect{W: 2, H: 3}}
	got, err := json.Encode(f, s, in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if want := `[{"type":"circle","radius":1},{"type":"rect","w":2,"h":3}]`; got != want {
		t.Fatalf("got %s\nwant %s", got, want)
	}
	back, err := json.Decode(f, s, `[{"radius":1,"type":"circle"},{"type":"rect","w":2,"h":3}]`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(in, back); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	_, err = json.Decode(f, shapeSerializer(), `{"radius":1}`)
	if it := firstIssue(t, err); it.Code != goserde.CodeDiscriminatorMissing || it.Hint != "type" {
		t.Fatalf("unexpected issue: %+v", it)
	}
	_, err = json.Decode(f, shapeSerializer(), `{"type":"circle","radius":1,"extra":0}`)
	if it := firstIssue(t, err); it.Code != goserde.CodeUnknownKey || it.Offset != -1 {
		t.Fatalf("unexpected issue: %+v", it)
	}
}

func TestPolymorphic_NotRegistered(t *testing.T) {
	_, err := json.Encode(nil, shapeSerializer(), nil)
	if !goserde.HasCode(err, goserde.CodeNotRegistered) {
		t.Fatalf("expected not_registered, got %v", err)
	}
}

func TestUpdate_MergesCollectionsAndObjects(t *testing.T) {
	old := profile{Name: "ann", Tags: []string{"a"}, Home: &point{X: 1, Y: 2}}
	got, err := json.Update(nil, profileSerializer, old, `{"tags":["b"],"home":{"y":5}}`)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	want := profile{Name: "ann", Tags: []string{"a", "b"}, Home: &point{X: 1, Y: 5}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if len(old.Tags) != 1 || old.Home.Y != 2 {
		t.Fatalf("old value was mutated: %+v", old)
	}

	// an empty payload is the identity
	same, err := json.Update(nil, profileSerializer, got, `{}`)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if diff := cmp.Diff(got, same); diff != "" {
		t.Fatalf("empty patch changed the value (-want +got):\n%s", diff)
	}
}

func TestUpdate_IdempotentOnZeroValues(t *testing.T) {
	for _, v := range []profile{
		{Name: "ann"},
		{Name: "ann", Home: &point{X: 1}},
	} {
		text, err := json.Encode(nil, profileSerializer, v)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		got, err := json.Update(nil, profileSerializer, v, text)
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if diff := cmp.Diff(v, got); diff != "" {
			t.Fatalf("mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestUpdate_MapMergesStructuredValues(t *testing.T) {
	s := serializers.GoMap(serializers.String(), pointSerializer)
	old := map[string]point{"p": {X: 1, Y: 2}, "q": {X: 3, Y: 4}}
	got, err := json.Update(nil, s, old, `{"p":{"y":9},"r":{"x":0,"y":0}}`)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	want := map[string]point{"p": {X: 1, Y: 9}, "q": {X: 3, Y: 4}, "r": {}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	prim := serializers.GoMap(serializers.String(), serializers.Int())
	got2, err := json.Update(nil, prim, map[string]int{"a": 1}, `{"a":2}`)
	if err != nil || got2["a"] != 2 {
		t.Fatalf("primitive values are replaced: %v %v", got2, err)
	}
}

func TestDecode_DuplicateMapKeysMerge(t *testing.T) {
	s := serializers.GoMap(serializers.String(), pointSerializer)
	got, err := json.Decode(nil, s, `{"p":{"x":1,"y":2},"p":{"y":3}}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["p"] != (point{X: 1, Y: 3}) {
		t.Fatalf("got %+v", got["p"])
	}
}

func TestRune(t *testing.T) {
	got, err := json.Decode(nil, serializers.Rune(), `"é"`)
	if err != nil || got != 'é' {
		t.Fatalf("got %q, %v", got, err)
	}
	if _, err := json.Decode(nil, serializers.Rune(), `"ab"`); !goserde.HasCode(err, goserde.CodeInvalidLiteral) {
		t.Fatalf("expected invalid_literal, got %v", err)
	}
}

func TestOverflow(t *testing.T) {
	if _, err := json.Decode(nil, serializers.Int8(), `300`); !goserde.HasCode(err, goserde.CodeOverflow) {
		t.Fatalf("expected overflow, got %v", err)
	}
}

func TestMapEntryInList(t *testing.T) {
	s := serializers.List(serializers.MapEntry(serializers.String(), serializers.Int()))
	in := []serializers.Entry[string, int]{{Key: "a", Value: 1}}
	got, err := json.Encode(nil, s, in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if want := `[{"key":"a","value":1}]`; got != want {
		t.Fatalf("got %s want %s", got, want)
	}
	back, err := json.Decode(nil, s, got)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(in, back); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestFormat_With(t *testing.T) {
	base := json.New(json.Config{IgnoreUnknownKeys: true})
	f := base.With(json.WithPrettyPrint("  "), json.WithClassDiscriminator("kind"), json.WithMaxDepth(3))
	cfg := f.Config()
	if !cfg.IgnoreUnknownKeys || !cfg.PrettyPrint || cfg.Indent != "  " || cfg.ClassDiscriminator != "kind" || cfg.MaxDepth != 3 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if base.Config().PrettyPrint {
		t.Fatalf("With must not modify the receiver")
	}
	if got := (*json.Format)(nil).With(json.WithOmitDefaults()).Config(); !got.OmitDefaults || got.Indent != "    " {
		t.Fatalf("nil receiver should start from the default: %+v", got)
	}
}
