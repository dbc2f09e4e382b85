package yaml_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	goserde "github.com/reoring/goserde"
	"github.com/reoring/goserde/json"
	"github.com/reoring/goserde/serializers"
	"github.com/reoring/goserde/yaml"
)

type server struct {
	Host  string
	Port  int
	Tags  []string
	Debug bool
}

var serverSerializer = func() goserde.Serializer[server] {
	b := serializers.Object[server]("Server")
	serializers.Field(b, "host", serializers.String(), func(s *server) string { return s.Host }, func(s *server, v string) { s.Host = v })
	serializers.Field(b, "port", serializers.Int(), func(s *server) int { return s.Port }, func(s *server, v int) { s.Port = v })
	serializers.OptionalField(b, "tags", serializers.List(serializers.String()),
		func(s *server) []string { return s.Tags }, func(s *server, v []string) { s.Tags = v }, nil)
	serializers.OptionalField(b, "debug", serializers.Bool(), func(s *server) bool { return s.Debug }, func(s *server, v bool) { s.Debug = v }, false)
	return b.MustBuild()
}()

func TestDecode(t *testing.T) {
	src := []byte("host: example.org\nport: 8080\ntags: &t [a, \"1\"]\ndebug: true\n")
	got, err := yaml.Decode(nil, serverSerializer, src)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := server{Host: "example.org", Port: 8080, Tags: []string{"a", "1"}, Debug: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_UnknownKeyPath(t *testing.T) {
	_, err := yaml.Decode(nil, serverSerializer, []byte("host: h\nport: 1\nextra: 2\n"))
	iss, ok := goserde.AsIssues(err)
	if !ok || iss[0].Code != goserde.CodeUnknownKey || iss[0].Path != "/extra" {
		t.Fatalf("expected unknown_key at /extra, got %v", err)
	}
}

func TestToElement_Scalars(t *testing.T) {
	doc, err := yaml.ToElement([]byte("a: 1\nb: 1.5\nc: yes\nd: ~\ne: true\nf: '2'\ng: .inf\n"))
	if err != nil {
		t.Fatalf("ToElement: %v", err)
	}
	want := `{"a":1,"b":1.5,"c":"yes","d":null,"e":true,"f":"2","g":"Infinity"}`
	if doc.String() != want {
		t.Fatalf("got %s\nwant %s", doc, want)
	}
}

func TestToElement_Errors(t *testing.T) {
	if _, err := yaml.ToElement([]byte("a: [1, 2")); !goserde.HasCode(err, goserde.CodeParseError) {
		t.Fatalf("expected parse_error, got %v", err)
	}
	if _, err := yaml.ToElement([]byte("? [1, 2]\n: x\n")); !goserde.HasCode(err, goserde.CodeInvalidType) {
		t.Fatalf("expected invalid_type for a structured key, got %v", err)
	}
	doc, err := yaml.ToElement(nil)
	if err != nil || doc != json.JSONNull {
		t.Fatalf("empty input should read as null: %v, %v", doc, err)
	}
}

func TestEncode_KeepsOrderAndQuotesAmbiguousStrings(t *testing.T) {
	out, err := yaml.Encode(nil, serverSerializer, server{Host: "true", Port: 1, Tags: []string{"x"}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := yaml.Decode(nil, serverSerializer, out)
	if err != nil {
		t.Fatalf("decode %s: %v", out, err)
	}
	if back.Host != "true" || back.Port != 1 || back.Tags[0] != "x" {
		t.Fatalf("round trip lost data: %+v\n%s", back, out)
	}
	if string(out[:len("host:")]) != "host:" {
		t.Fatalf("member order not kept:\n%s", out)
	}
}

func TestUpdate_OverlaysBase(t *testing.T) {
	base := server{Host: "h", Port: 1, Tags: []string{"a"}}
	got, err := yaml.Update(nil, serverSerializer, base, []byte("port: 2\ntags: [b]\n"))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	want := server{Host: "h", Port: 2, Tags: []string{"a", "b"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}
