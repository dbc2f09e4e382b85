package goserde_test

import (
	"testing"

	goserde "github.com/reoring/goserde"
	"github.com/reoring/goserde/json"
	"github.com/reoring/goserde/serializers"
)

func TestNullable(t *testing.T) {
	s := goserde.Nullable(serializers.Int())
	if !s.Descriptor().IsNullable() {
		t.Fatalf("descriptor should be nullable")
	}
	text, err := json.Encode(nil, serializers.List(s), []*int{nil, ptr(3)})
	if err != nil || text != `[null,3]` {
		t.Fatalf("encode: %s, %v", text, err)
	}
	got, err := json.Decode(nil, serializers.List(s), text)
	if err != nil || got[0] != nil || *got[1] != 3 {
		t.Fatalf("decode: %v, %v", got, err)
	}
}

func TestUpdate_FallsBackToDeserialize(t *testing.T) {
	// primitives have no Patch: the payload replaces the old value
	got, err := json.Update(nil, serializers.Int(), 1, `2`)
	if err != nil || got != 2 {
		t.Fatalf("got %d, %v", got, err)
	}
	// a nullable patch over nil decodes fresh
	p, err := json.Update(nil, goserde.Nullable(serializers.Int()), nil, `5`)
	if err != nil || *p != 5 {
		t.Fatalf("got %v, %v", p, err)
	}
	// null clears
	p, err = json.Update(nil, goserde.Nullable(serializers.Int()), ptr(1), `null`)
	if err != nil || p != nil {
		t.Fatalf("got %v, %v", p, err)
	}
}

func ptr[T any](v T) *T { return &v }
