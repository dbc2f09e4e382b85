package goserde

import (
	"errors"
	"strings"
	"testing"
)

func TestDescriptor_BuildIndex(t *testing.T) {
	str := PrimitiveDescriptor("string", KindString)
	d := NewDescriptor("User", KindClass).
		Element("name", str).
		Element("nick", str, Optional(), Annotated("alias")).
		Annotate("entity").
		MustBuild()
	if d.ElementsCount() != 2 || d.ElementIndex("nick") != 1 || d.ElementIndex("age") != UnknownName {
		t.Fatalf("index broken: %v", d)
	}
	if d.ElementName(0) != "name" || !d.IsElementOptional(1) || d.IsElementOptional(0) {
		t.Fatalf("element metadata broken")
	}
	if got := d.ElementAnnotations(1); len(got) != 1 || got[0] != "alias" {
		t.Fatalf("annotations = %v", got)
	}
	if got := d.Annotations(); len(got) != 1 || got[0] != "entity" {
		t.Fatalf("type annotations = %v", got)
	}
	if d.String() != "User(CLASS)" {
		t.Fatalf("String() = %s", d)
	}
}

func TestDescriptor_BuildErrors(t *testing.T) {
	str := PrimitiveDescriptor("string", KindString)
	if _, err := NewDescriptor("Dup", KindClass).Element("a", str).Element("a", str).Build(); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if _, err := NewDescriptor("L", KindList).Build(); err == nil {
		t.Fatalf("list without element must fail")
	}
	if _, err := NewDescriptor("M", KindMap).Element("key", str).Build(); err == nil {
		t.Fatalf("map with one element must fail")
	}
	if _, err := NewDescriptor("N", KindClass).Element("x", nil).Build(); err == nil {
		t.Fatalf("nil element descriptor must fail")
	}
}

func TestDescriptor_Collections(t *testing.T) {
	str := PrimitiveDescriptor("string", KindString)
	i64 := PrimitiveDescriptor("int64", KindInt64)
	l := ListDescriptor(str)
	if l.ElementDescriptor(41) != str || l.ElementName(41) != "41" || l.ElementIndex("7") != 7 {
		t.Fatalf("list elements should resolve positionally")
	}
	if l.ElementIndex("x") != UnknownName || l.ElementIndex("-1") != UnknownName {
		t.Fatalf("non-numeric list names are unknown")
	}
	m := MapDescriptor(str, i64)
	if m.ElementDescriptor(4) != str || m.ElementDescriptor(5) != i64 {
		t.Fatalf("map elements alternate key and value")
	}
	if m.Name() != "Map<string,int64>" || SetDescriptor(str).Kind() != KindSet {
		t.Fatalf("unexpected names")
	}
}

func TestDescriptor_IndexPanics(t *testing.T) {
	d := NewDescriptor("P", KindClass).Element("x", PrimitiveDescriptor("int64", KindInt64)).MustBuild()
	defer func() {
		r := recover()
		var ie *IndexError
		err, _ := r.(error)
		if !errors.As(err, &ie) || ie.Index != 3 || ie.Count != 1 {
			t.Fatalf("expected IndexError, got %v", r)
		}
	}()
	d.ElementName(3)
}

func TestNullableDescriptor(t *testing.T) {
	str := PrimitiveDescriptor("string", KindString)
	n := NullableDescriptor(str)
	if !n.IsNullable() || str.IsNullable() || n.Name() != "string?" || n.Kind() != KindString {
		t.Fatalf("nullable view broken: %s", n)
	}
	if NullableDescriptor(n) != n {
		t.Fatalf("nullable of nullable should be itself")
	}
}

func TestKind(t *testing.T) {
	if !KindInt32.IsPrimitive() || KindEnum.IsPrimitive() || !KindEntry.IsStructure() || !KindMap.IsCollection() {
		t.Fatalf("kind predicates broken")
	}
	if Kind(99).String() != "UNKNOWN" || KindPolymorphic.String() != "POLYMORPHIC" {
		t.Fatalf("kind names broken")
	}
}
