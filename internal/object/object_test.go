package object

import (
	"testing"

	"spy/internal/fqn"
)

func TestStructFieldAndWithField(t *testing.T) {
	pointType := NewStructType(fqn.New([]string{"app"}, "Point"), []Field{
		{Name: "x", Type: I32Type},
		{Name: "y", Type: I32Type},
	})
	p := &Struct{StructType: pointType, Values: []Value{I32{V: 1}, I32{V: 2}}}

	x, ok := p.Field("x")
	if !ok || x.(I32).V != 1 {
		t.Fatalf("Field(x) = %v, %v; want 1, true", x, ok)
	}

	moved, err := p.WithField("x", I32{V: 9})
	if err != nil {
		t.Fatalf("WithField: %v", err)
	}
	if moved == p {
		t.Fatal("WithField must return a distinct Struct, not mutate in place")
	}
	if got, _ := p.Field("x"); got.(I32).V != 1 {
		t.Fatal("original struct must be unaffected by WithField (structs are immutable)")
	}
	if got, _ := moved.Field("x"); got.(I32).V != 9 {
		t.Fatal("WithField result must carry the updated value")
	}
}

func TestWithFieldUnknownFieldErrors(t *testing.T) {
	pointType := NewStructType(fqn.New([]string{"app"}, "Point"), []Field{{Name: "x", Type: I32Type}})
	p := &Struct{StructType: pointType, Values: []Value{I32{V: 1}}}
	if _, err := p.WithField("z", I32{V: 1}); err == nil {
		t.Fatal("expected an error assigning an undeclared field")
	}
}

func TestExceptionEqualityDefaultsToFalseAcrossTypes(t *testing.T) {
	a := NewExceptionType(fqn.New([]string{"builtins"}, "ValueError"))
	b := NewExceptionType(fqn.New([]string{"builtins"}, "TypeError"))
	eqFn, ok := a.Caps.Plain(CapEq)
	if !ok {
		t.Fatal("NewExceptionType must install a default __eq__")
	}
	cmp := eqFn.(func(a, b *Exception) bool)
	e1 := &Exception{ExcType: a, Message: "boom"}
	e2 := &Exception{ExcType: b, Message: "boom"}
	if cmp(e1, e2) {
		t.Fatal("exceptions of different ExcType must never compare equal")
	}
	e3 := &Exception{ExcType: a, Message: "boom"}
	if !cmp(e1, e3) {
		t.Fatal("exceptions of the same type and message should compare equal")
	}
}

func TestCapabilitiesMetaAutoWrapsPlain(t *testing.T) {
	c := NewCapabilities()
	c.SetPlain(CapAdd, "the-impl")
	fn, wrapped, ok := c.Meta(CapAdd)
	if !ok || !wrapped || fn != "the-impl" {
		t.Fatalf("Meta() = %v, %v, %v; want the-impl, true, true", fn, wrapped, ok)
	}
}

func TestCapabilitiesExplicitMetaTakesPriority(t *testing.T) {
	c := NewCapabilities()
	c.SetPlain(CapAdd, "plain-impl")
	c.SetMeta(CapAdd, "meta-impl")
	fn, wrapped, ok := c.Meta(CapAdd)
	if !ok || wrapped || fn != "meta-impl" {
		t.Fatalf("Meta() = %v, %v, %v; want meta-impl, false, true", fn, wrapped, ok)
	}
}

func TestReflectedCapabilityTable(t *testing.T) {
	r, ok := Reflected(CapAdd)
	if !ok || r != "__radd__" {
		t.Fatalf("Reflected(CapAdd) = %q, %v; want __radd__, true", r, ok)
	}
	if _, ok := Reflected(CapStr); ok {
		t.Fatal("__str__ has no reflected counterpart")
	}
}

func TestListTypeCarriesElementQualifier(t *testing.T) {
	l := &List{ElemType: I32Type, Items: []Value{I32{V: 1}}}
	if got := l.Type().FQN.String(); got != "builtins::list[T=builtins::i32]" {
		t.Fatalf("List.Type().FQN = %q, want builtins::list[T=builtins::i32]", got)
	}
}
