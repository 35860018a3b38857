// Package object implements the W-object value model: every runtime and
// compile-time value in SPy carries a concrete dynamic type and a payload.
// The value set is open (user types register new kinds); polymorphism is
// via capability sets rather than an inheritance hierarchy.
package object

import (
	"fmt"

	"spy/internal/fqn"
)

// Kind tags the broad shape of a type's storage.
type Kind int

const (
	KindBool Kind = iota
	KindI8
	KindI32
	KindF64
	KindStr
	KindPointer
	KindStruct
	KindModule
	KindFunction
	KindType
	KindOpImpl
	KindOpArg
	KindException
	KindUser
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindI8:
		return "i8"
	case KindI32:
		return "i32"
	case KindF64:
		return "f64"
	case KindStr:
		return "str"
	case KindPointer:
		return "pointer"
	case KindStruct:
		return "struct"
	case KindModule:
		return "module"
	case KindFunction:
		return "function"
	case KindType:
		return "type"
	case KindOpImpl:
		return "opimpl"
	case KindOpArg:
		return "oparg"
	case KindException:
		return "exception"
	default:
		return "user"
	}
}

// Value is any W-object: a tagged value carrying its dynamic Type. A
// value's dynamic type never changes once constructed (spec invariant).
type Value interface {
	Type() *Type
}

// Field describes one named, ordered field of a struct layout.
type Field struct {
	Name   string
	Type   *Type
	Offset int
}

// Type is itself a W-object: types are first-class values that can be
// passed as arguments and produced by (generic) functions.
type Type struct {
	FQN        fqn.FQN
	Kind       Kind
	Fields     []Field  // struct layout, nil otherwise
	SizeHint   int      // bytes, advisory for the emitter/gc_alloc sizing
	Caps       *Capabilities
	LiftedFrom *Type // for typelifted types: the raw storage type
}

func (t *Type) String() string { return t.FQN.String() }

// Type implements Value: a type value's own dynamic type is the
// meta-type "type", represented by the sentinel below.
func (t *Type) Type() *Type { return MetaType }

// MetaType is the dynamic type of every Type value ("the type of types").
var MetaType = &Type{FQN: fqn.New([]string{"builtins"}, "type"), Kind: KindType}

func init() {
	MetaType.Caps = NewCapabilities()
}

// --- primitive value wrappers ---

type Bool struct{ V bool }

func (Bool) Type() *Type { return BoolType }

type I8 struct{ V int8 }

func (I8) Type() *Type { return I8Type }

type I32 struct{ V int32 }

func (I32) Type() *Type { return I32Type }

type F64 struct{ V float64 }

func (F64) Type() *Type { return F64Type }

// Str is a length-prefixed, immutable, hashable UTF-8 string, matching
// libspy's str::alloc/str::len contract (spec §6.2). The Go string header
// already carries a length, so no separate length field is needed here;
// immutability is enforced by never exposing a mutable byte slice.
type Str struct{ V string }

func (Str) Type() *Type { return StrType }

// Pointer is a typed address. In checked mode it additionally carries a
// length so bounds checks can be emitted (spec §6.2, §9 "pointer safety
// modes"); in release mode Length is ignored by the emitter.
type Pointer struct {
	Elem    *Type
	Target  Value   // the pointee, interpreter-resident (checked-mode)
	Length  int
	Checked bool
}

func (p Pointer) Type() *Type {
	return &Type{FQN: fqn.New([]string{"builtins"}, "pointer").WithQualifiers(fqn.Qualifier{Key: "T", Value: p.Elem.FQN.String()}), Kind: KindPointer}
}

// Deref reads the pointee. Only meaningful in checked/interp mode, where
// the interpreter keeps the pointee reachable; release-mode code never
// runs through this path (it runs as emitted C against raw memory).
func (p Pointer) Deref() Value { return p.Target }

// Struct is a by-value aggregate. Per spec, structs are immutable at the
// value level: mutation is only possible by going through a Pointer to one.
type Struct struct {
	StructType *Type
	Values     []Value // parallel to StructType.Fields
}

func (s *Struct) Type() *Type { return s.StructType }

// Field reads a named field by value.
func (s *Struct) Field(name string) (Value, bool) {
	for i, f := range s.StructType.Fields {
		if f.Name == name {
			return s.Values[i], true
		}
	}
	return nil, false
}

// WithField returns a new Struct with name set to v, used by __setattr__
// on a pointer-to-struct target (the pointer's Target is replaced, the
// original Struct value is left untouched since structs are immutable).
func (s *Struct) WithField(name string, v Value) (*Struct, error) {
	out := &Struct{StructType: s.StructType, Values: append([]Value(nil), s.Values...)}
	for i, f := range s.StructType.Fields {
		if f.Name == name {
			out.Values[i] = v
			return out, nil
		}
	}
	return nil, fmt.Errorf("struct %s has no field %q", s.StructType.FQN, name)
}

// List is the built-in homogeneous sequence value backing the `List`
// typed-AST node. Unlike Str/Struct it is mutable through SetItem
// (spec's immutability invariant is scoped to strings and structs, §3.2).
type List struct {
	ElemType *Type
	Items    []Value
}

func (l *List) Type() *Type {
	return &Type{FQN: fqn.New([]string{"builtins"}, "list").WithQualifiers(fqn.Qualifier{Key: "T", Value: l.ElemType.FQN.String()}), Kind: KindUser}
}

// Tuple is the built-in fixed-size heterogeneous aggregate backing the
// `Tuple` typed-AST node.
type Tuple struct {
	Items []Value
}

func (t *Tuple) Type() *Type {
	return &Type{FQN: fqn.New([]string{"builtins"}, "tuple"), Kind: KindUser}
}

// Exception is raised by Raise statements and by libspy panics surfaced
// into interp mode.
type Exception struct {
	ExcType *Type
	Message string
	Payload []Value
}

func (e *Exception) Type() *Type { return e.ExcType }
