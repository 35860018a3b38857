package object

import "spy/internal/fqn"

// Builtin primitive types. These are created once at VM start and cached
// by FQN like any other type (spec §3.7 "types are created at module init
// and cached by FQN").
var (
	BoolType = newPrimitive("bool", KindBool, 1)
	I8Type   = newPrimitive("i8", KindI8, 1)
	I32Type  = newPrimitive("i32", KindI32, 4)
	F64Type  = newPrimitive("f64", KindF64, 8)
	StrType  = newPrimitive("str", KindStr, 16) // header: {len, data ptr}
)

func newPrimitive(name string, kind Kind, size int) *Type {
	return &Type{
		FQN:      fqn.New([]string{"builtins"}, name),
		Kind:     kind,
		SizeHint: size,
		Caps:     NewCapabilities(),
	}
}

// NewStructType declares a new struct type with the given fields, laid
// out in order, each field starting where the previous field's SizeHint
// ends; no alignment padding is inserted. Field order is preserved
// exactly as given: SPy structs are plain aggregates, not sorted for
// packing, mirroring the "inline-stored named fields" invariant in spec
// §3.2.
func NewStructType(name fqn.FQN, fields []Field) *Type {
	t := &Type{FQN: name, Kind: KindStruct, Caps: NewCapabilities()}
	offset := 0
	laid := make([]Field, len(fields))
	for i, f := range fields {
		laid[i] = Field{Name: f.Name, Type: f.Type, Offset: offset}
		offset += f.Type.SizeHint
		if offset == 0 {
			offset = 8 // never let an empty-field type collapse the layout
		}
	}
	t.Fields = laid
	t.SizeHint = offset
	return t
}

// NewExceptionType declares a built-in or user exception kind. Per spec
// §4.3, comparing two exception values of different ExcType is always
// false, never an error; that default __eq__ is installed here so every
// exception type gets it without each call site re-deriving it.
func NewExceptionType(name fqn.FQN) *Type {
	t := &Type{FQN: name, Kind: KindException, Caps: NewCapabilities()}
	t.Caps.SetPlain(CapEq, func(a, b *Exception) bool {
		return a.ExcType.FQN.Equal(b.ExcType.FQN) && a.Message == b.Message
	})
	return t
}

// FunctionType describes the static type of a function value: ordered
// parameter types, return type, and whether it is a blue function (spec
// §4.4). It is itself a *Type of KindFunction so it can flow through the
// same value/type machinery as everything else.
type FunctionType struct {
	*Type
	Params  []*Type
	Result  *Type
	Blue    bool
	Generic bool
}

func NewFunctionType(name fqn.FQN, params []*Type, result *Type, blue, generic bool) *FunctionType {
	base := &Type{FQN: name, Kind: KindFunction, Caps: NewCapabilities()}
	return &FunctionType{Type: base, Params: params, Result: result, Blue: blue, Generic: generic}
}
