package vm

import (
	"spy/internal/fqn"
	"spy/internal/object"
)

// registerBuiltinTypes installs the primitive types and the handful of
// built-in exception types every module can raise without declaring them
// (spec §7), under the "builtins" module path. Primitive value types
// themselves (object.BoolType etc.) are process-wide singletons created by
// package object's init; this only adds the registry entries so a bare
// name like `ZeroDivisionError` resolves through the same LookupGlobal
// path as any user-defined global.
func registerBuiltinTypes(vm *VM) {
	for _, t := range []*object.Type{object.BoolType, object.I8Type, object.I32Type, object.F64Type, object.StrType} {
		vm.Registry.Define(t.FQN, t)
	}

	zeroDiv := object.NewExceptionType(fqn.New([]string{"builtins"}, "ZeroDivisionError"))
	vm.Registry.Define(zeroDiv.FQN, zeroDiv)
	indexErr := object.NewExceptionType(fqn.New([]string{"builtins"}, "IndexError"))
	vm.Registry.Define(indexErr.FQN, indexErr)
	typeErr := object.NewExceptionType(fqn.New([]string{"builtins"}, "TypeError"))
	vm.Registry.Define(typeErr.FQN, typeErr)
}
