package astframe

import (
	"spy/internal/ast"
	"spy/internal/fqn"
	"spy/internal/funcval"
	"spy/internal/object"
)

// Host is the set of VM-level services the Evaluator needs but does not
// own itself: the global registry, printing, and the call dispatcher for
// invoking a resolved function value. internal/vm implements Host; this
// interface exists so astframe never imports vm (vm is the one that
// wires everything together, the dependency only goes one way).
type Host interface {
	// LookupGlobal resolves a global by FQN (module constants, functions,
	// types registered at module init).
	LookupGlobal(name fqn.FQN) (object.Value, bool)

	// Print implements the print_<T> libspy entry points: write one
	// value's string form followed by a newline.
	Print(v object.Value)

	// CallFunction invokes fn with already-evaluated (blue) argument
	// values, running its body in a fresh Interp-mode frame whatever the
	// caller's Mode.
	CallFunction(caller *Frame, fn *funcval.Function, args []object.Value) (object.Value, error)

	// GenericCache exposes the shared memoization table blue.generic
	// functions use (spec §4.4).
	GenericCache() *funcval.GenericCache

	// Redshift requests the residual body for fn, running doppler's
	// state machine (Unresolved -> Resolving -> Redshifted) if needed.
	// Used when a red call site's callee turns out to need its own body
	// redshifted on demand.
	Redshift(fn *funcval.Function) (*ast.FuncDef, error)
}
