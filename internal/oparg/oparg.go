// Package oparg implements the operator metaprotocol: OpArg call-site
// descriptors, OpImpl resolved calls, and the dispatch algorithm that
// ties a type's capability table to a concrete implementation (spec
// §4.2).
package oparg

import (
	"spy/internal/ast"
	"spy/internal/diag"
	"spy/internal/funcval"
	"spy/internal/object"
)

// OpArg describes one call-site argument to an operator dispatch.
type OpArg struct {
	Color      ast.Color
	StaticType *object.Type
	BlueValue  object.Value // only meaningful when Color == ast.Blue
	Span       ast.Span
}

// Converter names a function that adapts an argument's value/node to
// what the resolved implementation expects (e.g. widening i8 -> i32). An
// OpImpl can carry Converters, but the evaluator does not apply them: it
// neither calls them in interp mode nor emits wrapper calls in redshift
// mode.
type Converter struct {
	FQN string
	For *object.Type // the declared parameter type requiring conversion
}

// OpImpl is a resolved operator call: which function to invoke, in what
// argument order, with which per-argument converters. A nil *OpImpl
// (returned by a metafunction) means "I don't handle this, try the next
// candidate" (spec §4.2).
type OpImpl struct {
	FQN        string // FQN string of the function to invoke
	Reorder    []int  // permutation applied to the argument vector, identity if nil
	Converters map[int]Converter
	// Fn is set when the resolved implementation is a user-defined method
	// (a ClassDef capability rather than a libspy builtin), letting the
	// caller invoke it directly instead of going through a registry
	// lookup by FQN.
	Fn *funcval.Function
}

// Candidate is one type's metafunction for a capability, used by Resolve
// to walk the tie-break order (left before right, exact match before
// lifted/base).
type Candidate struct {
	Type     *object.Type
	Reflected bool // true if this is the right-operand's reflected metafunction
}

// MetaFunc is the signature every metafunction must have once resolved
// from a type's capability table: given the call-site OpArgs, decide the
// OpImpl (or decline with nil). It is blue: it never touches a red value
// except to read its static type.
type MetaFunc func(args []OpArg) (*OpImpl, error)

// Resolve runs the dispatch algorithm for capability name over args
// (left operand's type first, right operand's reflected capability
// second, in that tie-break order), per spec §4.2 steps 1-4.
func Resolve(name object.CapName, args []OpArg, lookup func(t *object.Type, name object.CapName) (MetaFunc, bool)) (*OpImpl, error) {
	if len(args) == 0 {
		return nil, &NoCandidateError{Capability: name}
	}
	left := args[0]
	if meta, ok := lookup(left.StaticType, name); ok {
		impl, err := meta(args)
		if err != nil {
			return nil, err
		}
		if impl != nil {
			return impl, nil
		}
	}
	if len(args) >= 2 {
		if rname, hasRefl := object.Reflected(name); hasRefl {
			right := args[1]
			if meta, ok := lookup(right.StaticType, rname); ok {
				impl, err := meta(args)
				if err != nil {
					return nil, err
				}
				if impl != nil {
					return impl, nil
				}
			}
		}
	}
	types := make([]*object.Type, len(args))
	for i, a := range args {
		types[i] = a.StaticType
	}
	return nil, &NoCandidateError{Capability: name, Types: types}
}

// NoCandidateError is the static TypeError raised at step 4 of dispatch
// when no metafunction on either operand claims the operation.
type NoCandidateError struct {
	Capability object.CapName
	Types      []*object.Type
}

func (e *NoCandidateError) Error() string {
	msg := "no operator " + string(e.Capability) + " for types"
	for i, t := range e.Types {
		if i > 0 {
			msg += ","
		}
		msg += " " + t.FQN.Symbol
	}
	if len(e.Types) == 0 {
		msg += " <none>"
	}
	return msg
}

// ToDiag renders the dispatch failure as a source-anchored *diag.Error,
// noting how many candidate capability slots were actually checked (left
// operand, plus the reflected right-operand slot when the capability has
// one) via go-humanize so the count reads naturally.
func (e *NoCandidateError) ToDiag(span ast.Span) *diag.Error {
	checked := 1
	if _, hasReflected := object.Reflected(e.Capability); hasReflected && len(e.Types) >= 2 {
		checked = 2
	}
	return diag.New(diag.TypeError, e.Error()).
		WithCandidateCount(checked).
		Annotate(diag.LevelError, span, "")
}
