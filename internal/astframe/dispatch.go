package astframe

import (
	"spy/internal/ast"
	"spy/internal/diag"
	"spy/internal/funcval"
	"spy/internal/object"
	"spy/internal/oparg"
)

// BoundMethod is a method value closed over its receiver, produced by
// attribute access on a struct (or pointer-to-struct) whose type declares
// the method in its capability table (spec §4.1). It only ever appears as
// a Blue EvalResult's Value: the language has no way to spell a bound
// method as a literal, so it can't leak into a residual program.
type BoundMethod struct {
	Fn   *funcval.Function
	Self object.Value
}

func (BoundMethod) Type() *object.Type { return nil }

// lookupMeta adapts a type's capability table to oparg.Resolve's lookup
// signature (spec §4.2). An explicit metafunction is returned as-is; a
// plain implementation is wrapped into one that always resolves to the
// same OpImpl, matching Capabilities.Meta's auto-wrap contract.
func lookupMeta(t *object.Type, name object.CapName) (oparg.MetaFunc, bool) {
	if t == nil || t.Caps == nil {
		return nil, false
	}
	raw, wrapped, ok := t.Caps.Meta(name)
	if !ok {
		return nil, false
	}
	if !wrapped {
		mf, isMeta := raw.(oparg.MetaFunc)
		return mf, isMeta
	}
	fn, isFn := raw.(*funcval.Function)
	if !isFn {
		return nil, false
	}
	impl := &oparg.OpImpl{FQN: fn.FQN.String(), Fn: fn}
	return func([]oparg.OpArg) (*oparg.OpImpl, error) { return impl, nil }, true
}

// opArgOf builds the call-site descriptor oparg.Resolve needs from one
// already-evaluated operand.
func opArgOf(r EvalResult, typ *object.Type, span ast.Span) oparg.OpArg {
	a := oparg.OpArg{Color: r.Color, StaticType: typ, Span: span}
	if r.Color == ast.Blue {
		a.BlueValue = r.Value
	}
	return a
}

// resolveUserOp runs the capability-table metaprotocol (spec §4.2) for a
// non-builtin operand type: the fallback every hard-coded builtin fast
// path (binop.go, attr.go) reaches for once it declines.
func resolveUserOp(cap object.CapName, args []oparg.OpArg) (*oparg.OpImpl, error) {
	return oparg.Resolve(cap, args, lookupMeta)
}

// resolveMethod looks up name as an instance method on t via the
// capability table, binding self into the result. Used by evalGetAttr's
// struct/pointer cases once plain field lookup misses.
func resolveMethod(t *object.Type, self object.Value, name string) (BoundMethod, bool) {
	args := []oparg.OpArg{{Color: ast.Blue, StaticType: t, BlueValue: self}}
	impl, err := resolveUserOp(object.CapName(name), args)
	if err != nil || impl == nil || impl.Fn == nil {
		return BoundMethod{}, false
	}
	return BoundMethod{Fn: impl.Fn, Self: self}, true
}

var binOpCaps = map[string]object.CapName{
	"+":  object.CapAdd,
	"-":  object.CapSub,
	"*":  object.CapMul,
	"/":  object.CapTrueDiv,
	"//": object.CapFloorDiv,
	"%":  object.CapMod,
}

var compareOpCaps = map[string]object.CapName{
	"==": object.CapEq,
	"!=": object.CapNe,
	"<":  object.CapLt,
	"<=": object.CapLe,
	">":  object.CapGt,
	">=": object.CapGe,
}

// resolveArithOrCapability tries the hard-coded builtin fast path first
// (resolveArithFQN), falling back to the capability table whenever the
// fast path has no entry for the operand type pair. implFn is non-nil only for a
// capability match, letting the caller invoke it immediately when both
// operands are already blue instead of forcing a residual node.
func (e *Evaluator) resolveArithOrCapability(op string, lt, rt *object.Type, args []oparg.OpArg, span ast.Span) (string, *funcval.Function, error) {
	fqnStr, err := resolveArithFQN(op, lt, rt)
	if err == nil {
		return fqnStr, nil, nil
	}
	cap, known := binOpCaps[op]
	if !known {
		return "", nil, noCandidateDiag(err, span)
	}
	impl, cErr := resolveUserOp(cap, args)
	if cErr != nil {
		return "", nil, noCandidateDiag(err, span)
	}
	return impl.FQN, impl.Fn, nil
}

func (e *Evaluator) resolveCompareOrCapability(op string, lt, rt *object.Type, args []oparg.OpArg, span ast.Span) (string, *funcval.Function, error) {
	fqnStr, err := resolveCompareFQN(op, lt, rt)
	if err == nil {
		return fqnStr, nil, nil
	}
	cap, known := compareOpCaps[op]
	if !known {
		return "", nil, noCandidateDiag(err, span)
	}
	impl, cErr := resolveUserOp(cap, args)
	if cErr != nil {
		return "", nil, noCandidateDiag(err, span)
	}
	return impl.FQN, impl.Fn, nil
}

func noCandidateDiag(err error, span ast.Span) error {
	if nce, ok := err.(*oparg.NoCandidateError); ok {
		return nce.ToDiag(span)
	}
	return diag.New(diag.TypeError, err.Error()).Annotate(diag.LevelError, span, "")
}
