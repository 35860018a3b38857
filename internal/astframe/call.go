package astframe

import (
	"fmt"

	"spy/internal/ast"
	"spy/internal/diag"
	"spy/internal/fqn"
	"spy/internal/funcval"
	"spy/internal/object"
)

func (e *Evaluator) evalCall(frame *Frame, n *ast.Call) (EvalResult, error) {
	if name, ok := n.Callee.(*ast.Name); ok && name.Ident == "print" {
		return e.evalPrint(frame, n)
	}

	calleeResult, err := e.EvalExpr(frame, n.Callee)
	if err != nil {
		return EvalResult{}, err
	}

	argVals := make([]object.Value, len(n.Args))
	argNodes := make([]ast.Expr, len(n.Args))
	argColors := make([]ast.Color, len(n.Args))
	for i, a := range n.Args {
		r, err := e.EvalExpr(frame, a)
		if err != nil {
			return EvalResult{}, err
		}
		argColors[i] = r.Color
		if r.Color == ast.Blue {
			argVals[i] = r.Value
		}
		argNodes[i] = AsNode(r, a.Span(), a.StaticType())
	}

	if calleeResult.Color != ast.Blue {
		// A red callee (an indirect function value only known at run
		// time) cannot be resolved to a concrete FQN; this would require
		// a vtable the language's capability model deliberately omits.
		return EvalResult{}, diag.New(diag.StaticError, "indirect call through a red function value is not supported").
			Annotate(diag.LevelError, n.Callee.Span(), "")
	}

	fn, ok := calleeResult.Value.(*funcval.Function)
	if !ok {
		if bm, isBound := calleeResult.Value.(BoundMethod); isBound {
			// A method fetched off an instance (spec §4.1): the receiver
			// becomes an implicit leading argument, exactly as if the
			// call had been written ClassName.method(self, ...).
			fn = bm.Fn
			selfNode := &constNode{sp: n.Callee.Span(), typ: bm.Self.Type(), value: bm.Self}
			argVals = append([]object.Value{bm.Self}, argVals...)
			argNodes = append([]ast.Expr{selfNode}, argNodes...)
			argColors = append([]ast.Color{ast.Blue}, argColors...)
		}
	}
	if fn == nil {
		return EvalResult{}, diag.New(diag.TypeError, "callee is not a function value").
			Annotate(diag.LevelError, n.Callee.Span(), "")
	}

	if fn.Def.IsBlue {
		return e.evalBlueCall(frame, n, fn, argVals, argColors)
	}

	if frame.Mode == Interp {
		result, err := e.Host.CallFunction(frame, fn, argVals)
		if err != nil {
			return EvalResult{}, err
		}
		return blueResult(result, n.Span(), n.StaticType()), nil
	}

	// Redshift mode, ordinary (red) function: ensure its body has been
	// redshifted (memoized per FQN, spec §5) and emit a residual call to
	// the resolved target.
	if _, err := e.Host.Redshift(fn); err != nil {
		return EvalResult{}, err
	}
	return redResult(&ast.Call{Callee: n.Callee, Args: argNodes, Target: fn.FQN.String()}), nil
}

// evalBlueCall runs a `blue`/`blue.generic` function entirely at compile
// time, memoizing blue.generic instantiations by the tuple of argument
// FQNs (spec §4.4).
func (e *Evaluator) evalBlueCall(frame *Frame, n *ast.Call, fn *funcval.Function, argVals []object.Value, argColors []ast.Color) (EvalResult, error) {
	for i, c := range argColors {
		if c != ast.Blue {
			return EvalResult{}, diag.New(diag.StaticError, fmt.Sprintf("argument %d to blue function %s must be blue", i, fn.FQN)).
				Annotate(diag.LevelError, n.Args[i].Span(), "")
		}
	}

	if !fn.Def.IsGeneric {
		result, err := e.callBlueBody(frame, fn, argVals)
		if err != nil {
			return EvalResult{}, err
		}
		return blueResult(result, n.Span(), n.StaticType()), nil
	}

	argFQNs := make([]fqn.FQN, len(argVals))
	for i, v := range argVals {
		argFQNs[i] = fqnOfBlueArg(v)
	}
	key := funcval.Key(fn.FQN, argFQNs)
	result, err := e.Host.GenericCache().GetOrCompute(key, func() (object.Value, error) {
		return e.callBlueBody(frame, fn, argVals)
	})
	if err != nil {
		return EvalResult{}, err
	}
	return blueResult(result, n.Span(), n.StaticType()), nil
}

func (e *Evaluator) callBlueBody(frame *Frame, fn *funcval.Function, argVals []object.Value) (object.Value, error) {
	if err := fn.BeginResolving(); err != nil {
		return nil, diag.New(diag.StaticError, err.Error()).
			Wrap(err).
			PushFrame(diag.Frame{FuncName: fn.FQN.String(), Span: fn.Def.Span()})
	}
	result, err := e.Host.CallFunction(frame, fn, argVals)
	fn.FinishResolving(fn.Def)
	return result, err
}

// fqnOfBlueArg derives a cache-key FQN for a blue argument: a *Type
// argument contributes its own FQN (the common case, `blue.generic
// make_fn(T)`); any other blue value contributes a synthesized FQN keyed
// on its printed form, which is stable because generic memoization only
// ever needs to distinguish values, not interpret them.
func fqnOfBlueArg(v object.Value) fqn.FQN {
	if t, ok := v.(*object.Type); ok {
		return t.FQN
	}
	return fqn.New([]string{"literal"}, fmt.Sprintf("%v", v))
}

func (e *Evaluator) evalPrint(frame *Frame, n *ast.Call) (EvalResult, error) {
	if len(n.Args) != 1 {
		return EvalResult{}, diag.New(diag.StaticError, "print takes exactly one argument").
			Annotate(diag.LevelError, n.Span(), "")
	}
	arg, err := e.EvalExpr(frame, n.Args[0])
	if err != nil {
		return EvalResult{}, err
	}
	if arg.Color == ast.Blue {
		if frame.Mode == Interp {
			e.Host.Print(arg.Value)
			return blueResult(nil, n.Span(), n.StaticType()), nil
		}
		// Redshift mode: printing is a side effect and must survive into
		// the residual program even though the argument folded to a
		// constant (spec §8 scenario 1: "redshifted form is one call
		// node to builtins::print_str").
	}
	target := printTargetFQN(n.Args[0].StaticType())
	return redResult(&ast.Call{
		Callee: n.Callee,
		Args:   []ast.Expr{AsNode(arg, n.Args[0].Span(), n.Args[0].StaticType())},
		Target: target,
	}), nil
}

func printTargetFQN(t *object.Type) string {
	switch t {
	case object.StrType:
		return "builtins::print_str"
	case object.I32Type:
		return "builtins::print_i32"
	case object.F64Type:
		return "builtins::print_f64"
	case object.BoolType:
		return "builtins::print_bool"
	default:
		return "builtins::print_" + t.FQN.Symbol
	}
}
