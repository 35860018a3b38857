package vm

import (
	"spy/internal/ast"
	"spy/internal/astframe"
	"spy/internal/diag"
	"spy/internal/diagstream"
	"spy/internal/funcval"
)

// Doppler drives the redshift state machine (spec §4.3): for each ordinary
// (non-blue) function reached from a red call site, it walks the typed
// body once under a Redshift-mode frame and produces a residual FuncDef
// whose every statement satisfies the five redshift invariants (spec
// §4.5). Resolution is memoized per FQN on the Function itself
// (Unresolved -> Resolving -> Redshifted), so a function reachable from
// many red call sites is redshifted exactly once.
type Doppler struct {
	vm *VM
}

func NewDoppler(vm *VM) *Doppler {
	return &Doppler{vm: vm}
}

// Resolve returns fn's residual body, redshifting it on first request.
// Every parameter of a redshifted function is treated as red regardless
// of call site — blue.generic instantiation already collapsed any
// compile-time-known argument into a distinct monomorphic FQN before a
// call site ever reaches here (spec §4.4), so by the time Resolve runs,
// "red at every call site" is exactly the invariant doppler can rely on.
func (d *Doppler) Resolve(fn *funcval.Function) (*ast.FuncDef, error) {
	if residual, ok := fn.Residual(); ok {
		return residual, nil
	}
	if err := fn.BeginResolving(); err != nil {
		return nil, diag.New(diag.StaticError, err.Error()).
			Wrap(err).
			PushFrame(diag.Frame{FuncName: fn.FQN.String(), Span: fn.Def.Span()})
	}
	d.vm.emit(diagstream.Event{Kind: diagstream.EventResolving, Subject: fn.FQN.String()})

	frame := astframe.NewRedshiftFrame(fn.FQN.String(), nil, fn.Def)
	for _, p := range fn.Def.Params {
		frame.Locals[p.Name] = residualParamMarker(p)
	}

	eval := astframe.New(d.vm, fn.FQN.Module)
	result, err := eval.EvalBlock(frame, fn.Def.Body)
	if err != nil {
		if de, ok := err.(*diag.Error); ok {
			de.PushFrame(diag.Frame{FuncName: fn.FQN.String(), Span: fn.Def.Span()})
		}
		return nil, err
	}

	body := frame.Builder.Stmts()
	if result.Signal == astframe.SigReturn {
		body = append(body, &ast.Return{Value: result.ReturnNode})
	}

	residual := &ast.FuncDef{
		Name:       fn.FQN.String(),
		Params:     fn.Def.Params,
		ReturnType: fn.Def.ReturnType,
		Body:       body,
	}
	fn.FinishResolving(residual)
	d.vm.emit(diagstream.Event{Kind: diagstream.EventRedshifted, Subject: fn.FQN.String(), Detail: residual.Name})
	return residual, nil
}

// residualParamMarker wraps a parameter in the same redMarker-shaped
// protocol astframe uses for red locals, so reading a parameter by name
// inside the body re-embeds a Name node carrying the parameter's own
// identity rather than any concrete value.
func residualParamMarker(p ast.Param) astframe.RedMarker {
	return astframe.NewRedMarker(&ast.Name{Ident: p.Name})
}
