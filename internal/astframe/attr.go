package astframe

import (
	"spy/internal/ast"
	"spy/internal/diag"
	"spy/internal/libspy"
	"spy/internal/object"
	"spy/internal/oparg"
)

func (e *Evaluator) evalGetAttr(frame *Frame, n *ast.GetAttr) (EvalResult, error) {
	obj, err := e.EvalExpr(frame, n.Object)
	if err != nil {
		return EvalResult{}, err
	}
	if obj.Color != ast.Blue {
		return redResult(&ast.GetAttr{Object: AsNode(obj, n.Object.Span(), n.Object.StaticType()), Name: n.Name}), nil
	}
	switch v := obj.Value.(type) {
	case *object.Struct:
		if field, ok := v.Field(n.Name); ok {
			return blueResult(field, n.Span(), n.StaticType()), nil
		}
		// Not a field: fall back to the capability table (spec §4.1, §4.2)
		// so a ClassDef-declared method is a real, callable attribute
		// rather than only ever a TypeError.
		if bm, ok := resolveMethod(v.StructType, v, n.Name); ok {
			return blueResult(bm, n.Span(), n.StaticType()), nil
		}
		return EvalResult{}, diag.New(diag.TypeError, "no field or method "+n.Name+" on "+v.StructType.FQN.String()).
			Annotate(diag.LevelError, n.Span(), "")
	case object.Pointer:
		s, ok := v.Target.(*object.Struct)
		if !ok {
			return EvalResult{}, diag.New(diag.TypeError, "getattr through a non-struct pointer").
				Annotate(diag.LevelError, n.Span(), "")
		}
		if field, ok := s.Field(n.Name); ok {
			return blueResult(field, n.Span(), n.StaticType()), nil
		}
		if bm, ok := resolveMethod(s.StructType, v, n.Name); ok {
			return blueResult(bm, n.Span(), n.StaticType()), nil
		}
		return EvalResult{}, diag.New(diag.TypeError, "no field or method "+n.Name+" on "+s.StructType.FQN.String()).
			Annotate(diag.LevelError, n.Span(), "")
	case *object.Type:
		if member, ok := lookupTypeMember(v, n.Name); ok {
			return blueResult(member, n.Span(), n.StaticType()), nil
		}
	}
	return EvalResult{}, diag.New(diag.TypeError, "unsupported getattr target").Annotate(diag.LevelError, n.Span(), "")
}

// evalSetAttr implements attribute writes. Per spec §4.3, writing a
// struct field through a by-value struct is a static error (structs are
// immutable at the value level); only a write through a Pointer mutates
// (spec §8 scenario 6).
func (e *Evaluator) evalSetAttr(frame *Frame, target *ast.GetAttr, value ast.Expr) error {
	objResult, err := e.EvalExpr(frame, target.Object)
	if err != nil {
		return err
	}
	if objResult.Color != ast.Blue {
		return diag.New(diag.StaticError, "attribute assignment target must resolve to a pointer at compile time").
			Annotate(diag.LevelError, target.Span(), "")
	}
	valResult, err := e.EvalExpr(frame, value)
	if err != nil {
		return err
	}
	if valResult.Color != ast.Blue {
		return diag.New(diag.StaticError, "assigning a red value through a blue pointer is not supported by this evaluator").
			Annotate(diag.LevelError, value.Span(), "")
	}
	switch v := objResult.Value.(type) {
	case *object.Struct:
		return diag.New(diag.StaticError, "attribute assignment on a struct value is a static error (structs are by-value immutable); assign through a pointer instead").
			Annotate(diag.LevelError, target.Span(), "")
	case object.Pointer:
		s, ok := v.Target.(*object.Struct)
		if !ok {
			return diag.New(diag.TypeError, "setattr through a non-struct pointer").Annotate(diag.LevelError, target.Span(), "")
		}
		updated, err := s.WithField(target.Name, valResult.Value)
		if err != nil {
			return diag.New(diag.TypeError, err.Error()).Annotate(diag.LevelError, target.Span(), "")
		}
		v.Target = updated
		return frame.assignPointerBack(target.Object, v)
	default:
		_ = v
		return diag.New(diag.TypeError, "setattr target is neither a struct nor a pointer").Annotate(diag.LevelError, target.Span(), "")
	}
}

// assignPointerBack writes an updated Pointer value back to whatever
// Name slot produced it, so subsequent reads through the same variable
// observe the mutation (Pointer's Target lives in the interpreter, not in
// emitted memory, so this bookkeeping is interp-mode-only plumbing).
func (f *Frame) assignPointerBack(objExpr ast.Expr, updated object.Pointer) error {
	if name, ok := objExpr.(*ast.Name); ok {
		f.Set(name.Ident, updated)
		return nil
	}
	return nil
}

func (e *Evaluator) evalGetItem(frame *Frame, n *ast.GetItem) (EvalResult, error) {
	obj, err := e.EvalExpr(frame, n.Object)
	if err != nil {
		return EvalResult{}, err
	}
	idx, err := e.EvalExpr(frame, n.Index)
	if err != nil {
		return EvalResult{}, err
	}
	if obj.Color != ast.Blue || idx.Color != ast.Blue {
		return redResult(&ast.GetItem{
			Object: AsNode(obj, n.Object.Span(), n.Object.StaticType()),
			Index:  AsNode(idx, n.Index.Span(), n.Index.StaticType()),
		}), nil
	}
	switch v := obj.Value.(type) {
	case *object.List:
		i, ok := idx.Value.(object.I32)
		if !ok {
			return EvalResult{}, diag.New(diag.TypeError, "index must be i32").Annotate(diag.LevelError, n.Index.Span(), "")
		}
		j := int(i.V)
		if j < 0 {
			j += len(v.Items)
		}
		if j < 0 || j >= len(v.Items) {
			return EvalResult{}, diag.New(diag.IndexError, "list index out of bounds").Annotate(diag.LevelError, n.Span(), "")
		}
		return blueResult(v.Items[j], n.Span(), n.StaticType()), nil
	case object.Str:
		i, ok := idx.Value.(object.I32)
		if !ok {
			return EvalResult{}, diag.New(diag.TypeError, "index must be i32").Annotate(diag.LevelError, n.Index.Span(), "")
		}
		s, err := libspy.StrGetItem(v.V, int(i.V))
		if err != nil {
			return EvalResult{}, diag.New(diag.IndexError, err.Error()).Annotate(diag.LevelError, n.Span(), "")
		}
		return blueResult(object.Str{V: s}, n.Span(), object.StrType), nil
	}
	// Not a builtin list/string subscript: fall back to the capability
	// table's __getitem__ (spec §4.2), the same metaprotocol arithmetic
	// dispatch uses, so a ClassDef-declared subscript operator is real,
	// callable dispatch rather than a TypeError no matter what.
	args := []oparg.OpArg{
		opArgOf(obj, n.Object.StaticType(), n.Object.Span()),
		opArgOf(idx, n.Index.StaticType(), n.Index.Span()),
	}
	impl, cErr := resolveUserOp(object.CapGetItem, args)
	if cErr == nil && impl != nil && impl.Fn != nil {
		v, err := e.Host.CallFunction(frame, impl.Fn, []object.Value{obj.Value, idx.Value})
		if err != nil {
			return EvalResult{}, err
		}
		return blueResult(v, n.Span(), n.StaticType()), nil
	}
	return EvalResult{}, diag.New(diag.TypeError, "unsupported getitem target").Annotate(diag.LevelError, n.Span(), "")
}

// evalSetItem implements index assignment (`xs[i] = v`). Unlike a struct
// field, List is mutable in place (spec §3.2's immutability invariant is
// scoped to strings and structs), so this only needs a blue object and a
// blue index; the written value itself may be red only in interp mode
// where List.Items already holds arbitrary W-objects — in Redshift mode a
// red value assigned into a blue-known list would desynchronize the
// residual program from the folded list, so it is rejected the same way
// evalSetAttr rejects a red value through a blue pointer.
func (e *Evaluator) evalSetItem(frame *Frame, target *ast.GetItem, value ast.Expr) error {
	objResult, err := e.EvalExpr(frame, target.Object)
	if err != nil {
		return err
	}
	idxResult, err := e.EvalExpr(frame, target.Index)
	if err != nil {
		return err
	}
	if objResult.Color != ast.Blue || idxResult.Color != ast.Blue {
		return diag.New(diag.StaticError, "index-assignment target must resolve to a known list and index at compile time").
			Annotate(diag.LevelError, target.Span(), "")
	}
	valResult, err := e.EvalExpr(frame, value)
	if err != nil {
		return err
	}
	if valResult.Color != ast.Blue && frame.Mode == Redshift {
		return diag.New(diag.StaticError, "assigning a red value into a blue list is not supported by this evaluator").
			Annotate(diag.LevelError, value.Span(), "")
	}
	list, ok := objResult.Value.(*object.List)
	if !ok {
		return diag.New(diag.TypeError, "setitem target is not a list").Annotate(diag.LevelError, target.Span(), "")
	}
	i, ok := idxResult.Value.(object.I32)
	if !ok {
		return diag.New(diag.TypeError, "index must be i32").Annotate(diag.LevelError, target.Index.Span(), "")
	}
	idx := int(i.V)
	if idx < 0 {
		idx += len(list.Items)
	}
	if idx < 0 || idx >= len(list.Items) {
		return diag.New(diag.IndexError, "list index out of bounds").Annotate(diag.LevelError, target.Span(), "")
	}
	list.Items[idx] = valResult.Value
	return nil
}

func lookupTypeMember(t *object.Type, name string) (object.Value, bool) {
	if t.Caps == nil {
		return nil, false
	}
	if f, ok := t.Caps.Plain(capFromName(name)); ok {
		if fn, ok := f.(object.Value); ok {
			return fn, true
		}
	}
	return nil, false
}

func capFromName(name string) object.CapName { return object.CapName(name) }
