package astframe

import (
	"spy/internal/ast"
	"spy/internal/libspy"
	"spy/internal/object"
	"spy/internal/oparg"
)

// evalBinOp implements arithmetic dispatch (spec §4.2, §4.5 invariant
// iii): built-in numeric/string operand pairs resolve directly to a
// concrete libspy/operator FQN; anything else goes through the
// capability-table metaprotocol in oparg.Resolve.
func (e *Evaluator) evalBinOp(frame *Frame, n *ast.BinOp) (EvalResult, error) {
	left, err := e.EvalExpr(frame, n.Left)
	if err != nil {
		return EvalResult{}, err
	}
	right, err := e.EvalExpr(frame, n.Right)
	if err != nil {
		return EvalResult{}, err
	}

	bothBlue := left.Color == ast.Blue && right.Color == ast.Blue
	if bothBlue {
		v, _, err := foldBinOp(n.Op, left.Value, right.Value, n.Span())
		if err != nil {
			return EvalResult{}, err
		}
		if v != nil {
			// Both operands known at compile time: fold regardless of
			// mode. In Redshift mode this is precisely what keeps a
			// fully-blue subexpression from appearing in the residual
			// program at all.
			return blueResult(v, n.Span(), n.StaticType()), nil
		}
	}

	// Not a builtin numeric/string pair (or at least one operand is red):
	// resolve which concrete operator FQN this node calls, trying the
	// builtin fast path first and falling back to the capability-table
	// metaprotocol for a user-defined operand type (spec §4.2, §4.5
	// invariant iii).
	args := []oparg.OpArg{
		opArgOf(left, n.Left.StaticType(), n.Left.Span()),
		opArgOf(right, n.Right.StaticType(), n.Right.Span()),
	}
	resolvedFQN, implFn, err := e.resolveArithOrCapability(n.Op, n.Left.StaticType(), n.Right.StaticType(), args, n.Span())
	if err != nil {
		return EvalResult{}, err
	}
	if bothBlue && implFn != nil {
		// A user-defined capability claimed the operator and both
		// operands are blue: invoke it now instead of forcing a
		// spurious residual node for a fully compile-time-known value.
		v, err := e.Host.CallFunction(frame, implFn, []object.Value{left.Value, right.Value})
		if err != nil {
			return EvalResult{}, err
		}
		return blueResult(v, n.Span(), n.StaticType()), nil
	}
	residual := &ast.BinOp{
		Op:          n.Op,
		Left:        AsNode(left, n.Left.Span(), n.Left.StaticType()),
		Right:       AsNode(right, n.Right.Span(), n.Right.StaticType()),
		ResolvedFQN: resolvedFQN,
	}
	return redResult(residual), nil
}

func (e *Evaluator) evalUnaryOp(frame *Frame, n *ast.UnaryOp) (EvalResult, error) {
	operand, err := e.EvalExpr(frame, n.Operand)
	if err != nil {
		return EvalResult{}, err
	}
	if operand.Color == ast.Blue && n.Op == "-" {
		switch v := operand.Value.(type) {
		case object.I32:
			return blueResult(object.I32{V: libspy.I32Neg(v.V)}, n.Span(), n.StaticType()), nil
		case object.F64:
			return blueResult(object.F64{V: libspy.F64Neg(v.V)}, n.Span(), n.StaticType()), nil
		case object.I8:
			return blueResult(object.I8{V: libspy.I8Neg(v.V)}, n.Span(), n.StaticType()), nil
		}
	}
	fqnName := libspy.FQNI32Neg
	switch n.StaticType() {
	case object.F64Type:
		fqnName = libspy.FQNF64Neg
	case object.I8Type:
		fqnName = libspy.FQNI8Neg
	}
	return redResult(&ast.UnaryOp{Op: n.Op, Operand: AsNode(operand, n.Operand.Span(), n.Operand.StaticType()), ResolvedFQN: fqnName}), nil
}

func (e *Evaluator) evalCompare(frame *Frame, n *ast.Compare) (EvalResult, error) {
	left, err := e.EvalExpr(frame, n.Left)
	if err != nil {
		return EvalResult{}, err
	}
	right, err := e.EvalExpr(frame, n.Right)
	if err != nil {
		return EvalResult{}, err
	}
	bothBlue := left.Color == ast.Blue && right.Color == ast.Blue
	if bothBlue {
		v, ok := foldCompare(n.Op, left.Value, right.Value)
		if ok {
			return blueResult(object.Bool{V: v}, n.Span(), object.BoolType), nil
		}
	}
	args := []oparg.OpArg{
		opArgOf(left, n.Left.StaticType(), n.Left.Span()),
		opArgOf(right, n.Right.StaticType(), n.Right.Span()),
	}
	resolvedFQN, implFn, err := e.resolveCompareOrCapability(n.Op, n.Left.StaticType(), n.Right.StaticType(), args, n.Span())
	if err != nil {
		return EvalResult{}, err
	}
	if bothBlue && implFn != nil {
		v, err := e.Host.CallFunction(frame, implFn, []object.Value{left.Value, right.Value})
		if err != nil {
			return EvalResult{}, err
		}
		return blueResult(v, n.Span(), object.BoolType), nil
	}
	return redResult(&ast.Compare{
		Op:          n.Op,
		Left:        AsNode(left, n.Left.Span(), n.Left.StaticType()),
		Right:       AsNode(right, n.Right.Span(), n.Right.StaticType()),
		ResolvedFQN: resolvedFQN,
	}), nil
}

// foldBinOp folds two blue operands eagerly (only reached when both are
// blue, i.e. always during blue evaluation and possibly during interp
// mode). Returns nil, "", nil when the pair isn't a built-in numeric/
// string combination, signaling the caller to fall back to capability
// dispatch (resolveArithOrCapability).
func foldBinOp(op string, l, r object.Value, span ast.Span) (object.Value, string, error) {
	switch a := l.(type) {
	case object.I32:
		b, ok := r.(object.I32)
		if !ok {
			return nil, "", nil
		}
		switch op {
		case "+":
			return object.I32{V: libspy.I32Add(a.V, b.V)}, libspy.FQNI32Add, nil
		case "-":
			return object.I32{V: libspy.I32Sub(a.V, b.V)}, libspy.FQNI32Sub, nil
		case "*":
			return object.I32{V: libspy.I32Mul(a.V, b.V)}, libspy.FQNI32Mul, nil
		case "/":
			v, err := libspy.I32Div(a.V, b.V)
			if err != nil {
				return nil, "", panicErr(span, err)
			}
			return object.F64{V: v}, libspy.FQNOpIDiv, nil
		case "//":
			v, err := libspy.I32FloorDiv(a.V, b.V)
			if err != nil {
				return nil, "", panicErr(span, err)
			}
			return object.I32{V: v}, libspy.FQNOpIFloorDiv, nil
		case "%":
			v, err := libspy.I32Mod(a.V, b.V)
			if err != nil {
				return nil, "", panicErr(span, err)
			}
			return object.I32{V: v}, libspy.FQNOpIMod, nil
		}
	case object.F64:
		b, ok := r.(object.F64)
		if !ok {
			return nil, "", nil
		}
		switch op {
		case "+":
			return object.F64{V: libspy.F64Add(a.V, b.V)}, libspy.FQNF64Add, nil
		case "-":
			return object.F64{V: libspy.F64Sub(a.V, b.V)}, libspy.FQNF64Sub, nil
		case "*":
			return object.F64{V: libspy.F64Mul(a.V, b.V)}, libspy.FQNF64Mul, nil
		case "/":
			v, err := libspy.F64Div(a.V, b.V)
			if err != nil {
				return nil, "", panicErr(span, err)
			}
			return object.F64{V: v}, libspy.FQNOpF64Div, nil
		case "//":
			v, err := libspy.F64FloorDiv(a.V, b.V)
			if err != nil {
				return nil, "", panicErr(span, err)
			}
			return object.F64{V: v}, libspy.FQNOpF64FloorDiv, nil
		case "%":
			v, err := libspy.F64Mod(a.V, b.V)
			if err != nil {
				return nil, "", panicErr(span, err)
			}
			return object.F64{V: v}, libspy.FQNOpF64Mod, nil
		}
	case object.Str:
		switch op {
		case "+":
			b, ok := r.(object.Str)
			if !ok {
				return nil, "", nil
			}
			return object.Str{V: libspy.StrAdd(a.V, b.V)}, libspy.FQNStrAdd, nil
		case "*":
			b, ok := r.(object.I32)
			if !ok {
				return nil, "", nil
			}
			return object.Str{V: libspy.StrMul(a.V, int(b.V))}, libspy.FQNStrMul, nil
		}
	case object.I8:
		b, ok := r.(object.I8)
		if !ok {
			return nil, "", nil
		}
		switch op {
		case "+":
			return object.I8{V: libspy.I8Add(a.V, b.V)}, libspy.FQNI8Add, nil
		case "-":
			return object.I8{V: libspy.I8Sub(a.V, b.V)}, libspy.FQNI8Sub, nil
		case "*":
			return object.I8{V: libspy.I8Mul(a.V, b.V)}, libspy.FQNI8Mul, nil
		}
	}
	return nil, "", nil
}

func foldCompare(op string, l, r object.Value) (bool, bool) {
	// Comparison between different exception types is always false, never
	// an error (spec §4.3).
	if le, ok := l.(*object.Exception); ok {
		re, ok2 := r.(*object.Exception)
		if !ok2 {
			return false, true
		}
		if op == "==" {
			return le.ExcType.FQN.Equal(re.ExcType.FQN) && le.Message == re.Message, true
		}
		if op == "!=" {
			eq := le.ExcType.FQN.Equal(re.ExcType.FQN) && le.Message == re.Message
			return !eq, true
		}
		return false, true
	}
	switch a := l.(type) {
	case object.I32:
		b, ok := r.(object.I32)
		if !ok {
			return false, false
		}
		return cmpOrdered(op, float64(a.V), float64(b.V))
	case object.I8:
		b, ok := r.(object.I8)
		if !ok {
			return false, false
		}
		return cmpOrdered(op, float64(a.V), float64(b.V))
	case object.F64:
		b, ok := r.(object.F64)
		if !ok {
			return false, false
		}
		return cmpOrdered(op, a.V, b.V)
	case object.Str:
		b, ok := r.(object.Str)
		if !ok {
			return false, false
		}
		switch op {
		case "==":
			return libspy.StrEq(a.V, b.V), true
		case "!=":
			return !libspy.StrEq(a.V, b.V), true
		case "<":
			return a.V < b.V, true
		case "<=":
			return a.V <= b.V, true
		case ">":
			return a.V > b.V, true
		case ">=":
			return a.V >= b.V, true
		}
	case object.Bool:
		b, ok := r.(object.Bool)
		if !ok {
			return false, false
		}
		switch op {
		case "==":
			return a.V == b.V, true
		case "!=":
			return a.V != b.V, true
		}
	}
	return false, false
}

func cmpOrdered(op string, a, b float64) (bool, bool) {
	switch op {
	case "==":
		return a == b, true
	case "!=":
		return a != b, true
	case "<":
		return a < b, true
	case "<=":
		return a <= b, true
	case ">":
		return a > b, true
	case ">=":
		return a >= b, true
	}
	return false, false
}

func resolveArithFQN(op string, l, r *object.Type) (string, error) {
	if l == object.I32Type && r == object.I32Type {
		switch op {
		case "+":
			return libspy.FQNI32Add, nil
		case "-":
			return libspy.FQNI32Sub, nil
		case "*":
			return libspy.FQNI32Mul, nil
		case "/":
			return libspy.FQNOpIDiv, nil
		case "//":
			return libspy.FQNOpIFloorDiv, nil
		case "%":
			return libspy.FQNOpIMod, nil
		}
	}
	if l == object.F64Type && r == object.F64Type {
		switch op {
		case "+":
			return libspy.FQNF64Add, nil
		case "-":
			return libspy.FQNF64Sub, nil
		case "*":
			return libspy.FQNF64Mul, nil
		case "/":
			return libspy.FQNOpF64Div, nil
		case "//":
			return libspy.FQNOpF64FloorDiv, nil
		case "%":
			return libspy.FQNOpF64Mod, nil
		}
	}
	if l == object.StrType && op == "+" {
		return libspy.FQNStrAdd, nil
	}
	if l == object.StrType && op == "*" && r == object.I32Type {
		return libspy.FQNStrMul, nil
	}
	if l == object.I8Type && r == object.I8Type {
		switch op {
		case "+":
			return libspy.FQNI8Add, nil
		case "-":
			return libspy.FQNI8Sub, nil
		case "*":
			return libspy.FQNI8Mul, nil
		}
	}
	return "", &oparg.NoCandidateError{Capability: binOpCaps[op], Types: []*object.Type{l, r}}
}

func resolveCompareFQN(op string, l, r *object.Type) (string, error) {
	if l == object.I32Type && r == object.I32Type {
		if op == "==" || op == "!=" {
			return libspy.FQNI32Eq, nil
		}
		return libspy.FQNI32Lt, nil
	}
	if l == object.F64Type && r == object.F64Type {
		if op == "==" || op == "!=" {
			return libspy.FQNF64Eq, nil
		}
		return libspy.FQNF64Lt, nil
	}
	if l == object.StrType && r == object.StrType {
		return libspy.FQNStrEq, nil
	}
	if l == object.I8Type && r == object.I8Type {
		if op == "==" || op == "!=" {
			return libspy.FQNI8Eq, nil
		}
		return libspy.FQNI8Lt, nil
	}
	if l == object.BoolType && r == object.BoolType && (op == "==" || op == "!=") {
		return libspy.FQNBoolEq, nil
	}
	return "", &oparg.NoCandidateError{Capability: compareOpCaps[op], Types: []*object.Type{l, r}}
}
